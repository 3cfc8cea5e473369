package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fintrack/internal/model"
)

func TestRequireUser_NoCredentials(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := RequireUser(NewResolverChain(new(MockSessionRepository)))
	handler := mw(func(c echo.Context) error {
		t.Fatal("handler should not run")
		return nil
	})

	assert.NoError(t, handler(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestRequireUser_SessionCookie(t *testing.T) {
	mockRepo := new(MockSessionRepository)
	mockRepo.On("FindByToken", mock.Anything, "cookie-token").
		Return(&model.Session{UserID: 12, ExpiresAt: time.Now().Add(time.Hour)}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: "cookie-token"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var resolved uint
	mw := RequireUser(NewResolverChain(mockRepo))
	handler := mw(func(c echo.Context) error {
		id, ok := UserID(c)
		assert.True(t, ok)
		resolved = id
		return c.NoContent(http.StatusOK)
	})

	assert.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(12), resolved)
}
