package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	apperrors "fintrack/internal/errors"
)

const (
	// RefreshCookieName is the cookie carrying the refresh token.
	RefreshCookieName = "refresh_token"
	// ContextUserIDKey is the echo context key holding the resolved user id.
	ContextUserIDKey = "userID"
)

// RequireUser resolves the request's identity through the given chain and
// stores the user id in the echo context. Requests that resolve to no user
// are rejected with 401. It expects to run after the (lenient) echo-jwt
// middleware, which leaves a verified *jwt.Token under "user" when a valid
// bearer token was presented.
func RequireUser(chain Chain) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cred := Credentials{}

			if cookie, err := c.Cookie(RefreshCookieName); err == nil && cookie.Value != "" {
				cred.RefreshToken = cookie.Value
			}
			if token, ok := c.Get("user").(*jwt.Token); ok {
				if claims, ok := token.Claims.(*Claims); ok {
					cred.Claims = claims
				}
			}

			userID, err := chain.Resolve(c.Request().Context(), cred)
			if err != nil {
				httpErr := apperrors.MapErrorToHTTP(err)
				return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
			}

			c.Set(ContextUserIDKey, userID)
			return next(c)
		}
	}
}

// UserID reads the resolved user id from the echo context.
func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(ContextUserIDKey).(uint)
	return id, ok
}
