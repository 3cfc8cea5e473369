package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fintrack/internal/auth"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockSessionRepository is a mock implementation of SessionRepository.
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *model.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func newTestTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret", "fintrack", "fintrack-web", time.Hour, 7*24*time.Hour)
	assert.NoError(t, err)
	return tokens
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository, *MockSessionRepository)
		expectedError error
	}{
		{
			name:     "successful registration",
			email:    "new@example.com",
			password: "password123",
			setupMock: func(mUsers *MockUserRepository, mSessions *MockSessionRepository) {
				mUsers.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
				mUsers.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Run(func(args mock.Arguments) {
					args.Get(1).(*model.User).ID = 1
				}).Return(nil)
				mSessions.On("Create", mock.Anything, mock.AnythingOfType("*model.Session")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "email already exists",
			email:    "existing@example.com",
			password: "password123",
			setupMock: func(mUsers *MockUserRepository, mSessions *MockSessionRepository) {
				mUsers.On("FindByEmail", mock.Anything, "existing@example.com").
					Return(&model.User{ID: 2, Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
		{
			name:     "duplicate caught at insert",
			email:    "raced@example.com",
			password: "password123",
			setupMock: func(mUsers *MockUserRepository, mSessions *MockSessionRepository) {
				mUsers.On("FindByEmail", mock.Anything, "raced@example.com").Return(nil, gorm.ErrRecordNotFound)
				mUsers.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsers := new(MockUserRepository)
			mockSessions := new(MockSessionRepository)
			tt.setupMock(mockUsers, mockSessions)

			service := NewAuthService(mockUsers, mockSessions, newTestTokenService(t))
			result, err := service.Register(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, result.AccessToken)
				assert.NotEmpty(t, result.RefreshToken)
				assert.Equal(t, tt.email, result.User.Email)
				assert.Equal(t, "User", result.User.Role)
				assert.NotEmpty(t, result.User.PasswordHash)
				assert.NotEqual(t, tt.password, result.User.PasswordHash)
				assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), result.RefreshExpiry, time.Minute)
			}

			mockUsers.AssertExpectations(t)
			mockSessions.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository, *MockSessionRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "user@example.com",
			password: "password123",
			setupMock: func(mUsers *MockUserRepository, mSessions *MockSessionRepository) {
				mUsers.On("FindByEmail", mock.Anything, "user@example.com").Return(&model.User{
					ID:           4,
					Email:        "user@example.com",
					PasswordHash: string(hashed),
					Role:         "User",
				}, nil)
				mSessions.On("Create", mock.Anything, mock.AnythingOfType("*model.Session")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "password123",
			setupMock: func(mUsers *MockUserRepository, mSessions *MockSessionRepository) {
				mUsers.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "user@example.com",
			password: "wrong-password",
			setupMock: func(mUsers *MockUserRepository, mSessions *MockSessionRepository) {
				mUsers.On("FindByEmail", mock.Anything, "user@example.com").Return(&model.User{
					ID:           4,
					Email:        "user@example.com",
					PasswordHash: string(hashed),
					Role:         "User",
				}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsers := new(MockUserRepository)
			mockSessions := new(MockSessionRepository)
			tt.setupMock(mockUsers, mockSessions)

			service := NewAuthService(mockUsers, mockSessions, newTestTokenService(t))
			result, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				// Unknown email and wrong password are indistinguishable.
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, result.AccessToken)
				assert.NotEmpty(t, result.RefreshToken)
				assert.Equal(t, tt.email, result.User.Email)
			}

			mockUsers.AssertExpectations(t)
			mockSessions.AssertExpectations(t)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	tokens := newTestTokenService(t)

	t.Run("successful refresh yields token for session owner", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockSessions := new(MockSessionRepository)
		mockSessions.On("FindByToken", mock.Anything, "valid-token").Return(&model.Session{
			RefreshToken: "valid-token",
			UserID:       8,
			ExpiresAt:    time.Now().Add(24 * time.Hour),
		}, nil)
		mockUsers.On("FindByID", mock.Anything, uint(8)).Return(&model.User{
			ID:    8,
			Email: "owner@example.com",
			Role:  "User",
		}, nil)

		service := NewAuthService(mockUsers, mockSessions, tokens)
		result, err := service.Refresh(context.Background(), "valid-token")

		assert.NoError(t, err)
		assert.Empty(t, result.RefreshToken)

		claims, err := tokens.ParseAccessToken(result.AccessToken)
		assert.NoError(t, err)
		assert.Equal(t, uint(8), claims.UserID)

		mockUsers.AssertExpectations(t)
		mockSessions.AssertExpectations(t)
	})

	t.Run("expired session fails and is left in place", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockSessions := new(MockSessionRepository)
		mockSessions.On("FindByToken", mock.Anything, "stale-token").Return(&model.Session{
			RefreshToken: "stale-token",
			UserID:       8,
			ExpiresAt:    time.Now().Add(-time.Minute),
		}, nil)

		service := NewAuthService(mockUsers, mockSessions, tokens)
		result, err := service.Refresh(context.Background(), "stale-token")

		assert.ErrorIs(t, err, apperrors.ErrInvalidSession)
		assert.Nil(t, result)
		mockSessions.AssertNotCalled(t, "DeleteByToken", mock.Anything, mock.Anything)
	})

	t.Run("unknown token", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockSessions := new(MockSessionRepository)
		mockSessions.On("FindByToken", mock.Anything, "unknown").Return(nil, gorm.ErrRecordNotFound)

		service := NewAuthService(mockUsers, mockSessions, tokens)
		result, err := service.Refresh(context.Background(), "unknown")

		assert.ErrorIs(t, err, apperrors.ErrInvalidSession)
		assert.Nil(t, result)
	})

	t.Run("missing cookie", func(t *testing.T) {
		service := NewAuthService(new(MockUserRepository), new(MockSessionRepository), tokens)
		result, err := service.Refresh(context.Background(), "")

		assert.ErrorIs(t, err, apperrors.ErrInvalidSession)
		assert.Nil(t, result)
	})
}

func TestAuthService_Logout(t *testing.T) {
	tokens := newTestTokenService(t)

	t.Run("deletes matching session", func(t *testing.T) {
		mockSessions := new(MockSessionRepository)
		mockSessions.On("DeleteByToken", mock.Anything, "some-token").Return(nil)

		service := NewAuthService(new(MockUserRepository), mockSessions, tokens)
		assert.NoError(t, service.Logout(context.Background(), "some-token"))
		mockSessions.AssertExpectations(t)
	})

	t.Run("missing cookie is not an error", func(t *testing.T) {
		mockSessions := new(MockSessionRepository)

		service := NewAuthService(new(MockUserRepository), mockSessions, tokens)
		assert.NoError(t, service.Logout(context.Background(), ""))
		mockSessions.AssertNotCalled(t, "DeleteByToken", mock.Anything, mock.Anything)
	})
}
