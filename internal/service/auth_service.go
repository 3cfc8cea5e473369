package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fintrack/internal/auth"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/model"
	"fintrack/internal/repository"
)

const bcryptCost = 10

// AuthResult is the outcome of a successful auth operation. RefreshToken and
// RefreshExpiry are set only when a new session was issued (register/login);
// Refresh reuses the caller's existing session.
type AuthResult struct {
	AccessToken   string
	User          *model.User
	RefreshToken  string
	RefreshExpiry time.Time
}

// AuthService orchestrates register, login, refresh and logout.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	tokens   *auth.TokenService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, tokens *auth.TokenService) AuthService {
	return &authService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
	}
}

// Register creates a new user with a hashed password and issues a session.
// The duplicate-email check runs twice: optimistically before the insert and
// again by catching the uniqueness violation, which closes the race window
// between check and insert.
func (s *authService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email existence: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hashed),
		Role:         "User",
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issueSession(ctx, user)
}

// Login authenticates a user and issues a session. A missing user and a
// failed password check are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueSession(ctx, user)
}

// Refresh exchanges a stored, non-expired session for a fresh access token.
// The refresh token is not rotated and the session expiry is not extended.
// An expired session fails the exchange but is left in place.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, apperrors.ErrInvalidSession
	}

	session, err := s.sessions.FindByToken(ctx, refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidSession
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, apperrors.ErrInvalidSession
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidSession
	}

	accessToken, err := s.tokens.CreateAccessToken(auth.TokenUser{ID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &AuthResult{AccessToken: accessToken, User: user}, nil
}

// Logout deletes the session matching the refresh token. A missing or
// unknown token is not an error; logout is idempotent.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.sessions.DeleteByToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// issueSession creates a refresh session for the user and returns it
// together with a fresh access token.
func (s *authService) issueSession(ctx context.Context, user *model.User) (*AuthResult, error) {
	refreshToken, err := s.tokens.CreateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	expiresAt := s.tokens.RefreshExpiry()
	session := &model.Session{
		RefreshToken: refreshToken,
		UserID:       user.ID,
		ExpiresAt:    expiresAt,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	accessToken, err := s.tokens.CreateAccessToken(auth.TokenUser{ID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &AuthResult{
		AccessToken:   accessToken,
		User:          user,
		RefreshToken:  refreshToken,
		RefreshExpiry: expiresAt,
	}, nil
}
