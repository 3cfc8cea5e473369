package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// refreshTokenBytes is the entropy of a refresh token before encoding.
const refreshTokenBytes = 32

// ErrMissingSecret is returned when the service is built without a signing
// secret. This is a startup misconfiguration, never a per-request condition.
var ErrMissingSecret = errors.New("jwt signing secret is not configured")

// Claims represents the identity claims carried by an access token.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenUser is the subset of the user record encoded into access tokens.
type TokenUser struct {
	ID    uint
	Email string
	Role  string
}

// TokenService issues signed access tokens and opaque refresh tokens.
// It has no storage dependency; refresh tokens only become meaningful once
// the caller persists them as a session.
type TokenService struct {
	secret     []byte
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a token service. An empty secret is rejected so
// misconfiguration is caught at startup rather than on the first login.
func NewTokenService(secret, issuer, audience string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &TokenService{
		secret:     []byte(secret),
		issuer:     issuer,
		audience:   audience,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// Secret exposes the signing key for middleware that verifies bearer tokens.
func (s *TokenService) Secret() []byte {
	return s.secret
}

// CreateAccessToken generates a signed, time-boxed access token for the user.
func (s *TokenService) CreateAccessToken(user TokenUser) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   fmt.Sprintf("%d", user.ID),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// CreateRefreshToken generates a cryptographically random refresh token.
// No claims are embedded; the token is a pure capability pointer resolved
// only through the session store.
func (s *TokenService) CreateRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// RefreshExpiry returns the expiry timestamp for a refresh session issued now.
func (s *TokenService) RefreshExpiry() time.Time {
	return time.Now().Add(s.refreshTTL)
}

// ParseAccessToken validates a signed access token and returns its claims.
func (s *TokenService) ParseAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
