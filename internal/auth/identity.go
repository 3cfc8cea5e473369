package auth

import (
	"context"
	"strconv"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/repository"
)

// Credentials carries the raw credential material extracted from an inbound
// request: the refresh cookie value (if any) and the decoded bearer claims
// (if the boundary layer verified one). Either or both may be absent.
type Credentials struct {
	RefreshToken string
	Claims       *Claims
}

// Resolver maps request credentials to a user id. Implementations return
// ok=false when their credential source is absent or does not resolve,
// letting the next resolver in the chain try.
type Resolver interface {
	Resolve(ctx context.Context, cred Credentials) (userID uint, ok bool)
}

// SessionResolver resolves identity through the session store by exact
// refresh-token match. It deliberately performs no expiry check: session
// expiry only gates the refresh operation itself.
type SessionResolver struct {
	Sessions repository.SessionRepository
}

// Resolve implements Resolver.
func (r *SessionResolver) Resolve(ctx context.Context, cred Credentials) (uint, bool) {
	if cred.RefreshToken == "" {
		return 0, false
	}
	session, err := r.Sessions.FindByToken(ctx, cred.RefreshToken)
	if err != nil {
		return 0, false
	}
	return session.UserID, true
}

// ClaimsResolver resolves identity from verified bearer-token claims.
// The subject claim is the primary source; the user_id claim is the fallback.
type ClaimsResolver struct{}

// Resolve implements Resolver.
func (r *ClaimsResolver) Resolve(_ context.Context, cred Credentials) (uint, bool) {
	if cred.Claims == nil {
		return 0, false
	}
	if id, err := strconv.ParseUint(cred.Claims.Subject, 10, 64); err == nil {
		return uint(id), true
	}
	if cred.Claims.UserID != 0 {
		return cred.Claims.UserID, true
	}
	return 0, false
}

// Chain tries resolvers in order; the first success wins.
type Chain []Resolver

// Resolve returns the resolved user id or ErrUnauthenticated when no
// resolver succeeds.
func (c Chain) Resolve(ctx context.Context, cred Credentials) (uint, error) {
	for _, r := range c {
		if id, ok := r.Resolve(ctx, cred); ok {
			return id, nil
		}
	}
	return 0, apperrors.ErrUnauthenticated
}

// NewResolverChain builds the standard resolution order: cookie session
// first, bearer claims second.
func NewResolverChain(sessions repository.SessionRepository) Chain {
	return Chain{
		&SessionResolver{Sessions: sessions},
		&ClaimsResolver{},
	}
}
