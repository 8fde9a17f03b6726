// Package session keeps the per-browser state of the console: the backend
// token, the logged-in user snapshot and the prescription draft images.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/diewo77/go-pharmacy/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

type Session struct {
	ID          string
	Token       string
	User        models.User
	DraftImages []string
	ExpiresAt   time.Time
}

// New creates a session for token with a fresh id. The expiry comes from the
// token when it carries one.
func New(token string, user models.User, ttl time.Duration, now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Token:     token,
		User:      user,
		ExpiresAt: ExpiryFromToken(token, ttl, now),
	}
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// Store persists sessions.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// Purger is implemented by stores that need expired rows removed.
type Purger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// ExpiryFromToken reads the exp claim of a JWT without verifying it.
// Tokens without a usable exp get now+ttl.
func ExpiryFromToken(token string, ttl time.Duration, now time.Time) time.Time {
	fallback := now.Add(ttl)
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return fallback
	}
	if claims.ExpiresAt == nil {
		return fallback
	}
	return claims.ExpiresAt.Time
}
