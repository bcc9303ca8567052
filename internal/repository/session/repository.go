package session

import (
	"context"
	"time"

	"storefront-web/internal/domain"
)

// Session is a signed-in browser session and the identity cached for it.
type Session struct {
	ID        string          `json:"id"`
	Token     string          `json:"token"`
	Identity  domain.Identity `json:"identity"`
	CreatedAt time.Time       `json:"createdAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Repository persists sessions. Identity is only ever replaced as a whole.
type Repository interface {
	Create(ctx context.Context, s Session) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	ReplaceIdentity(ctx context.Context, id string, identity domain.Identity) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
