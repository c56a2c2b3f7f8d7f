package service

import (
	"context"
	"time"

	"fitdesk/internal/core/auth"
	"fitdesk/internal/domain"
)

// TokenService issues and validates session tokens.
type TokenService interface {
	Issue(a *domain.Account) (string, time.Time, error)
	Validate(token string) (*auth.Claims, bool)
}

// AccountCache is an optional read-through cache for authorization lookups.
type AccountCache interface {
	Get(ctx context.Context, id string, load func(context.Context) (*domain.Account, error)) (*domain.Account, error)
	Invalidate(ctx context.Context, id string) error
}

// TokenDenylist is an optional store of revoked token ids.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	Revoked(ctx context.Context, jti string) (bool, error)
}
