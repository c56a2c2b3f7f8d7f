package cache

import (
	"context"
	"time"

	"fitdesk/internal/domain"
)

// AccountCache keeps short-lived copies of accounts for per-request
// authorization checks. Entries must be invalidated on every account write.
type AccountCache struct {
	c   *Cache
	ttl time.Duration
}

func NewAccountCache(c *Cache, ttl time.Duration) *AccountCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &AccountCache{c: c, ttl: ttl}
}

func accountKey(id string) string { return "account:" + id }

// cachedAccount keeps the fields domain.Account hides from JSON out of the
// cache entirely.
type cachedAccount struct {
	ID       string        `json:"id"`
	Email    string        `json:"email"`
	FullName string        `json:"full_name"`
	Role     domain.Role   `json:"role"`
	Status   domain.Status `json:"status"`
}

func (ac *AccountCache) Get(ctx context.Context, id string, load func(context.Context) (*domain.Account, error)) (*domain.Account, error) {
	v, err := GetOrLoadJSON(ac.c, ctx, accountKey(id), ac.ttl, func(ctx context.Context) (*cachedAccount, error) {
		a, err := load(ctx)
		if err != nil || a == nil {
			return nil, err
		}
		return &cachedAccount{ID: a.ID, Email: a.Email, FullName: a.FullName, Role: a.Role, Status: a.Status}, nil
	})
	if err != nil || v == nil {
		return nil, err
	}
	return &domain.Account{ID: v.ID, Email: v.Email, FullName: v.FullName, Role: v.Role, Status: v.Status}, nil
}

func (ac *AccountCache) Invalidate(ctx context.Context, id string) error {
	return ac.c.Invalidate(ctx, accountKey(id))
}
