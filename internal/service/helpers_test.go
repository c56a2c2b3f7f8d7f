package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fitdesk/internal/core/auth"
	"fitdesk/internal/domain"
)

func newTokens() *auth.JWTer { return auth.NewJWTer("test-secret", "fitdesk-test", time.Hour) }

func seedAccount(t *testing.T, us *UserService, email, password string, role domain.Role) *domain.Account {
	t.Helper()
	a, err := us.Create(context.Background(), CreateUserInput{
		Email:    email,
		Password: password,
		FullName: email,
		Role:     role.String(),
	})
	require.NoError(t, err)
	return a
}

type memDenylist struct {
	mu   sync.Mutex
	ids  map[string]time.Time
	down error
}

func (d *memDenylist) Revoke(_ context.Context, jti string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ids == nil {
		d.ids = map[string]time.Time{}
	}
	d.ids[jti] = until
	return nil
}

func (d *memDenylist) Revoked(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.down != nil {
		return false, d.down
	}
	_, ok := d.ids[jti]
	return ok, nil
}

// memCache never expires; it only forgets on Invalidate.
type memCache struct {
	mu          sync.Mutex
	items       map[string]domain.Account
	invalidated []string
}

func (c *memCache) Get(ctx context.Context, id string, load func(context.Context) (*domain.Account, error)) (*domain.Account, error) {
	c.mu.Lock()
	if a, ok := c.items[id]; ok {
		c.mu.Unlock()
		return &a, nil
	}
	c.mu.Unlock()
	a, err := load(ctx)
	if err != nil || a == nil {
		return a, err
	}
	c.mu.Lock()
	if c.items == nil {
		c.items = map[string]domain.Account{}
	}
	c.items[id] = *a
	c.mu.Unlock()
	return a, nil
}

func (c *memCache) Invalidate(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}
