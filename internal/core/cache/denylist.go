package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist records revoked token ids until the token would have expired.
type Denylist struct{ c *Cache }

func NewDenylist(c *Cache) *Denylist { return &Denylist{c: c} }

func revokedKey(jti string) string { return "revoked:" + jti }

func (d *Denylist) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return d.c.RDB.Set(ctx, d.c.key(revokedKey(jti)), 1, ttl).Err()
}

func (d *Denylist) Revoked(ctx context.Context, jti string) (bool, error) {
	err := d.c.RDB.Get(ctx, d.c.key(revokedKey(jti))).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, err
	}
}
