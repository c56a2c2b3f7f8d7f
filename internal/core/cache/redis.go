package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

type Cache struct {
	RDB    *redis.Client
	Prefix string
	sf     singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	return NewFromClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}))
}

func NewFromClient(rdb *redis.Client) *Cache { return &Cache{RDB: rdb, Prefix: "fitdesk:"} }

func (c *Cache) key(k string) string { return c.Prefix + k }

func (c *Cache) Ping(ctx context.Context) error { return c.RDB.Ping(ctx).Err() }

func (c *Cache) Close() error { return c.RDB.Close() }

// genTTL bounds how long an invalidation generation outlives its entry. It
// only has to cover one load.
const genTTL = time.Hour

func genKey(full string) string { return full + ":gen" }

// GetOrLoad returns the cached bytes for key, or runs load once per key across
// concurrent callers and caches its result for ttl. A result whose key was
// invalidated while it loaded is returned but not cached. Cache write failures
// are ignored; the loaded value is still returned.
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	k := c.key(key)
	if b, err := c.RDB.Get(ctx, k).Bytes(); err == nil {
		return b, nil
	}
	v, err, _ := c.sf.Do(k, func() (any, error) {
		gen, genErr := c.RDB.Get(ctx, genKey(k)).Int64()
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		if genErr == nil || errors.Is(genErr, redis.Nil) {
			_ = c.fill(ctx, k, gen, b, ttl)
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// fill writes b under k unless k's generation moved past gen.
func (c *Cache) fill(ctx context.Context, k string, gen int64, b []byte, ttl time.Duration) error {
	gk := genKey(k)
	return c.RDB.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, gk).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, k, b, ttl)
			return nil
		})
		return err
	}, gk)
}

// Invalidate deletes keys and bumps their generations, so loads already in
// flight cannot write the old value back.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := c.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, key := range keys {
			k := c.key(key)
			c.sf.Forget(k)
			p.Incr(ctx, genKey(k))
			p.Expire(ctx, genKey(k), genTTL)
			p.Del(ctx, k)
		}
		return nil
	})
	return err
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.RDB.Del(ctx, full...).Err()
}
