package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"storefront-web/internal/domain"
	"storefront-web/internal/logging"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheNamespace = "session"

// redisClient is the subset of go-redis used by the cache.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type cachedRepo struct {
	inner  Repository
	rdb    redisClient
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewCached wraps inner with a Redis read-through cache. Redis failures are
// logged and fall back to inner, so the cache never fails a request.
//
// Read fills only populate an absent key and writes overwrite it, so a fill
// that read the database before a concurrent ReplaceIdentity cannot replace
// the newer entry.
func NewCached(inner Repository, rdb redisClient, ttl time.Duration, logger *zap.Logger) Repository {
	return &cachedRepo{
		inner:  inner,
		rdb:    rdb,
		ttl:    ttl,
		now:    time.Now,
		logger: logging.OrNop(logger).Named("session_cache"),
	}
}

func cacheKey(id string) string {
	return cacheNamespace + ":" + id
}

func (c *cachedRepo) Create(ctx context.Context, s Session) (*Session, error) {
	out, err := c.inner.Create(ctx, s)
	if err != nil {
		return nil, err
	}
	c.store(ctx, out, true)
	return out, nil
}

func (c *cachedRepo) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := c.rdb.Get(ctx, cacheKey(id)).Bytes()
	switch {
	case err == nil:
		var s Session
		if jerr := json.Unmarshal(raw, &s); jerr == nil {
			return &s, nil
		}
		c.logger.Warn("dropping unreadable cache entry", zap.String("session_id", id))
		c.evict(ctx, id)
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("cache read failed", zap.String("session_id", id), zap.Error(err))
	}

	s, err := c.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, s, false)
	return s, nil
}

func (c *cachedRepo) ReplaceIdentity(ctx context.Context, id string, identity domain.Identity) error {
	if err := c.inner.ReplaceIdentity(ctx, id, identity); err != nil {
		return err
	}
	fresh, err := c.inner.Get(ctx, id)
	if err != nil || !c.store(ctx, fresh, true) {
		c.evict(ctx, id)
	}
	return nil
}

func (c *cachedRepo) Delete(ctx context.Context, id string) error {
	c.evict(ctx, id)
	return c.inner.Delete(ctx, id)
}

func (c *cachedRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	// Cache entries never outlive their session, see store.
	return c.inner.DeleteExpired(ctx, now)
}

// store caches s for at most the cache TTL and never past its expiry. With
// overwrite false an existing entry is left alone. It reports whether the
// entry now reflects s.
func (c *cachedRepo) store(ctx context.Context, s *Session, overwrite bool) bool {
	ttl := c.ttl
	if !s.ExpiresAt.IsZero() {
		if left := s.ExpiresAt.Sub(c.now()); left < ttl {
			ttl = left
		}
	}
	if ttl <= 0 {
		return false
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return false
	}
	key := cacheKey(s.ID)
	if overwrite {
		err = c.rdb.Set(ctx, key, raw, ttl).Err()
	} else {
		err = c.rdb.SetNX(ctx, key, raw, ttl).Err()
	}
	if err != nil {
		c.logger.Warn("cache write failed", zap.String("session_id", s.ID), zap.Error(err))
		return false
	}
	return true
}

func (c *cachedRepo) evict(ctx context.Context, id string) {
	if err := c.rdb.Del(ctx, cacheKey(id)).Err(); err != nil {
		c.logger.Warn("cache evict failed", zap.String("session_id", id), zap.Error(err))
	}
}
