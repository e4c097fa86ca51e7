package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Redis backs Service with a Redis instance. Every transport error is logged
// and reported as a miss or no-op, never returned to the caller.
type Redis struct {
	rdb *redis.Client
	log zerolog.Logger
}

func NewRedis(ctx context.Context, addr string, log zerolog.Logger) *Redis {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", addr).Msg("redis unreachable, caching degraded to always-miss")
	}
	return &Redis{rdb: rdb, log: log}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Debug().Err(err).Str("key", key).Msg("cache get failed")
		}
		return nil, false
	}
	return b, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := r.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		r.log.Debug().Err(err).Str("key", key).Msg("cache set failed")
	}
}

func (r *Redis) DeleteByPattern(ctx context.Context, pattern string) int {
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := r.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			r.log.Debug().Err(err).Str("pattern", pattern).Msg("cache scan failed")
			return deleted
		}
		if len(keys) > 0 {
			n, err := r.rdb.Del(ctx, keys...).Result()
			if err != nil {
				r.log.Debug().Err(err).Str("pattern", pattern).Msg("cache del failed")
				return deleted
			}
			deleted += int(n)
		}
		cursor = next
		if cursor == 0 {
			return deleted
		}
	}
}

func (r *Redis) Close() error { return r.rdb.Close() }
