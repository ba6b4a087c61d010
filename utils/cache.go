package utils

import (
	"context"
	"encoding/json"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Response cache keys all start with "cache:". Without Redis every lookup misses and writes are
// dropped, so handlers always fall through to the database.

const (
	defaultCacheTTL = time.Hour
	cacheOpTimeout  = 2 * time.Second
)

var cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "wemake_cache_lookups_total",
	Help: "Response cache lookups by result.",
}, []string{"result"})

func cacheContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, cacheOpTimeout)
}

// CacheGet returns the raw bytes cached under key.
func CacheGet(ctx context.Context, key string) ([]byte, bool) {
	rc := GetRedis()
	if rc == nil {
		cacheLookups.WithLabelValues("disabled").Inc()
		return nil, false
	}
	cctx, cancel := cacheContext(ctx)
	defer cancel()
	b, err := rc.Get(cctx, key).Bytes()
	if err != nil {
		cacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	cacheLookups.WithLabelValues("hit").Inc()
	return b, true
}

// CacheSet stores v as JSON under key. A non-positive ttl means the default of one hour.
func CacheSet(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	rc := GetRedis()
	if rc == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		Sugar.Warnw("cache marshal failed", "key", key, "err", err)
		return
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	cctx, cancel := cacheContext(ctx)
	defer cancel()
	if err := rc.Set(cctx, key, b, ttl).Err(); err != nil {
		Sugar.Warnw("cache set failed", "key", key, "err", err)
	}
}

// InvalidateByPrefix unlinks every key under each prefix, scanning in bounded rounds.
func InvalidateByPrefix(ctx context.Context, prefixes ...string) {
	rc := GetRedis()
	if rc == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	// Invalidation runs after the write committed, so a client hang-up must not skip it.
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	for _, prefix := range prefixes {
		var cursor uint64
		for round := 0; round < 10; round++ {
			keys, next, err := rc.Scan(cctx, cursor, prefix+"*", 1000).Result()
			if err != nil {
				Sugar.Warnw("cache invalidate failed", "prefix", prefix, "err", err)
				break
			}
			if len(keys) > 0 {
				_ = rc.Unlink(cctx, keys...).Err()
			}
			if cursor = next; cursor == 0 {
				break
			}
		}
	}
}
