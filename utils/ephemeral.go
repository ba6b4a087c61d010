package utils

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Short-lived values (revoked tokens, OAuth states, login codes, captchas) live in Redis when it
// is configured and in this process otherwise.

type ttlEntry struct {
	value     string
	expiresAt time.Time
}

var (
	memKV   = map[string]ttlEntry{}
	memKVMu sync.Mutex
)

const getDelScript = `local v=redis.call('GET', KEYS[1]); if v then redis.call('DEL', KEYS[1]); end; return v`

func kvContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Second)
}

func kvSet(key, value string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if rc := GetRedis(); rc != nil {
		ctx, cancel := kvContext()
		defer cancel()
		if err := rc.Set(ctx, key, value, ttl).Err(); err == nil {
			return
		}
		Sugar.Warnw("redis set failed, using memory", "key", key)
	}
	memKVMu.Lock()
	memKV[key] = ttlEntry{value: value, expiresAt: time.Now().Add(ttl)}
	memKVMu.Unlock()
}

// kvSetNX stores value only when key is absent and reports whether it did.
func kvSetNX(key, value string, ttl time.Duration) bool {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := kvContext()
		defer cancel()
		ok, err := rc.SetNX(ctx, key, value, ttl).Result()
		if err == nil {
			return ok
		}
	}
	memKVMu.Lock()
	defer memKVMu.Unlock()
	if e, ok := memKV[key]; ok && time.Now().Before(e.expiresAt) {
		return false
	}
	memKV[key] = ttlEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return true
}

func kvGet(key string) (string, bool) {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := kvContext()
		defer cancel()
		v, err := rc.Get(ctx, key).Result()
		if err == nil {
			return v, true
		}
		if errors.Is(err, redis.Nil) {
			return "", false
		}
	}
	memKVMu.Lock()
	defer memKVMu.Unlock()
	return memGetLocked(key)
}

// kvTake reads and deletes key in one step, so a value can be used at most once.
func kvTake(key string) (string, bool) {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := kvContext()
		defer cancel()
		v, err := rc.GetDel(ctx, key).Result()
		if err == nil {
			return v, true
		}
		if errors.Is(err, redis.Nil) {
			return "", false
		}
		// GETDEL needs Redis 6.2
		res, err := rc.Eval(ctx, getDelScript, []string{key}).Result()
		if err == nil {
			s, ok := res.(string)
			return s, ok
		}
		if errors.Is(err, redis.Nil) {
			return "", false
		}
	}
	memKVMu.Lock()
	defer memKVMu.Unlock()
	v, ok := memGetLocked(key)
	delete(memKV, key)
	return v, ok
}

func memGetLocked(key string) (string, bool) {
	e, ok := memKV[key]
	if !ok {
		return "", false
	}
	if time.Now().After(e.expiresAt) {
		delete(memKV, key)
		return "", false
	}
	return e.value, true
}
