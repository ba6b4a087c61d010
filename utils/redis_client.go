package utils

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cppla/wemake/config"
)

var (
	redisClient *redis.Client
	redisMu     sync.RWMutex
)

// InitRedis connects to Redis when it is enabled. On a failed ping the client is dropped and the
// error returned; callers then run on the in-memory fallbacks.
func InitRedis(cfg config.AppConfig) error {
	if !cfg.RedisEnabled {
		SetRedis(nil)
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		SetRedis(nil)
		return err
	}
	SetRedis(client)
	return nil
}

// SetRedis replaces the shared client. Nil disables Redis-backed caching and state.
func SetRedis(c *redis.Client) {
	redisMu.Lock()
	redisClient = c
	redisMu.Unlock()
}

// GetRedis returns the shared client, or nil when Redis is disabled.
func GetRedis() *redis.Client {
	redisMu.RLock()
	defer redisMu.RUnlock()
	return redisClient
}

// CloseRedis closes the shared client if any.
func CloseRedis() {
	if rc := GetRedis(); rc != nil {
		_ = rc.Close()
		SetRedis(nil)
	}
}
