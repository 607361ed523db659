package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const healthCheckTimeout = 2 * time.Second

// Options tunes the connection pool behind the response cache. Zero values
// fall back to the defaults below.
type Options struct {
	Addr        string
	Password    string
	DB          int
	PoolSize    int
	OpTimeout   time.Duration
	DialTimeout time.Duration
}

// RedisClient owns the connection backing the response cache.
type RedisClient struct {
	Client *redis.Client
}

func NewRedisClient(opts Options) *RedisClient {
	if opts.PoolSize <= 0 {
		opts.PoolSize = 10
	}
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = 500 * time.Millisecond
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 2 * time.Second
	}

	return &RedisClient{
		Client: redis.NewClient(&redis.Options{
			Addr:         opts.Addr,
			Password:     opts.Password,
			DB:           opts.DB,
			PoolSize:     opts.PoolSize,
			MinIdleConns: opts.PoolSize / 2,
			// A slow cache must not hold up a request that can go to the database.
			MaxRetries:   1,
			DialTimeout:  opts.DialTimeout,
			ReadTimeout:  opts.OpTimeout,
			WriteTimeout: opts.OpTimeout,
		}),
	}
}

// Connect verifies the server answers. The API keeps serving without Redis,
// so callers may treat a failure as a warning.
func (r *RedisClient) Connect(ctx context.Context) error {
	if err := r.HealthCheck(ctx); err != nil {
		return err
	}

	log.Info().Str("addr", r.Client.Options().Addr).Msg("redis connected")
	return nil
}

func (r *RedisClient) HealthCheck(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	return nil
}

func (r *RedisClient) Close() error {
	if r.Client == nil {
		return nil
	}
	return r.Client.Close()
}
