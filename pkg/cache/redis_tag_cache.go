package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	defaultPrefix         = "bookapi"
	defaultTTL            = time.Hour
	defaultProduceTimeout = 30 * time.Second
)

// Options configures a RedisTagCache.
type Options struct {
	Prefix string        // namespace for every key written by the cache
	TTL    time.Duration // lifetime of cached entries

	// ProduceTimeout bounds a shared producer call, which no longer follows
	// the context of the caller that started it.
	ProduceTimeout time.Duration
}

// entry is the stored form of a cached value. Tags records the version of
// every tag at the moment the value was produced.
type entry struct {
	Value []byte           `json:"v"`
	Tags  map[string]int64 `json:"t,omitempty"`
}

// RedisTagCache implements TagAwareCache on Redis using tag version counters.
//
// Invalidating a tag increments its counter; an entry is served only while
// all of its recorded tag versions are current. Concurrent misses on the same
// key share a single producer call. Redis failures never fail a read: the
// producer result is returned directly.
type RedisTagCache struct {
	client         redis.UniversalClient
	prefix         string
	ttl            time.Duration
	produceTimeout time.Duration
	group          singleflight.Group
}

// NewRedisTagCache creates a tag aware cache on top of client.
func NewRedisTagCache(client redis.UniversalClient, opts Options) *RedisTagCache {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if opts.Prefix == "" {
		opts.Prefix = defaultPrefix
	}
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.ProduceTimeout <= 0 {
		opts.ProduceTimeout = defaultProduceTimeout
	}
	return &RedisTagCache{
		client:         client,
		prefix:         opts.Prefix,
		ttl:            opts.TTL,
		produceTimeout: opts.ProduceTimeout,
	}
}

func (c *RedisTagCache) itemKey(key string) string {
	return c.prefix + ":item:" + key
}

func (c *RedisTagCache) tagKey(tag string) string {
	return c.prefix + ":tag:" + tag
}

// Get implements TagAwareCache.
func (c *RedisTagCache) Get(ctx context.Context, key string, produce Producer, tags ...string) ([]byte, error) {
	if value, ok := c.lookup(ctx, key); ok {
		CacheHits.Inc()
		return value, nil
	}
	CacheMisses.Inc()

	// The flight is shared by every caller waiting on key, so it must not
	// be canceled by whichever request happened to start it.
	flight := c.group.DoChan(key, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.produceTimeout)
		defer cancel()

		// A flight that finished just before this one may have stored the value.
		if value, ok := c.lookup(fctx, key); ok {
			return value, nil
		}

		// Versions are read before producing so that an invalidation racing
		// with the producer leaves a stale version behind.
		versions, verr := c.tagVersions(fctx, tags)

		value, err := produce(fctx)
		if err != nil {
			return nil, err
		}

		if verr == nil {
			c.store(fctx, key, value, versions)
		}
		return value, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-flight:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// InvalidateTags implements TagAwareCache.
func (c *RedisTagCache) InvalidateTags(ctx context.Context, tags ...string) error {
	if len(tags) == 0 {
		return nil
	}

	pipe := c.client.TxPipeline()
	for _, tag := range tags {
		pipe.Incr(ctx, c.tagKey(tag))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		CacheErrors.WithLabelValues("invalidate").Inc()
		return fmt.Errorf("invalidate tags %v: %w", tags, err)
	}

	for _, tag := range tags {
		CacheInvalidations.WithLabelValues(tag).Inc()
	}
	log.Debug().Strs("tags", tags).Msg("cache tags invalidated")
	return nil
}

func (c *RedisTagCache) lookup(ctx context.Context, key string) ([]byte, bool) {
	raw, err := c.client.Get(ctx, c.itemKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.fail("get", key, err)
		}
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		c.fail("decode", key, err)
		return nil, false
	}

	if len(e.Tags) == 0 {
		return e.Value, true
	}

	tags := make([]string, 0, len(e.Tags))
	for tag := range e.Tags {
		tags = append(tags, tag)
	}
	current, err := c.tagVersions(ctx, tags)
	if err != nil {
		return nil, false
	}
	for tag, version := range e.Tags {
		if current[tag] != version {
			return nil, false
		}
	}
	return e.Value, true
}

func (c *RedisTagCache) store(ctx context.Context, key string, value []byte, versions map[string]int64) {
	data, err := json.Marshal(entry{Value: value, Tags: versions})
	if err != nil {
		c.fail("set", key, err)
		return
	}
	if err := c.client.Set(ctx, c.itemKey(key), data, c.ttl).Err(); err != nil {
		c.fail("set", key, err)
	}
}

// tagVersions reads the current counter of every tag. Unknown tags are at version 0.
func (c *RedisTagCache) tagVersions(ctx context.Context, tags []string) (map[string]int64, error) {
	versions := make(map[string]int64, len(tags))
	if len(tags) == 0 {
		return versions, nil
	}

	keys := make([]string, len(tags))
	for i, tag := range tags {
		keys[i] = c.tagKey(tag)
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		c.fail("tags", "", err)
		return nil, err
	}

	for i, tag := range tags {
		var version int64
		if s, ok := values[i].(string); ok {
			version, err = strconv.ParseInt(s, 10, 64)
			if err != nil {
				c.fail("tags", tag, err)
				return nil, err
			}
		}
		versions[tag] = version
	}
	return versions, nil
}

func (c *RedisTagCache) fail(operation, key string, err error) {
	CacheErrors.WithLabelValues(operation).Inc()
	log.Warn().
		Err(err).
		Str("operation", operation).
		Str("key", key).
		Msg("cache unavailable, falling back to source")
}
