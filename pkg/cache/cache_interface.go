package cache

import (
	"context"
	"encoding/json"
	"fmt"
)

// Resource family tags. A cached value is tagged with every family whose
// data it renders, and a write invalidates its own family tag.
const (
	TagBooks   = "booksCache"
	TagAuthors = "authorsCache"
)

// Producer computes the value to cache on a miss.
type Producer func(ctx context.Context) ([]byte, error)

// TagAwareCache is a keyed cache whose entries can be evicted by tag.
type TagAwareCache interface {
	// Get returns the cached value for key, or runs produce, stores its
	// result tagged with tags and returns it. Producer errors are returned
	// as is and never cached.
	Get(ctx context.Context, key string, produce Producer, tags ...string) ([]byte, error)

	// InvalidateTags evicts every entry tagged with any of tags.
	InvalidateTags(ctx context.Context, tags ...string) error
}

// Key builds the cache key of a paginated read, e.g. "getAllBooks-1-3".
func Key(operation string, page, limit int) string {
	return fmt.Sprintf("%s-%d-%d", operation, page, limit)
}

// GetJSON is Get for values that round-trip through encoding/json.
func GetJSON[T any](ctx context.Context, c TagAwareCache, key string, produce func(ctx context.Context) (T, error), tags ...string) (T, error) {
	var out T

	raw, err := c.Get(ctx, key, func(ctx context.Context) ([]byte, error) {
		v, err := produce(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	}, tags...)
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode cached value %q: %w", key, err)
	}
	return out, nil
}
