package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/antscheduler/pkg/observability"
)

// Instrumented reports hits, misses and writes of a Cache to hooks.
// The key type passed to the hooks is the key segment in front of the hash
// ("run", "artifact", ...).
type Instrumented struct {
	Cache
	hooks observability.CacheHooks
}

// WithHooks wraps c so that every Get and Set is reported to hooks.
// A nil hooks value returns c unchanged.
func WithHooks(c Cache, hooks observability.CacheHooks) Cache {
	if hooks == nil {
		return c
	}
	return &Instrumented{Cache: c, hooks: hooks}
}

// Get implements Cache.
func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			c.hooks.OnCacheHit(ctx, keyType(key))
		} else {
			c.hooks.OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, hit, err
}

// Set implements Cache.
func (c *Instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		c.hooks.OnCacheSet(ctx, keyType(key), len(data))
	}
	return err
}

func keyType(key string) string {
	// scoped keys carry their scope first
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return key
	}
	return parts[len(parts)-2]
}
