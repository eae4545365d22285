// Package credentials provides a process-lifetime cache for the datastore
// credential. Warm invocations reuse the memoized value; concurrent first use
// is collapsed into a single fetch by a singleflight guard, so the credential
// backend is never hit twice for the same cold start.
package credentials

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Fetcher obtains the credential from its source (secret manager, metadata
// endpoint, environment).
type Fetcher func(ctx context.Context) (string, error)

// FromEnv returns a Fetcher reading the named environment variable.
func FromEnv(key string) Fetcher {
	return func(context.Context) (string, error) {
		v := os.Getenv(key)
		if v == "" {
			return "", fmt.Errorf("environment variable %s is not set", key)
		}
		return v, nil
	}
}

// Static returns a Fetcher that always yields the given value. Useful for
// tests and local development.
func Static(value string) Fetcher {
	return func(context.Context) (string, error) { return value, nil }
}

// Cache lazily fetches and memoizes a credential for the process lifetime.
// Safe for concurrent use.
type Cache struct {
	fetch Fetcher
	group singleflight.Group

	mu    sync.RWMutex
	value string
	valid bool
}

// NewCache constructs a cache around the given fetcher.
func NewCache(fetch Fetcher) *Cache {
	return &Cache{fetch: fetch}
}

// Get returns the memoized credential, fetching it on first use. Concurrent
// first callers share one fetch. A failed fetch is not memoized; the next
// call retries.
func (c *Cache) Get(ctx context.Context) (string, error) {
	c.mu.RLock()
	if c.valid {
		defer c.mu.RUnlock()
		return c.value, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do("credential", func() (interface{}, error) {
		c.mu.RLock()
		if c.valid {
			defer c.mu.RUnlock()
			return c.value, nil
		}
		c.mu.RUnlock()

		value, err := c.fetch(ctx)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.value = value
		c.valid = true
		c.mu.Unlock()
		return value, nil
	})
	if err != nil {
		return "", fmt.Errorf("fetch credential: %w", err)
	}
	return v.(string), nil
}

// Invalidate drops the memoized value so the next Get fetches again.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.value = ""
	c.mu.Unlock()
}
