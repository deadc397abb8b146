package storage

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

// Supported cache backends.
const (
	CacheLRU   = "lru"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// DefaultCacheMaxItemBytes is the largest payload cached when no threshold is configured.
const DefaultCacheMaxItemBytes = 1024 * 1024

// ContentCache holds decoded file payloads keyed by record id.
// Records are immutable once written, so entries never need invalidation.
type ContentCache interface {
	Get(ctx context.Context, id string) ([]byte, bool)
	Set(ctx context.Context, id string, data []byte)
	Stats() CacheStats
	Name() string
	Close() error
}

// CacheStats is a snapshot of cache counters.
type CacheStats struct {
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	Sets    uint64  `json:"sets"`
	Errors  uint64  `json:"errors"`
	Skipped uint64  `json:"skipped"`
	HitRate float64 `json:"hit_rate"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend   string
	Size      int
	TTL       time.Duration
	RedisAddr string
	Prefix    string
	// MaxItemBytes skips caching payloads larger than this. Zero means
	// DefaultCacheMaxItemBytes; negative disables the threshold.
	MaxItemBytes int
}

// NewContentCache builds the cache selected by cfg.Backend.
func NewContentCache(ctx context.Context, cfg CacheConfig) (ContentCache, error) {
	maxItemBytes := cfg.MaxItemBytes
	if maxItemBytes == 0 {
		maxItemBytes = DefaultCacheMaxItemBytes
	}

	switch cfg.Backend {
	case "", CacheLRU:
		return NewLRUCache(cfg.Size, cfg.TTL, maxItemBytes), nil
	case CacheRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		prefix := cfg.Prefix
		if prefix == "" {
			prefix = "file:content:"
		}
		return NewRedisCache(client, prefix, cfg.TTL, maxItemBytes), nil
	case CacheNone:
		return noopCache{}, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.Backend)
	}
}

type counters struct {
	hits    atomic.Uint64
	misses  atomic.Uint64
	sets    atomic.Uint64
	errors  atomic.Uint64
	skipped atomic.Uint64
}

// admit reports whether a payload of n bytes may be cached under maxItemBytes.
func (c *counters) admit(n, maxItemBytes int) bool {
	if maxItemBytes > 0 && n > maxItemBytes {
		c.skipped.Add(1)
		return false
	}
	return true
}

func (c *counters) snapshot() CacheStats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	return CacheStats{
		Hits:    hits,
		Misses:  misses,
		Sets:    c.sets.Load(),
		Errors:  c.errors.Load(),
		Skipped: c.skipped.Load(),
		HitRate: hitRate,
	}
}

// LRUCache is an in-process cache with a size bound and per-entry TTL.
// Memory use stays below size * maxItemBytes.
type LRUCache struct {
	lru          *expirable.LRU[string, []byte]
	maxItemBytes int
	counters
}

// NewLRUCache creates an LRU cache holding at most size entries of at most
// maxItemBytes each. A maxItemBytes of zero or less caches every payload.
func NewLRUCache(size int, ttl time.Duration, maxItemBytes int) *LRUCache {
	if size <= 0 {
		size = 256
	}
	return &LRUCache{
		lru:          expirable.NewLRU[string, []byte](size, nil, ttl),
		maxItemBytes: maxItemBytes,
	}
}

// Get returns the cached payload for id.
func (c *LRUCache) Get(_ context.Context, id string) ([]byte, bool) {
	data, ok := c.lru.Get(id)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return data, true
}

// Set stores the payload for id.
func (c *LRUCache) Set(_ context.Context, id string, data []byte) {
	if !c.admit(len(data), c.maxItemBytes) {
		return
	}
	c.lru.Add(id, data)
	c.sets.Add(1)
}

// Len returns the number of cached entries.
func (c *LRUCache) Len() int {
	return c.lru.Len()
}

func (c *LRUCache) Stats() CacheStats { return c.snapshot() }
func (c *LRUCache) Name() string      { return CacheLRU }
func (c *LRUCache) Close() error      { return nil }

// RedisCache keeps payloads in Redis so several instances can share them.
// Redis failures are counted and treated as misses.
type RedisCache struct {
	client       *redis.Client
	prefix       string
	ttl          time.Duration
	maxItemBytes int
	counters
}

// NewRedisCache creates a Redis-backed cache.
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration, maxItemBytes int) *RedisCache {
	return &RedisCache{
		client:       client,
		prefix:       prefix,
		ttl:          ttl,
		maxItemBytes: maxItemBytes,
	}
}

// Get returns the cached payload for id.
func (c *RedisCache) Get(ctx context.Context, id string) ([]byte, bool) {
	data, err := c.client.Get(ctx, c.prefix+id).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.errors.Add(1)
		}
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return data, true
}

// Set stores the payload for id.
func (c *RedisCache) Set(ctx context.Context, id string, data []byte) {
	if !c.admit(len(data), c.maxItemBytes) {
		return
	}
	if err := c.client.Set(ctx, c.prefix+id, data, c.ttl).Err(); err != nil {
		c.errors.Add(1)
		return
	}
	c.sets.Add(1)
}

// Ping checks if the Redis connection is healthy.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Stats() CacheStats { return c.snapshot() }
func (c *RedisCache) Name() string      { return CacheRedis }

// Close closes the Redis client connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (noopCache) Set(context.Context, string, []byte)        {}
func (noopCache) Stats() CacheStats                          { return CacheStats{} }
func (noopCache) Name() string                               { return CacheNone }
func (noopCache) Close() error                               { return nil }
