package umlgen

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/umlgen/compiler/gen"
)

// Cache is the interface for caching rendered projects. Values are opaque
// byte slices, see EncodeProject and DecodeProject.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with an optional TTL.
	// If ttl is 0, the value does not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error
}

// CacheKey identifies one generation request: the same document rendered
// with the same settings produces the same project.
type CacheKey struct {
	Generator string
	Settings  []string
	Document  []byte
}

// String returns the cache key. The document and the settings are hashed.
func (k CacheKey) String() string {
	h := sha256.New()
	for _, s := range k.Settings {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	h.Write(k.Document)
	return "umlgen:" + k.Generator + ":" + hex.EncodeToString(h.Sum(nil))
}

// EncodeProject returns the msgpack encoding of a project.
func EncodeProject(p *gen.Project) ([]byte, error) {
	return msgpack.Marshal(p)
}

// DecodeProject decodes a project encoded by EncodeProject.
func DecodeProject(data []byte) (*gen.Project, error) {
	var p gen.Project
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CacheStats holds the counters of a MemoryCache.
type CacheStats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Expires   int64
	Size      int
}

// MemoryCache is an in-process Cache with LRU eviction.
type MemoryCache struct {
	maxSize int
	mu      sync.Mutex
	items   map[string]*list.Element
	lru     *list.List // front is the most recently used
	stats   CacheStats
	now     func() time.Time
}

type memoryEntry struct {
	key     string
	value   []byte
	expires time.Time
}

// NewMemoryCache returns a cache holding at most maxSize entries. A
// non-positive maxSize disables eviction.
func NewMemoryCache(maxSize int) *MemoryCache {
	return &MemoryCache{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		now:     time.Now,
	}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return nil, nil
	}
	e := el.Value.(*memoryEntry)
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		c.remove(el)
		c.stats.Misses++
		c.stats.Expires++
		return nil, nil
	}
	c.lru.MoveToFront(el)
	c.stats.Hits++
	return e.value, nil
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var expires time.Time
	if ttl > 0 {
		expires = c.now().Add(ttl)
	}
	if el, ok := c.items[key]; ok {
		e := el.Value.(*memoryEntry)
		e.value, e.expires = value, expires
		c.lru.MoveToFront(el)
		return nil
	}
	if c.maxSize > 0 && len(c.items) >= c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.remove(oldest)
			c.stats.Evictions++
		}
	}
	c.items[key] = c.lru.PushFront(&memoryEntry{key: key, value: value, expires: expires})
	return nil
}

// Delete implements Cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.remove(el)
	}
	return nil
}

// Stats returns a copy of the cache counters.
func (c *MemoryCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats := c.stats
	stats.Size = len(c.items)
	return stats
}

// remove must be called with the lock held.
func (c *MemoryCache) remove(el *list.Element) {
	c.lru.Remove(el)
	delete(c.items, el.Value.(*memoryEntry).key)
}

// RedisClient is the subset of the go-redis client used by RedisCache.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisCache is a Cache shared by all server replicas.
type RedisCache struct {
	client RedisClient
}

var _ Cache = (*RedisCache)(nil)

// NewRedisCache returns a cache backed by the given client.
func NewRedisCache(client RedisClient) *RedisCache {
	return &RedisCache{client: client}
}

// NewRedisClient connects to the redis server at addr.
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return b, err
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Delete implements Cache.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
