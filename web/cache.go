package web

import (
	"context"
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"math"
	"sync"
	"time"
)

// TileCache stores rendered tile responses. The index never changes while the server is running, so entries never
// become stale.
type TileCache interface {
	// Get returns the cached response for the key. The boolean is false when the key is not cached.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores the response for the key. When the cache is full, entries might get evicted based on the replacement
	// policy of the concrete implementation.
	Set(ctx context.Context, key string, data []byte) error
}

// NoopTileCache caches nothing.
type NoopTileCache struct{}

func (c NoopTileCache) Get(ctx context.Context, key string) ([]byte, bool, error) { return nil, false, nil }

func (c NoopTileCache) Set(ctx context.Context, key string, data []byte) error { return nil }

// LruTileCache is a simple LRU (least recently used) cache held in memory. It has an internal locking mechanism and can
// be used in concurrent goroutines. The recency of an entry is a counter that gets increased on every read and write.
type LruTileCache struct {
	entries         map[string][]byte
	lastAccessTimes map[string]uint64
	accessCounter   uint64
	mutex           *sync.Mutex
	maxSize         int // Maximum number of entries this cache should hold
}

func NewLruTileCache(maxSize int) *LruTileCache {
	if maxSize < 1 {
		maxSize = 1
	}

	return &LruTileCache{
		entries:         map[string][]byte{},
		lastAccessTimes: map[string]uint64{},
		mutex:           &sync.Mutex{},
		maxSize:         maxSize,
	}
}

func (c *LruTileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	data, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}

	c.touch(key)
	return data, true, nil
}

func (c *LruTileCache) Set(ctx context.Context, key string, data []byte) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, alreadyCached := c.entries[key]
	if !alreadyCached && len(c.entries) >= c.maxSize {
		// Cache is full -> evict entry that has been unused the longest
		longestUnusedKey := c.getMinEntry()
		sigolo.Tracef("Evict tile %s from cache", longestUnusedKey)
		delete(c.entries, longestUnusedKey)
		delete(c.lastAccessTimes, longestUnusedKey)
	}

	c.entries[key] = data
	c.touch(key)
	return nil
}

func (c *LruTileCache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.entries)
}

// touch marks the entry as most recently used. This function does NOT use locking.
func (c *LruTileCache) touch(key string) {
	c.accessCounter++
	c.lastAccessTimes[key] = c.accessCounter
}

// getMinEntry returns the key that hasn't been used longest. This function does NOT use locking.
func (c *LruTileCache) getMinEntry() string {
	minAccessTime := uint64(math.MaxUint64)
	minKey := ""

	for key, accessTime := range c.lastAccessTimes {
		if accessTime < minAccessTime {
			minAccessTime = accessTime
			minKey = key
		}
	}

	return minKey
}

// RedisTileCache stores responses in Redis, which allows several server instances to share their rendered tiles.
type RedisTileCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisTileCache connects to the Redis server given as URL (e.g. "redis://localhost:6379/0"). A ttl of 0 means that
// entries never expire.
func NewRedisTileCache(redisUrl string, keyPrefix string, ttl time.Duration) (*RedisTileCache, error) {
	opts, err := redis.ParseURL(redisUrl)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to parse Redis URL")
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = client.Ping(ctx).Err()
	if err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "Unable to connect to Redis at %s", opts.Addr)
	}

	sigolo.Infof("Connected to Redis at %s", opts.Addr)

	return &RedisTileCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}, nil
}

func (c *RedisTileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, errors.Wrapf(err, "Unable to get tile %s from Redis", key)
	}

	return data, true, nil
}

func (c *RedisTileCache) Set(ctx context.Context, key string, data []byte) error {
	err := c.client.Set(ctx, c.keyPrefix+key, data, c.ttl).Err()
	if err != nil {
		return errors.Wrapf(err, "Unable to store tile %s in Redis", key)
	}
	return nil
}

func (c *RedisTileCache) Close() error {
	return c.client.Close()
}
