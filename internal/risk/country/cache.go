package country

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/aussiebroadwan/riskregister/internal/risk/domain"
	"github.com/redis/go-redis/v9"
)

// Cache stores resolved countries. Get reports a miss with ok=false.
type Cache interface {
	Get(ctx context.Context, key string) (c domain.Country, ok bool, err error)
	Set(ctx context.Context, key string, c domain.Country, ttl time.Duration) error
}

type memoryEntry struct {
	country domain.Country
	expires time.Time
}

// MemoryCache is a process local Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	// Now defaults to time.Now.
	Now func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[string]memoryEntry{}}
}

func (m *MemoryCache) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *MemoryCache) Get(_ context.Context, key string) (domain.Country, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return domain.Country{}, false, nil
	}
	if !e.expires.IsZero() && m.now().After(e.expires) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return domain.Country{}, false, nil
	}
	return e.country, true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, c domain.Country, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = memoryEntry{country: c, expires: expires}
	m.mu.Unlock()
	return nil
}

// RedisCache shares resolved countries between instances.
type RedisCache struct {
	Client *redis.Client
	Prefix string
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{Client: client, Prefix: "country:"}
}

func (r *RedisCache) Get(ctx context.Context, key string) (domain.Country, bool, error) {
	data, err := r.Client.Get(ctx, r.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Country{}, false, nil
	}
	if err != nil {
		return domain.Country{}, false, err
	}

	var c domain.Country
	if err := json.Unmarshal(data, &c); err != nil {
		return domain.Country{}, false, err
	}
	return c, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, c domain.Country, ttl time.Duration) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, r.Prefix+key, data, ttl).Err()
}
