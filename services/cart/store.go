package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dosya-jo/dosya-api/utils/cache"
)

// ErrCartNotFound is returned for unknown or expired cart ids
var ErrCartNotFound = errors.New("cart not found")

// DefaultTTL is how long an idle cart survives
const DefaultTTL = 24 * time.Hour

// Store persists carts between requests of one checkout session
type Store interface {
	Get(ctx context.Context, id string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, id string) error
}

// RedisStore keeps carts as JSON under cart:<id>
type RedisStore struct {
	cache *cache.RedisCache
	ttl   time.Duration
}

func NewRedisStore(c *cache.RedisCache, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{cache: c, ttl: ttl}
}

func redisKey(id string) string {
	return "cart:" + id
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Cart, error) {
	var c Cart
	if err := s.cache.GetJSON(ctx, redisKey(id), &c); err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("load cart %s: %w", id, err)
	}
	return &c, nil
}

// Save writes the cart and refreshes its TTL
func (s *RedisStore) Save(ctx context.Context, c *Cart) error {
	if err := s.cache.SetJSON(ctx, redisKey(c.ID), c, s.ttl); err != nil {
		return fmt.Errorf("save cart %s: %w", c.ID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, redisKey(id))
}

// MemoryStore is used when Redis is not configured. Carts are stored encoded
// so callers never share a *Cart.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Cart, error) {
	s.mu.Lock()
	entry, ok := s.entries[id]
	if ok && !s.now().Before(entry.expiresAt) {
		delete(s.entries, id)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return nil, ErrCartNotFound
	}

	var c Cart
	if err := json.Unmarshal(entry.data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MemoryStore) Save(_ context.Context, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[c.ID] = memoryEntry{data: data, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}
