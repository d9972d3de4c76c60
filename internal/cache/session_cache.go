package cache

import (
	"context"
	"dyslexiatutor/internal/model"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionCache stores tutoring sessions keyed by session id. Get returns
// nil, nil for an unknown or expired id.
type SessionCache interface {
	Set(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a Redis-backed session cache. Every Set refreshes the TTL.
func NewSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    ttl,
	}
}

func sessionKey(id string) string {
	return "session:" + id
}

func (c *sessionCache) Set(ctx context.Context, session *model.Session) error {
	session.UpdatedAt = time.Now()
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, sessionKey(session.ID), data, c.ttl).Err()
}

func (c *sessionCache) Get(ctx context.Context, id string) (*model.Session, error) {
	data, err := c.client.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *sessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, sessionKey(id)).Err()
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

type memorySessionCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemorySessionCache keeps sessions in process memory, for single-instance
// runs without Redis. Entries are stored serialised so callers never share state.
func NewMemorySessionCache(ttl time.Duration) SessionCache {
	return &memorySessionCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *memorySessionCache) Set(_ context.Context, session *model.Session) error {
	session.UpdatedAt = c.now()
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.evictExpired()
	c.entries[session.ID] = memoryEntry{data: data, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *memorySessionCache) Get(_ context.Context, id string) (*model.Session, error) {
	c.mu.Lock()
	entry, ok := c.entries[id]
	if ok && !c.now().Before(entry.expiresAt) {
		delete(c.entries, id)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		return nil, nil
	}

	var session model.Session
	if err := json.Unmarshal(entry.data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *memorySessionCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}

// evictExpired must be called with mu held.
func (c *memorySessionCache) evictExpired() {
	now := c.now()
	for id, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, id)
		}
	}
}
