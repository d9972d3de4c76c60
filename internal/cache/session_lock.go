package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotAcquired is returned when a session is still locked by another
// request after the wait budget is spent.
var ErrLockNotAcquired = errors.New("session lock not acquired")

// SessionLocker serialises requests for the same session id. The returned
// release func must be called exactly once.
type SessionLocker interface {
	Lock(ctx context.Context, id string) (release func(), err error)
}

const lockPollInterval = 50 * time.Millisecond

// Deletes the lock only if it still holds our token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

type redisSessionLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
}

// NewRedisSessionLocker creates a lock using SET NX with an expiry, so a
// crashed holder cannot wedge a session for longer than ttl.
func NewRedisSessionLocker(client *redis.Client, ttl, wait time.Duration) SessionLocker {
	return &redisSessionLocker{
		client: client,
		ttl:    ttl,
		wait:   wait,
	}
}

func lockKey(id string) string {
	return "session:" + id + ":lock"
}

func (l *redisSessionLocker) Lock(ctx context.Context, id string) (func(), error) {
	token := uuid.New().String()
	key := lockKey(id)
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				// Release even if the request context is already done
				unlockScript.Run(context.Background(), l.client, []string{key}, token)
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrLockNotAcquired
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPollInterval):
		}
	}
}

type memorySessionLocker struct {
	mu   sync.Mutex
	held map[string]chan struct{}
	wait time.Duration
}

// NewMemorySessionLocker serialises requests within one process.
func NewMemorySessionLocker(wait time.Duration) SessionLocker {
	return &memorySessionLocker{
		held: make(map[string]chan struct{}),
		wait: wait,
	}
}

func (l *memorySessionLocker) Lock(ctx context.Context, id string) (func(), error) {
	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	for {
		l.mu.Lock()
		done, busy := l.held[id]
		if !busy {
			done = make(chan struct{})
			l.held[id] = done
			l.mu.Unlock()

			var once sync.Once
			return func() {
				once.Do(func() {
					l.mu.Lock()
					delete(l.held, id)
					l.mu.Unlock()
					close(done)
				})
			}, nil
		}
		l.mu.Unlock()

		select {
		case <-done:
		case <-timer.C:
			return nil, ErrLockNotAcquired
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
