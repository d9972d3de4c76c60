package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionLocker_BusyTimesOut(t *testing.T) {
	ctx := context.Background()
	l := NewMemorySessionLocker(20 * time.Millisecond)

	release, err := l.Lock(ctx, "s1")
	require.NoError(t, err)
	defer release()

	_, err = l.Lock(ctx, "s1")
	assert.ErrorIs(t, err, ErrLockNotAcquired)
}

func TestMemorySessionLocker_IndependentIDs(t *testing.T) {
	ctx := context.Background()
	l := NewMemorySessionLocker(10 * time.Millisecond)

	r1, err := l.Lock(ctx, "s1")
	require.NoError(t, err)
	r2, err := l.Lock(ctx, "s2")
	require.NoError(t, err)
	r1()
	r2()
}

func TestMemorySessionLocker_WaitsForRelease(t *testing.T) {
	ctx := context.Background()
	l := NewMemorySessionLocker(time.Second)

	release, err := l.Lock(ctx, "s1")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		r, err := l.Lock(ctx, "s1")
		if err == nil {
			r()
		}
		close(acquired)
	}()

	time.Sleep(10 * time.Millisecond)
	release()
	release() // second call is a no-op

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired the lock")
	}
}

func TestMemorySessionLocker_MutualExclusion(t *testing.T) {
	ctx := context.Background()
	l := NewMemorySessionLocker(5 * time.Second)

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Lock(ctx, "s1")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
}

func TestMemorySessionLocker_ContextCancelled(t *testing.T) {
	l := NewMemorySessionLocker(time.Second)
	release, err := l.Lock(context.Background(), "s1")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Lock(ctx, "s1")
	assert.ErrorIs(t, err, context.Canceled)
}
