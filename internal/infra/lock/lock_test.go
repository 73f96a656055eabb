package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLocker(t *testing.T) (Locker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goRedis.NewClient(&goRedis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, "stockverse:lock:"), mr
}

func assertMutualExclusion(t *testing.T, l Locker) {
	t.Helper()
	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "seats:acme")
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
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
}

func TestRedisLockerMutualExclusion(t *testing.T) {
	l, _ := newRedisLocker(t)
	assertMutualExclusion(t, l)
}

func TestLocalLockerMutualExclusion(t *testing.T) {
	assertMutualExclusion(t, NewLocal())
}

func TestRedisLockerReleaseKeepsForeignKey(t *testing.T) {
	l, mr := newRedisLocker(t)

	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	// chave expirou e outro dono assumiu
	require.NoError(t, mr.Set("stockverse:lock:k", "someone-else"))
	unlock()
	got, err := mr.Get("stockverse:lock:k")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestLockTimesOutWhenHeld(t *testing.T) {
	for name, l := range map[string]Locker{"local": NewLocal()} {
		t.Run(name, func(t *testing.T) {
			unlock, err := l.Lock(context.Background(), "busy")
			require.NoError(t, err)
			defer unlock()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
			defer cancel()
			_, err = l.Lock(ctx, "busy")
			assert.ErrorIs(t, err, ErrLockTimeout)
		})
	}

	rl, _ := newRedisLocker(t)
	unlock, err := rl.Lock(context.Background(), "busy")
	require.NoError(t, err)
	defer unlock()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	_, err = rl.Lock(ctx, "busy")
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestUnlockIsIdempotent(t *testing.T) {
	l := NewLocal()
	unlock, err := l.Lock(context.Background(), "x")
	require.NoError(t, err)
	unlock()
	unlock()

	unlock2, err := l.Lock(context.Background(), "x")
	require.NoError(t, err)
	unlock2()
}
