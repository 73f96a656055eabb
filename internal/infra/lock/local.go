package lock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type localLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
	wait  time.Duration
}

// NewLocal devolve um Locker em memória, válido para uma única instância.
func NewLocal() Locker {
	return &localLocker{slots: make(map[string]chan struct{}), wait: defaultWait}
}

func (l *localLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

func (l *localLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	ch := l.slot(key)

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-ch }) }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
	case <-timer.C:
		return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
	}
}
