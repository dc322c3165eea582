package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
)

// LocalLocker — блокировки внутри одного процесса.
// Подходит для sqlite и тестов, где все запросы идут через один процесс.
type LocalLocker struct {
	timeout time.Duration

	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewLocalLocker(timeout time.Duration) *LocalLocker {
	return &LocalLocker{
		timeout: timeout,
		slots:   make(map[string]chan struct{}),
	}
}

func (l *LocalLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

func (l *LocalLocker) Lock(ctx context.Context, _ *gorm.DB, keys []string) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	var held []chan struct{}
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}

	for _, k := range normalize(keys) {
		ch := l.slot(k)
		select {
		case ch <- struct{}{}:
			held = append(held, ch)
		case <-ctx.Done():
			release()
			return nil, fmt.Errorf("%w: %s", ErrTimeout, k)
		}
	}
	return release, nil
}
