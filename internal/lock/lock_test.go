package lock

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func TestKey(t *testing.T) {
	id := uuid.MustParse("7f1d8a5e-9b5c-4b59-9a62-0d4f8a4d9a11")
	got := Key(id, time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC))
	if got != "7f1d8a5e-9b5c-4b59-9a62-0d4f8a4d9a11/2025-11-10" {
		t.Fatalf("Key = %q", got)
	}
}

func TestNormalize(t *testing.T) {
	got := normalize([]string{"b", "a", "b", "c"})
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("normalize = %v", got)
	}
}

func TestLocalLocker_Exclusive(t *testing.T) {
	l := NewLocalLocker(50 * time.Millisecond)
	ctx := context.Background()

	release, err := l.Lock(ctx, nil, []string{"p1"})
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}

	if _, err := l.Lock(ctx, nil, []string{"p1"}); !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout while held, got %v", err)
	}

	// другая партиция не блокируется
	r2, err := l.Lock(ctx, nil, []string{"p2"})
	if err != nil {
		t.Fatalf("independent partition: %v", err)
	}
	r2()

	release()
	r3, err := l.Lock(ctx, nil, []string{"p1"})
	if err != nil {
		t.Fatalf("lock after release: %v", err)
	}
	r3()
}

func TestLocalLocker_PartialAcquireIsRolledBack(t *testing.T) {
	l := NewLocalLocker(30 * time.Millisecond)
	ctx := context.Background()

	hold, err := l.Lock(ctx, nil, []string{"b"})
	if err != nil {
		t.Fatalf("lock b: %v", err)
	}
	defer hold()

	if _, err := l.Lock(ctx, nil, []string{"a", "b"}); !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}

	// "a" должен быть освобождён после неудачной попытки
	ra, err := l.Lock(ctx, nil, []string{"a"})
	if err != nil {
		t.Fatalf("a must be free: %v", err)
	}
	ra()
}

func TestLocalLocker_WaitsForRelease(t *testing.T) {
	l := NewLocalLocker(time.Second)
	ctx := context.Background()

	release, err := l.Lock(ctx, nil, []string{"p"})
	if err != nil {
		t.Fatalf("lock: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		r, err := l.Lock(ctx, nil, []string{"p"})
		if err == nil {
			r()
		}
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	release()

	if err := <-done; err != nil {
		t.Fatalf("waiter: %v", err)
	}
}

func TestRedisLocker(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	l := NewRedisLocker(client, 100*time.Millisecond)
	ctx := context.Background()
	key := "test/" + uuid.NewString()

	release, err := l.Lock(ctx, nil, []string{key})
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	if _, err := l.Lock(ctx, nil, []string{key}); !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	release()

	r2, err := l.Lock(ctx, nil, []string{key})
	if err != nil {
		t.Fatalf("lock after release: %v", err)
	}
	r2()
}
