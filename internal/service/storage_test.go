package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"
	"gorm.io/datatypes"

	"github.com/Leganyst/timeslot-allocator/internal/lock"
	"github.com/Leganyst/timeslot-allocator/internal/repository"
)

func TestCreateBooking_LockTimeoutIsStorageUnavailable(t *testing.T) {
	locker := lock.NewLocalLocker(50 * time.Millisecond)
	e := newEngineWithLocker(t, locker)
	ctx := context.Background()
	resourceID := uuid.New()
	d := day("2025-11-10")
	e.addFree(t, resourceID, d, sp("09:00", "13:00"))

	release, err := locker.Lock(ctx, nil, []string{lock.Key(resourceID, d)})
	if err != nil {
		t.Fatalf("hold partition: %v", err)
	}

	_, err = e.book(resourceID, uuid.New(), d, sp("10:00", "11:00"))
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if !errors.Is(err, lock.ErrTimeout) {
		t.Fatalf("cause must be lock.ErrTimeout, got %v", err)
	}
	assertSpans(t, e.free(t, resourceID, d), "09:00–13:00")

	release()
	if _, err := e.book(resourceID, uuid.New(), d, sp("10:00", "11:00")); err != nil {
		t.Fatalf("booking after release: %v", err)
	}
}

// movingStore переносит запись один раз между чтением и захватом блокировок
// и запоминает, какие партиции запрашивались.
type movingStore struct {
	repository.Store
	beforeLock func()
	locked     [][]repository.Partition
}

func (m *movingStore) Atomic(ctx context.Context, partitions []repository.Partition, fn func(tx repository.Store) error) error {
	m.locked = append(m.locked, partitions)
	if f := m.beforeLock; f != nil {
		m.beforeLock = nil
		f()
	}
	return m.Store.Atomic(ctx, partitions, fn)
}

func TestUpdateAvailability_RelocksWhenIntervalMoves(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	r1, r2, r3 := uuid.New(), uuid.New(), uuid.New()
	d, moved := day("2025-11-10"), day("2025-11-11")

	a := e.addFree(t, r1, d, sp("09:00", "10:00"))

	store := &movingStore{Store: e.store}
	store.beforeLock = func() {
		current, err := e.store.Availability().GetByID(ctx, a.ID)
		if err != nil {
			t.Fatalf("get availability: %v", err)
		}
		current.ResourceID = r2
		current.Date = datatypes.Date(moved)
		if err := e.store.Availability().Update(ctx, current); err != nil {
			t.Fatalf("move availability: %v", err)
		}
	}
	svc := NewAvailabilityService(store, zaptest.NewLogger(t), 366)

	updated, err := svc.UpdateAvailability(ctx, a.ID, AvailabilityInput{
		ResourceID: r3,
		Date:       d,
		Start:      sp("09:00", "11:00").Start,
		End:        sp("09:00", "11:00").End,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ResourceID != r3 {
		t.Fatalf("resource = %s, want %s", updated.ResourceID, r3)
	}

	if len(store.locked) != 2 {
		t.Fatalf("atomic calls = %d, want 2", len(store.locked))
	}
	home := store.locked[1][0]
	if home.ResourceID != r2 || !home.Date.Equal(moved) {
		t.Fatalf("second attempt locked %s, want %s", home.Key(), repository.Partition{ResourceID: r2, Date: moved}.Key())
	}
	assertSpans(t, e.free(t, r2, moved))
	assertSpans(t, e.free(t, r3, d), "09:00–11:00")
}
