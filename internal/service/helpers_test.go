package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"

	"github.com/Leganyst/timeslot-allocator/internal/db"
	"github.com/Leganyst/timeslot-allocator/internal/interval"
	"github.com/Leganyst/timeslot-allocator/internal/lock"
	"github.com/Leganyst/timeslot-allocator/internal/model"
	"github.com/Leganyst/timeslot-allocator/internal/repository"
)

type engine struct {
	store        *repository.GormStore
	bookings     *BookingService
	availability *AvailabilityService
	query        *QueryService
}

func newEngine(t *testing.T) *engine {
	t.Helper()
	return newEngineWithLocker(t, lock.NewLocalLocker(5*time.Second))
}

func newEngineWithLocker(t *testing.T, locker lock.PartitionLocker) *engine {
	t.Helper()

	gdb, err := db.NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := model.AutoMigrate(gdb); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	log := zaptest.NewLogger(t)
	store := repository.NewGormStore(gdb, locker)
	return &engine{
		store:        store,
		bookings:     NewBookingService(store, log),
		availability: NewAvailabilityService(store, log, 366),
		query:        NewQueryService(store, log),
	}
}

func day(s string) time.Time {
	d, err := interval.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sp(start, end string) interval.Span {
	a, err := interval.ParseClock(start)
	if err != nil {
		panic(err)
	}
	b, err := interval.ParseClock(end)
	if err != nil {
		panic(err)
	}
	return interval.Span{Start: a, End: b}
}

func (e *engine) addFree(t *testing.T, resourceID uuid.UUID, date time.Time, s interval.Span) *model.AvailabilityInterval {
	t.Helper()
	a, err := e.availability.CreateAvailability(context.Background(), AvailabilityInput{
		ResourceID: resourceID,
		Date:       date,
		Start:      s.Start,
		End:        s.End,
	})
	if err != nil {
		t.Fatalf("create availability %s: %v", s, err)
	}
	return a
}

func (e *engine) book(resourceID, clientID uuid.UUID, date time.Time, s interval.Span) (*model.Booking, error) {
	return e.bookings.CreateBooking(context.Background(), BookingInput{
		ResourceID: resourceID,
		ClientID:   clientID,
		Date:       date,
		Start:      s.Start,
		End:        s.End,
	})
}

// free возвращает свободные интервалы партиции в виде строк "ЧЧ:ММ–ЧЧ:ММ".
func (e *engine) free(t *testing.T, resourceID uuid.UUID, date time.Time) []string {
	t.Helper()
	items, err := e.store.Availability().ListByResourceAndDate(context.Background(), resourceID, date)
	if err != nil {
		t.Fatalf("list availability: %v", err)
	}
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.Span().String())
	}
	return out
}

func (e *engine) booked(t *testing.T, resourceID uuid.UUID, date time.Time) []model.Booking {
	t.Helper()
	items, err := e.store.Bookings().ListByResourceAndDate(context.Background(), resourceID, date)
	if err != nil {
		t.Fatalf("list bookings: %v", err)
	}
	return items
}

func assertSpans(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("spans = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("spans = %v, want %v", got, want)
		}
	}
}
