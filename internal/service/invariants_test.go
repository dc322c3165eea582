package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Leganyst/timeslot-allocator/internal/interval"
	"github.com/Leganyst/timeslot-allocator/internal/model"
)

// checkPartition проверяет, что бронирования и свободные интервалы партиции попарно не пересекаются.
func checkPartition(t *testing.T, e *engine, resourceID uuid.UUID, date time.Time) {
	t.Helper()

	bookings := e.booked(t, resourceID, date)
	for i := range bookings {
		for j := i + 1; j < len(bookings); j++ {
			if interval.BookingsOverlap(bookings[i].Span(), bookings[j].Span()) {
				t.Fatalf("bookings overlap on %v: %s and %s", date, bookings[i].Span(), bookings[j].Span())
			}
		}
	}

	items, err := e.store.Availability().ListByResourceAndDate(context.Background(), resourceID, date)
	if err != nil {
		t.Fatalf("list availability: %v", err)
	}
	for i := range items {
		for j := i + 1; j < len(items); j++ {
			if interval.BookingsOverlap(items[i].Span(), items[j].Span()) {
				t.Fatalf("availability overlaps on %v: %s and %s", date, items[i].Span(), items[j].Span())
			}
		}
	}
}

func randomSpan(rng *rand.Rand) interval.Span {
	// получасовая сетка с 08:00 до 20:00
	start := 16 + rng.Intn(23)
	length := 1 + rng.Intn(4)
	end := start + length
	if end > 40 {
		end = 40
	}
	return interval.Span{
		Start: interval.Clock(start/2, (start%2)*30),
		End:   interval.Clock(end/2, (end%2)*30),
	}
}

func TestRandomSequencesKeepPartitionsDisjoint(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	resources := []uuid.UUID{uuid.New(), uuid.New()}
	dates := []time.Time{day("2025-11-10"), day("2025-11-11")}
	for _, r := range resources {
		for _, d := range dates {
			e.addFree(t, r, d, sp("08:00", "12:00"))
			e.addFree(t, r, d, sp("13:00", "20:00"))
		}
	}

	var live []*model.Booking
	for step := 0; step < 300; step++ {
		r := resources[rng.Intn(len(resources))]
		d := dates[rng.Intn(len(dates))]

		switch op := rng.Intn(3); {
		case op == 0 || len(live) == 0:
			b, err := e.book(r, uuid.New(), d, randomSpan(rng))
			if err == nil {
				live = append(live, b)
			} else if !errors.Is(err, ErrConflict) && !errors.Is(err, ErrNoAvailability) {
				t.Fatalf("step %d: create: %v", step, err)
			}
		case op == 1:
			i := rng.Intn(len(live))
			if err := e.bookings.CancelBooking(ctx, live[i].ID); err != nil {
				t.Fatalf("step %d: cancel: %v", step, err)
			}
			live = append(live[:i], live[i+1:]...)
		default:
			i := rng.Intn(len(live))
			s := randomSpan(rng)
			b, err := e.bookings.ModifyBooking(ctx, live[i].ID, BookingInput{
				ResourceID: r,
				ClientID:   live[i].ClientID,
				Date:       d,
				Start:      s.Start,
				End:        s.End,
			})
			if err == nil {
				live[i] = b
			} else if !errors.Is(err, ErrConflict) && !errors.Is(err, ErrNoAvailability) {
				t.Fatalf("step %d: modify: %v", step, err)
			}
		}

		for _, r := range resources {
			for _, d := range dates {
				checkPartition(t, e, r, d)
			}
		}
	}
}

func TestConcurrentBookingsOfSameSpan(t *testing.T) {
	e := newEngine(t)
	resourceID := uuid.New()
	d := day("2025-11-10")
	e.addFree(t, resourceID, d, sp("09:00", "13:00"))

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.book(resourceID, uuid.New(), d, sp("10:00", "11:00"))
			if err != nil {
				if !errors.Is(err, ErrConflict) && !errors.Is(err, ErrNoAvailability) {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			mu.Lock()
			success++
			mu.Unlock()
		}()
	}
	wg.Wait()

	if success != 1 {
		t.Fatalf("successful bookings = %d, want 1", success)
	}
	assertSpans(t, e.free(t, resourceID, d), "09:00–10:00", "11:00–13:00")
	checkPartition(t, e, resourceID, d)
}
