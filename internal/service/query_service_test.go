package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/Leganyst/timeslot-allocator/internal/paging"
)

func TestQueryService_Bookings(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	resourceID := uuid.New()
	clientID := uuid.New()
	d1, d2 := day("2025-11-10"), day("2025-11-11")

	e.addFree(t, resourceID, d1, sp("09:00", "18:00"))
	e.addFree(t, resourceID, d2, sp("09:00", "18:00"))
	for _, b := range []struct {
		client uuid.UUID
		date   string
		start  string
		end    string
	}{
		{clientID, "2025-11-10", "12:00", "13:00"},
		{clientID, "2025-11-10", "09:00", "10:00"},
		{clientID, "2025-11-11", "10:00", "11:00"},
		{uuid.New(), "2025-11-10", "15:00", "16:00"},
	} {
		if _, err := e.book(resourceID, b.client, day(b.date), sp(b.start, b.end)); err != nil {
			t.Fatalf("create booking: %v", err)
		}
	}

	byDate, err := e.query.ListBookingsByResourceAndDate(ctx, resourceID, d1, paging.Request{})
	if err != nil {
		t.Fatalf("list by resource and date: %v", err)
	}
	if byDate.Total != 3 {
		t.Fatalf("total = %d, want 3", byDate.Total)
	}
	if byDate.Items[0].Span().String() != "09:00–10:00" {
		t.Fatalf("first booking = %s, want 09:00–10:00", byDate.Items[0].Span())
	}

	byClient, err := e.query.ListBookingsByClient(ctx, clientID, paging.Request{})
	if err != nil {
		t.Fatalf("list by client: %v", err)
	}
	if byClient.Total != 3 {
		t.Fatalf("total = %d, want 3", byClient.Total)
	}
	if !byClient.Items[0].Day().Equal(d2) {
		t.Fatalf("newest booking must come first, got %v", byClient.Items[0].Day())
	}

	all, err := e.query.ListAllBookings(ctx, paging.Request{Page: 1, PageSize: 3})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if all.Total != 4 || len(all.Items) != 3 || !all.HasNext {
		t.Fatalf("unexpected page %+v", all)
	}
}

func TestQueryService_RequiredFilters(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	if _, err := e.query.ListBookingsByResourceAndDate(ctx, uuid.Nil, day("2025-11-10"), paging.Request{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing resource: expected ErrInvalidInput, got %v", err)
	}
	if _, err := e.query.ListBookingsByClient(ctx, uuid.Nil, paging.Request{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing client: expected ErrInvalidInput, got %v", err)
	}
}
