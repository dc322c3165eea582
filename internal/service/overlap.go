package service

import (
	"github.com/google/uuid"

	"github.com/Leganyst/timeslot-allocator/internal/interval"
	"github.com/Leganyst/timeslot-allocator/internal/model"
)

// Партиция (ресурс, дата) читается целиком, решение о пересечении принимают
// правила из пакета interval: полуоткрытое для бронирований,
// с включёнными границами для свободных интервалов.

// firstBookingClash — первое бронирование, пересекающее span; exclude не учитывается.
func firstBookingClash(bookings []model.Booking, span interval.Span, exclude uuid.UUID) *model.Booking {
	for i := range bookings {
		if bookings[i].ID == exclude {
			continue
		}
		if interval.BookingsOverlap(span, bookings[i].Span()) {
			return &bookings[i]
		}
	}
	return nil
}

// bookingsWithin — бронирования, пересекающие span.
func bookingsWithin(bookings []model.Booking, span interval.Span) []model.Booking {
	var out []model.Booking
	for _, b := range bookings {
		if interval.BookingsOverlap(span, b.Span()) {
			out = append(out, b)
		}
	}
	return out
}

// firstTouching — первый свободный интервал, который пересекает span или касается его концом.
func firstTouching(items []model.AvailabilityInterval, span interval.Span) *model.AvailabilityInterval {
	for i := range items {
		if interval.AvailabilityTouches(span, items[i].Span()) {
			return &items[i]
		}
	}
	return nil
}
