package service

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Leganyst/timeslot-allocator/internal/interval"
	"github.com/Leganyst/timeslot-allocator/internal/paging"
)

// BookingInput — параметры создания или изменения бронирования.
type BookingInput struct {
	ResourceID uuid.UUID
	ClientID   uuid.UUID
	Date       time.Time
	Start      datatypes.Time
	End        datatypes.Time
}

func (in BookingInput) validate(op string) (interval.Span, error) {
	if in.ResourceID == uuid.Nil {
		return interval.Span{}, invalid(op, "resource_id is required")
	}
	if in.ClientID == uuid.Nil {
		return interval.Span{}, invalid(op, "client_id is required")
	}
	if in.Date.IsZero() {
		return interval.Span{}, invalid(op, "date is required")
	}
	return validSpan(op, in.Start, in.End)
}

// AvailabilityInput — параметры одного свободного интервала.
type AvailabilityInput struct {
	ResourceID uuid.UUID
	Date       time.Time
	Start      datatypes.Time
	End        datatypes.Time
}

func (in AvailabilityInput) validate(op string) (interval.Span, error) {
	if in.ResourceID == uuid.Nil {
		return interval.Span{}, invalid(op, "resource_id is required")
	}
	if in.Date.IsZero() {
		return interval.Span{}, invalid(op, "date is required")
	}
	return validSpan(op, in.Start, in.End)
}

// BulkAvailabilityInput — один и тот же интервал на каждый рабочий день [DateFrom, DateTo].
// Транспорт приводит к этой форме и отдельные поля, и единый payload.
type BulkAvailabilityInput struct {
	ResourceID uuid.UUID
	DateFrom   time.Time
	DateTo     time.Time
	Start      datatypes.Time
	End        datatypes.Time
}

// AvailabilityQuery — фильтры списка свободных интервалов; nil — без фильтра.
type AvailabilityQuery struct {
	ResourceID *uuid.UUID
	Date       *time.Time
	Month      *int
	Year       *int
	Page       paging.Request
}

func validSpan(op string, start, end datatypes.Time) (interval.Span, error) {
	span, err := interval.NewSpan(start, end)
	if err != nil {
		return interval.Span{}, &Error{
			Kind: ErrInvalidInput,
			Op:   op,
			Msg:  "start " + interval.FormatClock(start) + " must be before end " + interval.FormatClock(end),
			Err:  err,
		}
	}
	return span, nil
}
