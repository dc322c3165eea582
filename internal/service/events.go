package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Leganyst/timeslot-allocator/internal/interval"
	"github.com/Leganyst/timeslot-allocator/internal/model"
	"github.com/Leganyst/timeslot-allocator/internal/repository"
)

// spanDetails — представление интервала в деталях события.
func spanDetails(s interval.Span, day string) map[string]any {
	return map[string]any{
		"date":  day,
		"start": interval.FormatClock(s.Start),
		"end":   interval.FormatClock(s.End),
	}
}

func bookingDetails(b *model.Booking) map[string]any {
	d := spanDetails(b.Span(), b.Day().Format(interval.DateLayout))
	d["client_id"] = b.ClientID.String()
	return d
}

func availabilityDetails(a *model.AvailabilityInterval) map[string]any {
	return spanDetails(a.Span(), a.Day().Format(interval.DateLayout))
}

// record пишет событие аудита в текущую транзакцию.
func record(
	ctx context.Context,
	tx repository.Store,
	typ model.EventType,
	resourceID uuid.UUID,
	bookingID, availabilityID *uuid.UUID,
	details map[string]any,
) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return err
	}
	return tx.Events().Create(ctx, &model.Event{
		EventType:      typ,
		ResourceID:     resourceID,
		BookingID:      bookingID,
		AvailabilityID: availabilityID,
		Details:        datatypes.JSON(raw),
	})
}
