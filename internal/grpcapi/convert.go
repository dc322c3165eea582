package grpcapi

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/datatypes"

	"github.com/Leganyst/timeslot-allocator/internal/interval"
	"github.com/Leganyst/timeslot-allocator/internal/model"
	"github.com/Leganyst/timeslot-allocator/internal/paging"
)

// Разбор полей запроса. Пустое обязательное поле — InvalidArgument.

func parseID(field, s string) (uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "%s is required", field)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "%s: invalid uuid %q", field, s)
	}
	return id, nil
}

func parseOptionalID(field, s string) (*uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	id, err := parseID(field, s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseDate(field, s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "%s is required", field)
	}
	d, err := interval.ParseDate(s)
	if err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "%s: %v", field, err)
	}
	return d, nil
}

func parseClock(field, s string) (datatypes.Time, error) {
	if strings.TrimSpace(s) == "" {
		return 0, status.Errorf(codes.InvalidArgument, "%s is required", field)
	}
	c, err := interval.ParseClock(s)
	if err != nil {
		return 0, status.Errorf(codes.InvalidArgument, "%s: %v", field, err)
	}
	return c, nil
}

func toBooking(b *model.Booking) Booking {
	return Booking{
		ID:         b.ID.String(),
		ResourceID: b.ResourceID.String(),
		ClientID:   b.ClientID.String(),
		Date:       b.Day().Format(interval.DateLayout),
		Start:      interval.FormatClock(b.StartTime),
		End:        interval.FormatClock(b.EndTime),
	}
}

func toAvailability(a *model.AvailabilityInterval) Availability {
	return Availability{
		ID:         a.ID.String(),
		ResourceID: a.ResourceID.String(),
		Date:       a.Day().Format(interval.DateLayout),
		Start:      interval.FormatClock(a.StartTime),
		End:        interval.FormatClock(a.EndTime),
	}
}

func toPageRequest(p PageRequest) paging.Request {
	return paging.Request{Page: p.Page, PageSize: p.PageSize}
}

func toPageInfo[T any](p paging.Page[T]) PageInfo {
	return PageInfo{
		Page:     p.Page,
		PageSize: p.PageSize,
		Total:    p.Total,
		HasNext:  p.HasNext,
		HasPrev:  p.HasPrev,
	}
}
