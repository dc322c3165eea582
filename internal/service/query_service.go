package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Leganyst/timeslot-allocator/internal/interval"
	"github.com/Leganyst/timeslot-allocator/internal/model"
	"github.com/Leganyst/timeslot-allocator/internal/paging"
	"github.com/Leganyst/timeslot-allocator/internal/repository"
)

// QueryService — чтение бронирований и свободных интервалов без блокировок.
type QueryService struct {
	store repository.Store
	log   *zap.Logger
}

func NewQueryService(store repository.Store, log *zap.Logger) *QueryService {
	return &QueryService{store: store, log: log.Named("query")}
}

// ListBookingsByResourceAndDate — бронирования партиции по возрастанию начала.
func (s *QueryService) ListBookingsByResourceAndDate(
	ctx context.Context,
	resourceID uuid.UUID,
	date time.Time,
	page paging.Request,
) (paging.Page[model.Booking], error) {
	const op = "list bookings by resource and date"

	if resourceID == uuid.Nil {
		return paging.Page[model.Booking]{}, invalid(op, "resource_id is required")
	}
	if date.IsZero() {
		return paging.Page[model.Booking]{}, invalid(op, "date is required")
	}

	items, err := s.store.Bookings().ListByResourceAndDate(ctx, resourceID, interval.DateOf(date))
	if err != nil {
		return paging.Page[model.Booking]{}, logRejection(s.log, op, storageErr(op, err))
	}
	return paging.Paginate(items, page), nil
}

// ListBookingsByClient — бронирования клиента, новые сверху.
func (s *QueryService) ListBookingsByClient(
	ctx context.Context,
	clientID uuid.UUID,
	page paging.Request,
) (paging.Page[model.Booking], error) {
	const op = "list bookings by client"

	if clientID == uuid.Nil {
		return paging.Page[model.Booking]{}, invalid(op, "client_id is required")
	}

	items, err := s.store.Bookings().ListByClient(ctx, clientID)
	if err != nil {
		return paging.Page[model.Booking]{}, logRejection(s.log, op, storageErr(op, err))
	}
	return paging.Paginate(items, page), nil
}

func (s *QueryService) ListAllBookings(ctx context.Context, page paging.Request) (paging.Page[model.Booking], error) {
	const op = "list bookings"

	items, err := s.store.Bookings().List(ctx)
	if err != nil {
		return paging.Page[model.Booking]{}, logRejection(s.log, op, storageErr(op, err))
	}
	return paging.Paginate(items, page), nil
}

// ListAvailability фильтрует свободные интервалы по ресурсу, дате, месяцу и году.
// Месяц вне [1, 12] — ошибка входных данных.
func (s *QueryService) ListAvailability(
	ctx context.Context,
	q AvailabilityQuery,
) (paging.Page[model.AvailabilityInterval], error) {
	const op = "list availability"

	if q.Month != nil && (*q.Month < 1 || *q.Month > 12) {
		return paging.Page[model.AvailabilityInterval]{}, invalid(op, "month %d is outside 1..12", *q.Month)
	}

	filter := repository.AvailabilityFilter{
		ResourceID: q.ResourceID,
		Month:      q.Month,
		Year:       q.Year,
	}
	if q.Date != nil {
		d := interval.DateOf(*q.Date)
		filter.Date = &d
	}

	items, err := s.store.Availability().List(ctx, filter)
	if err != nil {
		return paging.Page[model.AvailabilityInterval]{}, logRejection(s.log, op, storageErr(op, err))
	}
	return paging.Paginate(items, q.Page), nil
}
