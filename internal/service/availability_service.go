package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/Leganyst/timeslot-allocator/internal/interval"
	"github.com/Leganyst/timeslot-allocator/internal/model"
	"github.com/Leganyst/timeslot-allocator/internal/repository"
)

// AvailabilityService управляет свободными интервалами ресурса.
type AvailabilityService struct {
	store       repository.Store
	log         *zap.Logger
	maxBulkDays int
}

func NewAvailabilityService(store repository.Store, log *zap.Logger, maxBulkDays int) *AvailabilityService {
	return &AvailabilityService{store: store, log: log.Named("availability"), maxBulkDays: maxBulkDays}
}

// CreateAvailability сохраняет интервал без проверки пересечений.
func (s *AvailabilityService) CreateAvailability(ctx context.Context, in AvailabilityInput) (*model.AvailabilityInterval, error) {
	const op = "create availability"
	return s.create(ctx, op, in, false)
}

// AddAvailability сохраняет интервал, если он не касается другого свободного интервала
// (касание концами тоже конфликт) и не пересекает бронирования партиции.
func (s *AvailabilityService) AddAvailability(ctx context.Context, in AvailabilityInput) (*model.AvailabilityInterval, error) {
	const op = "add availability"
	return s.create(ctx, op, in, true)
}

func (s *AvailabilityService) create(
	ctx context.Context,
	op string,
	in AvailabilityInput,
	checked bool,
) (*model.AvailabilityInterval, error) {
	span, err := in.validate(op)
	if err != nil {
		return nil, s.reject(op, err)
	}
	date := interval.DateOf(in.Date)

	a := &model.AvailabilityInterval{
		ResourceID: in.ResourceID,
		Date:       datatypes.Date(date),
		StartTime:  span.Start,
		EndTime:    span.End,
	}

	var partitions []repository.Partition
	if checked {
		partitions = []repository.Partition{{ResourceID: in.ResourceID, Date: date}}
	}

	err = s.store.Atomic(ctx, partitions, func(tx repository.Store) error {
		if checked {
			free, err := tx.Availability().ListByResourceAndDate(ctx, in.ResourceID, date)
			if err != nil {
				return err
			}
			if touching := firstTouching(free, span); touching != nil {
				return conflict(op, "span touches an existing availability interval", in.ResourceID, date, span, touching.ID)
			}
			bookings, err := tx.Bookings().ListByResourceAndDate(ctx, in.ResourceID, date)
			if err != nil {
				return err
			}
			if clash := firstBookingClash(bookings, span, uuid.Nil); clash != nil {
				return conflict(op, "span overlaps an existing booking", in.ResourceID, date, span, clash.ID)
			}
		}
		if err := tx.Availability().Create(ctx, a); err != nil {
			return err
		}
		return record(ctx, tx, model.EventTypeAvailabilityCreated, a.ResourceID, nil, &a.ID, availabilityDetails(a))
	})
	if err != nil {
		return nil, s.reject(op, storageErr(op, err))
	}

	s.log.Info("availability created",
		zap.String("availability_id", a.ID.String()),
		zap.String("resource_id", a.ResourceID.String()),
		zap.String("slot", interval.Format(date, span)),
	)
	return a, nil
}

// CreateAvailabilityBulk создаёт интервал [Start, End) на каждый рабочий день
// отрезка [DateFrom, DateTo]; выходные пропускаются. Возвращает число созданных записей.
func (s *AvailabilityService) CreateAvailabilityBulk(ctx context.Context, in BulkAvailabilityInput) (int, error) {
	const op = "create availability bulk"

	if in.ResourceID == uuid.Nil {
		return 0, s.reject(op, invalid(op, "resource_id is required"))
	}
	if in.DateFrom.IsZero() || in.DateTo.IsZero() {
		return 0, s.reject(op, invalid(op, "date_from and date_to are required"))
	}
	span, err := validSpan(op, in.Start, in.End)
	if err != nil {
		return 0, s.reject(op, err)
	}
	if n := interval.DaysInRange(in.DateFrom, in.DateTo); s.maxBulkDays > 0 && n > s.maxBulkDays {
		return 0, s.reject(op, invalid(op, "range of %d days exceeds the limit of %d", n, s.maxBulkDays))
	}

	var created []*model.AvailabilityInterval
	for _, day := range interval.Days(in.DateFrom, in.DateTo) {
		if !interval.IsBusinessDay(day) {
			continue
		}
		created = append(created, &model.AvailabilityInterval{
			ResourceID: in.ResourceID,
			Date:       datatypes.Date(day),
			StartTime:  span.Start,
			EndTime:    span.End,
		})
	}
	if len(created) == 0 {
		s.log.Info("bulk range has no business days",
			zap.String("resource_id", in.ResourceID.String()),
			zap.Time("from", in.DateFrom),
			zap.Time("to", in.DateTo),
		)
		return 0, nil
	}

	err = s.store.Atomic(ctx, nil, func(tx repository.Store) error {
		for _, a := range created {
			if err := tx.Availability().Create(ctx, a); err != nil {
				return err
			}
		}
		return record(ctx, tx, model.EventTypeAvailabilityBulkCreated, in.ResourceID, nil, nil, map[string]any{
			"date_from": interval.DateOf(in.DateFrom).Format(interval.DateLayout),
			"date_to":   interval.DateOf(in.DateTo).Format(interval.DateLayout),
			"start":     interval.FormatClock(span.Start),
			"end":       interval.FormatClock(span.End),
			"count":     len(created),
		})
	})
	if err != nil {
		return 0, s.reject(op, storageErr(op, err))
	}

	s.log.Info("availability bulk created",
		zap.String("resource_id", in.ResourceID.String()),
		zap.Int("count", len(created)),
		zap.Stringer("span", span),
	)
	return len(created), nil
}

// UpdateAvailability перезаписывает интервал. Расширять его поверх бронирований можно,
// сужать так, что бронирование выйдет за новые границы, нельзя.
func (s *AvailabilityService) UpdateAvailability(
	ctx context.Context,
	id uuid.UUID,
	in AvailabilityInput,
) (*model.AvailabilityInterval, error) {
	const op = "update availability"

	span, verr := in.validate(op)
	date := interval.DateOf(in.Date)

	var updated *model.AvailabilityInterval
	for attempt := 0; ; attempt++ {
		current, err := s.store.Availability().GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.reject(op, notFound(op, "availability interval", id))
		}
		if err != nil {
			return nil, s.reject(op, storageErr(op, err))
		}
		if verr != nil {
			return nil, s.reject(op, verr)
		}

		home := repository.Partition{ResourceID: current.ResourceID, Date: current.Day()}
		partitions := []repository.Partition{home, {ResourceID: in.ResourceID, Date: date}}

		err = s.store.Atomic(ctx, partitions, func(tx repository.Store) error {
			a, err := tx.Availability().GetByID(ctx, id)
			if errors.Is(err, repository.ErrNotFound) {
				return notFound(op, "availability interval", id)
			}
			if err != nil {
				return err
			}
			if a.ResourceID != home.ResourceID || !a.Day().Equal(home.Date) {
				return errPartitionMoved
			}

			bookings, err := tx.Bookings().ListByResourceAndDate(ctx, in.ResourceID, date)
			if err != nil {
				return err
			}
			for _, b := range bookingsWithin(bookings, span) {
				if !interval.Covers(span, b.Span()) {
					return conflict(op, "booking "+b.Span().String()+" would fall outside the new bounds",
						in.ResourceID, date, span, b.ID)
				}
			}

			previous := availabilityDetails(a)
			a.ResourceID = in.ResourceID
			a.Date = datatypes.Date(date)
			a.StartTime = span.Start
			a.EndTime = span.End
			if err := tx.Availability().Update(ctx, a); err != nil {
				return err
			}

			details := availabilityDetails(a)
			details["previous"] = previous
			updated = a
			return record(ctx, tx, model.EventTypeAvailabilityUpdated, a.ResourceID, nil, &a.ID, details)
		})
		if errors.Is(err, errPartitionMoved) && attempt < maxPartitionRetries {
			s.log.Debug("availability moved while locking, retrying", zap.String("availability_id", id.String()))
			continue
		}
		if err != nil {
			return nil, s.reject(op, storageErr(op, err))
		}
		break
	}

	s.log.Info("availability updated",
		zap.String("availability_id", updated.ID.String()),
		zap.String("slot", interval.Format(date, span)),
	)
	return updated, nil
}

func (s *AvailabilityService) reject(op string, err error) error {
	return logRejection(s.log, op, err)
}
