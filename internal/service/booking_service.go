package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/Leganyst/timeslot-allocator/internal/interval"
	"github.com/Leganyst/timeslot-allocator/internal/model"
	"github.com/Leganyst/timeslot-allocator/internal/repository"
)

// maxPartitionRetries — сколько раз перечитывать бронирование,
// если между чтением и захватом блокировки его перенесли в другую партицию.
const maxPartitionRetries = 3

var errPartitionMoved = errors.New("record moved to another partition")

// BookingService — создание, отмена и перенос бронирований.
// Каждая операция целиком выполняется в Store.Atomic под блокировками партиций.
type BookingService struct {
	store repository.Store
	log   *zap.Logger
}

func NewBookingService(store repository.Store, log *zap.Logger) *BookingService {
	return &BookingService{store: store, log: log.Named("booking")}
}

// CreateBooking резервирует [Start, End) из свободного интервала, который его покрывает.
// Интервал удаляется, остатки слева и справа возвращаются в свободное время.
func (s *BookingService) CreateBooking(ctx context.Context, in BookingInput) (*model.Booking, error) {
	const op = "create booking"

	span, err := in.validate(op)
	if err != nil {
		return nil, s.reject(op, err)
	}
	date := interval.DateOf(in.Date)

	booking := &model.Booking{
		ResourceID: in.ResourceID,
		ClientID:   in.ClientID,
		Date:       datatypes.Date(date),
		StartTime:  span.Start,
		EndTime:    span.End,
	}

	err = s.store.Atomic(ctx, []repository.Partition{{ResourceID: in.ResourceID, Date: date}}, func(tx repository.Store) error {
		if err := s.consume(ctx, tx, op, in.ResourceID, date, span, uuid.Nil); err != nil {
			return err
		}
		if err := tx.Bookings().Create(ctx, booking); err != nil {
			return err
		}
		return record(ctx, tx, model.EventTypeBookingCreated, booking.ResourceID, &booking.ID, nil, bookingDetails(booking))
	})
	if err != nil {
		return nil, s.reject(op, storageErr(op, err))
	}

	s.log.Info("booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("resource_id", booking.ResourceID.String()),
		zap.String("slot", interval.Format(date, span)),
	)
	return booking, nil
}

// CancelBooking удаляет бронирование. Освободившееся время в свободные интервалы не возвращается.
func (s *BookingService) CancelBooking(ctx context.Context, id uuid.UUID) error {
	const op = "cancel booking"

	err := s.withBooking(ctx, op, id, nil, func(tx repository.Store, b *model.Booking) error {
		if err := tx.Bookings().Delete(ctx, b.ID); err != nil {
			return err
		}
		return record(ctx, tx, model.EventTypeBookingCancelled, b.ResourceID, &b.ID, nil, bookingDetails(b))
	})
	if err != nil {
		return s.reject(op, err)
	}

	s.log.Info("booking cancelled", zap.String("booking_id", id.String()))
	return nil
}

// ModifyBooking меняет ресурс, клиента, дату и границы бронирования.
// При смене ресурса, даты или границ старый интервал возвращается в свободное время
// (со слиянием с соседями), а новый вырезается так же, как при создании.
// Любой отказ откатывает операцию целиком.
func (s *BookingService) ModifyBooking(ctx context.Context, id uuid.UUID, in BookingInput) (*model.Booking, error) {
	const op = "modify booking"

	span, err := in.validate(op)
	if err != nil {
		// отсутствие бронирования важнее ошибок во входных данных
		if _, gerr := s.store.Bookings().GetByID(ctx, id); errors.Is(gerr, repository.ErrNotFound) {
			return nil, s.reject(op, notFound(op, "booking", id))
		}
		return nil, s.reject(op, err)
	}
	date := interval.DateOf(in.Date)
	target := repository.Partition{ResourceID: in.ResourceID, Date: date}

	var updated *model.Booking
	err = s.withBooking(ctx, op, id, &target, func(tx repository.Store, b *model.Booking) error {
		old := *b

		// перенос в другую партицию проходит через reclaim/consume даже при тех же границах
		rescheduled := old.ResourceID != in.ResourceID || !old.Day().Equal(date) || !old.Span().Equal(span)
		if rescheduled {
			if err := s.reclaim(ctx, tx, old.ResourceID, old.Day(), old.Span()); err != nil {
				return err
			}
			if err := s.consume(ctx, tx, op, in.ResourceID, date, span, old.ID); err != nil {
				return err
			}
		}

		b.ResourceID = in.ResourceID
		b.ClientID = in.ClientID
		b.Date = datatypes.Date(date)
		b.StartTime = span.Start
		b.EndTime = span.End
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return err
		}

		details := bookingDetails(b)
		details["previous"] = bookingDetails(&old)
		details["rescheduled"] = rescheduled
		updated = b
		return record(ctx, tx, model.EventTypeBookingUpdated, b.ResourceID, &b.ID, nil, details)
	})
	if err != nil {
		return nil, s.reject(op, err)
	}

	s.log.Info("booking modified",
		zap.String("booking_id", updated.ID.String()),
		zap.String("slot", interval.Format(updated.Day(), updated.Span())),
	)
	return updated, nil
}

// withBooking читает бронирование, блокирует его партицию (и партицию target, если задана)
// и выполняет fn с актуальной копией записи внутри транзакции.
func (s *BookingService) withBooking(
	ctx context.Context,
	op string,
	id uuid.UUID,
	target *repository.Partition,
	fn func(tx repository.Store, b *model.Booking) error,
) error {
	for attempt := 0; ; attempt++ {
		current, err := s.store.Bookings().GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(op, "booking", id)
		}
		if err != nil {
			return storageErr(op, err)
		}

		home := repository.Partition{ResourceID: current.ResourceID, Date: current.Day()}
		partitions := []repository.Partition{home}
		if target != nil {
			partitions = append(partitions, *target)
		}

		err = s.store.Atomic(ctx, partitions, func(tx repository.Store) error {
			b, err := tx.Bookings().GetByID(ctx, id)
			if errors.Is(err, repository.ErrNotFound) {
				return notFound(op, "booking", id)
			}
			if err != nil {
				return err
			}
			if b.ResourceID != home.ResourceID || !b.Day().Equal(home.Date) {
				return errPartitionMoved
			}
			return fn(tx, b)
		})
		if errors.Is(err, errPartitionMoved) && attempt < maxPartitionRetries {
			s.log.Debug("booking moved while locking, retrying", zap.String("booking_id", id.String()))
			continue
		}
		return storageErr(op, err)
	}
}

// consume проверяет, что span не пересекает другие бронирования партиции,
// и вырезает его из покрывающего свободного интервала.
// exclude — бронирование, которое не считается конфликтом (переносимое).
func (s *BookingService) consume(
	ctx context.Context,
	tx repository.Store,
	op string,
	resourceID uuid.UUID,
	date time.Time,
	span interval.Span,
	exclude uuid.UUID,
) error {
	bookings, err := tx.Bookings().ListByResourceAndDate(ctx, resourceID, date)
	if err != nil {
		return err
	}
	if clash := firstBookingClash(bookings, span, exclude); clash != nil {
		return conflict(op, "span overlaps an existing booking", resourceID, date, span, clash.ID)
	}

	cover, err := tx.Availability().FindCovering(ctx, resourceID, date, span)
	if errors.Is(err, repository.ErrNotFound) {
		return noAvailability(op, resourceID, date, span)
	}
	if err != nil {
		return err
	}

	if err := tx.Availability().Delete(ctx, cover.ID); err != nil {
		return err
	}
	s.log.Debug("availability consumed",
		zap.String("availability_id", cover.ID.String()),
		zap.Stringer("interval", cover.Span()),
		zap.Stringer("booked", span),
	)

	leading, trailing := interval.Remainders(cover.Span(), span)
	for _, rest := range []*interval.Span{leading, trailing} {
		if rest == nil {
			continue
		}
		fragment := &model.AvailabilityInterval{
			ResourceID: resourceID,
			Date:       datatypes.Date(date),
			StartTime:  rest.Start,
			EndTime:    rest.End,
		}
		if err := tx.Availability().Create(ctx, fragment); err != nil {
			return err
		}
		s.log.Debug("availability remainder", zap.Stringer("interval", *rest))
	}
	return nil
}

// reclaim возвращает освобождённый span в свободное время партиции,
// сливая его с интервалами, которые заканчиваются в span.Start или начинаются в span.End.
func (s *BookingService) reclaim(
	ctx context.Context,
	tx repository.Store,
	resourceID uuid.UUID,
	date time.Time,
	span interval.Span,
) error {
	before, after, err := tx.Availability().FindAdjacent(ctx, resourceID, date, span)
	if err != nil {
		return err
	}

	switch {
	case before != nil && after != nil:
		before.EndTime = after.EndTime
		if err := tx.Availability().Update(ctx, before); err != nil {
			return err
		}
		if err := tx.Availability().Delete(ctx, after.ID); err != nil {
			return err
		}
		s.log.Debug("availability merged", zap.Stringer("interval", before.Span()))
	case before != nil:
		before.EndTime = span.End
		if err := tx.Availability().Update(ctx, before); err != nil {
			return err
		}
		s.log.Debug("availability extended forward", zap.Stringer("interval", before.Span()))
	case after != nil:
		after.StartTime = span.Start
		if err := tx.Availability().Update(ctx, after); err != nil {
			return err
		}
		s.log.Debug("availability extended backward", zap.Stringer("interval", after.Span()))
	default:
		a := &model.AvailabilityInterval{
			ResourceID: resourceID,
			Date:       datatypes.Date(date),
			StartTime:  span.Start,
			EndTime:    span.End,
		}
		if err := tx.Availability().Create(ctx, a); err != nil {
			return err
		}
		s.log.Debug("availability reclaimed", zap.Stringer("interval", span))
	}
	return nil
}

func (s *BookingService) reject(op string, err error) error {
	return logRejection(s.log, op, err)
}

// logRejection пишет отказ в лог с видом ошибки и возвращает err без изменений.
func logRejection(log *zap.Logger, op string, err error) error {
	kind := KindOf(err)
	if errors.Is(kind, ErrStorageUnavailable) {
		log.Warn(op+" failed", zap.Error(err))
		return err
	}
	log.Info(op+" rejected", zap.String("kind", kind.Error()), zap.Error(err))
	return err
}
