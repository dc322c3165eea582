package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/timeslot-allocator/internal/lock"
)

// Partition — пара (ресурс, дата), внутри которой действуют инварианты непересечения.
type Partition struct {
	ResourceID uuid.UUID
	Date       time.Time
}

func (p Partition) Key() string {
	return lock.Key(p.ResourceID, p.Date)
}

// Store — хранилище интервалов: свободное время, бронирования и журнал событий.
type Store interface {
	Bookings() BookingRepository
	Availability() AvailabilityRepository
	Events() EventRepository

	// Atomic выполняет fn в одной транзакции, удерживая блокировки партиций.
	// Ошибка fn откатывает транзакцию и возвращается как есть.
	// Внутри fn нужно работать только через переданный tx.
	Atomic(ctx context.Context, partitions []Partition, fn func(tx Store) error) error
}

type GormStore struct {
	db     *gorm.DB
	locker lock.PartitionLocker
	inTx   bool
}

func NewGormStore(db *gorm.DB, locker lock.PartitionLocker) *GormStore {
	return &GormStore{db: db, locker: locker}
}

func (s *GormStore) Bookings() BookingRepository {
	return NewGormBookingRepository(s.db)
}

func (s *GormStore) Availability() AvailabilityRepository {
	return NewGormAvailabilityRepository(s.db)
}

func (s *GormStore) Events() EventRepository {
	return NewGormEventRepository(s.db)
}

func (s *GormStore) Atomic(ctx context.Context, partitions []Partition, fn func(tx Store) error) error {
	if s.inTx {
		// уже внутри транзакции, блокировки взяты снаружи
		return fn(s)
	}

	keys := make([]string, 0, len(partitions))
	for _, p := range partitions {
		keys = append(keys, p.Key())
	}

	// Внешние блокировки (redis, локальные) снимаются только после commit,
	// иначе следующий владелец увидит состояние до фиксации.
	var release func()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(keys) > 0 && s.locker != nil {
			r, err := s.locker.Lock(ctx, tx, keys)
			if err != nil {
				return err
			}
			release = r
		}
		return fn(&GormStore{db: tx, locker: s.locker, inTx: true})
	})
	if release != nil {
		release()
	}
	return err
}
