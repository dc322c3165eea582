package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/timeslot-allocator/internal/model"
)

type BookingRepository interface {
	// Создать новое бронирование.
	Create(ctx context.Context, booking *model.Booking) error
	// Перезаписать ресурс, клиента, дату и границы бронирования.
	Update(ctx context.Context, booking *model.Booking) error
	// Удалить бронирование.
	Delete(ctx context.Context, id uuid.UUID) error
	// Получить бронирование по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	// Бронирования ресурса на дату, по возрастанию начала.
	ListByResourceAndDate(ctx context.Context, resourceID uuid.UUID, date time.Time) ([]model.Booking, error)
	// Бронирования клиента, новые сверху.
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Booking, error)
	// Все бронирования.
	List(ctx context.Context) ([]model.Booking, error)
}

// Реализация на GORM.
type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return wrap("create booking", r.db.WithContext(ctx).Create(booking).Error)
}

func (r *GormBookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	// map, а не struct: нулевое время суток (00:00) тоже должно записываться
	res := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id = ?", booking.ID).
		Updates(map[string]any{
			"resource_id": booking.ResourceID,
			"client_id":   booking.ClientID,
			"date":        booking.Date,
			"start_time":  booking.StartTime,
			"end_time":    booking.EndTime,
		})
	if res.Error != nil {
		return wrap("update booking", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("update booking", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *GormBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Booking{}, "id = ?", id)
	if res.Error != nil {
		return wrap("delete booking", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("delete booking", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *GormBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, wrap("get booking", err)
	}
	return &b, nil
}

func (r *GormBookingRepository) ListByResourceAndDate(
	ctx context.Context,
	resourceID uuid.UUID,
	date time.Time,
) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Where(`resource_id = ? AND "date" = ?`, resourceID, datatypes.Date(date)).
		Order("start_time ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, wrap("list bookings by resource and date", err)
	}
	return bookings, nil
}

func (r *GormBookingRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order(`"date" DESC, start_time DESC`).
		Find(&bookings).Error
	if err != nil {
		return nil, wrap("list bookings by client", err)
	}
	return bookings, nil
}

func (r *GormBookingRepository) List(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Order(`"date" ASC, start_time ASC`).
		Find(&bookings).Error
	if err != nil {
		return nil, wrap("list bookings", err)
	}
	return bookings, nil
}
