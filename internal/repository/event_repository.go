package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/timeslot-allocator/internal/model"
)

type EventRepository interface {
	// Записать событие аудита.
	Create(ctx context.Context, event *model.Event) error
	// События ресурса в порядке записи.
	ListByResource(ctx context.Context, resourceID uuid.UUID) ([]model.Event, error)
}

type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

func (r *GormEventRepository) Create(ctx context.Context, event *model.Event) error {
	return wrap("create event", r.db.WithContext(ctx).Create(event).Error)
}

func (r *GormEventRepository) ListByResource(ctx context.Context, resourceID uuid.UUID) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, wrap("list events", err)
	}
	return events, nil
}
