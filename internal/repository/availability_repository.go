package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/timeslot-allocator/internal/interval"
	"github.com/Leganyst/timeslot-allocator/internal/model"
)

// AvailabilityFilter — необязательные фильтры списка свободных интервалов.
// Month и Year сравниваются с датой интервала независимо друг от друга.
type AvailabilityFilter struct {
	ResourceID *uuid.UUID
	Date       *time.Time
	Month      *int
	Year       *int
}

type AvailabilityRepository interface {
	// Создать свободный интервал.
	Create(ctx context.Context, a *model.AvailabilityInterval) error
	// Перезаписать ресурс, дату и границы интервала.
	Update(ctx context.Context, a *model.AvailabilityInterval) error
	// Удалить интервал.
	Delete(ctx context.Context, id uuid.UUID) error
	// Найти интервал по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.AvailabilityInterval, error)
	// Интервалы ресурса на дату, по возрастанию начала.
	ListByResourceAndDate(ctx context.Context, resourceID uuid.UUID, date time.Time) ([]model.AvailabilityInterval, error)
	// Первый интервал партиции, целиком покрывающий span; ErrNotFound, если такого нет.
	FindCovering(ctx context.Context, resourceID uuid.UUID, date time.Time, span interval.Span) (*model.AvailabilityInterval, error)
	// Соседи span: интервал, заканчивающийся в span.Start, и интервал, начинающийся в span.End.
	// Отсутствующий сосед возвращается как nil.
	FindAdjacent(ctx context.Context, resourceID uuid.UUID, date time.Time, span interval.Span) (before, after *model.AvailabilityInterval, err error)
	// Список по фильтру, по возрастанию даты и начала.
	List(ctx context.Context, filter AvailabilityFilter) ([]model.AvailabilityInterval, error)
}

type GormAvailabilityRepository struct {
	db *gorm.DB
}

func NewGormAvailabilityRepository(db *gorm.DB) *GormAvailabilityRepository {
	return &GormAvailabilityRepository{db: db}
}

func (r *GormAvailabilityRepository) partition(ctx context.Context, resourceID uuid.UUID, date time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.AvailabilityInterval{}).
		Where(`resource_id = ? AND "date" = ?`, resourceID, datatypes.Date(date))
}

func (r *GormAvailabilityRepository) Create(ctx context.Context, a *model.AvailabilityInterval) error {
	return wrap("create availability", r.db.WithContext(ctx).Create(a).Error)
}

func (r *GormAvailabilityRepository) Update(ctx context.Context, a *model.AvailabilityInterval) error {
	res := r.db.WithContext(ctx).
		Model(&model.AvailabilityInterval{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"resource_id": a.ResourceID,
			"date":        a.Date,
			"start_time":  a.StartTime,
			"end_time":    a.EndTime,
		})
	if res.Error != nil {
		return wrap("update availability", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("update availability", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *GormAvailabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.AvailabilityInterval{}, "id = ?", id)
	if res.Error != nil {
		return wrap("delete availability", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("delete availability", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *GormAvailabilityRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AvailabilityInterval, error) {
	var a model.AvailabilityInterval
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, wrap("get availability", err)
	}
	return &a, nil
}

func (r *GormAvailabilityRepository) ListByResourceAndDate(
	ctx context.Context,
	resourceID uuid.UUID,
	date time.Time,
) ([]model.AvailabilityInterval, error) {
	var items []model.AvailabilityInterval
	if err := r.partition(ctx, resourceID, date).Order("start_time ASC").Find(&items).Error; err != nil {
		return nil, wrap("list availability by resource and date", err)
	}
	return items, nil
}

func (r *GormAvailabilityRepository) FindCovering(
	ctx context.Context,
	resourceID uuid.UUID,
	date time.Time,
	span interval.Span,
) (*model.AvailabilityInterval, error) {
	var a model.AvailabilityInterval
	err := r.partition(ctx, resourceID, date).
		Where("start_time <= ? AND end_time >= ?", span.Start, span.End).
		// порядок детерминирован для фиксированного состояния
		Order("start_time ASC, id ASC").
		First(&a).Error
	if err != nil {
		return nil, wrap("find covering availability", err)
	}
	return &a, nil
}

func (r *GormAvailabilityRepository) FindAdjacent(
	ctx context.Context,
	resourceID uuid.UUID,
	date time.Time,
	span interval.Span,
) (*model.AvailabilityInterval, *model.AvailabilityInterval, error) {
	before, err := r.firstOrNil(r.partition(ctx, resourceID, date).Where("end_time = ?", span.Start))
	if err != nil {
		return nil, nil, wrap("find availability before span", err)
	}
	after, err := r.firstOrNil(r.partition(ctx, resourceID, date).Where("start_time = ?", span.End))
	if err != nil {
		return nil, nil, wrap("find availability after span", err)
	}
	return before, after, nil
}

func (r *GormAvailabilityRepository) firstOrNil(q *gorm.DB) (*model.AvailabilityInterval, error) {
	var a model.AvailabilityInterval
	err := q.Order("start_time ASC, id ASC").First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormAvailabilityRepository) List(ctx context.Context, filter AvailabilityFilter) ([]model.AvailabilityInterval, error) {
	q := r.db.WithContext(ctx).Model(&model.AvailabilityInterval{})

	if filter.ResourceID != nil {
		q = q.Where("resource_id = ?", *filter.ResourceID)
	}
	if filter.Date != nil {
		q = q.Where(`"date" = ?`, datatypes.Date(*filter.Date))
	}
	if filter.Month != nil {
		q = q.Where(datePartExpr(r.db, "month")+" = ?", *filter.Month)
	}
	if filter.Year != nil {
		q = q.Where(datePartExpr(r.db, "year")+" = ?", *filter.Year)
	}

	var items []model.AvailabilityInterval
	if err := q.Order(`"date" ASC, start_time ASC`).Find(&items).Error; err != nil {
		return nil, wrap("list availability", err)
	}
	return items, nil
}

// datePartExpr — номер месяца или год колонки date в диалекте текущей БД.
func datePartExpr(db *gorm.DB, part string) string {
	if db.Dialector.Name() == "sqlite" {
		format := "%Y"
		if part == "month" {
			format = "%m"
		}
		return `CAST(strftime('` + format + `', "date") AS INTEGER)`
	}
	if part == "month" {
		return `EXTRACT(MONTH FROM "date")`
	}
	return `EXTRACT(YEAR FROM "date")`
}
