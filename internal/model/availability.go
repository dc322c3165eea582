package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/timeslot-allocator/internal/interval"
)

// availability_intervals — непрерывный свободный интервал ресурса в пределах дня.
type AvailabilityInterval struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	ResourceID uuid.UUID `gorm:"type:uuid;not null;index:idx_availability_partition,priority:1"`

	Date      datatypes.Date `gorm:"type:date;not null;index:idx_availability_partition,priority:2"`
	StartTime datatypes.Time `gorm:"type:time;not null"`
	EndTime   datatypes.Time `gorm:"type:time;not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (a *AvailabilityInterval) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a AvailabilityInterval) Span() interval.Span {
	return interval.Span{Start: a.StartTime, End: a.EndTime}
}

func (a AvailabilityInterval) Day() time.Time {
	return interval.DateOf(time.Time(a.Date))
}
