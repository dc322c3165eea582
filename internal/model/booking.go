package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/timeslot-allocator/internal/interval"
)

// bookings — зарезервированный клиентом интервал [StartTime, EndTime) у ресурса.
type Booking struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	ResourceID uuid.UUID `gorm:"type:uuid;not null;index:idx_bookings_partition,priority:1"`
	ClientID   uuid.UUID `gorm:"type:uuid;not null;index"`

	// Чистая дата без времени и зоны.
	Date      datatypes.Date `gorm:"type:date;not null;index:idx_bookings_partition,priority:2"`
	StartTime datatypes.Time `gorm:"type:time;not null"`
	EndTime   datatypes.Time `gorm:"type:time;not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (b Booking) Span() interval.Span {
	return interval.Span{Start: b.StartTime, End: b.EndTime}
}

func (b Booking) Day() time.Time {
	return interval.DateOf(time.Time(b.Date))
}
