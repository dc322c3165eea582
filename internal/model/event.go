package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Тип события аудита.
type EventType string

const (
	EventTypeBookingCreated          EventType = "booking_created"
	EventTypeBookingCancelled        EventType = "booking_cancelled"
	EventTypeBookingUpdated          EventType = "booking_updated"
	EventTypeAvailabilityCreated     EventType = "availability_created"
	EventTypeAvailabilityBulkCreated EventType = "availability_bulk_created"
	EventTypeAvailabilityUpdated     EventType = "availability_updated"
)

// events — журнал аудита, пишется в той же транзакции, что и изменение.
// Внешних ключей нет: отменённые бронирования удаляются, а их события остаются.
type Event struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	EventType EventType `gorm:"type:varchar(64);not null;index"`

	CreatedAt time.Time `gorm:"not null;index"`

	ResourceID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	BookingID      *uuid.UUID `gorm:"type:uuid;index"`
	AvailabilityID *uuid.UUID `gorm:"type:uuid;index"`

	Details datatypes.JSON
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
