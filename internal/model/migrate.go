package model

import "gorm.io/gorm"

// AutoMigrate выполняет миграцию всех сущностей ядра распределения интервалов.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&AvailabilityInterval{},
		&Booking{},
		&Event{},
	)
}
