package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound — запись не найдена.
var ErrNotFound = errors.New("record not found")

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
