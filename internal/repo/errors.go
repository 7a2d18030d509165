package repo

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a deck, card or image id is unknown.
	ErrNotFound = errors.New("not found")
	// ErrStorage wraps any failure of the underlying database.
	ErrStorage = errors.New("storage failure")
)

// wrapErr maps gorm errors onto the store error taxonomy.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
