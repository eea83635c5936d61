package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("record already exists")
	// ErrInUse is returned when a delete is blocked by rows referencing the record.
	ErrInUse = errors.New("record is referenced by other records")
	// ErrStatusConflict is returned when a conditional status change finds the
	// row in a state it cannot move from.
	ErrStatusConflict = errors.New("record is not in the expected status")
)

// translate maps GORM's translated errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrInUse
	}
	return err
}
