package repository

import (
	"errors"

	"gorm.io/gorm"
)

// IsIntegrityViolation reports whether err is a uniqueness or check
// constraint breach raised at the storage boundary. Requires the gorm
// error translator to be enabled on the connection.
func IsIntegrityViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(err, gorm.ErrCheckConstraintViolated)
}
