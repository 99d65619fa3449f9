package screens

import (
	"fmt"
	"time"

	"github.com/campuskit/campusctl/internal/shared"
)

// Required fails when value is empty.
func Required(label, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", shared.ErrValidation, label)
	}
	return nil
}

// DateDDMMYYYY fails unless value is an 8-digit DDMMYYYY string naming a real
// calendar date.
func DateDDMMYYYY(label, value string) error {
	if len(value) != 8 {
		return fmt.Errorf("%w: %s must be an 8-digit DDMMYYYY date", shared.ErrValidation, label)
	}
	if _, err := time.Parse("02012006", value); err != nil {
		return fmt.Errorf("%w: %s is not a valid DDMMYYYY date", shared.ErrValidation, label)
	}
	return nil
}
