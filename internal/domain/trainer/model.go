package trainer

import (
	"errors"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength      = 100
	MaxSpecialtyLength = 100
)

// Domain errors
var (
	ErrEmptyName        = errors.New("trainer name cannot be empty")
	ErrNameTooLong      = errors.New("trainer name cannot exceed 100 characters")
	ErrSpecialtyTooLong = errors.New("specialty cannot exceed 100 characters")
	ErrInvalidEmail     = errors.New("trainer email must be valid")
	ErrDuplicateEmail   = errors.New("trainer with this email already exists")
	ErrNotFound         = errors.New("trainer not found")
)

// Trainer runs classes.
type Trainer struct {
	ID        string
	Name      string
	Specialty string
	Phone     string
	Email     string
}

// Validate checks if the Trainer has valid data.
// PRE: Trainer struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (t *Trainer) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if len(t.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(t.Specialty) > MaxSpecialtyLength {
		return ErrSpecialtyTooLong
	}
	if !strings.Contains(t.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}
