package member

import (
	"errors"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength    = 100
	MaxAddressLength = 255
	MaxAge           = 120
)

// Gender values accepted by the member filter and form.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Domain errors
var (
	ErrEmptyName      = errors.New("member name cannot be empty")
	ErrNameTooLong    = errors.New("member name cannot exceed 100 characters")
	ErrInvalidEmail   = errors.New("member email must be valid")
	ErrInvalidAge     = errors.New("member age must be between 0 and 120")
	ErrInvalidGender  = errors.New("gender must be 'male', 'female', or 'other'")
	ErrAddressTooLong = errors.New("address cannot exceed 255 characters")
	ErrDuplicateEmail = errors.New("member with this email already exists")
	ErrNameMismatch   = errors.New("member not found or name does not match")
	ErrNotFound       = errors.New("member not found")
)

// Member is a gym member.
type Member struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	Age     int
	Gender  string
	Address string
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Email must contain '@', Name must not be empty
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if len(m.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if !strings.Contains(m.Email, "@") {
		return ErrInvalidEmail
	}
	if m.Age < 0 || m.Age > MaxAge {
		return ErrInvalidAge
	}
	if m.Gender != "" && !IsValidGender(m.Gender) {
		return ErrInvalidGender
	}
	if len(m.Address) > MaxAddressLength {
		return ErrAddressTooLong
	}
	return nil
}

// IsValidGender reports whether g is one of the accepted values.
func IsValidGender(g string) bool {
	switch strings.ToLower(g) {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// NameMatches reports whether name confirms deletion of this member.
// INVARIANT: Member fields are not mutated
func (m *Member) NameMatches(name string) bool {
	return strings.TrimSpace(name) != "" && m.Name == name
}
