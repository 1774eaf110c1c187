package class

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxTitleLength = 120
)

// Domain errors
var (
	ErrEmptyTitle         = errors.New("class title cannot be empty")
	ErrTitleTooLong       = errors.New("class title cannot exceed 120 characters")
	ErrEmptyTrainerID     = errors.New("trainer ID cannot be empty")
	ErrMissingWindow      = errors.New("class start and end times are required")
	ErrInvalidWindow      = errors.New("class must end after it starts")
	ErrSchedulingConflict = errors.New("trainer already has a scheduled class during this time")
)

// Class is one scheduled session owned by a trainer.
// The window is half-open: it includes StartAt and excludes EndAt.
type Class struct {
	ID        string
	Title     string
	TrainerID string
	StartAt   time.Time
	EndAt     time.Time
}

// Validate checks if the Class has valid data.
// PRE: Class struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Class) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return ErrEmptyTitle
	}
	if len(c.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if strings.TrimSpace(c.TrainerID) == "" {
		return ErrEmptyTrainerID
	}
	return ValidateWindow(c.StartAt, c.EndAt)
}

// ValidateWindow checks that start and end form a non-empty window.
func ValidateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ErrMissingWindow
	}
	if !start.Before(end) {
		return ErrInvalidWindow
	}
	return nil
}

// Overlaps reports whether [start, end) intersects the class window.
// Back-to-back windows (one ends exactly when the other starts) do not overlap.
// INVARIANT: Class fields are not mutated
func (c *Class) Overlaps(start, end time.Time) bool {
	return start.Before(c.EndAt) && end.After(c.StartAt)
}

// Changes carries the fields of a class update; nil means unchanged.
type Changes struct {
	Title     *string
	TrainerID *string
	StartAt   *time.Time
	EndAt     *time.Time
}

// IsEmpty reports whether no field is set.
func (ch Changes) IsEmpty() bool {
	return ch.Title == nil && ch.TrainerID == nil && ch.StartAt == nil && ch.EndAt == nil
}

// TouchesSchedule reports whether the update can move the class in time or
// onto another trainer, which requires a fresh conflict check.
func (ch Changes) TouchesSchedule() bool {
	return ch.TrainerID != nil || ch.StartAt != nil || ch.EndAt != nil
}

// Apply returns a copy of c with the set fields replaced.
// INVARIANT: c is not mutated
func (ch Changes) Apply(c Class) Class {
	if ch.Title != nil {
		c.Title = *ch.Title
	}
	if ch.TrainerID != nil {
		c.TrainerID = *ch.TrainerID
	}
	if ch.StartAt != nil {
		c.StartAt = *ch.StartAt
	}
	if ch.EndAt != nil {
		c.EndAt = *ch.EndAt
	}
	return c
}

// ConflictError reports the existing class that blocks a proposed window.
type ConflictError struct {
	Existing Class
}

// Error implements error.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %q (%s to %s)", ErrSchedulingConflict.Error(), e.Existing.Title,
		e.Existing.StartAt.Format(time.RFC3339), e.Existing.EndAt.Format(time.RFC3339))
}

// Is makes errors.Is(err, ErrSchedulingConflict) match.
func (e *ConflictError) Is(target error) bool {
	return target == ErrSchedulingConflict
}
