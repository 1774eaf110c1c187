package attendance

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrMissingMember    = errors.New("member_id is required")
	ErrMissingClass     = errors.New("class_id is required")
	ErrAlreadyRecorded  = errors.New("this member is already marked present for this class")
	ErrNotFound         = errors.New("attendance record not found")
	ErrUnknownReference = errors.New("member or class does not exist")
)

// Attendance marks a member present at a class.
type Attendance struct {
	ID         string
	MemberID   string
	ClassID    string
	AttendedOn time.Time
}

// Validate checks if the Attendance has valid data.
// PRE: Attendance struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: MemberID and ClassID must not be empty
func (a *Attendance) Validate() error {
	if a.MemberID == "" {
		return ErrMissingMember
	}
	if a.ClassID == "" {
		return ErrMissingClass
	}
	return nil
}

// Record is an attendance row joined with member and class details for listing.
type Record struct {
	Attendance
	MemberName string
	ClassTitle string
	StartAt    time.Time
	EndAt      time.Time
}
