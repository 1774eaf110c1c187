package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"fitpro/internal/adapters/storage"
	"fitpro/internal/domain/attendance"
)

// AttendanceStore defines the store interface needed by the attendance orchestrators.
type AttendanceStore interface {
	Create(ctx context.Context, a attendance.Attendance) error
	Update(ctx context.Context, id string, patch storage.Patch) (attendance.Attendance, error)
}

// RecordAttendanceInput carries input for the record-attendance orchestrator.
type RecordAttendanceInput struct {
	MemberID string
	ClassID  string
}

// AttendanceDeps holds dependencies for the attendance orchestrators.
type AttendanceDeps struct {
	AttendanceStore AttendanceStore
	GenerateID      func() string
	Now             func() time.Time
}

// ExecuteRecordAttendance marks a member present at a class.
// PRE: MemberID and ClassID name existing rows
// POST: Attendance persisted with AttendedOn=now
// INVARIANT: A member is recorded at most once per class (enforced by store)
func ExecuteRecordAttendance(ctx context.Context, input RecordAttendanceInput, deps AttendanceDeps) (attendance.Attendance, error) {
	a := attendance.Attendance{
		ID:         newID(deps.GenerateID),
		MemberID:   strings.TrimSpace(input.MemberID),
		ClassID:    strings.TrimSpace(input.ClassID),
		AttendedOn: nowFrom(deps.Now),
	}
	if err := a.Validate(); err != nil {
		return attendance.Attendance{}, required("member_id and class_id are required")
	}

	if err := deps.AttendanceStore.Create(ctx, a); err != nil {
		return attendance.Attendance{}, err
	}

	slog.Info("attendance_event", "event", "recorded", "attendance_id", a.ID, "member_id", a.MemberID, "class_id", a.ClassID)
	return a, nil
}

// UpdateAttendanceInput carries the references to change; empty means unchanged.
type UpdateAttendanceInput struct {
	ID       string
	MemberID string
	ClassID  string
}

// ExecuteUpdateAttendance moves an attendance record to another member or class.
// PRE: At least one of MemberID, ClassID is set
// POST: Record updated unless the new pair is already recorded
func ExecuteUpdateAttendance(ctx context.Context, input UpdateAttendanceInput, deps AttendanceDeps) (attendance.Attendance, error) {
	p := storage.Patch{}
	if id := strings.TrimSpace(input.MemberID); id != "" {
		p["member_id"] = id
	}
	if id := strings.TrimSpace(input.ClassID); id != "" {
		p["class_id"] = id
	}
	if len(p) == 0 {
		return attendance.Attendance{}, required("nothing to update")
	}

	updated, err := deps.AttendanceStore.Update(ctx, input.ID, p)
	if errors.Is(err, storage.ErrNotFound) {
		return attendance.Attendance{}, attendance.ErrNotFound
	}
	if err != nil {
		return attendance.Attendance{}, err
	}

	slog.Info("attendance_event", "event", "updated", "attendance_id", input.ID, "fields", p.Columns())
	return updated, nil
}
