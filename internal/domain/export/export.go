// Package export lays out gym records as named tables for spreadsheet export.
package export

import (
	"errors"
	"fmt"
	"time"

	"fitpro/internal/domain/attendance"
	"fitpro/internal/domain/member"
)

// MaxSheetNameLength is the longest sheet name spreadsheet readers accept.
const MaxSheetNameLength = 31

// Domain errors.
var (
	ErrEmptySheetName   = errors.New("sheet name is required")
	ErrSheetNameTooLong = errors.New("sheet name cannot exceed 31 characters")
	ErrRowWidth         = errors.New("row width does not match header")
)

// Sheet is one table of an export workbook.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// Validate checks that the Sheet can be written.
// PRE: Sheet struct is populated
// POST: Returns nil if valid, error otherwise
// INVARIANT: Every row has exactly len(Header) cells
func (s *Sheet) Validate() error {
	if s.Name == "" {
		return ErrEmptySheetName
	}
	if len(s.Name) > MaxSheetNameLength {
		return ErrSheetNameTooLong
	}
	for i, row := range s.Rows {
		if len(row) != len(s.Header) {
			return fmt.Errorf("row %d: %w", i+1, ErrRowWidth)
		}
	}
	return nil
}

// timeCell renders timestamps the same way in every sheet.
func timeCell(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}

// AttendanceSheet lays out attendance records, one row per presence.
func AttendanceSheet(records []attendance.Record) Sheet {
	s := Sheet{
		Name:   "Attendance",
		Header: []string{"Attendance ID", "Member", "Member ID", "Class", "Class ID", "Class Start", "Class End", "Recorded"},
		Rows:   make([][]any, 0, len(records)),
	}
	for _, r := range records {
		s.Rows = append(s.Rows, []any{
			r.ID, r.MemberName, r.MemberID, r.ClassTitle, r.ClassID,
			timeCell(r.StartAt), timeCell(r.EndAt), timeCell(r.AttendedOn),
		})
	}
	return s
}

// SummarySheet counts attendance per class, in first-seen order.
func SummarySheet(records []attendance.Record) Sheet {
	s := Sheet{Name: "By Class", Header: []string{"Class", "Class Start", "Present"}}
	index := make(map[string]int)
	for _, r := range records {
		i, ok := index[r.ClassID]
		if !ok {
			i = len(s.Rows)
			index[r.ClassID] = i
			s.Rows = append(s.Rows, []any{r.ClassTitle, timeCell(r.StartAt), 0})
		}
		s.Rows[i][2] = s.Rows[i][2].(int) + 1
	}
	return s
}

// MemberSheet lays out members with the same columns the CSV import reads.
func MemberSheet(members []member.Member) Sheet {
	s := Sheet{
		Name:   "Members",
		Header: []string{"NAME", "EMAIL", "PHONE", "AGE", "GENDER", "ADDRESS"},
		Rows:   make([][]any, 0, len(members)),
	}
	for _, m := range members {
		s.Rows = append(s.Rows, []any{m.Name, m.Email, m.Phone, m.Age, m.Gender, m.Address})
	}
	return s
}

// Filename names a workbook for kind exported at the given instant.
func Filename(kind string, at time.Time) string {
	return fmt.Sprintf("fitpro-%s-%s.xlsx", kind, at.UTC().Format("20060102-1504"))
}
