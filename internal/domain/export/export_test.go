package export_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitpro/internal/domain/attendance"
	"fitpro/internal/domain/export"
	"fitpro/internal/domain/member"
)

var spin = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func records() []attendance.Record {
	return []attendance.Record{
		{Attendance: attendance.Attendance{ID: "a1", MemberID: "m1", ClassID: "c1", AttendedOn: spin}, MemberName: "Ann", ClassTitle: "Spin", StartAt: spin, EndAt: spin.Add(time.Hour)},
		{Attendance: attendance.Attendance{ID: "a2", MemberID: "m2", ClassID: "c2", AttendedOn: spin}, MemberName: "Bo", ClassTitle: "Yoga", StartAt: spin.Add(2 * time.Hour), EndAt: spin.Add(3 * time.Hour)},
		{Attendance: attendance.Attendance{ID: "a3", MemberID: "m3", ClassID: "c1", AttendedOn: spin}, MemberName: "Cy", ClassTitle: "Spin", StartAt: spin, EndAt: spin.Add(time.Hour)},
	}
}

func TestAttendanceSheet(t *testing.T) {
	s := export.AttendanceSheet(records())

	require.NoError(t, s.Validate())
	require.Len(t, s.Rows, 3)
	assert.Equal(t, []any{"a1", "Ann", "m1", "Spin", "c1", "2026-03-02 10:00", "2026-03-02 11:00", "2026-03-02 10:00"}, s.Rows[0])
}

func TestSummarySheet(t *testing.T) {
	s := export.SummarySheet(records())

	require.NoError(t, s.Validate())
	assert.Equal(t, [][]any{
		{"Spin", "2026-03-02 10:00", 2},
		{"Yoga", "2026-03-02 12:00", 1},
	}, s.Rows)
}

func TestMemberSheet_HeaderMatchesImportColumns(t *testing.T) {
	s := export.MemberSheet([]member.Member{{Name: "Ann", Email: "ann@x.com", Age: 30}})

	assert.Equal(t, "NAME,EMAIL,PHONE,AGE,GENDER,ADDRESS", strings.Join(s.Header, ","))
	assert.Equal(t, []any{"Ann", "ann@x.com", "", 30, "", ""}, s.Rows[0])
}

func TestSheet_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sheet   export.Sheet
		wantErr error
	}{
		{"valid", export.Sheet{Name: "A", Header: []string{"x"}, Rows: [][]any{{1}}}, nil},
		{"empty name", export.Sheet{Header: []string{"x"}}, export.ErrEmptySheetName},
		{"long name", export.Sheet{Name: strings.Repeat("n", 32)}, export.ErrSheetNameTooLong},
		{"ragged row", export.Sheet{Name: "A", Header: []string{"x", "y"}, Rows: [][]any{{1}}}, export.ErrRowWidth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sheet.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "fitpro-attendance-20260302-1000.xlsx", export.Filename("attendance", spin))
}
