package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"fitpro/internal/adapters/storage"
	attendanceStore "fitpro/internal/adapters/storage/attendance"
	"fitpro/internal/application/orchestrators"
	"fitpro/internal/domain/attendance"
	"fitpro/internal/domain/export"
)

type attendanceJSON struct {
	ID         string    `json:"id"`
	MemberID   string    `json:"member_id"`
	ClassID    string    `json:"class_id"`
	AttendedOn time.Time `json:"attended_on"`
	MemberName string    `json:"member_name,omitempty"`
	ClassTitle string    `json:"class_title,omitempty"`
	Schedule   time.Time `json:"schedule,omitzero"`
	EndTime    time.Time `json:"end_time,omitzero"`
}

func toAttendanceJSON(a attendance.Attendance) attendanceJSON {
	return attendanceJSON{ID: a.ID, MemberID: a.MemberID, ClassID: a.ClassID, AttendedOn: a.AttendedOn}
}

type attendanceRequest struct {
	MemberID string `json:"member_id"`
	ClassID  string `json:"class_id"`
}

func (s *Server) attendanceDeps() orchestrators.AttendanceDeps {
	return orchestrators.AttendanceDeps{AttendanceStore: s.stores.AttendanceStore, Now: s.now}
}

// handleCreateAttendance handles POST /api/attendance
func (s *Server) handleCreateAttendance(w http.ResponseWriter, r *http.Request) {
	var req attendanceRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	a, err := orchestrators.ExecuteRecordAttendance(r.Context(), orchestrators.RecordAttendanceInput{
		MemberID: req.MemberID,
		ClassID:  req.ClassID,
	}, s.attendanceDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Message    string         `json:"message"`
		Attendance attendanceJSON `json:"attendance"`
	}{"✅ Attendance recorded.", toAttendanceJSON(a)})
}

func (s *Server) listAttendance(r *http.Request) ([]attendance.Record, error) {
	q := r.URL.Query()
	return s.stores.AttendanceStore.List(r.Context(), attendanceStore.ListFilter{
		MemberID: strings.TrimSpace(q.Get("member_id")),
		ClassID:  strings.TrimSpace(q.Get("class_id")),
	})
}

// handleListAttendance handles GET /api/attendance?member_id=&class_id=
func (s *Server) handleListAttendance(w http.ResponseWriter, r *http.Request) {
	records, err := s.listAttendance(r)
	if err != nil {
		internalError(w, r, err)
		return
	}
	out := make([]attendanceJSON, 0, len(records))
	for _, rec := range records {
		aj := toAttendanceJSON(rec.Attendance)
		aj.MemberName = rec.MemberName
		aj.ClassTitle = rec.ClassTitle
		aj.Schedule = rec.StartAt
		aj.EndTime = rec.EndAt
		out = append(out, aj)
	}
	writeJSON(w, http.StatusOK, out)
}

// handleExportAttendance handles GET /api/attendance/export with the same
// filters as the list.
func (s *Server) handleExportAttendance(w http.ResponseWriter, r *http.Request) {
	records, err := s.listAttendance(r)
	if err != nil {
		internalError(w, r, err)
		return
	}
	serveWorkbook(w, r, export.Filename("attendance", s.now()),
		export.AttendanceSheet(records),
		export.SummarySheet(records),
	)
}

// handleUpdateAttendance handles PATCH /api/attendance/{id}
func (s *Server) handleUpdateAttendance(w http.ResponseWriter, r *http.Request) {
	var req attendanceRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	_, err := orchestrators.ExecuteUpdateAttendance(r.Context(), orchestrators.UpdateAttendanceInput{
		ID:       r.PathValue("id"),
		MemberID: req.MemberID,
		ClassID:  req.ClassID,
	}, s.attendanceDeps())
	if errors.Is(err, attendance.ErrAlreadyRecorded) {
		writeErrorMessage(w, http.StatusBadRequest, "This member is already marked for this class.")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "✅ Attendance updated.")
}

// handleDeleteAttendance handles DELETE /api/attendance/{id}
func (s *Server) handleDeleteAttendance(w http.ResponseWriter, r *http.Request) {
	err := s.stores.AttendanceStore.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, storage.ErrNotFound) {
		writeErrorMessage(w, http.StatusNotFound, "Attendance record not found.")
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "🗑️ Attendance deleted successfully.")
}
