package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fitpro/internal/adapters/storage"
	classStore "fitpro/internal/adapters/storage/class"
	"fitpro/internal/application/orchestrators"
	"fitpro/internal/domain/class"
)

// Accepted timestamp forms for class windows. Values without a zone are UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseTimestamp(field, v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%s must be an ISO 8601 timestamp", field)
}

// parseOptionalTimestamp returns nil for an absent field.
func parseOptionalTimestamp(field string, v *string) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	t, err := parseTimestamp(field, *v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type classJSON struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	TrainerID   string    `json:"trainer_id"`
	Schedule    time.Time `json:"schedule"`
	EndTime     time.Time `json:"end_time"`
	TrainerName string    `json:"trainer_name,omitempty"`
}

func toClassJSON(c class.Class) classJSON {
	return classJSON{ID: c.ID, Title: c.Title, TrainerID: c.TrainerID, Schedule: c.StartAt, EndTime: c.EndAt}
}

type createClassRequest struct {
	Title     string `json:"title"`
	Schedule  string `json:"schedule"`
	EndTime   string `json:"end_time"`
	TrainerID string `json:"trainer_id"`
}

// createConflictBody names the blocking class in the flat shape clients expect.
type createConflictBody struct {
	Error    string    `json:"error"`
	ClassID  string    `json:"class_id"`
	Title    string    `json:"title"`
	Schedule time.Time `json:"schedule"`
	EndTime  time.Time `json:"end_time"`
}

// handleCreateClass handles POST /api/classes
func (s *Server) handleCreateClass(w http.ResponseWriter, r *http.Request) {
	var req createClassRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Schedule == "" || req.EndTime == "" {
		writeErrorMessage(w, http.StatusBadRequest, "schedule and end_time are required")
		return
	}
	start, err := parseTimestamp("schedule", req.Schedule)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseTimestamp("end_time", req.EndTime)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := orchestrators.ExecuteScheduleClass(r.Context(), orchestrators.ScheduleClassInput{
		Title:     req.Title,
		TrainerID: req.TrainerID,
		StartAt:   start,
		EndAt:     end,
	}, orchestrators.ScheduleClassDeps{ClassStore: s.stores.ClassStore})

	var conflict *class.ConflictError
	if errors.As(err, &conflict) {
		writeJSON(w, http.StatusBadRequest, createConflictBody{
			Error:    "Trainer already has a scheduled class during this time.",
			ClassID:  conflict.Existing.ID,
			Title:    conflict.Existing.Title,
			Schedule: conflict.Existing.StartAt,
			EndTime:  conflict.Existing.EndAt,
		})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Message string    `json:"message"`
		Class   classJSON `json:"class"`
	}{"✅ Class scheduled successfully!", toClassJSON(c)})
}

// handleListClasses handles GET /api/classes?title=&trainer_id=
func (s *Server) handleListClasses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	listings, err := s.stores.ClassStore.List(r.Context(), classStore.ListFilter{
		Title:     strings.TrimSpace(q.Get("title")),
		TrainerID: strings.TrimSpace(q.Get("trainer_id")),
	})
	if err != nil {
		internalError(w, r, err)
		return
	}
	out := make([]classJSON, 0, len(listings))
	for _, l := range listings {
		cj := toClassJSON(l.Class)
		cj.TrainerName = l.TrainerName
		out = append(out, cj)
	}
	writeJSON(w, http.StatusOK, out)
}

type updateClassRequest struct {
	Title     *string `json:"title"`
	Schedule  *string `json:"schedule"`
	EndTime   *string `json:"end_time"`
	TrainerID *string `json:"trainer_id"`
}

// updateConflictBody nests the blocking class under existing_class.
type updateConflictBody struct {
	Error         string    `json:"error"`
	ExistingClass classJSON `json:"existing_class"`
}

// handleUpdateClass handles PATCH /api/classes/{id}
func (s *Server) handleUpdateClass(w http.ResponseWriter, r *http.Request) {
	var req updateClassRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	start, err := parseOptionalTimestamp("schedule", req.Schedule)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseOptionalTimestamp("end_time", req.EndTime)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	_, err = orchestrators.ExecuteUpdateClass(r.Context(), orchestrators.UpdateClassInput{
		ID: r.PathValue("id"),
		Changes: class.Changes{
			Title:     req.Title,
			TrainerID: req.TrainerID,
			StartAt:   start,
			EndAt:     end,
		},
	}, orchestrators.UpdateClassDeps{ClassStore: s.stores.ClassStore})

	var conflict *class.ConflictError
	if errors.As(err, &conflict) {
		writeJSON(w, http.StatusConflict, updateConflictBody{
			Error:         "Trainer already has a class during the given time.",
			ExistingClass: toClassJSON(conflict.Existing),
		})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "✅ Class updated successfully!")
}

// handleDeleteClass handles DELETE /api/classes/{id}
func (s *Server) handleDeleteClass(w http.ResponseWriter, r *http.Request) {
	err := s.stores.ClassStore.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, storage.ErrNotFound) {
		writeErrorMessage(w, http.StatusNotFound, "Class not found")
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "🗑️ Class deleted successfully!")
}

type conflictResponse struct {
	Conflict      bool       `json:"conflict"`
	ExistingClass *classJSON `json:"existing_class,omitempty"`
}

// handleCheckConflict handles GET /api/classes/conflicts?trainer_id=&start=&end=&exclude_id=
// It answers without reserving anything; a later create or update re-checks.
func (s *Server) handleCheckConflict(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("start") == "" || q.Get("end") == "" {
		writeErrorMessage(w, http.StatusBadRequest, "start and end are required")
		return
	}
	start, err := parseTimestamp("start", q.Get("start"))
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseTimestamp("end", q.Get("end"))
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := orchestrators.ExecuteCheckConflict(r.Context(), orchestrators.CheckConflictInput{
		TrainerID: q.Get("trainer_id"),
		StartAt:   start,
		EndAt:     end,
		ExcludeID: q.Get("exclude_id"),
	}, orchestrators.CheckConflictDeps{
		ClassStore:   s.stores.ClassStore,
		TrainerStore: s.stores.TrainerStore,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := conflictResponse{Conflict: result.Conflict}
	if result.Conflict {
		cj := toClassJSON(result.Existing)
		resp.ExistingClass = &cj
	}
	writeJSON(w, http.StatusOK, resp)
}
