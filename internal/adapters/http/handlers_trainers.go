package web

import (
	"errors"
	"net/http"
	"strings"

	"fitpro/internal/adapters/storage"
	trainerStore "fitpro/internal/adapters/storage/trainer"
	"fitpro/internal/application/orchestrators"
	"fitpro/internal/domain/trainer"
)

type trainerJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

func toTrainerJSON(t trainer.Trainer) trainerJSON {
	return trainerJSON{ID: t.ID, Name: t.Name, Specialty: t.Specialty, Phone: t.Phone, Email: t.Email}
}

type createTrainerRequest struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

func (s *Server) trainerDeps() orchestrators.TrainerDeps {
	return orchestrators.TrainerDeps{TrainerStore: s.stores.TrainerStore}
}

// handleCreateTrainer handles POST /api/trainers
func (s *Server) handleCreateTrainer(w http.ResponseWriter, r *http.Request) {
	var req createTrainerRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	t, err := orchestrators.ExecuteCreateTrainer(r.Context(), orchestrators.CreateTrainerInput{
		Name:      req.Name,
		Specialty: req.Specialty,
		Phone:     req.Phone,
		Email:     req.Email,
	}, s.trainerDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Message string      `json:"message"`
		Trainer trainerJSON `json:"trainer"`
	}{"✅ Trainer added successfully!", toTrainerJSON(t)})
}

// handleListTrainers handles GET /api/trainers?name=&specialty=
func (s *Server) handleListTrainers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	trainers, err := s.stores.TrainerStore.List(r.Context(), trainerStore.ListFilter{
		Name:      strings.TrimSpace(q.Get("name")),
		Specialty: strings.TrimSpace(q.Get("specialty")),
	})
	if err != nil {
		internalError(w, r, err)
		return
	}
	out := make([]trainerJSON, 0, len(trainers))
	for _, t := range trainers {
		out = append(out, toTrainerJSON(t))
	}
	writeJSON(w, http.StatusOK, out)
}

type updateTrainerRequest struct {
	Name      *string `json:"name"`
	Specialty *string `json:"specialty"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
}

// handleUpdateTrainer handles PATCH /api/trainers/{id}
func (s *Server) handleUpdateTrainer(w http.ResponseWriter, r *http.Request) {
	var req updateTrainerRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	_, err := orchestrators.ExecuteUpdateTrainer(r.Context(), orchestrators.UpdateTrainerInput{
		ID:        r.PathValue("id"),
		Name:      req.Name,
		Specialty: req.Specialty,
		Phone:     req.Phone,
		Email:     req.Email,
	}, s.trainerDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "✅ Trainer updated successfully!")
}

// handleDeleteTrainer handles DELETE /api/trainers/{id}. The trainer's
// classes and their attendance are removed with it.
func (s *Server) handleDeleteTrainer(w http.ResponseWriter, r *http.Request) {
	err := s.stores.TrainerStore.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, storage.ErrNotFound) {
		writeErrorMessage(w, http.StatusNotFound, "Trainer not found")
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "🗑️ Trainer deleted successfully!")
}
