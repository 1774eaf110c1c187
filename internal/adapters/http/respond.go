package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"fitpro/internal/adapters/storage"
	"fitpro/internal/application/orchestrators"
	"fitpro/internal/domain/account"
	"fitpro/internal/domain/attendance"
	"fitpro/internal/domain/member"
	"fitpro/internal/domain/trainer"
)

// errorBody is the shape of every JSON error response.
type errorBody struct {
	Error string `json:"error"`
}

// messageBody is the shape of every JSON success acknowledgement.
type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("response_encode_failed", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageBody{Message: msg})
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(text))
}

func textHandler(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusOK, text)
	}
}

// internalError logs the real error and returns a generic message to the client.
// A store outage is reported as 503 so it is never mistaken for a rejection.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal_error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	if errors.Is(err, storage.ErrUnavailable) {
		writeErrorMessage(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
		return
	}
	writeErrorMessage(w, http.StatusInternalServerError, "Server error")
}

// errorStatus maps a business error to its default status and client message.
// ok is false for anything that is not a business rejection.
func errorStatus(err error) (status int, msg string, ok bool) {
	var unknownField *storage.UnknownFieldError
	switch {
	case orchestrators.IsValidation(err):
		return http.StatusBadRequest, err.Error(), true
	case errors.As(err, &unknownField):
		return http.StatusBadRequest, unknownField.Error(), true
	case errors.Is(err, storage.ErrEmptyPatch):
		return http.StatusBadRequest, "No fields provided for update", true

	case errors.Is(err, account.ErrDuplicateEmail):
		return http.StatusBadRequest, "Email already in use.", true
	case errors.Is(err, account.ErrNoSuchAccount):
		return http.StatusBadRequest, "No account found with that email.", true
	case errors.Is(err, account.ErrNotVerified):
		return http.StatusForbidden, "Please verify your email before logging in.", true
	case errors.Is(err, account.ErrInvalidCredential):
		return http.StatusUnauthorized, "Invalid password.", true
	case errors.Is(err, account.ErrInvalidOrExpiredToken):
		return http.StatusBadRequest, "Invalid or expired token.", true

	case errors.Is(err, member.ErrDuplicateEmail):
		return http.StatusBadRequest, "Member with this email already exists.", true
	case errors.Is(err, member.ErrNameMismatch):
		return http.StatusNotFound, "Member not found or name does not match.", true
	case errors.Is(err, member.ErrNotFound):
		return http.StatusNotFound, "Member not found", true

	case errors.Is(err, trainer.ErrDuplicateEmail):
		return http.StatusBadRequest, "Trainer with this email already exists.", true
	case errors.Is(err, trainer.ErrNotFound):
		return http.StatusNotFound, "Trainer not found", true

	case errors.Is(err, orchestrators.ErrClassNotFound):
		return http.StatusNotFound, "Class not found", true

	case errors.Is(err, attendance.ErrAlreadyRecorded):
		return http.StatusBadRequest, "This member is already marked present for this class.", true
	case errors.Is(err, attendance.ErrUnknownReference):
		return http.StatusBadRequest, "Member or class does not exist.", true
	case errors.Is(err, attendance.ErrNotFound):
		return http.StatusNotFound, "Attendance record not found.", true
	}
	return 0, "", false
}

// writeError writes the mapped rejection, or a logged 5xx for anything else.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if status, msg, ok := errorStatus(err); ok {
		writeErrorMessage(w, status, msg)
		return
	}
	internalError(w, r, err)
}

const maxBodyBytes = 1 << 20

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
