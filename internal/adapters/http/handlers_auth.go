package web

import (
	"errors"
	"net/http"
	"time"

	"fitpro/internal/adapters/http/middleware"
	"fitpro/internal/application/orchestrators"
	"fitpro/internal/domain/account"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleSignup handles POST /api/auth/signup
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	_, err := orchestrators.ExecuteSignup(r.Context(), orchestrators.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}, orchestrators.SignupDeps{
		AccountStore: s.stores.AccountStore,
		Notifier:     s.notifier,
		BaseURL:      s.cfg.BaseURL,
		BcryptCost:   s.cfg.BcryptCost,
		Now:          s.now,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "✅ Signup successful! Please check your email to verify.")
}

// handleVerify handles GET /api/auth/verify?token=
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteConfirmVerification(r.Context(), r.URL.Query().Get("token"),
		orchestrators.ConfirmVerificationDeps{AccountStore: s.stores.AccountStore})
	switch {
	case err == nil:
		writeText(w, http.StatusOK, "✅ Email verified successfully. You can now log in.")
	case isRejection(err):
		writeText(w, http.StatusBadRequest, "Invalid or expired token")
	default:
		internalError(w, r, err)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// handleLogin handles POST /api/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, orchestrators.LoginDeps{
		AccountStore: s.stores.AccountStore,
		Issuer:       s.tokens,
		SessionTTL:   s.cfg.SessionTTL,
		Now:          s.now,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Message:   "✅ Login successful!",
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	})
}

type requestResetRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleRequestReset handles POST /api/auth/request-reset
func (s *Server) handleRequestReset(w http.ResponseWriter, r *http.Request) {
	var req requestResetRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeErrorMessage(w, http.StatusBadRequest, "Email and password required.")
		return
	}

	_, err := orchestrators.ExecuteRequestReset(r.Context(), orchestrators.RequestResetInput{
		Email:       req.Email,
		NewPassword: req.Password,
	}, orchestrators.RequestResetDeps{
		AccountStore: s.stores.AccountStore,
		Notifier:     s.notifier,
		BaseURL:      s.cfg.BaseURL,
		BcryptCost:   s.cfg.BcryptCost,
		ResetTTL:     s.cfg.ResetTTL,
		Now:          s.now,
	})
	if errors.Is(err, account.ErrNoSuchAccount) {
		writeErrorMessage(w, http.StatusNotFound, "No admin with this email.")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "✅ Reset confirmation link sent to your email.")
}

// handleConfirmReset handles GET /api/auth/confirm-reset/{token}
func (s *Server) handleConfirmReset(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteConfirmReset(r.Context(), r.PathValue("token"),
		orchestrators.ConfirmResetDeps{AccountStore: s.stores.AccountStore, Now: s.now})
	switch {
	case err == nil:
		writeText(w, http.StatusOK, "✅ Your password has been reset successfully. You can now log in.")
	case isRejection(err):
		writeText(w, http.StatusBadRequest, "Invalid or expired token.")
	default:
		internalError(w, r, err)
	}
}

type isVerifiedResponse struct {
	Verified bool `json:"verified"`
}

// handleIsVerified handles GET /api/auth/is-verified?email=
func (s *Server) handleIsVerified(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeErrorMessage(w, http.StatusBadRequest, "Email required")
		return
	}
	verified, err := orchestrators.ExecuteIsVerified(r.Context(), email,
		orchestrators.IsVerifiedDeps{AccountStore: s.stores.AccountStore})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, isVerifiedResponse{Verified: verified})
}

type updateUsernameRequest struct {
	Username string `json:"username"`
}

// handleUpdateUsername handles PATCH /api/auth/update-username
func (s *Server) handleUpdateUsername(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	var req updateUsernameRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	err := orchestrators.ExecuteUpdateUsername(r.Context(), orchestrators.UpdateUsernameInput{
		AdminID:  claims.AdminID,
		Username: req.Username,
	}, orchestrators.UpdateUsernameDeps{AccountStore: s.stores.AccountStore})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "✅ Username updated.")
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// handleChangePassword handles PATCH /api/auth/change-password
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	var req changePasswordRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		AdminID:         claims.AdminID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}, orchestrators.ChangePasswordDeps{
		AccountStore: s.stores.AccountStore,
		BcryptCost:   s.cfg.BcryptCost,
	})
	if errors.Is(err, account.ErrInvalidCredential) {
		writeErrorMessage(w, http.StatusUnauthorized, "Current password is incorrect.")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "✅ Password changed.")
}

// isRejection reports whether err is a business rejection rather than an outage.
func isRejection(err error) bool {
	_, _, ok := errorStatus(err)
	return ok
}
