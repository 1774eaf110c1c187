package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fitpro/internal/adapters/storage"
	"fitpro/internal/domain/account"
	emailDomain "fitpro/internal/domain/email"
)

// AccountStoreForReset defines the store interface needed by RequestReset.
type AccountStoreForReset interface {
	GetByEmail(ctx context.Context, email string) (account.Admin, error)
	SetPendingReset(ctx context.Context, email, token string, expiry time.Time, pendingHash string) error
}

// RequestResetInput carries input for the request-reset orchestrator.
// NewPassword is the candidate credential; it only becomes live on confirmation.
type RequestResetInput struct {
	Email       string
	NewPassword string
}

// RequestResetResult carries the issued reset token.
type RequestResetResult struct {
	Token    string
	Expiry   time.Time
	Notified bool
}

// RequestResetDeps holds dependencies for RequestReset.
type RequestResetDeps struct {
	AccountStore AccountStoreForReset
	Notifier     Notifier
	BaseURL      string
	BcryptCost   int
	ResetTTL     time.Duration
	NewToken     func() (string, error)
	Now          func() time.Time
}

// DefaultResetTTL is how long a reset link stays valid when none is configured.
const DefaultResetTTL = time.Hour

// ExecuteRequestReset records a pending password change and emails a confirmation link.
// PRE: Email and NewPassword are non-empty
// POST: Reset token, expiry and pending hash stored together; live credential unchanged
// INVARIANT: A new request replaces any earlier pending reset
func ExecuteRequestReset(ctx context.Context, input RequestResetInput, deps RequestResetDeps) (RequestResetResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.NewPassword == "" {
		return RequestResetResult{}, required("email and password are required")
	}

	a, err := deps.AccountStore.GetByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Info("auth_event", "event", "reset_rejected", "email", email, "reason", "not_found")
		return RequestResetResult{}, account.ErrNoSuchAccount
	}
	if err != nil {
		return RequestResetResult{}, err
	}

	pending, err := account.HashPassword(input.NewPassword, bcryptCost(deps.BcryptCost))
	if err != nil {
		return RequestResetResult{}, invalid(err)
	}
	token, err := newToken(deps.NewToken)
	if err != nil {
		return RequestResetResult{}, err
	}
	ttl := deps.ResetTTL
	if ttl <= 0 {
		ttl = DefaultResetTTL
	}
	expiry := nowFrom(deps.Now).Add(ttl)

	if err := deps.AccountStore.SetPendingReset(ctx, email, token, expiry, pending); err != nil {
		return RequestResetResult{}, err
	}
	slog.Info("auth_event", "event", "reset_requested", "admin_id", a.ID, "expires_at", expiry)

	result := RequestResetResult{Token: token, Expiry: expiry}
	msg := emailDomain.NewResetConfirmation(email, a.Username, deps.BaseURL, token)
	if err := deps.Notifier.Deliver(ctx, msg); err != nil {
		slog.Error("notification_failed", "kind", "reset", "admin_id", a.ID, "error", err)
		return result, nil
	}
	result.Notified = true
	return result, nil
}
