package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"fitpro/internal/domain/account"
)

// AccountStoreForConfirmReset defines the store interface needed by ConfirmReset.
type AccountStoreForConfirmReset interface {
	ConsumeResetToken(ctx context.Context, token string, now time.Time) error
}

// ConfirmResetDeps holds dependencies for ConfirmReset.
type ConfirmResetDeps struct {
	AccountStore AccountStoreForConfirmReset
	Now          func() time.Time
}

// ExecuteConfirmReset makes the pending credential live.
// PRE: token is the value from the reset link
// POST: Live credential replaced and reset fields cleared
// INVARIANT: Expired, unknown or already-used tokens fail with account.ErrInvalidOrExpiredToken and change nothing
func ExecuteConfirmReset(ctx context.Context, token string, deps ConfirmResetDeps) error {
	if token == "" {
		return account.ErrInvalidOrExpiredToken
	}
	if err := deps.AccountStore.ConsumeResetToken(ctx, token, nowFrom(deps.Now)); err != nil {
		if err == account.ErrInvalidOrExpiredToken {
			slog.Info("auth_event", "event", "reset_confirm_failed", "reason", "invalid_or_expired")
		}
		return err
	}
	slog.Info("auth_event", "event", "password_reset")
	return nil
}
