package orchestrators

import (
	"context"
	"log/slog"

	"fitpro/internal/domain/account"
)

// AccountStoreForVerification defines the store interface needed by ConfirmVerification.
type AccountStoreForVerification interface {
	ConsumeVerificationToken(ctx context.Context, token string) error
}

// ConfirmVerificationDeps holds dependencies for ConfirmVerification.
type ConfirmVerificationDeps struct {
	AccountStore AccountStoreForVerification
}

// ExecuteConfirmVerification consumes a verification token.
// PRE: token is the value from the verification link
// POST: Owning admin is verified and the token cleared
// INVARIANT: A token verifies at most once; later attempts get account.ErrInvalidOrExpiredToken
func ExecuteConfirmVerification(ctx context.Context, token string, deps ConfirmVerificationDeps) error {
	if token == "" {
		return account.ErrInvalidOrExpiredToken
	}
	if err := deps.AccountStore.ConsumeVerificationToken(ctx, token); err != nil {
		if err == account.ErrInvalidOrExpiredToken {
			slog.Info("auth_event", "event", "verify_failed", "reason", "unknown_token")
		}
		return err
	}
	slog.Info("auth_event", "event", "verified")
	return nil
}
