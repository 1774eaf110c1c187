package orchestrators

import (
	"context"
	"errors"

	"fitpro/internal/adapters/storage"
	"fitpro/internal/domain/account"
)

// AccountStoreForIsVerified defines the store interface needed by IsVerified.
type AccountStoreForIsVerified interface {
	GetByEmail(ctx context.Context, email string) (account.Admin, error)
}

// IsVerifiedDeps holds dependencies for IsVerified.
type IsVerifiedDeps struct {
	AccountStore AccountStoreForIsVerified
}

// ExecuteIsVerified reports the polled completion flag for email: verified
// and no reset pending. Clients poll it after signup and after a reset
// request; both flows end in the same true state.
// PRE: email is non-empty
// POST: Unknown email yields false, not an error
func ExecuteIsVerified(ctx context.Context, email string, deps IsVerifiedDeps) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, required("email is required")
	}
	a, err := deps.AccountStore.GetByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return a.IsVerified(), nil
}
