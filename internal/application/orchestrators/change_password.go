package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"fitpro/internal/adapters/storage"
	"fitpro/internal/domain/account"
)

// AccountStoreForChangePassword defines the store interface needed by ChangePassword.
type AccountStoreForChangePassword interface {
	GetByID(ctx context.Context, id string) (account.Admin, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

// ChangePasswordInput carries input for the change-password orchestrator.
type ChangePasswordInput struct {
	AdminID         string
	CurrentPassword string
	NewPassword     string
}

// ChangePasswordDeps holds dependencies for ChangePassword.
type ChangePasswordDeps struct {
	AccountStore AccountStoreForChangePassword
	BcryptCost   int
}

// ExecuteChangePassword validates the current password and replaces it.
// PRE: AdminID comes from a verified session; both passwords are non-empty
// POST: Live credential replaced; any pending reset discarded
func ExecuteChangePassword(ctx context.Context, input ChangePasswordInput, deps ChangePasswordDeps) error {
	if input.CurrentPassword == "" || input.NewPassword == "" {
		return required("current and new password are required")
	}

	a, err := deps.AccountStore.GetByID(ctx, input.AdminID)
	if errors.Is(err, storage.ErrNotFound) {
		return account.ErrNoSuchAccount
	}
	if err != nil {
		return err
	}

	if err := a.CheckPassword(input.CurrentPassword); err != nil {
		slog.Info("auth_event", "event", "password_change_failed", "admin_id", a.ID, "reason", "wrong_password")
		return account.ErrInvalidCredential
	}

	hash, err := account.HashPassword(input.NewPassword, bcryptCost(deps.BcryptCost))
	if err != nil {
		return invalid(err)
	}
	if err := deps.AccountStore.UpdatePasswordHash(ctx, a.ID, hash); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "password_changed", "admin_id", a.ID)
	return nil
}
