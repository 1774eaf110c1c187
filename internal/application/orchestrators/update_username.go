package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"fitpro/internal/adapters/storage"
	"fitpro/internal/domain/account"
)

// AccountStoreForUpdateUsername defines the store interface needed by UpdateUsername.
type AccountStoreForUpdateUsername interface {
	UpdateUsername(ctx context.Context, id, username string) error
}

// UpdateUsernameInput carries input for the update-username orchestrator.
type UpdateUsernameInput struct {
	AdminID  string
	Username string
}

// UpdateUsernameDeps holds dependencies for UpdateUsername.
type UpdateUsernameDeps struct {
	AccountStore AccountStoreForUpdateUsername
}

// ExecuteUpdateUsername renames the signed-in admin.
// PRE: AdminID comes from a verified session
// POST: Username replaced; sessions issued earlier keep the old name until they expire
func ExecuteUpdateUsername(ctx context.Context, input UpdateUsernameInput, deps UpdateUsernameDeps) error {
	username := strings.TrimSpace(input.Username)
	if err := account.ValidateUsername(username); err != nil {
		return invalid(err)
	}
	if err := deps.AccountStore.UpdateUsername(ctx, input.AdminID, username); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return account.ErrNoSuchAccount
		}
		return err
	}
	slog.Info("auth_event", "event", "username_changed", "admin_id", input.AdminID)
	return nil
}
