package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fitpro/internal/adapters/storage"
	"fitpro/internal/domain/account"
)

// AccountStoreForSeed defines the store interface needed by SeedAdmin.
type AccountStoreForSeed interface {
	GetByEmail(ctx context.Context, email string) (account.Admin, error)
	Create(ctx context.Context, a account.Admin) error
}

// SeedAdminInput names the development admin to create.
type SeedAdminInput struct {
	Username string
	Email    string
	Password string
}

// SeedAdminDeps holds dependencies for SeedAdmin.
type SeedAdminDeps struct {
	AccountStore AccountStoreForSeed
	BcryptCost   int
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteSeedAdmin creates a verified admin for local development, skipping
// the email round trip. It is idempotent: an existing email is left alone.
// PRE: Database is migrated
// POST: An admin with Email exists
func ExecuteSeedAdmin(ctx context.Context, input SeedAdminInput, deps SeedAdminDeps) error {
	email := normalizeEmail(input.Email)
	_, err := deps.AccountStore.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	a := account.Admin{
		ID:        newID(deps.GenerateID),
		Username:  input.Username,
		Email:     email,
		Verified:  true,
		CreatedAt: nowFrom(deps.Now),
	}
	if a.Username == "" {
		a.Username = "admin"
	}
	if err := a.Validate(); err != nil {
		return fmt.Errorf("seed admin %s: %w", email, err)
	}
	if err := a.SetPassword(input.Password, bcryptCost(deps.BcryptCost)); err != nil {
		return fmt.Errorf("seed admin %s: set password: %w", email, err)
	}
	if err := deps.AccountStore.Create(ctx, a); err != nil {
		return fmt.Errorf("seed admin %s: save: %w", email, err)
	}

	slog.Info("seed_event", "event", "admin_seeded", "email", email)
	return nil
}
