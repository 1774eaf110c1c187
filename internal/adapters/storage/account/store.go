package account

import (
	"context"
	"time"

	domain "fitpro/internal/domain/account"
)

// Store persists Admin state. Token consumption is a single conditional
// write, so of two concurrent callers presenting the same token exactly one
// succeeds.
type Store interface {
	Create(ctx context.Context, admin domain.Admin) error
	GetByID(ctx context.Context, id string) (domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (domain.Admin, error)
	ConsumeVerificationToken(ctx context.Context, token string) error
	SetPendingReset(ctx context.Context, email, token string, expiry time.Time, pendingHash string) error
	ConsumeResetToken(ctx context.Context, token string, now time.Time) error
	UpdateUsername(ctx context.Context, id, username string) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}
