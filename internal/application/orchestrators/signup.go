package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"fitpro/internal/domain/account"
	emailDomain "fitpro/internal/domain/email"
)

// AccountStoreForSignup defines the store interface needed by Signup.
type AccountStoreForSignup interface {
	Create(ctx context.Context, a account.Admin) error
}

// SignupInput carries input for the signup orchestrator.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// SignupResult carries the new admin and the token sent for verification.
type SignupResult struct {
	AdminID           string
	VerificationToken string
	Notified          bool
}

// SignupDeps holds dependencies for Signup.
type SignupDeps struct {
	AccountStore AccountStoreForSignup
	Notifier     Notifier
	BaseURL      string
	BcryptCost   int
	GenerateID   func() string
	NewToken     func() (string, error)
	Now          func() time.Time
}

// ExecuteSignup creates an unverified admin and emails a verification link.
// PRE: Username, Email and Password are non-empty
// POST: Admin persisted with Verified=false and a fresh verification token
// INVARIANT: A failed notification never rolls back the account or verifies it
func ExecuteSignup(ctx context.Context, input SignupInput, deps SignupDeps) (SignupResult, error) {
	username := strings.TrimSpace(input.Username)
	email := normalizeEmail(input.Email)
	if username == "" || email == "" || input.Password == "" {
		return SignupResult{}, required("username, email and password are required")
	}

	a := account.Admin{
		ID:        newID(deps.GenerateID),
		Username:  username,
		Email:     email,
		CreatedAt: nowFrom(deps.Now),
	}
	if err := a.Validate(); err != nil {
		return SignupResult{}, invalid(err)
	}
	if err := a.SetPassword(input.Password, bcryptCost(deps.BcryptCost)); err != nil {
		return SignupResult{}, invalid(err)
	}

	token, err := newToken(deps.NewToken)
	if err != nil {
		return SignupResult{}, err
	}
	a.VerificationToken = token

	if err := deps.AccountStore.Create(ctx, a); err != nil {
		if errors.Is(err, account.ErrDuplicateEmail) {
			slog.Info("auth_event", "event", "signup_rejected", "email", email, "reason", "duplicate_email")
		}
		return SignupResult{}, err
	}
	slog.Info("auth_event", "event", "signup", "admin_id", a.ID, "email", email)

	result := SignupResult{AdminID: a.ID, VerificationToken: token}
	msg := emailDomain.NewVerification(email, username, deps.BaseURL, token)
	if err := deps.Notifier.Deliver(ctx, msg); err != nil {
		slog.Error("notification_failed", "kind", "verification", "admin_id", a.ID, "error", err)
		return result, nil
	}
	result.Notified = true
	return result, nil
}
