package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fitpro/internal/adapters/storage"
	"fitpro/internal/domain/account"
)

// AccountStoreForLogin defines the store interface needed by Login.
type AccountStoreForLogin interface {
	GetByEmail(ctx context.Context, email string) (account.Admin, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Admin     account.SessionClaims
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AccountStore AccountStoreForLogin
	Issuer       SessionIssuer
	SessionTTL   time.Duration
	Now          func() time.Time
}

// DefaultSessionTTL is the session lifetime when none is configured.
const DefaultSessionTTL = time.Hour

// ExecuteLogin checks credentials and issues a session token.
// PRE: Email and Password are non-empty
// POST: Returns a signed token carrying the admin's id, email and username
// INVARIANT: Checks run in order: account exists, verified, password matches
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return LoginResult{}, required("email and password are required")
	}

	a, err := deps.AccountStore.GetByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "not_found")
		return LoginResult{}, account.ErrNoSuchAccount
	}
	if err != nil {
		return LoginResult{}, err
	}

	if !a.Verified {
		slog.Info("auth_event", "event", "login_blocked", "email", email, "reason", "not_verified")
		return LoginResult{}, account.ErrNotVerified
	}

	if err := a.CheckPassword(input.Password); err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "wrong_password")
		return LoginResult{}, account.ErrInvalidCredential
	}

	ttl := deps.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	claims := a.Claims()
	token, err := deps.Issuer.Issue(claims, ttl)
	if err != nil {
		return LoginResult{}, err
	}

	slog.Info("auth_event", "event", "login_success", "admin_id", a.ID, "email", email)
	return LoginResult{Token: token, ExpiresAt: nowFrom(deps.Now).Add(ttl), Admin: claims}, nil
}
