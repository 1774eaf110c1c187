package orchestrators

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"fitpro/internal/domain/account"
	emailDomain "fitpro/internal/domain/email"
)

// ValidationError wraps a rejection of caller input. The HTTP layer maps it to 400.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// invalid wraps err as a ValidationError; nil stays nil.
func invalid(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Err: err}
}

// required returns a ValidationError naming the missing fields.
func required(msg string) error {
	return &ValidationError{Err: errors.New(msg)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Notifier delivers composed emails.
type Notifier interface {
	Deliver(ctx context.Context, msg emailDomain.Message) error
}

// SessionIssuer signs session tokens.
type SessionIssuer interface {
	Issue(claims account.SessionClaims, ttl time.Duration) (string, error)
}

func newID(gen func() string) string {
	if gen == nil {
		return uuid.New().String()
	}
	return gen()
}

func nowFrom(clock func() time.Time) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock()
}

func newToken(gen func() (string, error)) (string, error) {
	if gen == nil {
		return account.NewToken()
	}
	return gen()
}

func bcryptCost(cost int) int {
	if cost <= 0 {
		return account.DefaultBcryptCost
	}
	return cost
}

// normalizeEmail folds emails so lookups and uniqueness ignore case.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
