package account

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Max length constants for user-editable fields.
const (
	MaxEmailLength    = 254
	MaxUsernameLength = 64
	// bcrypt ignores input beyond 72 bytes; reject instead of truncating.
	MaxPasswordLength = 72
)

// TokenBytes is the entropy of verification and reset tokens.
const TokenBytes = 32

// DefaultBcryptCost is the hashing cost used outside tests.
const DefaultBcryptCost = 12

// Domain errors
var (
	ErrEmptyUsername         = errors.New("username cannot be empty")
	ErrUsernameTooLong       = errors.New("username cannot exceed 64 characters")
	ErrEmptyEmail            = errors.New("email cannot be empty")
	ErrInvalidEmail          = errors.New("email must contain '@'")
	ErrEmptyPassword         = errors.New("password cannot be empty")
	ErrPasswordTooLong       = errors.New("password cannot exceed 72 bytes")
	ErrDuplicateEmail        = errors.New("email already in use")
	ErrNoSuchAccount         = errors.New("no account found with that email")
	ErrNotVerified           = errors.New("please verify your email before logging in")
	ErrInvalidCredential     = errors.New("invalid password")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
)

// Admin is an administrator account.
// Empty token strings and a zero ResetTokenExpiry stand for NULL columns.
type Admin struct {
	ID                  string
	Username            string
	Email               string
	PasswordHash        string
	Verified            bool
	VerificationToken   string
	ResetToken          string
	ResetTokenExpiry    time.Time
	PendingPasswordHash string
	CreatedAt           time.Time
}

// SessionClaims is the identity carried by a signed session token.
type SessionClaims struct {
	AdminID  string
	Email    string
	Username string
}

// Validate checks if the Admin has valid data.
// PRE: Admin struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Admin) Validate() error {
	if err := ValidateUsername(a.Username); err != nil {
		return err
	}
	return ValidateEmail(a.Email)
}

// ValidateUsername checks a username for presence and length.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return ErrEmptyUsername
	}
	if len(username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	return nil
}

// ValidateEmail checks an email for presence and basic shape.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmptyEmail
	}
	if len(email) > MaxEmailLength {
		return errors.New("email cannot exceed 254 characters")
	}
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// HashPassword returns the bcrypt hash of plaintext.
// PRE: plaintext is non-empty and at most 72 bytes
// POST: Returns an opaque hash suitable for CheckPassword
func HashPassword(plaintext string, cost int) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	if len(plaintext) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// SetPassword hashes and stores the live credential.
// PRE: plaintext is non-empty
// POST: PasswordHash is set to a bcrypt hash
func (a *Admin) SetPassword(plaintext string, cost int) error {
	hash, err := HashPassword(plaintext, cost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

// CheckPassword verifies a plaintext password against the live credential.
// INVARIANT: Admin fields are not mutated
func (a *Admin) CheckPassword(plaintext string) error {
	if a.PasswordHash == "" {
		return ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plaintext)); err != nil {
		return ErrInvalidCredential
	}
	return nil
}

// HasPendingReset reports whether a reset token is outstanding, expired or not.
// INVARIANT: Admin fields are not mutated
func (a *Admin) HasPendingReset() bool {
	return a.ResetToken != ""
}

// IsVerified reports the polled "flow complete" flag: verified and no reset
// pending. A finished signup and a finished reset look the same here.
// INVARIANT: Admin fields are not mutated
func (a *Admin) IsVerified() bool {
	return a.Verified && !a.HasPendingReset()
}

// The lifecycle methods below are the reference rules for an account. SQL
// stores apply them as conditional UPDATEs, so any change here must be
// mirrored in storage/account and its lifecycle test.

// ConfirmVerification consumes the verification token.
// PRE: token is the presented value
// POST: Verified is true and VerificationToken is cleared, or nothing changes on mismatch
func (a *Admin) ConfirmVerification(token string) error {
	if token == "" || a.VerificationToken == "" || a.VerificationToken != token {
		return ErrInvalidOrExpiredToken
	}
	a.Verified = true
	a.VerificationToken = ""
	return nil
}

// StartReset records a pending password reset. The live credential and the
// verified flag are untouched.
// PRE: token is fresh, pendingHash is a bcrypt hash
// POST: ResetToken, ResetTokenExpiry, PendingPasswordHash are set together
func (a *Admin) StartReset(token string, expiry time.Time, pendingHash string) {
	a.ResetToken = token
	a.ResetTokenExpiry = expiry
	a.PendingPasswordHash = pendingHash
}

// ResetValid reports whether token matches the pending reset and is unexpired at now.
// INVARIANT: Admin fields are not mutated
func (a *Admin) ResetValid(token string, now time.Time) bool {
	return token != "" && a.ResetToken == token && now.Before(a.ResetTokenExpiry) && a.PendingPasswordHash != ""
}

// ConfirmReset swaps in the pending credential.
// PRE: token is the presented value
// POST: PasswordHash replaced and all reset fields cleared, or nothing changes on failure
func (a *Admin) ConfirmReset(token string, now time.Time) error {
	if !a.ResetValid(token, now) {
		return ErrInvalidOrExpiredToken
	}
	a.PasswordHash = a.PendingPasswordHash
	a.ClearReset()
	return nil
}

// ClearReset drops any pending reset.
func (a *Admin) ClearReset() {
	a.ResetToken = ""
	a.ResetTokenExpiry = time.Time{}
	a.PendingPasswordHash = ""
}

// Claims returns the session identity for the admin.
func (a *Admin) Claims() SessionClaims {
	return SessionClaims{AdminID: a.ID, Email: a.Email, Username: a.Username}
}

// NewToken returns a hex-encoded random token drawn from crypto/rand.
// POST: Returns a 64-character token
func NewToken() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
