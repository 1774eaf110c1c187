package account

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fitpro/internal/adapters/storage"
	domain "fitpro/internal/domain/account"
)

const adminColumns = "id, username, email, password_hash, verified, verification_token, reset_token, reset_token_expiry, pending_password_hash, created_at"

// SQLStore implements Store over SQLite or PostgreSQL.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new admin Store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Create inserts a new admin.
// PRE: admin has been validated and carries a password hash and verification token
// POST: Row inserted, or domain.ErrDuplicateEmail when the email is taken
func (s *SQLStore) Create(ctx context.Context, a domain.Admin) error {
	verified := 0
	if a.Verified {
		verified = 1
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO admin ("+adminColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		a.ID,
		a.Username,
		a.Email,
		a.PasswordHash,
		verified,
		storage.NullString(a.VerificationToken),
		storage.NullString(a.ResetToken),
		storage.NullTime(a.ResetTokenExpiry),
		storage.NullString(a.PendingPasswordHash),
		storage.FormatTime(a.CreatedAt),
	)
	if storage.IsUniqueViolation(err) {
		return domain.ErrDuplicateEmail
	}
	return storage.Unavailable("create admin", err)
}

// GetByID retrieves an Admin by its ID.
// PRE: id is non-empty
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Admin, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+adminColumns+" FROM admin WHERE id = ?", id)
	a, err := scanAdmin(row.Scan)
	if err != nil {
		return domain.Admin{}, storage.NotFoundIfNoRows("get admin", err)
	}
	return a, nil
}

// GetByEmail retrieves an Admin by email.
// PRE: email is non-empty
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLStore) GetByEmail(ctx context.Context, email string) (domain.Admin, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+adminColumns+" FROM admin WHERE email = ?", email)
	a, err := scanAdmin(row.Scan)
	if err != nil {
		return domain.Admin{}, storage.NotFoundIfNoRows("get admin", err)
	}
	return a, nil
}

// ConsumeVerificationToken marks the owning admin verified and clears the token.
// PRE: token is the presented value
// POST: Exactly one caller per token succeeds; others get domain.ErrInvalidOrExpiredToken
func (s *SQLStore) ConsumeVerificationToken(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrInvalidOrExpiredToken
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE admin SET verified = 1, verification_token = NULL WHERE verification_token = ?",
		token,
	)
	if err != nil {
		return storage.Unavailable("consume verification token", err)
	}
	return tokenConsumed(res, "consume verification token")
}

// SetPendingReset stores a reset token, its expiry and the candidate hash together.
// The live credential and verified flag are untouched.
// PRE: token is fresh, pendingHash is a bcrypt hash
// POST: Reset fields set, or domain.ErrNoSuchAccount when email is unknown
func (s *SQLStore) SetPendingReset(ctx context.Context, email, token string, expiry time.Time, pendingHash string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE admin SET reset_token = ?, reset_token_expiry = ?, pending_password_hash = ? WHERE email = ?",
		token, storage.FormatTime(expiry), pendingHash, email,
	)
	if err != nil {
		return storage.Unavailable("set pending reset", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storage.Unavailable("set pending reset", err)
	}
	if n == 0 {
		return domain.ErrNoSuchAccount
	}
	return nil
}

// ConsumeResetToken swaps in the pending credential and clears the reset fields.
// PRE: token is the presented value; now is the current time
// POST: Exactly one caller per unexpired token succeeds; others get domain.ErrInvalidOrExpiredToken
func (s *SQLStore) ConsumeResetToken(ctx context.Context, token string, now time.Time) error {
	if token == "" {
		return domain.ErrInvalidOrExpiredToken
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE admin
		SET password_hash = pending_password_hash, reset_token = NULL, reset_token_expiry = NULL, pending_password_hash = NULL
		WHERE reset_token = ? AND reset_token_expiry > ? AND pending_password_hash IS NOT NULL`,
		token, storage.FormatTime(now),
	)
	if err != nil {
		return storage.Unavailable("consume reset token", err)
	}
	return tokenConsumed(res, "consume reset token")
}

// UpdateUsername replaces the admin's display name.
// PRE: username has been validated
// POST: Row updated, or storage.ErrNotFound
func (s *SQLStore) UpdateUsername(ctx context.Context, id, username string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE admin SET username = ? WHERE id = ?", username, id)
	if err != nil {
		return storage.Unavailable("update username", err)
	}
	return storage.ExpectAffected("update username", res)
}

// UpdatePasswordHash replaces the live credential. A pending reset is
// discarded so it cannot later overwrite the new password.
// PRE: hash is a bcrypt hash
// POST: Row updated, or storage.ErrNotFound
func (s *SQLStore) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE admin SET password_hash = ?, reset_token = NULL, reset_token_expiry = NULL, pending_password_hash = NULL WHERE id = ?",
		hash, id,
	)
	if err != nil {
		return storage.Unavailable("update password", err)
	}
	return storage.ExpectAffected("update password", res)
}

func tokenConsumed(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storage.Unavailable(op, err)
	}
	if n != 1 {
		return domain.ErrInvalidOrExpiredToken
	}
	return nil
}

// scanAdmin scans a row into an Admin using the provided scan function.
func scanAdmin(scan func(dest ...any) error) (domain.Admin, error) {
	var a domain.Admin
	var verified int
	var verifyToken, resetToken, resetExpiry, pending sql.NullString
	var createdAt string
	if err := scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.PasswordHash,
		&verified,
		&verifyToken,
		&resetToken,
		&resetExpiry,
		&pending,
		&createdAt,
	); err != nil {
		return domain.Admin{}, err
	}
	a.Verified = verified != 0
	a.VerificationToken = verifyToken.String
	a.ResetToken = resetToken.String
	a.PendingPasswordHash = pending.String

	var err error
	if a.ResetTokenExpiry, err = storage.ParseNullTime(resetExpiry); err != nil {
		return domain.Admin{}, err
	}
	if a.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return domain.Admin{}, fmt.Errorf("admin %s: %w", a.ID, err)
	}
	return a, nil
}
