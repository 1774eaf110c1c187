package token

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fitpro/internal/domain/account"
)

// ErrInvalidToken covers malformed, forged and expired session tokens.
var ErrInvalidToken = errors.New("invalid or expired session token")

// sessionClaims is the signed payload of a session token.
type sessionClaims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWT issues and verifies HS256 session tokens.
type JWT struct {
	key []byte
	now func() time.Time
}

// New creates a JWT with the given signing secret.
// PRE: secret is non-empty
func New(secret []byte) *JWT {
	return &JWT{key: secret, now: time.Now}
}

// NewEphemeral creates a JWT with a random key. Tokens do not survive a restart.
func NewEphemeral() (*JWT, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generate JWT key: %w", err)
	}
	return New(b), nil
}

// WithClock returns a copy that reads time from now.
func (j *JWT) WithClock(now func() time.Time) *JWT {
	return &JWT{key: j.key, now: now}
}

// Issue signs a token for claims that expires after ttl.
// PRE: claims.AdminID is non-empty, ttl > 0
// POST: Returns a compact JWS string
func (j *JWT) Issue(claims account.SessionClaims, ttl time.Duration) (string, error) {
	now := j.now()
	c := sessionClaims{
		Email:    claims.Email,
		Username: claims.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.AdminID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(j.key)
}

// Verify checks signature and expiry and returns the carried identity.
// POST: Returns ErrInvalidToken for any failure
func (j *JWT) Verify(tokenStr string) (account.SessionClaims, error) {
	var c sessionClaims
	_, err := jwt.ParseWithClaims(tokenStr, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return j.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return account.SessionClaims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if c.Subject == "" {
		return account.SessionClaims{}, ErrInvalidToken
	}
	return account.SessionClaims{AdminID: c.Subject, Email: c.Email, Username: c.Username}, nil
}
