package account_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fitpro/internal/domain/account"
)

// TestAdmin_Validate tests validation of Admin.
func TestAdmin_Validate(t *testing.T) {
	tests := []struct {
		name    string
		admin   account.Admin
		wantErr error
	}{
		{
			name:  "valid admin",
			admin: account.Admin{Username: "alice", Email: "a@x.com"},
		},
		{
			name:    "empty username",
			admin:   account.Admin{Username: " ", Email: "a@x.com"},
			wantErr: account.ErrEmptyUsername,
		},
		{
			name:    "long username",
			admin:   account.Admin{Username: strings.Repeat("u", 65), Email: "a@x.com"},
			wantErr: account.ErrUsernameTooLong,
		},
		{
			name:    "empty email",
			admin:   account.Admin{Username: "alice"},
			wantErr: account.ErrEmptyEmail,
		},
		{
			name:    "email without at sign",
			admin:   account.Admin{Username: "alice", Email: "alice.example.com"},
			wantErr: account.ErrInvalidEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.admin.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Admin.Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestAdmin_Password tests hashing and verification of the live credential.
func TestAdmin_Password(t *testing.T) {
	var a account.Admin
	if err := a.SetPassword("pw", bcrypt.MinCost); err != nil {
		t.Fatalf("SetPassword() error = %v", err)
	}
	if a.PasswordHash == "pw" {
		t.Fatal("password stored in plaintext")
	}
	if err := a.CheckPassword("pw"); err != nil {
		t.Errorf("CheckPassword(correct) error = %v", err)
	}
	if err := a.CheckPassword("nope"); !errors.Is(err, account.ErrInvalidCredential) {
		t.Errorf("CheckPassword(wrong) error = %v, want ErrInvalidCredential", err)
	}
	if err := a.SetPassword("", bcrypt.MinCost); !errors.Is(err, account.ErrEmptyPassword) {
		t.Errorf("SetPassword(empty) error = %v, want ErrEmptyPassword", err)
	}
	if err := a.SetPassword(strings.Repeat("p", 73), bcrypt.MinCost); !errors.Is(err, account.ErrPasswordTooLong) {
		t.Errorf("SetPassword(73 bytes) error = %v, want ErrPasswordTooLong", err)
	}

	var empty account.Admin
	if err := empty.CheckPassword(""); !errors.Is(err, account.ErrInvalidCredential) {
		t.Errorf("CheckPassword on empty hash error = %v", err)
	}
}

// TestAdmin_ConfirmVerification tests single-use consumption of the verification token.
func TestAdmin_ConfirmVerification(t *testing.T) {
	a := account.Admin{VerificationToken: "t1"}

	if err := a.ConfirmVerification("wrong"); !errors.Is(err, account.ErrInvalidOrExpiredToken) {
		t.Fatalf("wrong token error = %v", err)
	}
	if a.Verified {
		t.Fatal("wrong token must not verify")
	}
	if err := a.ConfirmVerification("t1"); err != nil {
		t.Fatalf("correct token error = %v", err)
	}
	if !a.Verified || a.VerificationToken != "" {
		t.Fatalf("after verify: Verified=%v token=%q", a.Verified, a.VerificationToken)
	}
	if err := a.ConfirmVerification("t1"); !errors.Is(err, account.ErrInvalidOrExpiredToken) {
		t.Fatalf("second use error = %v, want ErrInvalidOrExpiredToken", err)
	}
	if err := a.ConfirmVerification(""); !errors.Is(err, account.ErrInvalidOrExpiredToken) {
		t.Fatalf("empty token on cleared row error = %v", err)
	}
}

// TestAdmin_ResetCycle tests the pending-reset lifecycle including expiry.
func TestAdmin_ResetCycle(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("confirm swaps credential once", func(t *testing.T) {
		a := account.Admin{Verified: true, PasswordHash: "old"}
		a.StartReset("r1", now.Add(time.Hour), "new")

		if a.PasswordHash != "old" {
			t.Fatal("StartReset must not touch the live credential")
		}
		if err := a.ConfirmReset("r1", now.Add(30*time.Minute)); err != nil {
			t.Fatalf("ConfirmReset() error = %v", err)
		}
		if a.PasswordHash != "new" || a.HasPendingReset() || a.PendingPasswordHash != "" || !a.ResetTokenExpiry.IsZero() {
			t.Fatalf("after confirm: %+v", a)
		}
		if err := a.ConfirmReset("r1", now); !errors.Is(err, account.ErrInvalidOrExpiredToken) {
			t.Fatalf("second confirm error = %v", err)
		}
	})

	t.Run("expired token leaves state unchanged", func(t *testing.T) {
		a := account.Admin{Verified: true, PasswordHash: "old"}
		a.StartReset("r1", now, "new")
		before := a

		if err := a.ConfirmReset("r1", now.Add(time.Second)); !errors.Is(err, account.ErrInvalidOrExpiredToken) {
			t.Fatalf("expired confirm error = %v", err)
		}
		if a != before {
			t.Fatalf("state changed on failed confirm: %+v", a)
		}
	})

	t.Run("expiry instant itself is expired", func(t *testing.T) {
		a := account.Admin{}
		a.StartReset("r1", now, "new")
		if a.ResetValid("r1", now) {
			t.Fatal("token must be invalid at its expiry instant")
		}
	})
}

// TestAdmin_IsVerified pins the combined signup/reset completion flag.
func TestAdmin_IsVerified(t *testing.T) {
	tests := []struct {
		name  string
		admin account.Admin
		want  bool
	}{
		{"unverified", account.Admin{}, false},
		{"verified no reset", account.Admin{Verified: true}, true},
		{"verified reset pending", account.Admin{Verified: true, ResetToken: "r"}, false},
		{"unverified reset pending", account.Admin{ResetToken: "r"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.admin.IsVerified(); got != tt.want {
				t.Errorf("IsVerified() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := account.NewToken()
		if err != nil {
			t.Fatalf("NewToken() error = %v", err)
		}
		if len(tok) != 2*account.TokenBytes {
			t.Fatalf("token length = %d, want %d", len(tok), 2*account.TokenBytes)
		}
		if seen[tok] {
			t.Fatalf("duplicate token %q", tok)
		}
		seen[tok] = true
	}
}
