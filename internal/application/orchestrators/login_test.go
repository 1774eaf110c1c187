package orchestrators

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitpro/internal/domain/account"
)

func TestExecuteLogin(t *testing.T) {
	store := newMockAccountStore()
	store.seedAdmin("admin-1", "a@x.com", "pw1")
	store.byEmail["u@x.com"] = account.Admin{ID: "admin-2", Email: "u@x.com", PasswordHash: store.get("a@x.com").PasswordHash}

	tests := []struct {
		name    string
		input   LoginInput
		wantErr error
	}{
		{"unknown email", LoginInput{Email: "nobody@x.com", Password: "pw1"}, account.ErrNoSuchAccount},
		{"not verified is checked before password", LoginInput{Email: "u@x.com", Password: "wrong"}, account.ErrNotVerified},
		{"wrong password", LoginInput{Email: "a@x.com", Password: "wrong"}, account.ErrInvalidCredential},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer := &mockIssuer{}
			_, err := ExecuteLogin(context.Background(), tt.input, LoginDeps{AccountStore: store, Issuer: issuer})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, issuer.claims.AdminID, "no token issued on failure")
		})
	}
}

func TestExecuteLogin_IssuesSession(t *testing.T) {
	store := newMockAccountStore()
	store.seedAdmin("admin-1", "a@x.com", "pw1")
	issuer := &mockIssuer{}

	result, err := ExecuteLogin(context.Background(), LoginInput{Email: "a@x.com", Password: "pw1"}, LoginDeps{
		AccountStore: store,
		Issuer:       issuer,
		SessionTTL:   30 * time.Minute,
		Now:          func() time.Time { return fixedNow },
	})
	require.NoError(t, err)

	assert.Equal(t, "signed.admin-1", result.Token)
	assert.Equal(t, fixedNow.Add(30*time.Minute), result.ExpiresAt)
	assert.Equal(t, account.SessionClaims{AdminID: "admin-1", Email: "a@x.com", Username: "alice"}, issuer.claims)
	assert.Equal(t, 30*time.Minute, issuer.ttl)
}

func TestExecuteLogin_DefaultTTLAndValidation(t *testing.T) {
	store := newMockAccountStore()
	store.seedAdmin("admin-1", "a@x.com", "pw1")
	issuer := &mockIssuer{}

	_, err := ExecuteLogin(context.Background(), LoginInput{Email: "a@x.com", Password: "pw1"}, LoginDeps{AccountStore: store, Issuer: issuer})
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionTTL, issuer.ttl)

	_, err = ExecuteLogin(context.Background(), LoginInput{Email: "a@x.com"}, LoginDeps{AccountStore: store, Issuer: issuer})
	assert.True(t, IsValidation(err))
}

// A store failure must not be reported as an unknown account.
func TestExecuteLogin_StoreUnavailable(t *testing.T) {
	store := newMockAccountStore()
	store.err = errStoreDown

	_, err := ExecuteLogin(context.Background(), LoginInput{Email: "a@x.com", Password: "pw"}, LoginDeps{AccountStore: store, Issuer: &mockIssuer{}})
	assert.ErrorIs(t, err, errStoreDown)
	assert.NotErrorIs(t, err, account.ErrNoSuchAccount)
}
