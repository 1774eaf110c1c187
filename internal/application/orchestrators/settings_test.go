package orchestrators

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"fitpro/internal/domain/account"
)

func TestExecuteUpdateUsername(t *testing.T) {
	store := newMockAccountStore()
	store.seedAdmin("admin-1", "a@x.com", "pw1")
	deps := UpdateUsernameDeps{AccountStore: store}

	require.NoError(t, ExecuteUpdateUsername(context.Background(), UpdateUsernameInput{AdminID: "admin-1", Username: "  alice2 "}, deps))
	assert.Equal(t, "alice2", store.get("a@x.com").Username)

	err := ExecuteUpdateUsername(context.Background(), UpdateUsernameInput{AdminID: "admin-1", Username: " "}, deps)
	assert.True(t, IsValidation(err))

	err = ExecuteUpdateUsername(context.Background(), UpdateUsernameInput{AdminID: "admin-1", Username: strings.Repeat("u", 65)}, deps)
	assert.ErrorIs(t, err, account.ErrUsernameTooLong)

	err = ExecuteUpdateUsername(context.Background(), UpdateUsernameInput{AdminID: "ghost", Username: "bob"}, deps)
	assert.ErrorIs(t, err, account.ErrNoSuchAccount)
}

func TestExecuteChangePassword(t *testing.T) {
	store := newMockAccountStore()
	store.seedAdmin("admin-1", "a@x.com", "pw1")
	deps := ChangePasswordDeps{AccountStore: store, BcryptCost: bcrypt.MinCost}

	err := ExecuteChangePassword(context.Background(), ChangePasswordInput{AdminID: "admin-1", CurrentPassword: "wrong", NewPassword: "pw2"}, deps)
	assert.ErrorIs(t, err, account.ErrInvalidCredential)
	require.NoError(t, login(store, "a@x.com", "pw1"))

	err = ExecuteChangePassword(context.Background(), ChangePasswordInput{AdminID: "admin-1", NewPassword: "pw2"}, deps)
	assert.True(t, IsValidation(err))

	require.NoError(t, ExecuteChangePassword(context.Background(), ChangePasswordInput{AdminID: "admin-1", CurrentPassword: "pw1", NewPassword: "pw2"}, deps))
	require.NoError(t, login(store, "a@x.com", "pw2"))
	assert.ErrorIs(t, login(store, "a@x.com", "pw1"), account.ErrInvalidCredential)

	err = ExecuteChangePassword(context.Background(), ChangePasswordInput{AdminID: "ghost", CurrentPassword: "x", NewPassword: "y"}, deps)
	assert.ErrorIs(t, err, account.ErrNoSuchAccount)
}

// Changing the password discards a pending reset so its link can no longer apply an older choice.
func TestExecuteChangePassword_DiscardsPendingReset(t *testing.T) {
	now := fixedNow
	store := newMockAccountStore()
	store.seedAdmin("admin-1", "a@x.com", "pw1")
	_, err := ExecuteRequestReset(context.Background(), RequestResetInput{Email: "a@x.com", NewPassword: "pw-reset"}, resetDeps(store, &mockNotifier{}, &now))
	require.NoError(t, err)

	require.NoError(t, ExecuteChangePassword(context.Background(), ChangePasswordInput{AdminID: "admin-1", CurrentPassword: "pw1", NewPassword: "pw2"}, ChangePasswordDeps{AccountStore: store, BcryptCost: bcrypt.MinCost}))

	err = ExecuteConfirmReset(context.Background(), "reset-1", ConfirmResetDeps{AccountStore: store, Now: clock(&now)})
	assert.ErrorIs(t, err, account.ErrInvalidOrExpiredToken)
	require.NoError(t, login(store, "a@x.com", "pw2"))
}

func TestExecuteSeedAdmin(t *testing.T) {
	store := newMockAccountStore()
	deps := SeedAdminDeps{AccountStore: store, BcryptCost: bcrypt.MinCost, GenerateID: fixedID("seed-1")}

	require.NoError(t, ExecuteSeedAdmin(context.Background(), SeedAdminInput{Email: "dev@x.com", Password: "devpw"}, deps))
	a := store.get("dev@x.com")
	assert.True(t, a.Verified)
	assert.Equal(t, "admin", a.Username)
	require.NoError(t, login(store, "dev@x.com", "devpw"))

	deps.GenerateID = fixedID("seed-2")
	require.NoError(t, ExecuteSeedAdmin(context.Background(), SeedAdminInput{Email: "dev@x.com", Password: "other"}, deps))
	assert.Equal(t, "seed-1", store.get("dev@x.com").ID, "existing admin left alone")
}
