package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"fitpro/internal/domain/account"
	emailDomain "fitpro/internal/domain/email"
)

func resetDeps(store *mockAccountStore, notifier *mockNotifier, now *time.Time) RequestResetDeps {
	n := 0
	return RequestResetDeps{
		AccountStore: store,
		Notifier:     notifier,
		BaseURL:      "http://localhost:5006",
		BcryptCost:   bcrypt.MinCost,
		ResetTTL:     time.Hour,
		NewToken: func() (string, error) {
			n++
			return fmt.Sprintf("reset-%d", n), nil
		},
		Now: clock(now),
	}
}

func login(store *mockAccountStore, email, pw string) error {
	_, err := ExecuteLogin(context.Background(), LoginInput{Email: email, Password: pw}, LoginDeps{AccountStore: store, Issuer: &mockIssuer{}})
	return err
}

// The old password keeps working until the reset is confirmed, then only the new one does.
func TestResetFlow_OldCredentialValidUntilConfirm(t *testing.T) {
	now := fixedNow
	store := newMockAccountStore()
	store.seedAdmin("admin-1", "a@x.com", "pw1")
	notifier := &mockNotifier{}

	result, err := ExecuteRequestReset(context.Background(), RequestResetInput{Email: "a@x.com", NewPassword: "pw2"}, resetDeps(store, notifier, &now))
	require.NoError(t, err)
	assert.Equal(t, "reset-1", result.Token)
	assert.Equal(t, fixedNow.Add(time.Hour), result.Expiry)
	assert.True(t, result.Notified)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, emailDomain.SubjectConfirmReset, notifier.sent[0].Subject)
	assert.Contains(t, notifier.sent[0].Body, "http://localhost:5006/api/auth/confirm-reset/reset-1")

	a := store.get("a@x.com")
	assert.True(t, a.Verified, "reset request leaves verified untouched")
	assert.NotEqual(t, "pw2", a.PendingPasswordHash)

	require.NoError(t, login(store, "a@x.com", "pw1"))
	assert.ErrorIs(t, login(store, "a@x.com", "pw2"), account.ErrInvalidCredential)

	verified, err := ExecuteIsVerified(context.Background(), "a@x.com", IsVerifiedDeps{AccountStore: store})
	require.NoError(t, err)
	assert.False(t, verified, "pending reset reads as not verified")

	now = fixedNow.Add(10 * time.Minute)
	require.NoError(t, ExecuteConfirmReset(context.Background(), "reset-1", ConfirmResetDeps{AccountStore: store, Now: clock(&now)}))

	assert.ErrorIs(t, login(store, "a@x.com", "pw1"), account.ErrInvalidCredential)
	require.NoError(t, login(store, "a@x.com", "pw2"))

	verified, err = ExecuteIsVerified(context.Background(), "a@x.com", IsVerifiedDeps{AccountStore: store})
	require.NoError(t, err)
	assert.True(t, verified)

	err = ExecuteConfirmReset(context.Background(), "reset-1", ConfirmResetDeps{AccountStore: store, Now: clock(&now)})
	assert.ErrorIs(t, err, account.ErrInvalidOrExpiredToken, "token is single use")
}

func TestExecuteConfirmReset_Expired(t *testing.T) {
	now := fixedNow
	store := newMockAccountStore()
	store.seedAdmin("admin-1", "a@x.com", "pw1")

	_, err := ExecuteRequestReset(context.Background(), RequestResetInput{Email: "a@x.com", NewPassword: "pw2"}, resetDeps(store, &mockNotifier{}, &now))
	require.NoError(t, err)
	before := store.get("a@x.com")

	now = fixedNow.Add(time.Hour)
	err = ExecuteConfirmReset(context.Background(), "reset-1", ConfirmResetDeps{AccountStore: store, Now: clock(&now)})
	assert.ErrorIs(t, err, account.ErrInvalidOrExpiredToken)
	assert.Equal(t, before, store.get("a@x.com"), "failed confirm changes nothing")
	require.NoError(t, login(store, "a@x.com", "pw1"))
}

func TestExecuteRequestReset_SecondRequestReplacesFirst(t *testing.T) {
	now := fixedNow
	store := newMockAccountStore()
	store.seedAdmin("admin-1", "a@x.com", "pw1")
	deps := resetDeps(store, &mockNotifier{}, &now)

	_, err := ExecuteRequestReset(context.Background(), RequestResetInput{Email: "a@x.com", NewPassword: "pw2"}, deps)
	require.NoError(t, err)
	_, err = ExecuteRequestReset(context.Background(), RequestResetInput{Email: "a@x.com", NewPassword: "pw3"}, deps)
	require.NoError(t, err)

	confirm := ConfirmResetDeps{AccountStore: store, Now: clock(&now)}
	assert.ErrorIs(t, ExecuteConfirmReset(context.Background(), "reset-1", confirm), account.ErrInvalidOrExpiredToken)
	require.NoError(t, ExecuteConfirmReset(context.Background(), "reset-2", confirm))
	require.NoError(t, login(store, "a@x.com", "pw3"))
}

func TestExecuteRequestReset_Failures(t *testing.T) {
	now := fixedNow

	t.Run("unknown email", func(t *testing.T) {
		notifier := &mockNotifier{}
		_, err := ExecuteRequestReset(context.Background(), RequestResetInput{Email: "nobody@x.com", NewPassword: "pw"}, resetDeps(newMockAccountStore(), notifier, &now))
		assert.ErrorIs(t, err, account.ErrNoSuchAccount)
		assert.Empty(t, notifier.sent)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := ExecuteRequestReset(context.Background(), RequestResetInput{Email: "a@x.com"}, resetDeps(newMockAccountStore(), &mockNotifier{}, &now))
		assert.True(t, IsValidation(err))
	})

	t.Run("notification failure keeps pending reset", func(t *testing.T) {
		store := newMockAccountStore()
		store.seedAdmin("admin-1", "a@x.com", "pw1")
		result, err := ExecuteRequestReset(context.Background(), RequestResetInput{Email: "a@x.com", NewPassword: "pw2"}, resetDeps(store, &mockNotifier{err: errors.New("down")}, &now))
		require.NoError(t, err)
		assert.False(t, result.Notified)
		pending := store.get("a@x.com")
		assert.True(t, pending.HasPendingReset())
	})
}

func TestExecuteConfirmReset_EmptyToken(t *testing.T) {
	err := ExecuteConfirmReset(context.Background(), "", ConfirmResetDeps{AccountStore: newMockAccountStore()})
	assert.ErrorIs(t, err, account.ErrInvalidOrExpiredToken)
}
