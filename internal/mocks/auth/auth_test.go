package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/aimspurefied/healer-ui-api/internal/domain/auth"
	"github.com/aimspurefied/healer-ui-api/internal/ports"
)

func TestMockAuthenticator_Defaults(t *testing.T) {
	m := NewMockAuthenticator()
	ctx := context.Background()

	identity, err := m.Authenticate(ctx, domainauth.Credentials{Email: "admin@gmail.com", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "admin@gmail.com", identity.Email)

	_, err = m.Authenticate(ctx, domainauth.Credentials{Email: "admin@gmail.com", Password: "nope"})
	assert.ErrorIs(t, err, ports.ErrInvalidCredentials)
	assert.Equal(t, 2, m.Calls)
}

func TestMemorySessionStore_TwoKeyLayout(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	sess := domainauth.Session{ID: "sid", UserID: "u1", Authenticated: true}
	require.NoError(t, store.Write(ctx, sess))

	flag, err := store.ReadFlag(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, domainauth.FlagSentinel, flag)

	record, err := store.ReadRecord(ctx, "sid")
	require.NoError(t, err)
	assert.NotEmpty(t, record)
	assert.Equal(t, 1, store.Len())

	// Absent sessions read as zero values, not errors.
	flag, err = store.ReadFlag(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, flag)

	require.NoError(t, store.Clear(ctx, "sid"))
	require.NoError(t, store.Clear(ctx, "sid"))
	assert.Zero(t, store.Len())
}

func TestMockAuthProvider_DeterministicState(t *testing.T) {
	m := NewMockAuthProvider()
	ctx := context.Background()

	_, state1, nonce1, err := m.Begin(ctx, ports.BeginInput{})
	require.NoError(t, err)
	_, state2, _, err := m.Begin(ctx, ports.BeginInput{})
	require.NoError(t, err)

	assert.Equal(t, "state-1", state1)
	assert.Equal(t, "nonce-1", nonce1)
	assert.Equal(t, "state-2", state2)

	identity, err := m.Exchange(ctx, ports.ExchangeInput{Code: "c", State: state1, Nonce: nonce1})
	require.NoError(t, err)
	assert.Equal(t, "mock-user-1", identity.UserID)
}
