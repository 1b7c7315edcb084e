package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/aimspurefied/healer-ui-api/internal/domain/auth"
	"github.com/aimspurefied/healer-ui-api/internal/testutil"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func testSession(id string) domainauth.Session {
	return domainauth.Session{
		ID:            id,
		UserID:        "admin@gmail.com",
		Name:          "Administrator",
		Email:         "admin@gmail.com",
		Role:          domainauth.RoleAdmin,
		Authenticated: true,
		LoginAt:       time.Now().UTC().Truncate(time.Second),
	}
}

func TestSessionStore_WriteAndRead(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()
	sess := testSession("sess-1")

	require.NoError(t, store.Write(ctx, sess))

	flag, err := store.ReadFlag(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, domainauth.FlagSentinel, flag)

	record, err := store.ReadRecord(ctx, "sess-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "sess-1",
		"user_id": "admin@gmail.com",
		"name": "Administrator",
		"email": "admin@gmail.com",
		"role": "admin",
		"is_authenticated": true,
		"login_at": "`+sess.LoginAt.Format(time.RFC3339)+`"
	}`, string(record))
}

func TestSessionStore_WriteEmptyID(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	err := store.Write(context.Background(), domainauth.Session{})
	require.Error(t, err)
}

func TestSessionStore_ReadAbsent(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	flag, err := store.ReadFlag(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, flag)

	record, err := store.ReadRecord(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestSessionStore_ClearIsIdempotent(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, testSession("sess-2")))
	require.NoError(t, store.Clear(ctx, "sess-2"))

	flag, err := store.ReadFlag(ctx, "sess-2")
	require.NoError(t, err)
	assert.Empty(t, flag)

	// Second clear of an already-absent session is a no-op.
	require.NoError(t, store.Clear(ctx, "sess-2"))
	require.NoError(t, store.Clear(ctx, ""))
}

func TestSessionStore_TTLExpiry(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStoreWithTTL(client, 50*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, testSession("sess-3")))
	time.Sleep(120 * time.Millisecond)

	flag, err := store.ReadFlag(ctx, "sess-3")
	require.NoError(t, err)
	assert.Empty(t, flag)
}
