package boltdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/jwtgate/internal/client/storage"
)

func createTestStorage(t *testing.T) (*Storage, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "session_test.db")

	store, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store, dbPath
}

func testSession(username string) *storage.Session {
	now := time.Now().UTC().Truncate(time.Second)
	return &storage.Session{
		Username:         username,
		Role:             "ROLE_USER",
		AccessToken:      "access-" + username,
		RefreshToken:     "refresh-" + username,
		SavedAt:          now,
		AccessExpiresAt:  now.Add(10 * time.Minute),
		RefreshExpiresAt: now.Add(24 * time.Hour),
	}
}

func TestStorage_SaveGetDeleteSession(t *testing.T) {
	ctx := context.Background()
	store, _ := createTestStorage(t)

	_, err := store.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	session := testSession("alice")
	require.NoError(t, store.SaveSession(ctx, session))

	got, err := store.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.Username, got.Username)
	assert.Equal(t, session.AccessToken, got.AccessToken)
	assert.Equal(t, session.RefreshToken, got.RefreshToken)
	assert.True(t, session.AccessExpiresAt.Equal(got.AccessExpiresAt))
	assert.True(t, session.SavedAt.Equal(got.SavedAt))

	require.NoError(t, store.DeleteSession(ctx))

	_, err = store.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	// Повторное удаление
	assert.ErrorIs(t, store.DeleteSession(ctx), storage.ErrSessionNotFound)
}

func TestStorage_SaveSessionReplaces(t *testing.T) {
	ctx := context.Background()
	store, _ := createTestStorage(t)

	require.NoError(t, store.SaveSession(ctx, testSession("alice")))
	require.NoError(t, store.SaveSession(ctx, testSession("bob")))

	got, err := store.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Username)
	assert.Equal(t, "refresh-bob", got.RefreshToken)
}

func TestStorage_SaveNilSession(t *testing.T) {
	store, _ := createTestStorage(t)
	assert.Error(t, store.SaveSession(context.Background(), nil))
}

func TestStorage_SessionSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	store, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.SaveSession(ctx, testSession("alice")))
	require.NoError(t, store.Close())

	reopened, err := New(ctx, dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}

func TestStorage_ClosedStorage(t *testing.T) {
	ctx := context.Background()
	store, _ := createTestStorage(t)
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.SaveSession(ctx, testSession("alice")), storage.ErrStorageClosed)
	_, err := store.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.ErrorIs(t, store.DeleteSession(ctx), storage.ErrStorageClosed)
}
