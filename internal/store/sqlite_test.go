package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnp-robotics/scout-cli/internal/resilience"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "scout.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteBlobRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.PutBlob(ctx, BlobTeams, []byte(`{"755":{"name":"Delbotics"}}`)))

	got, err := s.GetBlob(ctx, BlobTeams)
	require.NoError(t, err)
	assert.JSONEq(t, `{"755":{"name":"Delbotics"}}`, string(got))
}

func TestSQLiteBlobOverwrite(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.PutBlob(ctx, BlobSettings, []byte(`{"target":""}`)))
	require.NoError(t, s.PutBlob(ctx, BlobSettings, []byte(`{"target":"755"}`)))

	got, err := s.GetBlob(ctx, BlobSettings)
	require.NoError(t, err)
	assert.JSONEq(t, `{"target":"755"}`, string(got))
}

func TestSQLiteBlobMissing(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.GetBlob(context.Background(), BlobMine)
	require.Error(t, err)
	assert.True(t, resilience.IsNotFound(err))
}

func TestSQLiteBlobDelete(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.PutBlob(ctx, BlobTeams, []byte(`{}`)))
	require.NoError(t, s.DeleteBlob(ctx, BlobTeams))

	_, err := s.GetBlob(ctx, BlobTeams)
	assert.True(t, resilience.IsNotFound(err))

	// deleting again is a no-op
	assert.NoError(t, s.DeleteBlob(ctx, BlobTeams))
}

func TestSQLiteMigrateIdempotent(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.PutBlob(ctx, BlobTeams, []byte(`{"x":1}`)))
	require.NoError(t, s.Migrate(ctx))

	got, err := s.GetBlob(ctx, BlobTeams)
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":1}`, string(got))
}
