package credstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord() *Record {
	return &Record{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		Email:        "alice@example.com",
		ExpiresAt:    1790000000000,
	}
}

func TestFileStoreSaveLoadClear(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "session.record")
	store := NewFileStore(path)

	// Absent file loads as no record, not an error.
	rec, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, rec)

	require.NoError(t, store.Save(ctx, testRecord()))

	rec, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, testRecord(), rec)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, store.Clear(ctx))
	rec, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, rec)

	// Clearing an already cleared store is fine.
	require.NoError(t, store.Clear(ctx))
}

func TestFileStoreCorruptFileLoadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.record")
	require.NoError(t, os.WriteFile(path, []byte("someone else wrote this"), 0o600))

	store := NewFileStore(path)
	rec, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFileStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "session.record"))

	require.NoError(t, store.Save(ctx, testRecord()))

	replacement := testRecord()
	replacement.AccessToken = "newer-token"
	require.NoError(t, store.Save(ctx, replacement))

	rec, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "newer-token", rec.AccessToken)
}

func TestFileStoreRejectsInvalidRecord(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "session.record"))

	assert.Error(t, store.Save(context.Background(), nil))
	assert.Error(t, store.Save(context.Background(), &Record{Email: "alice@example.com"}))
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "session.record"))

	require.NoError(t, store.Save(context.Background(), testRecord()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "session.record", entries[0].Name())
}
