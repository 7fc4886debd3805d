package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKV(t *testing.T) *SQLiteKV {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	kv, err := NewSQLiteKV(dbPath)
	require.NoError(t, err)

	err = kv.Migrate(context.Background())
	require.NoError(t, err)

	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestNewSQLiteKV_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "subdir", "test.db")

	kv, err := NewSQLiteKV(dbPath)
	require.NoError(t, err)
	defer kv.Close()

	_, err = os.Stat(filepath.Join(dir, "subdir"))
	assert.NoError(t, err, "should create parent directory")
}

func TestMigrate_Idempotent(t *testing.T) {
	kv := newTestKV(t)

	// Running migrate again should be a no-op
	err := kv.Migrate(context.Background())
	assert.NoError(t, err)
}

func TestSQLiteKV_GetMissing(t *testing.T) {
	kv := newTestKV(t)

	v, ok, err := kv.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestSQLiteKV_UpdateRoundTrip(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	err := kv.Update(ctx, "k", func(cur []byte, ok bool) ([]byte, error) {
		assert.False(t, ok)
		return []byte(`[1]`), nil
	})
	require.NoError(t, err)

	err = kv.Update(ctx, "k", func(cur []byte, ok bool) ([]byte, error) {
		assert.True(t, ok)
		assert.Equal(t, `[1]`, string(cur))
		return []byte(`[1,2]`), nil
	})
	require.NoError(t, err)

	v, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[1,2]`, string(v))
}

func TestSQLiteKV_UpdateErrorRollsBack(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Update(ctx, "k", func([]byte, bool) ([]byte, error) {
		return []byte(`"a"`), nil
	}))

	boom := errors.New("boom")
	err := kv.Update(ctx, "k", func([]byte, bool) ([]byte, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	v, _, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `"a"`, string(v))
}

func TestSQLiteKV_NilResultLeavesKeyAbsent(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Update(ctx, "k", func([]byte, bool) ([]byte, error) {
		return nil, nil
	}))

	_, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteKV_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	ctx := context.Background()

	kv, err := NewSQLiteKV(dbPath)
	require.NoError(t, err)
	require.NoError(t, kv.Migrate(ctx))
	require.NoError(t, kv.Update(ctx, ProjectsKey, func([]byte, bool) ([]byte, error) {
		return []byte(`[]`), nil
	}))
	require.NoError(t, kv.Close())

	kv, err = NewSQLiteKV(dbPath)
	require.NoError(t, err)
	defer kv.Close()
	require.NoError(t, kv.Migrate(ctx))

	v, ok, err := kv.Get(ctx, ProjectsKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, string(v))
}
