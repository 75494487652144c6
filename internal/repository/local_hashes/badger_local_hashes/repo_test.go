package badger_local_hashes_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dgraph-io/badger"
	"github.com/horockey/dirtyhash/internal/model"
	"github.com/horockey/dirtyhash/internal/repository/local_hashes/badger_local_hashes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) (*badger.DB, func()) {
	dir := t.TempDir()

	db, err := badger.Open(badger.DefaultOptions(dir))
	if err != nil {
		t.Fatalf("failed to open badger db: %v", err)
	}

	return db, func() {
		_ = db.Close()
	}
}

func Test_ReadAllFields_KeyNotFound(t *testing.T) {
	db, teardown := setupDB(t)
	defer teardown()

	repo := badger_local_hashes.New(db)

	fields, err := repo.ReadAllFields(context.Background(), "nonexistent_key")
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func Test_SetFields_ReadAllFields(t *testing.T) {
	db, teardown := setupDB(t)
	defer teardown()

	ctx := context.Background()
	repo := badger_local_hashes.New(db)

	require.NoError(t, repo.SetFields(ctx, "user:1", map[string]string{"a": `1`, "b": `"x"`}))
	require.NoError(t, repo.SetFields(ctx, "user:1", map[string]string{"b": `"y"`}))
	// sibling key sharing a prefix must not leak in
	require.NoError(t, repo.SetFields(ctx, "user:10", map[string]string{"c": `3`}))

	fields, err := repo.ReadAllFields(ctx, "user:1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": `1`, "b": `"y"`}, fields)
}

func Test_DeleteFields(t *testing.T) {
	db, teardown := setupDB(t)
	defer teardown()

	ctx := context.Background()
	repo := badger_local_hashes.New(db)

	require.NoError(t, repo.SetFields(ctx, "k", map[string]string{"a": "1", "b": "2", "c": "3"}))
	require.NoError(t, repo.DeleteFields(ctx, "k", []string{"a", "c", "missing"}))

	fields, err := repo.ReadAllFields(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"b": "2"}, fields)
}

func Test_DeleteKey(t *testing.T) {
	db, teardown := setupDB(t)
	defer teardown()

	ctx := context.Background()
	repo := badger_local_hashes.New(db)

	require.NoError(t, repo.SetFields(ctx, "k", map[string]string{"a": "1", "b": "2"}))
	require.NoError(t, repo.SetFields(ctx, "other", map[string]string{"a": "1"}))
	require.NoError(t, repo.DeleteKey(ctx, "k"))

	fields, err := repo.ReadAllFields(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, fields)

	fields, err = repo.ReadAllFields(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1"}, fields)
}

func Test_InvalidArguments(t *testing.T) {
	db, teardown := setupDB(t)
	defer teardown()

	ctx := context.Background()
	repo := badger_local_hashes.New(db)

	var argErr model.InvalidArgumentError

	err := repo.SetFields(ctx, "k", nil)
	assert.True(t, errors.As(err, &argErr))

	err = repo.DeleteFields(ctx, "k", nil)
	assert.True(t, errors.As(err, &argErr))

	_, err = repo.ReadAllFields(ctx, "bad\x00key")
	assert.True(t, errors.As(err, &argErr))
}

func Test_CanceledContext(t *testing.T) {
	db, teardown := setupDB(t)
	defer teardown()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := badger_local_hashes.New(db)

	err := repo.SetFields(ctx, "k", map[string]string{"a": "1"})
	assert.ErrorIs(t, err, context.Canceled)
}
