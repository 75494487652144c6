package inmemory_local_hashes_test

import (
	"context"
	"errors"
	"testing"

	"github.com/horockey/dirtyhash/internal/model"
	"github.com/horockey/dirtyhash/internal/repository/local_hashes/inmemory_local_hashes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ReadAllFields_KeyNotFound(t *testing.T) {
	repo := inmemory_local_hashes.New()

	fields, err := repo.ReadAllFields(context.Background(), "nonexistent_key")
	require.NoError(t, err)
	assert.NotNil(t, fields)
	assert.Empty(t, fields)
}

func Test_ReadAllFields_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := inmemory_local_hashes.New()

	require.NoError(t, repo.SetFields(ctx, "k", map[string]string{"a": "1"}))

	fields, err := repo.ReadAllFields(ctx, "k")
	require.NoError(t, err)
	fields["a"] = "changed"

	fields, err = repo.ReadAllFields(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1"}, fields)
}

func Test_SetAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := inmemory_local_hashes.New()

	require.NoError(t, repo.SetFields(ctx, "k", map[string]string{"a": "1", "b": "2"}))
	require.NoError(t, repo.SetFields(ctx, "k", map[string]string{"b": "3", "c": "4"}))
	require.NoError(t, repo.DeleteFields(ctx, "k", []string{"a"}))

	fields, err := repo.ReadAllFields(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"b": "3", "c": "4"}, fields)

	require.NoError(t, repo.DeleteFields(ctx, "k", []string{"b", "c"}))
	require.NoError(t, repo.DeleteFields(ctx, "missing", []string{"x"}))

	fields, err = repo.ReadAllFields(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func Test_DeleteKey(t *testing.T) {
	ctx := context.Background()
	repo := inmemory_local_hashes.New()

	require.NoError(t, repo.SetFields(ctx, "k", map[string]string{"a": "1"}))
	require.NoError(t, repo.DeleteKey(ctx, "k"))
	require.NoError(t, repo.DeleteKey(ctx, "k"))

	fields, err := repo.ReadAllFields(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func Test_InvalidArguments(t *testing.T) {
	ctx := context.Background()
	repo := inmemory_local_hashes.New()

	var argErr model.InvalidArgumentError
	assert.True(t, errors.As(repo.SetFields(ctx, "k", map[string]string{}), &argErr))
	assert.True(t, errors.As(repo.DeleteFields(ctx, "k", []string{}), &argErr))
	assert.True(t, errors.As(repo.DeleteKey(ctx, ""), &argErr))
	assert.Len(t, repo.Metrics(), 8)
}
