package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriberFileRepositoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "chat_ids.json")
	repo := NewSubscriberFileRepository(path, zerolog.Nop())

	require.NoError(t, repo.Save(context.Background(), map[int64]struct{}{42: {}, -100123: {}, 7: {}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[-100123, 7, 42]`, string(data))

	ids, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[int64]struct{}{42: {}, -100123: {}, 7: {}}, ids)
}

func TestSubscriberFileRepositoryRecreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_ids.json")
	repo := NewSubscriberFileRepository(path, zerolog.Nop())

	ids, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestSubscriberFileRepositoryRecreatesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_ids.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	repo := NewSubscriberFileRepository(path, zerolog.Nop())

	ids, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestSubscriberFileRepositorySaveEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_ids.json")
	repo := NewSubscriberFileRepository(path, zerolog.Nop())

	require.NoError(t, repo.Save(context.Background(), nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
