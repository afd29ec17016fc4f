package chromem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/messixieziyi/life-story/internal/domain/ports"
	"github.com/messixieziyi/life-story/internal/infrastructure/config"
)

func setupTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex(config.ChromemConfig{}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	require.NoError(t, idx.EnsureIndex(context.Background(), 3))
	return idx
}

func TestIndex_UpsertAndSearch(t *testing.T) {
	idx := setupTestIndex(t)
	ctx := context.Background()

	docs := []ports.IndexDocument{
		{ID: "ev-1", Text: "海边日落", Vector: []float32{1, 0, 0}},
		{ID: "ev-2", Text: "登山", Vector: []float32{0, 1, 0}},
		{ID: "ev-3", Text: "读书", Vector: []float32{0, 0, 1}},
	}
	require.NoError(t, idx.Upsert(ctx, "user-1", docs))
	assert.Equal(t, 3, idx.Count("user-1"))

	hits, err := idx.Search(ctx, "user-1", []float32{0.9, 0.1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "ev-1", hits[0].ID)
	assert.Equal(t, "ev-2", hits[1].ID)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestIndex_LimitLargerThanCollection(t *testing.T) {
	idx := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "user-1", []ports.IndexDocument{
		{ID: "ev-1", Vector: []float32{1, 0, 0}},
	}))

	hits, err := idx.Search(ctx, "user-1", []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestIndex_UpsertReplaces(t *testing.T) {
	idx := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "user-1", []ports.IndexDocument{{ID: "ev-1", Vector: []float32{1, 0, 0}}}))
	require.NoError(t, idx.Upsert(ctx, "user-1", []ports.IndexDocument{{ID: "ev-1", Vector: []float32{0, 1, 0}}}))
	assert.Equal(t, 1, idx.Count("user-1"))

	hits, err := idx.Search(ctx, "user-1", []float32{0, 1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-5)
}

func TestIndex_UsersAreIsolated(t *testing.T) {
	idx := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "user-1", []ports.IndexDocument{{ID: "ev-1", Vector: []float32{1, 0, 0}}}))

	hits, err := idx.Search(ctx, "user-2", []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.Equal(t, 0, idx.Count("user-2"))
}

func TestIndex_Delete(t *testing.T) {
	idx := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "user-1", []ports.IndexDocument{
		{ID: "ev-1", Vector: []float32{1, 0, 0}},
		{ID: "ev-2", Vector: []float32{0, 1, 0}},
	}))

	require.NoError(t, idx.Delete(ctx, "user-1", []string{"ev-1"}))
	assert.Equal(t, 1, idx.Count("user-1"))

	require.NoError(t, idx.Delete(ctx, "nobody", []string{"ev-1"}))
}

func TestIndex_VectorSizeMismatch(t *testing.T) {
	idx := setupTestIndex(t)

	err := idx.Upsert(context.Background(), "user-1", []ports.IndexDocument{{ID: "ev-1", Vector: []float32{1, 0}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vector size 2")
}

func TestIndex_DropIndex(t *testing.T) {
	idx := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "user-1", []ports.IndexDocument{{ID: "ev-1", Vector: []float32{1, 0, 0}}}))
	require.NoError(t, idx.Upsert(ctx, "user-2", []ports.IndexDocument{{ID: "ev-1", Vector: []float32{1, 0, 0}}}))

	require.NoError(t, idx.DropIndex(ctx))
	assert.Equal(t, 0, idx.Count("user-1"))
	assert.Equal(t, 0, idx.Count("user-2"))
}
