package qdrant

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	pb "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/messixieziyi/life-story/internal/domain/ports"
	"github.com/messixieziyi/life-story/internal/infrastructure/config"
)

func TestPointID(t *testing.T) {
	a := pointID("user-1", "ev-1")
	b := pointID("user-1", "ev-1")
	c := pointID("user-2", "ev-1")

	assert.Equal(t, a.GetUuid(), b.GetUuid())
	assert.NotEqual(t, a.GetUuid(), c.GetUuid())
	assert.Len(t, a.GetUuid(), 36)
}

func TestUserFilter(t *testing.T) {
	f := userFilter("user-1")
	require.Len(t, f.Must, 1)

	field := f.Must[0].GetField()
	require.NotNil(t, field)
	assert.Equal(t, payloadUserID, field.Key)
	assert.Equal(t, "user-1", field.Match.GetKeyword())
}

func TestScoredPointsToHits(t *testing.T) {
	points := []*pb.ScoredPoint{
		{
			Score: 0.9,
			Payload: map[string]*pb.Value{
				payloadEventID: {Kind: &pb.Value_StringValue{StringValue: "ev-1"}},
			},
		},
		{
			Score:   0.5,
			Payload: map[string]*pb.Value{},
		},
	}

	hits := scoredPointsToHits(points)
	assert.Equal(t, []ports.IndexHit{{ID: "ev-1", Score: 0.9}}, hits)
}

func TestGetStringValue(t *testing.T) {
	payload := map[string]*pb.Value{
		"text": {Kind: &pb.Value_StringValue{StringValue: "海边"}},
	}
	assert.Equal(t, "海边", getStringValue(payload, "text"))
	assert.Empty(t, getStringValue(payload, "missing"))
}

// setupTestIndex requires a running Qdrant. Runs only with INTEGRATION_TEST=1.
func setupTestIndex(t *testing.T) *Index {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "1" {
		t.Skip("skipping integration test (set INTEGRATION_TEST=1 to run)")
	}

	cfg := config.Default().Recall.Qdrant
	cfg.Collection = "life_events_test_" + strconv.FormatInt(time.Now().UnixNano(), 10)
	idx, err := NewIndex(cfg)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, idx.EnsureIndex(ctx, 4))
	t.Cleanup(func() {
		_ = idx.DropIndex(context.Background())
		idx.Close()
	})
	return idx
}

func TestIndex_UpsertSearchDelete(t *testing.T) {
	idx := setupTestIndex(t)
	ctx := context.Background()

	docs := []ports.IndexDocument{
		{ID: "ev-1", Text: "海边", Vector: []float32{1, 0, 0, 0}},
		{ID: "ev-2", Text: "山里", Vector: []float32{0, 1, 0, 0}},
	}
	require.NoError(t, idx.Upsert(ctx, "user-1", docs))
	require.NoError(t, idx.Upsert(ctx, "user-2", docs[:1]))

	hits, err := idx.Search(ctx, "user-1", []float32{1, 0, 0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "ev-1", hits[0].ID)

	require.NoError(t, idx.Delete(ctx, "user-1", []string{"ev-1"}))
	count, err := idx.Count(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	count, err = idx.Count(ctx, "user-2")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}
