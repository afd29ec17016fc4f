package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/mocks"
	"github.com/messixieziyi/life-story/internal/domain/ports"
)

func TestEventText(t *testing.T) {
	ev := &entities.LifeEvent{
		Title:        "看日出",
		Type:         entities.EventTypeEvent,
		Description:  "凌晨四点出发",
		Emotions:     []entities.Emotion{entities.EmotionHappy},
		Location:     &entities.Location{Name: "泰山"},
		Participants: []string{"小王", "小李"},
		Tags:         []string{"旅行"},
		Category:     "生活",
	}

	assert.Equal(t, "看日出\n事件\n凌晨四点出发\n开心\n泰山\n小王 小李\n旅行\n生活", EventText(ev))
	assert.Equal(t, "x", EventText(&entities.LifeEvent{Title: "x"}))
}

func TestRecallService_IndexAndRemove(t *testing.T) {
	ctx := context.Background()
	embedder := &mocks.Embedder{EmbeddingResult: []float32{0.1, 0.2}}
	index := mocks.NewEventIndex()
	service := NewRecallService(embedder, index, "u1", nil)

	require.NoError(t, service.IndexEvent(ctx, &entities.LifeEvent{ID: "ev-1", Title: "a"}))
	require.Contains(t, index.Docs["u1"], "ev-1")
	assert.Equal(t, "a", index.Docs["u1"]["ev-1"].Text)

	require.NoError(t, service.RemoveEvent(ctx, "ev-1"))
	assert.NotContains(t, index.Docs["u1"], "ev-1")

	embedder.Err = errors.New("no key")
	assert.ErrorIs(t, service.IndexEvent(ctx, &entities.LifeEvent{ID: "ev-2", Title: "b"}), embedder.Err)
}

func TestRecallService_Reindex(t *testing.T) {
	embedder := &mocks.Embedder{EmbeddingResult: []float32{1}, Dim: 3}
	index := mocks.NewEventIndex()
	service := NewRecallService(embedder, index, "u1", nil)

	all := make([]entities.LifeEvent, 70)
	for i := range all {
		all[i] = entities.LifeEvent{ID: fmt.Sprintf("ev-%d", i), Title: "t"}
	}

	n, err := service.Reindex(context.Background(), all)

	require.NoError(t, err)
	assert.Equal(t, 70, n)
	assert.Equal(t, uint64(3), index.LastVectorSize)
	assert.Equal(t, 2, embedder.EmbedBatchCallCount)
	assert.Len(t, index.Docs["u1"], 70)
}

func TestRecallService_ReindexEnsureFails(t *testing.T) {
	index := mocks.NewEventIndex()
	index.EnsureErr = errors.New("unreachable")
	service := NewRecallService(&mocks.Embedder{}, index, "u1", nil)

	_, err := service.Reindex(context.Background(), []entities.LifeEvent{{ID: "a"}})
	assert.ErrorIs(t, err, index.EnsureErr)
}

func TestRecallService_Search(t *testing.T) {
	embedder := &mocks.Embedder{EmbeddingResult: []float32{0.5}}
	index := mocks.NewEventIndex()
	index.Hits = []ports.IndexHit{{ID: "b", Score: 0.9}, {ID: "deleted", Score: 0.8}, {ID: "a", Score: 0.5}}
	service := NewRecallService(embedder, index, "u1", nil)
	all := []entities.LifeEvent{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}

	hits, err := service.Search(context.Background(), " 日出 ", 0, all)

	require.NoError(t, err)
	assert.Equal(t, DefaultRecallLimit, index.LastSearchLimit)
	assert.Equal(t, []string{"日出"}, embedder.LastTexts)
	require.Len(t, hits, 2)
	assert.Equal(t, "B", hits[0].Event.Title)
	assert.InDelta(t, 0.9, hits[0].Score, 1e-6)
	assert.Equal(t, "A", hits[1].Event.Title)
}

func TestRecallService_SearchBlankQuery(t *testing.T) {
	embedder := &mocks.Embedder{}
	service := NewRecallService(embedder, mocks.NewEventIndex(), "u1", nil)

	hits, err := service.Search(context.Background(), "  ", 3, nil)

	require.NoError(t, err)
	assert.Nil(t, hits)
	assert.Zero(t, embedder.EmbedCallCount)
}
