package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/services"
)

func timelineFixture() []entities.LifeEvent {
	return []entities.LifeEvent{
		{ID: "a", Title: "高考", Type: entities.EventTypeAchievement, Date: day(2015, 6, 8), Emotions: []entities.Emotion{entities.EmotionProud}, Tags: []string{"学习"}},
		{ID: "b", Title: "去冰岛看极光", Type: entities.EventTypeWish, Date: day(2024, 1, 5)},
		{ID: "c", Title: "搬家", Type: entities.EventTypeEvent, Date: day(2024, 3, 1), Emotions: []entities.Emotion{entities.EmotionExcited}, Tags: []string{"家庭"}},
	}
}

func TestJournalHandler_HandleTimeline(t *testing.T) {
	journal, _ := setupJournal(t, timelineFixture()...)
	handler := NewJournalHandler(journal)

	tests := []struct {
		name   string
		filter TimelineFilter
		want   []string
		total  int
	}{
		{name: "all, newest first", filter: TimelineFilter{}, want: []string{"c", "b", "a"}, total: 3},
		{name: "by type", filter: TimelineFilter{Type: entities.EventTypeWish}, want: []string{"b"}, total: 1},
		{name: "by emotion", filter: TimelineFilter{Emotion: entities.EmotionProud}, want: []string{"a"}, total: 1},
		{name: "by year", filter: TimelineFilter{Year: 2024}, want: []string{"c", "b"}, total: 2},
		{name: "by tag", filter: TimelineFilter{Tag: "家庭"}, want: []string{"c"}, total: 1},
		{name: "limit", filter: TimelineFilter{Limit: 1}, want: []string{"c"}, total: 3},
		{name: "no match", filter: TimelineFilter{Year: 1999}, want: []string{}, total: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := handler.HandleTimeline(tt.filter)
			ids := make([]string, 0, len(result.Events))
			for _, ev := range result.Events {
				ids = append(ids, ev.ID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, tt.total, result.Total)
		})
	}
}

func TestJournalHandler_HandleTimeline_Groups(t *testing.T) {
	journal, _ := setupJournal(t, timelineFixture()...)

	result := NewJournalHandler(journal).HandleTimeline(TimelineFilter{})
	require.Len(t, result.Groups, 2)
	assert.Equal(t, 2024, result.Groups[0].Year)
	assert.Len(t, result.Groups[0].Events, 2)
	assert.Equal(t, 2015, result.Groups[1].Year)
}

func TestJournalHandler_HandleAddAndGet(t *testing.T) {
	journal, store := setupJournal(t)
	handler := NewJournalHandler(journal)

	saved, err := handler.HandleAdd(context.Background(), entities.Draft{
		Title:        "  第一次登山  ",
		Participants: "阿明, ,小红",
		Emotions:     []string{"开心"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ev-1", saved.ID)
	assert.Equal(t, "第一次登山", saved.Title)
	assert.Equal(t, []string{"阿明", "小红"}, saved.Participants)
	assert.Equal(t, 1, store.CreateCallCount)

	got, err := handler.HandleGet("ev-1")
	require.NoError(t, err)
	assert.Equal(t, "第一次登山", got.Title)
	assert.Equal(t, []string{"开心"}, got.EmotionLabels)
}

func TestJournalHandler_HandleAdd_EmptyTitle(t *testing.T) {
	journal, store := setupJournal(t)

	_, err := NewJournalHandler(journal).HandleAdd(context.Background(), entities.Draft{Title: "   "})
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrEmptyTitle)
	assert.Equal(t, 0, store.CreateCallCount)
}

func TestJournalHandler_HandleGet_NotFound(t *testing.T) {
	journal, _ := setupJournal(t)

	_, err := NewJournalHandler(journal).HandleGet("nope")
	assert.ErrorIs(t, err, services.ErrEventNotFound)
}

func TestJournalHandler_HandleEditAndDelete(t *testing.T) {
	journal, store := setupJournal(t, timelineFixture()...)
	handler := NewJournalHandler(journal)
	ctx := context.Background()

	edited, err := handler.HandleEdit(ctx, "b", func(d *entities.Draft) {
		d.Type = "achievement"
		d.Description = "终于去了"
	})
	require.NoError(t, err)
	assert.Equal(t, entities.EventTypeAchievement, edited.Type)
	assert.Equal(t, "去冰岛看极光", edited.Title)

	require.NoError(t, handler.HandleDelete(ctx, "a"))
	assert.Len(t, store.Events, 2)

	err = handler.HandleDelete(ctx, "a")
	assert.ErrorIs(t, err, services.ErrEventNotFound)
}

func TestJournalHandler_HandleToggleEmotion(t *testing.T) {
	journal, _ := setupJournal(t, timelineFixture()...)
	handler := NewJournalHandler(journal)
	ctx := context.Background()

	ev, err := handler.HandleToggleEmotion(ctx, "c", "grateful")
	require.NoError(t, err)
	assert.Equal(t, []entities.Emotion{entities.EmotionExcited, entities.EmotionGrateful}, ev.Emotions)

	ev, err = handler.HandleToggleEmotion(ctx, "c", "感激")
	require.NoError(t, err)
	assert.Equal(t, []entities.Emotion{entities.EmotionExcited}, ev.Emotions)

	_, err = handler.HandleToggleEmotion(ctx, "c", "hangry")
	assert.ErrorIs(t, err, entities.ErrUnknownEmotion)
}

func TestJournalHandler_HandleLoad_KeepsSnapshotOnError(t *testing.T) {
	journal, store := setupJournal(t, timelineFixture()...)
	handler := NewJournalHandler(journal)

	store.ListErr = errors.New("offline")
	n, err := handler.HandleLoad(context.Background())
	require.Error(t, err)
	var storeErr *entities.StoreError
	assert.ErrorAs(t, err, &storeErr)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, handler.HandleStats().Total)
}

func TestJournalHandler_HandleStats(t *testing.T) {
	journal, _ := setupJournal(t, timelineFixture()...)

	stats := NewJournalHandler(journal).HandleStats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Achievements)
	assert.Equal(t, 1, stats.Wishes)
}
