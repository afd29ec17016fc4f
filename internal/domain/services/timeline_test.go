package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/messixieziyi/life-story/internal/domain/entities"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.Local)
}

func TestProject_OrderingWithCreatedAtFallback(t *testing.T) {
	all := []entities.LifeEvent{
		{ID: "old", Date: day(2020, time.January, 1)},
		{ID: "new", Date: day(2024, time.June, 1)},
		{ID: "undated", CreatedAt: day(2022, time.January, 1)},
	}

	got := Project(all)

	require.Len(t, got, 3)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "undated", got[1].ID)
	assert.Equal(t, "old", got[2].ID)
	assert.Equal(t, "2022年01月01日", got[1].DateLabel)
	// input untouched
	assert.Equal(t, "old", all[0].ID)
}

func TestProject_TiesAndUnresolvable(t *testing.T) {
	same := day(2023, time.May, 5)
	all := []entities.LifeEvent{
		{ID: "nothing"},
		{ID: "first", Date: same},
		{ID: "second", Date: same},
	}

	got := Project(all)

	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "second", got[1].ID)
	assert.Equal(t, "nothing", got[2].ID)
	assert.False(t, got[2].HasDate)
	assert.Equal(t, entities.MissingDateLabel, got[2].DateLabel)
}

func TestProject_Labels(t *testing.T) {
	all := []entities.LifeEvent{
		{
			ID:            "a",
			Date:          day(2024, time.January, 2),
			Type:          entities.EventTypeAchievement,
			Emotions:      []entities.Emotion{entities.EmotionHappy, "mystery"},
			RelatedEvents: []string{"b", "gone"},
		},
		{ID: "b", Date: day(2023, time.January, 2)},
	}

	got := Project(all)

	require.Len(t, got, 2)
	a := got[0]
	assert.Equal(t, "event-a", a.Anchor)
	assert.Equal(t, "成就", a.TypeLabel)
	assert.Equal(t, "普通", a.ImportanceLabel)
	assert.Equal(t, []string{"开心", "mystery"}, a.EmotionLabels)
	assert.Equal(t, []string{"b"}, eventIDs(a.Related))

	b := got[1]
	assert.Equal(t, []string{"a"}, eventIDs(b.Backlinks))
}

func TestProject_Deterministic(t *testing.T) {
	all := GenerateSample(testNow)
	events := make([]entities.LifeEvent, 0, len(all))
	for i, sd := range all {
		ev, err := Normalize(sd.Draft, nil, testNow)
		require.NoError(t, err)
		ev.ID = string(rune('a' + i))
		events = append(events, *ev)
	}

	assert.Equal(t, Project(events), Project(events))
}

func TestGroupByYear(t *testing.T) {
	projection := Project([]entities.LifeEvent{
		{ID: "a", Date: day(2024, time.March, 1)},
		{ID: "b", Date: day(2023, time.March, 1)},
		{ID: "c", Date: day(2024, time.January, 1)},
		{ID: "d"},
	})

	groups := GroupByYear(projection)

	require.Len(t, groups, 3)
	assert.Equal(t, 2024, groups[0].Year)
	assert.Equal(t, "2024年", groups[0].Label)
	assert.Len(t, groups[0].Events, 2)
	assert.Equal(t, 2023, groups[1].Year)
	assert.Equal(t, 0, groups[2].Year)
	assert.Equal(t, entities.MissingDateLabel, groups[2].Label)
}

func TestLocate(t *testing.T) {
	projection := Project([]entities.LifeEvent{
		{ID: "a", Date: day(2020, time.March, 1)},
		{ID: "b", Date: day(2021, time.March, 1)},
	})

	assert.Equal(t, 0, Locate(projection, "b"))
	assert.Equal(t, 1, Locate(projection, "a"))
	assert.Equal(t, -1, Locate(projection, "zzz"))
}
