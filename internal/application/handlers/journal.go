package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/services"
)

// JournalHandler handles record operations for the signed-in user.
type JournalHandler struct {
	journal *services.JournalService
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(journal *services.JournalService) *JournalHandler {
	return &JournalHandler{
		journal: journal,
	}
}

// TimelineFilter narrows a timeline. Zero values match everything.
type TimelineFilter struct {
	Type    entities.EventType
	Emotion entities.Emotion
	Year    int
	Tag     string
	Limit   int
}

func (f TimelineFilter) matches(ev *services.EnrichedEvent) bool {
	if f.Type != "" && ev.Type != f.Type {
		return false
	}
	if f.Emotion != "" && !ev.HasEmotion(f.Emotion) {
		return false
	}
	if f.Year != 0 && (!ev.HasDate || ev.At.Year() != f.Year) {
		return false
	}
	if f.Tag != "" {
		found := false
		for _, tag := range ev.Tags {
			if strings.EqualFold(tag, f.Tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// TimelineResult contains a filtered projection.
type TimelineResult struct {
	Events []services.EnrichedEvent `json:"events"`
	Groups []services.TimelineGroup `json:"-"`
	Total  int                      `json:"total"`
}

// HandleLoad refreshes the snapshot from the store and returns the record count.
func (h *JournalHandler) HandleLoad(ctx context.Context) (int, error) {
	events, err := h.journal.Refresh(ctx)
	if err != nil {
		return len(events), fmt.Errorf("loading records: %w", err)
	}
	return len(events), nil
}

// HandleTimeline returns the projected timeline, filtered and grouped by year.
func (h *JournalHandler) HandleTimeline(filter TimelineFilter) *TimelineResult {
	projection := h.journal.Timeline()

	events := make([]services.EnrichedEvent, 0, len(projection))
	for i := range projection {
		if filter.matches(&projection[i]) {
			events = append(events, projection[i])
		}
	}
	total := len(events)
	if filter.Limit > 0 && len(events) > filter.Limit {
		events = events[:filter.Limit]
	}

	return &TimelineResult{
		Events: events,
		Groups: services.GroupByYear(events),
		Total:  total,
	}
}

// HandleGet returns one projected record.
func (h *JournalHandler) HandleGet(id string) (*services.EnrichedEvent, error) {
	projection := h.journal.Timeline()
	i := services.Locate(projection, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", services.ErrEventNotFound, id)
	}
	return &projection[i], nil
}

// HandleAdd validates and saves a new record.
func (h *JournalHandler) HandleAdd(ctx context.Context, draft entities.Draft) (*entities.LifeEvent, error) {
	return h.journal.Create(ctx, draft)
}

// HandleEdit applies fn to the record's current draft and saves it.
func (h *JournalHandler) HandleEdit(ctx context.Context, id string, fn func(*entities.Draft)) (*entities.LifeEvent, error) {
	return h.journal.Edit(ctx, id, fn)
}

// HandleDelete removes a record.
func (h *JournalHandler) HandleDelete(ctx context.Context, id string) error {
	return h.journal.Delete(ctx, id)
}

// HandleStats summarizes the current snapshot.
func (h *JournalHandler) HandleStats() services.Stats {
	return h.journal.Stats()
}

// HandleToggleEmotion adds the emotion to the record, or removes it if present.
// value may be a table value or a display label.
func (h *JournalHandler) HandleToggleEmotion(ctx context.Context, id, value string) (*entities.LifeEvent, error) {
	emotion, ok := entities.ParseEmotion(value)
	if !ok {
		return nil, &entities.ValidationError{
			Code:    entities.CodeUnknownEmotion,
			Field:   "emotions",
			Value:   value,
			Message: fmt.Sprintf("未知的情绪: %s", value),
		}
	}

	return h.journal.Edit(ctx, id, func(d *entities.Draft) {
		current := make([]entities.Emotion, len(d.Emotions))
		for i, e := range d.Emotions {
			current[i] = entities.Emotion(e)
		}
		toggled := services.ToggleEmotion(current, emotion)
		d.Emotions = make([]string, len(toggled))
		for i, e := range toggled {
			d.Emotions[i] = string(e)
		}
	})
}
