// Package relationaldb holds the row layout shared by the SQL record stores.
package relationaldb

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/messixieziyi/life-story/internal/domain/entities"
)

// EventColumns lists the life_events columns in Values/ScanTargets order.
var EventColumns = []string{
	"id", "user_id", "title", "description", "type", "date", "created_at", "updated_at",
	"importance", "emotions", "emotion_note", "location", "participants", "tags",
	"category", "media", "related_events",
}

// ColumnList returns EventColumns joined for a SELECT or INSERT.
func ColumnList() string {
	return strings.Join(EventColumns, ", ")
}

// EventRow is a LifeEvent flattened for a row store. Instants are unix
// milliseconds (0 for unset); list and object fields are JSON text.
type EventRow struct {
	ID            string
	UserID        string
	Title         string
	Description   string
	Type          string
	Date          int64
	CreatedAt     int64
	UpdatedAt     int64
	Importance    string
	Emotions      string
	EmotionNote   string
	Location      *string
	Participants  string
	Tags          string
	Category      string
	Media         *string
	RelatedEvents string
}

// NewEventRow flattens ev for userID.
func NewEventRow(userID string, ev *entities.LifeEvent) (*EventRow, error) {
	row := &EventRow{
		ID:          ev.ID,
		UserID:      userID,
		Title:       ev.Title,
		Description: ev.Description,
		Type:        string(ev.Type),
		Date:        int64(entities.NewUnixMillis(ev.Date)),
		CreatedAt:   int64(entities.NewUnixMillis(ev.CreatedAt)),
		UpdatedAt:   int64(entities.NewUnixMillis(ev.UpdatedAt)),
		Importance:  string(ev.Importance),
		EmotionNote: ev.EmotionNote,
		Category:    ev.Category,
	}

	var err error
	if row.Emotions, err = marshalList(ev.Emotions); err != nil {
		return nil, fmt.Errorf("marshaling emotions: %w", err)
	}
	if row.Participants, err = marshalList(ev.Participants); err != nil {
		return nil, fmt.Errorf("marshaling participants: %w", err)
	}
	if row.Tags, err = marshalList(ev.Tags); err != nil {
		return nil, fmt.Errorf("marshaling tags: %w", err)
	}
	if row.RelatedEvents, err = marshalList(ev.RelatedEvents); err != nil {
		return nil, fmt.Errorf("marshaling related events: %w", err)
	}
	if ev.Location != nil {
		data, err := json.Marshal(ev.Location)
		if err != nil {
			return nil, fmt.Errorf("marshaling location: %w", err)
		}
		s := string(data)
		row.Location = &s
	}
	if !ev.Media.IsEmpty() {
		data, err := json.Marshal(ev.Media)
		if err != nil {
			return nil, fmt.Errorf("marshaling media: %w", err)
		}
		s := string(data)
		row.Media = &s
	}
	return row, nil
}

// Values returns the column values in EventColumns order.
func (r *EventRow) Values() []any {
	return []any{
		r.ID, r.UserID, r.Title, r.Description, r.Type, r.Date, r.CreatedAt, r.UpdatedAt,
		r.Importance, r.Emotions, r.EmotionNote, r.Location, r.Participants, r.Tags,
		r.Category, r.Media, r.RelatedEvents,
	}
}

// ScanTargets returns pointers to the fields in EventColumns order.
func (r *EventRow) ScanTargets() []any {
	return []any{
		&r.ID, &r.UserID, &r.Title, &r.Description, &r.Type, &r.Date, &r.CreatedAt, &r.UpdatedAt,
		&r.Importance, &r.Emotions, &r.EmotionNote, &r.Location, &r.Participants, &r.Tags,
		&r.Category, &r.Media, &r.RelatedEvents,
	}
}

// Event rebuilds the LifeEvent. Timestamps go through entities.ToInstant.
func (r *EventRow) Event() (*entities.LifeEvent, error) {
	ev := &entities.LifeEvent{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Type:        entities.EventType(r.Type),
		Date:        instant(r.Date),
		CreatedAt:   instant(r.CreatedAt),
		UpdatedAt:   instant(r.UpdatedAt),
		Importance:  entities.Importance(r.Importance),
		EmotionNote: r.EmotionNote,
		Category:    r.Category,
	}

	if err := unmarshalList(r.Emotions, &ev.Emotions); err != nil {
		return nil, fmt.Errorf("event %s emotions: %w", r.ID, err)
	}
	if ev.Emotions == nil {
		ev.Emotions = []entities.Emotion{}
	}
	if err := unmarshalList(r.Participants, &ev.Participants); err != nil {
		return nil, fmt.Errorf("event %s participants: %w", r.ID, err)
	}
	if err := unmarshalList(r.Tags, &ev.Tags); err != nil {
		return nil, fmt.Errorf("event %s tags: %w", r.ID, err)
	}
	if err := unmarshalList(r.RelatedEvents, &ev.RelatedEvents); err != nil {
		return nil, fmt.Errorf("event %s related events: %w", r.ID, err)
	}
	if r.Location != nil && *r.Location != "" {
		var loc entities.Location
		if err := json.Unmarshal([]byte(*r.Location), &loc); err != nil {
			return nil, fmt.Errorf("event %s location: %w", r.ID, err)
		}
		ev.Location = &loc
	}
	if r.Media != nil && *r.Media != "" {
		var media entities.Media
		if err := json.Unmarshal([]byte(*r.Media), &media); err != nil {
			return nil, fmt.Errorf("event %s media: %w", r.ID, err)
		}
		ev.Media = &media
	}
	return ev, nil
}

func instant(ms int64) time.Time {
	t, _ := entities.ToInstant(entities.UnixMillis(ms))
	return t
}

func marshalList[T any](items []T) (string, error) {
	if len(items) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalList[T any](data string, out *[]T) error {
	if data == "" || data == "[]" || data == "null" {
		return nil
	}
	return json.Unmarshal([]byte(data), out)
}
