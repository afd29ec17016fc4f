package handlers

import (
	"strings"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/services"
)

// EventRef is a short reference to another record.
type EventRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// EventView is the JSON shape transports return for a projected record.
type EventView struct {
	entities.LifeEvent
	DateLabel       string     `json:"dateLabel"`
	TypeLabel       string     `json:"typeLabel"`
	ImportanceLabel string     `json:"importanceLabel"`
	EmotionLabels   []string   `json:"emotionLabels"`
	Related         []EventRef `json:"related,omitempty"`
	Backlinks       []EventRef `json:"backlinks,omitempty"`
}

// NewEventView converts a projected record.
func NewEventView(ev *services.EnrichedEvent) EventView {
	return EventView{
		LifeEvent:       ev.LifeEvent,
		DateLabel:       ev.DateLabel,
		TypeLabel:       ev.TypeLabel,
		ImportanceLabel: ev.ImportanceLabel,
		EmotionLabels:   ev.EmotionLabels,
		Related:         refs(ev.Related),
		Backlinks:       refs(ev.Backlinks),
	}
}

// NewEventViews converts a projection, keeping its order.
func NewEventViews(events []services.EnrichedEvent) []EventView {
	out := make([]EventView, len(events))
	for i := range events {
		out[i] = NewEventView(&events[i])
	}
	return out
}

func refs(events []entities.LifeEvent) []EventRef {
	if len(events) == 0 {
		return nil
	}
	out := make([]EventRef, len(events))
	for i := range events {
		out[i] = EventRef{ID: events[i].ID, Title: events[i].Title}
	}
	return out
}

// EventInput is the JSON body accepted by transports to create or edit a record.
// Fields left nil are not changed on edit.
type EventInput struct {
	Title        *string                 `json:"title"`
	Description  *string                 `json:"description"`
	Type         *string                 `json:"type"`
	Date         any                     `json:"date"`
	Importance   *string                 `json:"importance"`
	Emotions     []string                `json:"emotions"`
	EmotionNote  *string                 `json:"emotionNote"`
	Location     *entities.LocationInput `json:"location"`
	Participants []string                `json:"participants"`
	Tags         []string                `json:"tags"`
	Category     *string                 `json:"category"`
	Related      []string                `json:"relatedEvents"`
}

// Apply copies the set fields of in onto d.
func (in *EventInput) Apply(d *entities.Draft) {
	setString(&d.Title, in.Title)
	setString(&d.Description, in.Description)
	setString(&d.Type, in.Type)
	setString(&d.Importance, in.Importance)
	setString(&d.EmotionNote, in.EmotionNote)
	setString(&d.Category, in.Category)
	if in.Date != nil {
		d.Date = in.Date
	}
	if in.Emotions != nil {
		d.Emotions = in.Emotions
	}
	if in.Location != nil {
		d.Location = in.Location
	}
	if in.Participants != nil {
		d.Participants = strings.Join(in.Participants, ",")
	}
	if in.Tags != nil {
		d.Tags = in.Tags
	}
	if in.Related != nil {
		d.RelatedEvents = in.Related
	}
}

// Draft returns a new-record draft from in.
func (in *EventInput) Draft() entities.Draft {
	var d entities.Draft
	in.Apply(&d)
	return d
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

