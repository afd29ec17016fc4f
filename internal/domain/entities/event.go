// Package entities contains core domain data structures.
package entities

import (
	"slices"
	"time"
)

// EventType classifies a life event.
type EventType string

const (
	EventTypeAchievement EventType = "achievement"
	EventTypeWish        EventType = "wish"
	EventTypeEvent       EventType = "event"
)

// EventTypes lists the accepted event types in display order.
var EventTypes = []EventType{EventTypeAchievement, EventTypeWish, EventTypeEvent}

// IsValid reports whether t is one of the known event types.
func (t EventType) IsValid() bool {
	return slices.Contains(EventTypes, t)
}

// Label returns the display label. Unknown or empty types render as a plain event.
func (t EventType) Label() string {
	switch t {
	case EventTypeAchievement:
		return "成就"
	case EventTypeWish:
		return "愿望"
	default:
		return "事件"
	}
}

// Importance ranks how significant an event was.
type Importance string

const (
	ImportanceMajor  Importance = "major"
	ImportanceMinor  Importance = "minor"
	ImportanceNormal Importance = "normal"
)

// ImportanceLevels lists the accepted importance levels in display order.
var ImportanceLevels = []Importance{ImportanceMajor, ImportanceMinor, ImportanceNormal}

// IsValid reports whether i is one of the known importance levels.
func (i Importance) IsValid() bool {
	return slices.Contains(ImportanceLevels, i)
}

// Label returns the display label, defaulting to the normal label.
func (i Importance) Label() string {
	switch i {
	case ImportanceMajor:
		return "大事"
	case ImportanceMinor:
		return "小事"
	default:
		return "普通"
	}
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location is where an event happened. A nil *Location means no location.
type Location struct {
	Name        string       `json:"name"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Media holds attachment URLs.
type Media struct {
	Images []string `json:"images,omitempty"`
	Videos []string `json:"videos,omitempty"`
	Audio  []string `json:"audio,omitempty"`
}

// IsEmpty reports whether m carries no attachments.
func (m *Media) IsEmpty() bool {
	return m == nil || len(m.Images)+len(m.Videos)+len(m.Audio) == 0
}

// LifeEvent is a single journal entry.
type LifeEvent struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Type          EventType  `json:"type"`
	Date          time.Time  `json:"date"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	Importance    Importance `json:"importance"`
	Emotions      []Emotion  `json:"emotions"`
	EmotionNote   string     `json:"emotionNote,omitempty"`
	Location      *Location  `json:"location,omitempty"`
	Participants  []string   `json:"participants"`
	Tags          []string   `json:"tags,omitempty"`
	Category      string     `json:"category,omitempty"`
	Media         *Media     `json:"media,omitempty"`
	RelatedEvents []string   `json:"relatedEvents,omitempty"`
}

// ResolvedDate returns the instant used for ordering: Date when set,
// otherwise CreatedAt. ok is false when neither is usable.
func (e *LifeEvent) ResolvedDate() (t time.Time, ok bool) {
	if !e.Date.IsZero() {
		return e.Date, true
	}
	if !e.CreatedAt.IsZero() {
		return e.CreatedAt, true
	}
	return time.Time{}, false
}

// HasEmotion reports whether e carries the given emotion.
func (e *LifeEvent) HasEmotion(emotion Emotion) bool {
	return slices.Contains(e.Emotions, emotion)
}

// RefersTo reports whether e lists id among its related events.
func (e *LifeEvent) RefersTo(id string) bool {
	return slices.Contains(e.RelatedEvents, id)
}

// Clone returns a deep copy of e.
func (e *LifeEvent) Clone() LifeEvent {
	c := *e
	c.Emotions = slices.Clone(e.Emotions)
	c.Participants = slices.Clone(e.Participants)
	c.Tags = slices.Clone(e.Tags)
	c.RelatedEvents = slices.Clone(e.RelatedEvents)
	if e.Location != nil {
		loc := *e.Location
		if loc.Coordinates != nil {
			coords := *loc.Coordinates
			loc.Coordinates = &coords
		}
		c.Location = &loc
	}
	if e.Media != nil {
		c.Media = &Media{
			Images: slices.Clone(e.Media.Images),
			Videos: slices.Clone(e.Media.Videos),
			Audio:  slices.Clone(e.Media.Audio),
		}
	}
	return c
}
