package entities

import (
	"slices"
	"strings"
)

// LocationInput is the raw location entered in a form or import file.
type LocationInput struct {
	Name string   `json:"name"`
	Lat  *float64 `json:"lat,omitempty"`
	Lng  *float64 `json:"lng,omitempty"`
}

// Draft is unnormalized event input. Only Title is required.
type Draft struct {
	Title       string
	Description string
	Type        string
	// Date accepts anything ToInstant understands. nil means "now".
	Date          any
	Importance    string
	Emotions      []string
	EmotionNote   string
	Location      *LocationInput
	Participants  string // comma-separated
	Tags          []string
	Category      string
	Media         *Media
	RelatedEvents []string
}

// DraftFromEvent prefills an edit form from a stored event.
func DraftFromEvent(e *LifeEvent) Draft {
	d := Draft{
		Title:         e.Title,
		Description:   e.Description,
		Type:          string(e.Type),
		Importance:    string(e.Importance),
		EmotionNote:   e.EmotionNote,
		Participants:  strings.Join(e.Participants, ", "),
		Tags:          slices.Clone(e.Tags),
		Category:      e.Category,
		RelatedEvents: slices.Clone(e.RelatedEvents),
	}
	if t, ok := ToInstant(e.Date); ok {
		d.Date = t
	}
	for _, em := range e.Emotions {
		d.Emotions = append(d.Emotions, string(em))
	}
	if e.Location != nil {
		d.Location = &LocationInput{Name: e.Location.Name}
		if c := e.Location.Coordinates; c != nil {
			lat, lng := c.Lat, c.Lng
			d.Location.Lat = &lat
			d.Location.Lng = &lng
		}
	}
	if !e.Media.IsEmpty() {
		clone := e.Clone()
		d.Media = clone.Media
	}
	return d
}
