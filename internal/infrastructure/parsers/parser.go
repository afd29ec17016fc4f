// Package parsers provides parsers for importing life events from various formats.
package parsers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/messixieziyi/life-story/internal/domain/entities"
)

// RawEvent represents an event parsed from an external source before validation.
type RawEvent struct {
	ID            string          `json:"id,omitempty"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	Type          string          `json:"type,omitempty"`
	Date          RawDate         `json:"date,omitempty"`
	Importance    string          `json:"importance,omitempty"`
	Emotions      []string        `json:"emotions,omitempty"`
	EmotionNote   string          `json:"emotionNote,omitempty"`
	Location      *RawLocation    `json:"location,omitempty"`
	Participants  []string        `json:"participants,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
	Category      string          `json:"category,omitempty"`
	Media         *entities.Media `json:"media,omitempty"`
	RelatedEvents []string        `json:"relatedEvents,omitempty"`
	LineNum       int             `json:"-"` // Line number in source file (set by parser)
}

// RawLocation mirrors the exported location shape.
type RawLocation struct {
	Name        string                `json:"name"`
	Coordinates *entities.Coordinates `json:"coordinates,omitempty"`
}

// RawDate holds a date exactly as found in the source: a string, unix
// milliseconds, or a {"seconds","nanoseconds"} document timestamp.
// Value is nil when the field was absent.
type RawDate struct {
	Value any
}

// UnmarshalJSON accepts the three supported date encodings.
func (d *RawDate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		d.Value = nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		d.Value = s
	case len(data) > 0 && data[0] == '{':
		var ts entities.Timestamp
		if err := json.Unmarshal(data, &ts); err != nil {
			return fmt.Errorf("decoding timestamp: %w", err)
		}
		d.Value = ts
	default:
		var ms int64
		if err := json.Unmarshal(data, &ms); err != nil {
			return fmt.Errorf("decoding date %s: %w", data, err)
		}
		d.Value = ms
	}
	return nil
}

// Draft converts the raw event into validator input.
func (r *RawEvent) Draft() entities.Draft {
	d := entities.Draft{
		Title:         r.Title,
		Description:   r.Description,
		Type:          r.Type,
		Date:          r.Date.Value,
		Importance:    r.Importance,
		Emotions:      r.Emotions,
		EmotionNote:   r.EmotionNote,
		Participants:  strings.Join(r.Participants, ","),
		Tags:          r.Tags,
		Category:      r.Category,
		Media:         r.Media,
		RelatedEvents: r.RelatedEvents,
	}
	if r.Location != nil {
		d.Location = &entities.LocationInput{Name: r.Location.Name}
		if c := r.Location.Coordinates; c != nil {
			lat, lng := c.Lat, c.Lng
			d.Location.Lat = &lat
			d.Location.Lng = &lng
		}
	}
	return d
}

// Parser defines the interface for parsing events from various formats.
type Parser interface {
	Parse(r io.Reader) ([]RawEvent, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return &JSONParser{}
	case ".csv":
		return &CSVParser{}
	default:
		return nil
	}
}
