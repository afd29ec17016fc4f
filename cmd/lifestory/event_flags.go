package main

import (
	"github.com/spf13/cobra"

	"github.com/messixieziyi/life-story/internal/domain/entities"
)

// eventFlags are the record fields shared by add and edit.
type eventFlags struct {
	title        string
	description  string
	eventType    string
	date         string
	importance   string
	emotions     []string
	emotionNote  string
	location     string
	lat          float64
	lng          float64
	participants string
	tags         []string
	category     string
	related      []string
}

func (f *eventFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Title")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "What happened")
	cmd.Flags().StringVar(&f.eventType, "type", "", "achievement, wish or event")
	cmd.Flags().StringVar(&f.date, "date", "", "Date (YYYY-MM-DD, YYYY-MM-DD HH:MM or RFC 3339)")
	cmd.Flags().StringVarP(&f.importance, "importance", "i", "", "major, minor or normal")
	cmd.Flags().StringSliceVarP(&f.emotions, "emotion", "e", nil, "Emotion value or label (repeatable)")
	cmd.Flags().StringVar(&f.emotionNote, "feeling", "", "Free-text note about how it felt")
	cmd.Flags().StringVar(&f.location, "location", "", "Place name")
	cmd.Flags().Float64Var(&f.lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&f.lng, "lng", 0, "Longitude")
	cmd.Flags().StringVar(&f.participants, "with", "", "Comma-separated participants")
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "Tag (repeatable)")
	cmd.Flags().StringVar(&f.category, "category", "", "Category")
	cmd.Flags().StringSliceVar(&f.related, "related", nil, "ID of a related record (repeatable)")
}

var eventFlagNames = []string{
	"title", "description", "type", "date", "importance", "emotion", "feeling",
	"location", "lat", "lng", "with", "tag", "category", "related",
}

// anyChanged reports whether the user set at least one record field.
func (f *eventFlags) anyChanged(cmd *cobra.Command) bool {
	for _, name := range eventFlagNames {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// apply copies the flags the user set onto d. Unset flags leave d unchanged,
// so edit keeps the stored values.
func (f *eventFlags) apply(cmd *cobra.Command, d *entities.Draft) {
	changed := cmd.Flags().Changed

	if changed("title") {
		d.Title = f.title
	}
	if changed("description") {
		d.Description = f.description
	}
	if changed("type") {
		d.Type = f.eventType
	}
	if changed("date") {
		d.Date = f.date
	}
	if changed("importance") {
		d.Importance = f.importance
	}
	if changed("emotion") {
		d.Emotions = f.emotions
	}
	if changed("feeling") {
		d.EmotionNote = f.emotionNote
	}
	if changed("location") {
		if f.location == "" {
			d.Location = nil
		} else {
			d.Location = &entities.LocationInput{Name: f.location}
		}
	}
	if d.Location != nil && (changed("lat") || changed("lng")) {
		lat, lng := f.lat, f.lng
		d.Location.Lat = &lat
		d.Location.Lng = &lng
	}
	if changed("with") {
		d.Participants = f.participants
	}
	if changed("tag") {
		d.Tags = f.tags
	}
	if changed("category") {
		d.Category = f.category
	}
	if changed("related") {
		d.RelatedEvents = f.related
	}
}
