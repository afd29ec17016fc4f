package services

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/messixieziyi/life-story/internal/domain/entities"
)

// Normalize validates a draft and produces the record to persist.
// With existing == nil it builds a new record (the store assigns the id);
// otherwise it carries over existing's id and creation time. An edit without
// a date keeps existing's date, undated records stay undated, and emotions
// already stored on existing pass even when they are not in the table.
func Normalize(in entities.Draft, existing *entities.LifeEvent, now time.Time) (*entities.LifeEvent, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, &entities.ValidationError{
			Code:    entities.CodeEmptyTitle,
			Field:   "title",
			Message: "请输入标题",
		}
	}

	eventType, err := normalizeType(in.Type)
	if err != nil {
		return nil, err
	}

	importance, err := normalizeImportance(in.Importance)
	if err != nil {
		return nil, err
	}

	fallback := now
	var stored []entities.Emotion
	if existing != nil {
		fallback = existing.Date
		stored = existing.Emotions
	}

	date, err := normalizeDate(in.Date, fallback)
	if err != nil {
		return nil, err
	}

	emotions, err := normalizeEmotions(in.Emotions, stored)
	if err != nil {
		return nil, err
	}

	location, err := normalizeLocation(in.Location)
	if err != nil {
		return nil, err
	}

	event := &entities.LifeEvent{
		Title:         title,
		Description:   strings.TrimSpace(in.Description),
		Type:          eventType,
		Date:          date,
		Importance:    importance,
		Emotions:      emotions,
		EmotionNote:   strings.TrimSpace(in.EmotionNote),
		Location:      location,
		Participants:  SplitParticipants(in.Participants),
		Tags:          cleanList(in.Tags),
		Category:      strings.TrimSpace(in.Category),
		Media:         normalizeMedia(in.Media),
		RelatedEvents: cleanList(in.RelatedEvents),
		UpdatedAt:     now,
	}

	if existing != nil {
		event.ID = existing.ID
		event.CreatedAt = existing.CreatedAt
		if event.CreatedAt.IsZero() {
			event.CreatedAt = now
		}
		// an event never relates to itself
		event.RelatedEvents = slices.DeleteFunc(event.RelatedEvents, func(id string) bool {
			return id == existing.ID
		})
		if len(event.RelatedEvents) == 0 {
			event.RelatedEvents = nil
		}
	} else {
		event.CreatedAt = now
	}

	return event, nil
}

// SplitParticipants turns comma-separated input into a list, trimming entries
// and dropping empty ones. Both ASCII and full-width commas separate.
func SplitParticipants(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '，'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// ToggleEmotion flips the presence of e in set and returns the new set.
// The input slice is not modified.
func ToggleEmotion(set []entities.Emotion, e entities.Emotion) []entities.Emotion {
	if slices.Contains(set, e) {
		return slices.DeleteFunc(slices.Clone(set), func(x entities.Emotion) bool { return x == e })
	}
	return append(slices.Clone(set), e)
}

// ToggleRelated flips the presence of id in ids and returns the new list.
// No back-link is written on the referenced record.
func ToggleRelated(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return slices.DeleteFunc(slices.Clone(ids), func(x string) bool { return x == id })
	}
	return append(slices.Clone(ids), id)
}

func normalizeType(raw string) (entities.EventType, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return entities.EventTypeEvent, nil
	}
	t := entities.EventType(raw)
	if !t.IsValid() {
		return "", &entities.ValidationError{
			Code:    entities.CodeInvalidType,
			Field:   "type",
			Value:   raw,
			Message: fmt.Sprintf("无效的事件类型: %s", raw),
		}
	}
	return t, nil
}

func normalizeImportance(raw string) (entities.Importance, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return entities.ImportanceNormal, nil
	}
	i := entities.Importance(raw)
	if !i.IsValid() {
		return "", &entities.ValidationError{
			Code:    entities.CodeInvalidImportance,
			Field:   "importance",
			Value:   raw,
			Message: fmt.Sprintf("无效的重要性: %s", raw),
		}
	}
	return i, nil
}

func normalizeDate(raw any, fallback time.Time) (time.Time, error) {
	if raw == nil {
		return fallback, nil
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return fallback, nil
	}
	t, ok := entities.ToInstant(raw)
	if !ok {
		return time.Time{}, &entities.ValidationError{
			Code:    entities.CodeInvalidDate,
			Field:   "date",
			Value:   fmt.Sprint(raw),
			Message: "日期格式不正确",
		}
	}
	return t, nil
}

// normalizeEmotions parses raw against the table. Values found in stored are
// kept verbatim so an edit never fails on data it did not touch.
func normalizeEmotions(raw []string, stored []entities.Emotion) ([]entities.Emotion, error) {
	out := make([]entities.Emotion, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r) == "" {
			continue
		}
		e, ok := entities.ParseEmotion(r)
		if !ok && slices.Contains(stored, entities.Emotion(r)) {
			e, ok = entities.Emotion(r), true
		}
		if !ok {
			return nil, &entities.ValidationError{
				Code:    entities.CodeUnknownEmotion,
				Field:   "emotions",
				Value:   r,
				Message: fmt.Sprintf("未知的情绪: %s", r),
			}
		}
		if !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func normalizeLocation(in *entities.LocationInput) (*entities.Location, error) {
	if in == nil {
		return nil, nil
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, nil
	}

	loc := &entities.Location{Name: name}
	if in.Lat == nil && in.Lng == nil {
		return loc, nil
	}
	if in.Lat == nil || in.Lng == nil ||
		*in.Lat < -90 || *in.Lat > 90 || *in.Lng < -180 || *in.Lng > 180 {
		return nil, &entities.ValidationError{
			Code:    entities.CodeInvalidCoordinates,
			Field:   "location.coordinates",
			Message: "坐标无效",
		}
	}
	loc.Coordinates = &entities.Coordinates{Lat: *in.Lat, Lng: *in.Lng}
	return loc, nil
}

func normalizeMedia(in *entities.Media) *entities.Media {
	if in.IsEmpty() {
		return nil
	}
	m := &entities.Media{
		Images: cleanList(in.Images),
		Videos: cleanList(in.Videos),
		Audio:  cleanList(in.Audio),
	}
	if m.IsEmpty() {
		return nil
	}
	return m
}

// cleanList trims entries and drops empties and duplicates, keeping first occurrence order.
func cleanList(in []string) []string {
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}
