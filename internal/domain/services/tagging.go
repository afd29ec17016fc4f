package services

import (
	"context"
	"fmt"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/ports"
)

// TaggingService asks a Tagger for tags and a category and saves them through the journal.
type TaggingService struct {
	tagger  ports.Tagger
	journal *JournalService
}

// NewTaggingService creates a tagging service.
func NewTaggingService(tagger ports.Tagger, journal *JournalService) *TaggingService {
	return &TaggingService{tagger: tagger, journal: journal}
}

// Suggest returns the tagger's suggestion for a record without saving it.
func (s *TaggingService) Suggest(ctx context.Context, id string) (*ports.TagSuggestion, error) {
	event, ok := s.journal.Get(id)
	if !ok {
		return nil, ErrEventNotFound
	}

	suggestion, err := s.tagger.SuggestTags(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("suggesting tags: %w", err)
	}
	if suggestion == nil {
		return &ports.TagSuggestion{}, nil
	}
	return suggestion, nil
}

// Apply merges a suggestion into the record. Existing tags are kept and come
// first; the category is only filled when empty unless overwrite is set.
func (s *TaggingService) Apply(ctx context.Context, id string, suggestion *ports.TagSuggestion, overwrite bool) (*entities.LifeEvent, error) {
	return s.journal.Edit(ctx, id, func(d *entities.Draft) {
		d.Tags = cleanList(append(d.Tags, suggestion.Tags...))
		if suggestion.Category != "" && (overwrite || d.Category == "") {
			d.Category = suggestion.Category
		}
	})
}

// SuggestAndApply runs Suggest followed by Apply.
func (s *TaggingService) SuggestAndApply(ctx context.Context, id string, overwrite bool) (*entities.LifeEvent, *ports.TagSuggestion, error) {
	suggestion, err := s.Suggest(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	event, err := s.Apply(ctx, id, suggestion, overwrite)
	if err != nil {
		return nil, suggestion, err
	}
	return event, suggestion, nil
}
