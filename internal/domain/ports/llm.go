package ports

import (
	"context"

	"github.com/messixieziyi/life-story/internal/domain/entities"
)

// Tagger suggests machine-generated tags and a category for an event.
type Tagger interface {
	SuggestTags(ctx context.Context, event *entities.LifeEvent) (*TagSuggestion, error)
}

// TagSuggestion is a Tagger result. Values are raw and still go through normalization.
type TagSuggestion struct {
	Tags     []string `json:"tags"`
	Category string   `json:"category"`
}
