package handlers

import (
	"context"
	"fmt"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/ports"
	"github.com/messixieziyi/life-story/internal/domain/services"
)

// TagHandler fills tags and category from the LLM.
type TagHandler struct {
	service *services.TaggingService
}

// NewTagHandler creates a new tag handler.
func NewTagHandler(service *services.TaggingService) *TagHandler {
	return &TagHandler{
		service: service,
	}
}

// TagOptions controls tagging behavior.
type TagOptions struct {
	DryRun    bool // Suggest without saving
	Overwrite bool // Replace an existing category
}

// TagResult contains the suggestion and, unless DryRun was set, the saved record.
type TagResult struct {
	Suggestion *ports.TagSuggestion
	Event      *entities.LifeEvent
}

// Handle suggests tags for a record and applies them.
func (h *TagHandler) Handle(ctx context.Context, id string, opts TagOptions) (*TagResult, error) {
	if opts.DryRun {
		suggestion, err := h.service.Suggest(ctx, id)
		if err != nil {
			return nil, err
		}
		return &TagResult{Suggestion: suggestion}, nil
	}

	event, suggestion, err := h.service.SuggestAndApply(ctx, id, opts.Overwrite)
	if err != nil {
		return nil, fmt.Errorf("tagging %s: %w", id, err)
	}
	return &TagResult{Suggestion: suggestion, Event: event}, nil
}
