package mocks

import (
	"context"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/ports"
)

// Tagger is a mock implementation of ports.Tagger.
type Tagger struct {
	Suggestion *ports.TagSuggestion
	Err        error

	CallCount int
	LastEvent *entities.LifeEvent
}

// SuggestTags returns the configured suggestion or error.
func (m *Tagger) SuggestTags(ctx context.Context, event *entities.LifeEvent) (*ports.TagSuggestion, error) {
	m.CallCount++
	m.LastEvent = event
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Suggestion, nil
}
