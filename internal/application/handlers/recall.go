package handlers

import (
	"context"
	"fmt"

	"github.com/messixieziyi/life-story/internal/domain/services"
)

// RecallHandler handles natural-language search over the journal.
type RecallHandler struct {
	recall  *services.RecallService
	journal *services.JournalService
}

// NewRecallHandler creates a new recall handler.
func NewRecallHandler(recall *services.RecallService, journal *services.JournalService) *RecallHandler {
	return &RecallHandler{
		recall:  recall,
		journal: journal,
	}
}

// RecallResult contains the result of a search.
type RecallResult struct {
	Query string               `json:"query"`
	Hits  []services.RecallHit `json:"hits"`
}

// Handle searches the user's records matching the query.
func (h *RecallHandler) Handle(ctx context.Context, query string, limit int) (*RecallResult, error) {
	hits, err := h.recall.Search(ctx, query, limit, h.journal.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("searching records: %w", err)
	}

	return &RecallResult{
		Query: query,
		Hits:  hits,
	}, nil
}

// HandleReindex re-embeds every record in the snapshot.
func (h *RecallHandler) HandleReindex(ctx context.Context) (int, error) {
	n, err := h.recall.Reindex(ctx, h.journal.Snapshot())
	if err != nil {
		return n, fmt.Errorf("reindexing records: %w", err)
	}
	return n, nil
}
