package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/messixieziyi/life-story/internal/domain/ports"
	"github.com/messixieziyi/life-story/internal/domain/services"
)

// SeedHandler loads the demo dataset into a user's records.
type SeedHandler struct {
	seeder  *services.Seeder
	store   ports.RecordStore
	journal *services.JournalService
	now     func() time.Time
}

// NewSeedHandler creates a new seed handler. journal is refreshed afterwards.
func NewSeedHandler(seeder *services.Seeder, store ports.RecordStore, journal *services.JournalService) *SeedHandler {
	return &SeedHandler{
		seeder:  seeder,
		store:   store,
		journal: journal,
		now:     time.Now,
	}
}

// Handle submits the sample drafts in order. Failures are reported per draft.
func (h *SeedHandler) Handle(ctx context.Context) (*services.SeedResult, error) {
	result := h.seeder.Seed(ctx, h.store, h.now())

	if h.journal != nil {
		if _, err := h.journal.Refresh(ctx); err != nil {
			return result, fmt.Errorf("reloading records: %w", err)
		}
	}
	return result, nil
}
