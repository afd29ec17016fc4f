package handlers

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/services"
)

// ErrSelfLink is returned when a record would reference itself.
var ErrSelfLink = errors.New("a record cannot reference itself")

// LinkHandler manages relatedEvents references. Links are one-directional:
// linking A to B never writes anything on B.
type LinkHandler struct {
	journal *services.JournalService
}

// NewLinkHandler creates a new LinkHandler.
func NewLinkHandler(journal *services.JournalService) *LinkHandler {
	return &LinkHandler{
		journal: journal,
	}
}

// LinksResult describes a record's references in both directions.
type LinksResult struct {
	Event     entities.LifeEvent   `json:"event"`
	Related   []entities.LifeEvent `json:"related"`
	Backlinks []entities.LifeEvent `json:"backlinks"`
	// Dangling lists referenced ids with no matching record.
	Dangling []string `json:"dangling,omitempty"`
}

// HandleLink adds targetID to sourceID's related events. Both must exist.
func (h *LinkHandler) HandleLink(ctx context.Context, sourceID, targetID string) (*entities.LifeEvent, error) {
	if sourceID == targetID {
		return nil, ErrSelfLink
	}
	if _, ok := h.journal.Get(targetID); !ok {
		return nil, fmt.Errorf("target %s: %w", targetID, services.ErrEventNotFound)
	}

	return h.journal.Edit(ctx, sourceID, func(d *entities.Draft) {
		if !slices.Contains(d.RelatedEvents, targetID) {
			d.RelatedEvents = append(d.RelatedEvents, targetID)
		}
	})
}

// HandleUnlink removes targetID from sourceID's related events. The target
// does not have to exist, so dangling references can be cleaned up.
func (h *LinkHandler) HandleUnlink(ctx context.Context, sourceID, targetID string) (*entities.LifeEvent, error) {
	return h.journal.Edit(ctx, sourceID, func(d *entities.Draft) {
		d.RelatedEvents = slices.DeleteFunc(d.RelatedEvents, func(id string) bool { return id == targetID })
	})
}

// HandleList returns the record with its resolved links and backlinks.
func (h *LinkHandler) HandleList(id string) (*LinksResult, error) {
	event, ok := h.journal.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", services.ErrEventNotFound, id)
	}

	related, backlinks, err := h.journal.Related(id)
	if err != nil {
		return nil, fmt.Errorf("resolving links: %w", err)
	}

	return &LinksResult{
		Event:     *event,
		Related:   related,
		Backlinks: backlinks,
		Dangling:  services.DanglingReferences(event, h.journal.Snapshot()),
	}, nil
}
