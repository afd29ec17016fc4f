package mocks

import (
	"context"

	"github.com/messixieziyi/life-story/internal/domain/ports"
)

// EventIndex is a mock implementation of ports.EventIndex.
type EventIndex struct {
	IndexManager

	// Docs holds upserted documents per user id.
	Docs map[string]map[string]ports.IndexDocument
	// Hits is returned by Search.
	Hits []ports.IndexHit

	UpsertErr error
	SearchErr error
	DeleteErr error

	// Call tracking
	UpsertCallCount int
	SearchCallCount int
	DeleteCallCount int
	LastSearchLimit int
	Closed          bool
}

// NewEventIndex creates a new mock EventIndex.
func NewEventIndex() *EventIndex {
	return &EventIndex{Docs: make(map[string]map[string]ports.IndexDocument)}
}

// Upsert stores documents under userID.
func (m *EventIndex) Upsert(ctx context.Context, userID string, docs []ports.IndexDocument) error {
	m.UpsertCallCount++
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	if m.Docs == nil {
		m.Docs = make(map[string]map[string]ports.IndexDocument)
	}
	if m.Docs[userID] == nil {
		m.Docs[userID] = make(map[string]ports.IndexDocument)
	}
	for _, d := range docs {
		m.Docs[userID][d.ID] = d
	}
	return nil
}

// Search returns the configured hits, truncated to limit.
func (m *EventIndex) Search(ctx context.Context, userID string, vector []float32, limit int) ([]ports.IndexHit, error) {
	m.SearchCallCount++
	m.LastSearchLimit = limit
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	if limit > 0 && len(m.Hits) > limit {
		return m.Hits[:limit], nil
	}
	return m.Hits, nil
}

// Delete removes documents for userID.
func (m *EventIndex) Delete(ctx context.Context, userID string, ids []string) error {
	m.DeleteCallCount++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	for _, id := range ids {
		delete(m.Docs[userID], id)
	}
	return nil
}

// Close marks the index closed.
func (m *EventIndex) Close() error {
	m.Closed = true
	return nil
}
