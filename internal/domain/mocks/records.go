package mocks

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/ports"
)

// ErrNotFound is returned by RecordStore for unknown ids.
var ErrNotFound = ports.ErrRecordNotFound

// RecordStore is an in-memory mock of ports.RecordStore that assigns
// sequential ids ("ev-1", "ev-2", ...).
type RecordStore struct {
	mu     sync.Mutex
	Events []entities.LifeEvent
	nextID int

	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error
	// CreateErrAt fails the Nth Create call (1-indexed).
	CreateErrAt map[int]error

	// Entered receives a value when a write starts, if non-nil.
	Entered chan struct{}
	// Block holds writes until it is closed, if non-nil.
	Block chan struct{}

	// Call tracking
	ListCallCount   int
	CreateCallCount int
	UpdateCallCount int
	DeleteCallCount int
}

// List returns copies of the stored events.
func (m *RecordStore) List(ctx context.Context) ([]entities.LifeEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCallCount++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]entities.LifeEvent, len(m.Events))
	for i := range m.Events {
		out[i] = m.Events[i].Clone()
	}
	return out, nil
}

// Create stores event under the next sequential id.
func (m *RecordStore) Create(ctx context.Context, event *entities.LifeEvent) (string, error) {
	if err := m.wait(ctx); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCallCount++
	if err := m.CreateErrAt[m.CreateCallCount]; err != nil {
		return "", err
	}
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	m.nextID++
	id := fmt.Sprintf("ev-%d", m.nextID)
	stored := event.Clone()
	stored.ID = id
	m.Events = append(m.Events, stored)
	return id, nil
}

// Update replaces the stored event with the given id.
func (m *RecordStore) Update(ctx context.Context, id string, event *entities.LifeEvent) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCallCount++
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	for i := range m.Events {
		if m.Events[i].ID == id {
			stored := event.Clone()
			stored.ID = id
			m.Events[i] = stored
			return nil
		}
	}
	return ErrNotFound
}

// Delete removes the event with the given id.
func (m *RecordStore) Delete(ctx context.Context, id string) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCallCount++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Events = slices.DeleteFunc(m.Events, func(ev entities.LifeEvent) bool { return ev.ID == id })
	return nil
}

func (m *RecordStore) wait(ctx context.Context) error {
	if m.Entered != nil {
		m.Entered <- struct{}{}
	}
	if m.Block == nil {
		return nil
	}
	select {
	case <-m.Block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
