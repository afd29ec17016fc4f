package services

import (
	"context"
	"errors"
	"io"
	"log"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/ports"
)

var (
	// ErrWriteInProgress is returned when a write is attempted while another is pending.
	ErrWriteInProgress = errors.New("another save is still in progress")
	// ErrEventNotFound is returned for ids missing from the current snapshot.
	ErrEventNotFound = errors.New("event not found")
)

// EventIndexer is notified after successful writes. Failures are logged only.
type EventIndexer interface {
	IndexEvent(ctx context.Context, event *entities.LifeEvent) error
	RemoveEvent(ctx context.Context, id string) error
}

// JournalService holds one user's snapshot of the record set and routes every
// write through Normalize. At most one write is in flight at a time.
type JournalService struct {
	store   ports.RecordStore
	indexer EventIndexer
	logger  *log.Logger
	now     func() time.Time

	mu     sync.RWMutex
	events []entities.LifeEvent

	writing atomic.Bool
}

// JournalOption configures a JournalService.
type JournalOption func(*JournalService)

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) JournalOption {
	return func(s *JournalService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) JournalOption {
	return func(s *JournalService) {
		s.now = now
	}
}

// WithIndexer keeps a search index in step with writes.
func WithIndexer(indexer EventIndexer) JournalOption {
	return func(s *JournalService) {
		s.indexer = indexer
	}
}

// NewJournalService creates a journal over store.
func NewJournalService(store ports.RecordStore, opts ...JournalOption) *JournalService {
	s := &JournalService{
		store:  store,
		logger: log.New(io.Discard, "", 0),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh re-reads the record set. On failure the previous snapshot is kept
// and returned alongside the error.
func (s *JournalService) Refresh(ctx context.Context) ([]entities.LifeEvent, error) {
	events, err := s.store.List(ctx)
	if err != nil {
		s.logger.Printf("refresh failed, keeping %d cached events: %v", len(s.Snapshot()), err)
		return s.Snapshot(), &entities.StoreError{Op: "list", Err: err}
	}

	s.mu.Lock()
	s.events = events
	s.mu.Unlock()
	return s.Snapshot(), nil
}

// Snapshot returns a copy of the current record set.
func (s *JournalService) Snapshot() []entities.LifeEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.events)
}

// Get returns a copy of the record with the given id.
func (s *JournalService) Get(id string) (*entities.LifeEvent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.events {
		if s.events[i].ID == id {
			ev := s.events[i].Clone()
			return &ev, true
		}
	}
	return nil, false
}

// Create normalizes draft and persists it as a new record.
func (s *JournalService) Create(ctx context.Context, draft entities.Draft) (*entities.LifeEvent, error) {
	if !s.writing.CompareAndSwap(false, true) {
		return nil, ErrWriteInProgress
	}
	defer s.writing.Store(false)

	event, err := Normalize(draft, nil, s.now())
	if err != nil {
		return nil, err
	}

	id, err := s.store.Create(ctx, event)
	if err != nil {
		return nil, &entities.StoreError{Op: "create", Err: err}
	}
	event.ID = id

	s.mu.Lock()
	s.events = append(s.events, event.Clone())
	s.mu.Unlock()

	s.index(ctx, event)
	return event, nil
}

// Update normalizes draft against the stored record and replaces it.
func (s *JournalService) Update(ctx context.Context, id string, draft entities.Draft) (*entities.LifeEvent, error) {
	if !s.writing.CompareAndSwap(false, true) {
		return nil, ErrWriteInProgress
	}
	defer s.writing.Store(false)

	return s.update(ctx, id, draft)
}

// Edit prefills a draft from the stored record, lets fn change it, then saves.
func (s *JournalService) Edit(ctx context.Context, id string, fn func(*entities.Draft)) (*entities.LifeEvent, error) {
	if !s.writing.CompareAndSwap(false, true) {
		return nil, ErrWriteInProgress
	}
	defer s.writing.Store(false)

	existing, ok := s.Get(id)
	if !ok {
		return nil, ErrEventNotFound
	}
	draft := entities.DraftFromEvent(existing)
	fn(&draft)
	return s.update(ctx, id, draft)
}

func (s *JournalService) update(ctx context.Context, id string, draft entities.Draft) (*entities.LifeEvent, error) {
	existing, ok := s.Get(id)
	if !ok {
		return nil, ErrEventNotFound
	}

	event, err := Normalize(draft, existing, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, id, event); err != nil {
		return nil, &entities.StoreError{Op: "update", Err: err}
	}

	s.mu.Lock()
	for i := range s.events {
		if s.events[i].ID == id {
			s.events[i] = event.Clone()
			break
		}
	}
	s.mu.Unlock()

	s.index(ctx, event)
	return event, nil
}

// Delete removes a record. References to it from other records are kept.
func (s *JournalService) Delete(ctx context.Context, id string) error {
	if !s.writing.CompareAndSwap(false, true) {
		return ErrWriteInProgress
	}
	defer s.writing.Store(false)

	if _, ok := s.Get(id); !ok {
		return ErrEventNotFound
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return &entities.StoreError{Op: "delete", Err: err}
	}

	s.mu.Lock()
	s.events = slices.DeleteFunc(s.events, func(ev entities.LifeEvent) bool { return ev.ID == id })
	s.mu.Unlock()

	if s.indexer != nil {
		if err := s.indexer.RemoveEvent(ctx, id); err != nil {
			s.logger.Printf("removing %s from index: %v", id, err)
		}
	}
	return nil
}

// Timeline projects the current snapshot.
func (s *JournalService) Timeline() []EnrichedEvent {
	return Project(s.Snapshot())
}

// Stats summarizes the current snapshot.
func (s *JournalService) Stats() Stats {
	return Summarize(s.Snapshot(), s.now())
}

// Related returns the resolved outgoing links and the backlinks of a record.
func (s *JournalService) Related(id string) (related, backlinks []entities.LifeEvent, err error) {
	event, ok := s.Get(id)
	if !ok {
		return nil, nil, ErrEventNotFound
	}
	all := s.Snapshot()
	return ResolveRelated(event, all), Backlinks(event, all), nil
}

func (s *JournalService) index(ctx context.Context, event *entities.LifeEvent) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexEvent(ctx, event); err != nil {
		s.logger.Printf("indexing %s: %v", event.ID, err)
	}
}
