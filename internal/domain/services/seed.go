package services

import (
	"context"
	"io"
	"log"
	"slices"
	"time"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/ports"
)

// SeedFailure records one draft that could not be persisted.
type SeedFailure struct {
	Index int
	Title string
	Err   error
}

// SeedResult reports a batch submission. IDs has one slot per draft; failed
// drafts leave an empty slot.
type SeedResult struct {
	IDs      []string
	Failures []SeedFailure
}

// Created returns how many drafts were persisted.
func (r *SeedResult) Created() int {
	n := 0
	for _, id := range r.IDs {
		if id != "" {
			n++
		}
	}
	return n
}

// Seeder submits sample drafts to a record store in dependency order.
type Seeder struct {
	logger *log.Logger
}

// NewSeeder creates a seeder. A nil logger discards output.
func NewSeeder(logger *log.Logger) *Seeder {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Seeder{logger: logger}
}

// Seed persists the demo dataset generated for now.
func (s *Seeder) Seed(ctx context.Context, store ports.RecordStore, now time.Time) *SeedResult {
	return s.SeedDrafts(ctx, store, GenerateSample(now), now)
}

// SeedDrafts persists drafts one at a time, in order. A draft's RelatedTo
// positions are translated to the ids the store assigned to earlier drafts;
// positions that failed or come later are dropped. A failed draft is
// reported and the batch continues.
func (s *Seeder) SeedDrafts(ctx context.Context, store ports.RecordStore, drafts []SampleDraft, now time.Time) *SeedResult {
	result := &SeedResult{IDs: make([]string, len(drafts))}

	for i, sd := range drafts {
		if err := ctx.Err(); err != nil {
			result.Failures = append(result.Failures, SeedFailure{Index: i, Title: sd.Draft.Title, Err: err})
			continue
		}

		draft := sd.Draft
		draft.RelatedEvents = slices.Clone(draft.RelatedEvents)
		for _, pos := range sd.RelatedTo {
			if pos >= 0 && pos < i && result.IDs[pos] != "" {
				draft.RelatedEvents = append(draft.RelatedEvents, result.IDs[pos])
			}
		}

		event, err := Normalize(draft, nil, now)
		if err != nil {
			s.fail(result, i, sd.Draft.Title, err)
			continue
		}

		id, err := store.Create(ctx, event)
		if err != nil {
			s.fail(result, i, sd.Draft.Title, &entities.StoreError{Op: "create", Err: err})
			continue
		}
		result.IDs[i] = id
	}

	s.logger.Printf("seeded %d of %d sample events", result.Created(), len(drafts))
	return result
}

func (s *Seeder) fail(result *SeedResult, i int, title string, err error) {
	s.logger.Printf("sample event %d (%s) failed: %v", i, title, err)
	result.Failures = append(result.Failures, SeedFailure{Index: i, Title: title, Err: err})
}
