package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"slices"
	"time"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/infrastructure/parsers"
)

// ConflictStrategy defines how to handle events whose id already exists in the journal.
type ConflictStrategy string

const (
	// ConflictSkip skips events that already exist (by ID).
	ConflictSkip ConflictStrategy = "skip"
	// ConflictOverwrite replaces existing events with the imported data.
	ConflictOverwrite ConflictStrategy = "overwrite"
)

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun     bool             // Validate without saving
	OnConflict ConflictStrategy // How to handle existing events
}

// ImportError represents an error for a specific event during import.
type ImportError struct {
	Line    int                     // Line number (1-indexed, 0 if unknown)
	Code    entities.ValidationCode // Empty unless the row failed validation
	Field   string                  // Which field has the error
	Value   string                  // The invalid value
	Message string                  // Human-readable error message
}

func (e ImportError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []ImportError
}

// ImportService loads raw events into a journal. Ids in the source are only
// used to match existing records and to rewire relatedEvents inside the batch;
// new records get store-assigned ids.
type ImportService struct {
	journal *JournalService
	logger  *log.Logger
	now     func() time.Time
}

// NewImportService creates a new import service.
func NewImportService(journal *JournalService, logger *log.Logger) *ImportService {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &ImportService{
		journal: journal,
		logger:  logger,
		now:     time.Now,
	}
}

// pendingLinks remembers a saved record's source relatedEvents so forward
// references inside the batch can be rewired once every id is known.
type pendingLinks struct {
	id      string
	related []string
}

// Import validates and saves raw events. Invalid or failing events are
// reported per line and the batch continues.
func (s *ImportService) Import(ctx context.Context, rawEvents []parsers.RawEvent, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}
	idMap := make(map[string]string)
	var pending []pendingLinks

	for i := range rawEvents {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("importing events: %w", err)
		}

		raw := &rawEvents[i]
		lineNum := raw.LineNum
		if lineNum == 0 {
			lineNum = i + 1
		}

		draft := raw.Draft()
		if _, err := Normalize(draft, nil, s.now()); err != nil {
			result.Errors = append(result.Errors, importErrorFrom(lineNum, err))
			continue
		}

		_, exists := s.journal.Get(raw.ID)
		exists = exists && raw.ID != ""
		if exists && opts.OnConflict == ConflictSkip {
			result.Skipped++
			continue
		}

		if opts.DryRun {
			result.Imported++
			continue
		}

		related := draft.RelatedEvents
		draft.RelatedEvents = remapIDs(related, idMap)

		var (
			saved *entities.LifeEvent
			err   error
		)
		if exists {
			saved, err = s.journal.Update(ctx, raw.ID, draft)
		} else {
			saved, err = s.journal.Create(ctx, draft)
		}
		if err != nil {
			result.Errors = append(result.Errors, importErrorFrom(lineNum, err))
			continue
		}

		if raw.ID != "" {
			idMap[raw.ID] = saved.ID
		}
		if len(related) > 0 {
			pending = append(pending, pendingLinks{id: saved.ID, related: related})
		}
		result.Imported++
	}

	s.relink(ctx, pending, idMap, result)
	return result, nil
}

// relink rewrites relatedEvents that pointed at batch entries saved later.
func (s *ImportService) relink(ctx context.Context, pending []pendingLinks, idMap map[string]string, result *ImportResult) {
	for _, p := range pending {
		current, ok := s.journal.Get(p.id)
		if !ok {
			continue
		}
		want := remapIDs(p.related, idMap)
		want = slices.DeleteFunc(cleanList(want), func(id string) bool { return id == p.id })
		if slices.Equal(want, current.RelatedEvents) {
			continue
		}

		if _, err := s.journal.Edit(ctx, p.id, func(d *entities.Draft) { d.RelatedEvents = want }); err != nil {
			s.logger.Printf("relinking %s: %v", p.id, err)
			result.Errors = append(result.Errors, ImportError{
				Field:   "relatedEvents",
				Value:   p.id,
				Message: fmt.Sprintf("relinking %s: %v", p.id, err),
			})
		}
	}
}

// remapIDs replaces source ids with the ids assigned on save. Unknown ids are
// kept as they are; they may name existing records or stay dangling.
func remapIDs(ids []string, idMap map[string]string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if mapped, ok := idMap[id]; ok {
			id = mapped
		}
		out = append(out, id)
	}
	return out
}

func importErrorFrom(line int, err error) ImportError {
	var verr *entities.ValidationError
	if errors.As(err, &verr) {
		return ImportError{Line: line, Code: verr.Code, Field: verr.Field, Value: verr.Value, Message: verr.Message}
	}
	return ImportError{Line: line, Message: err.Error()}
}
