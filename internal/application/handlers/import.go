package handlers

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/services"
	"github.com/messixieziyi/life-story/internal/infrastructure/parsers"
)

// ImportHandler loads exported or hand-written event files into the journal.
type ImportHandler struct {
	service *services.ImportService
}

// NewImportHandler creates a new import handler.
func NewImportHandler(service *services.ImportService) *ImportHandler {
	return &ImportHandler{
		service: service,
	}
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	Format     string                    // "json", "csv", or "auto"
	DryRun     bool                      // Validate without saving
	OnConflict services.ConflictStrategy // Defaults to skip
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Total    int // rows read from the file
	Imported int
	Skipped  int
	Errors   []services.ImportError
	// Rejected counts rows per validation code. Store and relink failures
	// appear in Errors only.
	Rejected map[entities.ValidationCode]int
}

// RejectedCodes returns the keys of Rejected in a stable order.
func (r *ImportResult) RejectedCodes() []entities.ValidationCode {
	return slices.Sorted(maps.Keys(r.Rejected))
}

// Handle imports events from a file.
func (h *ImportHandler) Handle(ctx context.Context, filePath string, opts ImportOptions) (*ImportResult, error) {
	parser, err := parserFor(filePath, opts.Format)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	rows, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}

	result := &ImportResult{Total: len(rows)}
	if len(rows) == 0 {
		return result, nil
	}

	if opts.OnConflict == "" {
		opts.OnConflict = services.ConflictSkip
	}
	imported, err := h.service.Import(ctx, rows, services.ImportOptions{
		DryRun:     opts.DryRun,
		OnConflict: opts.OnConflict,
	})
	if err != nil {
		return nil, err
	}

	result.Imported = imported.Imported
	result.Skipped = imported.Skipped
	result.Errors = imported.Errors
	for _, e := range imported.Errors {
		if e.Code == "" {
			continue
		}
		if result.Rejected == nil {
			result.Rejected = make(map[entities.ValidationCode]int)
		}
		result.Rejected[e.Code]++
	}
	return result, nil
}

// parserFor picks a parser by explicit format, or by extension for "auto".
func parserFor(filePath, format string) (parsers.Parser, error) {
	if format != "" && format != "auto" {
		if p := parsers.ForFormat(format); p != nil {
			return p, nil
		}
		return nil, fmt.Errorf("unsupported format %q (want json or csv)", format)
	}
	if p := parsers.ForFile(filePath); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("unsupported format for file: %s", filePath)
}
