package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/ports"
)

// DefaultRecallLimit is used when Search is called with limit <= 0.
const DefaultRecallLimit = 5

// reindexBatchSize caps the number of texts sent to the embedder per call.
const reindexBatchSize = 64

// RecallHit is a search result resolved against the current record set.
type RecallHit struct {
	Event entities.LifeEvent `json:"event"`
	Score float32            `json:"score"`
}

// RecallService keeps one user's events in a vector index and answers
// natural-language queries against it.
type RecallService struct {
	embedder ports.Embedder
	index    ports.EventIndex
	userID   string
	logger   *log.Logger
}

// NewRecallService creates a recall service for userID.
func NewRecallService(embedder ports.Embedder, index ports.EventIndex, userID string, logger *log.Logger) *RecallService {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &RecallService{
		embedder: embedder,
		index:    index,
		userID:   userID,
		logger:   logger,
	}
}

// EventText builds the text that represents an event in the index.
func EventText(ev *entities.LifeEvent) string {
	var parts []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}

	add(ev.Title)
	if ev.Type != "" {
		add(ev.Type.Label())
	}
	add(ev.Description)
	if len(ev.Emotions) > 0 {
		labels := make([]string, len(ev.Emotions))
		for i, e := range ev.Emotions {
			labels[i] = e.Label()
		}
		add(strings.Join(labels, " "))
	}
	add(ev.EmotionNote)
	if ev.Location != nil {
		add(ev.Location.Name)
	}
	add(strings.Join(ev.Participants, " "))
	add(strings.Join(ev.Tags, " "))
	add(ev.Category)

	return strings.Join(parts, "\n")
}

// IndexEvent embeds and stores a single event.
func (s *RecallService) IndexEvent(ctx context.Context, event *entities.LifeEvent) error {
	text := EventText(event)
	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embedding event %s: %w", event.ID, err)
	}

	doc := ports.IndexDocument{ID: event.ID, Text: text, Vector: vector}
	if err := s.index.Upsert(ctx, s.userID, []ports.IndexDocument{doc}); err != nil {
		return fmt.Errorf("indexing event %s: %w", event.ID, err)
	}
	return nil
}

// RemoveEvent drops an event from the index.
func (s *RecallService) RemoveEvent(ctx context.Context, id string) error {
	if err := s.index.Delete(ctx, s.userID, []string{id}); err != nil {
		return fmt.Errorf("removing event %s from index: %w", id, err)
	}
	return nil
}

// Reindex ensures the index exists and re-embeds every event. It returns the
// number of events indexed.
func (s *RecallService) Reindex(ctx context.Context, all []entities.LifeEvent) (int, error) {
	if err := s.index.EnsureIndex(ctx, uint64(s.embedder.Dimension())); err != nil {
		return 0, fmt.Errorf("ensuring index: %w", err)
	}

	indexed := 0
	for start := 0; start < len(all); start += reindexBatchSize {
		end := min(start+reindexBatchSize, len(all))
		batch := all[start:end]

		texts := make([]string, len(batch))
		for i := range batch {
			texts[i] = EventText(&batch[i])
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return indexed, fmt.Errorf("embedding batch: %w", err)
		}
		if len(vectors) != len(batch) {
			return indexed, fmt.Errorf("embedding batch: got %d vectors for %d events", len(vectors), len(batch))
		}

		docs := make([]ports.IndexDocument, len(batch))
		for i := range batch {
			docs[i] = ports.IndexDocument{ID: batch[i].ID, Text: texts[i], Vector: vectors[i]}
		}
		if err := s.index.Upsert(ctx, s.userID, docs); err != nil {
			return indexed, fmt.Errorf("upserting batch: %w", err)
		}
		indexed += len(batch)
	}

	s.logger.Printf("reindexed %d events for %s", indexed, s.userID)
	return indexed, nil
}

// Search finds events matching query. Hits whose event is no longer in all
// are skipped, the same way dangling references are.
func (s *RecallService) Search(ctx context.Context, query string, limit int, all []entities.LifeEvent) ([]RecallHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultRecallLimit
	}

	embed := s.embedder.Embed
	if q, ok := s.embedder.(ports.QueryEmbedder); ok {
		embed = q.EmbedQuery
	}
	vector, err := embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := s.index.Search(ctx, s.userID, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	byID := indexByID(all)
	out := make([]RecallHit, 0, len(hits))
	for _, h := range hits {
		i, ok := byID[h.ID]
		if !ok {
			s.logger.Printf("index hit %s has no matching event", h.ID)
			continue
		}
		out = append(out, RecallHit{Event: all[i], Score: h.Score})
	}
	return out, nil
}
