// Package chromem provides an embedded EventIndex using chromem-go.
// Each user gets their own collection.
package chromem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/philippgille/chromem-go"

	"github.com/messixieziyi/life-story/internal/domain/ports"
	"github.com/messixieziyi/life-story/internal/infrastructure/config"
)

// errNoEmbeddingFunc is returned if chromem is ever asked to embed text itself.
var errNoEmbeddingFunc = errors.New("chromem index expects precomputed embeddings")

// Index implements ports.EventIndex on an in-process chromem database.
type Index struct {
	db         *chromem.DB
	logger     *log.Logger
	mu         sync.RWMutex
	vectorSize uint64
}

// NewIndex opens the index. An empty path keeps it in memory.
func NewIndex(cfg config.ChromemConfig, logger *log.Logger) (*Index, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	var db *chromem.DB
	if cfg.Path == "" {
		db = chromem.NewDB()
	} else {
		var err error
		db, err = chromem.NewPersistentDB(cfg.Path, true)
		if err != nil {
			return nil, fmt.Errorf("opening chromem database: %w", err)
		}
	}

	logger.Printf("recall index: chromem (path %q)", cfg.Path)
	return &Index{db: db, logger: logger}, nil
}

// Close is a no-op; persistent databases write through on every change.
func (x *Index) Close() error {
	return nil
}

// EnsureIndex records the expected vector size. Collections are created lazily.
func (x *Index) EnsureIndex(ctx context.Context, vectorSize uint64) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.vectorSize = vectorSize
	return nil
}

// DropIndex removes every user collection.
func (x *Index) DropIndex(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	for name := range x.db.ListCollections() {
		if err := x.db.DeleteCollection(name); err != nil {
			return fmt.Errorf("deleting collection %s: %w", name, err)
		}
	}
	return nil
}

// Upsert stores or replaces documents for userID.
func (x *Index) Upsert(ctx context.Context, userID string, docs []ports.IndexDocument) error {
	if len(docs) == 0 {
		return nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	col, err := x.collection(userID)
	if err != nil {
		return err
	}

	var existing []string
	documents := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		if x.vectorSize > 0 && uint64(len(doc.Vector)) != x.vectorSize {
			return fmt.Errorf("document %s: vector size %d, index expects %d", doc.ID, len(doc.Vector), x.vectorSize)
		}
		if _, err := col.GetByID(ctx, doc.ID); err == nil {
			existing = append(existing, doc.ID)
		}
		documents[i] = chromem.Document{
			ID:        doc.ID,
			Content:   doc.Text,
			Embedding: doc.Vector,
			Metadata:  map[string]string{"user_id": userID},
		}
	}

	if len(existing) > 0 {
		if err := col.Delete(ctx, nil, nil, existing...); err != nil {
			return fmt.Errorf("replacing documents: %w", err)
		}
	}
	if err := col.AddDocuments(ctx, documents, 1); err != nil {
		return fmt.Errorf("adding documents: %w", err)
	}
	return nil
}

// Search returns userID's nearest documents, best first.
func (x *Index) Search(ctx context.Context, userID string, vector []float32, limit int) ([]ports.IndexHit, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	col := x.db.GetCollection(config.CollectionForUser(userID), nil)
	if col == nil {
		return nil, nil
	}

	// chromem rejects nResults larger than the collection
	n := min(limit, col.Count())
	if n <= 0 {
		return nil, nil
	}

	results, err := col.QueryEmbedding(ctx, vector, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying collection: %w", err)
	}

	hits := make([]ports.IndexHit, len(results))
	for i, r := range results {
		hits[i] = ports.IndexHit{ID: r.ID, Score: r.Similarity}
	}
	return hits, nil
}

// Delete removes documents by event id.
func (x *Index) Delete(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	col := x.db.GetCollection(config.CollectionForUser(userID), nil)
	if col == nil {
		return nil
	}
	if err := col.Delete(ctx, nil, nil, ids...); err != nil {
		return fmt.Errorf("deleting documents: %w", err)
	}
	return nil
}

// Count returns the number of documents stored for userID.
func (x *Index) Count(userID string) int {
	x.mu.RLock()
	defer x.mu.RUnlock()

	col := x.db.GetCollection(config.CollectionForUser(userID), nil)
	if col == nil {
		return 0
	}
	return col.Count()
}

// collection returns userID's collection, creating it if needed. Caller holds mu.
func (x *Index) collection(userID string) (*chromem.Collection, error) {
	name := config.CollectionForUser(userID)
	col, err := x.db.GetOrCreateCollection(name, nil, refuseEmbedding)
	if err != nil {
		return nil, fmt.Errorf("opening collection %s: %w", name, err)
	}
	return col, nil
}

func refuseEmbedding(context.Context, string) ([]float32, error) {
	return nil, errNoEmbeddingFunc
}
