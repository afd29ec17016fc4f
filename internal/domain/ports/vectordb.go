package ports

import "context"

// IndexDocument is an event's searchable text and its embedding.
type IndexDocument struct {
	ID     string
	Text   string
	Vector []float32
}

// IndexHit is a search result. ID is the event id.
type IndexHit struct {
	ID    string
	Score float32
}

// EventIndex stores event embeddings for semantic recall, partitioned by user.
type EventIndex interface {
	IndexManager

	// Upsert stores or replaces documents.
	Upsert(ctx context.Context, userID string, docs []IndexDocument) error

	// Search returns the nearest documents, best first.
	Search(ctx context.Context, userID string, vector []float32, limit int) ([]IndexHit, error)

	// Delete removes documents by event id.
	Delete(ctx context.Context, userID string, ids []string) error

	// Close releases the underlying connection.
	Close() error
}
