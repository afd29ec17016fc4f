// Package ports defines interfaces for external service communication.
package ports

import "context"

// IndexManager handles vector index lifecycle operations.
// This is separate from EventIndex because not all implementations need
// explicit provisioning, and it keeps EventIndex focused on data operations.
type IndexManager interface {
	// EnsureIndex creates the index if it doesn't exist.
	EnsureIndex(ctx context.Context, vectorSize uint64) error

	// DropIndex removes the index and all its data.
	DropIndex(ctx context.Context) error
}
