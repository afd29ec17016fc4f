package mocks

import "context"

// IndexManager is a mock implementation of ports.IndexManager.
type IndexManager struct {
	EnsureErr error
	DropErr   error

	// Call tracking
	EnsureIndexCallCount int
	DropIndexCallCount   int
	LastVectorSize       uint64
}

// EnsureIndex returns the configured error.
func (m *IndexManager) EnsureIndex(ctx context.Context, vectorSize uint64) error {
	m.EnsureIndexCallCount++
	m.LastVectorSize = vectorSize
	return m.EnsureErr
}

// DropIndex returns the configured error.
func (m *IndexManager) DropIndex(ctx context.Context) error {
	m.DropIndexCallCount++
	return m.DropErr
}
