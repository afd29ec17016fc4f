// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"fmt"

	"github.com/messixieziyi/life-story/internal/domain/ports"
	"github.com/messixieziyi/life-story/internal/infrastructure/config"
)

// InitHandler handles workspace initialization.
type InitHandler struct {
	indexManager ports.IndexManager
	vectorSize   uint64
}

// NewInitHandler creates a new init handler. indexManager may be nil when
// recall is not set up yet.
func NewInitHandler(indexManager ports.IndexManager, vectorSize int) *InitHandler {
	return &InitHandler{
		indexManager: indexManager,
		vectorSize:   uint64(vectorSize),
	}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath    string
	StoreProvider string
	RecallBackend string
	IndexReady    bool
}

// Handle writes the default config and provisions the recall index.
func (h *InitHandler) Handle(ctx context.Context, basePath string) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("lifestory already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	result := &InitResult{
		ConfigPath:    config.ConfigFilePath(basePath),
		StoreProvider: cfg.Store.Provider,
		RecallBackend: cfg.Recall.Backend,
	}

	if h.indexManager != nil {
		if err := h.indexManager.EnsureIndex(ctx, h.vectorSize); err != nil {
			return nil, fmt.Errorf("creating index: %w", err)
		}
		result.IndexReady = true
	}

	return result, nil
}
