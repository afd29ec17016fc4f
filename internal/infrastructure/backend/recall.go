package backend

import (
	"context"
	"fmt"
	"log"

	"github.com/messixieziyi/life-story/internal/domain/ports"
	"github.com/messixieziyi/life-story/internal/infrastructure/config"
	"github.com/messixieziyi/life-story/internal/infrastructure/embedder/gemini"
	"github.com/messixieziyi/life-story/internal/infrastructure/embedder/openai"
	"github.com/messixieziyi/life-story/internal/infrastructure/vectordb/chromem"
	"github.com/messixieziyi/life-story/internal/infrastructure/vectordb/qdrant"
)

// NewEmbedder builds the embedder named by cfg.Provider.
func NewEmbedder(ctx context.Context, cfg config.EmbedderConfig) (ports.Embedder, error) {
	switch cfg.Provider {
	case "gemini":
		emb, err := gemini.NewEmbedder(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("creating gemini embedder: %w", err)
		}
		return emb, nil
	case "openai", "":
		emb, err := openai.NewEmbedder(cfg)
		if err != nil {
			return nil, fmt.Errorf("creating openai embedder: %w", err)
		}
		return emb, nil
	default:
		return nil, fmt.Errorf("unknown embedder provider %q", cfg.Provider)
	}
}

// NewIndex builds the recall index named by cfg.Recall.Backend.
func NewIndex(cfg *config.Config, basePath string, logger *log.Logger) (ports.EventIndex, error) {
	switch cfg.Recall.Backend {
	case config.RecallQdrant:
		index, err := qdrant.NewIndex(cfg.Recall.Qdrant)
		if err != nil {
			return nil, fmt.Errorf("creating qdrant index: %w", err)
		}
		return index, nil
	case config.RecallChromem, "":
		index, err := chromem.NewIndex(config.ChromemConfig{Path: config.ChromemPath(basePath, cfg)}, logger)
		if err != nil {
			return nil, fmt.Errorf("creating chromem index: %w", err)
		}
		return index, nil
	default:
		return nil, fmt.Errorf("unknown recall backend %q", cfg.Recall.Backend)
	}
}
