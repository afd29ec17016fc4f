package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/messixieziyi/life-story/internal/application/handlers"
	"github.com/messixieziyi/life-story/internal/domain/ports"
	"github.com/messixieziyi/life-story/internal/infrastructure/backend"
	"github.com/messixieziyi/life-story/internal/infrastructure/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new life story journal",
		Long: "Creates a .lifestory directory with default configuration. When OPENAI_API_KEY is set " +
			"the recall index is provisioned as well.",
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	logger := newLogger(nil)
	index, vectorSize := initIndex(ctx, cwd, logger)
	if index != nil {
		defer index.Close()
	}

	result, err := handlers.NewInitHandler(index, vectorSize).Handle(ctx, cwd)
	if err != nil {
		return err
	}

	fmt.Printf("Created %s\n", result.ConfigPath)
	fmt.Printf("Store: %s\n", result.StoreProvider)
	if result.IndexReady {
		fmt.Printf("Recall index ready (%s)\n", result.RecallBackend)
	} else {
		fmt.Println("Recall index not provisioned (set OPENAI_API_KEY and run 'lifestory reindex')")
	}
	fmt.Println("Life story initialized! Run 'lifestory signup' to create an account.")

	return nil
}

// initIndex builds the index the default config will point at. It returns
// nil when no embedder key is available.
func initIndex(ctx context.Context, basePath string, logger *log.Logger) (ports.EventIndex, int) {
	cfg := config.Default()
	cfg.Embedder.APIKey = os.Getenv("OPENAI_API_KEY")
	cfg.Recall.Chromem.Path = filepath.Join(config.DefaultConfigDir, "recall")
	if cfg.Embedder.APIKey == "" {
		return nil, 0
	}

	emb, err := backend.NewEmbedder(ctx, cfg.Embedder)
	if err != nil {
		logger.Printf("skipping recall index: %v", err)
		return nil, 0
	}
	index, err := backend.NewIndex(cfg, basePath, logger)
	if err != nil {
		logger.Printf("skipping recall index: %v", err)
		return nil, 0
	}
	return index, emb.Dimension()
}
