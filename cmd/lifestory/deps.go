package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/messixieziyi/life-story/internal/application/handlers"
	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/ports"
	"github.com/messixieziyi/life-story/internal/domain/services"
	"github.com/messixieziyi/life-story/internal/infrastructure/backend"
	"github.com/messixieziyi/life-story/internal/infrastructure/config"
)

// errNotSignedIn is returned by record commands when a config exists but no session does.
var errNotSignedIn = errors.New("not signed in (run 'lifestory login' or 'lifestory signup')")

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config   *config.Config
	BasePath string
	// Demo is true when no config exists and records live in memory.
	Demo    bool
	User    *entities.User
	Journal *handlers.JournalHandler
	Links   *handlers.LinkHandler
	// Recall is nil unless an embedder and index could be built.
	Recall *handlers.RecallHandler
}

// internalDeps holds all dependencies including low-level components.
// Used internally by helper functions.
type internalDeps struct {
	Deps
	logger  *log.Logger
	backend *backend.Client
	records ports.RecordStore
	journal *services.JournalService
	recall  *services.RecallService
}

// recallMode says whether a command needs semantic search.
type recallMode int

const (
	// recallOptional wires recall when an embedder key is configured and
	// carries on without it otherwise.
	recallOptional recallMode = iota
	// recallRequired fails the command when recall cannot be built.
	recallRequired
)

// withDeps loads config and the signed-in user's records, then calls the provided function.
// It handles cleanup automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	return withInternalDeps(ctx, recallOptional, func(d *internalDeps) error {
		return fn(&d.Deps)
	})
}

// withInternalDeps provides access to all dependencies including low-level components.
// Used by commands that need direct store or service access.
func withInternalDeps(ctx context.Context, mode recallMode, fn func(*internalDeps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, demo, err := config.LoadOrDemo(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := newLogger(cfg)

	user := &entities.User{ID: entities.DemoUserID}
	opts := []backend.Option{backend.WithLogger(logger)}
	if !demo {
		session, err := config.LoadSession(cwd)
		if err != nil {
			return fmt.Errorf("loading session: %w", err)
		}
		if !session.SignedIn() {
			return errNotSignedIn
		}
		user = session.User
		opts = append(opts, backend.WithSession(user))
	}

	client := backend.NewClient(cfg, cwd, opts...)
	defer func() {
		if err := client.Close(); err != nil {
			logger.Printf("closing store: %v", err)
		}
	}()

	records, err := client.Records(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("opening records: %w", err)
	}

	if demo {
		logger.Printf("no config found, using in-memory demo records")
		seeded := services.NewSeeder(logger).Seed(ctx, records, time.Now())
		logger.Printf("seeded %d demo records", seeded.Created())
	}

	recall, closeRecall, err := openRecall(ctx, cfg, cwd, user.ID, logger)
	switch {
	case err != nil && mode == recallRequired:
		return err
	case err != nil:
		logger.Printf("recall disabled: %v", err)
	}
	defer closeRecall()

	journalOpts := []services.JournalOption{services.WithLogger(logger)}
	if recall != nil {
		journalOpts = append(journalOpts, services.WithIndexer(recall))
	}
	journal := services.NewJournalService(records, journalOpts...)

	deps := &internalDeps{
		Deps: Deps{
			Config:   cfg,
			BasePath: cwd,
			Demo:     demo,
			User:     user,
			Journal:  handlers.NewJournalHandler(journal),
			Links:    handlers.NewLinkHandler(journal),
		},
		logger:  logger,
		backend: client,
		records: records,
		journal: journal,
		recall:  recall,
	}
	if recall != nil {
		deps.Recall = handlers.NewRecallHandler(recall, journal)
	}

	if _, err := deps.Journal.HandleLoad(ctx); err != nil {
		return err
	}

	return fn(deps)
}

// openRecall builds the embedder and index for userID. The returned cleanup
// is always safe to call.
func openRecall(ctx context.Context, cfg *config.Config, basePath, userID string, logger *log.Logger) (*services.RecallService, func(), error) {
	noop := func() {}
	if cfg.Embedder.APIKey == "" {
		return nil, noop, errors.New("no embedder API key configured")
	}

	emb, err := backend.NewEmbedder(ctx, cfg.Embedder)
	if err != nil {
		return nil, noop, fmt.Errorf("creating embedder: %w", err)
	}

	index, err := backend.NewIndex(cfg, basePath, logger)
	if err != nil {
		return nil, noop, fmt.Errorf("creating recall index: %w", err)
	}
	if err := index.EnsureIndex(ctx, uint64(emb.Dimension())); err != nil {
		index.Close()
		return nil, noop, fmt.Errorf("ensuring recall index: %w", err)
	}

	closeIndex := func() {
		if err := index.Close(); err != nil {
			logger.Printf("closing recall index: %v", err)
		}
	}
	return services.NewRecallService(emb, index, userID, logger), closeIndex, nil
}

// withAuthHandler provides the AuthHandler. Accounts need a configured store,
// so this refuses to run in demo mode.
func withAuthHandler(ctx context.Context, fn func(*handlers.AuthHandler) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := newLogger(cfg)

	session, err := config.LoadSession(cwd)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	client := backend.NewClient(cfg, cwd, backend.WithLogger(logger), backend.WithSession(session.User))
	defer func() {
		if err := client.Close(); err != nil {
			logger.Printf("closing store: %v", err)
		}
	}()

	if !client.IsConfigured() {
		return backend.ErrNotConfigured
	}

	provider, err := client.Identity(ctx)
	if err != nil {
		return fmt.Errorf("opening identity provider: %w", err)
	}

	auth := services.NewAuthService(provider, logger)
	return fn(handlers.NewAuthHandler(auth, provider, cwd))
}

// withAuditLog provides the write history of the configured store.
func withAuditLog(ctx context.Context, fn func(ports.AuditLog, *entities.User) error) error {
	return withInternalDeps(ctx, recallOptional, func(d *internalDeps) error {
		audit, ok, err := d.backend.AuditLog(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("the %s store does not keep a history", d.backend.Provider())
		}
		return fn(audit, d.User)
	})
}

func newLogger(cfg *config.Config) *log.Logger {
	if globalVerbose || (cfg != nil && cfg.Log.Verbose) {
		return log.New(os.Stderr, "lifestory: ", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}
