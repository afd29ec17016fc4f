// Package backend owns the configured record store and identity provider.
// A Client is built explicitly and handed to whoever needs it; nothing is
// opened until the first call that needs the store.
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/ports"
	"github.com/messixieziyi/life-story/internal/infrastructure/config"
	"github.com/messixieziyi/life-story/internal/infrastructure/documentdb"
	"github.com/messixieziyi/life-story/internal/infrastructure/identity"
	"github.com/messixieziyi/life-story/internal/infrastructure/relationaldb/postgres"
	"github.com/messixieziyi/life-story/internal/infrastructure/relationaldb/sqlite"
)

// ErrNotConfigured is returned when the client has no usable store settings.
var ErrNotConfigured = errors.New("backend is not configured")

// Store is what every store provider implements.
type Store interface {
	ports.EventRepository
	ports.UserRepository
}

// Client lazily opens the configured store once and hands out per-user views.
type Client struct {
	cfg      *config.Config
	basePath string
	logger   *log.Logger
	session  *entities.User

	once     sync.Once
	store    Store
	identity *identity.Provider
	initErr  error

	closeOnce sync.Once
	closeErr  error
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSession restores the signed-in user from a previous run.
func WithSession(user *entities.User) Option {
	return func(c *Client) {
		c.session = user
	}
}

// NewClient creates a client for cfg. Relative store paths resolve against basePath.
func NewClient(cfg *config.Config, basePath string, opts ...Option) *Client {
	c := &Client{
		cfg:      cfg,
		basePath: basePath,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsConfigured reports whether the settings name a usable store.
func (c *Client) IsConfigured() bool {
	if c == nil || c.cfg == nil {
		return false
	}
	switch c.cfg.Store.Provider {
	case config.StoreSQLite, config.StoreBadger, config.StoreMemory:
		return true
	case config.StorePostgres:
		return c.cfg.Store.Postgres.DSN != ""
	default:
		return false
	}
}

// Provider returns the configured store provider name.
func (c *Client) Provider() string {
	if c.cfg == nil {
		return ""
	}
	return c.cfg.Store.Provider
}

func (c *Client) init(ctx context.Context) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}
	c.once.Do(func() {
		store, err := c.open(ctx)
		if err != nil {
			c.initErr = err
			return
		}
		c.store = store
		c.identity = identity.NewProvider(store,
			identity.WithRequireVerification(c.cfg.Auth.RequireVerification),
			identity.WithSession(c.session),
		)
		c.logger.Printf("backend ready (store=%s)", c.cfg.Store.Provider)
	})
	return c.initErr
}

func (c *Client) open(ctx context.Context) (Store, error) {
	switch c.cfg.Store.Provider {
	case config.StoreSQLite:
		path := config.SQLitePath(c.basePath, c.cfg)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: path})
		if err != nil {
			return nil, fmt.Errorf("creating sqlite repository: %w", err)
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			repo.Close()
			return nil, fmt.Errorf("ensuring sqlite schema: %w", err)
		}
		return repo, nil

	case config.StorePostgres:
		store, err := postgres.Connect(ctx, c.cfg.Store.Postgres)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("ensuring postgres schema: %w", err)
		}
		return store, nil

	case config.StoreBadger:
		store, err := documentdb.Open(config.BadgerPath(c.basePath, c.cfg))
		if err != nil {
			return nil, fmt.Errorf("opening badger store: %w", err)
		}
		return store, nil

	case config.StoreMemory:
		store, err := documentdb.Open("")
		if err != nil {
			return nil, fmt.Errorf("opening in-memory store: %w", err)
		}
		return store, nil
	}
	return nil, ErrNotConfigured
}

// Store returns the underlying multi-user store.
func (c *Client) Store(ctx context.Context) (Store, error) {
	if err := c.init(ctx); err != nil {
		return nil, err
	}
	return c.store, nil
}

// Records returns userID's view of the store.
func (c *Client) Records(ctx context.Context, userID string) (ports.RecordStore, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	store, err := c.Store(ctx)
	if err != nil {
		return nil, err
	}
	return NewRecords(store, userID), nil
}

// Identity returns the identity provider backed by the store's account table.
func (c *Client) Identity(ctx context.Context) (*identity.Provider, error) {
	if err := c.init(ctx); err != nil {
		return nil, err
	}
	return c.identity, nil
}

// AuditLog returns the store's write history when the provider keeps one.
func (c *Client) AuditLog(ctx context.Context) (ports.AuditLog, bool, error) {
	store, err := c.Store(ctx)
	if err != nil {
		return nil, false, err
	}
	audit, ok := store.(ports.AuditLog)
	return audit, ok, nil
}

// Close releases the store. It is safe to call more than once and before init.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		if c.store != nil {
			c.closeErr = c.store.Close()
		}
	})
	return c.closeErr
}
