// Package sqlite provides a SQLite implementation of the record and account stores.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/ports"
	"github.com/messixieziyi/life-story/internal/infrastructure/config"
	"github.com/messixieziyi/life-story/internal/infrastructure/relationaldb"
)

// generateUUID returns a new UUID string.
func generateUUID() string {
	return uuid.New().String()
}

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.EventRepository and ports.UserRepository using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Every connection to :memory: is a separate database
	if cfg.Path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Life events, one row per record, scoped by owner
	CREATE TABLE IF NOT EXISTS life_events (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL,
		date INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		importance TEXT NOT NULL,
		emotions TEXT NOT NULL DEFAULT '[]',
		emotion_note TEXT NOT NULL DEFAULT '',
		location TEXT,
		participants TEXT NOT NULL DEFAULT '[]',
		tags TEXT NOT NULL DEFAULT '[]',
		category TEXT NOT NULL DEFAULT '',
		media TEXT,
		related_events TEXT NOT NULL DEFAULT '[]'
	);
	CREATE INDEX IF NOT EXISTS idx_life_events_user ON life_events(user_id);

	-- Local accounts for the built-in identity provider
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE COLLATE NOCASE,
		password_hash BLOB NOT NULL,
		verified INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);

	-- Audit log (tracks every write)
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		action TEXT NOT NULL,
		event_id TEXT,
		details TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_audit_log_event ON audit_log(user_id, event_id);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Event methods.

// ListEvents returns the user's events in insertion order.
func (r *Repository) ListEvents(ctx context.Context, userID string) ([]entities.LifeEvent, error) {
	query := `SELECT ` + relationaldb.ColumnList() + ` FROM life_events WHERE user_id = ? ORDER BY rowid`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []entities.LifeEvent
	for rows.Next() {
		var row relationaldb.EventRow
		if err := rows.Scan(row.ScanTargets()...); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		ev, err := row.Event()
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}

// CreateEvent inserts ev under a new id and returns it.
func (r *Repository) CreateEvent(ctx context.Context, userID string, ev *entities.LifeEvent) (string, error) {
	stored := ev.Clone()
	stored.ID = generateUUID()

	row, err := relationaldb.NewEventRow(userID, &stored)
	if err != nil {
		return "", err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(relationaldb.EventColumns)), ", ")
	query := `INSERT INTO life_events (` + relationaldb.ColumnList() + `) VALUES (` + placeholders + `)`

	err = r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query, row.Values()...); err != nil {
			return fmt.Errorf("inserting event: %w", err)
		}
		return logAction(ctx, tx, userID, entities.AuditCreate, stored.ID, map[string]any{"title": stored.Title})
	})
	if err != nil {
		return "", err
	}
	return stored.ID, nil
}

// UpdateEvent replaces the stored event. The id and owner never change.
func (r *Repository) UpdateEvent(ctx context.Context, userID, id string, ev *entities.LifeEvent) error {
	stored := ev.Clone()
	stored.ID = id

	row, err := relationaldb.NewEventRow(userID, &stored)
	if err != nil {
		return err
	}

	// skip id and user_id
	cols := relationaldb.EventColumns[2:]
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c + " = ?"
	}
	query := `UPDATE life_events SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND user_id = ?`
	args := append(row.Values()[2:], id, userID)

	return r.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("updating event: %w", err)
		}
		if err := requireRow(result); err != nil {
			return err
		}
		return logAction(ctx, tx, userID, entities.AuditUpdate, id, map[string]any{"title": stored.Title})
	})
}

// DeleteEvent removes an event. Other events referring to it are untouched.
func (r *Repository) DeleteEvent(ctx context.Context, userID, id string) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM life_events WHERE id = ? AND user_id = ?`, id, userID)
		if err != nil {
			return fmt.Errorf("deleting event: %w", err)
		}
		if err := requireRow(result); err != nil {
			return err
		}
		return logAction(ctx, tx, userID, entities.AuditDelete, id, nil)
	})
}

// CountEvents returns the number of events owned by userID.
func (r *Repository) CountEvents(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM life_events WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return count, nil
}

// Account methods.

// FindAccountByEmail finds an account by email (case-insensitive). Returns nil, nil if not found.
func (r *Repository) FindAccountByEmail(ctx context.Context, email string) (*entities.Account, error) {
	query := `SELECT id, email, password_hash, verified, created_at FROM accounts WHERE email = ?`

	var a entities.Account
	var createdAt int64
	err := r.db.QueryRowContext(ctx, query, email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Verified, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding account: %w", err)
	}
	a.CreatedAt, _ = entities.ToInstant(entities.UnixMillis(createdAt))
	return &a, nil
}

// SaveAccount inserts a new account.
func (r *Repository) SaveAccount(ctx context.Context, account *entities.Account) error {
	if account.ID == "" {
		account.ID = generateUUID()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = timeNow()
	}

	query := `INSERT INTO accounts (id, email, password_hash, verified, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.Verified,
		int64(entities.NewUnixMillis(account.CreatedAt)),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ports.ErrAccountExists
		}
		return fmt.Errorf("saving account: %w", err)
	}
	return nil
}

// MarkVerified flags the account's email as verified.
func (r *Repository) MarkVerified(ctx context.Context, email string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE accounts SET verified = 1 WHERE email = ?`, email)
	if err != nil {
		return fmt.Errorf("verifying account: %w", err)
	}
	return requireRow(result)
}

// Audit log methods.

// LogAction records an action outside of an event write.
func (r *Repository) LogAction(ctx context.Context, userID, action, eventID string, details map[string]any) error {
	return logAction(ctx, r.db, userID, action, eventID, details)
}

// FindAuditLog finds audit log entries for one of the user's events, newest first.
func (r *Repository) FindAuditLog(ctx context.Context, userID, eventID string) ([]entities.AuditEntry, error) {
	query := `
		SELECT id, user_id, action, event_id, details, created_at
		FROM audit_log
		WHERE user_id = ? AND event_id = ?
		ORDER BY id DESC
	`
	return r.queryAuditLog(ctx, query, userID, eventID)
}

// FindAuditLogByAction finds the user's audit log entries by action type.
func (r *Repository) FindAuditLogByAction(ctx context.Context, userID, action string, limit int) ([]entities.AuditEntry, error) {
	query := `
		SELECT id, user_id, action, event_id, details, created_at
		FROM audit_log
		WHERE user_id = ? AND action = ?
		ORDER BY id DESC
		LIMIT ?
	`
	return r.queryAuditLog(ctx, query, userID, action, limit)
}

// queryAuditLog is a helper to execute audit log queries.
func (r *Repository) queryAuditLog(ctx context.Context, query string, args ...any) ([]entities.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	var entries []entities.AuditEntry
	for rows.Next() {
		var entry entities.AuditEntry
		var eventID, details sql.NullString
		var createdAt int64

		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Action,
			&eventID,
			&details,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		entry.EventID = eventID.String
		entry.CreatedAt, _ = entities.ToInstant(entities.UnixMillis(createdAt))

		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling details: %w", err)
			}
		}

		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func logAction(ctx context.Context, db execer, userID, action, eventID string, details map[string]any) error {
	var detailsJSON sql.NullString
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(data), Valid: true}
	}

	var eventIDPtr sql.NullString
	if eventID != "" {
		eventIDPtr = sql.NullString{String: eventID, Valid: true}
	}

	query := `INSERT INTO audit_log (user_id, action, event_id, details, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query, userID, action, eventIDPtr, detailsJSON, int64(entities.NewUnixMillis(timeNow())))
	if err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

func (r *Repository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return ports.ErrRecordNotFound
	}
	return nil
}
