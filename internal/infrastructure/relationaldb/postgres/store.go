// Package postgres provides a Postgres implementation of the record and account stores.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/ports"
	"github.com/messixieziyi/life-story/internal/infrastructure/config"
	"github.com/messixieziyi/life-story/internal/infrastructure/relationaldb"
)

// uniqueViolation is the SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

var timeNow = time.Now

const schema = `
CREATE TABLE IF NOT EXISTS life_events (
	seq BIGSERIAL UNIQUE,
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	type TEXT NOT NULL,
	date BIGINT NOT NULL DEFAULT 0,
	created_at BIGINT NOT NULL,
	updated_at BIGINT NOT NULL,
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
CREATE INDEX IF NOT EXISTS idx_life_events_user ON life_events(user_id, seq);

CREATE TABLE IF NOT EXISTS accounts (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL,
	password_hash BYTEA NOT NULL,
	verified BOOLEAN NOT NULL DEFAULT FALSE,
	created_at BIGINT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_email ON accounts(lower(email));

CREATE TABLE IF NOT EXISTS audit_log (
	id BIGSERIAL PRIMARY KEY,
	user_id TEXT NOT NULL,
	action TEXT NOT NULL,
	event_id TEXT,
	details TEXT,
	created_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_log_event ON audit_log(user_id, event_id);
`

// Store implements ports.EventRepository, ports.UserRepository and ports.AuditLog.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a connection pool for cfg.DSN.
func Connect(ctx context.Context, cfg config.PostgresConfig) (*Store, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// Ready checks that the database answers.
func (s *Store) Ready(ctx context.Context) error {
	var one int
	return s.pool.QueryRow(ctx, "SELECT 1").Scan(&one)
}

// EnsureSchema creates the tables if they don't exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// ListEvents returns the user's events in insertion order.
func (s *Store) ListEvents(ctx context.Context, userID string) ([]entities.LifeEvent, error) {
	query := `SELECT ` + relationaldb.ColumnList() + ` FROM life_events WHERE user_id = $1 ORDER BY seq`

	rows, err := s.pool.Query(ctx, query, userID)
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
func (s *Store) CreateEvent(ctx context.Context, userID string, ev *entities.LifeEvent) (string, error) {
	stored := ev.Clone()
	stored.ID = uuid.New().String()

	row, err := relationaldb.NewEventRow(userID, &stored)
	if err != nil {
		return "", err
	}

	placeholders := make([]string, len(relationaldb.EventColumns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := `INSERT INTO life_events (` + relationaldb.ColumnList() + `) VALUES (` + strings.Join(placeholders, ", ") + `)`

	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, query, row.Values()...); err != nil {
			return fmt.Errorf("inserting event: %w", err)
		}
		return logAction(ctx, tx, userID, entities.AuditCreate, stored.ID, map[string]any{"title": stored.Title})
	})
	if err != nil {
		return "", err
	}
	return stored.ID, nil
}

// UpdateEvent replaces the stored event.
func (s *Store) UpdateEvent(ctx context.Context, userID, id string, ev *entities.LifeEvent) error {
	stored := ev.Clone()
	stored.ID = id

	row, err := relationaldb.NewEventRow(userID, &stored)
	if err != nil {
		return err
	}

	cols := relationaldb.EventColumns[2:]
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", c, i+1)
	}
	n := len(cols)
	query := fmt.Sprintf(`UPDATE life_events SET %s WHERE id = $%d AND user_id = $%d`, strings.Join(sets, ", "), n+1, n+2)
	args := append(row.Values()[2:], id, userID)

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("updating event: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ports.ErrRecordNotFound
		}
		return logAction(ctx, tx, userID, entities.AuditUpdate, id, map[string]any{"title": stored.Title})
	})
}

// DeleteEvent removes an event.
func (s *Store) DeleteEvent(ctx context.Context, userID, id string) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM life_events WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return fmt.Errorf("deleting event: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ports.ErrRecordNotFound
		}
		return logAction(ctx, tx, userID, entities.AuditDelete, id, nil)
	})
}

// FindAccountByEmail finds an account by email (case-insensitive). Returns nil, nil if not found.
func (s *Store) FindAccountByEmail(ctx context.Context, email string) (*entities.Account, error) {
	query := `SELECT id, email, password_hash, verified, created_at FROM accounts WHERE lower(email) = lower($1)`

	var a entities.Account
	var createdAt int64
	err := s.pool.QueryRow(ctx, query, email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Verified, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding account: %w", err)
	}
	a.CreatedAt, _ = entities.ToInstant(entities.UnixMillis(createdAt))
	return &a, nil
}

// SaveAccount inserts a new account.
func (s *Store) SaveAccount(ctx context.Context, account *entities.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = timeNow()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO accounts (id, email, password_hash, verified, created_at) VALUES ($1, $2, $3, $4, $5)`,
		account.ID, account.Email, account.PasswordHash, account.Verified,
		int64(entities.NewUnixMillis(account.CreatedAt)),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ports.ErrAccountExists
		}
		return fmt.Errorf("saving account: %w", err)
	}
	return nil
}

// MarkVerified flags the account's email as verified.
func (s *Store) MarkVerified(ctx context.Context, email string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE accounts SET verified = TRUE WHERE lower(email) = lower($1)`, email)
	if err != nil {
		return fmt.Errorf("verifying account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrRecordNotFound
	}
	return nil
}

// FindAuditLog finds audit log entries for one of the user's events, newest first.
func (s *Store) FindAuditLog(ctx context.Context, userID, eventID string) ([]entities.AuditEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, action, COALESCE(event_id, ''), COALESCE(details, ''), created_at
		FROM audit_log
		WHERE user_id = $1 AND event_id = $2
		ORDER BY id DESC`, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	var entries []entities.AuditEntry
	for rows.Next() {
		var entry entities.AuditEntry
		var details string
		var createdAt int64
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Action, &entry.EventID, &details, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		entry.CreatedAt, _ = entities.ToInstant(entities.UnixMillis(createdAt))
		if details != "" {
			if err := json.Unmarshal([]byte(details), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling details: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func logAction(ctx context.Context, tx pgx.Tx, userID, action, eventID string, details map[string]any) error {
	var detailsJSON *string
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling details: %w", err)
		}
		s := string(data)
		detailsJSON = &s
	}

	_, err := tx.Exec(ctx,
		`INSERT INTO audit_log (user_id, action, event_id, details, created_at) VALUES ($1, $2, $3, $4, $5)`,
		userID, action, eventID, detailsJSON, int64(entities.NewUnixMillis(timeNow())),
	)
	if err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}
