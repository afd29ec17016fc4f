package ports

import (
	"context"
	"errors"

	"github.com/messixieziyi/life-story/internal/domain/entities"
)

// ErrRecordNotFound is returned by stores when an id does not exist for the user.
var ErrRecordNotFound = errors.New("record not found")

// RecordStore is one user's view of the remote record store.
type RecordStore interface {
	// List returns every record owned by the user, in store order.
	List(ctx context.Context) ([]entities.LifeEvent, error)

	// Create persists a normalized record and returns the id assigned by the store.
	Create(ctx context.Context, event *entities.LifeEvent) (string, error)

	// Update replaces the stored record with the given id.
	Update(ctx context.Context, id string, event *entities.LifeEvent) error

	// Delete removes the record. Other records referring to it are left untouched.
	Delete(ctx context.Context, id string) error
}

// EventRepository is the multi-user persistence surface implemented by storage adapters.
// Every operation is scoped by an opaque user id.
type EventRepository interface {
	ListEvents(ctx context.Context, userID string) ([]entities.LifeEvent, error)
	CreateEvent(ctx context.Context, userID string, event *entities.LifeEvent) (string, error)
	UpdateEvent(ctx context.Context, userID, id string, event *entities.LifeEvent) error
	DeleteEvent(ctx context.Context, userID, id string) error
	Close() error
}

// AuditLog is implemented by stores that keep a write history.
type AuditLog interface {
	FindAuditLog(ctx context.Context, userID, eventID string) ([]entities.AuditEntry, error)
}

// UserRepository persists local accounts for the built-in identity provider.
type UserRepository interface {
	// FindAccountByEmail returns nil, nil when no account exists.
	FindAccountByEmail(ctx context.Context, email string) (*entities.Account, error)

	// SaveAccount inserts an account. It returns ErrAccountExists if the email is taken.
	SaveAccount(ctx context.Context, account *entities.Account) error

	// MarkVerified flags the account's email as verified.
	MarkVerified(ctx context.Context, email string) error
}
