// Package documentdb stores life events as JSON documents in BadgerDB.
//
// Records live under users/<uid>/records/<id>. Ids are time-ordered so a
// prefix scan returns a user's records in insertion order.
package documentdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/ports"
)

var timeNow = time.Now

// document is the stored form of a LifeEvent. Instants use the
// seconds/nanoseconds wrapper and must be resolved with entities.ToInstant.
type document struct {
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Type          string              `json:"type"`
	Date          *entities.Timestamp `json:"date,omitempty"`
	CreatedAt     entities.Timestamp  `json:"createdAt"`
	UpdatedAt     entities.Timestamp  `json:"updatedAt"`
	Importance    string              `json:"importance"`
	Emotions      []string            `json:"emotions"`
	EmotionNote   string              `json:"emotionNote,omitempty"`
	Location      *entities.Location  `json:"location,omitempty"`
	Participants  []string            `json:"participants"`
	Tags          []string            `json:"tags,omitempty"`
	Category      string              `json:"category,omitempty"`
	Media         *entities.Media     `json:"media,omitempty"`
	RelatedEvents []string            `json:"relatedEvents,omitempty"`
	UserID        string              `json:"userId"`
}

type accountDocument struct {
	ID           string             `json:"id"`
	Email        string             `json:"email"`
	PasswordHash []byte             `json:"passwordHash"`
	Verified     bool               `json:"verified"`
	CreatedAt    entities.Timestamp `json:"createdAt"`
}

// Store implements ports.EventRepository and ports.UserRepository on BadgerDB.
type Store struct {
	db   *badger.DB
	path string
}

// Open opens (or creates) a store at dirPath. An empty path keeps data in memory.
func Open(dirPath string) (*Store, error) {
	opts := badger.DefaultOptions(dirPath).
		WithLoggingLevel(badger.ERROR)
	if dirPath == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger store: %w", err)
	}
	return &Store{db: db, path: dirPath}, nil
}

// Close closes the BadgerDB instance.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func recordPrefix(userID string) []byte {
	return []byte("users/" + userID + "/records/")
}

func recordKey(userID, id string) []byte {
	return append(recordPrefix(userID), id...)
}

func accountKey(email string) []byte {
	return []byte("accounts/" + strings.ToLower(strings.TrimSpace(email)))
}

// ListEvents returns the user's events in insertion order.
func (s *Store) ListEvents(ctx context.Context, userID string) ([]entities.LifeEvent, error) {
	prefix := recordPrefix(userID)
	var events []entities.LifeEvent

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			id := strings.TrimPrefix(string(item.Key()), string(prefix))
			err := item.Value(func(val []byte) error {
				var doc document
				if err := json.Unmarshal(val, &doc); err != nil {
					return fmt.Errorf("decoding record %s: %w", id, err)
				}
				events = append(events, doc.event(id))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}

// CreateEvent stores ev under a new time-ordered id.
func (s *Store) CreateEvent(ctx context.Context, userID string, ev *entities.LifeEvent) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating id: %w", err)
	}
	data, err := json.Marshal(newDocument(userID, ev))
	if err != nil {
		return "", fmt.Errorf("encoding record: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(userID, id.String()), data)
	})
	if err != nil {
		return "", fmt.Errorf("creating event: %w", err)
	}
	return id.String(), nil
}

// UpdateEvent replaces the stored document.
func (s *Store) UpdateEvent(ctx context.Context, userID, id string, ev *entities.LifeEvent) error {
	data, err := json.Marshal(newDocument(userID, ev))
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := recordKey(userID, id)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ports.ErrRecordNotFound
			}
			return fmt.Errorf("reading record: %w", err)
		}
		return txn.Set(key, data)
	})
}

// DeleteEvent removes the document.
func (s *Store) DeleteEvent(ctx context.Context, userID, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := recordKey(userID, id)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ports.ErrRecordNotFound
			}
			return fmt.Errorf("reading record: %w", err)
		}
		return txn.Delete(key)
	})
}

// FindAccountByEmail returns nil, nil when no account exists.
func (s *Store) FindAccountByEmail(ctx context.Context, email string) (*entities.Account, error) {
	var account *entities.Account
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(accountKey(email))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var doc accountDocument
			if err := json.Unmarshal(val, &doc); err != nil {
				return err
			}
			account = doc.account()
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("finding account: %w", err)
	}
	return account, nil
}

// SaveAccount inserts an account. It returns ports.ErrAccountExists if the email is taken.
func (s *Store) SaveAccount(ctx context.Context, account *entities.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = timeNow()
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := accountKey(account.Email)
		_, err := txn.Get(key)
		if err == nil {
			return ports.ErrAccountExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("reading account: %w", err)
		}
		return putAccount(txn, key, account)
	})
}

// MarkVerified flags the account's email as verified.
func (s *Store) MarkVerified(ctx context.Context, email string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := accountKey(email)
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ports.ErrRecordNotFound
		}
		if err != nil {
			return fmt.Errorf("reading account: %w", err)
		}

		var doc accountDocument
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		}); err != nil {
			return fmt.Errorf("decoding account: %w", err)
		}

		account := doc.account()
		account.Verified = true
		return putAccount(txn, key, account)
	})
}

func putAccount(txn *badger.Txn, key []byte, account *entities.Account) error {
	data, err := json.Marshal(accountDocument{
		ID:           account.ID,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		Verified:     account.Verified,
		CreatedAt:    entities.NewTimestamp(account.CreatedAt),
	})
	if err != nil {
		return fmt.Errorf("encoding account: %w", err)
	}
	return txn.Set(key, data)
}

func newDocument(userID string, ev *entities.LifeEvent) document {
	doc := document{
		Title:         ev.Title,
		Description:   ev.Description,
		Type:          string(ev.Type),
		CreatedAt:     entities.NewTimestamp(ev.CreatedAt),
		UpdatedAt:     entities.NewTimestamp(ev.UpdatedAt),
		Importance:    string(ev.Importance),
		EmotionNote:   ev.EmotionNote,
		Location:      ev.Location,
		Participants:  ev.Participants,
		Tags:          ev.Tags,
		Category:      ev.Category,
		RelatedEvents: ev.RelatedEvents,
		UserID:        userID,
	}
	if !ev.Date.IsZero() {
		ts := entities.NewTimestamp(ev.Date)
		doc.Date = &ts
	}
	if !ev.Media.IsEmpty() {
		doc.Media = ev.Media
	}
	doc.Emotions = make([]string, len(ev.Emotions))
	for i, e := range ev.Emotions {
		doc.Emotions[i] = string(e)
	}
	return doc
}

func (d *document) event(id string) entities.LifeEvent {
	ev := entities.LifeEvent{
		ID:            id,
		Title:         d.Title,
		Description:   d.Description,
		Type:          entities.EventType(d.Type),
		Importance:    entities.Importance(d.Importance),
		EmotionNote:   d.EmotionNote,
		Location:      d.Location,
		Participants:  d.Participants,
		Tags:          d.Tags,
		Category:      d.Category,
		Media:         d.Media,
		RelatedEvents: d.RelatedEvents,
		Emotions:      make([]entities.Emotion, len(d.Emotions)),
	}
	ev.Date, _ = entities.ToInstant(d.Date)
	ev.CreatedAt, _ = entities.ToInstant(d.CreatedAt)
	ev.UpdatedAt, _ = entities.ToInstant(d.UpdatedAt)
	for i, e := range d.Emotions {
		ev.Emotions[i] = entities.Emotion(e)
	}
	return ev
}

func (d *accountDocument) account() *entities.Account {
	a := &entities.Account{
		ID:           d.ID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Verified:     d.Verified,
	}
	a.CreatedAt, _ = entities.ToInstant(d.CreatedAt)
	return a
}
