package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/messixieziyi/life-story/internal/domain/entities"
)

// Session is the signed-in user persisted between CLI invocations.
type Session struct {
	User       *entities.User `yaml:"user,omitempty"`
	SignedInAt time.Time      `yaml:"signed_in_at,omitempty"`
}

// LoadSession loads the session file. A missing file is an empty session.
func LoadSession(basePath string) (*Session, error) {
	data, err := os.ReadFile(SessionFilePath(basePath))
	if os.IsNotExist(err) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing session file: %w", err)
	}

	return &s, nil
}

// Save writes the session file, readable by the owner only.
func (s *Session) Save(basePath string) error {
	if err := os.MkdirAll(ConfigDir(basePath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	if err := os.WriteFile(SessionFilePath(basePath), data, 0600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}

	return nil
}

// SignedIn reports whether the session holds a user.
func (s *Session) SignedIn() bool {
	return s.User != nil && s.User.ID != ""
}

// ClearSession removes the session file.
func ClearSession(basePath string) error {
	err := os.Remove(SessionFilePath(basePath))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}
