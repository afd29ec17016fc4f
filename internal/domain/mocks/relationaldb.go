package mocks

import (
	"context"
	"strings"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/ports"
)

// UserRepository is a mock implementation of ports.UserRepository.
type UserRepository struct {
	Accounts map[string]*entities.Account
	Err      error
}

// NewUserRepository creates a new mock UserRepository.
func NewUserRepository() *UserRepository {
	return &UserRepository{Accounts: make(map[string]*entities.Account)}
}

// FindAccountByEmail returns the stored account or nil.
func (m *UserRepository) FindAccountByEmail(_ context.Context, email string) (*entities.Account, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Accounts[strings.ToLower(email)], nil
}

// SaveAccount stores an account unless the email is taken.
func (m *UserRepository) SaveAccount(_ context.Context, account *entities.Account) error {
	if m.Err != nil {
		return m.Err
	}
	key := strings.ToLower(account.Email)
	if _, ok := m.Accounts[key]; ok {
		return ports.ErrAccountExists
	}
	if account.ID == "" {
		account.ID = "acct-" + key
	}
	m.Accounts[key] = account
	return nil
}

// MarkVerified flags the account as verified.
func (m *UserRepository) MarkVerified(_ context.Context, email string) error {
	if m.Err != nil {
		return m.Err
	}
	a, ok := m.Accounts[strings.ToLower(email)]
	if !ok {
		return ports.ErrRecordNotFound
	}
	a.Verified = true
	return nil
}
