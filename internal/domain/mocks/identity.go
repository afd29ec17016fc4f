package mocks

import (
	"context"
	"sync"

	"github.com/messixieziyi/life-story/internal/domain/entities"
)

// IdentityProvider is a mock implementation of ports.IdentityProvider.
type IdentityProvider struct {
	// User is returned by SignIn and SignUp on success.
	User *entities.User

	SignInErr  error
	SignUpErr  error
	SignOutErr error

	mu          sync.Mutex
	current     *entities.User
	subscribers map[int]func(*entities.User)
	nextSub     int

	// Call tracking
	SignInCallCount  int
	SignUpCallCount  int
	SignOutCallCount int
	LastEmail        string
	LastPassword     string
}

// SignIn returns the configured user or error.
func (m *IdentityProvider) SignIn(_ context.Context, email, password string) (*entities.User, error) {
	m.SignInCallCount++
	m.LastEmail, m.LastPassword = email, password
	if m.SignInErr != nil {
		return nil, m.SignInErr
	}
	m.setCurrent(m.User)
	return m.User, nil
}

// SignUp returns the configured user or error.
func (m *IdentityProvider) SignUp(_ context.Context, email, password string) (*entities.User, error) {
	m.SignUpCallCount++
	m.LastEmail, m.LastPassword = email, password
	if m.SignUpErr != nil {
		return nil, m.SignUpErr
	}
	m.setCurrent(m.User)
	return m.User, nil
}

// SignOut clears the current user.
func (m *IdentityProvider) SignOut(_ context.Context) error {
	m.SignOutCallCount++
	if m.SignOutErr != nil {
		return m.SignOutErr
	}
	m.setCurrent(nil)
	return nil
}

// CurrentUser returns the signed-in user.
func (m *IdentityProvider) CurrentUser() *entities.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// OnAuthStateChange registers fn.
func (m *IdentityProvider) OnAuthStateChange(fn func(*entities.User)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.subscribers == nil {
		m.subscribers = make(map[int]func(*entities.User))
	}
	id := m.nextSub
	m.nextSub++
	m.subscribers[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subscribers, id)
	}
}

func (m *IdentityProvider) setCurrent(u *entities.User) {
	m.mu.Lock()
	m.current = u
	subs := make([]func(*entities.User), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subs = append(subs, fn)
	}
	m.mu.Unlock()
	for _, fn := range subs {
		fn(u)
	}
}
