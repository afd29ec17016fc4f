// Package identity provides a local email/password identity provider backed
// by any ports.UserRepository.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/ports"
)

const (
	// MaxFailedAttempts is the number of failed sign-ins allowed per window.
	MaxFailedAttempts = 5
	// FailureWindow is how long a failed sign-in counts against the limit.
	FailureWindow = 15 * time.Minute
)

// Provider implements ports.IdentityProvider with bcrypt-hashed local accounts.
type Provider struct {
	users               ports.UserRepository
	requireVerification bool
	now                 func() time.Time

	mu          sync.Mutex
	current     *entities.User
	failures    map[string][]time.Time
	subscribers map[int]func(*entities.User)
	nextSub     int
}

// Option configures a Provider.
type Option func(*Provider)

// WithRequireVerification rejects sign-in for unverified emails.
func WithRequireVerification(require bool) Option {
	return func(p *Provider) {
		p.requireVerification = require
	}
}

// WithSession restores a previously signed-in user.
func WithSession(user *entities.User) Option {
	return func(p *Provider) {
		p.current = user
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		p.now = now
	}
}

// NewProvider creates a provider over users.
func NewProvider(users ports.UserRepository, opts ...Option) *Provider {
	p := &Provider{
		users:       users,
		now:         time.Now,
		failures:    make(map[string][]time.Time),
		subscribers: make(map[int]func(*entities.User)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SignIn checks the password and makes the account the current user.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*entities.User, error) {
	key := normalizeEmail(email)
	if p.limited(key) {
		return nil, entities.NewAuthError(entities.AuthOpSignIn, entities.AuthRateLimited, nil)
	}

	account, err := p.users.FindAccountByEmail(ctx, key)
	if err != nil {
		return nil, entities.NewAuthError(entities.AuthOpSignIn, entities.AuthUnknown, err)
	}
	if account == nil || bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)) != nil {
		p.recordFailure(key)
		return nil, entities.NewAuthError(entities.AuthOpSignIn, entities.AuthInvalidCredentials, nil)
	}
	if p.requireVerification && !account.Verified {
		return nil, entities.NewAuthError(entities.AuthOpSignIn, entities.AuthEmailNotVerified, nil)
	}

	p.clearFailures(key)
	user := account.User()
	p.setCurrent(user)
	return user, nil
}

// SignUp creates an account and signs it in.
func (p *Provider) SignUp(ctx context.Context, email, password string) (*entities.User, error) {
	key := normalizeEmail(email)
	if !validEmail(key) {
		return nil, entities.NewAuthError(entities.AuthOpSignUp, entities.AuthInvalidEmail, nil)
	}
	if len([]rune(password)) < entities.MinPasswordLength {
		return nil, entities.NewAuthError(entities.AuthOpSignUp, entities.AuthWeakPassword, nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		// bcrypt rejects passwords over 72 bytes
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, entities.NewAuthError(entities.AuthOpSignUp, entities.AuthWeakPassword, err)
		}
		return nil, entities.NewAuthError(entities.AuthOpSignUp, entities.AuthUnknown, fmt.Errorf("hashing password: %w", err))
	}

	account := &entities.Account{
		Email:        key,
		PasswordHash: hash,
		CreatedAt:    p.now(),
	}
	if err := p.users.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, ports.ErrAccountExists) {
			return nil, entities.NewAuthError(entities.AuthOpSignUp, entities.AuthEmailInUse, nil)
		}
		return nil, entities.NewAuthError(entities.AuthOpSignUp, entities.AuthUnknown, err)
	}

	user := account.User()
	p.setCurrent(user)
	return user, nil
}

// SignOut clears the current user.
func (p *Provider) SignOut(ctx context.Context) error {
	p.setCurrent(nil)
	return nil
}

// VerifyEmail marks the address as verified. It stands in for the emailed
// confirmation link of a hosted provider.
func (p *Provider) VerifyEmail(ctx context.Context, email string) error {
	key := normalizeEmail(email)
	if err := p.users.MarkVerified(ctx, key); err != nil {
		return fmt.Errorf("verifying %s: %w", key, err)
	}

	p.mu.Lock()
	current := p.current
	p.mu.Unlock()
	if current != nil && strings.EqualFold(current.Email, key) && !current.EmailVerified {
		updated := *current
		updated.EmailVerified = true
		p.setCurrent(&updated)
	}
	return nil
}

// CurrentUser returns the signed-in user or nil.
func (p *Provider) CurrentUser() *entities.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	u := *p.current
	return &u
}

// OnAuthStateChange registers fn for every state change.
func (p *Provider) OnAuthStateChange(fn func(*entities.User)) (unsubscribe func()) {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subscribers[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subscribers, id)
			p.mu.Unlock()
		})
	}
}

func (p *Provider) setCurrent(user *entities.User) {
	p.mu.Lock()
	p.current = user
	subs := make([]func(*entities.User), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		var u *entities.User
		if user != nil {
			copied := *user
			u = &copied
		}
		fn(u)
	}
}

// limited reports whether key has used up its failed attempts in the window.
func (p *Provider) limited(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.prune(key)) >= MaxFailedAttempts
}

func (p *Provider) recordFailure(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures[key] = append(p.prune(key), p.now())
}

func (p *Provider) clearFailures(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failures, key)
}

// prune drops failures older than FailureWindow. Caller holds mu.
func (p *Provider) prune(key string) []time.Time {
	cutoff := p.now().Add(-FailureWindow)
	kept := p.failures[key][:0]
	for _, t := range p.failures[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(p.failures, key)
		return nil
	}
	p.failures[key] = kept
	return kept
}

// validEmail accepts a bare addr-spec with a non-empty domain; display-name
// forms such as "Mei <mei@example.com>" are rejected.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		return false
	}
	at := strings.LastIndexByte(email, '@')
	return at > 0 && at < len(email)-1
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
