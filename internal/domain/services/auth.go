package services

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/ports"
)

// Form errors returned before the identity provider is contacted.
var (
	ErrEmailRequired    = errors.New("请输入邮箱")
	ErrPasswordRequired = errors.New("请输入密码")
	ErrPasswordMismatch = errors.New("两次输入的密码不一致")
)

// AuthService validates credential forms and maps provider failures to *entities.AuthError.
type AuthService struct {
	provider ports.IdentityProvider
	logger   *log.Logger
}

// NewAuthService creates an auth service over provider.
func NewAuthService(provider ports.IdentityProvider, logger *log.Logger) *AuthService {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &AuthService{provider: provider, logger: logger}
}

// SignIn authenticates with email and password.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*entities.User, error) {
	email = strings.TrimSpace(email)
	if err := checkCredentials(email, password); err != nil {
		return nil, err
	}

	user, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, s.authError(entities.AuthOpSignIn, err)
	}
	return user, nil
}

// SignUp registers a new account. confirm must repeat password.
func (s *AuthService) SignUp(ctx context.Context, email, password, confirm string) (*entities.User, error) {
	email = strings.TrimSpace(email)
	if err := checkCredentials(email, password); err != nil {
		return nil, err
	}
	if password != confirm {
		return nil, ErrPasswordMismatch
	}
	if len([]rune(password)) < entities.MinPasswordLength {
		return nil, entities.NewAuthError(entities.AuthOpSignUp, entities.AuthWeakPassword, nil)
	}

	user, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return nil, s.authError(entities.AuthOpSignUp, err)
	}
	return user, nil
}

// SignOut ends the current session.
func (s *AuthService) SignOut(ctx context.Context) error {
	if err := s.provider.SignOut(ctx); err != nil {
		return s.authError(entities.AuthOpSignOut, err)
	}
	return nil
}

// Current returns the signed-in user or nil.
func (s *AuthService) Current() *entities.User {
	return s.provider.CurrentUser()
}

// Watch calls fn on every auth state change until the returned func is called.
func (s *AuthService) Watch(fn func(*entities.User)) (unsubscribe func()) {
	return s.provider.OnAuthStateChange(fn)
}

// authError keeps provider AuthErrors as they are and wraps anything else as Unknown.
func (s *AuthService) authError(op entities.AuthOp, err error) error {
	var authErr *entities.AuthError
	if errors.As(err, &authErr) {
		if authErr.Op == "" {
			authErr.Op = op
		}
		return authErr
	}
	s.logger.Printf("%s failed: %v", op, err)
	return entities.NewAuthError(op, entities.AuthUnknown, err)
}

func checkCredentials(email, password string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if password == "" {
		return ErrPasswordRequired
	}
	return nil
}
