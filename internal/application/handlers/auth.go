package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/services"
	"github.com/messixieziyi/life-story/internal/infrastructure/config"
)

// ErrNotSignedIn is returned by commands that need a signed-in user.
var ErrNotSignedIn = errors.New("not signed in (run 'lifestory login' first)")

// EmailVerifier marks an account's email as verified.
type EmailVerifier interface {
	VerifyEmail(ctx context.Context, email string) error
}

// AuthHandler signs users in and out and keeps the session file in step.
type AuthHandler struct {
	auth     *services.AuthService
	verifier EmailVerifier
	basePath string
	now      func() time.Time
}

// NewAuthHandler creates a new auth handler. The session file lives under basePath.
func NewAuthHandler(auth *services.AuthService, verifier EmailVerifier, basePath string) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		verifier: verifier,
		basePath: basePath,
		now:      time.Now,
	}
}

// HandleSignUp registers an account and stores the new session.
func (h *AuthHandler) HandleSignUp(ctx context.Context, email, password, confirm string) (*entities.User, error) {
	user, err := h.auth.SignUp(ctx, email, password, confirm)
	if err != nil {
		return nil, err
	}
	if err := h.saveSession(user); err != nil {
		return nil, err
	}
	return user, nil
}

// HandleSignIn authenticates and stores the session.
func (h *AuthHandler) HandleSignIn(ctx context.Context, email, password string) (*entities.User, error) {
	user, err := h.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := h.saveSession(user); err != nil {
		return nil, err
	}
	return user, nil
}

// HandleSignOut ends the session and removes the session file.
func (h *AuthHandler) HandleSignOut(ctx context.Context) error {
	if err := h.auth.SignOut(ctx); err != nil {
		return err
	}
	return config.ClearSession(h.basePath)
}

// HandleCurrent returns the signed-in user, or ErrNotSignedIn.
func (h *AuthHandler) HandleCurrent() (*entities.User, error) {
	user := h.auth.Current()
	if user == nil {
		return nil, ErrNotSignedIn
	}
	return user, nil
}

// HandleVerifyEmail marks email as verified. When it is the signed-in user's
// address the stored session is updated too.
func (h *AuthHandler) HandleVerifyEmail(ctx context.Context, email string) error {
	if h.verifier == nil {
		return errors.New("email verification is not supported by this store")
	}
	if err := h.verifier.VerifyEmail(ctx, email); err != nil {
		return fmt.Errorf("verifying email: %w", err)
	}
	if user := h.auth.Current(); user != nil && user.EmailVerified {
		return h.saveSession(user)
	}
	return nil
}

func (h *AuthHandler) saveSession(user *entities.User) error {
	session := &config.Session{User: user, SignedInAt: h.now().UTC()}
	if err := session.Save(h.basePath); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}
