package ports

import (
	"context"
	"errors"

	"github.com/messixieziyi/life-story/internal/domain/entities"
)

// ErrAccountExists is returned by UserRepository.SaveAccount for a taken email.
var ErrAccountExists = errors.New("account already exists")

// IdentityProvider authenticates users. Failures are *entities.AuthError.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (*entities.User, error)
	SignUp(ctx context.Context, email, password string) (*entities.User, error)
	SignOut(ctx context.Context) error

	// CurrentUser returns the signed-in user or nil.
	CurrentUser() *entities.User

	// OnAuthStateChange registers fn to be called with the new user (nil on
	// sign-out) after every state change. The returned func unsubscribes.
	OnAuthStateChange(fn func(*entities.User)) (unsubscribe func())
}
