package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/mocks"
)

func TestProvider_SignUpAndSignIn(t *testing.T) {
	users := mocks.NewUserRepository()
	p := NewProvider(users)
	ctx := context.Background()

	user, err := p.SignUp(ctx, " Mei@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "mei@example.com", user.Email)
	assert.False(t, user.EmailVerified)
	assert.Equal(t, user, p.CurrentUser())

	stored := users.Accounts["mei@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, []byte("secret1"), stored.PasswordHash)

	require.NoError(t, p.SignOut(ctx))
	assert.Nil(t, p.CurrentUser())

	user, err = p.SignIn(ctx, "MEI@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, user.ID)
}

func TestProvider_SignUpErrors(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*mocks.UserRepository)
		password string
		wantKind entities.AuthErrorKind
	}{
		{
			name:     "weak password",
			password: "12345",
			wantKind: entities.AuthWeakPassword,
		},
		{
			name: "email in use",
			setup: func(u *mocks.UserRepository) {
				u.Accounts["mei@example.com"] = &entities.Account{Email: "mei@example.com"}
			},
			password: "secret1",
			wantKind: entities.AuthEmailInUse,
		},
		{
			name:     "store failure",
			setup:    func(u *mocks.UserRepository) { u.Err = errors.New("disk full") },
			password: "secret1",
			wantKind: entities.AuthUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := mocks.NewUserRepository()
			if tt.setup != nil {
				tt.setup(users)
			}
			p := NewProvider(users)

			_, err := p.SignUp(context.Background(), "mei@example.com", tt.password)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, entities.AuthKindOf(err))
			assert.Nil(t, p.CurrentUser())
		})
	}
}

func TestProvider_SignUp_InvalidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{name: "empty", email: ""},
		{name: "blank", email: "   "},
		{name: "no at sign", email: "mei.example.com"},
		{name: "no domain", email: "mei@"},
		{name: "no local part", email: "@example.com"},
		{name: "display name", email: "Mei <mei@example.com>"},
		{name: "two addresses", email: "a@example.com, b@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := mocks.NewUserRepository()
			p := NewProvider(users)

			_, err := p.SignUp(context.Background(), tt.email, "secret1")
			require.Error(t, err)
			assert.Equal(t, entities.AuthInvalidEmail, entities.AuthKindOf(err))
			assert.Empty(t, users.Accounts)
			assert.Nil(t, p.CurrentUser())
		})
	}
}

func TestProvider_SignIn_InvalidCredentials(t *testing.T) {
	users := mocks.NewUserRepository()
	p := NewProvider(users)
	ctx := context.Background()

	_, err := p.SignUp(ctx, "mei@example.com", "secret1")
	require.NoError(t, err)

	_, err = p.SignIn(ctx, "mei@example.com", "wrong-password")
	assert.Equal(t, entities.AuthInvalidCredentials, entities.AuthKindOf(err))

	_, err = p.SignIn(ctx, "nobody@example.com", "secret1")
	assert.Equal(t, entities.AuthInvalidCredentials, entities.AuthKindOf(err))
}

func TestProvider_SignIn_RateLimited(t *testing.T) {
	users := mocks.NewUserRepository()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	p := NewProvider(users, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	_, err := p.SignUp(ctx, "mei@example.com", "secret1")
	require.NoError(t, err)

	for i := 0; i < MaxFailedAttempts; i++ {
		_, err := p.SignIn(ctx, "mei@example.com", "nope-nope")
		require.Equal(t, entities.AuthInvalidCredentials, entities.AuthKindOf(err))
	}

	_, err = p.SignIn(ctx, "mei@example.com", "secret1")
	assert.Equal(t, entities.AuthRateLimited, entities.AuthKindOf(err))

	now = now.Add(FailureWindow + time.Second)
	_, err = p.SignIn(ctx, "mei@example.com", "secret1")
	assert.NoError(t, err)
}

func TestProvider_RequireVerification(t *testing.T) {
	users := mocks.NewUserRepository()
	p := NewProvider(users, WithRequireVerification(true))
	ctx := context.Background()

	_, err := p.SignUp(ctx, "mei@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, p.SignOut(ctx))

	_, err = p.SignIn(ctx, "mei@example.com", "secret1")
	assert.Equal(t, entities.AuthEmailNotVerified, entities.AuthKindOf(err))

	require.NoError(t, p.VerifyEmail(ctx, "mei@example.com"))

	user, err := p.SignIn(ctx, "mei@example.com", "secret1")
	require.NoError(t, err)
	assert.True(t, user.EmailVerified)
}

func TestProvider_VerifyEmail_UpdatesCurrentUser(t *testing.T) {
	users := mocks.NewUserRepository()
	p := NewProvider(users)
	ctx := context.Background()

	_, err := p.SignUp(ctx, "mei@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, p.VerifyEmail(ctx, "Mei@Example.com"))
	assert.True(t, p.CurrentUser().EmailVerified)

	assert.Error(t, p.VerifyEmail(ctx, "nobody@example.com"))
}

func TestProvider_OnAuthStateChange(t *testing.T) {
	users := mocks.NewUserRepository()
	p := NewProvider(users)
	ctx := context.Background()

	var seen []*entities.User
	unsubscribe := p.OnAuthStateChange(func(u *entities.User) { seen = append(seen, u) })

	_, err := p.SignUp(ctx, "mei@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, p.SignOut(ctx))

	require.Len(t, seen, 2)
	assert.Equal(t, "mei@example.com", seen[0].Email)
	assert.Nil(t, seen[1])

	unsubscribe()
	unsubscribe()
	_, err = p.SignIn(ctx, "mei@example.com", "secret1")
	require.NoError(t, err)
	assert.Len(t, seen, 2)
}

func TestProvider_WithSession(t *testing.T) {
	restored := &entities.User{ID: "u1", Email: "mei@example.com"}
	p := NewProvider(mocks.NewUserRepository(), WithSession(restored))

	got := p.CurrentUser()
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.ID)
}
