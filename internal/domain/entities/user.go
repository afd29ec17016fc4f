package entities

import "time"

// DemoUserID owns records when no backend is configured.
const DemoUserID = "demo-user"

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 6

// User is the opaque identity the journal is scoped to.
type User struct {
	ID            string `json:"id" yaml:"id"`
	Email         string `json:"email" yaml:"email"`
	EmailVerified bool   `json:"email_verified" yaml:"email_verified"`
}

// Account is a locally stored credential record.
type Account struct {
	ID           string
	Email        string
	PasswordHash []byte
	Verified     bool
	CreatedAt    time.Time
}

// User returns the public identity of the account.
func (a *Account) User() *User {
	return &User{ID: a.ID, Email: a.Email, EmailVerified: a.Verified}
}
