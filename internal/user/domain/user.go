// Package domain defines the user account domain models.
//
// Accounts are keyed by phone number and authenticate through one-time
// verification codes. Successful verification yields a session token that
// protects the account-facing endpoints.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}

// RegisterInput contains the parameters for registering a new user.
type RegisterInput struct {
	Name  string
	Email string
	Phone string
}

// LoginOutput is returned after successful code verification.
// PlainToken is only returned once and must be stored by the caller.
type LoginOutput struct {
	User       *User
	PlainToken string
	ExpiresAt  time.Time
}
