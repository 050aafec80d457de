package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session represents an authenticated session backed by an opaque token.
// Only the SHA-256 hash of the token is stored.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the session has passed its expiration time.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// VerificationCode is a short-lived one-time code sent to a phone number.
// Only the SHA-256 hash of the code is stored. ConsumedAt is set when the
// code is used so it can never be replayed.
type VerificationCode struct {
	ID         uuid.UUID
	Phone      string
	CodeHash   string
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}

// IsUsable reports whether the code can still be redeemed.
func (v *VerificationCode) IsUsable(now time.Time) bool {
	return v.ConsumedAt == nil && now.Before(v.ExpiresAt)
}
