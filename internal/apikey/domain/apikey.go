// Package domain defines core business entities for API key management.
// An API key binds a user to a single API and is the credential the
// gateway resolves on every metered call. Keys are scoped per API, a
// user holds at most one active key for each API they can reach.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// APIKey represents a credential granting a user metered access to one API.
type APIKey struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	APIID     uuid.UUID  `json:"api_id"`
	Key       string     `json:"key"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// IssueInput contains the data needed to issue an API key.
type IssueInput struct {
	UserID uuid.UUID
	APIID  uuid.UUID
}
