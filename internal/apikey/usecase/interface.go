// Package usecase defines business logic interfaces for API key operations.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/gateway/internal/apikey/domain"
	catalogDomain "github.com/allisson/gateway/internal/catalog/domain"
)

// APIRepository defines the catalog lookup key issuance needs.
type APIRepository interface {
	// Get retrieves an API by ID. Returns ErrAPINotFound if not found.
	Get(ctx context.Context, apiID uuid.UUID) (*catalogDomain.API, error)
}

// APIKeyRepository defines persistence operations for API keys.
// Implementations must support transaction-aware operations via context propagation.
type APIKeyRepository interface {
	// Create stores a new APIKey in the repository.
	Create(ctx context.Context, apiKey *apikeyDomain.APIKey) error

	// Get retrieves an APIKey by ID. Returns ErrAPIKeyNotFound if not found.
	Get(ctx context.Context, apiKeyID uuid.UUID) (*apikeyDomain.APIKey, error)

	// GetActiveByKey retrieves the active APIKey matching the key value.
	// Returns ErrAPIKeyNotFound for unknown or revoked keys.
	GetActiveByKey(ctx context.Context, key string) (*apikeyDomain.APIKey, error)

	// GetActiveByUserAndAPI retrieves the user's active APIKey for an API.
	// Returns ErrAPIKeyNotFound if none exists.
	GetActiveByUserAndAPI(ctx context.Context, userID, apiID uuid.UUID) (*apikeyDomain.APIKey, error)

	// ListByUser retrieves a user's API keys with pagination.
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*apikeyDomain.APIKey, error)

	// Deactivate revokes an active APIKey. Returns ErrAPIKeyNotFound if the
	// key doesn't exist or is already revoked.
	Deactivate(ctx context.Context, apiKeyID uuid.UUID, revokedAt time.Time) error
}

// EntitlementRepository defines the subscription lookups API key logic needs.
type EntitlementRepository interface {
	// HasAccess reports whether the user holds a live subscription to a
	// package containing the API.
	HasAccess(ctx context.Context, userID, apiID uuid.UUID, now time.Time) (bool, error)

	// AccessibleAPIIDs retrieves the distinct API IDs the user can currently
	// reach through live subscriptions.
	AccessibleAPIIDs(ctx context.Context, userID uuid.UUID, now time.Time) ([]uuid.UUID, error)
}

// APIKeyUseCase defines business logic operations for API keys.
// Keys are scoped to the calling user, a key can only be listed or revoked
// by its owner.
type APIKeyUseCase interface {
	// Issue creates an API key granting the user access to an API. Issuing is
	// idempotent, requesting a key for an API the user already holds an
	// active key for returns the existing key. Returns ErrNotEntitled when no
	// live subscription covers the API.
	Issue(ctx context.Context, input *apikeyDomain.IssueInput) (*apikeyDomain.APIKey, error)

	// Revoke deactivates an API key immediately. Calls in flight at
	// revocation time complete, subsequent resolutions fail. Returns
	// ErrAPIKeyNotFound if the key doesn't exist, is already revoked, or
	// belongs to another user.
	Revoke(ctx context.Context, userID, apiKeyID uuid.UUID) error

	// List retrieves the user's API keys with pagination. Active keys for
	// APIs no longer covered by a live subscription are filtered out.
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*apikeyDomain.APIKey, error)
}
