// Package usecase implements the request forwarding pipeline: credential
// resolution, entitlement check, quota reservation, upstream forwarding,
// and deferred usage recording.
package usecase

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/gateway/internal/apikey/domain"
	catalogDomain "github.com/allisson/gateway/internal/catalog/domain"
	gatewayDomain "github.com/allisson/gateway/internal/gateway/domain"
)

// APIKeyRepository defines the key lookup the resolver needs.
type APIKeyRepository interface {
	// GetActiveByKey retrieves the active APIKey matching the key value.
	// Returns ErrAPIKeyNotFound for unknown or revoked keys.
	GetActiveByKey(ctx context.Context, key string) (*apikeyDomain.APIKey, error)
}

// APIRepository defines the catalog lookup the dispatcher needs.
type APIRepository interface {
	// Get retrieves an API by ID. Returns ErrAPINotFound if not found.
	Get(ctx context.Context, apiID uuid.UUID) (*catalogDomain.API, error)
}

// EntitlementRepository defines the subscription lookups the checker needs.
type EntitlementRepository interface {
	// HasAccess reports whether the user holds a live subscription to a
	// package containing the API.
	HasAccess(ctx context.Context, userID, apiID uuid.UUID, now time.Time) (bool, error)

	// AccessibleAPIIDs retrieves the distinct API IDs the user can currently
	// reach through live subscriptions.
	AccessibleAPIIDs(ctx context.Context, userID uuid.UUID, now time.Time) ([]uuid.UUID, error)
}

// QuotaReservationRepository defines the conditional-increment reservation
// the accountant needs.
type QuotaReservationRepository interface {
	// Reserve atomically increments the counter for the key's window if the
	// current count is below the limit.
	Reserve(ctx context.Context, apiKeyID uuid.UUID, windowStart time.Time, limit int64) (int64, bool, error)
}

// KeyResolver resolves an API key value to the identities behind it.
type KeyResolver interface {
	// Resolve maps a key value to its KeyContext. Returns an
	// ErrUnauthorized-wrapped error for unknown or revoked keys, and the
	// underlying error for infrastructure failures. A resolution is a
	// point-in-time read with no side effects.
	Resolve(ctx context.Context, key string) (*gatewayDomain.KeyContext, error)
}

// EntitlementChecker answers whether a user's live subscriptions cover an API.
type EntitlementChecker interface {
	// HasAccess reports whether the user can reach the API right now.
	// A missing qualifying subscription is false, never an error.
	HasAccess(ctx context.Context, userID, apiID uuid.UUID) (bool, error)

	// AccessibleAPIs retrieves the API IDs the user can currently reach.
	AccessibleAPIs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// QuotaAccountant admits requests against a monthly usage limit.
type QuotaAccountant interface {
	// CheckAndReserve reserves one unit of the key's monthly quota. The
	// reservation is atomic, concurrent attempts at the last remaining unit
	// admit at most one. A limit of zero or less always denies.
	CheckAndReserve(ctx context.Context, apiKeyID uuid.UUID, limit int64) (*gatewayDomain.Decision, error)
}

// ForwardInput carries the client request to the upstream.
type ForwardInput struct {
	Method   string
	Endpoint string
	// Path is appended to the endpoint base URL.
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// ForwardOutput carries the upstream response back to the client.
type ForwardOutput struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Forwarder relays a request to an upstream endpoint.
type Forwarder interface {
	// Forward sends the request to the upstream and returns its response.
	// Transport failures return an ErrUpstream-wrapped error.
	Forward(ctx context.Context, input *ForwardInput) (*ForwardOutput, error)
}

// DispatchInput is one inbound gateway request.
type DispatchInput struct {
	Key      string
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// GatewayUseCase runs the full admission and forwarding pipeline.
type GatewayUseCase interface {
	// Dispatch checks the request through resolve, entitlement, and quota,
	// forwards it, and schedules exactly one usage recording for the
	// forwarded call. Rejected requests record nothing.
	Dispatch(ctx context.Context, input *DispatchInput) (*ForwardOutput, error)
}
