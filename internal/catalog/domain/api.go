// Package domain defines the API catalog domain models.
//
// An API is a forwardable upstream function with its own monthly usage ceiling.
// A Package bundles a set of APIs under a price and billing cycle. Both are
// immutable after creation except through administrative tooling.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// API represents a forwardable upstream capability offered through the gateway.
type API struct {
	ID          uuid.UUID
	Name        string
	Description string
	Category    string
	// Endpoint is the upstream base URL requests are forwarded to.
	Endpoint string
	// UsageLimit is the number of admitted calls allowed per API key per
	// calendar month. Zero means the API is never admitted.
	UsageLimit int64
	CreatedAt  time.Time
}

// CreateAPIInput contains the parameters for registering a new API.
type CreateAPIInput struct {
	Name        string
	Description string
	Category    string
	Endpoint    string
	UsageLimit  int64
}
