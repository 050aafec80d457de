package domain

import (
	"github.com/allisson/gateway/internal/errors"
)

// API key-specific error definitions.
var (
	// ErrAPIKeyNotFound indicates an API key with the specified ID or value was not found.
	ErrAPIKeyNotFound = errors.Wrap(errors.ErrNotFound, "api key not found")

	// ErrNotEntitled indicates no live subscription covers the API the key
	// is requested for.
	ErrNotEntitled = errors.Wrap(errors.ErrForbidden, "no active subscription covers this api")
)
