package domain

import (
	"github.com/allisson/gateway/internal/errors"
)

// Catalog-specific error definitions.
var (
	// ErrAPINotFound indicates an API with the specified ID was not found.
	ErrAPINotFound = errors.Wrap(errors.ErrNotFound, "api not found")

	// ErrPackageNotFound indicates a package with the specified ID was not found.
	ErrPackageNotFound = errors.Wrap(errors.ErrNotFound, "package not found")
)
