// Package usecase defines business logic interfaces for catalog operations.
package usecase

import (
	"context"

	"github.com/google/uuid"

	catalogDomain "github.com/allisson/gateway/internal/catalog/domain"
)

// APIRepository defines persistence operations for catalog APIs.
// Implementations must support transaction-aware operations via context propagation.
type APIRepository interface {
	// Create stores a new API in the repository.
	Create(ctx context.Context, api *catalogDomain.API) error

	// Get retrieves an API by ID. Returns ErrAPINotFound if not found.
	Get(ctx context.Context, apiID uuid.UUID) (*catalogDomain.API, error)

	// List retrieves APIs with pagination support.
	List(ctx context.Context, offset, limit int) ([]*catalogDomain.API, error)
}

// PackageRepository defines persistence operations for subscription packages.
// Implementations must support transaction-aware operations via context propagation.
type PackageRepository interface {
	// Create stores a new package and its API bindings in the repository.
	Create(ctx context.Context, pkg *catalogDomain.Package) error

	// Get retrieves a package by ID. Returns ErrPackageNotFound if not found.
	Get(ctx context.Context, packageID uuid.UUID) (*catalogDomain.Package, error)

	// List retrieves packages with pagination support.
	List(ctx context.Context, offset, limit int) ([]*catalogDomain.Package, error)
}

// CatalogUseCase defines business logic operations for the API catalog.
// APIs describe metered upstream services, packages bundle APIs into
// purchasable plans.
type CatalogUseCase interface {
	// CreateAPI registers a new upstream API in the catalog.
	CreateAPI(ctx context.Context, input *catalogDomain.CreateAPIInput) (*catalogDomain.API, error)

	// GetAPI retrieves an API by ID. Returns ErrAPINotFound if not found.
	GetAPI(ctx context.Context, apiID uuid.UUID) (*catalogDomain.API, error)

	// ListAPIs retrieves APIs with pagination support.
	ListAPIs(ctx context.Context, offset, limit int) ([]*catalogDomain.API, error)

	// CreatePackage registers a new package bundling existing APIs.
	// The package row and its API bindings are written in a single transaction.
	// Returns ErrAPINotFound if any referenced API doesn't exist.
	CreatePackage(ctx context.Context, input *catalogDomain.CreatePackageInput) (*catalogDomain.Package, error)

	// GetPackage retrieves a package by ID. Returns ErrPackageNotFound if not found.
	GetPackage(ctx context.Context, packageID uuid.UUID) (*catalogDomain.Package, error)

	// ListPackages retrieves packages with pagination support.
	ListPackages(ctx context.Context, offset, limit int) ([]*catalogDomain.Package, error)
}
