// Package usecase implements business logic orchestration for catalog operations.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	catalogDomain "github.com/allisson/gateway/internal/catalog/domain"
	"github.com/allisson/gateway/internal/database"
	apperrors "github.com/allisson/gateway/internal/errors"
)

// catalogUseCase implements CatalogUseCase backed by API and Package repositories.
type catalogUseCase struct {
	txManager   database.TxManager
	apiRepo     APIRepository
	packageRepo PackageRepository
}

// CreateAPI registers a new upstream API in the catalog.
func (c *catalogUseCase) CreateAPI(
	ctx context.Context,
	input *catalogDomain.CreateAPIInput,
) (*catalogDomain.API, error) {
	api := &catalogDomain.API{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Endpoint:    input.Endpoint,
		UsageLimit:  input.UsageLimit,
		CreatedAt:   time.Now().UTC(),
	}

	if err := c.apiRepo.Create(ctx, api); err != nil {
		return nil, err
	}

	return api, nil
}

// GetAPI retrieves an API by ID.
func (c *catalogUseCase) GetAPI(ctx context.Context, apiID uuid.UUID) (*catalogDomain.API, error) {
	return c.apiRepo.Get(ctx, apiID)
}

// ListAPIs retrieves APIs with pagination support.
func (c *catalogUseCase) ListAPIs(ctx context.Context, offset, limit int) ([]*catalogDomain.API, error) {
	return c.apiRepo.List(ctx, offset, limit)
}

// CreatePackage registers a new package bundling existing APIs.
// Every referenced API is resolved first so a package can never point at a
// missing API, then the package row and its bindings commit in one transaction.
func (c *catalogUseCase) CreatePackage(
	ctx context.Context,
	input *catalogDomain.CreatePackageInput,
) (*catalogDomain.Package, error) {
	if !input.Cycle.IsValid() {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid billing cycle")
	}

	for _, apiID := range input.APIIDs {
		if _, err := c.apiRepo.Get(ctx, apiID); err != nil {
			return nil, err
		}
	}

	pkg := &catalogDomain.Package{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        input.Name,
		Description: input.Description,
		PriceCents:  input.PriceCents,
		Cycle:       input.Cycle,
		Features:    input.Features,
		IsPopular:   input.IsPopular,
		APIIDs:      input.APIIDs,
		CreatedAt:   time.Now().UTC(),
	}

	err := c.txManager.WithTx(ctx, func(ctx context.Context) error {
		return c.packageRepo.Create(ctx, pkg)
	})
	if err != nil {
		return nil, err
	}

	return pkg, nil
}

// GetPackage retrieves a package by ID.
func (c *catalogUseCase) GetPackage(ctx context.Context, packageID uuid.UUID) (*catalogDomain.Package, error) {
	return c.packageRepo.Get(ctx, packageID)
}

// ListPackages retrieves packages with pagination support.
func (c *catalogUseCase) ListPackages(ctx context.Context, offset, limit int) ([]*catalogDomain.Package, error) {
	return c.packageRepo.List(ctx, offset, limit)
}

// NewCatalogUseCase creates a new CatalogUseCase.
func NewCatalogUseCase(
	txManager database.TxManager,
	apiRepo APIRepository,
	packageRepo PackageRepository,
) CatalogUseCase {
	return &catalogUseCase{
		txManager:   txManager,
		apiRepo:     apiRepo,
		packageRepo: packageRepo,
	}
}
