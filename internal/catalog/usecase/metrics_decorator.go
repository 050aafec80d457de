package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	catalogDomain "github.com/allisson/gateway/internal/catalog/domain"
	"github.com/allisson/gateway/internal/metrics"
)

// catalogUseCaseWithMetrics decorates CatalogUseCase with metrics instrumentation.
type catalogUseCaseWithMetrics struct {
	next    CatalogUseCase
	metrics metrics.BusinessMetrics
}

// NewCatalogUseCaseWithMetrics wraps a CatalogUseCase with metrics recording.
func NewCatalogUseCaseWithMetrics(useCase CatalogUseCase, m metrics.BusinessMetrics) CatalogUseCase {
	return &catalogUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// CreateAPI records metrics for API registration operations.
func (c *catalogUseCaseWithMetrics) CreateAPI(
	ctx context.Context,
	input *catalogDomain.CreateAPIInput,
) (*catalogDomain.API, error) {
	start := time.Now()
	api, err := c.next.CreateAPI(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "catalog", "api_create", status)
	c.metrics.RecordDuration(ctx, "catalog", "api_create", time.Since(start), status)

	return api, err
}

// GetAPI records metrics for API retrieval operations.
func (c *catalogUseCaseWithMetrics) GetAPI(ctx context.Context, apiID uuid.UUID) (*catalogDomain.API, error) {
	start := time.Now()
	api, err := c.next.GetAPI(ctx, apiID)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "catalog", "api_get", status)
	c.metrics.RecordDuration(ctx, "catalog", "api_get", time.Since(start), status)

	return api, err
}

// ListAPIs records metrics for API listing operations.
func (c *catalogUseCaseWithMetrics) ListAPIs(
	ctx context.Context,
	offset, limit int,
) ([]*catalogDomain.API, error) {
	start := time.Now()
	apis, err := c.next.ListAPIs(ctx, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "catalog", "api_list", status)
	c.metrics.RecordDuration(ctx, "catalog", "api_list", time.Since(start), status)

	return apis, err
}

// CreatePackage records metrics for package registration operations.
func (c *catalogUseCaseWithMetrics) CreatePackage(
	ctx context.Context,
	input *catalogDomain.CreatePackageInput,
) (*catalogDomain.Package, error) {
	start := time.Now()
	pkg, err := c.next.CreatePackage(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "catalog", "package_create", status)
	c.metrics.RecordDuration(ctx, "catalog", "package_create", time.Since(start), status)

	return pkg, err
}

// GetPackage records metrics for package retrieval operations.
func (c *catalogUseCaseWithMetrics) GetPackage(
	ctx context.Context,
	packageID uuid.UUID,
) (*catalogDomain.Package, error) {
	start := time.Now()
	pkg, err := c.next.GetPackage(ctx, packageID)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "catalog", "package_get", status)
	c.metrics.RecordDuration(ctx, "catalog", "package_get", time.Since(start), status)

	return pkg, err
}

// ListPackages records metrics for package listing operations.
func (c *catalogUseCaseWithMetrics) ListPackages(
	ctx context.Context,
	offset, limit int,
) ([]*catalogDomain.Package, error) {
	start := time.Now()
	packages, err := c.next.ListPackages(ctx, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "catalog", "package_list", status)
	c.metrics.RecordDuration(ctx, "catalog", "package_list", time.Since(start), status)

	return packages, err
}
