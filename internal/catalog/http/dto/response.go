// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	catalogDomain "github.com/allisson/gateway/internal/catalog/domain"
)

// APIResponse represents a catalog API in HTTP responses.
type APIResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	UsageLimit  int64     `json:"usage_limit"`
	CreatedAt   time.Time `json:"created_at"`
}

// MapAPIToResponse converts a domain API to an HTTP response.
// The upstream endpoint is intentionally excluded, callers reach upstreams
// only through the gateway.
func MapAPIToResponse(api *catalogDomain.API) APIResponse {
	return APIResponse{
		ID:          api.ID.String(),
		Name:        api.Name,
		Description: api.Description,
		Category:    api.Category,
		UsageLimit:  api.UsageLimit,
		CreatedAt:   api.CreatedAt,
	}
}

// ListAPIsResponse wraps a page of catalog APIs.
type ListAPIsResponse struct {
	APIs   []APIResponse `json:"apis"`
	Offset int           `json:"offset"`
	Limit  int           `json:"limit"`
}

// MapAPIsToListResponse converts domain APIs to a paginated HTTP response.
func MapAPIsToListResponse(apis []*catalogDomain.API, offset, limit int) ListAPIsResponse {
	responses := make([]APIResponse, 0, len(apis))
	for _, api := range apis {
		responses = append(responses, MapAPIToResponse(api))
	}
	return ListAPIsResponse{
		APIs:   responses,
		Offset: offset,
		Limit:  limit,
	}
}

// PackageResponse represents a package in HTTP responses.
type PackageResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Cycle       string    `json:"billing_cycle"`
	Features    []string  `json:"features"`
	IsPopular   bool      `json:"is_popular"`
	APIIDs      []string  `json:"api_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

// MapPackageToResponse converts a domain Package to an HTTP response.
func MapPackageToResponse(pkg *catalogDomain.Package) PackageResponse {
	apiIDs := make([]string, 0, len(pkg.APIIDs))
	for _, apiID := range pkg.APIIDs {
		apiIDs = append(apiIDs, apiID.String())
	}
	return PackageResponse{
		ID:          pkg.ID.String(),
		Name:        pkg.Name,
		Description: pkg.Description,
		PriceCents:  pkg.PriceCents,
		Cycle:       string(pkg.Cycle),
		Features:    pkg.Features,
		IsPopular:   pkg.IsPopular,
		APIIDs:      apiIDs,
		CreatedAt:   pkg.CreatedAt,
	}
}

// ListPackagesResponse wraps a page of packages.
type ListPackagesResponse struct {
	Packages []PackageResponse `json:"packages"`
	Offset   int               `json:"offset"`
	Limit    int               `json:"limit"`
}

// MapPackagesToListResponse converts domain Packages to a paginated HTTP response.
func MapPackagesToListResponse(packages []*catalogDomain.Package, offset, limit int) ListPackagesResponse {
	responses := make([]PackageResponse, 0, len(packages))
	for _, pkg := range packages {
		responses = append(responses, MapPackageToResponse(pkg))
	}
	return ListPackagesResponse{
		Packages: responses,
		Offset:   offset,
		Limit:    limit,
	}
}
