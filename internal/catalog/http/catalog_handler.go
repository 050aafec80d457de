// Package http provides HTTP handlers for browsing the API catalog.
// The catalog is public read-only, APIs and packages are registered
// through administrative commands.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogUseCase "github.com/allisson/gateway/internal/catalog/usecase"
	"github.com/allisson/gateway/internal/catalog/http/dto"
	"github.com/allisson/gateway/internal/httputil"
)

// CatalogHandler handles HTTP requests for catalog browsing.
type CatalogHandler struct {
	catalogUseCase catalogUseCase.CatalogUseCase
	logger         *slog.Logger
}

// NewCatalogHandler creates a new catalog handler with required dependencies.
func NewCatalogHandler(useCase catalogUseCase.CatalogUseCase, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogUseCase: useCase,
		logger:         logger,
	}
}

// ListAPIsHandler lists catalog APIs with pagination.
// GET /v1/apis
func (h *CatalogHandler) ListAPIsHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	apis, err := h.catalogUseCase.ListAPIs(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAPIsToListResponse(apis, offset, limit))
}

// GetAPIHandler retrieves a single catalog API.
// GET /v1/apis/:id
func (h *CatalogHandler) GetAPIHandler(c *gin.Context) {
	apiID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	api, err := h.catalogUseCase.GetAPI(c.Request.Context(), apiID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAPIToResponse(api))
}

// ListPackagesHandler lists packages with pagination.
// GET /v1/packages
func (h *CatalogHandler) ListPackagesHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	packages, err := h.catalogUseCase.ListPackages(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPackagesToListResponse(packages, offset, limit))
}

// GetPackageHandler retrieves a single package.
// GET /v1/packages/:id
func (h *CatalogHandler) GetPackageHandler(c *gin.Context) {
	packageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	pkg, err := h.catalogUseCase.GetPackage(c.Request.Context(), packageID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPackageToResponse(pkg))
}
