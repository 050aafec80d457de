// Package http provides HTTP handlers for API key management.
// All endpoints require authentication and operate on the calling user's
// keys only.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/gateway/internal/apikey/domain"
	"github.com/allisson/gateway/internal/apikey/http/dto"
	apikeyUseCase "github.com/allisson/gateway/internal/apikey/usecase"
	apperrors "github.com/allisson/gateway/internal/errors"
	"github.com/allisson/gateway/internal/httputil"
	userHTTP "github.com/allisson/gateway/internal/user/http"
	customValidation "github.com/allisson/gateway/internal/validation"
)

// APIKeyHandler handles HTTP requests for API key management.
type APIKeyHandler struct {
	apikeyUseCase apikeyUseCase.APIKeyUseCase
	logger        *slog.Logger
}

// NewAPIKeyHandler creates a new API key handler with required dependencies.
func NewAPIKeyHandler(useCase apikeyUseCase.APIKeyUseCase, logger *slog.Logger) *APIKeyHandler {
	return &APIKeyHandler{
		apikeyUseCase: useCase,
		logger:        logger,
	}
}

// IssueHandler issues an API key for an API the user is subscribed to.
// POST /v1/api-keys - Requires authentication.
// Returns 201 Created, or 403 when no live subscription covers the API.
// Re-issuing for an API the user already holds an active key for returns
// the existing key.
func (h *APIKeyHandler) IssueHandler(c *gin.Context) {
	user, ok := userHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.IssueKeyRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	apiID, err := uuid.Parse(req.APIID)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	apiKey, err := h.apikeyUseCase.Issue(c.Request.Context(), &apikeyDomain.IssueInput{
		UserID: user.ID,
		APIID:  apiID,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapAPIKeyToResponse(apiKey))
}

// RevokeHandler deactivates an API key immediately.
// DELETE /v1/api-keys/:id - Requires authentication.
func (h *APIKeyHandler) RevokeHandler(c *gin.Context) {
	user, ok := userHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	apiKeyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := h.apikeyUseCase.Revoke(c.Request.Context(), user.ID, apiKeyID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListHandler lists the calling user's API keys with pagination.
// GET /v1/api-keys - Requires authentication.
func (h *APIKeyHandler) ListHandler(c *gin.Context) {
	user, ok := userHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	apiKeys, err := h.apikeyUseCase.List(c.Request.Context(), user.ID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAPIKeysToListResponse(apiKeys, offset, limit))
}
