// Package http provides HTTP handlers for subscription management.
// All endpoints require authentication and operate on the calling user's
// subscriptions only.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/allisson/gateway/internal/errors"
	"github.com/allisson/gateway/internal/httputil"
	subscriptionDomain "github.com/allisson/gateway/internal/subscription/domain"
	"github.com/allisson/gateway/internal/subscription/http/dto"
	subscriptionUseCase "github.com/allisson/gateway/internal/subscription/usecase"
	userHTTP "github.com/allisson/gateway/internal/user/http"
	customValidation "github.com/allisson/gateway/internal/validation"
)

// SubscriptionHandler handles HTTP requests for subscription management.
type SubscriptionHandler struct {
	subscriptionUseCase subscriptionUseCase.SubscriptionUseCase
	logger              *slog.Logger
}

// NewSubscriptionHandler creates a new subscription handler with required dependencies.
func NewSubscriptionHandler(
	useCase subscriptionUseCase.SubscriptionUseCase,
	logger *slog.Logger,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionUseCase: useCase,
		logger:              logger,
	}
}

// SubscribeHandler opens a subscription to a package.
// POST /v1/subscriptions - Requires authentication.
// Returns 201 Created, 409 if already subscribed, 422 if the charge is declined.
func (h *SubscriptionHandler) SubscribeHandler(c *gin.Context) {
	user, ok := userHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.SubscribeRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	packageID, err := uuid.Parse(req.PackageID)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	subscription, err := h.subscriptionUseCase.Subscribe(c.Request.Context(), &subscriptionDomain.SubscribeInput{
		UserID:    user.ID,
		PackageID: packageID,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapSubscriptionToResponse(subscription))
}

// CancelHandler ends a subscription immediately.
// DELETE /v1/subscriptions/:id - Requires authentication.
func (h *SubscriptionHandler) CancelHandler(c *gin.Context) {
	user, ok := userHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	subscriptionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := h.subscriptionUseCase.Cancel(c.Request.Context(), user.ID, subscriptionID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListHandler lists the calling user's subscriptions with pagination.
// GET /v1/subscriptions - Requires authentication.
func (h *SubscriptionHandler) ListHandler(c *gin.Context) {
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

	subscriptions, err := h.subscriptionUseCase.List(c.Request.Context(), user.ID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSubscriptionsToListResponse(subscriptions, offset, limit))
}

// ChangePackageHandler moves a subscription to a different package.
// POST /v1/subscriptions/:id/change - Requires authentication.
func (h *SubscriptionHandler) ChangePackageHandler(c *gin.Context) {
	user, ok := userHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	subscriptionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var req dto.ChangePackageRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	packageID, err := uuid.Parse(req.PackageID)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	subscription, err := h.subscriptionUseCase.ChangePackage(c.Request.Context(), user.ID, subscriptionID, packageID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSubscriptionToResponse(subscription))
}
