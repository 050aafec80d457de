// Package http provides HTTP handlers for usage stats.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/allisson/gateway/internal/errors"
	"github.com/allisson/gateway/internal/httputil"
	usageDomain "github.com/allisson/gateway/internal/usage/domain"
	"github.com/allisson/gateway/internal/usage/http/dto"
	usageUseCase "github.com/allisson/gateway/internal/usage/usecase"
	userHTTP "github.com/allisson/gateway/internal/user/http"
)

// UsageHandler handles HTTP requests for usage stats.
type UsageHandler struct {
	usageUseCase usageUseCase.UsageUseCase
	logger       *slog.Logger
}

// NewUsageHandler creates a new usage handler with required dependencies.
func NewUsageHandler(useCase usageUseCase.UsageUseCase, logger *slog.Logger) *UsageHandler {
	return &UsageHandler{
		usageUseCase: useCase,
		logger:       logger,
	}
}

// StatsHandler summarizes the calling user's usage.
// GET /v1/usage/stats - Requires authentication.
// Query parameters: api_id (optional UUID), from and to (optional RFC 3339
// timestamps). The range defaults to the current calendar-month window.
func (h *UsageHandler) StatsHandler(c *gin.Context) {
	user, ok := userHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	now := time.Now().UTC()
	input := &usageDomain.StatsInput{
		UserID: user.ID,
		From:   usageDomain.WindowStart(now),
		To:     now,
	}

	if raw := c.Query("api_id"); raw != "" {
		apiID, err := uuid.Parse(raw)
		if err != nil {
			httputil.HandleBadRequestGin(c, fmt.Errorf("invalid api_id parameter: %w", err), h.logger)
			return
		}
		input.APIID = &apiID
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httputil.HandleBadRequestGin(c, fmt.Errorf("invalid from parameter: %w", err), h.logger)
			return
		}
		input.From = from.UTC()
	}

	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httputil.HandleBadRequestGin(c, fmt.Errorf("invalid to parameter: %w", err), h.logger)
			return
		}
		input.To = to.UTC()
	}

	if !input.From.Before(input.To) {
		httputil.HandleBadRequestGin(c, fmt.Errorf("from must be before to"), h.logger)
		return
	}

	stats, err := h.usageUseCase.Stats(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStatsToResponse(stats))
}
