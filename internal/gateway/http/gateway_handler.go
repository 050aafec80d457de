// Package http exposes the metered forwarding endpoint. Requests
// authenticate with an API key header instead of a session token, the
// rest of the request is relayed to the API's upstream.
package http

import (
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/gateway/internal/errors"
	gatewayUseCase "github.com/allisson/gateway/internal/gateway/usecase"
	"github.com/allisson/gateway/internal/httputil"
)

// APIKeyHeader carries the caller's credential on gateway requests.
const APIKeyHeader = "X-Api-Key"

// GatewayHandler handles HTTP requests on the forwarding endpoint.
type GatewayHandler struct {
	gatewayUseCase gatewayUseCase.GatewayUseCase
	logger         *slog.Logger
}

// NewGatewayHandler creates a new gateway handler with required dependencies.
func NewGatewayHandler(useCase gatewayUseCase.GatewayUseCase, logger *slog.Logger) *GatewayHandler {
	return &GatewayHandler{
		gatewayUseCase: useCase,
		logger:         logger,
	}
}

// ForwardHandler relays the request to the upstream behind the API the key
// was issued for.
// ANY /gateway/*path - Requires an API key.
// Returns 401 for a missing or unknown key, 403 when no live subscription
// covers the API, 429 when the monthly quota is exhausted, and 502 when
// the upstream cannot be reached.
func (h *GatewayHandler) ForwardHandler(c *gin.Context) {
	key := c.GetHeader(APIKeyHeader)
	if key == "" {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrUnauthorized, "missing api key"), h.logger)
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	output, err := h.gatewayUseCase.Dispatch(c.Request.Context(), &gatewayUseCase.DispatchInput{
		Key:      key,
		Method:   c.Request.Method,
		Path:     c.Param("path"),
		RawQuery: c.Request.URL.RawQuery,
		Header:   c.Request.Header,
		Body:     body,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	for name, values := range output.Header {
		for _, value := range values {
			c.Writer.Header().Add(name, value)
		}
	}
	c.Status(output.StatusCode)
	_, _ = c.Writer.Write(output.Body)
}
