package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/gateway/internal/apikey/domain"
	"github.com/allisson/gateway/internal/metrics"
)

// apikeyUseCaseWithMetrics decorates APIKeyUseCase with metrics instrumentation.
type apikeyUseCaseWithMetrics struct {
	next    APIKeyUseCase
	metrics metrics.BusinessMetrics
}

// NewAPIKeyUseCaseWithMetrics wraps an APIKeyUseCase with metrics recording.
func NewAPIKeyUseCaseWithMetrics(useCase APIKeyUseCase, m metrics.BusinessMetrics) APIKeyUseCase {
	return &apikeyUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *apikeyUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "apikey", operation, status)
	a.metrics.RecordDuration(ctx, "apikey", operation, time.Since(start), status)
}

// Issue records metrics for key issuance operations.
func (a *apikeyUseCaseWithMetrics) Issue(
	ctx context.Context,
	input *apikeyDomain.IssueInput,
) (*apikeyDomain.APIKey, error) {
	start := time.Now()
	apiKey, err := a.next.Issue(ctx, input)
	a.record(ctx, "issue", start, err)
	return apiKey, err
}

// Revoke records metrics for key revocation operations.
func (a *apikeyUseCaseWithMetrics) Revoke(ctx context.Context, userID, apiKeyID uuid.UUID) error {
	start := time.Now()
	err := a.next.Revoke(ctx, userID, apiKeyID)
	a.record(ctx, "revoke", start, err)
	return err
}

// List records metrics for key listing operations.
func (a *apikeyUseCaseWithMetrics) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*apikeyDomain.APIKey, error) {
	start := time.Now()
	apiKeys, err := a.next.List(ctx, userID, offset, limit)
	a.record(ctx, "list", start, err)
	return apiKeys, err
}
