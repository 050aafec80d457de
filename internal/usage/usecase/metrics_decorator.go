package usecase

import (
	"context"
	"time"

	"github.com/allisson/gateway/internal/metrics"
	usageDomain "github.com/allisson/gateway/internal/usage/domain"
)

// usageUseCaseWithMetrics decorates UsageUseCase with metrics instrumentation.
type usageUseCaseWithMetrics struct {
	next    UsageUseCase
	metrics metrics.BusinessMetrics
}

// NewUsageUseCaseWithMetrics wraps a UsageUseCase with metrics recording.
func NewUsageUseCaseWithMetrics(useCase UsageUseCase, m metrics.BusinessMetrics) UsageUseCase {
	return &usageUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (u *usageUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "usage", operation, status)
	u.metrics.RecordDuration(ctx, "usage", operation, time.Since(start), status)
}

// Stats records metrics for usage stats queries.
func (u *usageUseCaseWithMetrics) Stats(
	ctx context.Context,
	input *usageDomain.StatsInput,
) (*usageDomain.Stats, error) {
	start := time.Now()
	stats, err := u.next.Stats(ctx, input)
	u.record(ctx, "stats", start, err)
	return stats, err
}

// Reconcile records metrics for counter reconciliation sweeps.
func (u *usageUseCaseWithMetrics) Reconcile(
	ctx context.Context,
	before time.Time,
	limit int,
) (*ReconcileReport, error) {
	start := time.Now()
	report, err := u.next.Reconcile(ctx, before, limit)
	u.record(ctx, "reconcile", start, err)
	return report, err
}
