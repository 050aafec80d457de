package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/gateway/internal/metrics"
	subscriptionDomain "github.com/allisson/gateway/internal/subscription/domain"
)

// subscriptionUseCaseWithMetrics decorates SubscriptionUseCase with metrics instrumentation.
type subscriptionUseCaseWithMetrics struct {
	next    SubscriptionUseCase
	metrics metrics.BusinessMetrics
}

// NewSubscriptionUseCaseWithMetrics wraps a SubscriptionUseCase with metrics recording.
func NewSubscriptionUseCaseWithMetrics(useCase SubscriptionUseCase, m metrics.BusinessMetrics) SubscriptionUseCase {
	return &subscriptionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *subscriptionUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "subscription", operation, status)
	s.metrics.RecordDuration(ctx, "subscription", operation, time.Since(start), status)
}

// Subscribe records metrics for subscription creation operations.
func (s *subscriptionUseCaseWithMetrics) Subscribe(
	ctx context.Context,
	input *subscriptionDomain.SubscribeInput,
) (*subscriptionDomain.Subscription, error) {
	start := time.Now()
	subscription, err := s.next.Subscribe(ctx, input)
	s.record(ctx, "subscribe", start, err)
	return subscription, err
}

// Cancel records metrics for cancellation operations.
func (s *subscriptionUseCaseWithMetrics) Cancel(ctx context.Context, userID, subscriptionID uuid.UUID) error {
	start := time.Now()
	err := s.next.Cancel(ctx, userID, subscriptionID)
	s.record(ctx, "cancel", start, err)
	return err
}

// List records metrics for listing operations.
func (s *subscriptionUseCaseWithMetrics) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*subscriptionDomain.Subscription, error) {
	start := time.Now()
	subscriptions, err := s.next.List(ctx, userID, offset, limit)
	s.record(ctx, "list", start, err)
	return subscriptions, err
}

// ChangePackage records metrics for package change operations.
func (s *subscriptionUseCaseWithMetrics) ChangePackage(
	ctx context.Context,
	userID, subscriptionID, newPackageID uuid.UUID,
) (*subscriptionDomain.Subscription, error) {
	start := time.Now()
	subscription, err := s.next.ChangePackage(ctx, userID, subscriptionID, newPackageID)
	s.record(ctx, "change_package", start, err)
	return subscription, err
}

// RenewDue records metrics for renewal sweeps.
func (s *subscriptionUseCaseWithMetrics) RenewDue(
	ctx context.Context,
	before time.Time,
	limit int,
) (*RenewalReport, error) {
	start := time.Now()
	report, err := s.next.RenewDue(ctx, before, limit)
	s.record(ctx, "renew_due", start, err)
	return report, err
}
