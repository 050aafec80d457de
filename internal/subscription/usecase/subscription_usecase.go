// Package usecase implements business logic orchestration for subscription operations.
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	subscriptionDomain "github.com/allisson/gateway/internal/subscription/domain"
	subscriptionService "github.com/allisson/gateway/internal/subscription/service"
)

// subscriptionUseCase implements SubscriptionUseCase.
type subscriptionUseCase struct {
	subscriptionRepo SubscriptionRepository
	packageRepo      PackageRepository
	payments         subscriptionService.PaymentProcessor
}

// Subscribe charges the user for the package and opens a subscription.
func (s *subscriptionUseCase) Subscribe(
	ctx context.Context,
	input *subscriptionDomain.SubscribeInput,
) (*subscriptionDomain.Subscription, error) {
	pkg, err := s.packageRepo.Get(ctx, input.PackageID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	_, err = s.subscriptionRepo.GetActiveByUserAndPackage(ctx, input.UserID, input.PackageID, now)
	if err == nil {
		return nil, subscriptionDomain.ErrAlreadySubscribed
	}
	if !errors.Is(err, subscriptionDomain.ErrSubscriptionNotFound) {
		return nil, err
	}

	_, err = s.payments.Charge(ctx, &subscriptionService.ChargeInput{
		UserID:      input.UserID,
		PackageID:   pkg.ID,
		AmountCents: pkg.PriceCents,
		Description: pkg.Name,
	})
	if err != nil {
		return nil, subscriptionDomain.ErrPaymentFailed
	}

	subscription := &subscriptionDomain.Subscription{
		ID:                 uuid.Must(uuid.NewV7()),
		UserID:             input.UserID,
		PackageID:          pkg.ID,
		Status:             subscriptionDomain.StatusActive,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.Add(pkg.Cycle.PeriodDuration()),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.subscriptionRepo.Create(ctx, subscription); err != nil {
		return nil, err
	}

	return subscription, nil
}

// Cancel ends a subscription immediately.
// Ownership is enforced by treating another user's subscription as not found.
func (s *subscriptionUseCase) Cancel(ctx context.Context, userID, subscriptionID uuid.UUID) error {
	subscription, err := s.subscriptionRepo.Get(ctx, subscriptionID)
	if err != nil {
		return err
	}

	if subscription.UserID != userID {
		return subscriptionDomain.ErrSubscriptionNotFound
	}

	subscription.Status = subscriptionDomain.StatusCanceled
	subscription.UpdatedAt = time.Now().UTC()

	return s.subscriptionRepo.Update(ctx, subscription)
}

// List retrieves the user's subscriptions with pagination.
func (s *subscriptionUseCase) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*subscriptionDomain.Subscription, error) {
	return s.subscriptionRepo.ListByUser(ctx, userID, offset, limit)
}

// ChangePackage moves a subscription to a different package.
// The new package's price is charged and the period restarts from now.
func (s *subscriptionUseCase) ChangePackage(
	ctx context.Context,
	userID, subscriptionID, newPackageID uuid.UUID,
) (*subscriptionDomain.Subscription, error) {
	subscription, err := s.subscriptionRepo.Get(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	if subscription.UserID != userID {
		return nil, subscriptionDomain.ErrSubscriptionNotFound
	}

	pkg, err := s.packageRepo.Get(ctx, newPackageID)
	if err != nil {
		return nil, err
	}

	_, err = s.payments.Charge(ctx, &subscriptionService.ChargeInput{
		UserID:      userID,
		PackageID:   pkg.ID,
		AmountCents: pkg.PriceCents,
		Description: pkg.Name,
	})
	if err != nil {
		return nil, subscriptionDomain.ErrPaymentFailed
	}

	now := time.Now().UTC()
	subscription.PackageID = pkg.ID
	subscription.Status = subscriptionDomain.StatusActive
	subscription.CurrentPeriodStart = now
	subscription.CurrentPeriodEnd = now.Add(pkg.Cycle.PeriodDuration())
	subscription.UpdatedAt = now

	if err := s.subscriptionRepo.Update(ctx, subscription); err != nil {
		return nil, err
	}

	return subscription, nil
}

// RenewDue charges every active subscription whose period ends before the
// given time. Charge failures never abort the sweep, the subscription is
// marked past due and the sweep continues.
func (s *subscriptionUseCase) RenewDue(
	ctx context.Context,
	before time.Time,
	limit int,
) (*RenewalReport, error) {
	due, err := s.subscriptionRepo.ListDueForRenewal(ctx, before, limit)
	if err != nil {
		return nil, err
	}

	report := &RenewalReport{}

	for _, subscription := range due {
		pkg, err := s.packageRepo.Get(ctx, subscription.PackageID)
		if err != nil {
			return report, err
		}

		now := time.Now().UTC()

		_, chargeErr := s.payments.Charge(ctx, &subscriptionService.ChargeInput{
			UserID:      subscription.UserID,
			PackageID:   pkg.ID,
			AmountCents: pkg.PriceCents,
			Description: pkg.Name,
		})
		if chargeErr != nil {
			subscription.Status = subscriptionDomain.StatusPastDue
			subscription.UpdatedAt = now
			if err := s.subscriptionRepo.Update(ctx, subscription); err != nil {
				return report, err
			}
			report.MarkedPastDue++
			continue
		}

		subscription.CurrentPeriodStart = subscription.CurrentPeriodEnd
		subscription.CurrentPeriodEnd = subscription.CurrentPeriodEnd.Add(pkg.Cycle.PeriodDuration())
		subscription.UpdatedAt = now
		if err := s.subscriptionRepo.Update(ctx, subscription); err != nil {
			return report, err
		}
		report.Renewed++
	}

	return report, nil
}

// NewSubscriptionUseCase creates a new SubscriptionUseCase.
func NewSubscriptionUseCase(
	subscriptionRepo SubscriptionRepository,
	packageRepo PackageRepository,
	payments subscriptionService.PaymentProcessor,
) SubscriptionUseCase {
	return &subscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		packageRepo:      packageRepo,
		payments:         payments,
	}
}
