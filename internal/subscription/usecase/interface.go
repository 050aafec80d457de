// Package usecase defines business logic interfaces for subscription operations.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	catalogDomain "github.com/allisson/gateway/internal/catalog/domain"
	subscriptionDomain "github.com/allisson/gateway/internal/subscription/domain"
)

// SubscriptionRepository defines persistence operations for subscriptions.
// Implementations must support transaction-aware operations via context propagation.
type SubscriptionRepository interface {
	// Create stores a new subscription in the repository.
	Create(ctx context.Context, subscription *subscriptionDomain.Subscription) error

	// Update modifies an existing subscription in the repository.
	Update(ctx context.Context, subscription *subscriptionDomain.Subscription) error

	// Get retrieves a subscription by ID. Returns ErrSubscriptionNotFound if not found.
	Get(ctx context.Context, subscriptionID uuid.UUID) (*subscriptionDomain.Subscription, error)

	// GetActiveByUserAndPackage retrieves the subscription currently granting
	// the user access to the package. Returns ErrSubscriptionNotFound if none.
	GetActiveByUserAndPackage(
		ctx context.Context,
		userID, packageID uuid.UUID,
		now time.Time,
	) (*subscriptionDomain.Subscription, error)

	// ListByUser retrieves a user's subscriptions with pagination.
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*subscriptionDomain.Subscription, error)

	// ListDueForRenewal retrieves active subscriptions whose period ends
	// before the given time.
	ListDueForRenewal(ctx context.Context, before time.Time, limit int) ([]*subscriptionDomain.Subscription, error)

	// HasAccess reports whether the user holds a live subscription to a
	// package containing the API.
	HasAccess(ctx context.Context, userID, apiID uuid.UUID, now time.Time) (bool, error)

	// AccessibleAPIIDs retrieves the distinct API IDs the user can currently
	// reach through live subscriptions.
	AccessibleAPIIDs(ctx context.Context, userID uuid.UUID, now time.Time) ([]uuid.UUID, error)
}

// PackageRepository defines the package lookups subscription logic needs.
type PackageRepository interface {
	// Get retrieves a package by ID. Returns ErrPackageNotFound if not found.
	Get(ctx context.Context, packageID uuid.UUID) (*catalogDomain.Package, error)
}

// RenewalReport summarizes one renewal sweep.
type RenewalReport struct {
	Renewed       int
	MarkedPastDue int
}

// SubscriptionUseCase defines business logic operations for subscriptions.
// All user-facing operations are scoped to the calling user, a subscription
// can only be read or changed by its owner.
type SubscriptionUseCase interface {
	// Subscribe charges the user for the package and opens a subscription.
	// Returns ErrPackageNotFound for unknown packages, ErrAlreadySubscribed
	// if a live subscription to the package exists, and ErrPaymentFailed if
	// the charge is declined.
	Subscribe(ctx context.Context, input *subscriptionDomain.SubscribeInput) (*subscriptionDomain.Subscription, error)

	// Cancel ends a subscription immediately. Returns ErrSubscriptionNotFound
	// if the subscription doesn't exist or belongs to another user.
	Cancel(ctx context.Context, userID, subscriptionID uuid.UUID) error

	// List retrieves the user's subscriptions with pagination.
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*subscriptionDomain.Subscription, error)

	// ChangePackage moves a subscription to a different package, charging the
	// new package's price and restarting the period.
	ChangePackage(
		ctx context.Context,
		userID, subscriptionID, newPackageID uuid.UUID,
	) (*subscriptionDomain.Subscription, error)

	// RenewDue charges every active subscription whose period ends before the
	// given time. Successful charges extend the period, declined charges mark
	// the subscription past due.
	RenewDue(ctx context.Context, before time.Time, limit int) (*RenewalReport, error)
}
