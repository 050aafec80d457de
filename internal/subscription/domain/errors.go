package domain

import (
	"github.com/allisson/gateway/internal/errors"
)

// Subscription-specific error definitions.
var (
	// ErrSubscriptionNotFound indicates a subscription with the specified ID was not found.
	ErrSubscriptionNotFound = errors.Wrap(errors.ErrNotFound, "subscription not found")

	// ErrAlreadySubscribed indicates the user already has an active subscription
	// to the package.
	ErrAlreadySubscribed = errors.Wrap(errors.ErrConflict, "already subscribed to package")

	// ErrPaymentFailed indicates the payment processor declined the charge.
	ErrPaymentFailed = errors.Wrap(errors.ErrInvalidInput, "payment failed")
)
