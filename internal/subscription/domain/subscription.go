// Package domain defines the subscription domain models.
//
// A subscription binds a user to a package for a paid period. Entitlement
// decisions are always made against the live period window, never against
// the stored status alone, so a stale status can never grant access.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a subscription.
type Status string

const (
	// StatusActive means the subscription is paid up for the current period.
	StatusActive Status = "active"
	// StatusCanceled means the user ended the subscription. Access stops
	// immediately.
	StatusCanceled Status = "canceled"
	// StatusPastDue means a renewal charge failed. Access stops until the
	// subscription is renewed.
	StatusPastDue Status = "past_due"
)

// Subscription binds a user to a package for a paid period.
type Subscription struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	PackageID          uuid.UUID
	Status             Status
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsCurrentlyActive reports whether the subscription grants access right now.
// Both the status and the live period window must agree.
func (s *Subscription) IsCurrentlyActive(now time.Time) bool {
	return s.Status == StatusActive &&
		!now.Before(s.CurrentPeriodStart) &&
		now.Before(s.CurrentPeriodEnd)
}

// SubscribeInput contains the parameters for opening a subscription.
type SubscribeInput struct {
	UserID    uuid.UUID
	PackageID uuid.UUID
}
