package domain

import (
	"time"

	"github.com/google/uuid"
)

// BillingCycle is the renewal cadence of a package subscription.
type BillingCycle string

const (
	BillingCycleMonthly   BillingCycle = "monthly"
	BillingCycleQuarterly BillingCycle = "quarterly"
	BillingCycleYearly    BillingCycle = "yearly"
)

// IsValid reports whether the billing cycle is one of the supported values.
func (b BillingCycle) IsValid() bool {
	switch b {
	case BillingCycleMonthly, BillingCycleQuarterly, BillingCycleYearly:
		return true
	}
	return false
}

// PeriodDuration returns the length of one billing period.
func (b BillingCycle) PeriodDuration() time.Duration {
	switch b {
	case BillingCycleQuarterly:
		return 90 * 24 * time.Hour
	case BillingCycleYearly:
		return 365 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}

// Package bundles a set of APIs under a single price and billing cycle.
// The API membership is stored in an explicit join table and exposed through
// explicit queries, never through lazy traversal.
type Package struct {
	ID          uuid.UUID
	Name        string
	Description string
	PriceCents  int64
	Cycle       BillingCycle
	Features    []string
	IsPopular   bool
	APIIDs      []uuid.UUID
	CreatedAt   time.Time
}

// CreatePackageInput contains the parameters for registering a new package.
type CreatePackageInput struct {
	Name        string
	Description string
	PriceCents  int64
	Cycle       BillingCycle
	Features    []string
	IsPopular   bool
	APIIDs      []uuid.UUID
}
