// Package usecase defines business logic interfaces for usage accounting.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	catalogDomain "github.com/allisson/gateway/internal/catalog/domain"
	usageDomain "github.com/allisson/gateway/internal/usage/domain"
)

// UsageEventRepository defines persistence operations for the usage ledger.
type UsageEventRepository interface {
	// Create appends a UsageEvent to the ledger.
	Create(ctx context.Context, event *usageDomain.UsageEvent) error

	// CountByKeyAndWindow returns the number of ledger events for a key
	// within [windowStart, windowEnd).
	CountByKeyAndWindow(ctx context.Context, apiKeyID uuid.UUID, windowStart, windowEnd time.Time) (int64, error)

	// TotalByUser returns the number of ledger events across the user's keys
	// within [from, to), optionally filtered to one API.
	TotalByUser(ctx context.Context, userID uuid.UUID, apiID *uuid.UUID, from, to time.Time) (int64, error)

	// PerDayByUser returns per-UTC-day event counts across the user's keys
	// within [from, to), optionally filtered to one API.
	PerDayByUser(
		ctx context.Context,
		userID uuid.UUID,
		apiID *uuid.UUID,
		from, to time.Time,
	) ([]usageDomain.DayCount, error)
}

// QuotaCounterRepository defines persistence operations for quota counters.
type QuotaCounterRepository interface {
	// Reserve atomically increments the counter for the key's window if the
	// current count is below the limit. Returns the count after the
	// increment and whether the reservation was admitted.
	Reserve(ctx context.Context, apiKeyID uuid.UUID, windowStart time.Time, limit int64) (int64, bool, error)

	// GetCount retrieves the counter value for the key's window, zero when
	// no reservation has been made yet.
	GetCount(ctx context.Context, apiKeyID uuid.UUID, windowStart time.Time) (int64, error)

	// SetCount overwrites the counter value for the key's window.
	SetCount(ctx context.Context, apiKeyID uuid.UUID, windowStart time.Time, count int64) error

	// ListCountersBefore retrieves counters for windows starting before the
	// given time.
	ListCountersBefore(ctx context.Context, before time.Time, limit int) ([]*usageDomain.QuotaCounter, error)
}

// APIRepository defines the catalog lookups usage logic needs.
type APIRepository interface {
	// Get retrieves an API by ID. Returns ErrAPINotFound if not found.
	Get(ctx context.Context, apiID uuid.UUID) (*catalogDomain.API, error)
}

// EntitlementRepository defines the subscription lookups usage logic needs.
type EntitlementRepository interface {
	// AccessibleAPIIDs retrieves the distinct API IDs the user can currently
	// reach through live subscriptions.
	AccessibleAPIIDs(ctx context.Context, userID uuid.UUID, now time.Time) ([]uuid.UUID, error)
}

// UsageRecorder accepts usage events off the response path and persists
// them in the background. Enqueue never blocks, events that can't be
// queued or appended are dropped and counted.
type UsageRecorder interface {
	// Enqueue hands an event to the background workers. Safe to call
	// concurrently, never blocks.
	Enqueue(event *usageDomain.UsageEvent)

	// Run drains the queue until ctx is canceled, then finishes queued
	// events and returns.
	Run(ctx context.Context) error
}

// ReconcileReport summarizes one usage reconciliation sweep.
type ReconcileReport struct {
	Checked   int
	Rewritten int
}

// UsageUseCase defines business logic operations for usage stats and
// counter reconciliation.
type UsageUseCase interface {
	// Stats summarizes the user's usage over a time range, with the
	// applicable monthly limit.
	Stats(ctx context.Context, input *usageDomain.StatsInput) (*usageDomain.Stats, error)

	// Reconcile rewrites quota counters for windows starting before the
	// given time from the ledger counts.
	Reconcile(ctx context.Context, before time.Time, limit int) (*ReconcileReport, error)
}
