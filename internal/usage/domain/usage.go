// Package domain defines core business entities for usage accounting.
//
// Usage is tracked in two stores: an append-only event ledger carrying one
// row per forwarded call, and a per-key-per-window counter used for quota
// admission. The counter is the fast path, the ledger is the source of
// truth the reconciliation sweep rewrites the counter from.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// UsageEvent represents one forwarded gateway call in the ledger.
type UsageEvent struct {
	ID         uuid.UUID `json:"id"`
	APIKeyID   uuid.UUID `json:"api_key_id"`
	Timestamp  time.Time `json:"timestamp"`
	Endpoint   string    `json:"endpoint"`
	LatencyMS  int64     `json:"latency_ms"`
	StatusCode int       `json:"status_code"`
}

// QuotaCounter represents the reservation count for one key in one
// accounting window.
type QuotaCounter struct {
	APIKeyID    uuid.UUID `json:"api_key_id"`
	WindowStart time.Time `json:"window_start"`
	Count       int64     `json:"count"`
}

// WindowStart returns the start of the calendar-month UTC accounting window
// containing the given time.
func WindowStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// WindowEnd returns the end of the accounting window starting at windowStart.
func WindowEnd(windowStart time.Time) time.Time {
	return windowStart.AddDate(0, 1, 0)
}

// DayCount is the number of forwarded calls on one UTC day.
type DayCount struct {
	Day   time.Time `json:"day"`
	Count int64     `json:"count"`
}

// Stats summarizes a user's usage over a time range.
type Stats struct {
	TotalCalls int64      `json:"total_calls"`
	PerDay     []DayCount `json:"per_day"`
	// Limit is the applicable monthly limit: a single API's limit when the
	// stats are filtered to one API, otherwise the sum of limits across the
	// user's accessible APIs.
	Limit int64 `json:"limit"`
}

// StatsInput contains the parameters for a usage stats query.
type StatsInput struct {
	UserID uuid.UUID
	// APIID narrows the stats to one API when set.
	APIID *uuid.UUID
	From  time.Time
	To    time.Time
}
