// Package domain defines core business entities for the request forwarding
// pipeline. Every metered call passes resolve, entitlement, and quota
// checks before it is forwarded, and schedules exactly one usage recording
// after the upstream responds.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// KeyContext identifies the credential a request was made with.
type KeyContext struct {
	APIKeyID uuid.UUID
	UserID   uuid.UUID
	APIID    uuid.UUID
}

// Decision is the outcome of one quota reservation attempt.
type Decision struct {
	Admitted bool
	// Count is the reservation count after the attempt, zero when denied.
	Count int64
	// WindowStart is the accounting window the reservation was made in,
	// fixed at reservation time.
	WindowStart time.Time
}

// Admission outcomes, used as metric labels.
const (
	OutcomeAdmitted        = "admitted"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeForbidden       = "forbidden"
	OutcomeQuotaExceeded   = "quota_exceeded"
	OutcomeNotFound        = "not_found"
	OutcomeUpstreamError   = "upstream_error"
	OutcomeInternalError   = "internal_error"
)
