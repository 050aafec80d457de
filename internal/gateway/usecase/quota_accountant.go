package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	gatewayDomain "github.com/allisson/gateway/internal/gateway/domain"
	usageDomain "github.com/allisson/gateway/internal/usage/domain"
)

// quotaAccountant implements QuotaAccountant on the quota_counters store.
// The conditional increment happens in the database, so concurrent
// reservations against the last remaining unit admit at most one.
type quotaAccountant struct {
	quotaRepo QuotaReservationRepository
}

// CheckAndReserve reserves one unit of the key's monthly quota. The window
// is the calendar month (UTC) containing the reservation time and is fixed
// before the increment, a request near midnight on the last day of the
// month counts against the window it was admitted in.
func (q *quotaAccountant) CheckAndReserve(
	ctx context.Context,
	apiKeyID uuid.UUID,
	limit int64,
) (*gatewayDomain.Decision, error) {
	windowStart := usageDomain.WindowStart(time.Now().UTC())

	// A zero limit admits nothing, and never creates a counter row.
	if limit <= 0 {
		return &gatewayDomain.Decision{Admitted: false, WindowStart: windowStart}, nil
	}

	count, admitted, err := q.quotaRepo.Reserve(ctx, apiKeyID, windowStart, limit)
	if err != nil {
		return nil, err
	}

	return &gatewayDomain.Decision{
		Admitted:    admitted,
		Count:       count,
		WindowStart: windowStart,
	}, nil
}

// NewQuotaAccountant creates a QuotaAccountant backed by the quota_counters
// store.
func NewQuotaAccountant(quotaRepo QuotaReservationRepository) QuotaAccountant {
	return &quotaAccountant{quotaRepo: quotaRepo}
}
