package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// entitlementChecker implements EntitlementChecker against the
// subscriptions store. Access is decided by the live period window, a
// subscription whose stored status is stale never grants.
type entitlementChecker struct {
	entitlementRepo EntitlementRepository
}

// HasAccess reports whether the user can reach the API right now.
func (e *entitlementChecker) HasAccess(ctx context.Context, userID, apiID uuid.UUID) (bool, error) {
	return e.entitlementRepo.HasAccess(ctx, userID, apiID, time.Now().UTC())
}

// AccessibleAPIs retrieves the API IDs the user can currently reach.
func (e *entitlementChecker) AccessibleAPIs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return e.entitlementRepo.AccessibleAPIIDs(ctx, userID, time.Now().UTC())
}

// NewEntitlementChecker creates an EntitlementChecker backed by the
// subscriptions store.
func NewEntitlementChecker(entitlementRepo EntitlementRepository) EntitlementChecker {
	return &entitlementChecker{entitlementRepo: entitlementRepo}
}
