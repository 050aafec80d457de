package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/gateway/internal/apikey/domain"
	"github.com/allisson/gateway/internal/apikey/service"
	apperrors "github.com/allisson/gateway/internal/errors"
)

// apikeyUseCase implements APIKeyUseCase.
type apikeyUseCase struct {
	apiKeyRepo      APIKeyRepository
	apiRepo         APIRepository
	entitlementRepo EntitlementRepository
	keyService      service.KeyService
}

// Issue creates an API key for the user, or returns the existing active key.
func (a *apikeyUseCase) Issue(
	ctx context.Context,
	input *apikeyDomain.IssueInput,
) (*apikeyDomain.APIKey, error) {
	now := time.Now().UTC()

	// An unknown API is reported as not found before entitlement is consulted.
	if _, err := a.apiRepo.Get(ctx, input.APIID); err != nil {
		return nil, err
	}

	hasAccess, err := a.entitlementRepo.HasAccess(ctx, input.UserID, input.APIID, now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to check entitlement")
	}
	if !hasAccess {
		return nil, apikeyDomain.ErrNotEntitled
	}

	// Re-issuing for the same api returns the existing key instead of
	// minting a second credential.
	existing, err := a.apiKeyRepo.GetActiveByUserAndAPI(ctx, input.UserID, input.APIID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apikeyDomain.ErrAPIKeyNotFound) {
		return nil, err
	}

	key, err := a.keyService.GenerateKey()
	if err != nil {
		return nil, err
	}

	apiKey := &apikeyDomain.APIKey{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    input.UserID,
		APIID:     input.APIID,
		Key:       key,
		IsActive:  true,
		CreatedAt: now,
	}

	if err := a.apiKeyRepo.Create(ctx, apiKey); err != nil {
		return nil, err
	}

	return apiKey, nil
}

// Revoke deactivates the user's API key.
func (a *apikeyUseCase) Revoke(ctx context.Context, userID, apiKeyID uuid.UUID) error {
	apiKey, err := a.apiKeyRepo.Get(ctx, apiKeyID)
	if err != nil {
		return err
	}

	// Keys owned by other users are reported as not found rather than
	// forbidden, so key IDs can't be probed.
	if apiKey.UserID != userID {
		return apikeyDomain.ErrAPIKeyNotFound
	}

	return a.apiKeyRepo.Deactivate(ctx, apiKeyID, time.Now().UTC())
}

// List retrieves the user's API keys with pagination.
func (a *apikeyUseCase) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*apikeyDomain.APIKey, error) {
	keys, err := a.apiKeyRepo.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}

	accessible, err := a.entitlementRepo.AccessibleAPIIDs(ctx, userID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	covered := make(map[uuid.UUID]struct{}, len(accessible))
	for _, apiID := range accessible {
		covered[apiID] = struct{}{}
	}

	// Revoked keys stay visible as history, active keys whose subscription
	// lapsed are hidden.
	filtered := make([]*apikeyDomain.APIKey, 0, len(keys))
	for _, key := range keys {
		if key.IsActive {
			if _, ok := covered[key.APIID]; !ok {
				continue
			}
		}
		filtered = append(filtered, key)
	}

	return filtered, nil
}

// NewAPIKeyUseCase creates a new APIKeyUseCase with required dependencies.
func NewAPIKeyUseCase(
	apiKeyRepo APIKeyRepository,
	apiRepo APIRepository,
	entitlementRepo EntitlementRepository,
	keyService service.KeyService,
) APIKeyUseCase {
	return &apikeyUseCase{
		apiKeyRepo:      apiKeyRepo,
		apiRepo:         apiRepo,
		entitlementRepo: entitlementRepo,
		keyService:      keyService,
	}
}
