package usecase

import (
	"context"
	"errors"

	apikeyDomain "github.com/allisson/gateway/internal/apikey/domain"
	apperrors "github.com/allisson/gateway/internal/errors"
	gatewayDomain "github.com/allisson/gateway/internal/gateway/domain"
)

// keyResolver implements KeyResolver against the api_keys store.
type keyResolver struct {
	apiKeyRepo APIKeyRepository
}

// Resolve maps a key value to its KeyContext. Unknown and revoked keys both
// resolve to an unauthorized error, infrastructure failures keep their own
// error so the caller fails closed instead of reporting a bad credential.
func (k *keyResolver) Resolve(ctx context.Context, key string) (*gatewayDomain.KeyContext, error) {
	apiKey, err := k.apiKeyRepo.GetActiveByKey(ctx, key)
	if err != nil {
		if errors.Is(err, apikeyDomain.ErrAPIKeyNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "unknown api key")
		}
		return nil, err
	}

	return &gatewayDomain.KeyContext{
		APIKeyID: apiKey.ID,
		UserID:   apiKey.UserID,
		APIID:    apiKey.APIID,
	}, nil
}

// NewKeyResolver creates a KeyResolver backed by the api_keys store.
func NewKeyResolver(apiKeyRepo APIKeyRepository) KeyResolver {
	return &keyResolver{apiKeyRepo: apiKeyRepo}
}
