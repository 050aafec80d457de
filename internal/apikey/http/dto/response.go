package dto

import (
	"time"

	apikeyDomain "github.com/allisson/gateway/internal/apikey/domain"
)

// APIKeyResponse represents an API key in HTTP responses.
type APIKeyResponse struct {
	ID        string     `json:"id"`
	APIID     string     `json:"api_id"`
	Key       string     `json:"key"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// MapAPIKeyToResponse converts a domain APIKey to an HTTP response.
func MapAPIKeyToResponse(apiKey *apikeyDomain.APIKey) APIKeyResponse {
	return APIKeyResponse{
		ID:        apiKey.ID.String(),
		APIID:     apiKey.APIID.String(),
		Key:       apiKey.Key,
		IsActive:  apiKey.IsActive,
		CreatedAt: apiKey.CreatedAt,
		RevokedAt: apiKey.RevokedAt,
	}
}

// ListAPIKeysResponse wraps a page of API keys.
type ListAPIKeysResponse struct {
	APIKeys []APIKeyResponse `json:"api_keys"`
	Offset  int              `json:"offset"`
	Limit   int              `json:"limit"`
}

// MapAPIKeysToListResponse converts domain APIKeys to a paginated HTTP response.
func MapAPIKeysToListResponse(apiKeys []*apikeyDomain.APIKey, offset, limit int) ListAPIKeysResponse {
	responses := make([]APIKeyResponse, 0, len(apiKeys))
	for _, apiKey := range apiKeys {
		responses = append(responses, MapAPIKeyToResponse(apiKey))
	}
	return ListAPIKeysResponse{
		APIKeys: responses,
		Offset:  offset,
		Limit:   limit,
	}
}
