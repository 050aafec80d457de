package dto

import (
	"time"

	subscriptionDomain "github.com/allisson/gateway/internal/subscription/domain"
)

// SubscriptionResponse represents a subscription in HTTP responses.
type SubscriptionResponse struct {
	ID                 string    `json:"id"`
	PackageID          string    `json:"package_id"`
	Status             string    `json:"status"`
	CurrentPeriodStart time.Time `json:"current_period_start"`
	CurrentPeriodEnd   time.Time `json:"current_period_end"`
	CreatedAt          time.Time `json:"created_at"`
}

// MapSubscriptionToResponse converts a domain Subscription to an HTTP response.
func MapSubscriptionToResponse(subscription *subscriptionDomain.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:                 subscription.ID.String(),
		PackageID:          subscription.PackageID.String(),
		Status:             string(subscription.Status),
		CurrentPeriodStart: subscription.CurrentPeriodStart,
		CurrentPeriodEnd:   subscription.CurrentPeriodEnd,
		CreatedAt:          subscription.CreatedAt,
	}
}

// ListSubscriptionsResponse wraps a page of subscriptions.
type ListSubscriptionsResponse struct {
	Subscriptions []SubscriptionResponse `json:"subscriptions"`
	Offset        int                    `json:"offset"`
	Limit         int                    `json:"limit"`
}

// MapSubscriptionsToListResponse converts domain Subscriptions to a paginated HTTP response.
func MapSubscriptionsToListResponse(
	subscriptions []*subscriptionDomain.Subscription,
	offset, limit int,
) ListSubscriptionsResponse {
	responses := make([]SubscriptionResponse, 0, len(subscriptions))
	for _, subscription := range subscriptions {
		responses = append(responses, MapSubscriptionToResponse(subscription))
	}
	return ListSubscriptionsResponse{
		Subscriptions: responses,
		Offset:        offset,
		Limit:         limit,
	}
}
