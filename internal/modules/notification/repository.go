package notification

import "context"

// Repository defines data access for push subscriptions.
type Repository interface {
	// Save upserts a subscription keyed by endpoint.
	Save(ctx context.Context, sub *PushSubscription) error

	// ListByUser returns every subscription registered by an account.
	ListByUser(ctx context.Context, userID string) ([]*PushSubscription, error)

	// DeleteByEndpoint removes a subscription the push service reported dead.
	DeleteByEndpoint(ctx context.Context, endpoint string) error
}
