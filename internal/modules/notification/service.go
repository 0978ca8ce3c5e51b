package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service defines push-subscription business logic.
type Service interface {
	// SaveSubscription registers or refreshes a browser push subscription.
	SaveSubscription(ctx context.Context, req SaveSubscriptionRequest) error
}

type service struct {
	repo Repository
}

// NewService creates a new notification service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) SaveSubscription(ctx context.Context, req SaveSubscriptionRequest) error {
	if req.Subscription.Endpoint == "" || req.Subscription.Keys.P256dh == "" || req.Subscription.Keys.Auth == "" {
		return fmt.Errorf("subscription endpoint and keys are required")
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return fmt.Errorf("invalid userId: %w", err)
	}
	return s.repo.Save(ctx, &PushSubscription{
		UserID:   userID,
		Role:     req.Role,
		Endpoint: req.Subscription.Endpoint,
		P256dh:   req.Subscription.Keys.P256dh,
		Auth:     req.Subscription.Keys.Auth,
	})
}
