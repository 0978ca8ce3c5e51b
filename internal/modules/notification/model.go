package notification

import (
	"time"

	"github.com/google/uuid"
)

// PushSubscription is a browser push endpoint registered by an account.
type PushSubscription struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	Endpoint  string    `json:"endpoint"`
	P256dh    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveSubscriptionRequest is the payload sent by the browser after
// subscribing to the push manager.
type SaveSubscriptionRequest struct {
	UserID       string `json:"userId"`
	Role         string `json:"role"`
	Subscription struct {
		Endpoint string `json:"endpoint"`
		Keys     struct {
			P256dh string `json:"p256dh"`
			Auth   string `json:"auth"`
		} `json:"keys"`
	} `json:"subscription"`
}

// Payload is the JSON document delivered to the service worker. Clicking the
// notification focuses the window matching Data.URL or opens a new one.
type Payload struct {
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Icon  string                 `json:"icon"`
	Badge string                 `json:"badge"`
	Tag   string                 `json:"tag,omitempty"`
	Data  map[string]interface{} `json:"data"`
}
