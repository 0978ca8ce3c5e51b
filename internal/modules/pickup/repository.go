package pickup

import (
	"context"
	"time"
)

// Repository defines data access for pickups.
type Repository interface {
	// Create persists a new pickup in scheduled state.
	Create(ctx context.Context, p *Pickup) error

	// GetByToken retrieves a pickup by its token.
	GetByToken(ctx context.Context, token string) (*Pickup, error)

	// ListByEmployee returns all pickups of an employee, newest first.
	ListByEmployee(ctx context.Context, employeeID string) ([]*Pickup, error)

	// ListByStore returns all pickups of a store, optionally filtered by
	// status, newest first.
	ListByStore(ctx context.Context, storeID string, status string) ([]*Pickup, error)

	// Complete marks a scheduled pickup completed. The update is conditional
	// on the current status; ErrAlreadyProcessed is returned when the token
	// does not reference a scheduled pickup.
	Complete(ctx context.Context, token string, at time.Time) error

	// Cancel marks a scheduled pickup cancelled with a reason, under the same
	// status condition as Complete.
	Cancel(ctx context.Context, token string, reason string, at time.Time) error

	// Delete removes a pickup record. Used only to compensate a scheduling
	// step that failed after the insert.
	Delete(ctx context.Context, id string) error
}
