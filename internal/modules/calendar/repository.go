package calendar

import "context"

// Repository defines data access for blocked dates.
type Repository interface {
	// List returns all blocked dates ordered by date.
	List(ctx context.Context) ([]*BlockedDate, error)

	// IsBlocked reports whether a date is blocked.
	IsBlocked(ctx context.Context, date string) (bool, error)

	// Block inserts a blocked date; blocking an already-blocked date is a no-op.
	Block(ctx context.Context, date, reason string) error

	// Unblock removes a blocked date.
	Unblock(ctx context.Context, date string) error
}
