package store

import "context"

// Repository defines data access for stores.
type Repository interface {
	// GetByID retrieves a store by UUID.
	GetByID(ctx context.Context, id string) (*Store, error)

	// GetByUserID retrieves the store record owned by an account.
	GetByUserID(ctx context.Context, userID string) (*Store, error)

	// List returns all stores ordered by name.
	List(ctx context.Context) ([]*Store, error)

	// UpdateMaxCapacity changes a store's default daily capacity.
	UpdateMaxCapacity(ctx context.Context, id string, capacity int) error
}

// CapacityRepository defines data access for per-date capacity rows.
type CapacityRepository interface {
	// GetDay returns the override row for (store, date), or nil when none exists.
	GetDay(ctx context.Context, storeID, date string) (*DayCapacity, error)

	// ListDays returns every override row of a store.
	ListDays(ctx context.Context, storeID string) ([]*DayCapacity, error)

	// SetDayCapacity sets the capacity ceiling of a date, creating the row
	// with zero bookings when it does not exist yet.
	SetDayCapacity(ctx context.Context, storeID, date string, capacity int) error

	// ReserveSlot consumes one booking slot for (store, date), creating the
	// row from defaultCapacity on first use. The increment is conditional on
	// used_capacity staying below the ceiling; ErrStoreFull is returned when
	// the date is fully booked.
	ReserveSlot(ctx context.Context, storeID, date string, defaultCapacity int) error

	// ReleaseSlot returns one booking slot, never dropping the counter below zero.
	ReleaseSlot(ctx context.Context, storeID, date string) error
}
