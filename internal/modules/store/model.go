package store

import (
	"time"

	"github.com/google/uuid"
)

// Store represents a retail store that accepts pickups.
type Store struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	Name             string    `json:"name"`
	Address          string    `json:"address,omitempty"`
	MaxDailyCapacity int       `json:"max_daily_capacity"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DayCapacity is a per-store, per-date override row. It is created lazily on
// the first booking or admin override for a date; an absent row means the
// store's default capacity with zero bookings.
type DayCapacity struct {
	StoreID      uuid.UUID `json:"store_id"`
	Date         string    `json:"date"` // YYYY-MM-DD
	MaxCapacity  int       `json:"max_capacity"`
	UsedCapacity int       `json:"used_capacity"`
}

// UpdateCapacityRequest changes a store's default daily capacity.
type UpdateCapacityRequest struct {
	MaxDailyCapacity int `json:"max_daily_capacity"`
}

// SetDateCapacityRequest overrides the capacity of a single date.
type SetDateCapacityRequest struct {
	Date        string `json:"date"`
	MaxCapacity int    `json:"max_capacity"`
}

// Availability reports the bookable slots of a store on a date.
type Availability struct {
	StoreID      string `json:"store_id"`
	Date         string `json:"date"`
	MaxCapacity  int    `json:"max_capacity"`
	UsedCapacity int    `json:"used_capacity"`
	Available    int    `json:"available"`
}
