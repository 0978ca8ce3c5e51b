package pickup

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a pickup.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Pickup is an employee's reservation to collect a quantity of product at a
// store on a date. The token is the credential the employee presents at the
// counter; the store confirms or cancels by token. Lifecycle:
// scheduled → completed or scheduled → cancelled, both terminal.
type Pickup struct {
	ID                 uuid.UUID  `json:"id"`
	EmployeeID         uuid.UUID  `json:"employee_id"`
	StoreID            uuid.UUID  `json:"store_id"`
	Date               string     `json:"date"` // YYYY-MM-DD
	Quantity           int        `json:"quantity"`
	Observations       string     `json:"observations,omitempty"`
	Token              string     `json:"token"`
	Status             Status     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
}

// ScheduleRequest is the payload for scheduling a pickup.
type ScheduleRequest struct {
	EmployeeID   string `json:"employee_id"`
	StoreID      string `json:"store_id"`
	Date         string `json:"date"`
	Quantity     int    `json:"quantity"`
	Observations string `json:"observations,omitempty"`
}

// CancelRequest is the payload for cancelling a scheduled pickup.
type CancelRequest struct {
	Reason string `json:"reason"`
}
