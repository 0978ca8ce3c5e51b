package employee

import (
	"time"

	"github.com/google/uuid"
)

// Employee represents a worker entitled to a monthly pickup quota.
// CurrentMonthPickups counts units already consumed in LastResetMonth
// (format "2006-01"); a stale LastResetMonth means the counter must be
// reset before it is read or written.
type Employee struct {
	ID                  uuid.UUID `json:"id"`
	UserID              uuid.UUID `json:"user_id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	CPF                 string    `json:"cpf"`
	MonthlyLimit        int       `json:"monthly_limit"`
	CurrentMonthPickups int       `json:"current_month_pickups"`
	LastResetMonth      string    `json:"last_reset_month"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// UpdateLimitRequest is the payload for changing an employee's monthly limit.
type UpdateLimitRequest struct {
	MonthlyLimit int `json:"monthly_limit"`
}
