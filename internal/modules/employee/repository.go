package employee

import "context"

// Repository defines data access for employees.
type Repository interface {
	// GetByID retrieves an employee by UUID.
	GetByID(ctx context.Context, id string) (*Employee, error)

	// GetByUserID retrieves the employee record owned by an account.
	GetByUserID(ctx context.Context, userID string) (*Employee, error)

	// List returns all employees ordered by name.
	List(ctx context.Context) ([]*Employee, error)

	// UpdateMonthlyLimit changes an employee's monthly quota ceiling.
	UpdateMonthlyLimit(ctx context.Context, id string, limit int) error

	// ApplyQuotaDelta atomically adjusts current_month_pickups by delta,
	// resetting the counter first when last_reset_month differs from month.
	// A positive delta is rejected with ErrQuotaExceeded when it would push
	// the counter past monthly_limit; the stored counter never drops below 0.
	ApplyQuotaDelta(ctx context.Context, id string, delta int, month string) error

	// ResetStaleMonths zeroes the counter for every employee whose
	// last_reset_month differs from month and returns how many were corrected.
	ResetStaleMonths(ctx context.Context, month string) (int64, error)
}
