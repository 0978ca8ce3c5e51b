package employee

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL employee repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const employeeColumns = `id, user_id, name, email, cpf, monthly_limit, current_month_pickups, last_reset_month, created_at, updated_at`

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Employee, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return scanEmployee(r.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id=$1`, uid))
}

func (r *postgresRepo) GetByUserID(ctx context.Context, userID string) (*Employee, error) {
	return scanEmployee(r.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE user_id=$1`, userID))
}

func (r *postgresRepo) List(ctx context.Context) ([]*Employee, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+employeeColumns+` FROM employees ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []*Employee
	for rows.Next() {
		e := &Employee{}
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Name, &e.Email, &e.CPF,
			&e.MonthlyLimit, &e.CurrentMonthPickups, &e.LastResetMonth,
			&e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (r *postgresRepo) UpdateMonthlyLimit(ctx context.Context, id string, limit int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE employees SET monthly_limit=$1, updated_at=$2 WHERE id=$3`,
		limit, time.Now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ApplyQuotaDelta performs the month reset and the guarded adjustment as a
// single statement, so concurrent schedulers cannot overshoot the limit.
func (r *postgresRepo) ApplyQuotaDelta(ctx context.Context, id string, delta int, month string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE employees SET
		  current_month_pickups = GREATEST(0,
		    CASE WHEN last_reset_month = $3 THEN current_month_pickups ELSE 0 END + $2),
		  last_reset_month = $3,
		  updated_at = NOW()
		WHERE id = $1
		  AND ($2 <= 0 OR
		    CASE WHEN last_reset_month = $3 THEN current_month_pickups ELSE 0 END + $2 <= monthly_limit)`,
		id, delta, month)
	if err != nil {
		return fmt.Errorf("apply quota delta: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrQuotaExceeded
	}
	return nil
}

func (r *postgresRepo) ResetStaleMonths(ctx context.Context, month string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE employees
		SET current_month_pickups = 0, last_reset_month = $1, updated_at = NOW()
		WHERE last_reset_month <> $1`, month)
	if err != nil {
		return 0, fmt.Errorf("reset stale months: %w", err)
	}
	return res.RowsAffected()
}

func scanEmployee(row *sql.Row) (*Employee, error) {
	e := &Employee{}
	err := row.Scan(
		&e.ID, &e.UserID, &e.Name, &e.Email, &e.CPF,
		&e.MonthlyLimit, &e.CurrentMonthPickups, &e.LastResetMonth,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}
