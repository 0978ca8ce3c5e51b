package pickup

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL pickup repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const pickupColumns = `id, employee_id, store_id, scheduled_date, quantity, observations, token, status, created_at, completed_at, cancelled_at, cancellation_reason`

func (r *postgresRepo) Create(ctx context.Context, p *Pickup) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pickup_schedules
		  (id, employee_id, store_id, scheduled_date, quantity, observations, token, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.EmployeeID, p.StoreID, p.Date, p.Quantity,
		p.Observations, p.Token, p.Status)
	if err != nil {
		return fmt.Errorf("insert pickup: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetByToken(ctx context.Context, token string) (*Pickup, error) {
	return scanPickup(r.db.QueryRowContext(ctx,
		`SELECT `+pickupColumns+` FROM pickup_schedules WHERE token=$1`, token))
}

func (r *postgresRepo) ListByEmployee(ctx context.Context, employeeID string) ([]*Pickup, error) {
	return r.queryPickups(ctx, `
		SELECT `+pickupColumns+` FROM pickup_schedules
		WHERE employee_id=$1 ORDER BY created_at DESC`, employeeID)
}

func (r *postgresRepo) ListByStore(ctx context.Context, storeID string, status string) ([]*Pickup, error) {
	query := `SELECT ` + pickupColumns + ` FROM pickup_schedules WHERE store_id=$1`
	args := []interface{}{storeID}
	if status != "" {
		query += ` AND status=$2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	return r.queryPickups(ctx, query, args...)
}

func (r *postgresRepo) Complete(ctx context.Context, token string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pickup_schedules SET status=$1, completed_at=$2
		WHERE token=$3 AND status=$4`,
		StatusCompleted, at, token, StatusScheduled)
	if err != nil {
		return fmt.Errorf("complete pickup: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadyProcessed
	}
	return nil
}

func (r *postgresRepo) Cancel(ctx context.Context, token string, reason string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pickup_schedules SET status=$1, cancelled_at=$2, cancellation_reason=$3
		WHERE token=$4 AND status=$5`,
		StatusCancelled, at, reason, token, StatusScheduled)
	if err != nil {
		return fmt.Errorf("cancel pickup: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadyProcessed
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pickup_schedules WHERE id=$1`, id)
	return err
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (r *postgresRepo) queryPickups(ctx context.Context, query string, args ...interface{}) ([]*Pickup, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pickups []*Pickup
	for rows.Next() {
		p := &Pickup{}
		var observations, reason sql.NullString
		var completedAt, cancelledAt sql.NullTime
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.StoreID, &p.Date, &p.Quantity,
			&observations, &p.Token, &p.Status, &p.CreatedAt,
			&completedAt, &cancelledAt, &reason); err != nil {
			return nil, err
		}
		p.Observations = observations.String
		p.CancellationReason = reason.String
		if completedAt.Valid {
			t := completedAt.Time
			p.CompletedAt = &t
		}
		if cancelledAt.Valid {
			t := cancelledAt.Time
			p.CancelledAt = &t
		}
		pickups = append(pickups, p)
	}
	return pickups, rows.Err()
}

func scanPickup(row *sql.Row) (*Pickup, error) {
	p := &Pickup{}
	var observations, reason sql.NullString
	var completedAt, cancelledAt sql.NullTime
	err := row.Scan(&p.ID, &p.EmployeeID, &p.StoreID, &p.Date, &p.Quantity,
		&observations, &p.Token, &p.Status, &p.CreatedAt,
		&completedAt, &cancelledAt, &reason)
	if err != nil {
		return nil, err
	}
	p.Observations = observations.String
	p.CancellationReason = reason.String
	if completedAt.Valid {
		t := completedAt.Time
		p.CompletedAt = &t
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		p.CancelledAt = &t
	}
	return p, nil
}
