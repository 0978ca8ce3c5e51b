package calendar

import (
	"context"
	"database/sql"
	"fmt"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL blocked-date repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) List(ctx context.Context) ([]*BlockedDate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, reason, created_at FROM blocked_dates ORDER BY date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []*BlockedDate
	for rows.Next() {
		b := &BlockedDate{}
		var reason sql.NullString
		if err := rows.Scan(&b.Date, &reason, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.Reason = reason.String
		dates = append(dates, b)
	}
	return dates, rows.Err()
}

func (r *postgresRepo) IsBlocked(ctx context.Context, date string) (bool, error) {
	var blocked bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM blocked_dates WHERE date=$1)`, date).Scan(&blocked)
	if err != nil {
		return false, fmt.Errorf("check blocked date: %w", err)
	}
	return blocked, nil
}

func (r *postgresRepo) Block(ctx context.Context, date, reason string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO blocked_dates (date, reason) VALUES ($1, $2)
		ON CONFLICT (date) DO NOTHING`, date, reason)
	if err != nil {
		return fmt.Errorf("block date: %w", err)
	}
	return nil
}

func (r *postgresRepo) Unblock(ctx context.Context, date string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM blocked_dates WHERE date=$1`, date)
	if err != nil {
		return fmt.Errorf("unblock date: %w", err)
	}
	return nil
}
