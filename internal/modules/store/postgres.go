package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL store repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const storeColumns = `id, user_id, name, address, max_daily_capacity, created_at, updated_at`

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Store, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return scanStore(r.db.QueryRowContext(ctx,
		`SELECT `+storeColumns+` FROM stores WHERE id=$1`, uid))
}

func (r *postgresRepo) GetByUserID(ctx context.Context, userID string) (*Store, error) {
	return scanStore(r.db.QueryRowContext(ctx,
		`SELECT `+storeColumns+` FROM stores WHERE user_id=$1`, userID))
}

func (r *postgresRepo) List(ctx context.Context) ([]*Store, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+storeColumns+` FROM stores ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []*Store
	for rows.Next() {
		s := &Store{}
		var address sql.NullString
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &address,
			&s.MaxDailyCapacity, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Address = address.String
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (r *postgresRepo) UpdateMaxCapacity(ctx context.Context, id string, capacity int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE stores SET max_daily_capacity=$1, updated_at=$2 WHERE id=$3`,
		capacity, time.Now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanStore(row *sql.Row) (*Store, error) {
	s := &Store{}
	var address sql.NullString
	err := row.Scan(&s.ID, &s.UserID, &s.Name, &address,
		&s.MaxDailyCapacity, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Address = address.String
	return s, nil
}

// ── capacity rows ────────────────────────────────────────────────────────────

type capacityPostgresRepo struct{ db *sql.DB }

// NewCapacityPostgresRepository creates a new PostgreSQL day-capacity repository.
func NewCapacityPostgresRepository(db *sql.DB) CapacityRepository {
	return &capacityPostgresRepo{db: db}
}

func (r *capacityPostgresRepo) GetDay(ctx context.Context, storeID, date string) (*DayCapacity, error) {
	d := &DayCapacity{}
	err := r.db.QueryRowContext(ctx, `
		SELECT store_id, date, max_capacity, used_capacity
		FROM store_capacities WHERE store_id=$1 AND date=$2`,
		storeID, date).Scan(&d.StoreID, &d.Date, &d.MaxCapacity, &d.UsedCapacity)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *capacityPostgresRepo) ListDays(ctx context.Context, storeID string) ([]*DayCapacity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT store_id, date, max_capacity, used_capacity
		FROM store_capacities WHERE store_id=$1 ORDER BY date ASC`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []*DayCapacity
	for rows.Next() {
		d := &DayCapacity{}
		if err := rows.Scan(&d.StoreID, &d.Date, &d.MaxCapacity, &d.UsedCapacity); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func (r *capacityPostgresRepo) SetDayCapacity(ctx context.Context, storeID, date string, capacity int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO store_capacities (store_id, date, max_capacity, used_capacity)
		VALUES ($1, $2, $3, 0)
		ON CONFLICT (store_id, date) DO UPDATE SET max_capacity = EXCLUDED.max_capacity`,
		storeID, date, capacity)
	if err != nil {
		return fmt.Errorf("set day capacity: %w", err)
	}
	return nil
}

// ReserveSlot upserts the day row and increments used_capacity in one
// conditional statement, so two concurrent bookings cannot take the last slot
// twice.
func (r *capacityPostgresRepo) ReserveSlot(ctx context.Context, storeID, date string, defaultCapacity int) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO store_capacities (store_id, date, max_capacity, used_capacity)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (store_id, date) DO UPDATE
		  SET used_capacity = store_capacities.used_capacity + 1
		  WHERE store_capacities.used_capacity < store_capacities.max_capacity`,
		storeID, date, defaultCapacity)
	if err != nil {
		return fmt.Errorf("reserve slot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStoreFull
	}
	return nil
}

func (r *capacityPostgresRepo) ReleaseSlot(ctx context.Context, storeID, date string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE store_capacities
		SET used_capacity = GREATEST(0, used_capacity - 1)
		WHERE store_id=$1 AND date=$2`, storeID, date)
	if err != nil {
		return fmt.Errorf("release slot: %w", err)
	}
	return nil
}
