package user

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateWithRole(ctx context.Context, u *User, meta *RoleMetadata) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, full_name, must_change_password)
		VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.PasswordHash, u.FullName, u.MustChangePassword)
	if err != nil {
		return translateConstraint(err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`, u.ID, u.Role)
	if err != nil {
		return fmt.Errorf("insert role: %w", err)
	}

	switch u.Role {
	case RoleEmployee:
		monthlyLimit := meta.MonthlyLimit
		if monthlyLimit <= 0 {
			monthlyLimit = 2
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO employees
			  (id, user_id, name, email, cpf, monthly_limit, current_month_pickups, last_reset_month)
			VALUES ($1, $2, $3, $4, $5, $6, 0, $7)`,
			uuid.New(), u.ID, meta.Name, meta.Email, meta.CPF,
			monthlyLimit, time.Now().Format("2006-01"))
		if err != nil {
			return translateConstraint(err)
		}
	case RoleStore:
		maxCapacity := meta.MaxDailyCapacity
		if maxCapacity <= 0 {
			maxCapacity = 10
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO stores (id, user_id, name, address, max_daily_capacity)
			VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), u.ID, meta.Name, meta.Address, maxCapacity)
		if err != nil {
			return translateConstraint(err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.db.QueryRowContext(ctx, userQuery+` WHERE u.email = $1`, email))
}

func (r *postgresRepository) GetUserByID(ctx context.Context, id string) (*User, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return scanUser(r.db.QueryRowContext(ctx, userQuery+` WHERE u.id = $1`, parsedID))
}

func (r *postgresRepository) ListUsers(ctx context.Context) ([]*User, error) {
	rows, err := r.db.QueryContext(ctx, userQuery+` ORDER BY u.created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u := &User{}
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName,
			&u.MustChangePassword, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *postgresRepository) UpdatePassword(ctx context.Context, id string, hash string, mustChange bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET password_hash=$1, must_change_password=$2, updated_at=$3
		WHERE id=$4`, hash, mustChange, time.Now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *postgresRepository) DeleteWithRole(ctx context.Context, id string, role Role) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	switch role {
	case RoleEmployee:
		if _, err := tx.ExecContext(ctx, `DELETE FROM employees WHERE user_id=$1`, id); err != nil {
			return fmt.Errorf("delete employee record: %w", err)
		}
	case RoleStore:
		if _, err := tx.ExecContext(ctx, `DELETE FROM stores WHERE user_id=$1`, id); err != nil {
			return fmt.Errorf("delete store record: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM push_subscriptions WHERE user_id=$1`, id); err != nil {
		return fmt.Errorf("delete push subscriptions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id=$1`, id); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	return tx.Commit()
}

const userQuery = `
	SELECT u.id, u.email, u.password_hash, u.full_name, u.must_change_password,
	       COALESCE(r.role, 'employee'), u.created_at, u.updated_at
	FROM users u
	LEFT JOIN user_roles r ON r.user_id = u.id`

func scanUser(row *sql.Row) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName,
		&u.MustChangePassword, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// translateConstraint maps Postgres unique violations to the localized
// messages shown to admins on duplicate email or CPF.
func translateConstraint(err error) error {
	pqErr, ok := err.(*pq.Error)
	if !ok || pqErr.Code != "23505" {
		return err
	}
	detail := strings.ToLower(pqErr.Constraint + " " + pqErr.Detail)
	switch {
	case strings.Contains(detail, "cpf"):
		return ErrDuplicateCPF
	case strings.Contains(detail, "email"):
		return ErrDuplicateEmail
	default:
		return ErrDuplicateEmail
	}
}
