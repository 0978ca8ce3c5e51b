package user

import "context"

// Repository defines data access for accounts.
type Repository interface {
	// CreateWithRole persists the account, its role assignment, and the
	// role-scoped record (employee or store) in a single transaction.
	CreateWithRole(ctx context.Context, u *User, meta *RoleMetadata) error

	// GetUserByEmail retrieves an account by email, with its role resolved.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// GetUserByID retrieves an account by UUID, with its role resolved.
	GetUserByID(ctx context.Context, id string) (*User, error)

	// ListUsers returns all accounts with their roles.
	ListUsers(ctx context.Context) ([]*User, error)

	// UpdatePassword stores a new password hash and the must-change flag.
	UpdatePassword(ctx context.Context, id string, hash string, mustChange bool) error

	// DeleteWithRole removes the role-scoped record, push subscriptions, role
	// assignment, and the account in a single transaction.
	DeleteWithRole(ctx context.Context, id string, role Role) error
}
