package user

import (
	"context"
	"errors"
)

// Duplicate-record conflicts detected via unique-constraint violations.
var (
	ErrDuplicateEmail = errors.New("já existe um usuário cadastrado com este email")
	ErrDuplicateCPF   = errors.New("já existe um funcionário cadastrado com este CPF")
)

// Service defines the interface for user-related business logic.
type Service interface {
	// CreateUser creates an account, its role assignment, and the role-scoped
	// employee or store record. When no password is given the account is
	// seeded with the default password and forced to change it on first login.
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)

	// GetUser retrieves an account by UUID.
	GetUser(ctx context.Context, id string) (*User, error)

	// ListUsers returns all accounts.
	ListUsers(ctx context.Context) ([]*User, error)

	// ChangePassword validates the complexity rules, stores the new hash, and
	// clears the must-change flag.
	ChangePassword(ctx context.Context, id string, req ChangePasswordRequest) error

	// DeleteUser removes an account and everything scoped to it.
	DeleteUser(ctx context.Context, id string) error
}
