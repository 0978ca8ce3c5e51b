package user

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies which dashboard an account belongs to.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStore    Role = "store"
	RoleEmployee Role = "employee"
)

// Valid reports whether the role is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStore || r == RoleEmployee
}

// DefaultPassword is the fixed seed password given to accounts created by an
// admin without an explicit password. First login with it forces a password
// change.
const DefaultPassword = "123456"

// User represents an account in the system.
type User struct {
	ID                 uuid.UUID `json:"id"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	FullName           string    `json:"full_name"`
	Role               Role      `json:"role"`
	MustChangePassword bool      `json:"must_change_password"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// RoleMetadata carries the role-scoped record created alongside an account:
// employee fields for employee accounts, store fields for store accounts.
type RoleMetadata struct {
	Name             string `json:"name"`
	Email            string `json:"email,omitempty"`
	CPF              string `json:"cpf,omitempty"`
	MonthlyLimit     int    `json:"monthly_limit,omitempty"`
	Address          string `json:"address,omitempty"`
	MaxDailyCapacity int    `json:"max_daily_capacity,omitempty"`
}

// CreateUserRequest is the payload for creating an account with its
// role-scoped record.
type CreateUserRequest struct {
	Email    string        `json:"email"`
	Password string        `json:"password,omitempty"`
	FullName string        `json:"full_name"`
	Role     string        `json:"role"`
	Metadata *RoleMetadata `json:"metadata,omitempty"`
}

// ChangePasswordRequest is the payload for setting a new password.
type ChangePasswordRequest struct {
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}
