package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	if req.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	role := Role(req.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role: %q", req.Role)
	}
	if role != RoleAdmin && (req.Metadata == nil || req.Metadata.Name == "") {
		return nil, fmt.Errorf("metadata with name is required for %s accounts", role)
	}

	password := req.Password
	mustChange := false
	if password == "" {
		password = DefaultPassword
		mustChange = true
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:                 uuid.New(),
		Email:              req.Email,
		PasswordHash:       string(hashedPassword),
		FullName:           req.FullName,
		Role:               role,
		MustChangePassword: mustChange,
	}

	if err := s.repo.CreateWithRole(ctx, u, req.Metadata); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *service) ChangePassword(ctx context.Context, id string, req ChangePasswordRequest) error {
	if err := ValidatePassword(req.NewPassword, req.ConfirmPassword); err != nil {
		return err
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, id, string(hashedPassword), false)
}

func (s *service) DeleteUser(ctx context.Context, id string) error {
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}
	return s.repo.DeleteWithRole(ctx, id, u.Role)
}
