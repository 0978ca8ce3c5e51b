package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/retirapp/retira-backend/internal/modules/calendar"
	"github.com/retirapp/retira-backend/internal/modules/employee"
	"github.com/retirapp/retira-backend/internal/modules/pickup"
	"github.com/retirapp/retira-backend/internal/modules/store"
	"github.com/retirapp/retira-backend/internal/modules/user"
)

// ErrInvalidCredentials is returned when the email or password is wrong.
var ErrInvalidCredentials = errors.New("credenciais inválidas")

const tokenTTL = 24 * time.Hour

type service struct {
	users     user.Repository
	employees employee.Repository
	stores    store.Repository
	pickups   pickup.Repository
	blocked   calendar.Repository
	jwtKey    []byte
	logger    *slog.Logger
}

// NewService creates a new auth service.
func NewService(
	users user.Repository,
	employees employee.Repository,
	stores store.Repository,
	pickups pickup.Repository,
	blocked calendar.Repository,
	jwtKey []byte,
	logger *slog.Logger,
) Service {
	return &service{
		users:     users,
		employees: employees,
		stores:    stores,
		pickups:   pickups,
		blocked:   blocked,
		jwtKey:    jwtKey,
		logger:    logger,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"sub":  u.ID.String(),
		"role": string(u.Role),
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtKey)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:              tokenString,
		User:               u,
		MustChangePassword: u.MustChangePassword,
	}, nil
}

func (s *service) ResolveSession(ctx context.Context, userID string) (*Session, error) {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	// Opportunistic monthly reset: correct every stale employee counter
	// before any quota is read.
	if n, err := s.employees.ResetStaleMonths(ctx, employee.Month(time.Now())); err != nil {
		s.logger.Error("monthly quota sweep failed", "error", err)
	} else if n > 0 {
		s.logger.Info("monthly quotas reset", "employees", n)
	}

	session := &Session{User: u}

	session.BlockedDates, err = s.blocked.List(ctx)
	if err != nil {
		return nil, err
	}

	switch u.Role {
	case user.RoleEmployee:
		emp, err := s.employees.GetByUserID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("employee record not found: %w", err)
		}
		session.Employee = emp
		session.Stores, err = s.stores.List(ctx)
		if err != nil {
			return nil, err
		}
		session.Pickups, err = s.pickups.ListByEmployee(ctx, emp.ID.String())
		if err != nil {
			return nil, err
		}

	case user.RoleStore:
		st, err := s.stores.GetByUserID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("store record not found: %w", err)
		}
		session.Store = st
		session.Pickups, err = s.pickups.ListByStore(ctx, st.ID.String(), "")
		if err != nil {
			return nil, err
		}

	case user.RoleAdmin:
		session.Employees, err = s.employees.List(ctx)
		if err != nil {
			return nil, err
		}
		session.Stores, err = s.stores.List(ctx)
		if err != nil {
			return nil, err
		}
	}

	return session, nil
}
