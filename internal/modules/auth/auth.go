package auth

import (
	"context"

	"github.com/retirapp/retira-backend/internal/modules/calendar"
	"github.com/retirapp/retira-backend/internal/modules/employee"
	"github.com/retirapp/retira-backend/internal/modules/pickup"
	"github.com/retirapp/retira-backend/internal/modules/store"
	"github.com/retirapp/retira-backend/internal/modules/user"
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	// Login verifies the credentials and issues a signed bearer token.
	Login(ctx context.Context, email, password string) (*LoginResponse, error)

	// ResolveSession loads the role-scoped bootstrap data for an account and
	// opportunistically corrects stale employee quota months.
	ResolveSession(ctx context.Context, userID string) (*Session, error)
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and the authenticated account.
type LoginResponse struct {
	Token              string     `json:"token"`
	User               *user.User `json:"user"`
	MustChangePassword bool       `json:"must_change_password"`
}

// Session is the role-scoped snapshot a dashboard loads after login:
// employees see their own record, the stores, their pickups, and the blocked
// dates; stores see their record and their pickups; admins see everything.
type Session struct {
	User         *user.User              `json:"user"`
	Employee     *employee.Employee      `json:"employee,omitempty"`
	Store        *store.Store            `json:"store,omitempty"`
	Employees    []*employee.Employee    `json:"employees,omitempty"`
	Stores       []*store.Store          `json:"stores,omitempty"`
	Pickups      []*pickup.Pickup        `json:"pickups,omitempty"`
	BlockedDates []*calendar.BlockedDate `json:"blocked_dates"`
}
