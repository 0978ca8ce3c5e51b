package employee

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrQuotaExceeded is returned when a quota adjustment would push an
// employee past the monthly limit.
var ErrQuotaExceeded = errors.New("quantidade excede o limite mensal do funcionário")

// Service defines employee business logic.
type Service interface {
	// GetEmployee retrieves an employee by UUID.
	GetEmployee(ctx context.Context, id string) (*Employee, error)

	// GetByUser retrieves the employee record owned by an account.
	GetByUser(ctx context.Context, userID string) (*Employee, error)

	// ListEmployees returns all employees, with stale quota months already
	// corrected in the returned snapshot.
	ListEmployees(ctx context.Context) ([]*Employee, error)

	// UpdateMonthlyLimit changes an employee's quota ceiling.
	UpdateMonthlyLimit(ctx context.Context, id string, req UpdateLimitRequest) (*Employee, error)

	// ResetStaleMonths corrects every employee whose quota month is stale.
	ResetStaleMonths(ctx context.Context) (int64, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new employee service.
func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByUser(ctx context.Context, userID string) (*Employee, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) ListEmployees(ctx context.Context) ([]*Employee, error) {
	employees, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	month := Month(s.now())
	for _, e := range employees {
		ResetIfStale(e, month)
	}
	return employees, nil
}

func (s *service) UpdateMonthlyLimit(ctx context.Context, id string, req UpdateLimitRequest) (*Employee, error) {
	if req.MonthlyLimit < 0 {
		return nil, fmt.Errorf("monthly_limit must be >= 0")
	}
	if err := s.repo.UpdateMonthlyLimit(ctx, id, req.MonthlyLimit); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) ResetStaleMonths(ctx context.Context) (int64, error) {
	return s.repo.ResetStaleMonths(ctx, Month(s.now()))
}
