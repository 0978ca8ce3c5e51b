package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrStoreFull is returned when a date has no bookable slots left.
var ErrStoreFull = errors.New("a loja não tem mais vagas disponíveis para esta data")

// Service defines store business logic.
type Service interface {
	// GetStore retrieves a store by UUID.
	GetStore(ctx context.Context, id string) (*Store, error)

	// GetByUser retrieves the store record owned by an account.
	GetByUser(ctx context.Context, userID string) (*Store, error)

	// ListStores returns all stores.
	ListStores(ctx context.Context) ([]*Store, error)

	// UpdateMaxCapacity changes a store's default daily capacity.
	UpdateMaxCapacity(ctx context.Context, id string, req UpdateCapacityRequest) (*Store, error)

	// SetDateCapacity overrides the capacity ceiling of a single date.
	SetDateCapacity(ctx context.Context, id string, req SetDateCapacityRequest) error

	// GetAvailability reports the remaining slots of a store on a date.
	GetAvailability(ctx context.Context, id, date string) (*Availability, error)
}

type service struct {
	repo     Repository
	capacity CapacityRepository
}

// NewService creates a new store service.
func NewService(repo Repository, capacity CapacityRepository) Service {
	return &service{repo: repo, capacity: capacity}
}

func (s *service) GetStore(ctx context.Context, id string) (*Store, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByUser(ctx context.Context, userID string) (*Store, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) ListStores(ctx context.Context) ([]*Store, error) {
	return s.repo.List(ctx)
}

func (s *service) UpdateMaxCapacity(ctx context.Context, id string, req UpdateCapacityRequest) (*Store, error) {
	if req.MaxDailyCapacity < 1 {
		return nil, fmt.Errorf("max_daily_capacity must be >= 1")
	}
	if err := s.repo.UpdateMaxCapacity(ctx, id, req.MaxDailyCapacity); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) SetDateCapacity(ctx context.Context, id string, req SetDateCapacityRequest) error {
	if req.Date == "" {
		return fmt.Errorf("date is required")
	}
	if req.MaxCapacity < 0 {
		return fmt.Errorf("max_capacity must be >= 0")
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("store not found: %w", err)
	}
	return s.capacity.SetDayCapacity(ctx, id, req.Date, req.MaxCapacity)
}

func (s *service) GetAvailability(ctx context.Context, id, date string) (*Availability, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("store not found: %w", err)
	}
	day, err := s.capacity.GetDay(ctx, id, date)
	if err != nil {
		return nil, err
	}
	used := 0
	if day != nil {
		used = day.UsedCapacity
	}
	return &Availability{
		StoreID:      id,
		Date:         date,
		MaxCapacity:  EffectiveCapacity(st, day),
		UsedCapacity: used,
		Available:    AvailableCapacity(st, day),
	}, nil
}
