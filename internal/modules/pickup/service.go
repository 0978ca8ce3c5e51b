package pickup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/retirapp/retira-backend/internal/modules/calendar"
	"github.com/retirapp/retira-backend/internal/modules/employee"
	"github.com/retirapp/retira-backend/internal/modules/notification"
	"github.com/retirapp/retira-backend/internal/modules/store"
)

// Pickup lifecycle errors.
var (
	ErrNotFound         = errors.New("retirada não encontrada")
	ErrAlreadyProcessed = errors.New("esta retirada já foi confirmada ou cancelada")
	ErrReasonRequired   = errors.New("o motivo do cancelamento é obrigatório")
)

// Service defines the pickup lifecycle business logic.
type Service interface {
	// Schedule validates quota, blocked dates, and capacity, then books the
	// pickup: one capacity slot and the requested quantity of the employee's
	// monthly quota are consumed at schedule time. The store is notified
	// asynchronously; notification failure never rolls back the booking.
	Schedule(ctx context.Context, req ScheduleRequest) (*Pickup, error)

	// Confirm completes a scheduled pickup by token. Counters are not
	// adjusted: they were consumed at schedule time. Confirming a token whose
	// pickup is no longer scheduled fails.
	Confirm(ctx context.Context, token string) (*Pickup, error)

	// Cancel cancels a scheduled pickup by token with a mandatory reason,
	// releasing the capacity slot and restoring the quota that scheduling
	// consumed.
	Cancel(ctx context.Context, token string, req CancelRequest) (*Pickup, error)

	// GetByToken retrieves a pickup by token.
	GetByToken(ctx context.Context, token string) (*Pickup, error)

	// ListByEmployee returns all pickups of an employee.
	ListByEmployee(ctx context.Context, employeeID string) ([]*Pickup, error)

	// ListByStore returns all pickups of a store, optionally filtered by status.
	ListByStore(ctx context.Context, storeID string, status string) ([]*Pickup, error)
}

type service struct {
	repo       Repository
	employees  employee.Repository
	stores     store.Repository
	capacities store.CapacityRepository
	blocked    calendar.Repository
	notifier   notification.Dispatcher
	logger     *slog.Logger
	now        func() time.Time
	// asyncNotify is disabled in tests so dispatch calls can be asserted.
	asyncNotify bool
}

// NewService creates a new pickup service.
func NewService(
	repo Repository,
	employees employee.Repository,
	stores store.Repository,
	capacities store.CapacityRepository,
	blocked calendar.Repository,
	notifier notification.Dispatcher,
	logger *slog.Logger,
) Service {
	return &service{
		repo:        repo,
		employees:   employees,
		stores:      stores,
		capacities:  capacities,
		blocked:     blocked,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
		asyncNotify: true,
	}
}

func (s *service) Schedule(ctx context.Context, req ScheduleRequest) (*Pickup, error) {
	if req.StoreID == "" || req.Date == "" {
		return nil, fmt.Errorf("store_id and date are required")
	}
	if req.EmployeeID == "" {
		return nil, fmt.Errorf("employee_id is required")
	}
	if req.Quantity < 1 {
		return nil, fmt.Errorf("quantity must be >= 1")
	}
	if _, err := time.Parse(calendar.DateLayout, req.Date); err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	emp, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("funcionário não encontrado: %w", err)
	}

	month := employee.Month(s.now())
	if employee.ExceedsLimit(emp, req.Quantity, month) {
		return nil, employee.ErrQuotaExceeded
	}

	isBlocked, err := s.blocked.IsBlocked(ctx, req.Date)
	if err != nil {
		return nil, err
	}
	if isBlocked {
		return nil, calendar.ErrDateBlocked
	}

	st, err := s.stores.GetByID(ctx, req.StoreID)
	if err != nil {
		return nil, fmt.Errorf("loja não encontrada: %w", err)
	}
	day, err := s.capacities.GetDay(ctx, req.StoreID, req.Date)
	if err != nil {
		return nil, err
	}
	if store.AvailableCapacity(st, day) < 1 {
		return nil, store.ErrStoreFull
	}

	token, err := NewToken()
	if err != nil {
		return nil, err
	}

	// Booking order: capacity slot, quota, pickup row. Each write is an
	// atomic conditional update; a failed step compensates the earlier ones
	// so a rejected booking leaves no trace.
	if err := s.capacities.ReserveSlot(ctx, req.StoreID, req.Date, st.MaxDailyCapacity); err != nil {
		return nil, err
	}
	if err := s.employees.ApplyQuotaDelta(ctx, req.EmployeeID, req.Quantity, month); err != nil {
		s.compensate(ctx, "release slot after quota rejection",
			func(cctx context.Context) error { return s.capacities.ReleaseSlot(cctx, req.StoreID, req.Date) })
		return nil, err
	}

	p := &Pickup{
		ID:           uuid.New(),
		EmployeeID:   emp.ID,
		StoreID:      st.ID,
		Date:         req.Date,
		Quantity:     req.Quantity,
		Observations: req.Observations,
		Token:        token,
		Status:       StatusScheduled,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.compensate(ctx, "release slot after failed insert",
			func(cctx context.Context) error { return s.capacities.ReleaseSlot(cctx, req.StoreID, req.Date) })
		s.compensate(ctx, "restore quota after failed insert",
			func(cctx context.Context) error { return s.employees.ApplyQuotaDelta(cctx, req.EmployeeID, -req.Quantity, month) })
		return nil, err
	}

	s.dispatch(func(nctx context.Context) error {
		return s.notifier.NotifyStorePickup(nctx, st.ID.String(), token, req.Date, req.Quantity, emp.Name)
	})
	return p, nil
}

func (s *service) Confirm(ctx context.Context, token string) (*Pickup, error) {
	p, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, ErrNotFound
	}
	if p.Status != StatusScheduled {
		return nil, ErrAlreadyProcessed
	}

	completedAt := s.now()
	if err := s.repo.Complete(ctx, token, completedAt); err != nil {
		return nil, err
	}
	p.Status = StatusCompleted
	p.CompletedAt = &completedAt

	storeName := s.storeName(ctx, p.StoreID.String())
	s.dispatch(func(nctx context.Context) error {
		return s.notifier.NotifyEmployeePickup(nctx, p.EmployeeID.String(),
			string(StatusCompleted), token, storeName, p.Date, "")
	})
	return p, nil
}

func (s *service) Cancel(ctx context.Context, token string, req CancelRequest) (*Pickup, error) {
	if req.Reason == "" {
		return nil, ErrReasonRequired
	}

	p, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, ErrNotFound
	}
	if p.Status != StatusScheduled {
		return nil, ErrAlreadyProcessed
	}

	cancelledAt := s.now()
	if err := s.repo.Cancel(ctx, token, req.Reason, cancelledAt); err != nil {
		return nil, err
	}
	p.Status = StatusCancelled
	p.CancelledAt = &cancelledAt
	p.CancellationReason = req.Reason

	// Give back exactly what scheduling consumed: one capacity slot and the
	// booked quantity of quota.
	if err := s.capacities.ReleaseSlot(ctx, p.StoreID.String(), p.Date); err != nil {
		return nil, fmt.Errorf("release capacity: %w", err)
	}
	month := employee.Month(s.now())
	if err := s.employees.ApplyQuotaDelta(ctx, p.EmployeeID.String(), -p.Quantity, month); err != nil {
		return nil, fmt.Errorf("restore quota: %w", err)
	}

	storeName := s.storeName(ctx, p.StoreID.String())
	s.dispatch(func(nctx context.Context) error {
		return s.notifier.NotifyEmployeePickup(nctx, p.EmployeeID.String(),
			string(StatusCancelled), token, storeName, p.Date, req.Reason)
	})
	return p, nil
}

func (s *service) GetByToken(ctx context.Context, token string) (*Pickup, error) {
	p, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *service) ListByEmployee(ctx context.Context, employeeID string) ([]*Pickup, error) {
	return s.repo.ListByEmployee(ctx, employeeID)
}

func (s *service) ListByStore(ctx context.Context, storeID string, status string) ([]*Pickup, error) {
	return s.repo.ListByStore(ctx, storeID, status)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (s *service) storeName(ctx context.Context, storeID string) string {
	st, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		s.logger.Warn("store lookup for notification failed", "store_id", storeID, "error", err)
		return ""
	}
	return st.Name
}

// dispatch runs a notification send without blocking the caller. Failures
// are logged and swallowed.
func (s *service) dispatch(send func(context.Context) error) {
	run := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := send(ctx); err != nil {
			s.logger.Error("pickup notification failed", "error", err)
		}
	}
	if s.asyncNotify {
		go run()
		return
	}
	run()
}

func (s *service) compensate(ctx context.Context, what string, undo func(context.Context) error) {
	if err := undo(ctx); err != nil {
		s.logger.Error("compensation failed", "step", what, "error", err)
	}
}
