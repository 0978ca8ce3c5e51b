package pickup

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/retirapp/retira-backend/internal/modules/calendar"
	"github.com/retirapp/retira-backend/internal/modules/employee"
	"github.com/retirapp/retira-backend/internal/modules/store"
)

// ── fakes ────────────────────────────────────────────────────────────────────

type fakeEmployeeRepo struct {
	employees map[string]*employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (*employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return e, nil
}

func (f *fakeEmployeeRepo) GetByUserID(ctx context.Context, userID string) (*employee.Employee, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeEmployeeRepo) List(ctx context.Context) ([]*employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) UpdateMonthlyLimit(ctx context.Context, id string, limit int) error {
	return nil
}

func (f *fakeEmployeeRepo) ApplyQuotaDelta(ctx context.Context, id string, delta int, month string) error {
	e, ok := f.employees[id]
	if !ok {
		return sql.ErrNoRows
	}
	if delta > 0 && employee.ExceedsLimit(e, delta, month) {
		return employee.ErrQuotaExceeded
	}
	employee.ApplyPickupDelta(e, delta, month)
	return nil
}

func (f *fakeEmployeeRepo) ResetStaleMonths(ctx context.Context, month string) (int64, error) {
	return 0, nil
}

type fakeStoreRepo struct {
	stores map[string]*store.Store
}

func (f *fakeStoreRepo) GetByID(ctx context.Context, id string) (*store.Store, error) {
	s, ok := f.stores[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func (f *fakeStoreRepo) GetByUserID(ctx context.Context, userID string) (*store.Store, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeStoreRepo) List(ctx context.Context) ([]*store.Store, error) { return nil, nil }

func (f *fakeStoreRepo) UpdateMaxCapacity(ctx context.Context, id string, capacity int) error {
	return nil
}

type fakeCapacityRepo struct {
	days map[string]*store.DayCapacity
}

func capKey(storeID, date string) string { return storeID + "|" + date }

func (f *fakeCapacityRepo) GetDay(ctx context.Context, storeID, date string) (*store.DayCapacity, error) {
	return f.days[capKey(storeID, date)], nil
}

func (f *fakeCapacityRepo) ListDays(ctx context.Context, storeID string) ([]*store.DayCapacity, error) {
	return nil, nil
}

func (f *fakeCapacityRepo) SetDayCapacity(ctx context.Context, storeID, date string, capacity int) error {
	key := capKey(storeID, date)
	if day, ok := f.days[key]; ok {
		day.MaxCapacity = capacity
		return nil
	}
	f.days[key] = &store.DayCapacity{Date: date, MaxCapacity: capacity}
	return nil
}

func (f *fakeCapacityRepo) ReserveSlot(ctx context.Context, storeID, date string, defaultCapacity int) error {
	key := capKey(storeID, date)
	day, ok := f.days[key]
	if !ok {
		if defaultCapacity < 1 {
			return store.ErrStoreFull
		}
		f.days[key] = &store.DayCapacity{Date: date, MaxCapacity: defaultCapacity, UsedCapacity: 1}
		return nil
	}
	if day.UsedCapacity >= day.MaxCapacity {
		return store.ErrStoreFull
	}
	day.UsedCapacity++
	return nil
}

func (f *fakeCapacityRepo) ReleaseSlot(ctx context.Context, storeID, date string) error {
	if day, ok := f.days[capKey(storeID, date)]; ok && day.UsedCapacity > 0 {
		day.UsedCapacity--
	}
	return nil
}

type fakeCalendarRepo struct {
	blocked map[string]bool
}

func (f *fakeCalendarRepo) List(ctx context.Context) ([]*calendar.BlockedDate, error) {
	return nil, nil
}

func (f *fakeCalendarRepo) IsBlocked(ctx context.Context, date string) (bool, error) {
	return f.blocked[date], nil
}

func (f *fakeCalendarRepo) Block(ctx context.Context, date, reason string) error {
	f.blocked[date] = true
	return nil
}

func (f *fakeCalendarRepo) Unblock(ctx context.Context, date string) error {
	delete(f.blocked, date)
	return nil
}

type fakePickupRepo struct {
	byToken map[string]*Pickup
}

func (f *fakePickupRepo) Create(ctx context.Context, p *Pickup) error {
	f.byToken[p.Token] = p
	return nil
}

func (f *fakePickupRepo) GetByToken(ctx context.Context, token string) (*Pickup, error) {
	p, ok := f.byToken[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *p
	return &clone, nil
}

func (f *fakePickupRepo) ListByEmployee(ctx context.Context, employeeID string) ([]*Pickup, error) {
	var out []*Pickup
	for _, p := range f.byToken {
		if p.EmployeeID.String() == employeeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePickupRepo) ListByStore(ctx context.Context, storeID string, status string) ([]*Pickup, error) {
	var out []*Pickup
	for _, p := range f.byToken {
		if p.StoreID.String() == storeID && (status == "" || string(p.Status) == status) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePickupRepo) Complete(ctx context.Context, token string, at time.Time) error {
	p, ok := f.byToken[token]
	if !ok || p.Status != StatusScheduled {
		return ErrAlreadyProcessed
	}
	p.Status = StatusCompleted
	p.CompletedAt = &at
	return nil
}

func (f *fakePickupRepo) Cancel(ctx context.Context, token string, reason string, at time.Time) error {
	p, ok := f.byToken[token]
	if !ok || p.Status != StatusScheduled {
		return ErrAlreadyProcessed
	}
	p.Status = StatusCancelled
	p.CancelledAt = &at
	p.CancellationReason = reason
	return nil
}

func (f *fakePickupRepo) Delete(ctx context.Context, id string) error {
	for token, p := range f.byToken {
		if p.ID.String() == id {
			delete(f.byToken, token)
		}
	}
	return nil
}

type notifyCall struct {
	kind   string
	status string
	reason string
	qty    int
}

type fakeDispatcher struct {
	calls []notifyCall
}

func (f *fakeDispatcher) NotifyStorePickup(ctx context.Context, storeID, token, date string, quantity int, employeeName string) error {
	f.calls = append(f.calls, notifyCall{kind: "store", qty: quantity})
	return nil
}

func (f *fakeDispatcher) NotifyEmployeePickup(ctx context.Context, employeeID, status, token, storeName, date, reason string) error {
	f.calls = append(f.calls, notifyCall{kind: "employee", status: status, reason: reason})
	return nil
}

// ── fixture ──────────────────────────────────────────────────────────────────

type fixture struct {
	svc        *service
	emp        *employee.Employee
	st         *store.Store
	capacities *fakeCapacityRepo
	pickups    *fakePickupRepo
	blocked    *fakeCalendarRepo
	dispatcher *fakeDispatcher
}

// newFixture builds the worked example: employee with monthlyLimit=6 and no
// pickups this month, store with effectiveCapacity=10 and bookedCount=3 on
// the test date.
func newFixture() *fixture {
	emp := &employee.Employee{
		ID:             uuid.New(),
		Name:           "João Silva",
		MonthlyLimit:   6,
		LastResetMonth: "2024-06",
	}
	st := &store.Store{
		ID:               uuid.New(),
		Name:             "Loja Centro",
		MaxDailyCapacity: 10,
	}
	capacities := &fakeCapacityRepo{days: map[string]*store.DayCapacity{
		capKey(st.ID.String(), "2024-06-20"): {Date: "2024-06-20", MaxCapacity: 10, UsedCapacity: 3},
	}}
	pickups := &fakePickupRepo{byToken: map[string]*Pickup{}}
	blocked := &fakeCalendarRepo{blocked: map[string]bool{}}
	dispatcher := &fakeDispatcher{}

	svc := &service{
		repo:        pickups,
		employees:   &fakeEmployeeRepo{employees: map[string]*employee.Employee{emp.ID.String(): emp}},
		stores:      &fakeStoreRepo{stores: map[string]*store.Store{st.ID.String(): st}},
		capacities:  capacities,
		blocked:     blocked,
		notifier:    dispatcher,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:         func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) },
		asyncNotify: false,
	}
	return &fixture{svc: svc, emp: emp, st: st, capacities: capacities, pickups: pickups, blocked: blocked, dispatcher: dispatcher}
}

func (f *fixture) usedOn(date string) int {
	day := f.capacities.days[capKey(f.st.ID.String(), date)]
	if day == nil {
		return 0
	}
	return day.UsedCapacity
}

func (f *fixture) schedule(t *testing.T, quantity int) *Pickup {
	t.Helper()
	p, err := f.svc.Schedule(context.Background(), ScheduleRequest{
		EmployeeID: f.emp.ID.String(),
		StoreID:    f.st.ID.String(),
		Date:       "2024-06-20",
		Quantity:   quantity,
	})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	return p
}

// ── tests ────────────────────────────────────────────────────────────────────

func TestScheduleWorkedExample(t *testing.T) {
	f := newFixture()

	p := f.schedule(t, 2)

	if p.Status != StatusScheduled {
		t.Errorf("status = %s, want scheduled", p.Status)
	}
	if len(p.Token) != TokenLength {
		t.Errorf("token %q not issued", p.Token)
	}
	if f.emp.CurrentMonthPickups != 2 {
		t.Errorf("CurrentMonthPickups = %d, want 2", f.emp.CurrentMonthPickups)
	}
	if got := f.usedOn("2024-06-20"); got != 4 {
		t.Errorf("bookedCount = %d, want 4", got)
	}
	if len(f.dispatcher.calls) != 1 || f.dispatcher.calls[0].kind != "store" || f.dispatcher.calls[0].qty != 2 {
		t.Errorf("store notification not dispatched: %+v", f.dispatcher.calls)
	}
}

func TestScheduleRejectsWhenStoreFull(t *testing.T) {
	f := newFixture()
	f.capacities.days[capKey(f.st.ID.String(), "2024-06-20")].UsedCapacity = 10

	_, err := f.svc.Schedule(context.Background(), ScheduleRequest{
		EmployeeID: f.emp.ID.String(),
		StoreID:    f.st.ID.String(),
		Date:       "2024-06-20",
		Quantity:   1,
	})
	if !errors.Is(err, store.ErrStoreFull) {
		t.Fatalf("err = %v, want ErrStoreFull", err)
	}
	if f.emp.CurrentMonthPickups != 0 {
		t.Error("quota mutated by rejected scheduling")
	}
	if len(f.pickups.byToken) != 0 {
		t.Error("pickup persisted despite rejection")
	}
	if len(f.dispatcher.calls) != 0 {
		t.Error("notification dispatched despite rejection")
	}
}

func TestScheduleRejectsQuotaExceeded(t *testing.T) {
	f := newFixture()
	f.emp.CurrentMonthPickups = 5

	_, err := f.svc.Schedule(context.Background(), ScheduleRequest{
		EmployeeID: f.emp.ID.String(),
		StoreID:    f.st.ID.String(),
		Date:       "2024-06-20",
		Quantity:   2,
	})
	if !errors.Is(err, employee.ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
	if got := f.usedOn("2024-06-20"); got != 3 {
		t.Errorf("bookedCount mutated to %d by rejected scheduling", got)
	}
	if len(f.pickups.byToken) != 0 {
		t.Error("pickup persisted despite rejection")
	}
}

func TestScheduleRejectsBlockedDateRegardlessOfCapacity(t *testing.T) {
	f := newFixture()
	f.blocked.blocked["2024-06-20"] = true

	_, err := f.svc.Schedule(context.Background(), ScheduleRequest{
		EmployeeID: f.emp.ID.String(),
		StoreID:    f.st.ID.String(),
		Date:       "2024-06-20",
		Quantity:   1,
	})
	if !errors.Is(err, calendar.ErrDateBlocked) {
		t.Fatalf("err = %v, want ErrDateBlocked", err)
	}
	if f.emp.CurrentMonthPickups != 0 || f.usedOn("2024-06-20") != 3 {
		t.Error("state mutated by rejected scheduling")
	}
}

func TestScheduleResetsStaleMonth(t *testing.T) {
	f := newFixture()
	f.emp.CurrentMonthPickups = 6
	f.emp.LastResetMonth = "2024-05"

	f.schedule(t, 1)

	if f.emp.CurrentMonthPickups != 1 {
		t.Errorf("CurrentMonthPickups = %d, want 1 after stale-month reset", f.emp.CurrentMonthPickups)
	}
	if f.emp.LastResetMonth != "2024-06" {
		t.Errorf("LastResetMonth = %q, want 2024-06", f.emp.LastResetMonth)
	}
}

func TestScheduleCreatesDayRowLazily(t *testing.T) {
	f := newFixture()

	f.schedule(t, 1)
	p, err := f.svc.Schedule(context.Background(), ScheduleRequest{
		EmployeeID: f.emp.ID.String(),
		StoreID:    f.st.ID.String(),
		Date:       "2024-06-25", // no capacity row for this date yet
		Quantity:   1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.Date != "2024-06-25" {
		t.Fatalf("date = %q", p.Date)
	}
	day := f.capacities.days[capKey(f.st.ID.String(), "2024-06-25")]
	if day == nil || day.MaxCapacity != 10 || day.UsedCapacity != 1 {
		t.Errorf("lazy row = %+v, want max=10 used=1", day)
	}
}

func TestScheduleValidation(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name string
		req  ScheduleRequest
	}{
		{"missing store and date", ScheduleRequest{EmployeeID: f.emp.ID.String(), Quantity: 1}},
		{"missing employee", ScheduleRequest{StoreID: f.st.ID.String(), Date: "2024-06-20", Quantity: 1}},
		{"zero quantity", ScheduleRequest{EmployeeID: f.emp.ID.String(), StoreID: f.st.ID.String(), Date: "2024-06-20"}},
		{"malformed date", ScheduleRequest{EmployeeID: f.emp.ID.String(), StoreID: f.st.ID.String(), Date: "20/06/2024", Quantity: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.Schedule(context.Background(), tt.req); err == nil {
				t.Error("expected validation error")
			}
		})
	}
	if f.emp.CurrentMonthPickups != 0 || f.usedOn("2024-06-20") != 3 {
		t.Error("state mutated by invalid requests")
	}
}

func TestCancelRoundTripRestoresCounters(t *testing.T) {
	f := newFixture()

	p := f.schedule(t, 2)
	if f.emp.CurrentMonthPickups != 2 || f.usedOn("2024-06-20") != 4 {
		t.Fatal("schedule did not consume counters")
	}

	cancelled, err := f.svc.Cancel(context.Background(), p.Token, CancelRequest{Reason: "imprevisto"})
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Errorf("status = %s, want cancelled", cancelled.Status)
	}
	if cancelled.CancelledAt == nil || cancelled.CancellationReason != "imprevisto" {
		t.Error("cancellation timestamp or reason missing")
	}
	if f.emp.CurrentMonthPickups != 0 {
		t.Errorf("CurrentMonthPickups = %d, want 0 after cancel", f.emp.CurrentMonthPickups)
	}
	if got := f.usedOn("2024-06-20"); got != 3 {
		t.Errorf("bookedCount = %d, want pre-schedule value 3", got)
	}

	last := f.dispatcher.calls[len(f.dispatcher.calls)-1]
	if last.kind != "employee" || last.status != "cancelled" || last.reason != "imprevisto" {
		t.Errorf("employee cancellation notification missing: %+v", last)
	}
}

func TestCancelRequiresReason(t *testing.T) {
	f := newFixture()
	p := f.schedule(t, 1)

	_, err := f.svc.Cancel(context.Background(), p.Token, CancelRequest{})
	if !errors.Is(err, ErrReasonRequired) {
		t.Fatalf("err = %v, want ErrReasonRequired", err)
	}
	if f.emp.CurrentMonthPickups != 1 {
		t.Error("counters changed by rejected cancel")
	}
}

func TestConfirmTransitionsAndRejectsSecondConfirm(t *testing.T) {
	f := newFixture()
	p := f.schedule(t, 2)

	confirmed, err := f.svc.Confirm(context.Background(), p.Token)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if confirmed.Status != StatusCompleted || confirmed.CompletedAt == nil {
		t.Errorf("confirm did not complete the pickup: %+v", confirmed)
	}

	// Counters were consumed at schedule time and stay consumed.
	if f.emp.CurrentMonthPickups != 2 || f.usedOn("2024-06-20") != 4 {
		t.Error("confirm must not adjust quota or capacity")
	}

	last := f.dispatcher.calls[len(f.dispatcher.calls)-1]
	if last.kind != "employee" || last.status != "completed" {
		t.Errorf("employee completion notification missing: %+v", last)
	}

	if _, err := f.svc.Confirm(context.Background(), p.Token); !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("second confirm err = %v, want ErrAlreadyProcessed", err)
	}
}

func TestCancelAfterConfirmRejected(t *testing.T) {
	f := newFixture()
	p := f.schedule(t, 1)
	if _, err := f.svc.Confirm(context.Background(), p.Token); err != nil {
		t.Fatal(err)
	}

	_, err := f.svc.Cancel(context.Background(), p.Token, CancelRequest{Reason: "tarde demais"})
	if !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("err = %v, want ErrAlreadyProcessed", err)
	}
	if f.emp.CurrentMonthPickups != 1 {
		t.Error("completed pickup released quota")
	}
}

func TestConfirmUnknownToken(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Confirm(context.Background(), "NOPE"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
