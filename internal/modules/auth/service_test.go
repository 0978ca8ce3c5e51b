package auth

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/retirapp/retira-backend/internal/modules/calendar"
	"github.com/retirapp/retira-backend/internal/modules/employee"
	"github.com/retirapp/retira-backend/internal/modules/pickup"
	"github.com/retirapp/retira-backend/internal/modules/store"
	"github.com/retirapp/retira-backend/internal/modules/user"
)

var testKey = []byte("test-signing-key")

// ── fakes ────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	byEmail map[string]*user.User
}

func (f *fakeUserRepo) CreateWithRole(ctx context.Context, u *user.User, meta *user.RoleMetadata) error {
	return nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*user.User, error) {
	for _, u := range f.byEmail {
		if u.ID.String() == id {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) ListUsers(ctx context.Context) ([]*user.User, error) { return nil, nil }

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id string, hash string, mustChange bool) error {
	return nil
}

func (f *fakeUserRepo) DeleteWithRole(ctx context.Context, id string, role user.Role) error {
	return nil
}

type stubEmployeeRepo struct {
	employees []*employee.Employee
	swept     bool
}

func (s *stubEmployeeRepo) GetByID(ctx context.Context, id string) (*employee.Employee, error) {
	return nil, sql.ErrNoRows
}

func (s *stubEmployeeRepo) GetByUserID(ctx context.Context, userID string) (*employee.Employee, error) {
	for _, e := range s.employees {
		if e.UserID.String() == userID {
			return e, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubEmployeeRepo) List(ctx context.Context) ([]*employee.Employee, error) {
	return s.employees, nil
}

func (s *stubEmployeeRepo) UpdateMonthlyLimit(ctx context.Context, id string, limit int) error {
	return nil
}

func (s *stubEmployeeRepo) ApplyQuotaDelta(ctx context.Context, id string, delta int, month string) error {
	return nil
}

func (s *stubEmployeeRepo) ResetStaleMonths(ctx context.Context, month string) (int64, error) {
	s.swept = true
	return 1, nil
}

type stubStoreRepo struct{ stores []*store.Store }

func (s *stubStoreRepo) GetByID(ctx context.Context, id string) (*store.Store, error) {
	return nil, sql.ErrNoRows
}

func (s *stubStoreRepo) GetByUserID(ctx context.Context, userID string) (*store.Store, error) {
	for _, st := range s.stores {
		if st.UserID.String() == userID {
			return st, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubStoreRepo) List(ctx context.Context) ([]*store.Store, error) { return s.stores, nil }

func (s *stubStoreRepo) UpdateMaxCapacity(ctx context.Context, id string, capacity int) error {
	return nil
}

type stubPickupRepo struct{ pickups []*pickup.Pickup }

func (s *stubPickupRepo) Create(ctx context.Context, p *pickup.Pickup) error { return nil }

func (s *stubPickupRepo) GetByToken(ctx context.Context, token string) (*pickup.Pickup, error) {
	return nil, sql.ErrNoRows
}

func (s *stubPickupRepo) ListByEmployee(ctx context.Context, employeeID string) ([]*pickup.Pickup, error) {
	return s.pickups, nil
}

func (s *stubPickupRepo) ListByStore(ctx context.Context, storeID string, status string) ([]*pickup.Pickup, error) {
	return s.pickups, nil
}

func (s *stubPickupRepo) Complete(ctx context.Context, token string, at time.Time) error { return nil }

func (s *stubPickupRepo) Cancel(ctx context.Context, token string, reason string, at time.Time) error {
	return nil
}

func (s *stubPickupRepo) Delete(ctx context.Context, id string) error { return nil }

type stubCalendarRepo struct{}

func (stubCalendarRepo) List(ctx context.Context) ([]*calendar.BlockedDate, error) {
	return []*calendar.BlockedDate{{Date: "2024-06-10", Reason: "manutenção"}}, nil
}

func (stubCalendarRepo) IsBlocked(ctx context.Context, date string) (bool, error) {
	return false, nil
}

func (stubCalendarRepo) Block(ctx context.Context, date, reason string) error { return nil }
func (stubCalendarRepo) Unblock(ctx context.Context, date string) error       { return nil }

// ── fixtures ─────────────────────────────────────────────────────────────────

func newTestService(users *fakeUserRepo, employees *stubEmployeeRepo, stores *stubStoreRepo, pickups *stubPickupRepo) Service {
	return NewService(users, employees, stores, pickups, stubCalendarRepo{}, testKey,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newAccount(email string, role user.Role, password string) *user.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
}

// ── tests ────────────────────────────────────────────────────────────────────

func TestLoginIssuesSignedToken(t *testing.T) {
	u := newAccount("joao@empresa.com", user.RoleEmployee, "Forte@123")
	svc := newTestService(&fakeUserRepo{byEmail: map[string]*user.User{u.Email: u}},
		&stubEmployeeRepo{}, &stubStoreRepo{}, &stubPickupRepo{})

	resp, err := svc.Login(context.Background(), "joao@empresa.com", "Forte@123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(resp.Token, claims, func(t *jwt.Token) (interface{}, error) {
		return testKey, nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims["sub"] != u.ID.String() {
		t.Errorf("sub = %v, want %s", claims["sub"], u.ID)
	}
	if claims["role"] != "employee" {
		t.Errorf("role = %v, want employee", claims["role"])
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	u := newAccount("joao@empresa.com", user.RoleEmployee, "Forte@123")
	svc := newTestService(&fakeUserRepo{byEmail: map[string]*user.User{u.Email: u}},
		&stubEmployeeRepo{}, &stubStoreRepo{}, &stubPickupRepo{})

	if _, err := svc.Login(context.Background(), "joao@empresa.com", "errada"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(context.Background(), "ninguem@empresa.com", "Forte@123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginFlagsDefaultPassword(t *testing.T) {
	u := newAccount("nova@empresa.com", user.RoleStore, user.DefaultPassword)
	u.MustChangePassword = true
	svc := newTestService(&fakeUserRepo{byEmail: map[string]*user.User{u.Email: u}},
		&stubEmployeeRepo{}, &stubStoreRepo{}, &stubPickupRepo{})

	resp, err := svc.Login(context.Background(), "nova@empresa.com", user.DefaultPassword)
	if err != nil {
		t.Fatal(err)
	}
	if !resp.MustChangePassword {
		t.Error("login with the seed password must force a password change")
	}
}

func TestResolveSessionEmployee(t *testing.T) {
	u := newAccount("joao@empresa.com", user.RoleEmployee, "Forte@123")
	emp := &employee.Employee{ID: uuid.New(), UserID: u.ID, Name: "João Silva", MonthlyLimit: 6}
	employees := &stubEmployeeRepo{employees: []*employee.Employee{emp}}
	stores := &stubStoreRepo{stores: []*store.Store{{ID: uuid.New(), Name: "Loja Centro"}}}
	svc := newTestService(&fakeUserRepo{byEmail: map[string]*user.User{u.Email: u}},
		employees, stores, &stubPickupRepo{})

	session, err := svc.ResolveSession(context.Background(), u.ID.String())
	if err != nil {
		t.Fatalf("ResolveSession: %v", err)
	}
	if session.Employee == nil || session.Employee.ID != emp.ID {
		t.Error("employee session missing own record")
	}
	if len(session.Stores) != 1 {
		t.Error("employee session missing store list")
	}
	if len(session.BlockedDates) != 1 {
		t.Error("session missing blocked dates")
	}
	if !employees.swept {
		t.Error("session load must sweep stale quota months")
	}
}

func TestResolveSessionAdmin(t *testing.T) {
	u := newAccount("admin@empresa.com", user.RoleAdmin, "Forte@123")
	employees := &stubEmployeeRepo{employees: []*employee.Employee{{ID: uuid.New()}}}
	stores := &stubStoreRepo{stores: []*store.Store{{ID: uuid.New()}, {ID: uuid.New()}}}
	svc := newTestService(&fakeUserRepo{byEmail: map[string]*user.User{u.Email: u}},
		employees, stores, &stubPickupRepo{})

	session, err := svc.ResolveSession(context.Background(), u.ID.String())
	if err != nil {
		t.Fatal(err)
	}
	if len(session.Employees) != 1 || len(session.Stores) != 2 {
		t.Error("admin session must carry all employees and stores")
	}
}
