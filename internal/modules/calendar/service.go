package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrDateBlocked is returned when an operation targets a blocked date.
var ErrDateBlocked = errors.New("esta data está bloqueada para agendamentos")

// Service defines blocked-date business logic.
type Service interface {
	// ListBlockedDates returns all blocked dates.
	ListBlockedDates(ctx context.Context) ([]*BlockedDate, error)

	// IsBlocked reports whether a date is blocked.
	IsBlocked(ctx context.Context, date string) (bool, error)

	// Block blocks a single date or an inclusive range and returns the dates
	// actually blocked (already-blocked days are skipped).
	Block(ctx context.Context, req BlockRequest) ([]string, error)

	// Unblock removes a blocked date.
	Unblock(ctx context.Context, date string) error
}

type service struct {
	repo Repository
}

// NewService creates a new calendar service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListBlockedDates(ctx context.Context) ([]*BlockedDate, error) {
	return s.repo.List(ctx)
}

func (s *service) IsBlocked(ctx context.Context, date string) (bool, error) {
	return s.repo.IsBlocked(ctx, date)
}

func (s *service) Block(ctx context.Context, req BlockRequest) ([]string, error) {
	from := req.From
	to := req.To
	if req.Date != "" {
		from, to = req.Date, req.Date
	}
	if from == "" {
		return nil, fmt.Errorf("date or from is required")
	}
	if to == "" {
		to = from
	}

	dates, err := ExpandRange(from, to)
	if err != nil {
		return nil, err
	}

	var blocked []string
	for _, date := range dates {
		already, err := s.repo.IsBlocked(ctx, date)
		if err != nil {
			return blocked, err
		}
		if already {
			continue
		}
		if err := s.repo.Block(ctx, date, req.Reason); err != nil {
			return blocked, err
		}
		blocked = append(blocked, date)
	}
	return blocked, nil
}

func (s *service) Unblock(ctx context.Context, date string) error {
	if date == "" {
		return fmt.Errorf("date is required")
	}
	return s.repo.Unblock(ctx, date)
}

// ExpandRange lists every date from from to to, inclusive of both endpoints.
func ExpandRange(from, to string) ([]string, error) {
	start, err := time.Parse(DateLayout, from)
	if err != nil {
		return nil, fmt.Errorf("invalid from date: %w", err)
	}
	end, err := time.Parse(DateLayout, to)
	if err != nil {
		return nil, fmt.Errorf("invalid to date: %w", err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("to must not be before from")
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates, nil
}
