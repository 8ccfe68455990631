package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pawell24/TimeTracker/internal/cache"
	dom "github.com/pawell24/TimeTracker/internal/domain"
	"github.com/pawell24/TimeTracker/internal/repo"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrUserNotEligible covers both a missing and an unconfirmed user.
	ErrUserNotEligible = errors.New("user not found or not confirmed")
	ErrAlreadyWorking  = errors.New("user is already working on something else")
	ErrNoOpenWork      = errors.New("no ongoing work found for the user")
)

// WorkService owns the work session lifecycle and the by-day reports.
// A session is created open (end_time NULL) and closed exactly once;
// at most one open session exists per user.
type WorkService struct {
	users repo.UserRepo
	works repo.WorkRepo
	cache *cache.ReportCache
	sf    singleflight.Group
}

// NewWorkService creates a WorkService. If c is nil, report caching is disabled.
func NewWorkService(users repo.UserRepo, works repo.WorkRepo, c *cache.ReportCache) *WorkService {
	return &WorkService{users: users, works: works, cache: c}
}

// StartWork opens a new session for the user. ErrAlreadyWorking if one is
// already open; the store-level guard makes concurrent starts race-safe.
func (s *WorkService) StartWork(ctx context.Context, userID, description string) (dom.Work, string, error) {
	if err := s.checkEligible(ctx, userID); err != nil {
		return dom.Work{}, "", err
	}
	w, err := s.works.Create(ctx, uuid.NewString(), userID, description, time.Now())
	if err != nil {
		if errors.Is(err, repo.ErrOpenWorkExists) {
			return dom.Work{}, "", ErrAlreadyWorking
		}
		return dom.Work{}, "", err
	}
	return w, fmt.Sprintf("Started working on %s", description), nil
}

// StopWork closes the user's open session. ErrNoOpenWork if none is open.
func (s *WorkService) StopWork(ctx context.Context, userID string) (dom.Work, error) {
	if err := s.checkEligible(ctx, userID); err != nil {
		return dom.Work{}, err
	}
	w, err := s.works.CloseOpen(ctx, userID, time.Now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Work{}, ErrNoOpenWork
		}
		return dom.Work{}, err
	}
	// A closed session changes the reports; start/read paths do not.
	s.invalidateReports(ctx, userID)
	return w, nil
}

// GetOpenWork returns the user's open session, or nil when there is none.
// Having no open session is a valid outcome, not an error.
func (s *WorkService) GetOpenWork(ctx context.Context, userID string) (*dom.Work, error) {
	if err := s.checkEligible(ctx, userID); err != nil {
		return nil, err
	}
	w, err := s.works.GetOpenByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

// IsWorking reports whether the user has an open session.
func (s *WorkService) IsWorking(ctx context.Context, userID string) (bool, error) {
	w, err := s.GetOpenWork(ctx, userID)
	if err != nil {
		return false, err
	}
	return w != nil, nil
}

// TotalByDay returns the user's closed-session hours grouped by the
// calendar day of start time, ascending by date.
func (s *WorkService) TotalByDay(ctx context.Context, userID string) ([]dom.DayTotal, error) {
	if err := s.checkEligible(ctx, userID); err != nil {
		return nil, err
	}
	if s.cache != nil {
		v, err, _ := s.sf.Do("report:"+userID, func() (interface{}, error) {
			if totals, err := s.cache.GetUser(ctx, userID); err == nil && totals != nil {
				return totals, nil
			}
			totals, err := s.works.TotalsByDay(ctx, userID)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetUser(ctx, userID, totals)
			return totals, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.DayTotal), nil
	}
	return s.works.TotalsByDay(ctx, userID)
}

// TotalAllUsers is the administrative report across all users' closed
// sessions. No eligibility gate; empty when nothing is closed.
func (s *WorkService) TotalAllUsers(ctx context.Context) ([]dom.DayTotal, error) {
	if s.cache != nil {
		v, err, _ := s.sf.Do("report:all", func() (interface{}, error) {
			if totals, err := s.cache.GetGlobal(ctx); err == nil && totals != nil {
				return totals, nil
			}
			totals, err := s.works.TotalsAllUsers(ctx)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetGlobal(ctx, totals)
			return totals, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.DayTotal), nil
	}
	return s.works.TotalsAllUsers(ctx)
}

func (s *WorkService) checkEligible(ctx context.Context, userID string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotEligible
		}
		return err
	}
	if !u.Confirmed {
		return ErrUserNotEligible
	}
	return nil
}

func (s *WorkService) invalidateReports(ctx context.Context, userID string) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
}
