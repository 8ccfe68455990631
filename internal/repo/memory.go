package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	dom "github.com/pawell24/TimeTracker/internal/domain"

	"github.com/jackc/pgx/v5"
)

// In-memory implementations of UserRepo and WorkRepo for tests and local
// development. They mirror the Postgres semantics: missing rows surface
// as pgx.ErrNoRows and the one-open-session guard is applied atomically
// under the mutex, like the partial unique index does.

// MemoryUserRepo implements UserRepo in memory.
type MemoryUserRepo struct {
	mu    sync.Mutex
	users map[string]dom.User
}

// NewMemoryUserRepo creates an empty in-memory user repo.
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]dom.User)}
}

var _ UserRepo = (*MemoryUserRepo)(nil)

// GetByEmail returns the user by email.
func (m *MemoryUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

// GetByID returns the user by ID.
func (m *MemoryUserRepo) GetByID(ctx context.Context, id string) (dom.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

// Create inserts a new unconfirmed user.
func (m *MemoryUserRepo) Create(ctx context.Context, id, email, passwordHash string) (dom.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return dom.User{}, ErrEmailExists
		}
	}
	u := dom.User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	m.users[id] = u
	return u, nil
}

// SetConfirmed marks the user as confirmed.
func (m *MemoryUserRepo) SetConfirmed(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.Confirmed = true
	m.users[id] = u
	return nil
}

// MemoryWorkRepo implements WorkRepo in memory.
type MemoryWorkRepo struct {
	mu    sync.Mutex
	works []dom.Work
}

// NewMemoryWorkRepo creates an empty in-memory work repo.
func NewMemoryWorkRepo() *MemoryWorkRepo {
	return &MemoryWorkRepo{}
}

var _ WorkRepo = (*MemoryWorkRepo)(nil)

// Create inserts a new open session, rejecting a second open one.
func (m *MemoryWorkRepo) Create(ctx context.Context, id, userID, description string, start time.Time) (dom.Work, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.works {
		if w.UserID == userID && w.EndTime == nil {
			return dom.Work{}, ErrOpenWorkExists
		}
	}
	w := dom.Work{ID: id, UserID: userID, Description: description, StartTime: start}
	m.works = append(m.works, w)
	return w, nil
}

// GetOpenByUser returns the user's open session.
func (m *MemoryWorkRepo) GetOpenByUser(ctx context.Context, userID string) (dom.Work, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.works {
		if w.UserID == userID && w.EndTime == nil {
			return w, nil
		}
	}
	return dom.Work{}, pgx.ErrNoRows
}

// CloseOpen sets end_time on the user's open session.
func (m *MemoryWorkRepo) CloseOpen(ctx context.Context, userID string, end time.Time) (dom.Work, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.works {
		if m.works[i].UserID == userID && m.works[i].EndTime == nil {
			e := end
			m.works[i].EndTime = &e
			return m.works[i], nil
		}
	}
	return dom.Work{}, pgx.ErrNoRows
}

// TotalsByDay aggregates the user's closed sessions per start day.
func (m *MemoryWorkRepo) TotalsByDay(ctx context.Context, userID string) ([]dom.DayTotal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals(func(w dom.Work) bool { return w.UserID == userID }), nil
}

// TotalsAllUsers aggregates every user's closed sessions per start day.
func (m *MemoryWorkRepo) TotalsAllUsers(ctx context.Context) ([]dom.DayTotal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals(func(dom.Work) bool { return true }), nil
}

// WorkCount returns the number of stored sessions, open and closed.
func (m *MemoryWorkRepo) WorkCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.works)
}

func (m *MemoryWorkRepo) totals(match func(dom.Work) bool) []dom.DayTotal {
	byDay := make(map[string]float64)
	for _, w := range m.works {
		if !match(w) || !w.Closed() {
			continue
		}
		day := w.StartTime.Format("2006-01-02")
		byDay[day] += w.EndTime.Sub(w.StartTime).Hours()
	}
	totals := make([]dom.DayTotal, 0, len(byDay))
	for day, hours := range byDay {
		totals = append(totals, dom.DayTotal{Date: day, TotalHours: hours})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Date < totals[j].Date })
	return totals
}
