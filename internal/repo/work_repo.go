package repo

import (
	"context"
	"errors"
	"time"

	dom "github.com/pawell24/TimeTracker/internal/domain"
	"github.com/pawell24/TimeTracker/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrOpenWorkExists is returned by Create when the user already has an
// open session. The partial unique index on works(user_id) WHERE end_time
// IS NULL enforces this atomically, so concurrent starts cannot both win.
var ErrOpenWorkExists = errors.New("user already has an open work session")

// WorkRepo provides work session persistence and the by-day aggregation
// query. Point lookups return pgx.ErrNoRows when nothing matches.
type WorkRepo interface {
	Create(ctx context.Context, id, userID, description string, start time.Time) (dom.Work, error)
	GetOpenByUser(ctx context.Context, userID string) (dom.Work, error)
	CloseOpen(ctx context.Context, userID string, end time.Time) (dom.Work, error)
	TotalsByDay(ctx context.Context, userID string) ([]dom.DayTotal, error)
	TotalsAllUsers(ctx context.Context) ([]dom.DayTotal, error)
}

// PGWorkRepo implements WorkRepo with Postgres.
type PGWorkRepo struct {
	db *pgxpool.Pool
}

// NewPGWorkRepo returns a new PGWorkRepo.
func NewPGWorkRepo(db *pgxpool.Pool) *PGWorkRepo {
	return &PGWorkRepo{db: db}
}

// Create inserts a new open session. ErrOpenWorkExists if one is open.
func (r *PGWorkRepo) Create(ctx context.Context, id, userID, description string, start time.Time) (dom.Work, error) {
	query := `
		INSERT INTO works (id, user_id, description, start_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, description, start_time, end_time`
	var w dom.Work
	err := r.db.QueryRow(ctx, query, id, userID, description, start).Scan(
		&w.ID, &w.UserID, &w.Description, &w.StartTime, &w.EndTime,
	)
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.Work{}, ErrOpenWorkExists
		}
		return dom.Work{}, err
	}
	return w, nil
}

// GetOpenByUser returns the user's open session.
func (r *PGWorkRepo) GetOpenByUser(ctx context.Context, userID string) (dom.Work, error) {
	query := `
		SELECT id, user_id, description, start_time, end_time
		FROM works WHERE user_id = $1 AND end_time IS NULL`
	var w dom.Work
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&w.ID, &w.UserID, &w.Description, &w.StartTime, &w.EndTime,
	)
	return w, err
}

// CloseOpen sets end_time on the user's open session and returns it.
// pgx.ErrNoRows if the user has no open session.
func (r *PGWorkRepo) CloseOpen(ctx context.Context, userID string, end time.Time) (dom.Work, error) {
	query := `
		UPDATE works SET end_time = $2
		WHERE user_id = $1 AND end_time IS NULL
		RETURNING id, user_id, description, start_time, end_time`
	var w dom.Work
	err := r.db.QueryRow(ctx, query, userID, end).Scan(
		&w.ID, &w.UserID, &w.Description, &w.StartTime, &w.EndTime,
	)
	return w, err
}

const totalsByDaySelect = `
	SELECT to_char(date(start_time), 'YYYY-MM-DD') AS date,
	       SUM(EXTRACT(EPOCH FROM (end_time - start_time)) / 3600) AS total_hours
	FROM works`

// TotalsByDay sums closed-session hours per calendar day of start_time
// for one user, ascending by date.
func (r *PGWorkRepo) TotalsByDay(ctx context.Context, userID string) ([]dom.DayTotal, error) {
	query := totalsByDaySelect + `
		WHERE user_id = $1 AND end_time IS NOT NULL
		GROUP BY 1 ORDER BY 1 ASC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDayTotals(rows)
}

// TotalsAllUsers is TotalsByDay across every user's closed sessions.
func (r *PGWorkRepo) TotalsAllUsers(ctx context.Context) ([]dom.DayTotal, error) {
	query := totalsByDaySelect + `
		WHERE end_time IS NOT NULL
		GROUP BY 1 ORDER BY 1 ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDayTotals(rows)
}

func scanDayTotals(rows pgx.Rows) ([]dom.DayTotal, error) {
	totals := []dom.DayTotal{}
	for rows.Next() {
		var t dom.DayTotal
		if err := rows.Scan(&t.Date, &t.TotalHours); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
