package domain

import "time"

// Work is a single work session. EndTime == nil means the session is
// still open; a user may have at most one open session at a time.
type Work struct {
	ID          string
	UserID      string
	Description string
	StartTime   time.Time
	EndTime     *time.Time
}

// Closed reports whether the session has been stopped.
func (w Work) Closed() bool { return w.EndTime != nil }

// DayTotal is one row of the working-time report: total hours of closed
// sessions that started on Date (local calendar day, "2006-01-02").
type DayTotal struct {
	Date       string
	TotalHours float64
}
