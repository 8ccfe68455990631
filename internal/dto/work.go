package dto

import "time"

// StartWorkRequest is the JSON body for POST /work/start.
type StartWorkRequest struct {
	Description string `json:"description" binding:"required,min=1,max=1000"`
}

// WorkActionResponse is returned by start/stop.
type WorkActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	WorkID  string `json:"workId,omitempty"`
}

// WorkResponse describes a single work session.
type WorkResponse struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
}

// WorkStatusResponse is returned by GET /work/status.
type WorkStatusResponse struct {
	Working bool          `json:"working"`
	Work    *WorkResponse `json:"work,omitempty"`
}

// DayTotalResponse is one row of the working-time-by-day report.
type DayTotalResponse struct {
	Date       string  `json:"date"`
	TotalHours float64 `json:"totalHours"`
}
