package timeentry

import "time"

// Record is a manually recorded work session. EndTime is always after
// StartTime; the store enforces this on write.
type Record struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes,omitempty"`
	ProjectID *string   `json:"project_id,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Duration returns the recorded span.
func (r *Record) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}
