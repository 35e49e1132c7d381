package activity

import "time"

// Record is a single captured slice of app usage. Records are owned and
// mutated by the record store; the search core only holds indexed
// projections of them and re-fetches full bodies by id.
type Record struct {
	ID           string     `json:"id"`
	AppName      string     `json:"app_name"`
	WindowTitle  string     `json:"window_title,omitempty"`
	URL          string     `json:"url,omitempty"`
	DocumentPath string     `json:"document_path,omitempty"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	IsIdle       bool       `json:"is_idle"`
}

// IsOpen reports whether the record is still being captured.
// The store guarantees at most one open record per source.
func (r *Record) IsOpen() bool {
	return r.EndTime == nil
}

// Duration returns the captured span. Open records are measured
// against the supplied clock time.
func (r *Record) Duration(now time.Time) time.Duration {
	if r.EndTime == nil {
		return now.Sub(r.StartTime)
	}
	return r.EndTime.Sub(r.StartTime)
}
