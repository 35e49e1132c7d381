package engine

import (
	"time"

	"github.com/0xkamalei/timetrace/internal/domain/activity"
	"github.com/0xkamalei/timetrace/internal/domain/project"
	"github.com/0xkamalei/timetrace/internal/domain/timeentry"
)

// Results is a ranked, per-kind result set for one executed search.
type Results struct {
	Query       string             `json:"query"`
	Activities  []activity.Record  `json:"activities"`
	TimeEntries []timeentry.Record `json:"time_entries"`
	Projects    []project.Record   `json:"projects"`
	TotalCount  int                `json:"total_count"`
	CacheHit    bool               `json:"cache_hit"`
	Elapsed     time.Duration      `json:"elapsed"`

	// Diagnostic carries a caller-facing message when a search degraded
	// to empty results (e.g. the record store was unavailable).
	Diagnostic string `json:"diagnostic,omitempty"`
}

func emptyResults(query string) *Results {
	return &Results{Query: query}
}
