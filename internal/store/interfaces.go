package store

import (
	"context"
	"time"

	"github.com/0xkamalei/timetrace/internal/domain/activity"
	"github.com/0xkamalei/timetrace/internal/domain/project"
	"github.com/0xkamalei/timetrace/internal/domain/timeentry"
)

// ActivityStore manages activity record persistence
type ActivityStore interface {
	All(ctx context.Context) ([]activity.Record, error)
	ByIDs(ctx context.Context, ids []string) ([]activity.Record, error)
	Query(ctx context.Context, q ActivityQuery) ([]activity.Record, error)
	Create(ctx context.Context, rec *activity.Record) error
	Update(ctx context.Context, rec *activity.Record) error
	Delete(ctx context.Context, id string) error
}

// ActivityQuery provides predicate options for fetching activities.
// Text terms match any of the activity's text fields by substring;
// a record must match every term and no exclude term.
type ActivityQuery struct {
	TextTerms    []string
	ExcludeTerms []string
	Apps         []string
	From         *time.Time    // inclusive lower bound on start time
	Until        *time.Time    // exclusive upper bound on start time
	MinDuration  time.Duration // zero means unbounded
	MaxDuration  time.Duration // zero means unbounded
	IncludeIdle  bool
	Limit        int
}

// TimeEntryStore manages time entry persistence
type TimeEntryStore interface {
	All(ctx context.Context) ([]timeentry.Record, error)
	ByIDs(ctx context.Context, ids []string) ([]timeentry.Record, error)
	Query(ctx context.Context, q TimeEntryQuery) ([]timeentry.Record, error)
	Create(ctx context.Context, rec *timeentry.Record) error
	Update(ctx context.Context, rec *timeentry.Record) error
	Delete(ctx context.Context, id string) error
}

// TimeEntryQuery provides predicate options for fetching time entries
type TimeEntryQuery struct {
	TextTerms    []string
	ExcludeTerms []string
	ProjectIDs   []string
	From         *time.Time // inclusive lower bound on start time
	Until        *time.Time // exclusive upper bound on start time
	MinDuration  time.Duration
	MaxDuration  time.Duration
	Limit        int
}

// ProjectStore manages project persistence
type ProjectStore interface {
	All(ctx context.Context) ([]project.Record, error)
	ByIDs(ctx context.Context, ids []string) ([]project.Record, error)
	Query(ctx context.Context, q ProjectQuery) ([]project.Record, error)
	Create(ctx context.Context, rec *project.Record) error
	Update(ctx context.Context, rec *project.Record) error
	Delete(ctx context.Context, id string) error
}

// ProjectQuery provides predicate options for fetching projects
type ProjectQuery struct {
	TextTerms    []string
	ExcludeTerms []string
	Limit        int
}
