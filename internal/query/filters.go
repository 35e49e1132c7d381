// Package query parses the search mini-language into structured queries.
// The grammar (filters, quoting, exclusion) is the engine's one bit-exact
// external contract: two implementations must parse a given query string
// into equivalent filters.
package query

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateKind selects how a date filter compares against record start times.
type DateKind int

const (
	DateAfter DateKind = iota
	DateBefore
	DateOn
)

func (k DateKind) String() string {
	switch k {
	case DateAfter:
		return "after"
	case DateBefore:
		return "before"
	default:
		return "on"
	}
}

// DateFilter is one date comparison carried by a query.
type DateFilter struct {
	Kind DateKind
	When time.Time
}

// DurationKind selects how a duration filter compares against record spans.
type DurationKind int

const (
	DurationEqual DurationKind = iota
	DurationMin
	DurationMax
)

func (k DurationKind) String() string {
	switch k {
	case DurationMin:
		return "min"
	case DurationMax:
		return "max"
	default:
		return "equal"
	}
}

// DurationFilter is one duration comparison carried by a query.
type DurationFilter struct {
	Kind  DurationKind
	Value time.Duration
}

// Filters is the caller-selected filter set applied alongside a query
// string. It also scopes cache keys, so Key must be deterministic.
type Filters struct {
	ProjectIDs  []string
	Apps        []string
	From        *time.Time
	Until       *time.Time
	MinDuration time.Duration
	MaxDuration time.Duration
	IncludeIdle bool
}

// IsZero reports whether no filter is active.
func (f Filters) IsZero() bool {
	return len(f.ProjectIDs) == 0 && len(f.Apps) == 0 &&
		f.From == nil && f.Until == nil &&
		f.MinDuration == 0 && f.MaxDuration == 0 && !f.IncludeIdle
}

// Key returns a canonical string form of the filter set for cache keying.
func (f Filters) Key() string {
	projects := append([]string(nil), f.ProjectIDs...)
	apps := append([]string(nil), f.Apps...)
	sort.Strings(projects)
	sort.Strings(apps)

	var b strings.Builder
	fmt.Fprintf(&b, "p=%s|a=%s", strings.Join(projects, ","), strings.Join(apps, ","))
	if f.From != nil {
		fmt.Fprintf(&b, "|from=%d", f.From.Unix())
	}
	if f.Until != nil {
		fmt.Fprintf(&b, "|until=%d", f.Until.Unix())
	}
	if f.MinDuration > 0 {
		fmt.Fprintf(&b, "|mind=%d", f.MinDuration)
	}
	if f.MaxDuration > 0 {
		fmt.Fprintf(&b, "|maxd=%d", f.MaxDuration)
	}
	if f.IncludeIdle {
		b.WriteString("|idle")
	}
	return b.String()
}
