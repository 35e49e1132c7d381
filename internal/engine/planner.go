package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/0xkamalei/timetrace/internal/domain/activity"
	"github.com/0xkamalei/timetrace/internal/domain/project"
	"github.com/0xkamalei/timetrace/internal/domain/timeentry"
	"github.com/0xkamalei/timetrace/internal/query"
	"github.com/0xkamalei/timetrace/internal/rank"
	"github.com/0xkamalei/timetrace/internal/store"
)

// Complexity is an advisory estimate of how expensive a query will be
// to execute. It feeds logging and path selection, not correctness.
type Complexity int

const (
	ComplexityLow Complexity = iota
	ComplexityMedium
	ComplexityHigh
)

func (c Complexity) String() string {
	switch c {
	case ComplexityLow:
		return "low"
	case ComplexityMedium:
		return "medium"
	case ComplexityHigh:
		return "high"
	}
	return "unknown"
}

// largeIndexThreshold escalates the complexity estimate by one level
// once the index holds this many records.
const largeIndexThreshold = 10000

func (e *Engine) estimateComplexity(raw string, parsed *query.ParsedQuery, filters query.Filters) Complexity {
	c := ComplexityLow
	if query.HasOperators(raw) {
		c = ComplexityMedium
	}
	if len(parsed.TextTerms) > 5 {
		c = ComplexityHigh
	}
	if len(filters.ProjectIDs) > 5 || len(filters.Apps) > 10 {
		if c < ComplexityMedium {
			c = ComplexityMedium
		}
	}
	if e.idx.TotalRecords() > largeIndexThreshold && c < ComplexityHigh {
		c++
	}
	return c
}

// fastPathEligible reports whether the query can be answered from the
// in-memory index alone: plain text with at most one explicit project
// and app filter, and nothing that needs store-side predicates.
func fastPathEligible(raw string, parsed *query.ParsedQuery, filters query.Filters) bool {
	if query.HasOperators(raw) {
		return false
	}
	if len(parsed.TextTerms) == 0 {
		return false
	}
	if len(filters.ProjectIDs) > 1 || len(filters.Apps) > 1 {
		return false
	}
	return true
}

// effectiveFilters is the union of the sticky engine filters and the
// filters parsed out of the query string, collapsed into per-kind
// store predicates.
type effectiveFilters struct {
	apps       []string
	projectIDs []string
	from       *time.Time
	until      *time.Time
	minDur     time.Duration
	maxDur     time.Duration
	inclIdle   bool
}

func (e *Engine) resolveFilters(ctx context.Context, parsed *query.ParsedQuery, sticky query.Filters) (effectiveFilters, error) {
	eff := effectiveFilters{
		apps:       append([]string(nil), sticky.Apps...),
		projectIDs: append([]string(nil), sticky.ProjectIDs...),
		from:       sticky.From,
		until:      sticky.Until,
		minDur:     sticky.MinDuration,
		maxDur:     sticky.MaxDuration,
		inclIdle:   sticky.IncludeIdle,
	}
	eff.apps = append(eff.apps, parsed.AppFilters...)

	// Project filters in the query name projects; resolve each name to
	// the ids of projects matching it.
	for _, name := range parsed.ProjectFilters {
		recs, err := e.projects.Query(ctx, store.ProjectQuery{TextTerms: []string{name}})
		if err != nil {
			return eff, fmt.Errorf("resolve project filter %q: %w", name, err)
		}
		for _, p := range recs {
			eff.projectIDs = append(eff.projectIDs, p.ID)
		}
		if len(recs) == 0 {
			// Named project does not exist; force an empty match
			// rather than silently dropping the filter.
			eff.projectIDs = append(eff.projectIDs, "")
		}
	}

	for _, df := range parsed.DateFilters {
		switch df.Kind {
		case query.DateAfter:
			when := df.When
			if eff.from == nil || when.After(*eff.from) {
				eff.from = &when
			}
		case query.DateBefore:
			end := df.When.AddDate(0, 0, 1)
			if eff.until == nil || end.Before(*eff.until) {
				eff.until = &end
			}
		case query.DateOn:
			start := df.When
			end := df.When.AddDate(0, 0, 1)
			if eff.from == nil || start.After(*eff.from) {
				eff.from = &start
			}
			if eff.until == nil || end.Before(*eff.until) {
				eff.until = &end
			}
		}
	}

	for _, df := range parsed.DurationFilters {
		switch df.Kind {
		case query.DurationMin:
			if df.Value > eff.minDur {
				eff.minDur = df.Value
			}
		case query.DurationMax:
			if eff.maxDur == 0 || df.Value < eff.maxDur {
				eff.maxDur = df.Value
			}
		case query.DurationEqual:
			eff.minDur = df.Value
			eff.maxDur = df.Value
		}
	}
	return eff, nil
}

// Kind applicability: a record kind takes part in a search only when
// the query carries text, or at least one filter that can constrain
// that kind. A bare "app:xcode" should not dump every project.
func (eff effectiveFilters) constrainsActivities() bool {
	return len(eff.apps) > 0 || eff.from != nil || eff.until != nil || eff.minDur > 0 || eff.maxDur > 0
}

func (eff effectiveFilters) constrainsTimeEntries() bool {
	return len(eff.projectIDs) > 0 || eff.from != nil || eff.until != nil || eff.minDur > 0 || eff.maxDur > 0
}

func (eff effectiveFilters) constrainsProjects() bool {
	return len(eff.projectIDs) > 0
}

// execute runs one search end to end: cache probe, parse, path
// selection, fetch, rank, cache fill, metrics.
func (e *Engine) execute(ctx context.Context, raw string, sticky query.Filters) (*Results, error) {
	start := e.now()

	norm := query.Normalize(raw)
	key := norm + "\x00" + sticky.Key()
	if cached, ok := e.cache.Get(key); ok {
		res := *cached
		res.CacheHit = true
		res.Elapsed = e.now().Sub(start)
		e.metrics.Record(res.Elapsed, true, false)
		return &res, nil
	}

	parsed, err := query.ParseAt(raw, e.now())
	if err != nil {
		return nil, err
	}

	eff, err := e.resolveFilters(ctx, parsed, sticky)
	if err != nil {
		return e.degrade(raw, start, err), nil
	}

	complexity := e.estimateComplexity(raw, parsed, sticky)
	fast := fastPathEligible(raw, parsed, sticky)

	var res *Results
	if fast {
		res, err = e.executeFast(ctx, parsed, eff)
	} else {
		res, err = e.executeFull(ctx, parsed, eff)
	}
	if err != nil {
		return e.degrade(raw, start, err), nil
	}

	text := strings.ToLower(strings.Join(parsed.TextTerms, " "))
	e.rankResults(res, text)
	res.Query = raw
	res.TotalCount = len(res.Activities) + len(res.TimeEntries) + len(res.Projects)
	res.Elapsed = e.now().Sub(start)

	slow := res.Elapsed > e.cfg.SlowThreshold
	if slow {
		e.logger.Warn("slow search",
			"query", raw,
			"elapsed", res.Elapsed,
			"complexity", complexity.String(),
			"results", res.TotalCount)
	} else {
		e.logger.Debug("search executed",
			"query", raw,
			"elapsed", res.Elapsed,
			"complexity", complexity.String(),
			"fast_path", fast,
			"results", res.TotalCount)
	}

	cached := *res
	e.cache.Put(key, &cached)
	e.metrics.Record(res.Elapsed, false, slow)
	return res, nil
}

// degrade logs a store failure and returns an empty result set so a
// backend outage never surfaces as a hard fault to the caller.
func (e *Engine) degrade(raw string, start time.Time, err error) *Results {
	e.logger.Error("search degraded to empty results", "query", raw, "error", err)
	res := emptyResults(raw)
	res.Diagnostic = "search backend unavailable"
	res.Elapsed = e.now().Sub(start)
	e.metrics.Record(res.Elapsed, false, false)
	return res
}

// executeFast answers the query from the index, hydrates the matched
// ids from the store, then applies any residual filters in memory.
func (e *Engine) executeFast(ctx context.Context, parsed *query.ParsedQuery, eff effectiveFilters) (*Results, error) {
	text := strings.Join(parsed.TextTerms, " ")

	actIDs := sortedIDs(e.idx.SearchActivityIDs(text))
	entryIDs := sortedIDs(e.idx.SearchTimeEntryIDs(text))
	projIDs := sortedIDs(e.idx.SearchProjectIDs(text))

	res := &Results{}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if len(actIDs) == 0 {
			return nil
		}
		recs, err := e.activities.ByIDs(ctx, actIDs)
		if err != nil {
			return fmt.Errorf("fetch activities: %w", err)
		}
		res.Activities = filterActivities(recs, eff, e.now())
		return nil
	})
	g.Go(func() error {
		if len(entryIDs) == 0 {
			return nil
		}
		recs, err := e.entries.ByIDs(ctx, entryIDs)
		if err != nil {
			return fmt.Errorf("fetch time entries: %w", err)
		}
		res.TimeEntries = filterTimeEntries(recs, eff)
		return nil
	})
	g.Go(func() error {
		if len(projIDs) == 0 {
			return nil
		}
		recs, err := e.projects.ByIDs(ctx, projIDs)
		if err != nil {
			return fmt.Errorf("fetch projects: %w", err)
		}
		res.Projects = filterProjects(recs, eff)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// executeFull pushes the parsed predicates down to the store and scans
// there. Each kind is fetched concurrently.
func (e *Engine) executeFull(ctx context.Context, parsed *query.ParsedQuery, eff effectiveFilters) (*Results, error) {
	hasText := len(parsed.TextTerms) > 0

	res := &Results{}
	g, ctx := errgroup.WithContext(ctx)

	if hasText || eff.constrainsActivities() {
		g.Go(func() error {
			recs, err := e.activities.Query(ctx, store.ActivityQuery{
				TextTerms:    parsed.TextTerms,
				ExcludeTerms: parsed.ExcludeTerms,
				Apps:         eff.apps,
				From:         eff.from,
				Until:        eff.until,
				MinDuration:  eff.minDur,
				MaxDuration:  eff.maxDur,
				IncludeIdle:  eff.inclIdle,
			})
			if err != nil {
				return fmt.Errorf("query activities: %w", err)
			}
			res.Activities = recs
			return nil
		})
	}
	if hasText || eff.constrainsTimeEntries() {
		g.Go(func() error {
			recs, err := e.entries.Query(ctx, store.TimeEntryQuery{
				TextTerms:    parsed.TextTerms,
				ExcludeTerms: parsed.ExcludeTerms,
				ProjectIDs:   eff.projectIDs,
				From:         eff.from,
				Until:        eff.until,
				MinDuration:  eff.minDur,
				MaxDuration:  eff.maxDur,
			})
			if err != nil {
				return fmt.Errorf("query time entries: %w", err)
			}
			res.TimeEntries = recs
			return nil
		})
	}
	if hasText || eff.constrainsProjects() {
		g.Go(func() error {
			recs, err := e.projects.Query(ctx, store.ProjectQuery{
				TextTerms:    parsed.TextTerms,
				ExcludeTerms: parsed.ExcludeTerms,
			})
			if err != nil {
				return fmt.Errorf("query projects: %w", err)
			}
			res.Projects = filterProjects(recs, eff)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Engine) rankResults(res *Results, text string) {
	now := e.now()

	actScores := make(map[string]float64, len(res.Activities))
	for i := range res.Activities {
		actScores[res.Activities[i].ID] = rank.Activity(&res.Activities[i], text, now)
	}
	sort.SliceStable(res.Activities, func(i, j int) bool {
		return actScores[res.Activities[i].ID] > actScores[res.Activities[j].ID]
	})

	entryScores := make(map[string]float64, len(res.TimeEntries))
	for i := range res.TimeEntries {
		entryScores[res.TimeEntries[i].ID] = rank.TimeEntry(&res.TimeEntries[i], text, now)
	}
	sort.SliceStable(res.TimeEntries, func(i, j int) bool {
		return entryScores[res.TimeEntries[i].ID] > entryScores[res.TimeEntries[j].ID]
	})

	projScores := make(map[string]float64, len(res.Projects))
	for i := range res.Projects {
		projScores[res.Projects[i].ID] = rank.Project(&res.Projects[i], text, now)
	}
	sort.SliceStable(res.Projects, func(i, j int) bool {
		return projScores[res.Projects[i].ID] > projScores[res.Projects[j].ID]
	})
}

func filterActivities(recs []activity.Record, eff effectiveFilters, now time.Time) []activity.Record {
	out := make([]activity.Record, 0, len(recs))
	for _, rec := range recs {
		if rec.IsIdle && !eff.inclIdle {
			continue
		}
		if len(eff.apps) > 0 && !containsFold(eff.apps, rec.AppName) {
			continue
		}
		if eff.from != nil && rec.StartTime.Before(*eff.from) {
			continue
		}
		if eff.until != nil && !rec.StartTime.Before(*eff.until) {
			continue
		}
		dur := rec.Duration(now)
		if eff.minDur > 0 && dur < eff.minDur {
			continue
		}
		if eff.maxDur > 0 && dur > eff.maxDur {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func filterTimeEntries(recs []timeentry.Record, eff effectiveFilters) []timeentry.Record {
	out := make([]timeentry.Record, 0, len(recs))
	for _, rec := range recs {
		if len(eff.projectIDs) > 0 {
			if rec.ProjectID == nil || !contains(eff.projectIDs, *rec.ProjectID) {
				continue
			}
		}
		if eff.from != nil && rec.StartTime.Before(*eff.from) {
			continue
		}
		if eff.until != nil && !rec.StartTime.Before(*eff.until) {
			continue
		}
		dur := rec.Duration()
		if eff.minDur > 0 && dur < eff.minDur {
			continue
		}
		if eff.maxDur > 0 && dur > eff.maxDur {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func filterProjects(recs []project.Record, eff effectiveFilters) []project.Record {
	if len(eff.projectIDs) == 0 {
		return recs
	}
	out := make([]project.Record, 0, len(recs))
	for _, rec := range recs {
		if contains(eff.projectIDs, rec.ID) {
			out = append(out, rec)
		}
	}
	return out
}

func sortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}
