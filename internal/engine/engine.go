package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/0xkamalei/timetrace/internal/cache"
	"github.com/0xkamalei/timetrace/internal/domain/activity"
	"github.com/0xkamalei/timetrace/internal/domain/project"
	"github.com/0xkamalei/timetrace/internal/domain/timeentry"
	"github.com/0xkamalei/timetrace/internal/index"
	"github.com/0xkamalei/timetrace/internal/query"
	"github.com/0xkamalei/timetrace/internal/store"
)

// Config holds engine tunables. Zero values are replaced by the
// defaults below in New.
type Config struct {
	DebounceDelay time.Duration
	CacheTTL      time.Duration
	CacheCapacity int
	SlowThreshold time.Duration
	MaxHistory    int
}

const (
	defaultDebounceDelay = 300 * time.Millisecond
	defaultCacheTTL      = 5 * time.Minute
	defaultCacheCapacity = 128
	defaultSlowThreshold = time.Second
	defaultMaxHistory    = 20
)

func (c *Config) applyDefaults() {
	if c.DebounceDelay == 0 {
		c.DebounceDelay = defaultDebounceDelay
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = defaultCacheTTL
	}
	if c.CacheCapacity == 0 {
		c.CacheCapacity = defaultCacheCapacity
	}
	if c.SlowThreshold == 0 {
		c.SlowThreshold = defaultSlowThreshold
	}
	if c.MaxHistory == 0 {
		c.MaxHistory = defaultMaxHistory
	}
}

// Engine ties the index, the record stores, the cache and the query
// planner into one search surface. Searches issued through Search are
// debounced; SearchImmediate bypasses the delay.
type Engine struct {
	idx        *index.Index
	activities store.ActivityStore
	entries    store.TimeEntryStore
	projects   store.ProjectStore
	cache      *cache.Cache[*Results]
	metrics    *Metrics
	logger     *slog.Logger
	cfg        Config
	now        func() time.Time

	mu         sync.Mutex
	filters    query.Filters
	history    []string
	saved      map[string]SavedSearch
	debounce   *time.Timer
	generation uint64

	listenerMu     sync.Mutex
	resultHandlers []func(*Results)
	indexHandlers  []func(index.Stats)
}

// New builds an engine around the given index and stores. The index is
// expected to be built (or rebuilt via RebuildIndex) by the caller.
func New(idx *index.Index, activities store.ActivityStore, entries store.TimeEntryStore, projects store.ProjectStore, logger *slog.Logger, cfg Config) *Engine {
	cfg.applyDefaults()
	return &Engine{
		idx:        idx,
		activities: activities,
		entries:    entries,
		projects:   projects,
		cache:      cache.New[*Results](cfg.CacheTTL, cfg.CacheCapacity),
		metrics:    NewMetrics(),
		logger:     logger,
		cfg:        cfg,
		saved:      make(map[string]SavedSearch),
		now:        time.Now,
	}
}

// SetClock overrides the engine's time source. Test hook.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
	e.cache.SetClock(now)
}

// Search schedules a debounced search. Rapid successive calls cancel
// each other; only the last query within the debounce window executes.
// Results are delivered to OnResults subscribers.
func (e *Engine) Search(raw string) {
	if v := query.Validate(raw); !v.Valid {
		e.logger.Debug("search skipped", "query", raw, "reason", v.Reason)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.generation++
	gen := e.generation
	if e.debounce != nil {
		e.debounce.Stop()
	}
	e.debounce = time.AfterFunc(e.cfg.DebounceDelay, func() {
		if !e.claim(gen) {
			return
		}
		res, err := e.SearchImmediate(context.Background(), raw)
		if err != nil {
			e.logger.Error("debounced search failed", "query", raw, "error", err)
			return
		}
		e.notifyResults(res)
	})
}

// claim reports whether gen is still the newest scheduled search. A
// stale timer that lost the race to a newer Search call gives up here.
func (e *Engine) claim(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen == e.generation
}

// SearchImmediate runs a search synchronously, bypassing the debounce
// window. Any pending debounced search is cancelled. The executed
// query is recorded in the search history.
func (e *Engine) SearchImmediate(ctx context.Context, raw string) (*Results, error) {
	e.mu.Lock()
	e.generation++
	if e.debounce != nil {
		e.debounce.Stop()
		e.debounce = nil
	}
	sticky := e.filters
	e.mu.Unlock()

	res, err := e.execute(ctx, raw, sticky)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", raw, err)
	}
	e.recordHistory(raw)
	return res, nil
}

// ApplyFilters replaces the sticky filters that are merged into every
// subsequent search. Cached results for other filter sets stay valid
// because the filter set is part of the cache key.
func (e *Engine) ApplyFilters(f query.Filters) {
	e.mu.Lock()
	e.filters = f
	e.mu.Unlock()
}

// ClearFilters drops all sticky filters.
func (e *Engine) ClearFilters() {
	e.ApplyFilters(query.Filters{})
}

// CurrentFilters returns the sticky filter set.
func (e *Engine) CurrentFilters() query.Filters {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filters
}

// RebuildIndex re-reads every record from the stores and swaps in a
// freshly built index. On a store failure the previous index is kept.
func (e *Engine) RebuildIndex(ctx context.Context) error {
	var (
		acts  []activity.Record
		ents  []timeentry.Record
		projs []project.Record
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if acts, err = e.activities.All(ctx); err != nil {
			return fmt.Errorf("load activities: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if ents, err = e.entries.All(ctx); err != nil {
			return fmt.Errorf("load time entries: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if projs, err = e.projects.All(ctx); err != nil {
			return fmt.Errorf("load projects: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		e.logger.Error("index rebuild aborted, keeping previous index", "error", err)
		return fmt.Errorf("rebuild index: %w", err)
	}

	e.idx.Build(acts, ents, projs)
	e.cache.Clear()

	stats := e.idx.Stats()
	e.logger.Info("index rebuilt",
		"activities", stats.Activities,
		"time_entries", stats.TimeEntries,
		"projects", stats.Projects)
	e.notifyIndexChanged(stats)
	return nil
}

// HandleChange applies one store change event to the index and
// invalidates the result cache. Updates are handled as remove plus
// re-insert so stale postings never linger.
func (e *Engine) HandleChange(ctx context.Context, ev store.ChangeEvent) {
	switch ev.Kind {
	case store.KindActivity:
		e.idx.RemoveActivity(ev.ID)
		if ev.Op != store.OpDelete {
			recs, err := e.activities.ByIDs(ctx, []string{ev.ID})
			if err != nil || len(recs) == 0 {
				e.logger.Warn("change event for unknown activity", "id", ev.ID, "error", err)
			} else {
				e.idx.AddActivity(&recs[0])
			}
		}
	case store.KindTimeEntry:
		e.idx.RemoveTimeEntry(ev.ID)
		if ev.Op != store.OpDelete {
			recs, err := e.entries.ByIDs(ctx, []string{ev.ID})
			if err != nil || len(recs) == 0 {
				e.logger.Warn("change event for unknown time entry", "id", ev.ID, "error", err)
			} else {
				e.idx.AddTimeEntry(&recs[0])
			}
		}
	case store.KindProject:
		e.idx.RemoveProject(ev.ID)
		if ev.Op != store.OpDelete {
			recs, err := e.projects.ByIDs(ctx, []string{ev.ID})
			if err != nil || len(recs) == 0 {
				e.logger.Warn("change event for unknown project", "id", ev.ID, "error", err)
			} else {
				e.idx.AddProject(&recs[0])
			}
		}
	default:
		e.logger.Warn("change event for unknown record kind", "kind", ev.Kind)
		return
	}

	e.cache.Clear()
	e.notifyIndexChanged(e.idx.Stats())
}

// Bind subscribes the engine to a store change feed so index and cache
// stay consistent with writes.
func (e *Engine) Bind(feed *store.Feed) {
	feed.Subscribe(func(ev store.ChangeEvent) {
		e.HandleChange(context.Background(), ev)
	})
}

// OnResults registers a handler invoked with the results of every
// debounced search.
func (e *Engine) OnResults(fn func(*Results)) {
	e.listenerMu.Lock()
	e.resultHandlers = append(e.resultHandlers, fn)
	e.listenerMu.Unlock()
}

// OnIndexChanged registers a handler invoked after every index
// mutation (rebuild or incremental change).
func (e *Engine) OnIndexChanged(fn func(index.Stats)) {
	e.listenerMu.Lock()
	e.indexHandlers = append(e.indexHandlers, fn)
	e.listenerMu.Unlock()
}

func (e *Engine) notifyResults(res *Results) {
	e.listenerMu.Lock()
	handlers := make([]func(*Results), len(e.resultHandlers))
	copy(handlers, e.resultHandlers)
	e.listenerMu.Unlock()
	for _, fn := range handlers {
		fn(res)
	}
}

func (e *Engine) notifyIndexChanged(stats index.Stats) {
	e.listenerMu.Lock()
	handlers := make([]func(index.Stats), len(e.indexHandlers))
	copy(handlers, e.indexHandlers)
	e.listenerMu.Unlock()
	for _, fn := range handlers {
		fn(stats)
	}
}

// Metrics returns a snapshot of the engine's performance counters.
func (e *Engine) Metrics() MetricsSnapshot {
	return e.metrics.Snapshot()
}

// IndexStats returns current index population counts.
func (e *Engine) IndexStats() index.Stats {
	return e.idx.Stats()
}

// Close cancels any pending debounced search.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	if e.debounce != nil {
		e.debounce.Stop()
		e.debounce = nil
	}
}
