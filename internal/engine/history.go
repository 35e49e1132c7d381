package engine

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/0xkamalei/timetrace/internal/query"
)

// ErrNoSuchSearch is returned when a named saved search does not exist.
var ErrNoSuchSearch = errors.New("no such saved search")

// SavedSearch is a named query plus the sticky filters it was saved
// with, so recalling it restores the full search context.
type SavedSearch struct {
	Name    string        `json:"name"`
	Query   string        `json:"query"`
	Filters query.Filters `json:"filters"`
	SavedAt time.Time     `json:"saved_at"`
}

// recordHistory prepends the query to the history, deduplicating and
// trimming to the configured bound. Most recent first.
func (e *Engine) recordHistory(raw string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]string, 0, len(e.history)+1)
	out = append(out, trimmed)
	for _, q := range e.history {
		if q != trimmed {
			out = append(out, q)
		}
	}
	if len(out) > e.cfg.MaxHistory {
		out = out[:e.cfg.MaxHistory]
	}
	e.history = out
}

// History returns the recent query history, most recent first.
func (e *Engine) History() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.history...)
}

// ClearHistory drops the query history.
func (e *Engine) ClearHistory() {
	e.mu.Lock()
	e.history = nil
	e.mu.Unlock()
}

// SaveSearch stores the query and filter set under name, replacing any
// previous search saved with the same name.
func (e *Engine) SaveSearch(name, rawQuery string, filters query.Filters) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("saved search name must not be empty")
	}
	if v := query.Validate(rawQuery); !v.Valid {
		return errors.New("saved search query invalid: " + v.Reason)
	}

	e.mu.Lock()
	e.saved[name] = SavedSearch{
		Name:    name,
		Query:   rawQuery,
		Filters: filters,
		SavedAt: e.now(),
	}
	e.mu.Unlock()
	return nil
}

// SavedSearches lists all saved searches sorted by name.
func (e *Engine) SavedSearches() []SavedSearch {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]SavedSearch, 0, len(e.saved))
	for _, s := range e.saved {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DeleteSavedSearch removes the named saved search.
func (e *Engine) DeleteSavedSearch(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.saved[name]; !ok {
		return ErrNoSuchSearch
	}
	delete(e.saved, name)
	return nil
}

// RunSavedSearch executes the named saved search with the filters it
// was saved with.
func (e *Engine) RunSavedSearch(ctx context.Context, name string) (*Results, error) {
	e.mu.Lock()
	s, ok := e.saved[name]
	e.mu.Unlock()
	if !ok {
		return nil, ErrNoSuchSearch
	}
	res, err := e.execute(ctx, s.Query, s.Filters)
	if err != nil {
		return nil, err
	}
	e.recordHistory(s.Query)
	return res, nil
}
