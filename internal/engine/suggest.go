package engine

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Per-source caps keep the suggestion list balanced; the totals match
// what a dropdown can usefully show.
const (
	maxHistorySuggestions = 5
	maxAppSuggestions     = 3
	maxProjectSuggestions = 3
	maxSuggestions        = 10
)

// Suggestions proposes completions for a partial query, drawing from
// recent history, known app names and project names, in that order.
// An empty partial returns the recent history alone.
func (e *Engine) Suggestions(partial string) []string {
	partial = strings.TrimSpace(partial)

	history := e.History()
	if partial == "" {
		if len(history) > maxHistorySuggestions {
			history = history[:maxHistorySuggestions]
		}
		return history
	}

	out := make([]string, 0, maxSuggestions)
	seen := make(map[string]struct{})
	add := func(candidates []string, limit int) {
		n := 0
		for _, c := range candidates {
			if n >= limit || len(out) >= maxSuggestions {
				return
			}
			lower := strings.ToLower(c)
			if _, dup := seen[lower]; dup {
				continue
			}
			seen[lower] = struct{}{}
			out = append(out, c)
			n++
		}
	}

	add(fuzzyRank(partial, history), maxHistorySuggestions)
	add(fuzzyRank(partial, e.idx.AppNameSuggestions()), maxAppSuggestions)
	add(fuzzyRank(partial, e.idx.ProjectSuggestions()), maxProjectSuggestions)
	return out
}

// fuzzyRank filters candidates down to fuzzy matches for the partial,
// best match first.
func fuzzyRank(partial string, candidates []string) []string {
	matches := fuzzy.Find(partial, candidates)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Str)
	}
	return out
}
