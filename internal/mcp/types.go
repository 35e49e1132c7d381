package mcp

import (
	"time"

	"github.com/0xkamalei/timetrace/internal/domain/activity"
	"github.com/0xkamalei/timetrace/internal/domain/project"
	"github.com/0xkamalei/timetrace/internal/domain/timeentry"
	"github.com/0xkamalei/timetrace/internal/engine"
	"github.com/0xkamalei/timetrace/internal/index"
)

// Tool parameter types. The SDK derives JSON schemas from these.

type SearchParams struct {
	Query string `json:"query" jsonschema:"Search query text, optionally with filters like app:, project:, before:, after:, on:, dur:, mindur:, maxdur: and - exclusions"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum results to return per record kind"`
}

type ValidateQueryParams struct {
	Query string `json:"query" jsonschema:"Query text to check"`
}

type SuggestionsParams struct {
	Partial string `json:"partial,omitempty" jsonschema:"Partial query text; empty returns recent history"`
}

type EmptyParams struct{}

type SaveSearchParams struct {
	Name  string `json:"name" jsonschema:"Name to save the search under"`
	Query string `json:"query" jsonschema:"Query text to save"`
}

type NamedSearchParams struct {
	Name string `json:"name" jsonschema:"Saved search name"`
}

type SetFiltersParams struct {
	Apps        []string `json:"apps,omitempty" jsonschema:"Restrict activities to these app names"`
	ProjectIDs  []string `json:"project_ids,omitempty" jsonschema:"Restrict time entries to these project ids"`
	From        string   `json:"from,omitempty" jsonschema:"Earliest start time, RFC 3339"`
	Until       string   `json:"until,omitempty" jsonschema:"Latest start time (exclusive), RFC 3339"`
	MinDuration string   `json:"min_duration,omitempty" jsonschema:"Minimum record span, e.g. 30m or 1h30m"`
	MaxDuration string   `json:"max_duration,omitempty" jsonschema:"Maximum record span, e.g. 2h"`
	IncludeIdle bool     `json:"include_idle,omitempty" jsonschema:"Include idle activity records"`
}

// Response types. Wire shapes are kept flat and RFC 3339 / seconds
// based so any client can consume them.

type ActivityResult struct {
	ID           string `json:"id"`
	AppName      string `json:"app_name"`
	WindowTitle  string `json:"window_title,omitempty"`
	URL          string `json:"url,omitempty"`
	DocumentPath string `json:"document_path,omitempty"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time,omitempty"`
	Seconds      int64  `json:"seconds"`
	IsIdle       bool   `json:"is_idle,omitempty"`
}

type TimeEntryResult struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Notes     string `json:"notes,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Seconds   int64  `json:"seconds"`
}

type ProjectResult struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ParentID  string `json:"parent_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

type SearchResponse struct {
	Query       string            `json:"query"`
	Activities  []ActivityResult  `json:"activities"`
	TimeEntries []TimeEntryResult `json:"time_entries"`
	Projects    []ProjectResult   `json:"projects"`
	TotalCount  int               `json:"total_count"`
	CacheHit    bool              `json:"cache_hit"`
	ElapsedMS   float64           `json:"elapsed_ms"`
	Diagnostic  string            `json:"diagnostic,omitempty"`
}

type ValidateQueryResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

type HistoryResponse struct {
	Queries []string `json:"queries"`
}

type SavedSearchResult struct {
	Name    string `json:"name"`
	Query   string `json:"query"`
	SavedAt string `json:"saved_at"`
}

type SavedSearchesResponse struct {
	Searches []SavedSearchResult `json:"searches"`
}

type IndexStatsResponse struct {
	Activities  int    `json:"activities"`
	TimeEntries int    `json:"time_entries"`
	Projects    int    `json:"projects"`
	LastRebuild string `json:"last_rebuild,omitempty"`
}

type StatsResponse struct {
	TotalSearches   int64              `json:"total_searches"`
	CacheHits       int64              `json:"cache_hits"`
	CacheHitRate    float64            `json:"cache_hit_rate"`
	SlowSearches    int64              `json:"slow_searches"`
	SlowRate        float64            `json:"slow_rate"`
	AvgLatencyMS    float64            `json:"avg_latency_ms"`
	MedianLatencyMS float64            `json:"median_latency_ms"`
	Index           IndexStatsResponse `json:"index"`
}

type OKResponse struct {
	Status string `json:"status"`
}

var statusOK = OKResponse{Status: "ok"}

func toIndexStatsResponse(stats index.Stats) IndexStatsResponse {
	out := IndexStatsResponse{
		Activities:  stats.Activities,
		TimeEntries: stats.TimeEntries,
		Projects:    stats.Projects,
	}
	if !stats.LastRebuild.IsZero() {
		out.LastRebuild = stats.LastRebuild.Format(time.RFC3339)
	}
	return out
}

func toSearchResponse(res *engine.Results, limit int, now time.Time) SearchResponse {
	acts := res.Activities
	ents := res.TimeEntries
	projs := res.Projects
	if limit > 0 {
		if len(acts) > limit {
			acts = acts[:limit]
		}
		if len(ents) > limit {
			ents = ents[:limit]
		}
		if len(projs) > limit {
			projs = projs[:limit]
		}
	}

	out := SearchResponse{
		Query:       res.Query,
		Activities:  make([]ActivityResult, 0, len(acts)),
		TimeEntries: make([]TimeEntryResult, 0, len(ents)),
		Projects:    make([]ProjectResult, 0, len(projs)),
		TotalCount:  res.TotalCount,
		CacheHit:    res.CacheHit,
		ElapsedMS:   float64(res.Elapsed.Microseconds()) / 1000,
		Diagnostic:  res.Diagnostic,
	}
	for i := range acts {
		out.Activities = append(out.Activities, toActivityResult(&acts[i], now))
	}
	for i := range ents {
		out.TimeEntries = append(out.TimeEntries, toTimeEntryResult(&ents[i]))
	}
	for i := range projs {
		out.Projects = append(out.Projects, toProjectResult(&projs[i]))
	}
	return out
}

func toActivityResult(rec *activity.Record, now time.Time) ActivityResult {
	out := ActivityResult{
		ID:           rec.ID,
		AppName:      rec.AppName,
		WindowTitle:  rec.WindowTitle,
		URL:          rec.URL,
		DocumentPath: rec.DocumentPath,
		StartTime:    rec.StartTime.Format(time.RFC3339),
		Seconds:      int64(rec.Duration(now).Seconds()),
		IsIdle:       rec.IsIdle,
	}
	if rec.EndTime != nil {
		out.EndTime = rec.EndTime.Format(time.RFC3339)
	}
	return out
}

func toTimeEntryResult(rec *timeentry.Record) TimeEntryResult {
	out := TimeEntryResult{
		ID:        rec.ID,
		Title:     rec.Title,
		Notes:     rec.Notes,
		StartTime: rec.StartTime.Format(time.RFC3339),
		EndTime:   rec.EndTime.Format(time.RFC3339),
		Seconds:   int64(rec.Duration().Seconds()),
	}
	if rec.ProjectID != nil {
		out.ProjectID = *rec.ProjectID
	}
	return out
}

func toProjectResult(rec *project.Record) ProjectResult {
	out := ProjectResult{
		ID:        rec.ID,
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt.Format(time.RFC3339),
	}
	if rec.ParentID != nil {
		out.ParentID = *rec.ParentID
	}
	return out
}
