package mcp

import (
	"context"
	"fmt"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/0xkamalei/timetrace/internal/query"
)

func registerTools(server *sdkmcp.Server, svc SearchService) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "search",
		Description: "Search activities, time entries and projects. Supports filters (app:, project:, before:, after:, on:, dur:, mindur:, maxdur:), quoted phrases and - exclusions.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params SearchParams) (*sdkmcp.CallToolResult, SearchResponse, error) {
		res, err := svc.SearchImmediate(ctx, params.Query)
		if err != nil {
			return nil, SearchResponse{}, mapError(err)
		}
		return nil, toSearchResponse(res, params.Limit, time.Now()), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "validate_query",
		Description: "Check whether a query parses, without executing it. Returns the reason when invalid.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params ValidateQueryParams) (*sdkmcp.CallToolResult, ValidateQueryResponse, error) {
		v := query.Validate(params.Query)
		return nil, ValidateQueryResponse{Valid: v.Valid, Reason: v.Reason}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_suggestions",
		Description: "Suggest query completions from recent history, app names and project names.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params SuggestionsParams) (*sdkmcp.CallToolResult, SuggestionsResponse, error) {
		return nil, SuggestionsResponse{Suggestions: svc.Suggestions(params.Partial)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "rebuild_index",
		Description: "Rebuild the search index from the record store. Use after bulk imports.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params EmptyParams) (*sdkmcp.CallToolResult, IndexStatsResponse, error) {
		if err := svc.RebuildIndex(ctx); err != nil {
			return nil, IndexStatsResponse{}, mapError(err)
		}
		return nil, toIndexStatsResponse(svc.IndexStats()), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "search_stats",
		Description: "Report search performance counters and index population.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params EmptyParams) (*sdkmcp.CallToolResult, StatsResponse, error) {
		snap := svc.Metrics()
		return nil, StatsResponse{
			TotalSearches:   snap.TotalSearches,
			CacheHits:       snap.CacheHits,
			CacheHitRate:    snap.CacheHitRate,
			SlowSearches:    snap.SlowSearches,
			SlowRate:        snap.SlowRate,
			AvgLatencyMS:    float64(snap.AvgLatency.Microseconds()) / 1000,
			MedianLatencyMS: float64(snap.MedianLatency.Microseconds()) / 1000,
			Index:           toIndexStatsResponse(svc.IndexStats()),
		}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_history",
		Description: "List recent search queries, most recent first.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params EmptyParams) (*sdkmcp.CallToolResult, HistoryResponse, error) {
		return nil, HistoryResponse{Queries: svc.History()}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "clear_history",
		Description: "Clear the search history.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params EmptyParams) (*sdkmcp.CallToolResult, OKResponse, error) {
		svc.ClearHistory()
		return nil, statusOK, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_search",
		Description: "Save the query together with the currently applied filters under a name.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params SaveSearchParams) (*sdkmcp.CallToolResult, OKResponse, error) {
		if err := svc.SaveSearch(params.Name, params.Query, svc.CurrentFilters()); err != nil {
			return nil, OKResponse{}, mapError(err)
		}
		return nil, statusOK, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_saved_searches",
		Description: "List saved searches by name.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params EmptyParams) (*sdkmcp.CallToolResult, SavedSearchesResponse, error) {
		saved := svc.SavedSearches()
		resp := SavedSearchesResponse{Searches: make([]SavedSearchResult, 0, len(saved))}
		for _, s := range saved {
			resp.Searches = append(resp.Searches, SavedSearchResult{
				Name:    s.Name,
				Query:   s.Query,
				SavedAt: s.SavedAt.Format(time.RFC3339),
			})
		}
		return nil, resp, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "run_saved_search",
		Description: "Execute a saved search with the filters it was saved with.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params NamedSearchParams) (*sdkmcp.CallToolResult, SearchResponse, error) {
		res, err := svc.RunSavedSearch(ctx, params.Name)
		if err != nil {
			return nil, SearchResponse{}, mapError(err)
		}
		return nil, toSearchResponse(res, 0, time.Now()), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_saved_search",
		Description: "Delete a saved search by name.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params NamedSearchParams) (*sdkmcp.CallToolResult, OKResponse, error) {
		if err := svc.DeleteSavedSearch(params.Name); err != nil {
			return nil, OKResponse{}, mapError(err)
		}
		return nil, statusOK, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_filters",
		Description: "Apply sticky filters that are merged into every subsequent search.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params SetFiltersParams) (*sdkmcp.CallToolResult, OKResponse, error) {
		filters, err := parseFilters(params)
		if err != nil {
			return nil, OKResponse{}, err
		}
		svc.ApplyFilters(filters)
		return nil, statusOK, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "clear_filters",
		Description: "Remove all sticky filters.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params EmptyParams) (*sdkmcp.CallToolResult, OKResponse, error) {
		svc.ClearFilters()
		return nil, statusOK, nil
	})
}

func parseFilters(params SetFiltersParams) (query.Filters, error) {
	f := query.Filters{
		Apps:        params.Apps,
		ProjectIDs:  params.ProjectIDs,
		IncludeIdle: params.IncludeIdle,
	}
	if params.From != "" {
		t, err := time.Parse(time.RFC3339, params.From)
		if err != nil {
			return f, &APIError{Code: "BAD_FILTER", Message: fmt.Sprintf("from: %v", err), RecoveryHint: "Use RFC 3339, e.g. 2024-06-15T00:00:00Z"}
		}
		f.From = &t
	}
	if params.Until != "" {
		t, err := time.Parse(time.RFC3339, params.Until)
		if err != nil {
			return f, &APIError{Code: "BAD_FILTER", Message: fmt.Sprintf("until: %v", err), RecoveryHint: "Use RFC 3339, e.g. 2024-06-16T00:00:00Z"}
		}
		f.Until = &t
	}
	if params.MinDuration != "" {
		d, err := time.ParseDuration(params.MinDuration)
		if err != nil {
			return f, &APIError{Code: "BAD_FILTER", Message: fmt.Sprintf("min_duration: %v", err), RecoveryHint: "Use Go duration syntax, e.g. 30m or 1h30m"}
		}
		f.MinDuration = d
	}
	if params.MaxDuration != "" {
		d, err := time.ParseDuration(params.MaxDuration)
		if err != nil {
			return f, &APIError{Code: "BAD_FILTER", Message: fmt.Sprintf("max_duration: %v", err), RecoveryHint: "Use Go duration syntax, e.g. 2h"}
		}
		f.MaxDuration = d
	}
	return f, nil
}
