package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/0xkamalei/timetrace/internal/domain/activity"
	"github.com/0xkamalei/timetrace/internal/domain/project"
	"github.com/0xkamalei/timetrace/internal/domain/timeentry"
	"github.com/0xkamalei/timetrace/internal/engine"
	"github.com/0xkamalei/timetrace/internal/index"
	"github.com/0xkamalei/timetrace/internal/store/mocks"
)

func newTestSession(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()

	now := time.Now().UTC()
	a1 := activity.Record{ID: "a1", AppName: "Google Chrome", WindowTitle: "GitHub", StartTime: now.Add(-time.Hour)}

	idx := index.New()
	idx.Build([]activity.Record{a1}, []timeentry.Record{}, []project.Record{})

	acts := new(mocks.ActivityStore)
	ents := new(mocks.TimeEntryStore)
	projs := new(mocks.ProjectStore)
	acts.On("ByIDs", mock.Anything, mock.Anything).Return([]activity.Record{a1}, nil)
	acts.On("All", mock.Anything).Return([]activity.Record{a1}, nil)
	ents.On("All", mock.Anything).Return([]timeentry.Record{}, nil)
	projs.On("All", mock.Anything).Return([]project.Record{}, nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := engine.New(idx, acts, ents, projs, logger, engine.Config{})
	t.Cleanup(eng.Close)

	server := NewServer(Config{Service: eng, Logger: logger})

	ctx := context.Background()
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })

	return session
}

func callTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any, out any) {
	t.Helper()

	result, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err, "tools/call %s failed", name)
	require.False(t, result.IsError, "%s returned error: %v", name, result.Content)

	if out == nil {
		return
	}
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "expected text content from %s", name)
	require.NoError(t, json.Unmarshal([]byte(text.Text), out))
}

func TestServer_ListTools(t *testing.T) {
	session := newTestSession(t)

	tools, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"search", "validate_query", "get_suggestions", "rebuild_index",
		"search_stats", "get_history", "clear_history",
		"save_search", "list_saved_searches", "run_saved_search", "delete_saved_search",
		"set_filters", "clear_filters",
	} {
		require.True(t, names[want], "missing tool %s", want)
	}
}

func TestServer_SearchTool(t *testing.T) {
	session := newTestSession(t)

	var resp SearchResponse
	callTool(t, session, "search", map[string]any{"query": "chrome"}, &resp)

	require.Equal(t, "chrome", resp.Query)
	require.Len(t, resp.Activities, 1)
	require.Equal(t, "Google Chrome", resp.Activities[0].AppName)
	require.Equal(t, 1, resp.TotalCount)
}

func TestServer_ValidateQueryTool(t *testing.T) {
	session := newTestSession(t)

	var ok ValidateQueryResponse
	callTool(t, session, "validate_query", map[string]any{"query": "chrome after:yesterday"}, &ok)
	require.True(t, ok.Valid)

	var bad ValidateQueryResponse
	callTool(t, session, "validate_query", map[string]any{"query": `"broken`}, &bad)
	require.False(t, bad.Valid)
	require.NotEmpty(t, bad.Reason)
}

func TestServer_SavedSearchLifecycle(t *testing.T) {
	session := newTestSession(t)

	callTool(t, session, "save_search", map[string]any{"name": "browsing", "query": "chrome"}, nil)

	var listed SavedSearchesResponse
	callTool(t, session, "list_saved_searches", nil, &listed)
	require.Len(t, listed.Searches, 1)
	require.Equal(t, "browsing", listed.Searches[0].Name)

	var run SearchResponse
	callTool(t, session, "run_saved_search", map[string]any{"name": "browsing"}, &run)
	require.Equal(t, 1, run.TotalCount)

	callTool(t, session, "delete_saved_search", map[string]any{"name": "browsing"}, nil)

	result, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "run_saved_search",
		Arguments: map[string]any{"name": "browsing"},
	})
	require.NoError(t, err)
	require.True(t, result.IsError, "running a deleted search should fail")
}

func TestServer_StatsAndHistory(t *testing.T) {
	session := newTestSession(t)

	var res SearchResponse
	callTool(t, session, "search", map[string]any{"query": "chrome"}, &res)

	var hist HistoryResponse
	callTool(t, session, "get_history", nil, &hist)
	require.Equal(t, []string{"chrome"}, hist.Queries)

	var stats StatsResponse
	callTool(t, session, "search_stats", nil, &stats)
	require.EqualValues(t, 1, stats.TotalSearches)
	require.Equal(t, 1, stats.Index.Activities)

	callTool(t, session, "clear_history", nil, nil)
	var cleared HistoryResponse
	callTool(t, session, "get_history", nil, &cleared)
	require.Empty(t, cleared.Queries)
}

func TestServer_RebuildIndexTool(t *testing.T) {
	session := newTestSession(t)

	var stats IndexStatsResponse
	callTool(t, session, "rebuild_index", nil, &stats)
	require.Equal(t, 1, stats.Activities)
	require.Equal(t, 0, stats.Projects)
	require.NotEmpty(t, stats.LastRebuild)
}

func TestServer_DocResources(t *testing.T) {
	session := newTestSession(t)

	resources, err := session.ListResources(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, resources.Resources, 2)

	doc, err := session.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{
		URI: "timetrace://docs/query-syntax",
	})
	require.NoError(t, err)
	require.NotEmpty(t, doc.Contents)
	require.Contains(t, doc.Contents[0].Text, "mindur")
}
