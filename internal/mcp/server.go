package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/0xkamalei/timetrace/internal/engine"
	"github.com/0xkamalei/timetrace/internal/index"
	"github.com/0xkamalei/timetrace/internal/query"
)

// SearchService defines the engine operations the MCP surface needs.
type SearchService interface {
	SearchImmediate(ctx context.Context, raw string) (*engine.Results, error)
	Suggestions(partial string) []string
	RebuildIndex(ctx context.Context) error
	Metrics() engine.MetricsSnapshot
	IndexStats() index.Stats
	History() []string
	ClearHistory()
	SaveSearch(name, rawQuery string, filters query.Filters) error
	SavedSearches() []engine.SavedSearch
	DeleteSavedSearch(name string) error
	RunSavedSearch(ctx context.Context, name string) (*engine.Results, error)
	ApplyFilters(f query.Filters)
	ClearFilters()
	CurrentFilters() query.Filters
}

// Config contains server configuration.
type Config struct {
	Service SearchService
	Logger  *slog.Logger
}

// NewServer creates and configures an MCP server with all tools,
// resources and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "timetrace",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Service)

	return server
}
