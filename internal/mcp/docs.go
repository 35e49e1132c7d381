package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `timetrace searches a personal time-tracking store: Activities (app usage samples), Time Entries (manual bookings) and Projects.

Core workflow:
1) Call search with free text; results come back ranked per record kind.
2) Narrow with inline filters: app:, project:, before:/after:/on:, dur:/mindur:/maxdur:, quoted "exact phrases" and -excluded terms.
3) Use validate_query to check syntax without executing; get_suggestions for completions.
4) Sticky filters (set_filters / clear_filters) are merged into every search until cleared.
5) Frequent queries can be saved (save_search) and replayed (run_saved_search).
6) rebuild_index after bulk imports; search_stats for latency and cache health.

Docs (read on demand):
- timetrace://docs/query-syntax (full filter grammar with examples)
- timetrace://docs/ranking (how results are ordered)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "timetrace://docs/query-syntax",
		Name:        "docs_query_syntax",
		Title:       "Query syntax",
		Description: "The full search grammar: text terms, phrases, exclusions and key:value filters.",
		Content: `# Query syntax

A query is whitespace-separated tokens. Every text term must match
(AND semantics); matching is case-insensitive and includes prefixes
and substrings.

## Token forms

- ` + "`meeting notes`" + ` — both terms must match.
- ` + "`\"standup notes\"`" + ` — quoted phrase, kept as a single term.
- ` + "`-idle`" + ` — excluded term; matching records are dropped.
- ` + "`key:value`" + ` — filter. Unknown keys are treated as plain text.

## Filter keys

- ` + "`app:`" + ` (alias ` + "`application:`" + `) — restrict activities by app name, substring match. ` + "`app:\"Visual Studio Code\"`" + ` for names with spaces.
- ` + "`project:`" + ` (alias ` + "`proj:`" + `) — restrict time entries by project name.
- ` + "`after:`" + ` (alias ` + "`since:`" + `), ` + "`before:`" + ` (alias ` + "`until:`" + `), ` + "`on:`" + ` (alias ` + "`date:`" + `) — start-time bounds.
- ` + "`dur:`" + ` (alias ` + "`duration:`" + `), ` + "`mindur:`" + ` (alias ` + "`minduration:`" + `), ` + "`maxdur:`" + ` (alias ` + "`maxduration:`" + `) — record span bounds.

## Date values

- Absolute: ` + "`2024-06-15`" + `, ` + "`06/15/2024`" + `, ` + "`15-06-2024`" + ` and similar.
- Named: ` + "`today`" + `, ` + "`yesterday`" + `, ` + "`thisweek`" + `, ` + "`lastweek`" + `, ` + "`thismonth`" + `, ` + "`lastmonth`" + `.
- Offsets: ` + "`7d`" + `, ` + "`2w`" + `, ` + "`1m`" + `, ` + "`1y`" + ` — that far back from now.

## Duration values

- ` + "`1h30m`" + `, ` + "`90m`" + `, ` + "`1.5h`" + `, ` + "`45s`" + `. A bare number means minutes.

## Examples

- ` + "`chrome github after:yesterday`" + `
- ` + "`project:website mindur:30m`" + `
- ` + "`\"code review\" -meeting on:2024-06-01`" + `
`,
	},
	{
		URI:         "timetrace://docs/ranking",
		Name:        "docs_ranking",
		Title:       "Result ranking",
		Description: "How matched records are scored and ordered within each kind.",
		Content: `# Result ranking

Each kind is ranked independently, best match first.

- Exact field matches outrank substring matches: an activity whose app
  name equals the query beats one whose window title merely contains it.
- Primary fields (app name, entry title, project name) carry more
  weight than secondary ones (URL, notes, document path).
- Recency adds a small bonus that decays over ten days, so fresh
  records float up between otherwise equal matches.
- Longer activities and entries get a duration bonus, capped so a
  marathon session cannot dominate on length alone.
- Root projects rank slightly above sub-projects.

Scores are internal; the response carries records in rank order.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
