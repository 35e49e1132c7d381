package query

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrUnmatchedQuote indicates a quoted span was never closed.
	ErrUnmatchedQuote = errors.New("unmatched quotation marks")
	// ErrEmptyQuery indicates the query has no meaningful content.
	ErrEmptyQuery = errors.New("empty query")
)

// ParsedQuery is the structured form of a raw query string.
type ParsedQuery struct {
	TextTerms       []string
	ExcludeTerms    []string
	AppFilters      []string
	ProjectFilters  []string
	DateFilters     []DateFilter
	DurationFilters []DurationFilter
}

// HasFilters reports whether any typed filter was parsed.
func (q *ParsedQuery) HasFilters() bool {
	return len(q.AppFilters) > 0 || len(q.ProjectFilters) > 0 ||
		len(q.DateFilters) > 0 || len(q.DurationFilters) > 0
}

// Parse turns a raw query string into a structured query. Relative date
// values resolve against the current clock.
func Parse(raw string) (*ParsedQuery, error) {
	return ParseAt(raw, time.Now())
}

// ParseAt is Parse with an explicit clock, for deterministic tests.
func ParseAt(raw string, now time.Time) (*ParsedQuery, error) {
	tokens, err := splitTokens(raw)
	if err != nil {
		return nil, err
	}

	parsed := &ParsedQuery{}
	for _, tok := range tokens {
		if err := classify(parsed, tok, now); err != nil {
			return nil, err
		}
	}
	return parsed, nil
}

// Verdict is the result of validating a raw query string.
type Verdict struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// Validate checks a raw query for syntax errors without executing it.
// It applies the same tokenization and filter-value checks as Parse, and
// additionally rejects queries with no meaningful content. Anything
// Validate accepts, Parse parses.
func Validate(raw string) Verdict {
	return ValidateAt(raw, time.Now())
}

// ValidateAt is Validate with an explicit clock.
func ValidateAt(raw string, now time.Time) Verdict {
	if strings.TrimSpace(raw) == "" {
		return Verdict{Valid: false, Reason: ErrEmptyQuery.Error()}
	}
	if _, err := ParseAt(raw, now); err != nil {
		return Verdict{Valid: false, Reason: err.Error()}
	}
	return Verdict{Valid: true}
}

// splitTokens splits on whitespace while keeping double-quoted spans
// together. A token that opens a quote without closing it consumes
// subsequent tokens until one closes the span.
func splitTokens(raw string) ([]string, error) {
	if strings.Count(raw, `"`)%2 != 0 {
		return nil, ErrUnmatchedQuote
	}

	fields := strings.Fields(raw)
	var tokens []string

	for i := 0; i < len(fields); i++ {
		tok := fields[i]
		if !opensQuote(tok) {
			tokens = append(tokens, tok)
			continue
		}

		// Consume until a closing quote shows up.
		parts := []string{tok}
		closed := false
		for i+1 < len(fields) {
			i++
			parts = append(parts, fields[i])
			if strings.Contains(fields[i], `"`) {
				closed = true
				break
			}
		}
		if !closed {
			return nil, ErrUnmatchedQuote
		}
		tokens = append(tokens, strings.Join(parts, " "))
	}
	return tokens, nil
}

// opensQuote reports whether the token starts a quoted span that does
// not close within the token itself. The quote may sit mid-token, as in
// a quoted filter value like app:"Visual Studio".
func opensQuote(tok string) bool {
	return strings.Count(tok, `"`)%2 != 0
}

// classify applies the token grammar in priority order: exclusion,
// filter expression, quoted phrase, plain term.
func classify(parsed *ParsedQuery, tok string, now time.Time) error {
	if strings.HasPrefix(tok, "-") {
		if rest := tok[1:]; rest != "" {
			parsed.ExcludeTerms = append(parsed.ExcludeTerms, rest)
		}
		return nil
	}

	if !strings.HasPrefix(tok, `"`) && strings.Contains(tok, ":") {
		return classifyFilter(parsed, tok, now)
	}

	if strings.HasPrefix(tok, `"`) && strings.HasSuffix(tok, `"`) && len(tok) >= 2 {
		if phrase := strings.Trim(tok, `"`); phrase != "" {
			parsed.TextTerms = append(parsed.TextTerms, phrase)
		}
		return nil
	}

	parsed.TextTerms = append(parsed.TextTerms, tok)
	return nil
}

func classifyFilter(parsed *ParsedQuery, tok string, now time.Time) error {
	key, value, _ := strings.Cut(tok, ":")
	key = strings.ToLower(key)
	value = strings.Trim(value, `"`)

	switch key {
	case "app", "application":
		parsed.AppFilters = append(parsed.AppFilters, value)
	case "project", "proj":
		parsed.ProjectFilters = append(parsed.ProjectFilters, value)
	case "after", "since":
		return appendDateFilter(parsed, DateAfter, key, value, now)
	case "before", "until":
		return appendDateFilter(parsed, DateBefore, key, value, now)
	case "on", "date":
		return appendDateFilter(parsed, DateOn, key, value, now)
	case "duration", "dur":
		return appendDurationFilter(parsed, DurationEqual, key, value)
	case "minduration", "mindur":
		return appendDurationFilter(parsed, DurationMin, key, value)
	case "maxduration", "maxdur":
		return appendDurationFilter(parsed, DurationMax, key, value)
	default:
		// Unrecognized key: the whole token is a plain term.
		parsed.TextTerms = append(parsed.TextTerms, tok)
	}
	return nil
}

func appendDateFilter(parsed *ParsedQuery, kind DateKind, key, value string, now time.Time) error {
	when, err := parseDateValue(value, now)
	if err != nil {
		return fmt.Errorf("%s filter: %w", key, err)
	}
	parsed.DateFilters = append(parsed.DateFilters, DateFilter{Kind: kind, When: when})
	return nil
}

func appendDurationFilter(parsed *ParsedQuery, kind DurationKind, key, value string) error {
	d, err := parseDurationValue(value)
	if err != nil {
		return fmt.Errorf("%s filter: %w", key, err)
	}
	parsed.DurationFilters = append(parsed.DurationFilters, DurationFilter{Kind: kind, Value: d})
	return nil
}

// operatorChars trigger the full execution path and exempt short terms
// from normalization.
const operatorChars = `:-"`

// HasOperators reports whether the raw query uses filter, exclusion, or
// quoting syntax.
func HasOperators(raw string) bool {
	return strings.ContainsAny(raw, operatorChars)
}

// Normalize canonicalizes a raw query for cache keying: trimmed,
// whitespace-collapsed, lower-cased, with terms shorter than two
// characters dropped unless they carry an operator character.
func Normalize(raw string) string {
	var kept []string
	for _, field := range strings.Fields(strings.ToLower(raw)) {
		if len([]rune(field)) < 2 && !strings.ContainsAny(field, operatorChars) {
			continue
		}
		kept = append(kept, field)
	}
	return strings.Join(kept, " ")
}
