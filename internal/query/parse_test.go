package query

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC) // a Saturday

func TestParse_PlainTerms(t *testing.T) {
	parsed, err := ParseAt("xcode swift", testNow)
	require.NoError(t, err)
	require.Equal(t, []string{"xcode", "swift"}, parsed.TextTerms)
	require.False(t, parsed.HasFilters())
}

func TestParse_Filters(t *testing.T) {
	parsed, err := ParseAt("xcode app:xcode project:work after:2024-01-01 mindur:30m", testNow)
	require.NoError(t, err)

	require.Equal(t, []string{"xcode"}, parsed.TextTerms)
	require.Equal(t, []string{"xcode"}, parsed.AppFilters)
	require.Equal(t, []string{"work"}, parsed.ProjectFilters)
	require.Len(t, parsed.DateFilters, 1)
	require.Equal(t, DateAfter, parsed.DateFilters[0].Kind)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), parsed.DateFilters[0].When)
	require.Len(t, parsed.DurationFilters, 1)
	require.Equal(t, DurationMin, parsed.DurationFilters[0].Kind)
	require.Equal(t, 30*time.Minute, parsed.DurationFilters[0].Value)
}

func TestParse_FilterKeyAliases(t *testing.T) {
	parsed, err := ParseAt("application:safari proj:home since:yesterday until:today date:2024-06-01 dur:1h maxdur:2h", testNow)
	require.NoError(t, err)
	require.Equal(t, []string{"safari"}, parsed.AppFilters)
	require.Equal(t, []string{"home"}, parsed.ProjectFilters)
	require.Len(t, parsed.DateFilters, 3)
	require.Equal(t, DateAfter, parsed.DateFilters[0].Kind)
	require.Equal(t, DateBefore, parsed.DateFilters[1].Kind)
	require.Equal(t, DateOn, parsed.DateFilters[2].Kind)
	require.Len(t, parsed.DurationFilters, 2)
	require.Equal(t, DurationEqual, parsed.DurationFilters[0].Kind)
	require.Equal(t, DurationMax, parsed.DurationFilters[1].Kind)
}

func TestParse_PhraseAndExclusion(t *testing.T) {
	parsed, err := ParseAt(`"hello world" -slack`, testNow)
	require.NoError(t, err)
	require.Equal(t, []string{"hello world"}, parsed.TextTerms)
	require.Equal(t, []string{"slack"}, parsed.ExcludeTerms)
}

func TestParse_MultiTokenPhrase(t *testing.T) {
	parsed, err := ParseAt(`"design review meeting" app:zoom`, testNow)
	require.NoError(t, err)
	require.Equal(t, []string{"design review meeting"}, parsed.TextTerms)
	require.Equal(t, []string{"zoom"}, parsed.AppFilters)
}

func TestParse_UnknownFilterKeyIsPlainTerm(t *testing.T) {
	parsed, err := ParseAt("foo:bar", testNow)
	require.NoError(t, err)
	require.Equal(t, []string{"foo:bar"}, parsed.TextTerms)
	require.False(t, parsed.HasFilters())
}

func TestParse_QuotedFilterValue(t *testing.T) {
	parsed, err := ParseAt(`app:"Visual Studio Code"`, testNow)
	require.NoError(t, err)
	require.Equal(t, []string{"Visual Studio Code"}, parsed.AppFilters)
}

func TestParse_UnmatchedQuote(t *testing.T) {
	_, err := ParseAt(`"never closed`, testNow)
	require.ErrorIs(t, err, ErrUnmatchedQuote)
}

func TestParse_MalformedFilterValues(t *testing.T) {
	_, err := ParseAt("after:notadate", testNow)
	require.Error(t, err)

	_, err = ParseAt("dur:abc", testNow)
	require.Error(t, err)
}

func TestParse_DateValues(t *testing.T) {
	cases := []struct {
		value string
		want  time.Time
	}{
		{"2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"03/05/2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"2024/03/05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"today", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"yesterday", time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)},
		{"tomorrow", time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC)},
		{"thisweek", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)}, // Monday
		{"lastweek", time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)},
		{"thismonth", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"lastmonth", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"7d", time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)},
		{"2w", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"1m", time.Date(2024, 5, 16, 0, 0, 0, 0, time.UTC)},
		{"1y", time.Date(2023, 6, 16, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := parseDateValue(tc.value, testNow)
		require.NoError(t, err, "value %q", tc.value)
		require.Equal(t, tc.want, got, "value %q", tc.value)
	}

	_, err := parseDateValue("13/45/2024", testNow)
	require.Error(t, err)
}

func TestParse_DurationValues(t *testing.T) {
	cases := []struct {
		value string
		want  time.Duration
	}{
		{"1h30m", 90 * time.Minute},
		{"90m", 90 * time.Minute},
		{"1.5h", 90 * time.Minute},
		{"45s", 45 * time.Second},
		{"2h", 2 * time.Hour},
		{"90", 90 * time.Minute},
	}
	for _, tc := range cases {
		got, err := parseDurationValue(tc.value)
		require.NoError(t, err, "value %q", tc.value)
		require.Equal(t, tc.want, got, "value %q", tc.value)
	}

	for _, bad := range []string{"abc", "h30m", "1h30", "-5m", ""} {
		_, err := parseDurationValue(bad)
		require.Error(t, err, "value %q", bad)
	}
}

func TestValidate_Basics(t *testing.T) {
	require.True(t, ValidateAt("xcode app:xcode", testNow).Valid)

	v := ValidateAt("   ", testNow)
	require.False(t, v.Valid)
	require.Contains(t, v.Reason, "empty")

	v = ValidateAt(`"unclosed phrase`, testNow)
	require.False(t, v.Valid)
	require.Contains(t, v.Reason, "unmatched")
}

// Validation must agree with parsing: Invalid exactly when Parse fails
// (plus the empty-content rule Validate adds on top).
func TestValidate_AgreesWithParse(t *testing.T) {
	terms := []string{"xcode", "meeting", `"code review"`, "-slack", "browser"}
	filters := []string{
		"app:xcode", "project:work", "after:2024-01-01", "before:yesterday",
		"on:thisweek", "dur:30m", "mindur:1h30m", "maxdur:90",
		"after:nonsense", "dur:abc", "on:99/99/9999", "mindur:h2",
	}
	quotes := []string{"", `"open ended`, `"closed span"`}

	var queries []string
	for _, term := range terms {
		for _, filter := range filters {
			for _, quote := range quotes {
				queries = append(queries, fmt.Sprintf("%s %s %s", term, filter, quote))
			}
		}
	}
	require.Greater(t, len(queries), 50)

	for _, q := range queries {
		_, parseErr := ParseAt(q, testNow)
		verdict := ValidateAt(q, testNow)
		require.Equal(t, parseErr == nil, verdict.Valid, "query %q (parse err: %v, reason: %s)", q, parseErr, verdict.Reason)
	}
}

func TestNormalize(t *testing.T) {
	require.Equal(t, "xcode swift", Normalize("  Xcode   SWIFT  "))
	require.Equal(t, "xcode", Normalize("Xcode a b"))
	require.Equal(t, `xcode -a`, Normalize("Xcode -a"))
}

func TestHasOperators(t *testing.T) {
	require.True(t, HasOperators("app:xcode"))
	require.True(t, HasOperators(`-slack`))
	require.True(t, HasOperators(`"phrase"`))
	require.False(t, HasOperators("plain words"))
}

func TestFilters_Key(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f1 := Filters{ProjectIDs: []string{"b", "a"}, Apps: []string{"Xcode"}, From: &from}
	f2 := Filters{ProjectIDs: []string{"a", "b"}, Apps: []string{"Xcode"}, From: &from}
	require.Equal(t, f1.Key(), f2.Key())
	require.NotEqual(t, f1.Key(), Filters{}.Key())
	require.True(t, Filters{}.IsZero())
	require.False(t, f1.IsZero())
}
