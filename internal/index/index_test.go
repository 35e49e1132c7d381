package index

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/0xkamalei/timetrace/internal/domain/activity"
	"github.com/0xkamalei/timetrace/internal/domain/project"
	"github.com/0xkamalei/timetrace/internal/domain/timeentry"
)

func newActivity(id, app, title string) *activity.Record {
	end := time.Now()
	return &activity.Record{
		ID:          id,
		AppName:     app,
		WindowTitle: title,
		StartTime:   end.Add(-time.Hour),
		EndTime:     &end,
	}
}

func TestIndex_ActivityRoundTrip(t *testing.T) {
	idx := New()
	idx.AddActivity(newActivity("a1", "Xcode", "main.swift"))

	ids := idx.SearchActivityIDs("xcode")
	require.Contains(t, ids, "a1")

	idx.RemoveActivity("a1")
	ids = idx.SearchActivityIDs("xcode")
	require.NotContains(t, ids, "a1")
	require.Equal(t, 0, idx.Stats().Activities)
}

func TestIndex_AndSemantics(t *testing.T) {
	idx := New()
	idx.AddActivity(newActivity("a1", "Visual Studio Code", ""))
	idx.AddActivity(newActivity("a2", "Visual Basic", ""))

	ids := idx.SearchActivityIDs("visual studio")
	require.Contains(t, ids, "a1")
	require.NotContains(t, ids, "a2")

	// A single shared term matches both.
	ids = idx.SearchActivityIDs("visual")
	require.Len(t, ids, 2)
}

func TestIndex_PrefixAndSubstringMatch(t *testing.T) {
	idx := New()
	idx.AddActivity(newActivity("a1", "Terminal", ""))

	require.Contains(t, idx.SearchActivityIDs("term"), "a1")
	require.Contains(t, idx.SearchActivityIDs("min"), "a1", "substring of an indexed term")
}

func TestIndex_EmptyQuery(t *testing.T) {
	idx := New()
	idx.AddActivity(newActivity("a1", "Xcode", ""))

	require.Empty(t, idx.SearchActivityIDs(""))
	require.Empty(t, idx.SearchActivityIDs("a"))
}

func TestIndex_FieldScoping(t *testing.T) {
	idx := New()
	idx.AddActivity(newActivity("a1", "Safari", "golang docs"))
	idx.AddTimeEntry(&timeentry.Record{
		ID:        "e1",
		Title:     "safari research",
		StartTime: time.Now().Add(-time.Hour),
		EndTime:   time.Now(),
	})

	require.Contains(t, idx.SearchActivityIDs("safari"), "a1")
	require.NotContains(t, idx.SearchActivityIDs("safari"), "e1")
	require.Contains(t, idx.SearchTimeEntryIDs("safari"), "e1")
}

func TestIndex_TimeEntryAndProject(t *testing.T) {
	idx := New()
	idx.AddTimeEntry(&timeentry.Record{
		ID:        "e1",
		Title:     "sprint planning",
		Notes:     "quarterly goals",
		StartTime: time.Now().Add(-time.Hour),
		EndTime:   time.Now(),
	})
	idx.AddProject(&project.Record{ID: "p1", Name: "Work"})

	require.Contains(t, idx.SearchTimeEntryIDs("quarterly"), "e1")
	require.Contains(t, idx.SearchProjectIDs("work"), "p1")

	idx.RemoveTimeEntry("e1")
	idx.RemoveProject("p1")
	require.Empty(t, idx.SearchTimeEntryIDs("sprint"))
	require.Empty(t, idx.SearchProjectIDs("work"))
}

func TestIndex_BuildReplacesContents(t *testing.T) {
	idx := New()
	idx.AddActivity(newActivity("old", "Photoshop", ""))

	idx.Build(
		[]activity.Record{*newActivity("a1", "Xcode", "")},
		nil,
		[]project.Record{{ID: "p1", Name: "Work"}},
	)

	require.Empty(t, idx.SearchActivityIDs("photoshop"))
	require.Contains(t, idx.SearchActivityIDs("xcode"), "a1")

	stats := idx.Stats()
	require.Equal(t, 1, stats.Activities)
	require.Equal(t, 0, stats.TimeEntries)
	require.Equal(t, 1, stats.Projects)
	require.False(t, stats.LastRebuild.IsZero())
}

func TestIndex_Suggestions(t *testing.T) {
	idx := New()
	idx.AddActivity(newActivity("a1", "Xcode", "ContentView.swift"))
	idx.AddActivity(newActivity("a2", "Xcode", "AppDelegate.swift"))
	idx.AddActivity(newActivity("a3", "Safari", ""))
	idx.AddProject(&project.Record{ID: "p1", Name: "Work"})

	require.Equal(t, []string{"Safari", "Xcode"}, idx.AppNameSuggestions())
	require.Equal(t, []string{"Work"}, idx.ProjectSuggestions())
	require.Len(t, idx.WindowTitleSuggestions(), 2)

	// Removing one of two Xcode activities keeps the suggestion.
	idx.RemoveActivity("a1")
	require.Contains(t, idx.AppNameSuggestions(), "Xcode")
	idx.RemoveActivity("a2")
	require.NotContains(t, idx.AppNameSuggestions(), "Xcode")
}

func TestIndex_CommonTerms(t *testing.T) {
	idx := New()
	idx.AddActivity(newActivity("a1", "Xcode", ""))
	idx.AddActivity(newActivity("a2", "Xcode", ""))
	idx.AddActivity(newActivity("a3", "Safari", ""))

	terms := idx.CommonTerms(2)
	require.Len(t, terms, 2)
	require.Equal(t, "xco", terms[0][:3])
}

func TestIndex_RemoveRestoresTermFrequencies(t *testing.T) {
	idx := New()
	idx.AddActivity(newActivity("keep", "Safari", ""))
	before := idx.CommonTerms(0)

	// A repeated term inside one field value must not inflate the
	// frequency table across add/remove cycles.
	for i := 0; i < 3; i++ {
		idx.AddActivity(newActivity("churn", "Xcode", "build log build"))
		idx.RemoveActivity("churn")
	}

	require.Equal(t, before, idx.CommonTerms(0))
}
