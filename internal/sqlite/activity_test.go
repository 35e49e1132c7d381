package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/0xkamalei/timetrace/internal/domain/activity"
	"github.com/0xkamalei/timetrace/internal/store"
)

func insertActivity(t *testing.T, repo *ActivityRepository, id, app, title string, start time.Time, dur time.Duration) *activity.Record {
	t.Helper()
	end := start.Add(dur)
	rec := &activity.Record{
		ID:          id,
		AppName:     app,
		WindowTitle: title,
		StartTime:   start,
		EndTime:     &end,
	}
	require.NoError(t, repo.Create(context.Background(), rec))
	return rec
}

func TestActivityRepository_CreateAllByIDs(t *testing.T) {
	db := NewTestDB(t)
	repo := NewActivityRepository(db, &store.Feed{})
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	insertActivity(t, repo, "a1", "Xcode", "main.swift", now.Add(-time.Hour), time.Hour)
	insertActivity(t, repo, "a2", "Safari", "docs", now.Add(-2*time.Hour), 30*time.Minute)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Natural fetch order is start time descending.
	require.Equal(t, "a1", all[0].ID)

	got, err := repo.ByIDs(ctx, []string{"a2"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Safari", got[0].AppName)
	require.Equal(t, "docs", got[0].WindowTitle)
	require.NotNil(t, got[0].EndTime)

	got, err = repo.ByIDs(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestActivityRepository_GeneratesID(t *testing.T) {
	db := NewTestDB(t)
	repo := NewActivityRepository(db, &store.Feed{})

	rec := &activity.Record{AppName: "Xcode", StartTime: time.Now()}
	require.NoError(t, repo.Create(context.Background(), rec))
	require.NotEmpty(t, rec.ID)
}

func TestActivityRepository_QueryPredicates(t *testing.T) {
	db := NewTestDB(t)
	repo := NewActivityRepository(db, &store.Feed{})
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	insertActivity(t, repo, "a1", "Xcode", "timetrace — planner.go", now.Add(-time.Hour), time.Hour)
	insertActivity(t, repo, "a2", "Xcode", "mail drafts", now.Add(-48*time.Hour), 10*time.Minute)
	insertActivity(t, repo, "a3", "Slack", "general", now.Add(-time.Hour), 2*time.Hour)

	// Text term AND app predicate.
	recs, err := repo.Query(ctx, store.ActivityQuery{TextTerms: []string{"planner"}, Apps: []string{"xcode"}})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "a1", recs[0].ID)

	// Exclusion.
	recs, err = repo.Query(ctx, store.ActivityQuery{TextTerms: []string{"xcode"}, ExcludeTerms: []string{"mail"}})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "a1", recs[0].ID)

	// Date range.
	from := now.Add(-2 * time.Hour)
	recs, err = repo.Query(ctx, store.ActivityQuery{From: &from})
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// Duration bounds.
	recs, err = repo.Query(ctx, store.ActivityQuery{MinDuration: 90 * time.Minute})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "a3", recs[0].ID)
}

func TestActivityRepository_UntilExcludesBoundaryStart(t *testing.T) {
	db := NewTestDB(t)
	repo := NewActivityRepository(db, &store.Feed{})
	ctx := context.Background()
	boundary := time.Now().Truncate(time.Second)

	insertActivity(t, repo, "before", "Figma", "mockup", boundary.Add(-time.Hour), time.Hour)
	insertActivity(t, repo, "at", "Figma", "mockup", boundary, time.Hour)

	// Until is an exclusive bound, matching the planner's in-memory
	// post-filter on the index path.
	recs, err := repo.Query(ctx, store.ActivityQuery{Until: &boundary})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "before", recs[0].ID)
}

func TestActivityRepository_IdleExcludedByDefault(t *testing.T) {
	db := NewTestDB(t)
	repo := NewActivityRepository(db, &store.Feed{})
	ctx := context.Background()
	now := time.Now()

	end := now.Add(time.Minute)
	require.NoError(t, repo.Create(ctx, &activity.Record{
		ID: "idle", AppName: "loginwindow", StartTime: now, EndTime: &end, IsIdle: true,
	}))

	recs, err := repo.Query(ctx, store.ActivityQuery{TextTerms: []string{"loginwindow"}})
	require.NoError(t, err)
	require.Empty(t, recs)

	recs, err = repo.Query(ctx, store.ActivityQuery{TextTerms: []string{"loginwindow"}, IncludeIdle: true})
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

func TestActivityRepository_UpdateDeleteAndChangeFeed(t *testing.T) {
	db := NewTestDB(t)
	feed := &store.Feed{}
	var events []store.ChangeEvent
	feed.Subscribe(func(ev store.ChangeEvent) { events = append(events, ev) })

	repo := NewActivityRepository(db, feed)
	ctx := context.Background()
	rec := insertActivity(t, repo, "a1", "Xcode", "", time.Now().Add(-time.Hour), time.Hour)

	rec.AppName = "Xcode Beta"
	require.NoError(t, repo.Update(ctx, rec))
	require.NoError(t, repo.Delete(ctx, rec.ID))

	require.Equal(t, []store.ChangeEvent{
		{Kind: store.KindActivity, Op: store.OpInsert, ID: "a1"},
		{Kind: store.KindActivity, Op: store.OpUpdate, ID: "a1"},
		{Kind: store.KindActivity, Op: store.OpDelete, ID: "a1"},
	}, events)

	require.ErrorIs(t, repo.Delete(ctx, "a1"), store.ErrNotFound)
	require.ErrorIs(t, repo.Update(ctx, rec), store.ErrNotFound)
}
