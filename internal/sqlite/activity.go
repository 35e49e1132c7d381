package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/0xkamalei/timetrace/internal/domain/activity"
	"github.com/0xkamalei/timetrace/internal/store"
)

// ActivityRepository implements store.ActivityStore for SQLite
type ActivityRepository struct {
	db   *DB
	feed *store.Feed
}

// NewActivityRepository creates a new ActivityRepository publishing
// change events to feed.
func NewActivityRepository(db *DB, feed *store.Feed) *ActivityRepository {
	return &ActivityRepository{db: db, feed: feed}
}

const activityColumns = "id, app_name, window_title, url, document_path, start_time, end_time, is_idle"

// All returns every activity record, for index builds.
func (r *ActivityRepository) All(ctx context.Context) ([]activity.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+activityColumns+" FROM activities ORDER BY start_time DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()
	return scanActivities(rows)
}

// ByIDs fetches full records for an id set, used by the fast query path.
func (r *ActivityRepository) ByIDs(ctx context.Context, ids []string) ([]activity.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+activityColumns+" FROM activities WHERE id IN ("+placeholders(len(ids))+") ORDER BY start_time DESC",
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activities by ids: %w", err)
	}
	defer rows.Close()
	return scanActivities(rows)
}

// Query fetches activities matching store-level predicates, used by the
// full query path.
func (r *ActivityRepository) Query(ctx context.Context, q store.ActivityQuery) ([]activity.Record, error) {
	sb := strings.Builder{}
	sb.WriteString("SELECT " + activityColumns + " FROM activities WHERE 1=1")
	var args []any

	if !q.IncludeIdle {
		sb.WriteString(" AND is_idle = 0")
	}
	textMatch := "(LOWER(app_name) LIKE ? OR LOWER(COALESCE(window_title,'')) LIKE ?" +
		" OR LOWER(COALESCE(url,'')) LIKE ? OR LOWER(COALESCE(document_path,'')) LIKE ?)"
	for _, term := range q.TextTerms {
		sb.WriteString(" AND " + textMatch)
		p := likePattern(term)
		args = append(args, p, p, p, p)
	}
	for _, term := range q.ExcludeTerms {
		sb.WriteString(" AND NOT " + textMatch)
		p := likePattern(term)
		args = append(args, p, p, p, p)
	}
	if len(q.Apps) > 0 {
		sb.WriteString(" AND LOWER(app_name) IN (" + placeholders(len(q.Apps)) + ")")
		for _, app := range q.Apps {
			args = append(args, strings.ToLower(app))
		}
	}
	if q.From != nil {
		sb.WriteString(" AND start_time >= ?")
		args = append(args, q.From.Unix())
	}
	if q.Until != nil {
		sb.WriteString(" AND start_time < ?")
		args = append(args, q.Until.Unix())
	}
	spanExpr := "(COALESCE(end_time, CAST(strftime('%s','now') AS INTEGER)) - start_time)"
	if q.MinDuration > 0 {
		sb.WriteString(" AND " + spanExpr + " >= ?")
		args = append(args, int64(q.MinDuration.Seconds()))
	}
	if q.MaxDuration > 0 {
		sb.WriteString(" AND " + spanExpr + " <= ?")
		args = append(args, int64(q.MaxDuration.Seconds()))
	}

	sb.WriteString(" ORDER BY start_time DESC")
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()
	return scanActivities(rows)
}

// Create inserts an activity record, generating an id if missing.
func (r *ActivityRepository) Create(ctx context.Context, rec *activity.Record) error {
	if rec == nil || rec.AppName == "" {
		return store.ErrInvalidInput
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activities (id, app_name, window_title, url, document_path, start_time, end_time, is_idle)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.AppName,
		nullString(rec.WindowTitle),
		nullString(rec.URL),
		nullString(rec.DocumentPath),
		rec.StartTime.Unix(),
		nullUnix(rec.EndTime),
		rec.IsIdle,
	)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}

	r.feed.Publish(store.ChangeEvent{Kind: store.KindActivity, Op: store.OpInsert, ID: rec.ID})
	return nil
}

// Update replaces an activity record.
func (r *ActivityRepository) Update(ctx context.Context, rec *activity.Record) error {
	if rec == nil || rec.ID == "" {
		return store.ErrInvalidInput
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE activities
		SET app_name = ?, window_title = ?, url = ?, document_path = ?,
		    start_time = ?, end_time = ?, is_idle = ?
		WHERE id = ?`,
		rec.AppName,
		nullString(rec.WindowTitle),
		nullString(rec.URL),
		nullString(rec.DocumentPath),
		rec.StartTime.Unix(),
		nullUnix(rec.EndTime),
		rec.IsIdle,
		rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}

	r.feed.Publish(store.ChangeEvent{Kind: store.KindActivity, Op: store.OpUpdate, ID: rec.ID})
	return nil
}

// Delete removes an activity record.
func (r *ActivityRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM activities WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}

	r.feed.Publish(store.ChangeEvent{Kind: store.KindActivity, Op: store.OpDelete, ID: id})
	return nil
}

func scanActivities(rows *sql.Rows) ([]activity.Record, error) {
	var recs []activity.Record
	for rows.Next() {
		var (
			rec          activity.Record
			windowTitle  sql.NullString
			url          sql.NullString
			documentPath sql.NullString
			startTime    int64
			endTime      sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &rec.AppName, &windowTitle, &url, &documentPath, &startTime, &endTime, &rec.IsIdle); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		rec.WindowTitle = fromNullString(windowTitle)
		rec.URL = fromNullString(url)
		rec.DocumentPath = fromNullString(documentPath)
		rec.StartTime = timeFromUnix(startTime)
		rec.EndTime = fromNullUnix(endTime)
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activities: %w", err)
	}
	return recs, nil
}
