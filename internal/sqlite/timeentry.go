package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/0xkamalei/timetrace/internal/domain/timeentry"
	"github.com/0xkamalei/timetrace/internal/store"
)

// TimeEntryRepository implements store.TimeEntryStore for SQLite
type TimeEntryRepository struct {
	db   *DB
	feed *store.Feed
}

// NewTimeEntryRepository creates a new TimeEntryRepository publishing
// change events to feed.
func NewTimeEntryRepository(db *DB, feed *store.Feed) *TimeEntryRepository {
	return &TimeEntryRepository{db: db, feed: feed}
}

const entryColumns = "id, title, notes, project_id, start_time, end_time"

// All returns every time entry, for index builds.
func (r *TimeEntryRepository) All(ctx context.Context) ([]timeentry.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM time_entries ORDER BY start_time DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	defer rows.Close()
	return scanTimeEntries(rows)
}

// ByIDs fetches full records for an id set, used by the fast query path.
func (r *TimeEntryRepository) ByIDs(ctx context.Context, ids []string) ([]timeentry.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM time_entries WHERE id IN ("+placeholders(len(ids))+") ORDER BY start_time DESC",
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch time entries by ids: %w", err)
	}
	defer rows.Close()
	return scanTimeEntries(rows)
}

// Query fetches time entries matching store-level predicates.
func (r *TimeEntryRepository) Query(ctx context.Context, q store.TimeEntryQuery) ([]timeentry.Record, error) {
	sb := strings.Builder{}
	sb.WriteString("SELECT " + entryColumns + " FROM time_entries WHERE 1=1")
	var args []any

	textMatch := "(LOWER(title) LIKE ? OR LOWER(COALESCE(notes,'')) LIKE ?)"
	for _, term := range q.TextTerms {
		sb.WriteString(" AND " + textMatch)
		p := likePattern(term)
		args = append(args, p, p)
	}
	for _, term := range q.ExcludeTerms {
		sb.WriteString(" AND NOT " + textMatch)
		p := likePattern(term)
		args = append(args, p, p)
	}
	if len(q.ProjectIDs) > 0 {
		sb.WriteString(" AND project_id IN (" + placeholders(len(q.ProjectIDs)) + ")")
		for _, id := range q.ProjectIDs {
			args = append(args, id)
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
	if q.MinDuration > 0 {
		sb.WriteString(" AND (end_time - start_time) >= ?")
		args = append(args, int64(q.MinDuration.Seconds()))
	}
	if q.MaxDuration > 0 {
		sb.WriteString(" AND (end_time - start_time) <= ?")
		args = append(args, int64(q.MaxDuration.Seconds()))
	}

	sb.WriteString(" ORDER BY start_time DESC")
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer rows.Close()
	return scanTimeEntries(rows)
}

// Create inserts a time entry, generating an id if missing.
func (r *TimeEntryRepository) Create(ctx context.Context, rec *timeentry.Record) error {
	if rec == nil || rec.Title == "" || !rec.EndTime.After(rec.StartTime) {
		return store.ErrInvalidInput
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO time_entries (id, title, notes, project_id, start_time, end_time)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Title,
		nullString(rec.Notes),
		rec.ProjectID,
		rec.StartTime.Unix(),
		rec.EndTime.Unix(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrForeignKeyViolation
		}
		if isCheckViolation(err) {
			return store.ErrInvalidInput
		}
		return fmt.Errorf("failed to create time entry: %w", err)
	}

	r.feed.Publish(store.ChangeEvent{Kind: store.KindTimeEntry, Op: store.OpInsert, ID: rec.ID})
	return nil
}

// Update replaces a time entry.
func (r *TimeEntryRepository) Update(ctx context.Context, rec *timeentry.Record) error {
	if rec == nil || rec.ID == "" || !rec.EndTime.After(rec.StartTime) {
		return store.ErrInvalidInput
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE time_entries
		SET title = ?, notes = ?, project_id = ?, start_time = ?, end_time = ?
		WHERE id = ?`,
		rec.Title,
		nullString(rec.Notes),
		rec.ProjectID,
		rec.StartTime.Unix(),
		rec.EndTime.Unix(),
		rec.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to update time entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}

	r.feed.Publish(store.ChangeEvent{Kind: store.KindTimeEntry, Op: store.OpUpdate, ID: rec.ID})
	return nil
}

// Delete removes a time entry.
func (r *TimeEntryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM time_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete time entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}

	r.feed.Publish(store.ChangeEvent{Kind: store.KindTimeEntry, Op: store.OpDelete, ID: id})
	return nil
}

func scanTimeEntries(rows *sql.Rows) ([]timeentry.Record, error) {
	var recs []timeentry.Record
	for rows.Next() {
		var (
			rec       timeentry.Record
			notes     sql.NullString
			projectID sql.NullString
			startTime int64
			endTime   int64
		)
		if err := rows.Scan(&rec.ID, &rec.Title, &notes, &projectID, &startTime, &endTime); err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		rec.Notes = fromNullString(notes)
		if projectID.Valid {
			id := projectID.String
			rec.ProjectID = &id
		}
		rec.StartTime = timeFromUnix(startTime)
		rec.EndTime = timeFromUnix(endTime)
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating time entries: %w", err)
	}
	return recs, nil
}
