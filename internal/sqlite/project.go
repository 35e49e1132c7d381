package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/0xkamalei/timetrace/internal/domain/project"
	"github.com/0xkamalei/timetrace/internal/store"
)

// ProjectRepository implements store.ProjectStore for SQLite
type ProjectRepository struct {
	db   *DB
	feed *store.Feed
}

// NewProjectRepository creates a new ProjectRepository publishing change
// events to feed.
func NewProjectRepository(db *DB, feed *store.Feed) *ProjectRepository {
	return &ProjectRepository{db: db, feed: feed}
}

const projectColumns = "id, name, parent_id, created_at"

// All returns every project, for index builds.
func (r *ProjectRepository) All(ctx context.Context) ([]project.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+projectColumns+" FROM projects ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()
	return scanProjects(rows)
}

// ByIDs fetches full records for an id set.
func (r *ProjectRepository) ByIDs(ctx context.Context, ids []string) ([]project.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE id IN ("+placeholders(len(ids))+") ORDER BY name",
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects by ids: %w", err)
	}
	defer rows.Close()
	return scanProjects(rows)
}

// Query fetches projects matching store-level predicates.
func (r *ProjectRepository) Query(ctx context.Context, q store.ProjectQuery) ([]project.Record, error) {
	sb := strings.Builder{}
	sb.WriteString("SELECT " + projectColumns + " FROM projects WHERE 1=1")
	var args []any

	for _, term := range q.TextTerms {
		sb.WriteString(" AND LOWER(name) LIKE ?")
		args = append(args, likePattern(term))
	}
	for _, term := range q.ExcludeTerms {
		sb.WriteString(" AND LOWER(name) NOT LIKE ?")
		args = append(args, likePattern(term))
	}

	sb.WriteString(" ORDER BY name")
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()
	return scanProjects(rows)
}

// Create inserts a project, generating an id if missing.
func (r *ProjectRepository) Create(ctx context.Context, rec *project.Record) error {
	if rec == nil || strings.TrimSpace(rec.Name) == "" {
		return store.ErrInvalidInput
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, parent_id, created_at)
		VALUES (?, ?, ?, ?)`,
		rec.ID,
		rec.Name,
		rec.ParentID,
		rec.CreatedAt.Unix(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	r.feed.Publish(store.ChangeEvent{Kind: store.KindProject, Op: store.OpInsert, ID: rec.ID})
	return nil
}

// Update replaces a project.
func (r *ProjectRepository) Update(ctx context.Context, rec *project.Record) error {
	if rec == nil || rec.ID == "" || strings.TrimSpace(rec.Name) == "" {
		return store.ErrInvalidInput
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE projects SET name = ?, parent_id = ? WHERE id = ?`,
		rec.Name, rec.ParentID, rec.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to update project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}

	r.feed.Publish(store.ChangeEvent{Kind: store.KindProject, Op: store.OpUpdate, ID: rec.ID})
	return nil
}

// Delete removes a project.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}

	r.feed.Publish(store.ChangeEvent{Kind: store.KindProject, Op: store.OpDelete, ID: id})
	return nil
}

func scanProjects(rows *sql.Rows) ([]project.Record, error) {
	var recs []project.Record
	for rows.Next() {
		var (
			rec       project.Record
			parentID  sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &parentID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		if parentID.Valid {
			id := parentID.String
			rec.ParentID = &id
		}
		rec.CreatedAt = timeFromUnix(createdAt)
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	return recs, nil
}
