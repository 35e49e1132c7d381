package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the record tables. Timestamps are stored as unix
// seconds so duration predicates stay plain integer arithmetic.
func (db *DB) RunMigrations() error {
	migration := `
-- Projects: hierarchical categorization labels
CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    parent_id TEXT,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (parent_id) REFERENCES projects(id)
);
CREATE INDEX IF NOT EXISTS idx_projects_parent ON projects(parent_id);

-- Activities: automatically captured app usage
CREATE TABLE IF NOT EXISTS activities (
    id TEXT PRIMARY KEY,
    app_name TEXT NOT NULL,
    window_title TEXT,
    url TEXT,
    document_path TEXT,
    start_time INTEGER NOT NULL,
    end_time INTEGER,
    is_idle INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_activities_start ON activities(start_time);
CREATE INDEX IF NOT EXISTS idx_activities_app ON activities(app_name);

-- Time entries: manually recorded work sessions
CREATE TABLE IF NOT EXISTS time_entries (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    notes TEXT,
    project_id TEXT,
    start_time INTEGER NOT NULL,
    end_time INTEGER NOT NULL CHECK (end_time > start_time),
    FOREIGN KEY (project_id) REFERENCES projects(id)
);
CREATE INDEX IF NOT EXISTS idx_entries_start ON time_entries(start_time);
CREATE INDEX IF NOT EXISTS idx_entries_project ON time_entries(project_id);
`

	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
