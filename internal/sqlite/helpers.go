package sqlite

import (
	"database/sql"
	"strings"
	"time"
)

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func fromNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func nullUnix(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func timeFromUnix(sec int64) time.Time {
	return time.Unix(sec, 0)
}

func fromNullUnix(ni sql.NullInt64) *time.Time {
	if !ni.Valid {
		return nil
	}
	t := time.Unix(ni.Int64, 0)
	return &t
}

// likePattern wraps a term for case-insensitive substring matching.
func likePattern(term string) string {
	return "%" + strings.ToLower(term) + "%"
}

// placeholders returns n comma-joined "?" markers.
func placeholders(n int) string {
	marks := make([]string, n)
	for i := range marks {
		marks[i] = "?"
	}
	return strings.Join(marks, ",")
}
