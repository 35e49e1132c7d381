package project

import "time"

// Record is a hierarchical categorization label for time entries.
// The store forbids cycles in the parent chain.
type Record struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IsRoot reports whether the project is a top-level category.
func (r *Record) IsRoot() bool {
	return r.ParentID == nil
}
