package mcp

import (
	"errors"
	"fmt"

	"github.com/0xkamalei/timetrace/internal/engine"
	"github.com/0xkamalei/timetrace/internal/query"
	"github.com/0xkamalei/timetrace/internal/store"
)

// APIError is the structured error shape returned to MCP clients.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// mapError maps domain errors to stable MCP error codes. Unrecognized
// errors pass through untouched.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, query.ErrEmptyQuery):
		return &APIError{Code: "EMPTY_QUERY", Message: "query is empty", RecoveryHint: "Provide at least one search term"}
	case errors.Is(err, query.ErrUnmatchedQuote):
		return &APIError{Code: "UNMATCHED_QUOTE", Message: "query has an unmatched quote", RecoveryHint: "Close the quoted phrase"}
	case errors.Is(err, engine.ErrNoSuchSearch):
		return &APIError{Code: "SAVED_SEARCH_NOT_FOUND", Message: "no saved search with that name", RecoveryHint: "Call list_saved_searches to see what exists"}
	case errors.Is(err, store.ErrNotFound):
		return &APIError{Code: "NOT_FOUND", Message: "record not found", RecoveryHint: "Check the id"}
	default:
		return err
	}
}
