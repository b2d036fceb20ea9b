package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrNegativeQuantity rejects a cart mutation before any state changes.
	ErrNegativeQuantity = errors.New("quantity must not be negative")
	// ErrInvalidPageSize rejects pagination with a page size below 1.
	ErrInvalidPageSize = errors.New("page size must be at least 1")
)

// FetchError means the remote spreadsheet could not be retrieved. It is fatal
// for that load; no partial catalog is produced.
type FetchError struct {
	SourceID string
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.SourceID, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.SourceID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError means the snapshot could not be read as a catalog sheet: missing
// sheet name, unreadable workbook, or an ambiguous picture anchor.
type ParseError struct {
	SourceID string
	Sheet    string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("parse %s sheet %q: %v", e.SourceID, e.Sheet, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.SourceID, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
