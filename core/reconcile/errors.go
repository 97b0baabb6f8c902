package reconcile

import (
	"errors"
	"fmt"
)

// ErrNotConfirmed is returned by destructive operations invoked without confirmation.
var ErrNotConfirmed = errors.New("operation requires confirmation")

// ErrMatchNotFound is returned by an enrichment step that could not identify
// the counterpart record. The runner reports it as a failure, not an abort.
var ErrMatchNotFound = errors.New("no matching record found")

// FetchError reports an upstream failure while paging a category.
// Nothing is written when a sync fails with a FetchError.
type FetchError struct {
	Category string
	Page     int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s page %d: %v", e.Category, e.Page, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
