package voting

import "errors"

// Failure categories surfaced to callers. Wrapped errors keep the category,
// so callers branch with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrInvalidArgument = errors.New("invalid argument")
)

// errStale reports that a compare-and-swap found the row changed under it.
// The transaction is rolled back and the operation re-run.
var errStale = errors.New("vote changed concurrently")
