package pipeline

import (
	"errors"
	"fmt"
)

// ErrNoData marks a branch whose upstream query returned no rows.
var ErrNoData = errors.New("no data")

// ExportError wraps a failed write with the branch and file it was for.
type ExportError struct {
	Target Target
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s to %s: %v", e.Target, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
