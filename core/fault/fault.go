// Package fault defines the error taxonomy of a pipeline run.
//
// ParseError, JoinGap and DataQualityViolation are record-level and recoverable:
// the record is dropped (or a deterministic fallback applied) and the event is
// counted by a stats.Collector. IOFailure is fatal and surfaces as *IOError.
package fault

import "fmt"

// Kind classifies a record-level or run-level failure.
type Kind string

const (
	KindParse       Kind = "parse_error"
	KindJoinGap     Kind = "join_gap"
	KindDataQuality Kind = "data_quality_violation"
	KindIOFailure   Kind = "io_failure"
)

// IOError reports a missing or unreadable input, or an unwritable output.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s", e.Op, e.Path)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError wraps err with the failing operation and path.
func NewIOError(op, path string, err error) *IOError {
	return &IOError{Op: op, Path: path, Err: err}
}
