package model

import "fmt"

// ParseError reports a milestone title (or schedule key) that does not
// follow the YY.MM[.point] format. It is fatal to the single milestone
// being parsed; callers decide whether to skip or abort.
type ParseError struct {
	Title string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse milestone title %q: %v", e.Title, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InvalidStateError reports an operation attempted on a milestone that is
// missing required fields, such as formatting a title with no year/month
// set or editing a milestone with no remote handle bound. It indicates a
// programming or configuration error and is always fatal.
type InvalidStateError struct {
	Op     string
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}
