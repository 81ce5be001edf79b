package tracking

import (
	"errors"
	"fmt"
)

// ErrMalformedReport matches every error caused by a report that cannot be
// read for a component. Such errors are fatal for the analysis.
var ErrMalformedReport = errors.New("malformed analysis report")

// ReportError describes a report read or decode failure for one component.
type ReportError struct {
	Ref int
	Op  string
	Err error
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("component #%d: %s: %v", e.Ref, e.Op, e.Err)
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

// Is makes every ReportError match ErrMalformedReport.
func (e *ReportError) Is(target error) bool {
	return target == ErrMalformedReport
}

func newReportError(ref int, op string, err error) error {
	return &ReportError{Ref: ref, Op: op, Err: err}
}
