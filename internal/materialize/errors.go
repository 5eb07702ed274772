package materialize

import (
	"errors"
	"fmt"
)

var (
	errNotDir       = errors.New("not a directory")
	errParentNotDir = errors.New("parent is not a directory")
)

// StepError reports the step at which a materialization stopped. Steps
// before it completed and were left in place.
type StepError struct {
	Step  int // 1-based
	Total int
	Op    Op
	Path  string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("stopped at step %d of %d: %v", e.Step, e.Total, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
