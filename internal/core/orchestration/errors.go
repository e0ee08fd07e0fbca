package orchestration

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

// ErrManualAbort is recorded when an interrupt is observed while waiting
// for the play to finish. It aborts not-yet-started tasks exactly like a
// task failure would.
var ErrManualAbort = errors.New("manual abort")

// TaskError is a task action failure, annotated with the container whose
// action failed. The first TaskError captured by a play becomes the
// play's result.
type TaskError struct {
	Container string
	Err       error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("%s: %v", e.Container, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}
