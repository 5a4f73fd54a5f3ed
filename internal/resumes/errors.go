package resumes

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced resume or stored object does not exist.
var ErrNotFound = errors.New("not found")

// StageError tags a pipeline failure with the stage that failed. The stage
// determines the HTTP status: received maps to a client error, everything
// later to a server error.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline failed at %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func failedAt(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}
