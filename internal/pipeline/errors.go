package pipeline

import (
	"context"
	"errors"
	"fmt"
)

// ErrCancelled is returned, wrapped around the context's or the host's own
// error (match it with errors.Is), when cancellation is observed at a stage
// boundary. It is never wrapped in a StageError, and no partial WorldData is
// ever returned alongside it.
var ErrCancelled = errors.New("pipeline: generation cancelled")

// StageError wraps a failure from a single stage with the stage's id and
// the underlying cause, per the error taxonomy's StageFailure kind.
type StageError struct {
	Stage StageID
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline: stage %q failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func wrapStageError(stage StageID, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// isCancellation reports whether err originates from host cancellation,
// covering both ErrCancelled and a context's own cancellation errors.
func isCancellation(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
