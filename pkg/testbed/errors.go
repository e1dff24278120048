package testbed

import (
	"errors"
	"fmt"
)

var (
	// ErrNoActiveSession is returned by Stash when a stash is already pending.
	ErrNoActiveSession = errors.New("a session is already stashed")
	// ErrNothingStashed is returned by Restore when no stash is pending.
	ErrNothingStashed = errors.New("no session is stashed")

	ErrUnexpectedStatus      = errors.New("unexpected status code")
	ErrUnexpectedContentType = errors.New("unexpected content type")
	ErrTokenNotFound         = errors.New("csrf token not found in page")
	ErrTaskExecution         = errors.New("task execution failed")
	// ErrDrainLimitExceeded is returned when tasks keep being scheduled after
	// MaxDrainIterations rounds of a drain.
	ErrDrainLimitExceeded = errors.New("task queue drain did not converge")
	ErrNotSetUp           = errors.New("test bed is not set up")
)

// TaskExecutionError reports a queued task that did not succeed. Status is
// zero for deferred tasks, whose failure is in Err.
type TaskExecutionError struct {
	Queue  string
	Name   string
	URL    string
	Status int
	Body   string
	Err    error
}

func (e *TaskExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task %s on queue %s (%s) failed: %v", e.Name, e.Queue, e.URL, e.Err)
	}
	return fmt.Sprintf("task %s on queue %s (%s) returned status %d: %s", e.Name, e.Queue, e.URL, e.Status, e.Body)
}

func (e *TaskExecutionError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrTaskExecution, e.Err}
	}
	return []error{ErrTaskExecution}
}
