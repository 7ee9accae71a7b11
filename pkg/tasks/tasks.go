// Package tasks converts the platform's asynchronous, poll-based task
// handles into synchronous results the caller can branch on.
package tasks

import (
	"context"
	"errors"
	"fmt"
)

// State is the observed lifecycle state of a submitted platform task.
type State int

const (
	// StatePending covers queued and running tasks.
	StatePending State = iota
	// StateSucceeded is terminal.
	StateSucceeded
	// StateFailed is terminal; the failure reason travels in Status.Reason.
	StateFailed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transitions can occur.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Status is one observation of a task. Reason is only set for StateFailed
// and carries the platform-supplied error message verbatim.
type Status struct {
	State  State
	Reason string
}

// StateQuerier is the single capability the waiter consumes from the
// platform client: one round-trip returning the task's current state.
// An error from QueryState means the query itself failed (transport),
// not that the task failed.
type StateQuerier interface {
	QueryState(ctx context.Context) (Status, error)
}

// ErrTimeout is returned when the local wait budget is exhausted before
// the task reaches a terminal state. The platform-side operation keeps
// running; only the local wait is abandoned.
var ErrTimeout = errors.New("timed out waiting for task completion")

// OperationError reports a task that reached the failed terminal state.
type OperationError struct {
	Reason string
}

func (e *OperationError) Error() string {
	return "task failed: " + e.Reason
}
