package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// scriptedTask replays a fixed sequence of observations. Once the script
// is exhausted it keeps returning the last entry, mimicking a terminal
// platform task.
type scriptedTask struct {
	script []Status
	errAt  int // 1-based poll index that fails with transport error; 0 = never
	polls  int
}

var errTransport = errors.New("connection reset")

func (s *scriptedTask) QueryState(_ context.Context) (Status, error) {
	s.polls++
	if s.errAt != 0 && s.polls >= s.errAt {
		return Status{}, errTransport
	}
	i := s.polls - 1
	if i >= len(s.script) {
		i = len(s.script) - 1
	}
	return s.script[i], nil
}

func fastConfig() WaitConfig {
	return WaitConfig{
		PollInterval: time.Millisecond,
		MaxInterval:  2 * time.Millisecond,
	}
}

func TestWait_SucceedsAfterPending(t *testing.T) {
	task := &scriptedTask{script: []Status{
		{State: StatePending},
		{State: StatePending},
		{State: StateSucceeded},
	}}

	err := WaitWithConfig(context.Background(), task, fastConfig())
	require.NoError(t, err)
	require.Equal(t, 3, task.polls, "waiter must stop after the terminal poll")
}

func TestWait_ImmediateSuccess(t *testing.T) {
	task := &scriptedTask{script: []Status{{State: StateSucceeded}}}

	require.NoError(t, WaitWithConfig(context.Background(), task, fastConfig()))
	require.Equal(t, 1, task.polls)
}

func TestWait_FailurePreservesReason(t *testing.T) {
	task := &scriptedTask{script: []Status{
		{State: StatePending},
		{State: StateFailed, Reason: "insufficient resources"},
	}}

	err := WaitWithConfig(context.Background(), task, fastConfig())

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	require.Equal(t, "insufficient resources", opErr.Reason)
	require.Equal(t, 2, task.polls)
}

func TestWait_TransportErrorStopsPolling(t *testing.T) {
	task := &scriptedTask{
		script: []Status{{State: StatePending}},
		errAt:  2,
	}

	err := WaitWithConfig(context.Background(), task, fastConfig())
	require.ErrorIs(t, err, errTransport)
	require.Equal(t, 2, task.polls)
}

func TestWait_Timeout(t *testing.T) {
	task := &scriptedTask{script: []Status{{State: StatePending}}}

	cfg := fastConfig()
	cfg.Timeout = 20 * time.Millisecond

	err := WaitWithConfig(context.Background(), task, cfg)
	require.ErrorIs(t, err, ErrTimeout)

	// No polls may happen after the timeout is reported.
	observed := task.polls
	time.Sleep(10 * time.Millisecond)
	require.Equal(t, observed, task.polls)
}

func TestWait_ContextCancelled(t *testing.T) {
	task := &scriptedTask{script: []Status{{State: StatePending}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WaitWithConfig(ctx, task, fastConfig())
	require.ErrorIs(t, err, context.Canceled)
}

func TestWait_TerminalIsIdempotent(t *testing.T) {
	task := &scriptedTask{script: []Status{{State: StateSucceeded}}}

	require.NoError(t, Wait(context.Background(), task))
	require.NoError(t, Wait(context.Background(), task))
}

func TestWait_DefaultsAreSafe(t *testing.T) {
	// Zero-value config must still sleep between polls rather than spin.
	task := &scriptedTask{script: []Status{
		{State: StatePending},
		{State: StateSucceeded},
	}}

	start := time.Now()
	require.NoError(t, Wait(context.Background(), task))
	require.GreaterOrEqual(t, time.Since(start), DefaultConfig().PollInterval/4)
}

func TestState_Terminal(t *testing.T) {
	require.False(t, StatePending.Terminal())
	require.True(t, StateSucceeded.Terminal())
	require.True(t, StateFailed.Terminal())
}

func TestState_String(t *testing.T) {
	require.Equal(t, "pending", StatePending.String())
	require.Equal(t, "succeeded", StateSucceeded.String())
	require.Equal(t, "failed", StateFailed.String())
}

func TestOperationError_Message(t *testing.T) {
	err := &OperationError{Reason: "out of disk"}
	require.Contains(t, err.Error(), "out of disk")
}
