package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/opsforge/vcadmin/configs"
)

// WaitConfig controls the polling schedule.
type WaitConfig struct {
	// PollInterval is the initial delay between state queries.
	PollInterval time.Duration
	// MaxInterval caps the backed-off delay between queries.
	MaxInterval time.Duration
	// Timeout bounds the total wait; 0 means wait until the task settles
	// or the context is cancelled.
	Timeout time.Duration
}

// DefaultConfig returns the polling schedule from configs/defaults.yaml,
// including the default wait budget.
func DefaultConfig() WaitConfig {
	d := configs.Defaults.Tasks
	return WaitConfig{
		PollInterval: d.PollInterval(),
		MaxInterval:  d.MaxInterval(),
		Timeout:      d.WaitTimeout(),
	}
}

// Wait blocks until task reaches a terminal state, with no wait budget.
// Equivalent to WaitWithConfig with a zero Timeout.
func Wait(ctx context.Context, task StateQuerier) error {
	return WaitWithConfig(ctx, task, WaitConfig{})
}

// WaitWithConfig polls task until it observes a terminal state, sleeping
// with exponential backoff between queries.
//
// It returns:
//   - nil once the task succeeds,
//   - *OperationError with the platform-supplied reason if the task fails,
//   - the query error (wrapped) if a poll itself fails; no further polls
//     are attempted,
//   - ErrTimeout if cfg.Timeout elapses before a terminal state,
//   - ctx.Err() if the context is cancelled while sleeping.
func WaitWithConfig(ctx context.Context, task StateQuerier, cfg WaitConfig) error {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = configs.Defaults.Tasks.PollInterval()
	}
	if cfg.MaxInterval < cfg.PollInterval {
		cfg.MaxInterval = cfg.PollInterval
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.PollInterval
	b.MaxInterval = cfg.MaxInterval
	b.MaxElapsedTime = cfg.Timeout // 0 = unbounded
	b.Reset()

	for {
		status, err := task.QueryState(ctx)
		if err != nil {
			return fmt.Errorf("task state query failed: %w", err)
		}

		switch status.State {
		case StateSucceeded:
			return nil
		case StateFailed:
			return &OperationError{Reason: status.Reason}
		}

		next := b.NextBackOff()
		if next == backoff.Stop {
			return ErrTimeout
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(next):
		}
	}
}
