package tasks

import (
	"context"
	"fmt"

	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

// VimTask adapts a govmomi task to StateQuerier. Each QueryState call
// retrieves the task's info property from vCenter.
type VimTask struct {
	task *object.Task
}

// NewVimTask wraps a submitted vSphere task for polling.
func NewVimTask(t *object.Task) *VimTask {
	return &VimTask{task: t}
}

// Info returns the task's full TaskInfo, used to extract the result of a
// succeeded task (e.g. the managed object reference of a created VM).
func (v *VimTask) Info(ctx context.Context) (*types.TaskInfo, error) {
	var mt mo.Task
	if err := v.task.Properties(ctx, v.task.Reference(), []string{"info"}, &mt); err != nil {
		return nil, fmt.Errorf("failed to retrieve task info: %w", err)
	}
	return &mt.Info, nil
}

// QueryState performs one round-trip to read the task's current state.
func (v *VimTask) QueryState(ctx context.Context) (Status, error) {
	var mt mo.Task
	if err := v.task.Properties(ctx, v.task.Reference(), []string{"info"}, &mt); err != nil {
		return Status{}, fmt.Errorf("failed to retrieve task info: %w", err)
	}

	switch mt.Info.State {
	case types.TaskInfoStateSuccess:
		return Status{State: StateSucceeded}, nil
	case types.TaskInfoStateError:
		reason := "unknown platform error"
		if mt.Info.Error != nil && mt.Info.Error.LocalizedMessage != "" {
			reason = mt.Info.Error.LocalizedMessage
		}
		return Status{State: StateFailed, Reason: reason}, nil
	default:
		// queued or running
		return Status{State: StatePending}, nil
	}
}
