// Package template provides VM templating: converting a VM into a
// template and deploying new VMs from one.
package template

import (
	"context"
	"errors"
	"fmt"

	"github.com/opsforge/vcadmin/pkg/tasks"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

// ErrNotTemplate reports a clone attempt from a VM that has not been
// marked as a template.
var ErrNotTemplate = errors.New("source VM is not a template")

// Manager handles template operations.
type Manager struct {
	ctx     context.Context
	waitCfg tasks.WaitConfig
}

// NewManager creates a template manager with the default task wait budget.
func NewManager(ctx context.Context) *Manager {
	return NewManagerWithConfig(ctx, tasks.DefaultConfig())
}

// NewManagerWithConfig creates a template manager with a custom polling schedule.
func NewManagerWithConfig(ctx context.Context, cfg tasks.WaitConfig) *Manager {
	return &Manager{ctx: ctx, waitCfg: cfg}
}

// MarkAsTemplate converts a powered-off VM into a template.
func (m *Manager) MarkAsTemplate(vm *object.VirtualMachine) error {
	if err := vm.MarkAsTemplate(m.ctx); err != nil {
		return fmt.Errorf("failed to mark VM as template: %w", err)
	}
	return nil
}

// IsTemplate reports whether the VM is marked as a template.
func (m *Manager) IsTemplate(vm *object.VirtualMachine) (bool, error) {
	var moVM mo.VirtualMachine
	if err := vm.Properties(m.ctx, vm.Reference(), []string{"config.template"}, &moVM); err != nil {
		return false, fmt.Errorf("failed to read VM config: %w", err)
	}
	return moVM.Config != nil && moVM.Config.Template, nil
}

// Placement selects where a template clone lands. ResourcePool is
// required: templates carry no resource pool of their own.
type Placement struct {
	Datastore    *object.Datastore
	ResourcePool *object.ResourcePool
	PowerOn      bool
}

// Clone deploys a new VM from a template into folder under name.
func (m *Manager) Clone(tmpl *object.VirtualMachine, folder *object.Folder, name string, placement Placement) (*object.VirtualMachine, error) {
	isTemplate, err := m.IsTemplate(tmpl)
	if err != nil {
		return nil, err
	}
	if !isTemplate {
		return nil, fmt.Errorf("%q: %w", tmpl.Name(), ErrNotTemplate)
	}
	if placement.ResourcePool == nil {
		return nil, errors.New("resource pool is required when cloning from a template")
	}

	relocate := types.VirtualMachineRelocateSpec{}
	poolRef := placement.ResourcePool.Reference()
	relocate.Pool = &poolRef
	if placement.Datastore != nil {
		dsRef := placement.Datastore.Reference()
		relocate.Datastore = &dsRef
	}

	spec := types.VirtualMachineCloneSpec{
		Location: relocate,
		PowerOn:  placement.PowerOn,
	}

	task, err := tmpl.Clone(m.ctx, folder, name, spec)
	if err != nil {
		return nil, fmt.Errorf("failed to submit template clone: %w", err)
	}

	vt := tasks.NewVimTask(task)
	if err := tasks.WaitWithConfig(m.ctx, vt, m.waitCfg); err != nil {
		return nil, fmt.Errorf("clone %q from template %q failed: %w", name, tmpl.Name(), err)
	}

	info, err := vt.Info(m.ctx)
	if err != nil {
		return nil, err
	}
	ref, ok := info.Result.(types.ManagedObjectReference)
	if !ok {
		return nil, fmt.Errorf("unexpected clone task result %T", info.Result)
	}
	return object.NewVirtualMachine(tmpl.Client(), ref), nil
}
