// Package vm provides virtual machine lifecycle operations: create, delete,
// reconfigure and power control. Every mutating call submits a platform
// task and settles it through the tasks waiter.
package vm

import (
	"context"
	"errors"
	"fmt"

	"github.com/opsforge/vcadmin/configs"
	"github.com/opsforge/vcadmin/pkg/tasks"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/vim25/types"
)

// ErrNotFound reports that the named VM does not exist. It is distinct
// from an operation failure so callers can branch on it.
var ErrNotFound = errors.New("virtual machine not found")

// ErrNotRunning reports a power operation that requires a running VM.
var ErrNotRunning = errors.New("virtual machine is not powered on")

// Manager handles VM lifecycle operations.
type Manager struct {
	ctx     context.Context
	waitCfg tasks.WaitConfig
}

// NewManager creates a VM manager with the default task wait budget.
func NewManager(ctx context.Context) *Manager {
	return NewManagerWithConfig(ctx, tasks.DefaultConfig())
}

// NewManagerWithConfig creates a VM manager with a custom polling schedule.
func NewManagerWithConfig(ctx context.Context, cfg tasks.WaitConfig) *Manager {
	return &Manager{ctx: ctx, waitCfg: cfg}
}

// Config holds VM hardware configuration.
type Config struct {
	Name      string // VM name
	CPUs      int32  // Number of CPUs
	MemoryMB  int64  // Memory in MB
	GuestOS   string // Guest OS identifier (e.g., "otherGuest")
	Datastore string // Datastore name for VM files
}

// CreateSpec builds a VirtualMachineConfigSpec from the given configuration.
// Unset hardware fields fall back to configs/defaults.yaml.
func (m *Manager) CreateSpec(cfg *Config) *types.VirtualMachineConfigSpec {
	d := configs.Defaults.VM

	cpus := cfg.CPUs
	if cpus == 0 {
		cpus = d.CPUs
	}
	memory := cfg.MemoryMB
	if memory == 0 {
		memory = d.MemoryMB
	}
	guestOS := cfg.GuestOS
	if guestOS == "" {
		guestOS = d.GuestOS
	}

	return &types.VirtualMachineConfigSpec{
		Name:     cfg.Name,
		NumCPUs:  cpus,
		MemoryMB: memory,
		GuestId:  guestOS,
		Files: &types.VirtualMachineFileInfo{
			VmPathName: fmt.Sprintf("[%s]", cfg.Datastore),
		},
	}
}

// wait settles a submitted task with the manager's polling schedule.
func (m *Manager) wait(task *object.Task) error {
	return tasks.WaitWithConfig(m.ctx, tasks.NewVimTask(task), m.waitCfg)
}

// Create creates a VM in vCenter with the given specification.
func (m *Manager) Create(
	folder *object.Folder,
	resourcePool *object.ResourcePool,
	spec *types.VirtualMachineConfigSpec,
) (*object.VirtualMachine, error) {
	task, err := folder.CreateVM(m.ctx, *spec, resourcePool, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to submit VM creation: %w", err)
	}

	vt := tasks.NewVimTask(task)
	if err := tasks.WaitWithConfig(m.ctx, vt, m.waitCfg); err != nil {
		return nil, fmt.Errorf("VM creation failed: %w", err)
	}

	info, err := vt.Info(m.ctx)
	if err != nil {
		return nil, err
	}
	ref, ok := info.Result.(types.ManagedObjectReference)
	if !ok {
		return nil, fmt.Errorf("unexpected creation task result %T", info.Result)
	}
	return object.NewVirtualMachine(folder.Client(), ref), nil
}

// Reconfigure applies a configuration change to an existing VM.
func (m *Manager) Reconfigure(vm *object.VirtualMachine, spec types.VirtualMachineConfigSpec) error {
	task, err := vm.Reconfigure(m.ctx, spec)
	if err != nil {
		return fmt.Errorf("failed to submit VM reconfigure: %w", err)
	}
	if err := m.wait(task); err != nil {
		return fmt.Errorf("VM reconfigure failed: %w", err)
	}
	return nil
}

// PowerOn powers on the VM. Returns false without error if the VM is
// already powered on.
func (m *Manager) PowerOn(vm *object.VirtualMachine) (bool, error) {
	state, err := vm.PowerState(m.ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get power state: %w", err)
	}
	if state == types.VirtualMachinePowerStatePoweredOn {
		return false, nil
	}

	task, err := vm.PowerOn(m.ctx)
	if err != nil {
		return false, fmt.Errorf("failed to submit power on: %w", err)
	}
	if err := m.wait(task); err != nil {
		return false, fmt.Errorf("power on failed: %w", err)
	}
	return true, nil
}

// PowerOff powers off the VM. Returns false without error if the VM is
// already powered off.
func (m *Manager) PowerOff(vm *object.VirtualMachine) (bool, error) {
	state, err := vm.PowerState(m.ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get power state: %w", err)
	}
	if state == types.VirtualMachinePowerStatePoweredOff {
		return false, nil
	}

	task, err := vm.PowerOff(m.ctx)
	if err != nil {
		return false, fmt.Errorf("failed to submit power off: %w", err)
	}
	if err := m.wait(task); err != nil {
		return false, fmt.Errorf("power off failed: %w", err)
	}
	return true, nil
}

// Reboot resets a running VM. Returns ErrNotRunning if the VM is not
// powered on.
func (m *Manager) Reboot(vm *object.VirtualMachine) error {
	state, err := vm.PowerState(m.ctx)
	if err != nil {
		return fmt.Errorf("failed to get power state: %w", err)
	}
	if state != types.VirtualMachinePowerStatePoweredOn {
		return ErrNotRunning
	}

	task, err := vm.Reset(m.ctx)
	if err != nil {
		return fmt.Errorf("failed to submit reset: %w", err)
	}
	if err := m.wait(task); err != nil {
		return fmt.Errorf("reboot failed: %w", err)
	}
	return nil
}

// Delete removes the VM from vCenter, powering it off first if needed.
func (m *Manager) Delete(vm *object.VirtualMachine) error {
	if _, err := m.PowerOff(vm); err != nil {
		return fmt.Errorf("failed to power off before delete: %w", err)
	}

	task, err := vm.Destroy(m.ctx)
	if err != nil {
		return fmt.Errorf("failed to submit VM deletion: %w", err)
	}
	if err := m.wait(task); err != nil {
		return fmt.Errorf("VM deletion failed: %w", err)
	}
	return nil
}
