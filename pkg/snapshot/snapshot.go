// Package snapshot provides VM snapshot operations: take, revert, clone
// from the current snapshot, and configuration comparison.
package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/opsforge/vcadmin/pkg/tasks"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/property"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

// ErrNoSnapshot reports that the VM has no snapshots at all.
var ErrNoSnapshot = errors.New("virtual machine has no snapshots")

// ErrSnapshotNotFound reports that the named snapshot does not exist.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Manager handles snapshot operations.
type Manager struct {
	ctx     context.Context
	waitCfg tasks.WaitConfig
}

// NewManager creates a snapshot manager with the default task wait budget.
func NewManager(ctx context.Context) *Manager {
	return NewManagerWithConfig(ctx, tasks.DefaultConfig())
}

// NewManagerWithConfig creates a snapshot manager with a custom polling schedule.
func NewManagerWithConfig(ctx context.Context, cfg tasks.WaitConfig) *Manager {
	return &Manager{ctx: ctx, waitCfg: cfg}
}

func (m *Manager) wait(task *object.Task) error {
	return tasks.WaitWithConfig(m.ctx, tasks.NewVimTask(task), m.waitCfg)
}

// Take creates a snapshot of the VM without memory or quiesce, returning
// the snapshot name. An empty name gets a generated unique one.
func (m *Manager) Take(vm *object.VirtualMachine, name, description string) (string, error) {
	if name == "" {
		name = "snap-" + uuid.New().String()[:8]
	}

	task, err := vm.CreateSnapshot(m.ctx, name, description, false, false)
	if err != nil {
		return "", fmt.Errorf("failed to submit snapshot creation: %w", err)
	}
	if err := m.wait(task); err != nil {
		return "", fmt.Errorf("snapshot %q creation failed: %w", name, err)
	}
	return name, nil
}

// Revert reverts the VM to the named snapshot.
func (m *Manager) Revert(vm *object.VirtualMachine, name string) error {
	if _, err := m.findSnapshot(vm, name); err != nil {
		return err
	}

	task, err := vm.RevertToSnapshot(m.ctx, name, true)
	if err != nil {
		return fmt.Errorf("failed to submit snapshot revert: %w", err)
	}
	if err := m.wait(task); err != nil {
		return fmt.Errorf("revert to snapshot %q failed: %w", name, err)
	}
	return nil
}

// CloneFromCurrent clones the VM from its current snapshot into folder
// under cloneName. The clone is left powered off. An empty cloneName gets
// a generated unique one derived from the source VM name.
func (m *Manager) CloneFromCurrent(vm *object.VirtualMachine, folder *object.Folder, cloneName string) (*object.VirtualMachine, error) {
	var moVM mo.VirtualMachine
	if err := vm.Properties(m.ctx, vm.Reference(), []string{"snapshot", "name"}, &moVM); err != nil {
		return nil, fmt.Errorf("failed to read VM snapshot state: %w", err)
	}
	if moVM.Snapshot == nil || moVM.Snapshot.CurrentSnapshot == nil {
		return nil, fmt.Errorf("VM %q: %w", moVM.Name, ErrNoSnapshot)
	}

	if cloneName == "" {
		cloneName = moVM.Name + "-clone-" + uuid.New().String()[:8]
	}

	spec := types.VirtualMachineCloneSpec{
		Location: types.VirtualMachineRelocateSpec{},
		PowerOn:  false,
		Template: false,
		Snapshot: moVM.Snapshot.CurrentSnapshot,
	}

	task, err := vm.Clone(m.ctx, folder, cloneName, spec)
	if err != nil {
		return nil, fmt.Errorf("failed to submit clone: %w", err)
	}

	vt := tasks.NewVimTask(task)
	if err := tasks.WaitWithConfig(m.ctx, vt, m.waitCfg); err != nil {
		return nil, fmt.Errorf("clone %q failed: %w", cloneName, err)
	}

	info, err := vt.Info(m.ctx)
	if err != nil {
		return nil, err
	}
	ref, ok := info.Result.(types.ManagedObjectReference)
	if !ok {
		return nil, fmt.Errorf("unexpected clone task result %T", info.Result)
	}
	return object.NewVirtualMachine(vm.Client(), ref), nil
}

// ConfigDiff compares a VM's current hardware configuration against a
// snapshot's recorded one.
type ConfigDiff struct {
	Snapshot         string
	CurrentCPUs      int32
	SnapshotCPUs     int32
	CurrentMemoryMB  int32
	SnapshotMemoryMB int32
}

// Equal reports whether the compared hardware values match.
func (d *ConfigDiff) Equal() bool {
	return d.CurrentCPUs == d.SnapshotCPUs && d.CurrentMemoryMB == d.SnapshotMemoryMB
}

// Compare returns the CPU and memory differences between the VM's current
// configuration and the named snapshot's recorded configuration.
func (m *Manager) Compare(vm *object.VirtualMachine, name string) (*ConfigDiff, error) {
	ref, err := m.findSnapshot(vm, name)
	if err != nil {
		return nil, err
	}

	var moSnap mo.VirtualMachineSnapshot
	pc := property.DefaultCollector(vm.Client())
	if err := pc.RetrieveOne(m.ctx, *ref, []string{"config"}, &moSnap); err != nil {
		return nil, fmt.Errorf("failed to read snapshot config: %w", err)
	}

	var moVM mo.VirtualMachine
	if err := vm.Properties(m.ctx, vm.Reference(), []string{"config"}, &moVM); err != nil {
		return nil, fmt.Errorf("failed to read VM config: %w", err)
	}
	if moVM.Config == nil {
		return nil, errors.New("VM has no configuration info")
	}

	return &ConfigDiff{
		Snapshot:         name,
		CurrentCPUs:      moVM.Config.Hardware.NumCPU,
		SnapshotCPUs:     moSnap.Config.Hardware.NumCPU,
		CurrentMemoryMB:  moVM.Config.Hardware.MemoryMB,
		SnapshotMemoryMB: moSnap.Config.Hardware.MemoryMB,
	}, nil
}

// findSnapshot walks the VM's snapshot tree for the named snapshot.
// Returns ErrNoSnapshot when the tree is empty and ErrSnapshotNotFound
// when the name is absent.
func (m *Manager) findSnapshot(vm *object.VirtualMachine, name string) (*types.ManagedObjectReference, error) {
	var moVM mo.VirtualMachine
	if err := vm.Properties(m.ctx, vm.Reference(), []string{"snapshot", "name"}, &moVM); err != nil {
		return nil, fmt.Errorf("failed to read VM snapshot state: %w", err)
	}
	if moVM.Snapshot == nil || len(moVM.Snapshot.RootSnapshotList) == 0 {
		return nil, fmt.Errorf("VM %q: %w", moVM.Name, ErrNoSnapshot)
	}

	if ref := findInTree(moVM.Snapshot.RootSnapshotList, name); ref != nil {
		return ref, nil
	}
	return nil, fmt.Errorf("snapshot %q on VM %q: %w", name, moVM.Name, ErrSnapshotNotFound)
}

func findInTree(trees []types.VirtualMachineSnapshotTree, name string) *types.ManagedObjectReference {
	for i := range trees {
		if trees[i].Name == name {
			ref := trees[i].Snapshot
			return &ref
		}
		if ref := findInTree(trees[i].ChildSnapshotList, name); ref != nil {
			return ref
		}
	}
	return nil
}
