package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/find"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/simulator"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/opsforge/vcadmin/pkg/vm"
)

type simEnv struct {
	ctx    context.Context
	client *govmomi.Client
	finder *find.Finder
	folder *object.Folder
}

func newSimEnv(t *testing.T) (*simEnv, func()) {
	t.Helper()

	model := simulator.VPX()
	model.Datacenter = 1
	model.Cluster = 1
	model.Host = 1
	model.Pool = 1
	model.Machine = 0
	model.Datastore = 1

	require.NoError(t, model.Create())
	s := model.Service.NewServer()

	ctx := context.Background()
	u := s.URL
	u.User = simulator.DefaultLogin

	c, err := govmomi.NewClient(ctx, u, true)
	require.NoError(t, err)

	f := find.NewFinder(c.Client, true)
	dc, err := f.DefaultDatacenter(ctx)
	require.NoError(t, err)
	f.SetDatacenter(dc)

	folder, err := f.DefaultFolder(ctx)
	require.NoError(t, err)

	cleanup := func() {
		s.Close()
		model.Remove()
	}

	return &simEnv{ctx: ctx, client: c, finder: f, folder: folder}, cleanup
}

func createTestVM(t *testing.T, env *simEnv, name string) *object.VirtualMachine {
	t.Helper()

	pools, err := env.finder.ResourcePoolList(env.ctx, "*")
	require.NoError(t, err)
	require.NotEmpty(t, pools)

	ds, err := env.finder.DefaultDatastore(env.ctx)
	require.NoError(t, err)

	manager := vm.NewManager(env.ctx)
	spec := manager.CreateSpec(&vm.Config{
		Name:      name,
		CPUs:      1,
		MemoryMB:  256,
		Datastore: ds.Name(),
	})

	vmObj, err := manager.Create(env.folder, pools[0], spec)
	require.NoError(t, err)
	return vmObj
}

func TestTakeAndRevert(t *testing.T) {
	env, cleanup := newSimEnv(t)
	defer cleanup()

	vmObj := createTestVM(t, env, "snap-vm")
	manager := NewManager(env.ctx)

	name, err := manager.Take(vmObj, "baseline", "before changes")
	require.NoError(t, err)
	require.Equal(t, "baseline", name)

	require.NoError(t, manager.Revert(vmObj, "baseline"))
}

func TestTake_GeneratedName(t *testing.T) {
	env, cleanup := newSimEnv(t)
	defer cleanup()

	vmObj := createTestVM(t, env, "snap-noname")
	manager := NewManager(env.ctx)

	name, err := manager.Take(vmObj, "", "")
	require.NoError(t, err)
	require.NotEmpty(t, name)
	require.Contains(t, name, "snap-")
}

func TestRevert_MissingSnapshot(t *testing.T) {
	env, cleanup := newSimEnv(t)
	defer cleanup()

	vmObj := createTestVM(t, env, "snap-missing")
	manager := NewManager(env.ctx)

	// No snapshots at all.
	err := manager.Revert(vmObj, "nope")
	require.ErrorIs(t, err, ErrNoSnapshot)

	// Snapshots exist, but not the requested one.
	_, err = manager.Take(vmObj, "baseline", "")
	require.NoError(t, err)
	err = manager.Revert(vmObj, "nope")
	require.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestCompare_DetectsDrift(t *testing.T) {
	env, cleanup := newSimEnv(t)
	defer cleanup()

	vmObj := createTestVM(t, env, "snap-compare")
	vmManager := vm.NewManager(env.ctx)
	manager := NewManager(env.ctx)

	_, err := manager.Take(vmObj, "before", "")
	require.NoError(t, err)

	require.NoError(t, vmManager.Reconfigure(vmObj, types.VirtualMachineConfigSpec{
		MemoryMB: 512,
	}))

	diff, err := manager.Compare(vmObj, "before")
	require.NoError(t, err)
	require.Equal(t, int32(512), diff.CurrentMemoryMB)
	require.Equal(t, int32(256), diff.SnapshotMemoryMB)
	require.False(t, diff.Equal())
}

func TestCloneFromCurrent(t *testing.T) {
	env, cleanup := newSimEnv(t)
	defer cleanup()

	vmObj := createTestVM(t, env, "snap-clone-src")
	manager := NewManager(env.ctx)

	// Cloning without a snapshot is refused.
	_, err := manager.CloneFromCurrent(vmObj, env.folder, "snap-clone-dst")
	require.ErrorIs(t, err, ErrNoSnapshot)

	_, err = manager.Take(vmObj, "golden", "")
	require.NoError(t, err)

	clone, err := manager.CloneFromCurrent(vmObj, env.folder, "snap-clone-dst")
	require.NoError(t, err)
	require.NotNil(t, clone)

	found, err := env.finder.VirtualMachine(env.ctx, "snap-clone-dst")
	require.NoError(t, err)
	require.NotNil(t, found)

	state, err := clone.PowerState(env.ctx)
	require.NoError(t, err)
	require.Equal(t, types.VirtualMachinePowerStatePoweredOff, state)
}

func TestFindInTree_Nested(t *testing.T) {
	leaf := types.ManagedObjectReference{Type: "VirtualMachineSnapshot", Value: "snap-2"}
	trees := []types.VirtualMachineSnapshotTree{
		{
			Name:     "root",
			Snapshot: types.ManagedObjectReference{Type: "VirtualMachineSnapshot", Value: "snap-1"},
			ChildSnapshotList: []types.VirtualMachineSnapshotTree{
				{Name: "child", Snapshot: leaf},
			},
		},
	}

	ref := findInTree(trees, "child")
	require.NotNil(t, ref)
	require.Equal(t, leaf, *ref)

	require.Nil(t, findInTree(trees, "absent"))
}
