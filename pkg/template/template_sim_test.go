package template

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/find"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/simulator"

	"github.com/opsforge/vcadmin/pkg/vm"
)

type simEnv struct {
	ctx    context.Context
	client *govmomi.Client
	finder *find.Finder
	folder *object.Folder
	pool   *object.ResourcePool
	ds     *object.Datastore
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

	pools, err := f.ResourcePoolList(ctx, "*")
	require.NoError(t, err)
	require.NotEmpty(t, pools)

	ds, err := f.DefaultDatastore(ctx)
	require.NoError(t, err)

	cleanup := func() {
		s.Close()
		model.Remove()
	}

	return &simEnv{ctx: ctx, client: c, finder: f, folder: folder, pool: pools[0], ds: ds}, cleanup
}

func createTestVM(t *testing.T, env *simEnv, name string) *object.VirtualMachine {
	t.Helper()

	manager := vm.NewManager(env.ctx)
	spec := manager.CreateSpec(&vm.Config{
		Name:      name,
		Datastore: env.ds.Name(),
	})

	vmObj, err := manager.Create(env.folder, env.pool, spec)
	require.NoError(t, err)
	return vmObj
}

func TestMarkAsTemplate(t *testing.T) {
	env, cleanup := newSimEnv(t)
	defer cleanup()

	vmObj := createTestVM(t, env, "tmpl-base")
	manager := NewManager(env.ctx)

	isTemplate, err := manager.IsTemplate(vmObj)
	require.NoError(t, err)
	require.False(t, isTemplate)

	require.NoError(t, manager.MarkAsTemplate(vmObj))

	isTemplate, err = manager.IsTemplate(vmObj)
	require.NoError(t, err)
	require.True(t, isTemplate)
}

func TestClone_FromTemplate(t *testing.T) {
	env, cleanup := newSimEnv(t)
	defer cleanup()

	vmObj := createTestVM(t, env, "tmpl-golden")
	manager := NewManager(env.ctx)
	require.NoError(t, manager.MarkAsTemplate(vmObj))

	clone, err := manager.Clone(vmObj, env.folder, "tmpl-clone", Placement{
		Datastore:    env.ds,
		ResourcePool: env.pool,
	})
	require.NoError(t, err)
	require.NotNil(t, clone)

	found, err := env.finder.VirtualMachine(env.ctx, "tmpl-clone")
	require.NoError(t, err)
	require.NotNil(t, found)
}

func TestClone_RejectsNonTemplate(t *testing.T) {
	env, cleanup := newSimEnv(t)
	defer cleanup()

	vmObj := createTestVM(t, env, "tmpl-plain-vm")
	manager := NewManager(env.ctx)

	_, err := manager.Clone(vmObj, env.folder, "should-not-exist", Placement{
		ResourcePool: env.pool,
	})
	require.ErrorIs(t, err, ErrNotTemplate)
}

func TestClone_RequiresResourcePool(t *testing.T) {
	env, cleanup := newSimEnv(t)
	defer cleanup()

	vmObj := createTestVM(t, env, "tmpl-no-pool")
	manager := NewManager(env.ctx)
	require.NoError(t, manager.MarkAsTemplate(vmObj))

	_, err := manager.Clone(vmObj, env.folder, "no-pool-clone", Placement{})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotTemplate)
}
