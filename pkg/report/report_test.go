package report

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opsforge/vcadmin/pkg/vcenter"
	"github.com/opsforge/vcadmin/pkg/vcenter/mocks"
)

func TestGather(t *testing.T) {
	client := new(mocks.ClientInterface)
	client.On("ListVMs", "DC0").Return([]vcenter.VMInfo{
		{Name: "web-01", PowerState: "poweredOn", CPUs: 2, MemoryMB: 4096},
	}, nil)
	client.On("ListDatastores", "DC0").Return([]vcenter.DatastoreInfo{
		{Name: "LocalDS_0", CapacityGB: 100, FreeSpaceGB: 60, UsedGB: 40, Accessible: true},
	}, nil)
	client.On("ListHosts", "DC0").Return([]vcenter.HostInfo{
		{Name: "esx-01", ConnectionState: "connected", OverallStatus: "green"},
	}, nil)
	client.On("RecentVMPowerEvents", 20).Return([]vcenter.VMEvent{
		{Time: time.Now(), VM: "web-01", User: "admin", Kind: "PoweredOn"},
	}, nil)

	inv, err := Gather(client, "DC0", 20)
	require.NoError(t, err)
	require.Len(t, inv.VMs, 1)
	require.Len(t, inv.Datastores, 1)
	require.Len(t, inv.Hosts, 1)
	require.Len(t, inv.Events, 1)
	client.AssertExpectations(t)
}

func TestGather_PropagatesFailure(t *testing.T) {
	queryErr := errors.New("permission denied")

	client := new(mocks.ClientInterface)
	client.On("ListVMs", "DC0").Return([]vcenter.VMInfo{}, nil)
	client.On("ListDatastores", "DC0").Return([]vcenter.DatastoreInfo{}, nil)
	client.On("ListHosts", "DC0").Return(nil, queryErr)
	client.On("RecentVMPowerEvents", 0).Return([]vcenter.VMEvent{}, nil)

	_, err := Gather(client, "DC0", 0)
	require.ErrorIs(t, err, queryErr)
}
