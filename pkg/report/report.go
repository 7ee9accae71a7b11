// Package report gathers platform inventory (VMs, datastores, hosts,
// recent power events) into a single snapshot.
package report

import (
	"fmt"

	"github.com/opsforge/vcadmin/pkg/vcenter"
	"golang.org/x/sync/errgroup"
)

// Inventory is a point-in-time snapshot of the datacenter.
type Inventory struct {
	VMs        []vcenter.VMInfo
	Datastores []vcenter.DatastoreInfo
	Hosts      []vcenter.HostInfo
	Events     []vcenter.VMEvent
}

// Gather collects all inventory sections concurrently. maxEvents <= 0
// uses the configured default.
func Gather(client vcenter.ClientInterface, datacenter string, maxEvents int) (*Inventory, error) {
	var inv Inventory
	var g errgroup.Group

	g.Go(func() error {
		vms, err := client.ListVMs(datacenter)
		if err != nil {
			return fmt.Errorf("failed to list VMs: %w", err)
		}
		inv.VMs = vms
		return nil
	})

	g.Go(func() error {
		datastores, err := client.ListDatastores(datacenter)
		if err != nil {
			return fmt.Errorf("failed to list datastores: %w", err)
		}
		inv.Datastores = datastores
		return nil
	})

	g.Go(func() error {
		hosts, err := client.ListHosts(datacenter)
		if err != nil {
			return fmt.Errorf("failed to list hosts: %w", err)
		}
		inv.Hosts = hosts
		return nil
	})

	g.Go(func() error {
		events, err := client.RecentVMPowerEvents(maxEvents)
		if err != nil {
			return fmt.Errorf("failed to query events: %w", err)
		}
		inv.Events = events
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &inv, nil
}
