package vcenter

import (
	"errors"

	"github.com/vmware/govmomi/find"
	"github.com/vmware/govmomi/vim25/mo"
)

// VMInfo holds summary information about a virtual machine.
type VMInfo struct {
	Name       string
	PowerState string
	CPUs       int32
	MemoryMB   int32
	Template   bool
}

// DatastoreInfo holds capacity information about a vCenter datastore.
type DatastoreInfo struct {
	Name        string
	CapacityGB  float64
	FreeSpaceGB float64
	UsedGB      float64
	Accessible  bool
}

// HostInfo holds hardware and health information about an ESXi host.
type HostInfo struct {
	Name            string
	Vendor          string
	Model           string
	CPUModel        string
	CPUPackages     int16
	CPUCores        int16
	MemoryGB        float64
	ConnectionState string
	PowerState      string
	OverallStatus   string
}

const bytesPerGB = 1024 * 1024 * 1024

// ListVMs returns summary information for all VMs in a datacenter.
func (c *Client) ListVMs(datacenter string) ([]VMInfo, error) {
	finder, _, err := c.finderFor(datacenter)
	if err != nil {
		return nil, err
	}

	vms, err := finder.VirtualMachineList(c.ctx, "*")
	if err != nil {
		var nfe *find.NotFoundError
		if errors.As(err, &nfe) {
			return nil, nil
		}
		return nil, err
	}

	var result []VMInfo
	for _, vm := range vms {
		var moVM mo.VirtualMachine
		if err := vm.Properties(c.ctx, vm.Reference(), []string{"summary"}, &moVM); err != nil {
			continue
		}
		s := moVM.Summary
		result = append(result, VMInfo{
			Name:       s.Config.Name,
			PowerState: string(s.Runtime.PowerState),
			CPUs:       s.Config.NumCpu,
			MemoryMB:   s.Config.MemorySizeMB,
			Template:   s.Config.Template,
		})
	}
	return result, nil
}

// ListDatastores returns all datastores in a datacenter with their
// capacity, free and used space.
func (c *Client) ListDatastores(datacenter string) ([]DatastoreInfo, error) {
	finder, _, err := c.finderFor(datacenter)
	if err != nil {
		return nil, err
	}

	dsList, err := finder.DatastoreList(c.ctx, "*")
	if err != nil {
		return nil, err
	}

	var result []DatastoreInfo
	for _, ds := range dsList {
		var moDS mo.Datastore
		if err := ds.Properties(c.ctx, ds.Reference(), []string{"summary"}, &moDS); err != nil {
			continue
		}
		s := moDS.Summary
		capacity := float64(s.Capacity) / bytesPerGB
		free := float64(s.FreeSpace) / bytesPerGB
		result = append(result, DatastoreInfo{
			Name:        s.Name,
			CapacityGB:  capacity,
			FreeSpaceGB: free,
			UsedGB:      capacity - free,
			Accessible:  s.Accessible,
		})
	}
	return result, nil
}

// ListHosts returns hardware and health information for all ESXi hosts
// in a datacenter.
func (c *Client) ListHosts(datacenter string) ([]HostInfo, error) {
	finder, _, err := c.finderFor(datacenter)
	if err != nil {
		return nil, err
	}

	hosts, err := finder.HostSystemList(c.ctx, "*")
	if err != nil {
		return nil, err
	}

	var result []HostInfo
	for _, h := range hosts {
		var moHost mo.HostSystem
		if err := h.Properties(c.ctx, h.Reference(), []string{"summary"}, &moHost); err != nil {
			continue
		}
		s := moHost.Summary
		info := HostInfo{
			Name:            h.Name(),
			ConnectionState: string(s.Runtime.ConnectionState),
			PowerState:      string(s.Runtime.PowerState),
			OverallStatus:   string(s.OverallStatus),
		}
		if s.Config.Name != "" {
			info.Name = s.Config.Name
		}
		if hw := s.Hardware; hw != nil {
			info.Vendor = hw.Vendor
			info.Model = hw.Model
			info.CPUModel = hw.CpuModel
			info.CPUPackages = hw.NumCpuPkgs
			info.CPUCores = hw.NumCpuCores
			info.MemoryGB = float64(hw.MemorySize) / bytesPerGB
		}
		result = append(result, info)
	}
	return result, nil
}
