package vcenter

import (
	"github.com/vmware/govmomi/object"
)

// ClientInterface abstracts vCenter operations.
// The real implementation uses govmomi; tests inject a mock.
type ClientInterface interface {
	FindDatacenter(name string) (*object.Datacenter, error)
	FindDatastore(datacenter, name string) (*object.Datastore, error)
	FindFolder(datacenter, path string) (*object.Folder, error)
	FindResourcePool(datacenter, path string) (*object.ResourcePool, error)
	FindVM(datacenter, name string) (*object.VirtualMachine, error)
	ListVMs(datacenter string) ([]VMInfo, error)
	ListDatastores(datacenter string) ([]DatastoreInfo, error)
	ListHosts(datacenter string) ([]HostInfo, error)
	RecentVMPowerEvents(max int) ([]VMEvent, error)
	Disconnect() error
}

// compile-time interface compliance check
var _ ClientInterface = (*Client)(nil)
