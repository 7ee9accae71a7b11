package vm

import (
	"fmt"

	"github.com/opsforge/vcadmin/pkg/vcenter"
	"github.com/vmware/govmomi/object"
)

// Locate resolves a VM by name. A missing VM yields ErrNotFound so callers
// can distinguish it from lookup transport failures.
func Locate(client vcenter.ClientInterface, datacenter, name string) (*object.VirtualMachine, error) {
	vmObj, err := client.FindVM(datacenter, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up VM %q: %w", name, err)
	}
	if vmObj == nil {
		return nil, fmt.Errorf("VM %q: %w", name, ErrNotFound)
	}
	return vmObj, nil
}

// Exists reports whether a VM with the given name exists.
func Exists(client vcenter.ClientInterface, datacenter, name string) (bool, error) {
	vmObj, err := client.FindVM(datacenter, name)
	if err != nil {
		return false, fmt.Errorf("failed to check VM existence: %w", err)
	}
	return vmObj != nil, nil
}
