package vm

import (
	"fmt"

	"github.com/vmware/govmomi/object"
)

// PowerAction identifies a supported VM power operation.
type PowerAction string

const (
	ActionPowerOn  PowerAction = "on"
	ActionPowerOff PowerAction = "off"
	ActionReboot   PowerAction = "reboot"
)

// ParsePowerAction converts a CLI argument into a PowerAction.
func ParsePowerAction(s string) (PowerAction, error) {
	switch PowerAction(s) {
	case ActionPowerOn, ActionPowerOff, ActionReboot:
		return PowerAction(s), nil
	default:
		return "", fmt.Errorf("unknown power action %q (expected on, off or reboot)", s)
	}
}

// ApplyPower dispatches a power action. changed is false when the VM was
// already in the requested state; Reboot on a stopped VM returns
// ErrNotRunning.
func (m *Manager) ApplyPower(vm *object.VirtualMachine, action PowerAction) (changed bool, err error) {
	switch action {
	case ActionPowerOn:
		return m.PowerOn(vm)
	case ActionPowerOff:
		return m.PowerOff(vm)
	case ActionReboot:
		if err := m.Reboot(vm); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, fmt.Errorf("unknown power action %q", action)
	}
}
