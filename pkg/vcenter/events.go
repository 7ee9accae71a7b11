package vcenter

import (
	"fmt"
	"sort"
	"time"

	"github.com/opsforge/vcadmin/configs"
	"github.com/vmware/govmomi/event"
	"github.com/vmware/govmomi/vim25/types"
)

// VMEvent describes a single VM power event recorded by vCenter.
type VMEvent struct {
	Time time.Time
	VM   string
	User string
	Kind string // "PoweredOn" or "PoweredOff"
}

// RecentVMPowerEvents returns up to max recent VM power-on/power-off
// events, newest first. max <= 0 uses the configured default.
func (c *Client) RecentVMPowerEvents(max int) ([]VMEvent, error) {
	if max <= 0 {
		max = configs.Defaults.Report.MaxEvents
	}

	mgr := event.NewManager(c.conn.Client)
	events, err := mgr.QueryEvents(c.ctx, types.EventFilterSpec{})
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}

	return filterPowerEvents(events, max), nil
}

// filterPowerEvents keeps only VM power events, ordered newest first and
// capped at max.
func filterPowerEvents(events []types.BaseEvent, max int) []VMEvent {
	var result []VMEvent
	for _, be := range events {
		var kind string
		switch be.(type) {
		case *types.VmPoweredOnEvent:
			kind = "PoweredOn"
		case *types.VmPoweredOffEvent:
			kind = "PoweredOff"
		default:
			continue
		}

		e := be.GetEvent()
		ev := VMEvent{
			Time: e.CreatedTime,
			User: e.UserName,
			Kind: kind,
		}
		if e.Vm != nil {
			ev.VM = e.Vm.Name
		}
		result = append(result, ev)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Time.After(result[j].Time)
	})
	if len(result) > max {
		result = result[:max]
	}
	return result
}
