package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/opsforge/vcadmin/pkg/vm"
	"github.com/vmware/govmomi/vim25/types"
)

var (
	vmCreateCPUs      int32
	vmCreateMemoryMB  int64
	vmCreateGuestOS   string
	vmCreateDatastore string
	vmCreateFolder    string
	vmCreatePool      string
	vmSetCPUs         int32
	vmSetMemoryMB     int64
)

var vmCmd = &cobra.Command{
	Use:           "vm",
	Short:         "VM lifecycle operations (list/create/delete/power/set)",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var vmListCmd = &cobra.Command{
	Use:           "list",
	Short:         "List all VMs with power state and hardware",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect() }()

		vms, err := client.ListVMs(cfg.datacenterName())
		if err != nil {
			return err
		}
		if len(vms) == 0 {
			fmt.Println("No VMs found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tPOWER\tCPU\tMEMORY\tTEMPLATE")
		for _, v := range vms {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d MB\t%v\n",
				v.Name, v.PowerState, v.CPUs, v.MemoryMB, v.Template)
		}
		return w.Flush()
	},
}

var vmCreateCmd = &cobra.Command{
	Use:           "create NAME",
	Short:         "Create a new VM",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		client, cfg, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect() }()
		dc := cfg.datacenterName()

		exists, err := vm.Exists(client, dc, name)
		if err != nil {
			return err
		}
		if exists {
			return &userError{
				msg:  fmt.Sprintf("VM %q already exists", name),
				hint: "Pick another name or delete the existing VM first",
			}
		}

		folder, err := client.FindFolder(dc, vmCreateFolder)
		if err != nil {
			return err
		}
		pool, err := client.FindResourcePool(dc, vmCreatePool)
		if err != nil {
			return err
		}
		datastore, err := client.FindDatastore(dc, vmCreateDatastore)
		if err != nil {
			return err
		}

		manager := vm.NewManager(cmd.Context())
		spec := manager.CreateSpec(&vm.Config{
			Name:      name,
			CPUs:      vmCreateCPUs,
			MemoryMB:  vmCreateMemoryMB,
			GuestOS:   vmCreateGuestOS,
			Datastore: datastore.Name(),
		})

		logger.Info("Creating VM", "name", name, "datastore", datastore.Name())
		if _, err := manager.Create(folder, pool, spec); err != nil {
			return err
		}
		logger.Info("VM created", "name", name)
		return nil
	},
}

var vmDeleteCmd = &cobra.Command{
	Use:           "delete NAME",
	Short:         "Delete a VM (powers it off first if running)",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		client, cfg, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect() }()

		vmObj, err := vm.Locate(client, cfg.datacenterName(), name)
		if err != nil {
			if errors.Is(err, vm.ErrNotFound) {
				return &userError{
					msg:  fmt.Sprintf("VM %q not found", name),
					hint: "Run 'vcadmin vm list' to see available VMs",
				}
			}
			return err
		}

		if !confirm(fmt.Sprintf("Delete VM %q?", name)) {
			fmt.Println("Cancelled.")
			return nil
		}

		logger.Info("Deleting VM", "name", name)
		if err := vm.NewManager(cmd.Context()).Delete(vmObj); err != nil {
			return err
		}
		logger.Info("VM deleted", "name", name)
		return nil
	},
}

var vmPowerCmd = &cobra.Command{
	Use:           "power (on|off|reboot) NAME",
	Short:         "Change a VM's power state",
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		action, err := vm.ParsePowerAction(args[0])
		if err != nil {
			return &userError{msg: err.Error()}
		}
		name := args[1]

		client, cfg, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect() }()

		vmObj, err := vm.Locate(client, cfg.datacenterName(), name)
		if err != nil {
			if errors.Is(err, vm.ErrNotFound) {
				return &userError{
					msg:  fmt.Sprintf("VM %q not found", name),
					hint: "Run 'vcadmin vm list' to see available VMs",
				}
			}
			return err
		}

		changed, err := vm.NewManager(cmd.Context()).ApplyPower(vmObj, action)
		if err != nil {
			if errors.Is(err, vm.ErrNotRunning) {
				return &userError{
					msg:  fmt.Sprintf("cannot reboot %q: VM is not powered on", name),
					hint: "Power it on first with 'vcadmin vm power on " + name + "'",
				}
			}
			return err
		}
		if !changed {
			logger.Warn("VM already in requested power state", "name", name)
			return nil
		}
		logger.Info("Power state changed", "name", name, "action", string(action))
		return nil
	},
}

var vmSetCmd = &cobra.Command{
	Use:           "set NAME",
	Short:         "Reconfigure a VM's CPU and memory",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if vmSetCPUs == 0 && vmSetMemoryMB == 0 {
			return &userError{
				msg:  "nothing to change",
				hint: "Pass --cpus and/or --memory",
			}
		}

		client, cfg, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect() }()

		vmObj, err := vm.Locate(client, cfg.datacenterName(), name)
		if err != nil {
			return err
		}

		spec := types.VirtualMachineConfigSpec{
			NumCPUs:  vmSetCPUs,
			MemoryMB: vmSetMemoryMB,
		}

		logger.Info("Reconfiguring VM", "name", name)
		if err := vm.NewManager(cmd.Context()).Reconfigure(vmObj, spec); err != nil {
			return err
		}
		logger.Info("VM reconfigured", "name", name)
		return nil
	},
}

func init() {
	vmCmd.AddCommand(vmListCmd)
	vmCmd.AddCommand(vmCreateCmd)
	vmCmd.AddCommand(vmDeleteCmd)
	vmCmd.AddCommand(vmPowerCmd)
	vmCmd.AddCommand(vmSetCmd)

	vmCreateCmd.Flags().Int32Var(&vmCreateCPUs, "cpus", 0, "Number of vCPUs (default from embedded defaults)")
	vmCreateCmd.Flags().Int64Var(&vmCreateMemoryMB, "memory", 0, "Memory in MB (default from embedded defaults)")
	vmCreateCmd.Flags().StringVar(&vmCreateGuestOS, "guest-os", "", "Guest OS identifier")
	vmCreateCmd.Flags().StringVar(&vmCreateDatastore, "datastore", "", "Datastore name (default: first datastore)")
	vmCreateCmd.Flags().StringVar(&vmCreateFolder, "folder", "", "VM folder path (default: datacenter root)")
	vmCreateCmd.Flags().StringVar(&vmCreatePool, "pool", "", "Resource pool path (default: first pool)")

	vmSetCmd.Flags().Int32Var(&vmSetCPUs, "cpus", 0, "New vCPU count")
	vmSetCmd.Flags().Int64Var(&vmSetMemoryMB, "memory", 0, "New memory in MB")
}
