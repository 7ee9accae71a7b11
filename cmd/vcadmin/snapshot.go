package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opsforge/vcadmin/pkg/snapshot"
	"github.com/opsforge/vcadmin/pkg/vm"
)

var snapshotDescription string

var snapshotCmd = &cobra.Command{
	Use:           "snapshot",
	Short:         "Snapshot operations (take/revert/clone/compare)",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// snapshotErr converts the snapshot package's sentinel errors into user
// errors with hints; other errors pass through.
func snapshotErr(err error, vmName string) error {
	switch {
	case errors.Is(err, vm.ErrNotFound):
		return &userError{
			msg:  fmt.Sprintf("VM %q not found", vmName),
			hint: "Run 'vcadmin vm list' to see available VMs",
		}
	case errors.Is(err, snapshot.ErrNoSnapshot):
		return &userError{
			msg:  fmt.Sprintf("VM %q has no snapshots", vmName),
			hint: "Take one with 'vcadmin snapshot take " + vmName + "'",
		}
	case errors.Is(err, snapshot.ErrSnapshotNotFound):
		return &userError{msg: err.Error()}
	default:
		return err
	}
}

var snapshotTakeCmd = &cobra.Command{
	Use:           "take VM [SNAPSHOT]",
	Short:         "Take a snapshot of a VM",
	Args:          cobra.RangeArgs(1, 2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		vmName := args[0]
		var snapName string
		if len(args) == 2 {
			snapName = args[1]
		}

		client, cfg, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect() }()

		vmObj, err := vm.Locate(client, cfg.datacenterName(), vmName)
		if err != nil {
			return snapshotErr(err, vmName)
		}

		name, err := snapshot.NewManager(cmd.Context()).Take(vmObj, snapName, snapshotDescription)
		if err != nil {
			return snapshotErr(err, vmName)
		}
		logger.Info("Snapshot created", "vm", vmName, "snapshot", name)
		return nil
	},
}

var snapshotRevertCmd = &cobra.Command{
	Use:           "revert VM SNAPSHOT",
	Short:         "Revert a VM to a snapshot",
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		vmName, snapName := args[0], args[1]

		client, cfg, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect() }()

		vmObj, err := vm.Locate(client, cfg.datacenterName(), vmName)
		if err != nil {
			return snapshotErr(err, vmName)
		}

		if !confirm(fmt.Sprintf("Revert VM %q to snapshot %q?", vmName, snapName)) {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := snapshot.NewManager(cmd.Context()).Revert(vmObj, snapName); err != nil {
			return snapshotErr(err, vmName)
		}
		logger.Info("Reverted to snapshot", "vm", vmName, "snapshot", snapName)
		return nil
	},
}

var snapshotCloneCmd = &cobra.Command{
	Use:           "clone VM [CLONE]",
	Short:         "Clone a VM from its current snapshot",
	Args:          cobra.RangeArgs(1, 2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		vmName := args[0]
		var cloneName string
		if len(args) == 2 {
			cloneName = args[1]
		}

		client, cfg, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect() }()
		dc := cfg.datacenterName()

		vmObj, err := vm.Locate(client, dc, vmName)
		if err != nil {
			return snapshotErr(err, vmName)
		}
		folder, err := client.FindFolder(dc, "")
		if err != nil {
			return err
		}

		clone, err := snapshot.NewManager(cmd.Context()).CloneFromCurrent(vmObj, folder, cloneName)
		if err != nil {
			return snapshotErr(err, vmName)
		}
		logger.Info("Clone created", "vm", vmName, "clone", clone.Name())
		return nil
	},
}

var snapshotCompareCmd = &cobra.Command{
	Use:           "compare VM SNAPSHOT",
	Short:         "Compare a VM's configuration to a snapshot",
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		vmName, snapName := args[0], args[1]

		client, cfg, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect() }()

		vmObj, err := vm.Locate(client, cfg.datacenterName(), vmName)
		if err != nil {
			return snapshotErr(err, vmName)
		}

		diff, err := snapshot.NewManager(cmd.Context()).Compare(vmObj, snapName)
		if err != nil {
			return snapshotErr(err, vmName)
		}

		fmt.Printf("Comparing VM %q to snapshot %q:\n", vmName, snapName)
		fmt.Printf("  CPU:    %d now vs %d in snapshot\n", diff.CurrentCPUs, diff.SnapshotCPUs)
		fmt.Printf("  Memory: %d MB now vs %d MB in snapshot\n", diff.CurrentMemoryMB, diff.SnapshotMemoryMB)
		if diff.Equal() {
			fmt.Println("  No differences.")
		}
		return nil
	},
}

func init() {
	snapshotCmd.AddCommand(snapshotTakeCmd)
	snapshotCmd.AddCommand(snapshotRevertCmd)
	snapshotCmd.AddCommand(snapshotCloneCmd)
	snapshotCmd.AddCommand(snapshotCompareCmd)

	snapshotTakeCmd.Flags().StringVar(&snapshotDescription, "description", "", "Snapshot description")
}
