package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/opsforge/vcadmin/configs"
	"github.com/opsforge/vcadmin/pkg/report"
	"github.com/opsforge/vcadmin/pkg/vcenter"
)

var reportCmd = &cobra.Command{
	Use:           "report",
	Short:         "Inventory reports (datastores/hosts/all)",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var reportDatastoresCmd = &cobra.Command{
	Use:           "datastores",
	Short:         "List datastores with capacity, free and used space",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect() }()

		datastores, err := client.ListDatastores(cfg.datacenterName())
		if err != nil {
			return err
		}
		printDatastores(datastores)
		return nil
	},
}

var reportHostsCmd = &cobra.Command{
	Use:           "hosts",
	Short:         "Report ESXi hosts and their health status",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect() }()

		hosts, err := client.ListHosts(cfg.datacenterName())
		if err != nil {
			return err
		}
		printHosts(hosts)
		return nil
	},
}

var reportAllCmd = &cobra.Command{
	Use:           "all",
	Short:         "Full inventory report: VMs, datastores, hosts and recent events",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect() }()

		inv, err := report.Gather(client, cfg.datacenterName(), configs.Defaults.Report.MaxEvents)
		if err != nil {
			return err
		}

		fmt.Println("VM Inventory:")
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tPOWER\tCPU\tMEMORY")
		for _, v := range inv.VMs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d MB\n", v.Name, v.PowerState, v.CPUs, v.MemoryMB)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Println()
		printDatastores(inv.Datastores)
		fmt.Println()
		printHosts(inv.Hosts)
		fmt.Println()
		printEvents(inv.Events)
		return nil
	},
}

func printDatastores(datastores []vcenter.DatastoreInfo) {
	fmt.Println("Datastore Inventory:")
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCAPACITY\tFREE\tUSED\tACCESSIBLE")
	for _, ds := range datastores {
		fmt.Fprintf(w, "%s\t%.2f GB\t%.2f GB\t%.2f GB\t%v\n",
			ds.Name, ds.CapacityGB, ds.FreeSpaceGB, ds.UsedGB, ds.Accessible)
	}
	_ = w.Flush()
}

func printHosts(hosts []vcenter.HostInfo) {
	fmt.Println("ESXi Host Health Report:")
	for _, h := range hosts {
		fmt.Printf("Host: %s\n", h.Name)
		fmt.Printf("  Hardware:   %s %s\n", h.Vendor, h.Model)
		fmt.Printf("  CPU:        %s (%d packages, %d cores)\n", h.CPUModel, h.CPUPackages, h.CPUCores)
		fmt.Printf("  Memory:     %.2f GB\n", h.MemoryGB)
		fmt.Printf("  Connection: %s\n", h.ConnectionState)
		fmt.Printf("  Power:      %s\n", h.PowerState)
		fmt.Printf("  Health:     %s\n", h.OverallStatus)
	}
}

func printEvents(events []vcenter.VMEvent) {
	fmt.Println("Recent VM Power Events:")
	if len(events) == 0 {
		fmt.Println("  none")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tVM\tUSER\tEVENT")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.Time.Format("2006-01-02 15:04:05"), e.VM, e.User, e.Kind)
	}
	_ = w.Flush()
}

func init() {
	reportCmd.AddCommand(reportDatastoresCmd)
	reportCmd.AddCommand(reportHostsCmd)
	reportCmd.AddCommand(reportAllCmd)
}
