// vcadmin - CLI tool for VM lifecycle management in VMware vCenter
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	connectionConfigFile string
	flagDatacenter       string
	assumeYes            bool
)

var rootCmd = &cobra.Command{
	Use:           "vcadmin",
	Short:         "Manage VM lifecycle, snapshots and templates in VMware vCenter",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&connectionConfigFile, "config", "configs/vcenter.yaml",
		"Path to vCenter connection config file")
	rootCmd.PersistentFlags().StringVar(&flagDatacenter, "datacenter", "",
		"Datacenter name (default: the connection config's, or the only one)")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false,
		"Skip confirmation prompts")

	rootCmd.AddCommand(vmCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(eventsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		const (
			red    = "\033[31m"
			yellow = "\033[33m"
			cyan   = "\033[36m"
			reset  = "\033[0m"
		)
		if ue, ok := err.(*userError); ok {
			fmt.Fprintf(os.Stderr, "%sError:%s %s\n", red, reset, ue.Error())
			if hint := ue.Hint(); hint != "" {
				fmt.Fprintf(os.Stderr, "%sHint:%s %s%s%s\n", yellow, reset, cyan, hint, reset)
			}
		} else {
			fmt.Fprintf(os.Stderr, "%sError:%s %v\n", red, reset, err)
		}
		os.Exit(1)
	}
}
