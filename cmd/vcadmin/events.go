package main

import (
	"github.com/spf13/cobra"
)

var eventsMax int

var eventsCmd = &cobra.Command{
	Use:           "events",
	Short:         "Show recent VM power events",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect() }()

		events, err := client.RecentVMPowerEvents(eventsMax)
		if err != nil {
			return err
		}
		printEvents(events)
		return nil
	},
}

func init() {
	eventsCmd.Flags().IntVar(&eventsMax, "max", 0, "Maximum number of events to show (default from embedded defaults)")
}
