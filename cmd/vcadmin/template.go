package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opsforge/vcadmin/pkg/template"
	"github.com/opsforge/vcadmin/pkg/vm"
	"github.com/vmware/govmomi/object"
)

var (
	templateCloneDatastore string
	templateClonePool      string
	templateClonePowerOn   bool
)

var templateCmd = &cobra.Command{
	Use:           "template",
	Short:         "Template operations (mark/clone)",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var templateMarkCmd = &cobra.Command{
	Use:           "mark VM",
	Short:         "Convert a powered-off VM into a template",
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

		if err := template.NewManager(cmd.Context()).MarkAsTemplate(vmObj); err != nil {
			return err
		}
		logger.Info("VM converted to template", "template", name)
		return nil
	},
}

var templateCloneCmd = &cobra.Command{
	Use:           "clone TEMPLATE NAME",
	Short:         "Deploy a new VM from a template",
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		tmplName, newName := args[0], args[1]

		client, cfg, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect() }()
		dc := cfg.datacenterName()

		tmpl, err := vm.Locate(client, dc, tmplName)
		if err != nil {
			if errors.Is(err, vm.ErrNotFound) {
				return &userError{
					msg:  fmt.Sprintf("template %q not found", tmplName),
					hint: "Run 'vcadmin vm list' and look for entries with TEMPLATE=true",
				}
			}
			return err
		}

		exists, err := vm.Exists(client, dc, newName)
		if err != nil {
			return err
		}
		if exists {
			return &userError{msg: fmt.Sprintf("VM %q already exists", newName)}
		}

		folder, err := client.FindFolder(dc, "")
		if err != nil {
			return err
		}
		pool, err := client.FindResourcePool(dc, templateClonePool)
		if err != nil {
			return err
		}
		var datastore *object.Datastore
		if templateCloneDatastore != "" {
			datastore, err = client.FindDatastore(dc, templateCloneDatastore)
			if err != nil {
				return err
			}
		}

		logger.Info("Cloning from template", "template", tmplName, "name", newName)
		manager := template.NewManager(cmd.Context())
		_, err = manager.Clone(tmpl, folder, newName, template.Placement{
			Datastore:    datastore,
			ResourcePool: pool,
			PowerOn:      templateClonePowerOn,
		})
		if err != nil {
			if errors.Is(err, template.ErrNotTemplate) {
				return &userError{
					msg:  fmt.Sprintf("%q is not a template", tmplName),
					hint: "Convert it first with 'vcadmin template mark " + tmplName + "'",
				}
			}
			return err
		}
		logger.Info("Clone deployed", "name", newName)
		return nil
	},
}

func init() {
	templateCmd.AddCommand(templateMarkCmd)
	templateCmd.AddCommand(templateCloneCmd)

	templateCloneCmd.Flags().StringVar(&templateCloneDatastore, "datastore", "", "Target datastore (default: template's)")
	templateCloneCmd.Flags().StringVar(&templateClonePool, "pool", "", "Target resource pool (default: first pool)")
	templateCloneCmd.Flags().BoolVar(&templateClonePowerOn, "power-on", false, "Power on the clone after deployment")
}
