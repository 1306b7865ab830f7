// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing
// and flag binding. Command execution is delegated to handler functions in the
// handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the vnetmesh CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vnetmesh",
		Short: "Converge Azure VNet hub and spoke peering topology",
	}

	cmd.AddCommand(Apply())
	cmd.AddCommand(Sweep())
	cmd.AddCommand(Version())

	return cmd
}
