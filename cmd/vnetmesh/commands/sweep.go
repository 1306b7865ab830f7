package commands

import (
	"github.com/spf13/cobra"

	"github.com/perimeterlab/vnetmesh/cmd/vnetmesh/handlers"
)

// Sweep returns the command for running the orphan sweep on its own, without
// reconciling any pairs first.
func Sweep() *cobra.Command {
	var opts handlers.SweepOptions

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove orphaned vnetmesh-owned peerings",
		Long: `Remove orphaned peerings without reconciling pairs.

Scans every network in the configured regions and deletes peerings owned by
vnetmesh whose remote network no longer exists. Peerings not created by
vnetmesh are never touched.

Examples:
  # Preview which peerings would be removed
  vnetmesh sweep --dry-run

  # Remove orphans using a specific config
  vnetmesh sweep -c production.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Sweep(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default: vnetmesh.yaml)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report intended deletions without performing them")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Override the configured worker count")
	cmd.Flags().StringVar(&opts.ReportDir, "report-dir", "", "Directory for report files (default: current directory)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}
