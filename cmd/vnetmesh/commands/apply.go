package commands

import (
	"github.com/spf13/cobra"

	"github.com/perimeterlab/vnetmesh/cmd/vnetmesh/handlers"
)

// Apply returns the command for a full reconciliation run.
//
// The run scans every configured region pair, converges the hub and spoke
// cross product to healthy bidirectional peerings, sweeps orphaned peerings,
// and writes an HTML and JSON report.
//
// Optional flags:
//
//	--config, -c:   Path to configuration YAML file (default: vnetmesh.yaml)
//	--dry-run:      Report intended mutations without performing them
//	--skip-cleanup: Skip the orphan sweep after pair reconciliation
//	--workers:      Override the configured parallelism
//	--report-dir:   Directory for rendered report files
//	--verbose:      Enable debug logging
//
// Environment variables:
//
//	AZURE_TENANT_ID, AZURE_CLIENT_ID, AZURE_CLIENT_SECRET (required)
func Apply() *cobra.Command {
	var opts handlers.ApplyOptions

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Reconcile hub and spoke peerings and sweep orphans",
		Long: `Reconcile the full peering topology.

For every configured region pair, each hub network is peered bidirectionally
with each spoke network. Healthy pairs are left untouched; broken pairs are
deleted on both sides and recreated. Unless --skip-cleanup is given, peerings
owned by vnetmesh whose remote network no longer exists are removed afterwards.

Examples:
  # Reconcile using vnetmesh.yaml in the current directory
  vnetmesh apply

  # Preview all mutations without performing them
  vnetmesh apply --dry-run

  # Reconcile with a specific config, skipping the orphan sweep
  vnetmesh apply -c production.yaml --skip-cleanup`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default: vnetmesh.yaml)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report intended mutations without performing them")
	cmd.Flags().BoolVar(&opts.SkipCleanup, "skip-cleanup", false, "Skip the orphan sweep")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Override the configured worker count")
	cmd.Flags().StringVar(&opts.ReportDir, "report-dir", "", "Directory for report files (default: current directory)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}
