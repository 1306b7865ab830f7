package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/perimeterlab/vnetmesh/internal/config"
	"github.com/perimeterlab/vnetmesh/internal/peering"
	"github.com/perimeterlab/vnetmesh/internal/report"
)

// SweepOptions carries the sweep command's flag values.
type SweepOptions struct {
	ConfigPath string
	DryRun     bool
	Workers    int
	ReportDir  string
	Verbose    bool
}

// Sweep runs the orphan sweep on its own over the union of every configured
// region, then writes the report.
func Sweep(ctx context.Context, opts SweepOptions) error {
	log, err := newLogger(opts.Verbose)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := loadRunConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.DryRun {
		cfg.DryRun = true
	}
	if opts.Workers > 0 {
		cfg.Workers = opts.Workers
	}
	if opts.ReportDir != "" {
		cfg.ReportDir = opts.ReportDir
	}

	regions, err := allConfiguredRegions(cfg)
	if err != nil {
		return err
	}

	timeouts := loadTimeouts()
	clients, _, _, err := buildClients(ctx, cfg, timeouts, log)
	if err != nil {
		return err
	}

	rep := report.New()
	if cfg.DryRun {
		rep.MarkDryRun()
	}
	exec := peering.NewExecutor(rep, log, cfg.DryRun, timeouts)
	collector := peering.NewOrphanCollector(clients, exec, rep, log, cfg.Workers, cfg.DryRun)
	collector.Sweep(ctx, regions)
	rep.Finish()

	if err := finishReport(ctx, cfg, rep, log); err != nil {
		return err
	}
	return ctx.Err()
}

// allConfiguredRegions resolves and merges every hub and spoke region across
// all region pairs. A pair whose region file cannot be read fails the sweep:
// sweeping with a partial region set could misclassify valid remotes as
// orphans.
func allConfiguredRegions(cfg *config.Config) ([]string, error) {
	seen := make(map[string]struct{})
	var regions []string
	add := func(rs []string) {
		for _, r := range rs {
			key := strings.ToLower(r)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			regions = append(regions, r)
		}
	}

	for _, pair := range cfg.RegionPairs {
		hubRegions, spokeRegions, err := pair.Resolve()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve regions for pair %s: %w", pair.Label(), err)
		}
		add(hubRegions)
		add(spokeRegions)
	}
	return regions, nil
}
