package peering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/perimeterlab/vnetmesh/internal/config"
	"github.com/perimeterlab/vnetmesh/internal/platform/azure"
	"github.com/perimeterlab/vnetmesh/internal/report"
	"github.com/perimeterlab/vnetmesh/internal/topology"
	"github.com/perimeterlab/vnetmesh/internal/util/async"
)

// Runner drives a full reconciliation run: per region pair, scan hubs and
// spokes, reconcile the cross product with bounded parallelism, then sweep
// orphans over the union of all valid regions.
type Runner struct {
	cfg                *config.Config
	clients            azure.ClientSet
	hubSubscriptions   []string
	spokeSubscriptions []string
	rep                *report.Report
	log                *zap.Logger
	exec               *Executor
}

// NewRunner creates a Runner. Hub networks are searched only within
// hubSubscriptions; spoke networks within spokeSubscriptions (all reachable
// subscriptions minus the excluded ones).
func NewRunner(cfg *config.Config, timeouts *config.Timeouts, clients azure.ClientSet, hubSubscriptions, spokeSubscriptions []string, rep *report.Report, log *zap.Logger) *Runner {
	return &Runner{
		cfg:                cfg,
		clients:            clients,
		hubSubscriptions:   hubSubscriptions,
		spokeSubscriptions: spokeSubscriptions,
		rep:                rep,
		log:                log,
		exec:               NewExecutor(rep, log, cfg.DryRun, timeouts),
	}
}

// Run executes every configured region pair and, unless disabled, the orphan
// sweep. The report is finished even when pairs or subscriptions failed; a
// non-nil error is returned only for caller cancellation.
func (r *Runner) Run(ctx context.Context) error {
	defer r.rep.Finish()

	if r.cfg.DryRun {
		r.rep.MarkDryRun()
	}

	scanner := topology.NewScanner(r.clients, r.cfg.Workers, r.log)
	reconciler := NewPairReconciler(r.clients, r.exec, r.rep, r.log)

	var validRegions []string
	for _, pair := range r.cfg.RegionPairs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		validRegions = append(validRegions, r.processRegionPair(ctx, scanner, reconciler, pair)...)
	}

	if !r.cfg.SkipCleanup && len(validRegions) > 0 {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		collector := NewOrphanCollector(r.clients, r.exec, r.rep, r.log, r.cfg.Workers, r.cfg.DryRun)
		collector.Sweep(ctx, dedupeRegions(validRegions))
	}

	return ctx.Err()
}

// processRegionPair scans and reconciles one region pair and returns the
// regions it covered, for the orphan sweep. Scanning completes fully before
// any pair is reconciled.
func (r *Runner) processRegionPair(ctx context.Context, scanner *topology.Scanner, reconciler *PairReconciler, pair config.RegionPair) []string {
	label := pair.Label()
	log := r.log.With(zap.String("regionPair", label))

	hubRegions, spokeRegions, err := pair.Resolve()
	if err != nil {
		log.Warn("skipping region pair", zap.Error(err))
		return nil
	}

	hubCrit := topology.Criteria{
		Regions:      hubRegions,
		NamePrefixes: r.cfg.HubPrefixes,
	}
	if !r.cfg.HubTag.Empty() {
		hubCrit.TagKey = r.cfg.HubTag.Key
		hubCrit.TagContains = r.cfg.HubTag.Contains
	}
	hubs, scanned := scanner.Scan(ctx, r.hubSubscriptions, hubCrit)
	r.rep.AddNetworksScanned(scanned)

	spokes, scanned := scanner.Scan(ctx, r.spokeSubscriptions, topology.Criteria{
		Regions:      spokeRegions,
		NamePrefixes: r.cfg.SpokePrefixes,
	})
	r.rep.AddNetworksScanned(scanned)

	covered := append(append([]string(nil), hubRegions...), spokeRegions...)

	if len(hubs) == 0 {
		log.Warn("no hub networks found, skipping pair reconciliation")
		return covered
	}
	if len(spokes) == 0 {
		log.Warn("no spoke networks found, skipping pair reconciliation")
		return covered
	}

	tasks := make([]async.Task, 0, len(hubs)*len(spokes))
	for _, hub := range hubs {
		for _, spoke := range spokes {
			tasks = append(tasks, async.Task{
				Name: hub.Name + "<->" + spoke.Name,
				Func: func(ctx context.Context) error {
					r.rep.AddPairResult(reconciler.Reconcile(ctx, hub, spoke, label))
					return nil
				},
			})
		}
	}

	log.Info("reconciling pairs",
		zap.Int("hubs", len(hubs)),
		zap.Int("spokes", len(spokes)),
		zap.Int("pairs", len(tasks)))

	if err := async.RunBounded(ctx, r.cfg.Workers, tasks); err != nil {
		log.Warn("pair reconciliation interrupted", zap.Error(err))
	}

	return covered
}

func dedupeRegions(regions []string) []string {
	seen := make(map[string]struct{}, len(regions))
	out := make([]string, 0, len(regions))
	for _, r := range regions {
		key := strings.ToLower(r)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
