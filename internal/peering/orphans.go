package peering

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/perimeterlab/vnetmesh/internal/platform/azure"
	"github.com/perimeterlab/vnetmesh/internal/report"
	"github.com/perimeterlab/vnetmesh/internal/util/async"
)

// OrphanCollector finds system-owned peerings whose remote network no longer
// exists among currently valid networks and removes them.
type OrphanCollector struct {
	clients azure.ClientSet
	exec    *Executor
	rep     *report.Report
	log     *zap.Logger
	workers int
	dryRun  bool
}

// NewOrphanCollector creates an OrphanCollector over all reachable
// subscriptions.
func NewOrphanCollector(clients azure.ClientSet, exec *Executor, rep *report.Report, log *zap.Logger, workers int, dryRun bool) *OrphanCollector {
	return &OrphanCollector{
		clients: clients,
		exec:    exec,
		rep:     rep,
		log:     log,
		workers: workers,
		dryRun:  dryRun,
	}
}

// Sweep removes orphaned peerings in the given regions. validRegions is the
// union of every hub and spoke region from every processed region pair. The
// sweep re-reads topology rather than trusting earlier scans: networks may
// have appeared or vanished since, and deletions demand a fresh view.
// Failures are isolated per subscription and per orphan; the sweep always
// visits everything it can.
func (o *OrphanCollector) Sweep(ctx context.Context, validRegions []string) {
	regions := make(map[string]struct{}, len(validRegions))
	for _, r := range validRegions {
		regions[strings.ToLower(r)] = struct{}{}
	}

	o.log.Info("starting orphan sweep",
		zap.Int("regions", len(regions)),
		zap.Bool("dryRun", o.dryRun))

	networksBySub, validIDs := o.listValidNetworks(ctx, regions)

	tasks := make([]async.Task, 0, len(networksBySub))
	for subID, networks := range networksBySub {
		client := o.clients[subID]
		tasks = append(tasks, async.Task{
			Name: "sweep " + subID,
			Func: func(ctx context.Context) error {
				o.sweepSubscription(ctx, client, networks, validIDs)
				return nil
			},
		})
	}

	if err := async.RunBounded(ctx, o.workers, tasks); err != nil {
		o.log.Warn("orphan sweep interrupted", zap.Error(err))
	}
}

// listValidNetworks takes a fresh snapshot of every network in the valid
// regions across all reachable subscriptions and returns both the per-
// subscription network lists and the lower-cased set of their IDs.
func (o *OrphanCollector) listValidNetworks(ctx context.Context, regions map[string]struct{}) (map[string][]azure.Network, map[string]struct{}) {
	var (
		mu            sync.Mutex
		networksBySub = make(map[string][]azure.Network)
		validIDs      = make(map[string]struct{})
	)

	tasks := make([]async.Task, 0, len(o.clients))
	for subID, client := range o.clients {
		tasks = append(tasks, async.Task{
			Name: "list " + subID,
			Func: func(ctx context.Context) error {
				networks, err := client.ListVirtualNetworks(ctx)
				if err != nil {
					o.log.Warn("failed to list networks for orphan sweep",
						zap.String("subscription", subID), zap.Error(err))
					return nil
				}

				var inScope []azure.Network
				for _, n := range networks {
					if _, ok := regions[strings.ToLower(n.Location)]; !ok {
						continue
					}
					inScope = append(inScope, n)
				}

				mu.Lock()
				networksBySub[subID] = inScope
				for _, n := range inScope {
					validIDs[strings.ToLower(n.ID)] = struct{}{}
				}
				mu.Unlock()
				return nil
			},
		})
	}

	if err := async.RunBounded(ctx, o.workers, tasks); err != nil {
		o.log.Warn("valid-network listing interrupted", zap.Error(err))
	}

	return networksBySub, validIDs
}

func (o *OrphanCollector) sweepSubscription(ctx context.Context, client azure.Client, networks []azure.Network, validIDs map[string]struct{}) {
	for _, network := range networks {
		peerings, err := client.ListPeerings(ctx, network)
		if err != nil {
			o.log.Warn("failed to list peerings",
				zap.String("network", network.Name), zap.Error(err))
			continue
		}
		o.rep.AddPeeringsChecked(len(peerings))

		for _, p := range peerings {
			// Only peerings we own are ever considered for deletion.
			if !IsManaged(p.Name) {
				continue
			}

			remoteID := strings.ToLower(p.RemoteNetworkID)
			if _, ok := validIDs[remoteID]; ok {
				continue
			}

			record := report.OrphanRecord{
				NetworkName: network.Name,
				PeeringName: p.Name,
				RemoteID:    remoteID,
			}

			if o.dryRun {
				o.log.Info("dry run: would delete orphaned peering",
					zap.String("network", network.Name),
					zap.String("peering", p.Name),
					zap.String("remote", remoteID))
				o.rep.AddOrphanCandidate(record)
				continue
			}

			o.log.Info("deleting orphaned peering",
				zap.String("network", network.Name),
				zap.String("peering", p.Name),
				zap.String("remote", remoteID))

			if err := o.exec.DeletePeering(ctx, client, network, p.Name); err != nil {
				continue
			}
			o.rep.AddDeletedOrphan(record)
		}
	}
}
