package peering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/perimeterlab/vnetmesh/internal/platform/azure"
	"github.com/perimeterlab/vnetmesh/internal/report"
)

// PairReconciler converges one hub×spoke pair to a healthy bidirectional
// peering. Re-running against an already-healthy pair performs zero mutating
// calls.
type PairReconciler struct {
	clients azure.ClientSet
	exec    *Executor
	rep     *report.Report
	log     *zap.Logger
}

// NewPairReconciler creates a PairReconciler.
func NewPairReconciler(clients azure.ClientSet, exec *Executor, rep *report.Report, log *zap.Logger) *PairReconciler {
	return &PairReconciler{clients: clients, exec: exec, rep: rep, log: log}
}

// Reconcile drives the pair state machine: evaluate both sides, and either
// leave a healthy pair untouched or delete every existing side and recreate
// both. Repair deletes both sides, not only the unhealthy one; a stale
// counterpart left behind a failed recreate is asymmetric state worse than a
// clean retry.
func (r *PairReconciler) Reconcile(ctx context.Context, hub, spoke azure.Network, regionPair string) report.PairResult {
	log := r.log.With(
		zap.String("hub", hub.Name),
		zap.String("spoke", spoke.Name),
		zap.String("regionPair", regionPair))

	hubToSpoke, truncated := PeeringName(hub.Name, spoke.Name)
	if truncated {
		log.Warn("hub-side peering name truncated", zap.String("peering", hubToSpoke))
	}
	spokeToHub, truncated := PeeringName(spoke.Name, hub.Name)
	if truncated {
		log.Warn("spoke-side peering name truncated", zap.String("peering", spokeToHub))
	}

	hubClient, ok := r.clients.For(hub)
	if !ok {
		return r.failed(hub, spoke, regionPair,
			fmt.Sprintf("no client for hub subscription %s", hub.SubscriptionID))
	}
	spokeClient, ok := r.clients.For(spoke)
	if !ok {
		return r.failed(hub, spoke, regionPair,
			fmt.Sprintf("no client for spoke subscription %s", spoke.SubscriptionID))
	}

	hubSide, err := hubClient.GetPeering(ctx, hub, hubToSpoke)
	if err != nil {
		return r.failed(hub, spoke, regionPair, fmt.Sprintf("checking hub side: %v", err))
	}
	spokeSide, err := spokeClient.GetPeering(ctx, spoke, spokeToHub)
	if err != nil {
		return r.failed(hub, spoke, regionPair, fmt.Sprintf("checking spoke side: %v", err))
	}
	r.rep.AddPeeringsChecked(2)

	if IsHealthy(hubSide) && IsHealthy(spokeSide) {
		log.Info("pair is healthy")
		return report.PairResult{
			HubNetwork:   hub.Name,
			SpokeNetwork: spoke.Name,
			RegionPair:   regionPair,
			Status:       report.StatusHealthy,
			Action:       report.ActionNoChange,
		}
	}

	preExisted := hubSide != nil || spokeSide != nil
	log.Info("repairing pair", zap.Bool("preExisted", preExisted))

	// Drop whichever sides exist before recreating. Delete failures are not
	// terminal here; the create that follows surfaces any real problem.
	if hubSide != nil {
		_ = r.exec.DeletePeering(ctx, hubClient, hub, hubToSpoke)
	}
	if spokeSide != nil {
		_ = r.exec.DeletePeering(ctx, spokeClient, spoke, spokeToHub)
	}

	cfg := azure.DefaultPeeringConfig()
	hubErr := r.exec.CreatePeering(ctx, hubClient, hub, spoke, hubToSpoke, cfg)
	spokeErr := r.exec.CreatePeering(ctx, spokeClient, spoke, hub, spokeToHub, cfg)

	if hubErr != nil || spokeErr != nil {
		return r.failed(hub, spoke, regionPair,
			fmt.Sprintf("hub->spoke: %s, spoke->hub: %s", verdict(hubErr), verdict(spokeErr)))
	}

	action := report.ActionCreated
	if preExisted {
		action = report.ActionRepaired
	}
	log.Info("pair converged", zap.String("action", string(action)))

	return report.PairResult{
		HubNetwork:   hub.Name,
		SpokeNetwork: spoke.Name,
		RegionPair:   regionPair,
		Status:       report.StatusConnected,
		Action:       action,
	}
}

func (r *PairReconciler) failed(hub, spoke azure.Network, regionPair, msg string) report.PairResult {
	r.log.Error("pair reconciliation failed",
		zap.String("hub", hub.Name),
		zap.String("spoke", spoke.Name),
		zap.String("error", msg))
	return report.PairResult{
		HubNetwork:   hub.Name,
		SpokeNetwork: spoke.Name,
		RegionPair:   regionPair,
		Status:       report.StatusFailed,
		Action:       report.ActionFailed,
		Error:        msg,
	}
}

func verdict(err error) string {
	if err == nil {
		return "ok"
	}
	return err.Error()
}
