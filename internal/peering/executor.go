package peering

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/perimeterlab/vnetmesh/internal/config"
	"github.com/perimeterlab/vnetmesh/internal/platform/azure"
	"github.com/perimeterlab/vnetmesh/internal/report"
	"github.com/perimeterlab/vnetmesh/internal/util/retry"
)

// mutationAttempts bounds every create or delete, first try included.
const mutationAttempts = 3

// Executor wraps mutating provider calls with bounded retry and exponential
// backoff. Creates that exhaust their retries are escalated as critical
// failures; deletes are best-effort cleanup and only surface to the caller.
// In dry-run mode the executor logs the would-be operation and does nothing.
type Executor struct {
	rep          *report.Report
	log          *zap.Logger
	dryRun       bool
	initialDelay time.Duration
}

// NewExecutor creates an Executor writing outcomes to rep.
func NewExecutor(rep *report.Report, log *zap.Logger, dryRun bool, timeouts *config.Timeouts) *Executor {
	return &Executor{
		rep:          rep,
		log:          log,
		dryRun:       dryRun,
		initialDelay: timeouts.RetryInitialDelay,
	}
}

// CreatePeering creates the named peering from owner to remote, retrying
// transient failures. On exhaustion it emits one critical-failure record
// carrying everything needed for manual remediation, then returns the
// terminal error.
func (e *Executor) CreatePeering(ctx context.Context, client azure.Client, owner, remote azure.Network, name string, cfg azure.PeeringConfig) error {
	log := e.log.With(
		zap.String("peering", name),
		zap.String("network", owner.Name),
		zap.String("remote", remote.Name))

	if e.dryRun {
		log.Info("dry run: would create peering")
		return nil
	}

	e.rep.IncMutatingOperations()

	err := retry.WithExponentialBackoff(ctx, func() error {
		err := client.CreateOrUpdatePeering(ctx, owner, name, remote, cfg)
		if azure.IsAuthorizationFailed(err) {
			return retry.Fatal(err)
		}
		return err
	},
		retry.WithMaxRetries(mutationAttempts-1),
		retry.WithInitialDelay(e.initialDelay),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			log.Warn("create attempt failed, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", delay),
				zap.Bool("throttled", azure.IsThrottled(err)),
				zap.Error(err))
		}))
	if err != nil {
		log.Error("peering create exhausted retries", zap.Error(err))
		e.rep.AddCriticalFailure(report.CriticalFailure{
			PeeringName:         name,
			SourceNetworkID:     owner.ID,
			RemoteNetworkID:     remote.ID,
			SourceSubscription:  owner.SubscriptionID,
			RemoteSubscription:  remote.SubscriptionID,
			SourceResourceGroup: owner.ResourceGroup,
			RemoteResourceGroup: remote.ResourceGroup,
			Flags:               cfg,
			Error:               err.Error(),
			OccurredAt:          time.Now().UTC(),
		})
		return err
	}

	log.Info("peering created")
	return nil
}

// DeletePeering removes the named peering from owner, retrying transient
// failures. Exhaustion is reported to the caller but never escalates to a
// critical record.
func (e *Executor) DeletePeering(ctx context.Context, client azure.Client, owner azure.Network, name string) error {
	log := e.log.With(
		zap.String("peering", name),
		zap.String("network", owner.Name))

	if e.dryRun {
		log.Info("dry run: would delete peering")
		return nil
	}

	e.rep.IncMutatingOperations()

	err := retry.WithExponentialBackoff(ctx, func() error {
		err := client.DeletePeering(ctx, owner, name)
		if azure.IsAuthorizationFailed(err) {
			return retry.Fatal(err)
		}
		return err
	},
		retry.WithMaxRetries(mutationAttempts-1),
		retry.WithInitialDelay(e.initialDelay),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			log.Warn("delete attempt failed, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", delay),
				zap.Bool("throttled", azure.IsThrottled(err)),
				zap.Error(err))
		}))
	if err != nil {
		log.Warn("peering delete exhausted retries", zap.Error(err))
		return err
	}

	log.Info("peering deleted")
	return nil
}
