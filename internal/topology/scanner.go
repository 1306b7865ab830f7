package topology

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/perimeterlab/vnetmesh/internal/platform/azure"
	"github.com/perimeterlab/vnetmesh/internal/util/async"
)

// Scanner queries subscriptions in parallel for networks matching a Criteria.
type Scanner struct {
	clients azure.ClientSet
	workers int
	log     *zap.Logger
}

// NewScanner creates a Scanner over the given client set.
func NewScanner(clients azure.ClientSet, workers int, log *zap.Logger) *Scanner {
	return &Scanner{clients: clients, workers: workers, log: log}
}

// Scan lists the networks of every given subscription concurrently and
// returns those matching the criteria, plus the total number of networks
// listed. A subscription without a client is skipped with a warning; a failed
// listing is logged and contributes nothing. Neither prevents the remaining
// subscriptions from completing. Result ordering is not significant.
func (s *Scanner) Scan(ctx context.Context, subscriptionIDs []string, crit Criteria) ([]azure.Network, int) {
	matches := crit.Matcher()

	var (
		mu      sync.Mutex
		matched []azure.Network
		scanned int
	)

	tasks := make([]async.Task, 0, len(subscriptionIDs))
	for _, subID := range subscriptionIDs {
		client, ok := s.clients[subID]
		if !ok {
			s.log.Warn("skipping subscription without a client", zap.String("subscription", subID))
			continue
		}

		tasks = append(tasks, async.Task{
			Name: "scan " + subID,
			Func: func(ctx context.Context) error {
				networks, err := client.ListVirtualNetworks(ctx)
				if err != nil {
					s.log.Warn("failed to scan subscription",
						zap.String("subscription", subID), zap.Error(err))
					return nil // siblings keep going, nothing contributed
				}

				var hits []azure.Network
				for _, n := range networks {
					if matches(n) {
						hits = append(hits, n)
					}
				}

				mu.Lock()
				matched = append(matched, hits...)
				scanned += len(networks)
				mu.Unlock()
				return nil
			},
		})
	}

	// Task funcs return nil on scan failure, so only cancellation surfaces here.
	if err := async.RunBounded(ctx, s.workers, tasks); err != nil {
		s.log.Warn("scan interrupted", zap.Error(err))
	}

	s.log.Info("scan complete",
		zap.Int("subscriptions", len(tasks)),
		zap.Int("networksScanned", scanned),
		zap.Int("networksMatched", len(matched)))

	return matched, scanned
}
