package peering

import "github.com/perimeterlab/vnetmesh/internal/platform/azure"

// IsHealthy classifies one side of a peering. An absent peering is unhealthy
// by definition. A present peering is healthy iff it is Connected with both
// virtual-network access and forwarded traffic allowed; when the provider
// reports a sync level it must additionally be fully in sync, but its absence
// does not penalize health. Pure predicate, performs no I/O.
func IsHealthy(p *azure.Peering) bool {
	if p == nil {
		return false
	}
	if p.State != azure.PeeringStateConnected {
		return false
	}
	if !p.AllowVirtualNetworkAccess || !p.AllowForwardedTraffic {
		return false
	}
	if p.SyncLevel != "" && p.SyncLevel != azure.SyncFullyInSync {
		return false
	}
	return true
}
