// Package azure provides a wrapper around the Azure network management API.
//
// Each Client is scoped to a single subscription. The reconciler holds one
// client per subscription it may touch and addresses networks in other
// subscriptions through the owning network's client.
package azure

import (
	"context"
	"strings"
)

// NetworkLister lists the virtual networks visible in one subscription.
type NetworkLister interface {
	ListVirtualNetworks(ctx context.Context) ([]Network, error)
}

// PeeringManager manages peerings declared on networks in one subscription.
type PeeringManager interface {
	// GetPeering returns the named peering on the network, or (nil, nil)
	// when no such peering exists. Absence is a normal state, not an error.
	GetPeering(ctx context.Context, network Network, name string) (*Peering, error)

	// ListPeerings returns all peerings declared on the network.
	ListPeerings(ctx context.Context, network Network) ([]Peering, error)

	// CreateOrUpdatePeering creates the named peering from network to remote
	// and waits for the asynchronous operation to complete.
	CreateOrUpdatePeering(ctx context.Context, network Network, name string, remote Network, cfg PeeringConfig) error

	// DeletePeering removes the named peering and waits for completion.
	// Deleting an absent peering succeeds.
	DeletePeering(ctx context.Context, network Network, name string) error
}

// Client is the per-subscription handle the reconciler works through.
type Client interface {
	NetworkLister
	PeeringManager

	// SubscriptionID returns the subscription this client is scoped to.
	SubscriptionID() string
}

// ClientSet maps subscription IDs to their clients. Subscriptions without a
// usable client are simply absent; callers skip them with a warning.
type ClientSet map[string]Client

// For returns the client owning the given network, matching on the
// network's subscription. Lookup is case-insensitive.
func (cs ClientSet) For(n Network) (Client, bool) {
	c, ok := cs[strings.ToLower(n.SubscriptionID)]
	return c, ok
}
