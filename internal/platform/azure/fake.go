package azure

import (
	"context"
	"strings"
	"sync"
)

// FakeClient is a stateful in-memory Client used by tests across packages.
// Error injection hooks fail individual calls; call counters let tests assert
// how many mutating operations a code path performed.
type FakeClient struct {
	mu           sync.Mutex
	subscription string
	networks     []Network
	peerings     map[string]map[string]Peering // lower network ID -> peering name -> peering

	// Error injection. A nil hook never fails.
	ListNetworksErr error
	GetPeeringErr   error
	ListPeeringsErr error
	CreateErr       func(network Network, name string) error
	DeleteErr       func(network Network, name string) error

	// Call counters.
	ListNetworksCalls int
	GetPeeringCalls   int
	ListPeeringsCalls int
	CreateCalls       int
	DeleteCalls       int
}

// NewFakeClient creates a fake client for one subscription holding the given
// networks.
func NewFakeClient(subscriptionID string, networks ...Network) *FakeClient {
	return &FakeClient{
		subscription: subscriptionID,
		networks:     networks,
		peerings:     make(map[string]map[string]Peering),
	}
}

func (f *FakeClient) SubscriptionID() string {
	return f.subscription
}

func (f *FakeClient) ListVirtualNetworks(_ context.Context) ([]Network, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ListNetworksCalls++
	if f.ListNetworksErr != nil {
		return nil, f.ListNetworksErr
	}
	out := make([]Network, len(f.networks))
	copy(out, f.networks)
	return out, nil
}

func (f *FakeClient) GetPeering(_ context.Context, network Network, name string) (*Peering, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.GetPeeringCalls++
	if f.GetPeeringErr != nil {
		return nil, f.GetPeeringErr
	}
	p, ok := f.peerings[lowerID(network)][name]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *FakeClient) ListPeerings(_ context.Context, network Network) ([]Peering, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ListPeeringsCalls++
	if f.ListPeeringsErr != nil {
		return nil, f.ListPeeringsErr
	}
	var out []Peering
	for _, p := range f.peerings[lowerID(network)] {
		out = append(out, p)
	}
	return out, nil
}

func (f *FakeClient) CreateOrUpdatePeering(_ context.Context, network Network, name string, remote Network, cfg PeeringConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.CreateCalls++
	if f.CreateErr != nil {
		if err := f.CreateErr(network, name); err != nil {
			return err
		}
	}
	f.setPeeringLocked(network, Peering{
		Name:                      name,
		State:                     PeeringStateConnected,
		SyncLevel:                 SyncFullyInSync,
		AllowVirtualNetworkAccess: cfg.AllowVirtualNetworkAccess,
		AllowForwardedTraffic:     cfg.AllowForwardedTraffic,
		AllowGatewayTransit:       cfg.AllowGatewayTransit,
		UseRemoteGateways:         cfg.UseRemoteGateways,
		RemoteNetworkID:           strings.ToLower(remote.ID),
	})
	return nil
}

func (f *FakeClient) DeletePeering(_ context.Context, network Network, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.DeleteCalls++
	if f.DeleteErr != nil {
		if err := f.DeleteErr(network, name); err != nil {
			return err
		}
	}
	delete(f.peerings[lowerID(network)], name)
	return nil
}

// AddNetwork adds a network to the fake subscription.
func (f *FakeClient) AddNetwork(n Network) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.networks = append(f.networks, n)
}

// SetPeering seeds or replaces a peering on the network.
func (f *FakeClient) SetPeering(network Network, p Peering) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setPeeringLocked(network, p)
}

// HasPeering reports whether the named peering currently exists.
func (f *FakeClient) HasPeering(network Network, name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.peerings[lowerID(network)][name]
	return ok
}

// MutatingCalls returns the total create and delete calls observed.
func (f *FakeClient) MutatingCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.CreateCalls + f.DeleteCalls
}

func (f *FakeClient) setPeeringLocked(network Network, p Peering) {
	key := lowerID(network)
	if f.peerings[key] == nil {
		f.peerings[key] = make(map[string]Peering)
	}
	f.peerings[key][p.Name] = p
}

func lowerID(n Network) string {
	return strings.ToLower(n.ID)
}
