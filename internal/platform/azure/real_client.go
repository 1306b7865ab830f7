package azure

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v6"
)

// defaultOperationTimeout bounds a single remote operation, poller included,
// so one stuck call cannot hang a whole run.
const defaultOperationTimeout = 300 * time.Second

// Options tunes a RealClient.
type Options struct {
	// OperationTimeout bounds each remote call. Zero means the default.
	OperationTimeout time.Duration
}

// RealClient implements Client against the Azure network management API for a
// single subscription.
type RealClient struct {
	subscriptionID string
	vnets          *armnetwork.VirtualNetworksClient
	peerings       *armnetwork.VirtualNetworkPeeringsClient
	opTimeout      time.Duration
}

// NewRealClient creates a client for one subscription.
func NewRealClient(subscriptionID string, cred azcore.TokenCredential, opts *Options) (*RealClient, error) {
	factory, err := armnetwork.NewClientFactory(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create network client factory for subscription %s: %w", subscriptionID, err)
	}

	timeout := defaultOperationTimeout
	if opts != nil && opts.OperationTimeout > 0 {
		timeout = opts.OperationTimeout
	}

	return &RealClient{
		subscriptionID: subscriptionID,
		vnets:          factory.NewVirtualNetworksClient(),
		peerings:       factory.NewVirtualNetworkPeeringsClient(),
		opTimeout:      timeout,
	}, nil
}

// SubscriptionID returns the subscription this client is scoped to.
func (c *RealClient) SubscriptionID() string {
	return c.subscriptionID
}

// ListVirtualNetworks returns a snapshot of every virtual network in the
// subscription. Networks with malformed resource IDs are skipped.
func (c *RealClient) ListVirtualNetworks(ctx context.Context) ([]Network, error) {
	var networks []Network

	pager := c.vnets.NewListAllPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list virtual networks in subscription %s: %w", c.subscriptionID, err)
		}
		for _, v := range page.Value {
			n, ok := networkFromSDK(v)
			if !ok {
				continue
			}
			networks = append(networks, n)
		}
	}

	return networks, nil
}

// GetPeering returns the named peering, or (nil, nil) when it does not exist.
func (c *RealClient) GetPeering(ctx context.Context, network Network, name string) (*Peering, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	resp, err := c.peerings.Get(ctx, network.ResourceGroup, network.Name, name, nil)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get peering %s on %s: %w", name, network.Name, err)
	}

	p := peeringFromSDK(&resp.VirtualNetworkPeering)
	return &p, nil
}

// ListPeerings returns all peerings declared on the network.
func (c *RealClient) ListPeerings(ctx context.Context, network Network) ([]Peering, error) {
	var peerings []Peering

	pager := c.peerings.NewListPager(network.ResourceGroup, network.Name, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list peerings on %s: %w", network.Name, err)
		}
		for _, p := range page.Value {
			peerings = append(peerings, peeringFromSDK(p))
		}
	}

	return peerings, nil
}

// CreateOrUpdatePeering creates the named peering and polls the asynchronous
// operation to completion under the operation timeout.
func (c *RealClient) CreateOrUpdatePeering(ctx context.Context, network Network, name string, remote Network, cfg PeeringConfig) error {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	params := armnetwork.VirtualNetworkPeering{
		Properties: &armnetwork.VirtualNetworkPeeringPropertiesFormat{
			AllowVirtualNetworkAccess: to.Ptr(cfg.AllowVirtualNetworkAccess),
			AllowForwardedTraffic:     to.Ptr(cfg.AllowForwardedTraffic),
			AllowGatewayTransit:       to.Ptr(cfg.AllowGatewayTransit),
			UseRemoteGateways:         to.Ptr(cfg.UseRemoteGateways),
			RemoteVirtualNetwork: &armnetwork.SubResource{
				ID: to.Ptr(remote.ID),
			},
		},
	}

	poller, err := c.peerings.BeginCreateOrUpdate(ctx, network.ResourceGroup, network.Name, name, params, nil)
	if err != nil {
		return fmt.Errorf("failed to begin creating peering %s on %s: %w", name, network.Name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("failed to create peering %s on %s: %w", name, network.Name, err)
	}
	return nil
}

// DeletePeering removes the named peering and polls to completion. Deleting
// an absent peering succeeds.
func (c *RealClient) DeletePeering(ctx context.Context, network Network, name string) error {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	poller, err := c.peerings.BeginDelete(ctx, network.ResourceGroup, network.Name, name, nil)
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to begin deleting peering %s on %s: %w", name, network.Name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		if IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to delete peering %s on %s: %w", name, network.Name, err)
	}
	return nil
}

func networkFromSDK(v *armnetwork.VirtualNetwork) (Network, bool) {
	if v == nil || v.ID == nil || v.Name == nil || v.Location == nil {
		return Network{}, false
	}

	sub, rg, err := ParseResourceID(*v.ID)
	if err != nil {
		return Network{}, false
	}

	tags := make(map[string]string, len(v.Tags))
	for k, val := range v.Tags {
		if val != nil {
			tags[k] = *val
		}
	}

	return Network{
		ID:             *v.ID,
		Name:           *v.Name,
		Location:       *v.Location,
		Tags:           tags,
		SubscriptionID: sub,
		ResourceGroup:  rg,
	}, true
}

func peeringFromSDK(p *armnetwork.VirtualNetworkPeering) Peering {
	out := Peering{}
	if p.Name != nil {
		out.Name = *p.Name
	}
	props := p.Properties
	if props == nil {
		return out
	}

	if props.PeeringState != nil {
		out.State = PeeringState(*props.PeeringState)
	}
	if props.PeeringSyncLevel != nil {
		out.SyncLevel = SyncLevel(*props.PeeringSyncLevel)
	}
	if props.AllowVirtualNetworkAccess != nil {
		out.AllowVirtualNetworkAccess = *props.AllowVirtualNetworkAccess
	}
	if props.AllowForwardedTraffic != nil {
		out.AllowForwardedTraffic = *props.AllowForwardedTraffic
	}
	if props.AllowGatewayTransit != nil {
		out.AllowGatewayTransit = *props.AllowGatewayTransit
	}
	if props.UseRemoteGateways != nil {
		out.UseRemoteGateways = *props.UseRemoteGateways
	}
	if props.RemoteVirtualNetwork != nil && props.RemoteVirtualNetwork.ID != nil {
		// Resource IDs come back with inconsistent casing; normalize here so
		// identity comparisons downstream are plain string equality.
		out.RemoteNetworkID = strings.ToLower(*props.RemoteVirtualNetwork.ID)
	}

	return out
}
