package azure

// Network is an immutable snapshot of a virtual network, captured at scan time.
// The reconciler only ever reads it.
type Network struct {
	// ID is the full resource path, e.g.
	// /subscriptions/<sub>/resourceGroups/<rg>/providers/Microsoft.Network/virtualNetworks/<name>
	ID             string
	Name           string
	Location       string
	Tags           map[string]string
	SubscriptionID string
	ResourceGroup  string
}

// PeeringState is the provisioning state reported for one side of a peering.
type PeeringState string

const (
	PeeringStateConnected    PeeringState = "Connected"
	PeeringStateDisconnected PeeringState = "Disconnected"
	PeeringStateInitiated    PeeringState = "Initiated"
	PeeringStateFailed       PeeringState = "Failed"
)

// SyncLevel reports how in-sync a peering is with its remote network's
// address space. Not all API versions populate it.
type SyncLevel string

// SyncFullyInSync is the only sync level considered healthy when present.
const SyncFullyInSync SyncLevel = "FullyInSync"

// Peering is one side of a logical bidirectional peering: a declaration owned
// by a single network, pointing at a remote network by ID.
type Peering struct {
	Name                      string
	State                     PeeringState
	SyncLevel                 SyncLevel
	AllowVirtualNetworkAccess bool
	AllowForwardedTraffic     bool
	AllowGatewayTransit       bool
	UseRemoteGateways         bool
	RemoteNetworkID           string
}

// PeeringConfig holds the flags applied when creating a peering.
type PeeringConfig struct {
	AllowVirtualNetworkAccess bool `json:"allowVirtualNetworkAccess"`
	AllowForwardedTraffic     bool `json:"allowForwardedTraffic"`
	AllowGatewayTransit       bool `json:"allowGatewayTransit"`
	UseRemoteGateways         bool `json:"useRemoteGateways"`
}

// DefaultPeeringConfig is the configuration applied to every peering the
// system creates: full bidirectional traffic, no gateway transit.
func DefaultPeeringConfig() PeeringConfig {
	return PeeringConfig{
		AllowVirtualNetworkAccess: true,
		AllowForwardedTraffic:     true,
		AllowGatewayTransit:       false,
		UseRemoteGateways:         false,
	}
}
