package peering

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/perimeterlab/vnetmesh/internal/platform/azure"
	"github.com/perimeterlab/vnetmesh/internal/report"
)

func orphanCollector(clients azure.ClientSet, rep *report.Report, dryRun bool) *OrphanCollector {
	return NewOrphanCollector(clients, testExecutor(rep, dryRun), rep, zap.NewNop(), 4, dryRun)
}

func TestSweepDeletesManagedOrphan(t *testing.T) {
	network := testNetwork("sub-a", "spoke-1", "eastus")
	client := azure.NewFakeClient("sub-a", network)
	client.SetPeering(network, azure.Peering{
		Name:            "vnetmesh-spoke-1-to-hub-gone",
		State:           azure.PeeringStateDisconnected,
		RemoteNetworkID: "/subscriptions/sub-gone/resourcegroups/rg/providers/microsoft.network/virtualnetworks/hub-gone",
	})

	rep := report.New()
	c := orphanCollector(azure.ClientSet{"sub-a": client}, rep, false)
	c.Sweep(context.Background(), []string{"eastus"})

	assert.False(t, client.HasPeering(network, "vnetmesh-spoke-1-to-hub-gone"))
	assert.Equal(t, 1, client.DeleteCalls)

	snap := rep.Snapshot()
	require.Len(t, snap.DeletedOrphans, 1)
	assert.Equal(t, "spoke-1", snap.DeletedOrphans[0].NetworkName)
	assert.Equal(t, "vnetmesh-spoke-1-to-hub-gone", snap.DeletedOrphans[0].PeeringName)
	assert.Empty(t, snap.OrphanCandidates)
}

func TestSweepDryRunRecordsCandidateOnly(t *testing.T) {
	network := testNetwork("sub-a", "spoke-1", "eastus")
	client := azure.NewFakeClient("sub-a", network)
	client.SetPeering(network, azure.Peering{
		Name:            "vnetmesh-spoke-1-to-hub-gone",
		RemoteNetworkID: "/subscriptions/sub-gone/resourcegroups/rg/providers/microsoft.network/virtualnetworks/hub-gone",
	})

	rep := report.New()
	c := orphanCollector(azure.ClientSet{"sub-a": client}, rep, true)
	c.Sweep(context.Background(), []string{"eastus"})

	assert.True(t, client.HasPeering(network, "vnetmesh-spoke-1-to-hub-gone"))
	assert.Zero(t, client.DeleteCalls)

	snap := rep.Snapshot()
	assert.Empty(t, snap.DeletedOrphans)
	require.Len(t, snap.OrphanCandidates, 1)
	assert.Equal(t, "vnetmesh-spoke-1-to-hub-gone", snap.OrphanCandidates[0].PeeringName)
}

func TestSweepNeverTouchesUnmanagedPeerings(t *testing.T) {
	network := testNetwork("sub-a", "spoke-1", "eastus")
	client := azure.NewFakeClient("sub-a", network)
	client.SetPeering(network, azure.Peering{
		Name:            "manually-created-link",
		RemoteNetworkID: "/subscriptions/sub-gone/resourcegroups/rg/providers/microsoft.network/virtualnetworks/hub-gone",
	})

	rep := report.New()
	c := orphanCollector(azure.ClientSet{"sub-a": client}, rep, false)
	c.Sweep(context.Background(), []string{"eastus"})

	assert.True(t, client.HasPeering(network, "manually-created-link"))
	assert.Zero(t, client.DeleteCalls)
	assert.Empty(t, rep.Snapshot().DeletedOrphans)
}

func TestSweepKeepsPeeringWithValidRemote(t *testing.T) {
	hub := testNetwork("sub-hub", "hub-east", "eastus")
	spoke := testNetwork("sub-a", "spoke-1", "eastus")

	hubClient := azure.NewFakeClient("sub-hub", hub)
	spokeClient := azure.NewFakeClient("sub-a", spoke)
	// Remote ID casing differs from the stored network ID on purpose.
	spokeClient.SetPeering(spoke, azure.Peering{
		Name:            "vnetmesh-spoke-1-to-hub-east",
		RemoteNetworkID: strings.ToUpper(hub.ID),
	})

	rep := report.New()
	c := orphanCollector(azure.ClientSet{"sub-hub": hubClient, "sub-a": spokeClient}, rep, false)
	c.Sweep(context.Background(), []string{"eastus"})

	assert.True(t, spokeClient.HasPeering(spoke, "vnetmesh-spoke-1-to-hub-east"))
	assert.Zero(t, spokeClient.DeleteCalls)
}

func TestSweepIgnoresNetworksOutsideValidRegions(t *testing.T) {
	network := testNetwork("sub-a", "spoke-west", "westeurope")
	client := azure.NewFakeClient("sub-a", network)
	client.SetPeering(network, azure.Peering{
		Name:            "vnetmesh-spoke-west-to-hub-gone",
		RemoteNetworkID: "/subscriptions/sub-gone/resourcegroups/rg/providers/microsoft.network/virtualnetworks/hub-gone",
	})

	rep := report.New()
	c := orphanCollector(azure.ClientSet{"sub-a": client}, rep, false)
	c.Sweep(context.Background(), []string{"eastus"})

	// The network is out of scope, so its peerings are never inspected.
	assert.Zero(t, client.ListPeeringsCalls)
	assert.True(t, client.HasPeering(network, "vnetmesh-spoke-west-to-hub-gone"))
}

func TestSweepSurvivesListFailures(t *testing.T) {
	broken := azure.NewFakeClient("sub-broken", testNetwork("sub-broken", "spoke-x", "eastus"))
	broken.ListNetworksErr = assert.AnError

	network := testNetwork("sub-a", "spoke-1", "eastus")
	client := azure.NewFakeClient("sub-a", network)
	client.SetPeering(network, azure.Peering{
		Name:            "vnetmesh-spoke-1-to-hub-gone",
		RemoteNetworkID: "/subscriptions/sub-gone/resourcegroups/rg/providers/microsoft.network/virtualnetworks/hub-gone",
	})

	rep := report.New()
	c := orphanCollector(azure.ClientSet{"sub-broken": broken, "sub-a": client}, rep, false)
	c.Sweep(context.Background(), []string{"eastus"})

	// The healthy subscription is still swept.
	assert.Equal(t, 1, client.DeleteCalls)
	assert.Len(t, rep.Snapshot().DeletedOrphans, 1)
}
