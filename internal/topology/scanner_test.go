package topology

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/perimeterlab/vnetmesh/internal/platform/azure"
)

func testNetwork(sub, name, location string) azure.Network {
	return azure.Network{
		ID:             "/subscriptions/" + sub + "/resourceGroups/rg/providers/Microsoft.Network/virtualNetworks/" + name,
		Name:           name,
		Location:       location,
		SubscriptionID: sub,
		ResourceGroup:  "rg",
	}
}

func TestScanAcrossSubscriptions(t *testing.T) {
	clients := azure.ClientSet{
		"sub-a": azure.NewFakeClient("sub-a",
			testNetwork("sub-a", "spoke-1", "eastus"),
			testNetwork("sub-a", "other-1", "eastus"),
		),
		"sub-b": azure.NewFakeClient("sub-b",
			testNetwork("sub-b", "spoke-2", "eastus"),
			testNetwork("sub-b", "spoke-3", "westus"),
		),
	}
	s := NewScanner(clients, 4, zap.NewNop())

	matched, scanned := s.Scan(context.Background(), []string{"sub-a", "sub-b"},
		Criteria{Regions: []string{"eastus"}, NamePrefixes: []string{"spoke-"}})

	assert.Equal(t, 4, scanned)

	names := make([]string, 0, len(matched))
	for _, n := range matched {
		names = append(names, n.Name)
	}
	assert.ElementsMatch(t, []string{"spoke-1", "spoke-2"}, names)
}

func TestScanPartialFailureIsIsolated(t *testing.T) {
	broken := azure.NewFakeClient("sub-broken")
	broken.ListNetworksErr = errors.New("403 forbidden")

	clients := azure.ClientSet{
		"sub-ok":     azure.NewFakeClient("sub-ok", testNetwork("sub-ok", "spoke-1", "eastus")),
		"sub-broken": broken,
	}
	s := NewScanner(clients, 2, zap.NewNop())

	matched, scanned := s.Scan(context.Background(), []string{"sub-ok", "sub-broken"},
		Criteria{Regions: []string{"eastus"}, NamePrefixes: []string{"spoke-"}})

	assert.Len(t, matched, 1)
	assert.Equal(t, 1, scanned)
}

func TestScanSkipsSubscriptionWithoutClient(t *testing.T) {
	clients := azure.ClientSet{
		"sub-a": azure.NewFakeClient("sub-a", testNetwork("sub-a", "spoke-1", "eastus")),
	}
	s := NewScanner(clients, 2, zap.NewNop())

	matched, _ := s.Scan(context.Background(), []string{"sub-a", "sub-missing"},
		Criteria{Regions: []string{"eastus"}, NamePrefixes: []string{"spoke-"}})

	assert.Len(t, matched, 1)
}
