package peering

import (
	"time"

	"go.uber.org/zap"

	"github.com/perimeterlab/vnetmesh/internal/config"
	"github.com/perimeterlab/vnetmesh/internal/platform/azure"
	"github.com/perimeterlab/vnetmesh/internal/report"
)

func testNetwork(sub, name, location string) azure.Network {
	return azure.Network{
		ID:             "/subscriptions/" + sub + "/resourceGroups/rg-" + sub + "/providers/Microsoft.Network/virtualNetworks/" + name,
		Name:           name,
		Location:       location,
		SubscriptionID: sub,
		ResourceGroup:  "rg-" + sub,
	}
}

func testExecutor(rep *report.Report, dryRun bool) *Executor {
	return NewExecutor(rep, zap.NewNop(), dryRun, &config.Timeouts{
		Operation:         time.Second,
		RetryInitialDelay: time.Millisecond,
	})
}
