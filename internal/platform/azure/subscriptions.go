package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armsubscriptions"
)

// Subscription describes one tenant subscription discovered at startup.
type Subscription struct {
	ID          string
	DisplayName string
}

// ListEnabledSubscriptions returns every enabled subscription visible to the
// credential. Disabled and warned subscriptions are skipped.
func ListEnabledSubscriptions(ctx context.Context, cred azcore.TokenCredential) ([]Subscription, error) {
	client, err := armsubscriptions.NewClient(cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscriptions client: %w", err)
	}

	var subs []Subscription
	pager := client.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list tenant subscriptions: %w", err)
		}
		for _, s := range page.Value {
			if s == nil || s.SubscriptionID == nil {
				continue
			}
			if s.State == nil || *s.State != armsubscriptions.SubscriptionStateEnabled {
				continue
			}
			sub := Subscription{ID: *s.SubscriptionID}
			if s.DisplayName != nil {
				sub.DisplayName = *s.DisplayName
			}
			subs = append(subs, sub)
		}
	}

	return subs, nil
}
