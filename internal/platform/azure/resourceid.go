package azure

import (
	"fmt"
	"strings"
)

// ParseResourceID extracts the subscription ID and resource group name from a
// full resource path of the form
// /subscriptions/<sub>/resourceGroups/<rg>/providers/... .
// Segment keys are matched case-insensitively; the API is not consistent
// about the casing of "resourceGroups".
func ParseResourceID(id string) (subscriptionID, resourceGroup string, err error) {
	parts := strings.Split(strings.Trim(id, "/"), "/")
	for i := 0; i+1 < len(parts); i += 2 {
		switch strings.ToLower(parts[i]) {
		case "subscriptions":
			subscriptionID = parts[i+1]
		case "resourcegroups":
			resourceGroup = parts[i+1]
		}
	}
	if subscriptionID == "" || resourceGroup == "" {
		return "", "", fmt.Errorf("malformed resource ID %q", id)
	}
	return subscriptionID, resourceGroup, nil
}
