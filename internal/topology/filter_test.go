package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/perimeterlab/vnetmesh/internal/platform/azure"
)

func network(name, location string, tags map[string]string) azure.Network {
	return azure.Network{
		ID:       "/subscriptions/sub-a/resourceGroups/rg/providers/Microsoft.Network/virtualNetworks/" + name,
		Name:     name,
		Location: location,
		Tags:     tags,
	}
}

func TestMatcher(t *testing.T) {
	crit := Criteria{
		Regions:      []string{"EastUS", "westeurope"},
		NamePrefixes: []string{"hub-", "core-"},
		TagKey:       "appname",
		TagContains:  "HUB",
	}
	matches := crit.Matcher()

	tests := []struct {
		name string
		net  azure.Network
		want bool
	}{
		{
			name: "all criteria match, region case-insensitive",
			net:  network("hub-east", "eastus", map[string]string{"appname": "fw-hub-prod"}),
			want: true,
		},
		{
			name: "tag value case-insensitive",
			net:  network("core-eu", "WestEurope", map[string]string{"appname": "the-Hub"}),
			want: true,
		},
		{
			name: "wrong region",
			net:  network("hub-apac", "southeastasia", map[string]string{"appname": "hub"}),
			want: false,
		},
		{
			name: "wrong prefix",
			net:  network("spoke-east", "eastus", map[string]string{"appname": "hub"}),
			want: false,
		},
		{
			name: "tag value does not contain substring",
			net:  network("hub-east", "eastus", map[string]string{"appname": "spoke"}),
			want: false,
		},
		{
			name: "tag missing entirely",
			net:  network("hub-east", "eastus", nil),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matches(tt.net))
		})
	}
}

func TestMatcherWithoutTagPredicate(t *testing.T) {
	crit := Criteria{
		Regions:      []string{"eastus"},
		NamePrefixes: []string{"spoke-"},
	}
	matches := crit.Matcher()

	assert.True(t, matches(network("spoke-1", "eastus", nil)))
	assert.False(t, matches(network("spoke-1", "westus", nil)))
}

// Name prefix matching is case-sensitive, unlike regions and tags.
func TestMatcherPrefixCaseSensitive(t *testing.T) {
	matches := Criteria{Regions: []string{"eastus"}, NamePrefixes: []string{"MISP"}}.Matcher()

	assert.True(t, matches(network("MISP-core", "eastus", nil)))
	assert.False(t, matches(network("misp-core", "eastus", nil)))
}
