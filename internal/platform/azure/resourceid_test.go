package azure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResourceID(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		wantSub     string
		wantRG      string
		wantErr     bool
	}{
		{
			name:    "canonical vnet ID",
			id:      "/subscriptions/aaaa-bbbb/resourceGroups/rg-hub/providers/Microsoft.Network/virtualNetworks/hub-eastus",
			wantSub: "aaaa-bbbb",
			wantRG:  "rg-hub",
		},
		{
			name:    "lowercase resourcegroups segment",
			id:      "/subscriptions/aaaa-bbbb/resourcegroups/rg-spoke/providers/Microsoft.Network/virtualNetworks/spoke-1",
			wantSub: "aaaa-bbbb",
			wantRG:  "rg-spoke",
		},
		{
			name:    "missing resource group",
			id:      "/subscriptions/aaaa-bbbb",
			wantErr: true,
		},
		{
			name:    "empty",
			id:      "",
			wantErr: true,
		},
		{
			name:    "garbage",
			id:      "not/a/resource/id",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, rg, err := ParseResourceID(tt.id)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSub, sub)
			assert.Equal(t, tt.wantRG, rg)
		})
	}
}
