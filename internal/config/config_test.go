package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		HubSubscriptions: []string{"sub-hub"},
		RegionPairs: []RegionPair{
			{Name: "us", HubRegions: []string{"eastus"}, SpokeRegions: []string{"eastus", "westus"}},
		},
		HubPrefixes:   []string{"hub-"},
		SpokePrefixes: []string{"spoke-"},
		Workers:       4,
	}
}

func TestValidateOK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateListsAllProblems(t *testing.T) {
	cfg := &Config{Workers: -1}
	err := cfg.Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "hubSubscriptions")
	assert.Contains(t, msg, "regionPairs")
	assert.Contains(t, msg, "hubPrefixes")
	assert.Contains(t, msg, "spokePrefixes")
	assert.Contains(t, msg, "workers")
}

func TestValidateRegionPairNeedsBothSides(t *testing.T) {
	cfg := validConfig()
	cfg.RegionPairs = append(cfg.RegionPairs, RegionPair{Name: "broken", HubRegions: []string{"eastus"}})

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "regionPairs[1]")
}

// A subscription may not be a hub and spoke-excluded at the same time; the
// conflict is rejected at load time rather than silently scanning it as a hub.
func TestValidateRejectsExcludedHubSubscription(t *testing.T) {
	cfg := validConfig()
	cfg.HubSubscriptions = []string{"sub-conflict"}
	cfg.SpokeExcludeSubscriptions = []string{"SUB-CONFLICT"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sub-conflict")
	assert.Contains(t, err.Error(), "both hubSubscriptions and spokeExcludeSubscriptions")
}

func TestIsExcludedCaseInsensitive(t *testing.T) {
	cfg := validConfig()
	cfg.SpokeExcludeSubscriptions = []string{"SUB-Excluded"}

	assert.True(t, cfg.IsExcluded("sub-excluded"))
	assert.False(t, cfg.IsExcluded("sub-other"))
}

func TestRegionPairLabel(t *testing.T) {
	assert.Equal(t, "custom", RegionPair{Name: "custom"}.Label())
	assert.Equal(t, "hubUS <-> spokeUS",
		RegionPair{HubRegionsFile: "regions/hubUS", SpokeRegionsFile: "regions/spokeUS"}.Label())
	assert.Equal(t, "eastus <-> eastus,westus",
		RegionPair{HubRegions: []string{"eastus"}, SpokeRegions: []string{"eastus", "westus"}}.Label())
}

func TestLoadCredentialsFromEnv(t *testing.T) {
	t.Setenv("AZURE_TENANT_ID", "tenant")
	t.Setenv("AZURE_CLIENT_ID", "client")
	t.Setenv("AZURE_CLIENT_SECRET", "secret")

	creds, err := LoadCredentialsFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "tenant", creds.TenantID)
}

func TestLoadCredentialsFromEnvListsMissing(t *testing.T) {
	t.Setenv("AZURE_TENANT_ID", "tenant")
	t.Setenv("AZURE_CLIENT_ID", "")
	t.Setenv("AZURE_CLIENT_SECRET", "")

	_, err := LoadCredentialsFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AZURE_CLIENT_ID")
	assert.Contains(t, err.Error(), "AZURE_CLIENT_SECRET")
	assert.NotContains(t, err.Error(), "AZURE_TENANT_ID")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vnetmesh.yaml")
	content := `
hubSubscriptions: [sub-hub]
spokeExcludeSubscriptions: [sub-mgmt]
regionPairs:
  - name: us
    hubRegions: [eastus]
    spokeRegions: [eastus, westus]
hubPrefixes: [hub-]
spokePrefixes: [spoke-, app-]
hubTag:
  key: appname
  contains: hub
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"sub-hub"}, cfg.HubSubscriptions)
	assert.Equal(t, []string{"spoke-", "app-"}, cfg.SpokePrefixes)
	assert.Equal(t, "appname", cfg.HubTag.Key)
	assert.Equal(t, defaultWorkers, cfg.Workers)
	assert.Equal(t, ".", cfg.ReportDir)
}

func TestLoadFileInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vnetmesh.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hubSubscriptions: []\n"), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
