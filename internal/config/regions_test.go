package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRegionFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "regions")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRegions(t *testing.T) {
	path := writeRegionFile(t, "eastus\n\n# primary EU region\nwesteurope\n  northeurope  \n")

	regions, err := LoadRegions(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"eastus", "westeurope", "northeurope"}, regions)
}

func TestLoadRegionsMissingFile(t *testing.T) {
	_, err := LoadRegions(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}

func TestResolveInlineWinsOverFile(t *testing.T) {
	pair := RegionPair{
		HubRegions:       []string{"eastus"},
		SpokeRegionsFile: writeRegionFile(t, "westus\n"),
	}

	hub, spoke, err := pair.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []string{"eastus"}, hub)
	assert.Equal(t, []string{"westus"}, spoke)
}

func TestResolveFileError(t *testing.T) {
	pair := RegionPair{
		Name:           "broken",
		HubRegionsFile: filepath.Join(t.TempDir(), "absent"),
		SpokeRegions:   []string{"westus"},
	}

	_, _, err := pair.Resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}
