// Package config loads and validates the reconciler configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config is the full configuration of a reconciliation run.
type Config struct {
	// HubSubscriptions are the subscriptions searched for hub networks.
	HubSubscriptions []string `yaml:"hubSubscriptions"`

	// SpokeExcludeSubscriptions are removed from the spoke search. A
	// subscription listed here never contributes networks in either role.
	SpokeExcludeSubscriptions []string `yaml:"spokeExcludeSubscriptions"`

	// RegionPairs associates hub regions with the spoke regions that must be
	// peered to them.
	RegionPairs []RegionPair `yaml:"regionPairs"`

	// HubPrefixes are the name prefixes identifying hub networks.
	HubPrefixes []string `yaml:"hubPrefixes"`

	// SpokePrefixes are the name prefixes identifying spoke networks.
	SpokePrefixes []string `yaml:"spokePrefixes"`

	// HubTag optionally narrows the hub search to networks whose tag value
	// contains a substring.
	HubTag TagFilter `yaml:"hubTag"`

	// Workers bounds the parallelism of scans, pair reconciliation, and the
	// orphan sweep.
	Workers int `yaml:"workers"`

	DryRun      bool   `yaml:"dryRun"`
	SkipCleanup bool   `yaml:"skipCleanup"`
	ReportDir   string `yaml:"reportDir"`

	// Archive optionally uploads rendered reports to S3-compatible storage.
	Archive *ArchiveConfig `yaml:"archive"`

	// Credentials are read from the environment, never from the file.
	Credentials Credentials `yaml:"-"`
}

// RegionPair names a hub-region set and the spoke-region set peered to it.
// Regions come either inline or from a file with one region per line.
type RegionPair struct {
	Name             string   `yaml:"name"`
	HubRegions       []string `yaml:"hubRegions"`
	HubRegionsFile   string   `yaml:"hubRegionsFile"`
	SpokeRegions     []string `yaml:"spokeRegions"`
	SpokeRegionsFile string   `yaml:"spokeRegionsFile"`
}

// Label returns the region-pair label used to group report entries.
func (p RegionPair) Label() string {
	if p.Name != "" {
		return p.Name
	}
	hub := p.HubRegionsFile
	if hub == "" {
		hub = strings.Join(p.HubRegions, ",")
	} else {
		hub = filepath.Base(hub)
	}
	spoke := p.SpokeRegionsFile
	if spoke == "" {
		spoke = strings.Join(p.SpokeRegions, ",")
	} else {
		spoke = filepath.Base(spoke)
	}
	return fmt.Sprintf("%s <-> %s", hub, spoke)
}

// TagFilter matches a tag whose value contains a substring,
// case-insensitively.
type TagFilter struct {
	Key      string `yaml:"key"`
	Contains string `yaml:"contains"`
}

// Empty reports whether the filter is unset.
func (f TagFilter) Empty() bool {
	return f.Key == "" || f.Contains == ""
}

// ArchiveConfig points at an S3-compatible bucket for report archival.
// Access keys come from VNETMESH_ARCHIVE_ACCESS_KEY and
// VNETMESH_ARCHIVE_SECRET_KEY.
type ArchiveConfig struct {
	Endpoint string `yaml:"endpoint"`
	Region   string `yaml:"region"`
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
}

// ArchiveKeys hold the static access keys for report archival.
type ArchiveKeys struct {
	AccessKey string
	SecretKey string
}

// LoadArchiveKeysFromEnv reads the archive access keys from
// VNETMESH_ARCHIVE_ACCESS_KEY and VNETMESH_ARCHIVE_SECRET_KEY.
func LoadArchiveKeysFromEnv() (ArchiveKeys, error) {
	keys := ArchiveKeys{
		AccessKey: os.Getenv("VNETMESH_ARCHIVE_ACCESS_KEY"),
		SecretKey: os.Getenv("VNETMESH_ARCHIVE_SECRET_KEY"),
	}

	var missing []string
	if keys.AccessKey == "" {
		missing = append(missing, "VNETMESH_ARCHIVE_ACCESS_KEY")
	}
	if keys.SecretKey == "" {
		missing = append(missing, "VNETMESH_ARCHIVE_SECRET_KEY")
	}
	if len(missing) > 0 {
		return ArchiveKeys{}, fmt.Errorf("missing archive keys: %s", strings.Join(missing, ", "))
	}
	return keys, nil
}

// Credentials hold the service-principal identity used for all remote calls.
type Credentials struct {
	TenantID     string
	ClientID     string
	ClientSecret string
}

// LoadCredentialsFromEnv reads the service-principal credentials from
// AZURE_TENANT_ID, AZURE_CLIENT_ID, and AZURE_CLIENT_SECRET. Every missing
// variable is named in the returned error so a misconfigured run fails before
// any remote call.
func LoadCredentialsFromEnv() (Credentials, error) {
	creds := Credentials{
		TenantID:     os.Getenv("AZURE_TENANT_ID"),
		ClientID:     os.Getenv("AZURE_CLIENT_ID"),
		ClientSecret: os.Getenv("AZURE_CLIENT_SECRET"),
	}

	var missing []string
	if creds.TenantID == "" {
		missing = append(missing, "AZURE_TENANT_ID")
	}
	if creds.ClientID == "" {
		missing = append(missing, "AZURE_CLIENT_ID")
	}
	if creds.ClientSecret == "" {
		missing = append(missing, "AZURE_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return Credentials{}, fmt.Errorf("missing required credentials: %s", strings.Join(missing, ", "))
	}
	return creds, nil
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var problems []string

	if len(c.HubSubscriptions) == 0 {
		problems = append(problems, "hubSubscriptions must list at least one subscription")
	}
	if len(c.RegionPairs) == 0 {
		problems = append(problems, "regionPairs must list at least one pair")
	}
	for i, p := range c.RegionPairs {
		if len(p.HubRegions) == 0 && p.HubRegionsFile == "" {
			problems = append(problems, fmt.Sprintf("regionPairs[%d]: hubRegions or hubRegionsFile is required", i))
		}
		if len(p.SpokeRegions) == 0 && p.SpokeRegionsFile == "" {
			problems = append(problems, fmt.Sprintf("regionPairs[%d]: spokeRegions or spokeRegionsFile is required", i))
		}
	}
	for _, hub := range c.HubSubscriptions {
		if c.IsExcluded(hub) {
			problems = append(problems, fmt.Sprintf("subscription %s is listed in both hubSubscriptions and spokeExcludeSubscriptions", hub))
		}
	}
	if len(c.HubPrefixes) == 0 {
		problems = append(problems, "hubPrefixes must list at least one name prefix")
	}
	if len(c.SpokePrefixes) == 0 {
		problems = append(problems, "spokePrefixes must list at least one name prefix")
	}
	if c.Workers < 0 {
		problems = append(problems, "workers must not be negative")
	}
	if c.Archive != nil {
		if c.Archive.Endpoint == "" || c.Archive.Region == "" || c.Archive.Bucket == "" {
			problems = append(problems, "archive requires endpoint, region, and bucket")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// IsExcluded reports whether the subscription is excluded from the spoke
// search. Comparison is case-insensitive.
func (c *Config) IsExcluded(subscriptionID string) bool {
	for _, ex := range c.SpokeExcludeSubscriptions {
		if strings.EqualFold(ex, subscriptionID) {
			return true
		}
	}
	return false
}
