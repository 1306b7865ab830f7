package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadRegions reads an ordered region list from a file, one region per line.
// Blank lines and lines starting with '#' are skipped.
func LoadRegions(path string) ([]string, error) {
	// #nosec G304
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open region file: %w", err)
	}
	defer f.Close()

	var regions []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		regions = append(regions, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read region file %s: %w", path, err)
	}

	return regions, nil
}

// Resolve returns the region pair's hub and spoke region lists, reading
// region files when inline lists are not given. Files are re-read on every
// call; topology inputs are never cached across phases.
func (p RegionPair) Resolve() (hub, spoke []string, err error) {
	hub = p.HubRegions
	if len(hub) == 0 {
		hub, err = LoadRegions(p.HubRegionsFile)
		if err != nil {
			return nil, nil, fmt.Errorf("hub regions for %s: %w", p.Label(), err)
		}
	}

	spoke = p.SpokeRegions
	if len(spoke) == 0 {
		spoke, err = LoadRegions(p.SpokeRegionsFile)
		if err != nil {
			return nil, nil, fmt.Errorf("spoke regions for %s: %w", p.Label(), err)
		}
	}

	return hub, spoke, nil
}
