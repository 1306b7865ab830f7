// Package main is the entry point for the vnetmesh CLI.
//
// vnetmesh converges Azure virtual network peering topology: every hub
// network is bidirectionally peered with every spoke network of its region
// pair, unhealthy peerings are recreated, and orphaned peerings whose remote
// network no longer exists are removed.
//
// Commands: apply, sweep, version.
//
// For detailed usage information, run:
//
//	vnetmesh --help
package main

import (
	"fmt"
	"os"

	"github.com/perimeterlab/vnetmesh/cmd/vnetmesh/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
