// Package peering implements the reconciliation engine: the per-pair peering
// state machine, the retrying mutation executor, and the orphan sweep.
package peering

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// Naming for peering resources. Every peering the system creates carries the
// ownership prefix; it is the sole marker distinguishing system-managed
// peerings from anything else on the same network. Changing it strands every
// peering created under the old prefix, so don't.
const (
	ownershipPrefix = "vnetmesh"

	// maxNameLength is the provider's hard limit on peering resource names.
	maxNameLength = 79

	hashLength = 8
)

// PeeringName derives the deterministic name for the a→b side of a peering.
// Direction is embedded, so PeeringName(a, b) differs from PeeringName(b, a).
// Names exceeding the provider limit are shortened: both network names are
// cut to an equal budget and a short hash of the untruncated name is
// appended, so pairs that would truncate identically still get distinct
// names. The truncated return lets callers log the event; it is not an error.
func PeeringName(a, b string) (name string, truncated bool) {
	name = fmt.Sprintf("%s-%s-to-%s", ownershipPrefix, a, b)
	if len(name) <= maxNameLength {
		return name, false
	}

	h := fnv.New32a()
	h.Write([]byte(name))
	suffix := fmt.Sprintf("%08x", h.Sum32())

	// "<prefix>-<a>-to-<b>-<hash>" with an equal budget per side.
	overhead := len(ownershipPrefix) + len("--to--") + hashLength
	budget := (maxNameLength - overhead) / 2

	name = fmt.Sprintf("%s-%s-to-%s-%s",
		ownershipPrefix, clip(a, budget), clip(b, budget), suffix)
	return name, true
}

// IsManaged reports whether the peering name carries the ownership prefix.
// The orphan collector never touches peerings that fail this check.
func IsManaged(name string) bool {
	return strings.HasPrefix(name, ownershipPrefix+"-")
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
