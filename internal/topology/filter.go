// Package topology discovers virtual networks matching region, name-prefix,
// and tag criteria across many subscriptions.
package topology

import (
	"strings"

	"github.com/perimeterlab/vnetmesh/internal/platform/azure"
)

// Criteria selects networks by location, name prefix, and an optional tag
// predicate. Region and tag matching are case-insensitive; the tag predicate
// is substring containment on the tag value.
type Criteria struct {
	Regions      []string
	NamePrefixes []string
	TagKey       string
	TagContains  string
}

// Matcher compiles the criteria into a single predicate over network
// snapshots. The returned function performs no I/O.
func (c Criteria) Matcher() func(azure.Network) bool {
	regions := make(map[string]struct{}, len(c.Regions))
	for _, r := range c.Regions {
		regions[strings.ToLower(r)] = struct{}{}
	}
	tagContains := strings.ToLower(c.TagContains)

	return func(n azure.Network) bool {
		if _, ok := regions[strings.ToLower(n.Location)]; !ok {
			return false
		}

		matched := false
		for _, prefix := range c.NamePrefixes {
			if strings.HasPrefix(n.Name, prefix) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}

		if c.TagKey != "" && tagContains != "" {
			val := strings.ToLower(n.Tags[c.TagKey])
			if !strings.Contains(val, tagContains) {
				return false
			}
		}

		return true
	}
}
