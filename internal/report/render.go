package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<title>VNet Peering Report</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; }
h1, h2, h3 { color: #333; }
table { border-collapse: collapse; width: 100%; margin: 20px 0; }
th, td { border: 1px solid #ccc; text-align: left; padding: 8px; }
th { background-color: #f0f0f0; }
tr:nth-child(even) { background-color: #f9f9f9; }
.summary { background-color: #e8f4f8; padding: 15px; border-radius: 5px; margin: 20px 0; }
</style>
</head>
<body>
<h1>VNet Peering Report{{if .DryRun}} (dry run){{end}}</h1>
<div class="summary">
{{if .DryRun}}<strong>Mode:</strong> dry run, no changes were applied<br>
{{end}}<strong>Started:</strong> {{.StartedAt.Format "2006-01-02 15:04:05 UTC"}}<br>
<strong>Finished:</strong> {{.FinishedAt.Format "2006-01-02 15:04:05 UTC"}}<br>
<strong>Networks scanned:</strong> {{.NetworksScanned}}<br>
<strong>Peerings checked:</strong> {{.PeeringsChecked}}<br>
<strong>Mutating operations:</strong> {{.MutatingOperations}}<br>
<strong>Successful pairs:</strong> {{len .Successful}}<br>
<strong>Failed pairs:</strong> {{len .Failed}}<br>
<strong>Deleted orphans:</strong> {{len .DeletedOrphans}}<br>
<strong>Critical failures:</strong> {{len .CriticalFailures}}
</div>

<h2>Successful Pairs</h2>
{{if .Successful}}
<table>
<tr><th>Hub Network</th><th>Spoke Network</th><th>Status</th><th>Action</th></tr>
{{range .Successful}}<tr><td>{{.HubNetwork}}</td><td>{{.SpokeNetwork}}</td><td>{{.Status}}</td><td>{{.Action}}</td></tr>
{{end}}</table>
{{else}}<p>No successful peering operations.</p>{{end}}

<h2>Failed Pairs</h2>
{{if .Failed}}
<table>
<tr><th>Hub Network</th><th>Spoke Network</th><th>Error</th></tr>
{{range .Failed}}<tr><td>{{.HubNetwork}}</td><td>{{.SpokeNetwork}}</td><td>{{.Error}}</td></tr>
{{end}}</table>
{{else}}<p>No peering failures encountered.</p>{{end}}

<h2>All Pairs by Region Pair</h2>
{{range .RegionGroups}}
<h3>{{.Label}}</h3>
<table>
<tr><th>Hub Network</th><th>Spoke Network</th><th>Status</th><th>Action</th><th>Error</th></tr>
{{range .Pairs}}<tr><td>{{.HubNetwork}}</td><td>{{.SpokeNetwork}}</td><td>{{.Status}}</td><td>{{.Action}}</td><td>{{if .Error}}{{.Error}}{{else}}-{{end}}</td></tr>
{{end}}</table>
{{end}}

<h2>Deleted Orphan Peerings</h2>
{{if .DeletedOrphans}}
<table>
<tr><th>Network</th><th>Peering Name</th><th>Remote Network ID</th></tr>
{{range .DeletedOrphans}}<tr><td>{{.NetworkName}}</td><td>{{.PeeringName}}</td><td>{{.RemoteID}}</td></tr>
{{end}}</table>
{{else}}<p>No orphan peerings were deleted.</p>{{end}}

{{if .OrphanCandidates}}
<h2>Orphan Candidates (dry run)</h2>
<table>
<tr><th>Network</th><th>Peering Name</th><th>Remote Network ID</th></tr>
{{range .OrphanCandidates}}<tr><td>{{.NetworkName}}</td><td>{{.PeeringName}}</td><td>{{.RemoteID}}</td></tr>
{{end}}</table>
{{end}}

{{if .CriticalFailures}}
<h2>Critical Failures</h2>
<table>
<tr><th>Peering Name</th><th>Source Network</th><th>Remote Network</th><th>Error</th></tr>
{{range .CriticalFailures}}<tr><td>{{.PeeringName}}</td><td>{{.SourceNetworkID}}</td><td>{{.RemoteNetworkID}}</td><td>{{.Error}}</td></tr>
{{end}}</table>
{{end}}
</body>
</html>
`

var reportTmpl = template.Must(template.New("report").Parse(htmlTemplate))

// RegionGroup holds the pairs of one region-pair label for rendering.
type RegionGroup struct {
	Label string
	Pairs []PairResult
}

// RegionGroups returns the all-pairs stream grouped by label, sorted by label
// so rendered output is deterministic.
func (s Snapshot) RegionGroups() []RegionGroup {
	grouped := s.ByRegionPair()

	labels := make([]string, 0, len(grouped))
	for label := range grouped {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	groups := make([]RegionGroup, 0, len(labels))
	for _, label := range labels {
		groups = append(groups, RegionGroup{Label: label, Pairs: grouped[label]})
	}
	return groups
}

// RenderHTML renders the snapshot as a standalone HTML document.
func RenderHTML(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, s); err != nil {
		return nil, fmt.Errorf("failed to render HTML report: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderJSON renders the snapshot as an indented JSON document.
func RenderJSON(s Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render JSON report: %w", err)
	}
	return data, nil
}

// WriteFiles writes the HTML and JSON renderings to dir with timestamped
// names and returns both paths.
func WriteFiles(dir string, s Snapshot) (htmlPath, jsonPath string, err error) {
	stamp := s.FinishedAt
	if stamp.IsZero() {
		stamp = time.Now().UTC()
	}
	base := fmt.Sprintf("vnet_peering_report_%s", stamp.Format("20060102_150405"))

	html, err := RenderHTML(s)
	if err != nil {
		return "", "", err
	}
	jsonDoc, err := RenderJSON(s)
	if err != nil {
		return "", "", err
	}

	htmlPath = filepath.Join(dir, base+".html")
	jsonPath = filepath.Join(dir, base+".json")

	if err := os.WriteFile(htmlPath, html, 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write %s: %w", htmlPath, err)
	}
	if err := os.WriteFile(jsonPath, jsonDoc, 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write %s: %w", jsonPath, err)
	}
	return htmlPath, jsonPath, nil
}
