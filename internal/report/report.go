// Package report aggregates the outcomes of a reconciliation run.
//
// The Report is the only piece of state shared between parallel workers; all
// appends go through a mutex so concurrent writers never interleave entries.
package report

import (
	"sync"
	"time"

	"github.com/perimeterlab/vnetmesh/internal/platform/azure"
)

// Status is the terminal state of a reconciled pair.
type Status string

const (
	StatusHealthy   Status = "Healthy"
	StatusConnected Status = "Connected"
	StatusFailed    Status = "Failed"
)

// Action is what the reconciler did to a pair.
type Action string

const (
	ActionNoChange Action = "NoChange"
	ActionCreated  Action = "Created"
	ActionRepaired Action = "Repaired"
	ActionFailed   Action = "Failed"
)

// PairResult is the immutable outcome of reconciling one hub×spoke pair.
type PairResult struct {
	HubNetwork   string `json:"hubNetwork"`
	SpokeNetwork string `json:"spokeNetwork"`
	RegionPair   string `json:"regionPair"`
	Status       Status `json:"status"`
	Action       Action `json:"action"`
	Error        string `json:"error,omitempty"`
}

// OrphanRecord describes one system-owned peering whose remote network no
// longer exists. Appended to the deleted stream only after confirmed
// deletion; dry runs append to the candidate stream instead.
type OrphanRecord struct {
	NetworkName string `json:"networkName"`
	PeeringName string `json:"peeringName"`
	RemoteID    string `json:"remoteId"`
}

// CriticalFailure records a create that exhausted its retries. It carries
// enough context for manual remediation without re-running the scan.
type CriticalFailure struct {
	PeeringName         string              `json:"peeringName"`
	SourceNetworkID     string              `json:"sourceNetworkId"`
	RemoteNetworkID     string              `json:"remoteNetworkId"`
	SourceSubscription  string              `json:"sourceSubscription"`
	RemoteSubscription  string              `json:"remoteSubscription"`
	SourceResourceGroup string              `json:"sourceResourceGroup"`
	RemoteResourceGroup string              `json:"remoteResourceGroup"`
	Flags               azure.PeeringConfig `json:"flags"`
	Error               string              `json:"error"`
	OccurredAt          time.Time           `json:"occurredAt"`
}

// Report is the append-only, concurrency-safe aggregate of a run.
type Report struct {
	mu sync.Mutex

	started  time.Time
	finished time.Time
	dryRun   bool

	successful       []PairResult
	failed           []PairResult
	all              []PairResult
	deletedOrphans   []OrphanRecord
	orphanCandidates []OrphanRecord
	critical         []CriticalFailure

	networksScanned    int
	peeringsChecked    int
	mutatingOperations int
}

// New creates a Report stamped with the current time.
func New() *Report {
	return &Report{started: time.Now().UTC()}
}

// MarkDryRun flags the run as a preview. Rendered output carries the marker
// so pair actions like Created read as planned rather than applied.
func (r *Report) MarkDryRun() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dryRun = true
}

// AddPairResult appends a pair outcome to the all-pairs stream and to the
// successful or failed stream depending on its status.
func (r *Report) AddPairResult(p PairResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.all = append(r.all, p)
	if p.Status == StatusFailed {
		r.failed = append(r.failed, p)
	} else {
		r.successful = append(r.successful, p)
	}
}

// AddDeletedOrphan records a confirmed orphan deletion.
func (r *Report) AddDeletedOrphan(o OrphanRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletedOrphans = append(r.deletedOrphans, o)
}

// AddOrphanCandidate records an orphan found in dry-run mode.
func (r *Report) AddOrphanCandidate(o OrphanRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orphanCandidates = append(r.orphanCandidates, o)
}

// AddCriticalFailure records a create that exhausted retries.
func (r *Report) AddCriticalFailure(c CriticalFailure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.critical = append(r.critical, c)
}

// AddNetworksScanned adds to the scanned-network counter.
func (r *Report) AddNetworksScanned(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.networksScanned += n
}

// AddPeeringsChecked adds to the checked-peering counter.
func (r *Report) AddPeeringsChecked(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.peeringsChecked += n
}

// IncMutatingOperations counts one performed create or delete.
func (r *Report) IncMutatingOperations() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutatingOperations++
}

// Finish stamps the end of the run. Safe to call once after all workers stop.
func (r *Report) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = time.Now().UTC()
}

// HasCriticalFailures reports whether any create exhausted its retries.
func (r *Report) HasCriticalFailures() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.critical) > 0
}

// Snapshot is an immutable copy of the report for rendering.
type Snapshot struct {
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	DryRun     bool      `json:"dryRun"`

	Successful       []PairResult      `json:"successful"`
	Failed           []PairResult      `json:"failed"`
	All              []PairResult      `json:"all"`
	DeletedOrphans   []OrphanRecord    `json:"deletedOrphans"`
	OrphanCandidates []OrphanRecord    `json:"orphanCandidates,omitempty"`
	CriticalFailures []CriticalFailure `json:"criticalFailures,omitempty"`

	NetworksScanned    int `json:"networksScanned"`
	PeeringsChecked    int `json:"peeringsChecked"`
	MutatingOperations int `json:"mutatingOperations"`
}

// Snapshot returns a deep copy of the current report state.
func (r *Report) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Snapshot{
		StartedAt:          r.started,
		FinishedAt:         r.finished,
		DryRun:             r.dryRun,
		Successful:         append([]PairResult(nil), r.successful...),
		Failed:             append([]PairResult(nil), r.failed...),
		All:                append([]PairResult(nil), r.all...),
		DeletedOrphans:     append([]OrphanRecord(nil), r.deletedOrphans...),
		OrphanCandidates:   append([]OrphanRecord(nil), r.orphanCandidates...),
		CriticalFailures:   append([]CriticalFailure(nil), r.critical...),
		NetworksScanned:    r.networksScanned,
		PeeringsChecked:    r.peeringsChecked,
		MutatingOperations: r.mutatingOperations,
	}
}

// ByRegionPair groups the all-pairs stream by region-pair label, preserving
// insertion order within each group.
func (s Snapshot) ByRegionPair() map[string][]PairResult {
	grouped := make(map[string][]PairResult)
	for _, p := range s.All {
		grouped[p.RegionPair] = append(grouped[p.RegionPair], p)
	}
	return grouped
}
