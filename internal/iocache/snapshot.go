package iocache

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/huangsam/repopulse/schema"
)

// snapshotVersion is bumped whenever the stored document shape changes.
// Documents written with another version read as absent.
const snapshotVersion = 1

// snapshotKey is the single row key used by the SQL backends.
const snapshotKey = "snapshot"

// snapshotTable is the SQL table holding the snapshot row.
const snapshotTable = "repopulse_snapshot"

// snapshotDocument is the persisted form of a CacheSnapshot.
type snapshotDocument struct {
	Version      int                  `json:"version"`
	Issues       []schema.Issue       `json:"issues"`
	PullRequests []schema.PullRequest `json:"pullRequests"`
	LastUpdated  time.Time            `json:"lastUpdated"`
	DateRange    schema.DateRange     `json:"dateRange"`
}

// encodeSnapshot serializes snap with the current format version.
func encodeSnapshot(snap *schema.CacheSnapshot) ([]byte, error) {
	doc := snapshotDocument{
		Version:      snapshotVersion,
		Issues:       snap.Issues,
		PullRequests: snap.PullRequests,
		LastUpdated:  snap.LastUpdated,
		DateRange:    snap.DateRange,
	}
	if doc.Issues == nil {
		doc.Issues = []schema.Issue{}
	}
	if doc.PullRequests == nil {
		doc.PullRequests = []schema.PullRequest{}
	}
	return json.Marshal(doc)
}

// decodeSnapshot parses a stored document. It returns nil without error when
// the document was written by a different format version.
func decodeSnapshot(data []byte) (*schema.CacheSnapshot, error) {
	var doc snapshotDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if doc.Version != snapshotVersion {
		return nil, nil
	}
	return &schema.CacheSnapshot{
		Issues:       doc.Issues,
		PullRequests: doc.PullRequests,
		LastUpdated:  doc.LastUpdated,
		DateRange:    doc.DateRange,
	}, nil
}

// coveringSubset returns the records created in [start, end] when the
// snapshot's covered range contains it. Partial coverage is a miss.
func coveringSubset(snap *schema.CacheSnapshot, start, end time.Time) (schema.RecordSet, bool) {
	if snap == nil {
		return schema.RecordSet{}, false
	}
	want := schema.DateRange{Start: start, End: end}
	if !snap.DateRange.Covers(want) {
		return schema.RecordSet{}, false
	}
	return snap.Records().Filter(want), true
}

// nextSnapshot builds the snapshot that replaces prev after writing records
// for [start, end]. The covered range grows when the write touches it and
// moves to [start, end] when the write is disjoint from it.
func nextSnapshot(prev *schema.CacheSnapshot, records schema.RecordSet, start, end, now time.Time) *schema.CacheSnapshot {
	covered := schema.DateRange{Start: start, End: end}
	if prev != nil {
		covered = prev.DateRange.Extend(covered)
	}
	return &schema.CacheSnapshot{
		Issues:       records.Issues,
		PullRequests: records.PullRequests,
		LastUpdated:  now.UTC(),
		DateRange:    covered,
	}
}

// snapshotStatus fills the record counts of status from snap.
func snapshotStatus(status *schema.CacheStatus, snap *schema.CacheSnapshot) {
	if snap == nil {
		return
	}
	status.Initialized = true
	status.SnapshotVersion = snapshotVersion
	status.TotalIssues = len(snap.Issues)
	status.TotalPRs = len(snap.PullRequests)
	covered := snap.DateRange
	status.CoveredRange = &covered
	status.LastUpdated = snap.LastUpdated
}
