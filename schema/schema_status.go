package schema

import "time"

// CacheStatus represents the status of the snapshot store.
type CacheStatus struct {
	Backend         string     `json:"backend"`
	Location        string     `json:"location"`
	Connected       bool       `json:"connected"`
	Initialized     bool       `json:"initialized"`
	SnapshotVersion int        `json:"snapshot_version"`
	TotalIssues     int        `json:"total_issues"`
	TotalPRs        int        `json:"total_prs"`
	CoveredRange    *DateRange `json:"covered_range,omitempty"`
	LastUpdated     time.Time  `json:"last_updated"`
	SizeBytes       int64      `json:"size_bytes"`
}
