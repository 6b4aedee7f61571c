package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the storage backend for the snapshot cache.
	DatabaseBackend string

	// Granularity is the bucket width used by time-bucketed views.
	Granularity string

	// MergePolicy decides which record survives when two share a number.
	MergePolicy string

	// AgingPolicy selects the default issue aging view.
	AgingPolicy string

	// IssueState is the upstream state of an issue or pull request.
	IssueState string

	// ReportView selects a single view for report output.
	ReportView string
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All cache backends supported.
const (
	FileBackend       DatabaseBackend = "file" // default
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All bucket granularities.
const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

// All merge policies.
const (
	LastWriteWins  MergePolicy = "last-write-wins" // default
	NewestUpstream MergePolicy = "newest-upstream"
)

// All aging policies.
const (
	OpenAgePolicy     AgingPolicy = "open-age" // default
	LinkedMergePolicy AgingPolicy = "linked-merge"
)

// Issue states reported by the hosting API.
const (
	StateOpen   IssueState = "open"
	StateClosed IssueState = "closed"
)

// Report views.
const (
	AllView          ReportView = "all" // default
	KPIView          ReportView = "kpis"
	LabelView        ReportView = "labels"
	ContributorView  ReportView = "contributors"
	TimelineView     ReportView = "timeline"
	ActivityView     ReportView = "activity"
	ThroughputView   ReportView = "throughput"
	CycleTimeView    ReportView = "cycle-time"
	AgingView        ReportView = "aging"
	LinkageView      ReportView = "linkage"
	PRSizeView       ReportView = "pr-size"
	AuthorView       ReportView = "author"
	ReviewerView     ReportView = "reviewer"
	IssueListView    ReportView = "issues"
	PullRequestsView ReportView = "pulls"
)

// Age bucket labels for open-age issue aging, in display order.
const (
	AgeBucketWeek  = "0-7 days"
	AgeBucketMonth = "7-30 days"
	AgeBucketOlder = "30+ days"
)

// AgeBuckets lists the open-age bucket labels in display order.
var AgeBuckets = []string{AgeBucketWeek, AgeBucketMonth, AgeBucketOlder}

// DefaultLabelDenyList holds deployment-marker labels excluded from label frequency.
var DefaultLabelDenyList = []string{
	"deployed",
	"deploy",
	"deployed-staging",
	"deployed-production",
	"deployed-to-staging",
	"deployed-to-production",
	"released",
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	FileBackend:       {},
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidMergePolicies lists all valid merge policies.
var ValidMergePolicies = map[MergePolicy]struct{}{
	LastWriteWins:  {},
	NewestUpstream: {},
}

// ValidAgingPolicies lists all valid aging policies.
var ValidAgingPolicies = map[AgingPolicy]struct{}{
	OpenAgePolicy:     {},
	LinkedMergePolicy: {},
}

// ValidReportViews lists all valid report views.
var ValidReportViews = map[ReportView]struct{}{
	AllView:          {},
	KPIView:          {},
	LabelView:        {},
	ContributorView:  {},
	TimelineView:     {},
	ActivityView:     {},
	ThroughputView:   {},
	CycleTimeView:    {},
	AgingView:        {},
	LinkageView:      {},
	PRSizeView:       {},
	AuthorView:       {},
	ReviewerView:     {},
	IssueListView:    {},
	PullRequestsView: {},
}
