package schema

import "time"

// KPIs are the headline counts and averages for a record set.
type KPIs struct {
	TotalIssues            int     `json:"total_issues"`
	OpenIssues             int     `json:"open_issues"`
	ClosedIssues           int     `json:"closed_issues"`
	TotalPRs               int     `json:"total_prs"`
	OpenPRs                int     `json:"open_prs"`
	ClosedPRs              int     `json:"closed_prs"`
	MergedPRs              int     `json:"merged_prs"`
	AvgIssueResolutionDays float64 `json:"avg_issue_resolution_days"`
	AvgPRMergeDays         float64 `json:"avg_pr_merge_days"`
}

// LabelCount is one row of the label frequency view.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ContributorStat is one row of the contributor leaderboard.
type ContributorStat struct {
	Author string `json:"author"`
	Issues int    `json:"issues"`
	PRs    int    `json:"prs"`
	Total  int    `json:"total"`
}

// TimelineBucket counts merged pull requests per week.
type TimelineBucket struct {
	Week         string  `json:"week"`
	MergedPRs    int     `json:"merged_prs"`
	AvgMergeDays float64 `json:"avg_merge_days"`
}

// ActivityBucket counts created issues and pull requests per day.
type ActivityBucket struct {
	Date   string `json:"date"`
	Issues int    `json:"issues"`
	PRs    int    `json:"prs"`
	Total  int    `json:"total"`
}

// ThroughputBucket counts closed issues and merged pull requests per period.
type ThroughputBucket struct {
	Period       string      `json:"period"`
	Granularity  Granularity `json:"granularity"`
	ClosedIssues int         `json:"closed_issues"`
	MergedPRs    int         `json:"merged_prs"`
}

// CycleTimeBucket is the mean creation-to-merge time of the pull requests merged in a period.
type CycleTimeBucket struct {
	Period           string      `json:"period"`
	Granularity      Granularity `json:"granularity"`
	PRs              int         `json:"prs"`
	AvgCycleTimeDays float64     `json:"avg_cycle_time_days"`
}

// IssueAgingEntry counts open issues in one age bucket.
type IssueAgingEntry struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// LinkedIssueAge is the age of an issue measured from the earliest merge of a
// pull request that references it.
type LinkedIssueAge struct {
	IssueNumber int        `json:"issue_number"`
	Title       string     `json:"title"`
	State       IssueState `json:"state"`
	PRNumber    int        `json:"pr_number"`
	MergedAt    time.Time  `json:"merged_at"`
	AgeDays     float64    `json:"age_days"`
}

// PRIssueLink lists the issues a pull request body references.
type PRIssueLink struct {
	PRNumber     int    `json:"pr_number"`
	PRTitle      string `json:"pr_title"`
	Merged       bool   `json:"merged"`
	IssueNumbers []int  `json:"issue_numbers"`
	LinkedIssues string `json:"linked_issues"`
}

// PRSizePoint relates a merged pull request's size to its merge time.
type PRSizePoint struct {
	PRNumber      int     `json:"pr_number"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Size          int     `json:"size"`
	Additions     int     `json:"additions"`
	Deletions     int     `json:"deletions"`
	ChangedFiles  int     `json:"changed_files"`
	MergeTimeDays float64 `json:"merge_time_days"`
}

// MergeTimeByUser is the merge count and mean merge time for one author or reviewer.
type MergeTimeByUser struct {
	User             string  `json:"user"`
	Count            int     `json:"count"`
	AvgMergeTimeDays float64 `json:"avg_merge_time_days"`
}

// DashboardRequest is the inbound request for one dashboard build.
type DashboardRequest struct {
	Repository string    `json:"repository"`
	Start      time.Time `json:"startDate"`
	End        time.Time `json:"endDate"`
	Credential string    `json:"-"`
}

// CacheOutcome records how a request was served.
type CacheOutcome string

// Cache outcomes.
const (
	CacheHit  CacheOutcome = "hit"
	CacheMiss CacheOutcome = "miss"
)

// DashboardMeta describes how the dashboard was produced.
type DashboardMeta struct {
	Repository  string       `json:"repository"`
	Range       DateRange    `json:"range"`
	Cache       CacheOutcome `json:"cache"`
	Persisted   bool         `json:"persisted"`
	AgingPolicy AgingPolicy  `json:"agingPolicy"`
	GeneratedAt time.Time    `json:"generatedAt"`
}

// DashboardData carries the in-range records and every derived view.
type DashboardData struct {
	Issues              []Issue            `json:"issues"`
	PullRequests        []PullRequest      `json:"pullRequests"`
	KPIs                KPIs               `json:"kpis"`
	Labels              []LabelCount       `json:"labels"`
	Contributors        []ContributorStat  `json:"contributors"`
	Timeline            []TimelineBucket   `json:"timeline"`
	Activity            []ActivityBucket   `json:"activity"`
	Throughput          []ThroughputBucket `json:"throughput"`
	CycleTime           []CycleTimeBucket  `json:"cycleTime"`
	IssueAging          []IssueAgingEntry  `json:"issueAging"`
	IssueAgingLinked    []LinkedIssueAge   `json:"issueAgingLinked"`
	PRIssueLinkage      []PRIssueLink      `json:"prIssueLinkage"`
	PRSizeMergeTime     []PRSizePoint      `json:"prSizeMergeTime"`
	MergeTimeByAuthor   []MergeTimeByUser  `json:"mergeTimeByAuthor"`
	MergeTimeByReviewer []MergeTimeByUser  `json:"mergeTimeByReviewer"`
	Meta                DashboardMeta      `json:"meta"`
}

// DashboardResponse is the envelope returned to callers.
type DashboardResponse struct {
	Success bool           `json:"success"`
	Data    *DashboardData `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// PrimeResult summarizes a cache-priming run.
type PrimeResult struct {
	Repository   string    `json:"repository"`
	Range        DateRange `json:"range"`
	Fetched      int       `json:"fetched"`
	Issues       int       `json:"issues"`
	PullRequests int       `json:"pullRequests"`
	Covered      DateRange `json:"covered"`
	Persisted    bool      `json:"persisted"`
}
