package agg

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/huangsam/repopulse/schema"
)

// issueRefPatterns match issue references in a pull request body.
var issueRefPatterns = []*regexp.Regexp{
	regexp.MustCompile(`#(\d+)`),
	regexp.MustCompile(`(?i)closes?\s+#(\d+)`),
	regexp.MustCompile(`(?i)fixes?\s+#(\d+)`),
	regexp.MustCompile(`(?i)resolves?\s+#(\d+)`),
	regexp.MustCompile(`(?i)related\s+to\s+#(\d+)`),
}

// ExtractLinkedIssues returns the distinct issue numbers referenced in body,
// sorted ascending.
func ExtractLinkedIssues(body string) []int {
	if body == "" {
		return nil
	}
	seen := make(map[int]struct{})
	for _, re := range issueRefPatterns {
		for _, m := range re.FindAllStringSubmatch(body, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil || n <= 0 {
				continue
			}
			seen[n] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]int, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// FormatLinkedIssues renders issue numbers as "7, 42".
func FormatLinkedIssues(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

// PRIssueLinkage lists the pull requests whose body references at least one issue.
func PRIssueLinkage(prs []schema.PullRequest) []schema.PRIssueLink {
	out := make([]schema.PRIssueLink, 0)
	for _, pr := range prs {
		numbers := ExtractLinkedIssues(pr.Body)
		if len(numbers) == 0 {
			continue
		}
		out = append(out, schema.PRIssueLink{
			PRNumber:     pr.Number,
			PRTitle:      pr.Title,
			Merged:       pr.IsMerged(),
			IssueNumbers: numbers,
			LinkedIssues: FormatLinkedIssues(numbers),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PRNumber < out[j].PRNumber })
	return out
}
