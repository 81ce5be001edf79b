package snapshot

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/scan-io-git/scanio-tracker/pkg/tracking"
)

// Summary counts what a snapshot holds.
type Summary struct {
	Components           int                       `json:"components"`
	ComponentsWithIssues int                       `json:"components_with_issues"`
	Issues               int                       `json:"issues"`
	IssuesWithoutLine    int                       `json:"issues_without_line"`
	BySeverity           map[tracking.Severity]int `json:"by_severity,omitempty"`
}

func (s *Summary) add(issues []*tracking.RawIssue) {
	s.ComponentsWithIssues++
	for _, issue := range issues {
		s.Issues++
		if issue.Line == nil {
			s.IssuesWithoutLine++
		}
		if issue.Severity != nil {
			if s.BySeverity == nil {
				s.BySeverity = map[tracking.Severity]int{}
			}
			s.BySeverity[*issue.Severity]++
		}
	}
}

// displaySeverity converts a severity to its title-case form, e.g. "Critical".
func displaySeverity(sev tracking.Severity) string {
	return cases.Title(language.Und).String(strings.ToLower(string(sev)))
}

// SeverityBreakdown renders the per-severity counts from most to least
// severe, e.g. "Critical: 2, Minor: 1". Severities without issues are omitted.
func (s Summary) SeverityBreakdown() string {
	var parts []string
	for i := len(tracking.Severities) - 1; i >= 0; i-- {
		sev := tracking.Severities[i]
		if n := s.BySeverity[sev]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", displaySeverity(sev), n))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}
