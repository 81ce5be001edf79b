package tracking

import (
	"fmt"

	"github.com/scan-io-git/scanio-tracker/pkg/kvformat"
	"github.com/scan-io-git/scanio-tracker/pkg/linehash"
)

// BuildRawIssues maps the report issues of one component to raw issues, in
// report order. lineHashes is only called when there is at least one issue,
// and then exactly once. Optional fields stay nil when the report did not
// carry them.
func BuildRawIssues(component Component, project ProjectIdentity, reportIssues []ReportIssue, lineHashes func() (*linehash.Sequence, error)) ([]*RawIssue, error) {
	issues := make([]*RawIssue, 0, len(reportIssues))
	if len(reportIssues) == 0 {
		return issues, nil
	}

	seq, err := lineHashes()
	if err != nil {
		return nil, err
	}

	for i, reportIssue := range reportIssues {
		issue, err := toRawIssue(component, project, seq, reportIssue)
		if err != nil {
			return nil, newReportError(component.Ref, fmt.Sprintf("issue %d", i), err)
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

func toRawIssue(component Component, project ProjectIdentity, seq *linehash.Sequence, reportIssue ReportIssue) (*RawIssue, error) {
	ruleKey := RuleKey{Repository: reportIssue.RuleRepository, Rule: reportIssue.RuleKey}
	if ruleKey.IsZero() {
		return nil, fmt.Errorf("rule key is missing")
	}

	issue := &RawIssue{
		RuleKey:       ruleKey,
		Status:        StatusOpen,
		Resolution:    nil,
		ComponentUUID: component.UUID,
		ComponentKey:  component.Key,
		ProjectUUID:   project.UUID,
		ProjectKey:    project.Key,
		Checksum:      "",
		Tags:          NewTagSet(reportIssue.Tags...),
		Attributes:    map[string]string{},
	}

	if reportIssue.Line != nil {
		line := *reportIssue.Line
		issue.Line = &line
		issue.Checksum = seq.HashAt(line)
	}
	if reportIssue.Message != nil {
		msg := *reportIssue.Message
		issue.Message = &msg
	}
	if reportIssue.Severity != nil {
		sev := *reportIssue.Severity
		issue.Severity = &sev
	}
	if reportIssue.EffortToFix != nil {
		effort := *reportIssue.EffortToFix
		issue.EffortToFix = &effort
	}
	if reportIssue.Attributes != nil {
		attributes, err := kvformat.Parse(*reportIssue.Attributes)
		if err != nil {
			return nil, fmt.Errorf("attributes: %w", err)
		}
		issue.Attributes = attributes
	}
	return issue, nil
}
