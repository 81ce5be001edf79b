package tracking

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ComponentType tells whether a component has line-addressable content.
type ComponentType string

const (
	ComponentTypeProject   ComponentType = "PROJECT"
	ComponentTypeModule    ComponentType = "MODULE"
	ComponentTypeDirectory ComponentType = "DIRECTORY"
	ComponentTypeFile      ComponentType = "FILE"
)

// Component identifies a node of the analysed tree. Ref is only meaningful
// within a single report.
type Component struct {
	Ref  int           `json:"ref"`
	Type ComponentType `json:"type"`
	UUID string        `json:"uuid"`
	Key  string        `json:"key"`
	Path string        `json:"path,omitempty"`
}

// IsFile reports whether the component carries source lines.
func (c Component) IsFile() bool {
	return c.Type == ComponentTypeFile
}

// ProjectIdentity is the identity of the analysis root.
type ProjectIdentity struct {
	UUID string `json:"uuid"`
	Key  string `json:"key"`
}

// RuleKey is a (repository, rule) pair, rendered as "repository:rule".
type RuleKey struct {
	Repository string
	Rule       string
}

func (k RuleKey) String() string {
	return k.Repository + ":" + k.Rule
}

// IsZero reports whether the rule part is missing.
func (k RuleKey) IsZero() bool {
	return strings.TrimSpace(k.Rule) == ""
}

func (k RuleKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseRuleKey parses "repository:rule". The rule part may itself contain
// colons.
func ParseRuleKey(s string) (RuleKey, error) {
	repo, rule, found := strings.Cut(s, ":")
	if !found || rule == "" {
		return RuleKey{}, fmt.Errorf("invalid rule key %q", s)
	}
	return RuleKey{Repository: repo, Rule: rule}, nil
}

func (k *RuleKey) UnmarshalText(text []byte) error {
	parsed, err := ParseRuleKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Status is the workflow status of an issue. Raw issues are always open.
type Status string

// StatusOpen is the only status a raw issue carries.
const StatusOpen Status = "OPEN"

// Severity of an issue, from least to most severe.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityMinor    Severity = "MINOR"
	SeverityMajor    Severity = "MAJOR"
	SeverityCritical Severity = "CRITICAL"
	SeverityBlocker  Severity = "BLOCKER"
)

// Severities lists all severities from least to most severe.
var Severities = []Severity{SeverityInfo, SeverityMinor, SeverityMajor, SeverityCritical, SeverityBlocker}

// ParseSeverity accepts a severity name in any case.
func ParseSeverity(s string) (Severity, error) {
	candidate := Severity(strings.ToUpper(strings.TrimSpace(s)))
	for _, sev := range Severities {
		if sev == candidate {
			return sev, nil
		}
	}
	return "", fmt.Errorf("unknown severity %q", s)
}

// TagSet is a set of issue tags. It is encoded as a sorted JSON array.
type TagSet map[string]struct{}

// NewTagSet builds a set from tags. Tags are kept verbatim; only exact
// duplicates collapse.
func NewTagSet(tags ...string) TagSet {
	set := make(TagSet, len(tags))
	for _, tag := range tags {
		set[tag] = struct{}{}
	}
	return set
}

// Has reports whether tag belongs to the set.
func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Sorted returns the tags in ascending order.
func (s TagSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for tag := range s {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

func (s TagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *TagSet) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	*s = NewTagSet(tags...)
	return nil
}

// ReportIssue is an issue as decoded from the analysis report. Nil pointers
// mean the report did not carry the field.
type ReportIssue struct {
	RuleRepository string
	RuleKey        string
	Line           *int
	Message        *string
	Severity       *Severity
	EffortToFix    *float64
	Tags           []string
	Attributes     *string
}

// RawIssue is the current-analysis occurrence of a rule violation, before
// any reconciliation with previous analyses.
type RawIssue struct {
	RuleKey       RuleKey           `json:"rule_key"`
	Status        Status            `json:"status"`
	Resolution    *string           `json:"resolution,omitempty"`
	ComponentUUID string            `json:"component_uuid"`
	ComponentKey  string            `json:"component_key"`
	ProjectUUID   string            `json:"project_uuid"`
	ProjectKey    string            `json:"project_key"`
	Line          *int              `json:"line,omitempty"`
	Checksum      string            `json:"checksum"`
	Message       *string           `json:"message,omitempty"`
	Severity      *Severity         `json:"severity,omitempty"`
	EffortToFix   *float64          `json:"effort_to_fix,omitempty"`
	Tags          TagSet            `json:"tags"`
	Attributes    map[string]string `json:"attributes"`
}
