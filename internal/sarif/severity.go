package sarif

import (
	"strings"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/scanio-tracker/pkg/tracking"
)

// severityProperty is the result property that overrides the level mapping.
const severityProperty = "severity"

// levelToSeverity maps a SARIF level to a severity. Unknown levels map to nothing.
func levelToSeverity(level string) (tracking.Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		return tracking.SeverityCritical, true
	case "warning":
		return tracking.SeverityMajor, true
	case "note":
		return tracking.SeverityMinor, true
	case "none":
		return tracking.SeverityInfo, true
	default:
		return "", false
	}
}

// resultSeverity resolves the severity of a result: an explicit severity
// property naming a known severity first, then the result's own level.
// Rule default configurations are not consulted.
func resultSeverity(res *sarif.Result) *tracking.Severity {
	if res == nil {
		return nil
	}
	if raw, ok := res.Properties[severityProperty].(string); ok {
		if sev, err := tracking.ParseSeverity(raw); err == nil {
			return &sev
		}
	}
	if res.Level != nil {
		if sev, ok := levelToSeverity(*res.Level); ok {
			return &sev
		}
	}
	return nil
}
