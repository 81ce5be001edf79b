package sarif

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/scanio-tracker/internal/git"
	"github.com/scan-io-git/scanio-tracker/internal/identity"
	"github.com/scan-io-git/scanio-tracker/pkg/kvformat"
	"github.com/scan-io-git/scanio-tracker/pkg/linehash"
	"github.com/scan-io-git/scanio-tracker/pkg/tracking"
)

// Result properties understood by the reader.
const (
	effortProperty     = "effortToFix"
	tagsProperty       = "tags"
	attributesProperty = "attributes"
)

// defaultRepository names the rule repository of runs without a tool driver.
const defaultRepository = "sarif"

// Options configures how a report is turned into components.
type Options struct {
	SourceFolder   string
	RepoMetadata   *git.RepositoryMetadata
	Project        tracking.ProjectIdentity
	NoSuppressions bool
}

// Reader exposes a SARIF report as a tree of components with per-component
// issues and source lines. It is safe for concurrent use once opened.
type Reader struct {
	report     *Report
	metadata   *git.RepositoryMetadata
	project    tracking.ProjectIdentity
	components []tracking.Component
	entries    map[int]*componentEntry
	logger     hclog.Logger
}

type componentEntry struct {
	component tracking.Component
	localPath string
	results   []runResult
}

type runResult struct {
	run    *sarif.Run
	result *sarif.Result
}

// Open reads the SARIF file at inputPath and builds the component tree.
func Open(inputPath string, opts Options, logger hclog.Logger) (*Reader, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	report, err := ReadReport(inputPath, logger, opts.SourceFolder, opts.NoSuppressions)
	if err != nil {
		return nil, err
	}
	return newReader(report, opts, logger), nil
}

func newReader(report *Report, opts Options, logger hclog.Logger) *Reader {
	r := &Reader{
		report:   report,
		metadata: opts.RepoMetadata,
		project:  opts.Project,
		entries:  map[int]*componentEntry{},
		logger:   logger,
	}
	r.buildTree()
	return r
}

// buildTree assigns ref 1 to the project and refs 2..n to directories and
// files in ascending path order.
func (r *Reader) buildTree() {
	root := &componentEntry{
		component: tracking.Component{
			Ref:  1,
			Type: tracking.ComponentTypeProject,
			UUID: r.project.UUID,
			Key:  r.project.Key,
		},
	}

	files := map[string]*componentEntry{}
	dirs := map[string]struct{}{}

	for _, run := range r.report.Runs {
		for _, res := range run.Results {
			if res == nil || !isReportable(res) {
				continue
			}
			uri := resultURI(res)
			if uri == "" {
				root.results = append(root.results, runResult{run: run, result: res})
				continue
			}

			localPath := LocalPath(uri, r.metadata, r.report.sourceFolder)
			relPath := RepoRelativePath(localPath, r.metadata, r.report.sourceFolder)
			entry, ok := files[relPath]
			if !ok {
				entry = &componentEntry{
					component: tracking.Component{Type: tracking.ComponentTypeFile, Path: relPath},
					localPath: localPath,
				}
				files[relPath] = entry
				for dir := path.Dir(relPath); dir != "." && dir != "/"; dir = path.Dir(dir) {
					dirs[dir] = struct{}{}
				}
			}
			entry.results = append(entry.results, runResult{run: run, result: res})
		}
	}

	paths := make([]string, 0, len(files)+len(dirs))
	for p := range files {
		paths = append(paths, p)
	}
	for p := range dirs {
		if _, isFile := files[p]; !isFile {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	r.components = make([]tracking.Component, 0, len(paths)+1)
	r.addEntry(root)
	for i, p := range paths {
		entry, ok := files[p]
		if !ok {
			entry = &componentEntry{component: tracking.Component{Type: tracking.ComponentTypeDirectory, Path: p}}
		}
		key := identity.ComponentKey(r.project.Key, p)
		entry.component.Ref = i + 2
		entry.component.Key = key
		entry.component.UUID = identity.UUIDForKey(key)
		r.addEntry(entry)
	}

	r.logger.Debug("component tree built", "components", len(r.components), "files", len(files), "directories", len(dirs))
}

func (r *Reader) addEntry(entry *componentEntry) {
	r.entries[entry.component.Ref] = entry
	r.components = append(r.components, entry.component)
}

// Components returns all components ordered by ref.
func (r *Reader) Components() []tracking.Component {
	out := make([]tracking.Component, len(r.components))
	copy(out, r.components)
	return out
}

// RootIdentity returns the identity of the analysed project.
func (r *Reader) RootIdentity() tracking.ProjectIdentity {
	return r.project
}

// ReadIssues decodes the results attached to the component in report order.
func (r *Reader) ReadIssues(ref int) ([]tracking.ReportIssue, error) {
	entry, ok := r.entries[ref]
	if !ok {
		return nil, fmt.Errorf("unknown component ref %d", ref)
	}

	issues := make([]tracking.ReportIssue, 0, len(entry.results))
	for i, rr := range entry.results {
		issue, err := r.toReportIssue(rr.run, rr.result)
		if err != nil {
			return nil, fmt.Errorf("result %d of %q: %w", i, entry.component.Key, err)
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

// ReadSourceLines reads the lines of a file component from disk.
func (r *Reader) ReadSourceLines(ref int) ([]string, error) {
	entry, ok := r.entries[ref]
	if !ok {
		return nil, fmt.Errorf("unknown component ref %d", ref)
	}
	if !entry.component.IsFile() {
		return nil, fmt.Errorf("component %q is a %s, not a file", entry.component.Key, entry.component.Type)
	}

	f, err := os.Open(entry.localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	defer f.Close()

	lines, err := linehash.ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file %q: %w", entry.localPath, err)
	}
	return lines, nil
}

// isReportable drops results that do not describe a problem.
func isReportable(res *sarif.Result) bool {
	if res.Kind == nil {
		return true
	}
	switch strings.ToLower(*res.Kind) {
	case "pass", "notapplicable":
		return false
	default:
		return true
	}
}

// resultURI returns the artifact URI of the first physical location.
func resultURI(res *sarif.Result) string {
	if len(res.Locations) == 0 {
		return ""
	}
	loc := res.Locations[0]
	if loc == nil || loc.PhysicalLocation == nil || loc.PhysicalLocation.ArtifactLocation == nil {
		return ""
	}
	if loc.PhysicalLocation.ArtifactLocation.URI == nil {
		return ""
	}
	return strings.TrimSpace(*loc.PhysicalLocation.ArtifactLocation.URI)
}

func (r *Reader) toReportIssue(run *sarif.Run, res *sarif.Result) (tracking.ReportIssue, error) {
	ruleID := resultRuleID(res)
	if ruleID == "" {
		return tracking.ReportIssue{}, fmt.Errorf("result has no rule id")
	}

	issue := tracking.ReportIssue{
		RuleRepository: r.ruleRepository(run),
		RuleKey:        ruleID,
		Severity:       resultSeverity(res),
	}

	if start, _ := extractRegionFromResult(res); start > 0 {
		issue.Line = &start
	}
	if res.Message.Text != nil {
		msg := *res.Message.Text
		issue.Message = &msg
	}

	props := res.Properties
	if raw, ok := props[effortProperty]; ok && raw != nil {
		effort, ok := toFloat(raw)
		if !ok {
			return tracking.ReportIssue{}, fmt.Errorf("property %q is not a number: %v", effortProperty, raw)
		}
		issue.EffortToFix = &effort
	}
	if raw, ok := props[tagsProperty]; ok && raw != nil {
		tags, err := toStrings(raw)
		if err != nil {
			return tracking.ReportIssue{}, fmt.Errorf("property %q: %w", tagsProperty, err)
		}
		issue.Tags = tags
	}
	if raw, ok := props[attributesProperty]; ok && raw != nil {
		attributes, err := toAttributes(raw)
		if err != nil {
			return tracking.ReportIssue{}, fmt.Errorf("property %q: %w", attributesProperty, err)
		}
		issue.Attributes = &attributes
	}
	return issue, nil
}

func resultRuleID(res *sarif.Result) string {
	if res.RuleID != nil {
		if id := strings.TrimSpace(*res.RuleID); id != "" {
			return id
		}
	}
	if res.Rule != nil && res.Rule.Id != nil {
		return strings.TrimSpace(*res.Rule.Id)
	}
	return ""
}

func (r *Reader) ruleRepository(run *sarif.Run) string {
	meta := r.report.ToolMetadata(run)
	if meta == nil || strings.TrimSpace(meta.Name) == "" {
		return defaultRepository
	}
	return strings.ToLower(strings.TrimSpace(meta.Name))
}

// extractRegionFromResult returns start and end line numbers (0 when not present)
// taken from the SARIF result's first location region.
func extractRegionFromResult(res *sarif.Result) (int, int) {
	if res == nil || len(res.Locations) == 0 {
		return 0, 0
	}

	loc := res.Locations[0]
	if loc == nil || loc.PhysicalLocation == nil || loc.PhysicalLocation.Region == nil {
		return 0, 0
	}
	region := loc.PhysicalLocation.Region

	start, end := 0, 0
	if region.StartLine != nil {
		start = *region.StartLine
	}
	if region.EndLine != nil {
		end = *region.EndLine
	}
	return start, end
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func toStrings(v interface{}) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return list, nil
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected a list of strings, got element %v", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of strings, got %T", v)
	}
}

// toAttributes accepts either an encoded "k1=v1;k2=v2" string or a flat
// JSON object, which is encoded the same way.
func toAttributes(v interface{}) (string, error) {
	switch attrs := v.(type) {
	case string:
		return attrs, nil
	case map[string]interface{}:
		flat := make(map[string]string, len(attrs))
		for k, raw := range attrs {
			switch value := raw.(type) {
			case string:
				flat[k] = value
			case float64, bool:
				flat[k] = fmt.Sprint(value)
			default:
				return "", fmt.Errorf("attribute %q has unsupported value %v", k, raw)
			}
		}
		return kvformat.Format(flat)
	default:
		return "", fmt.Errorf("expected a string or an object, got %T", v)
	}
}
