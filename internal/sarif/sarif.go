package sarif

import (
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/scanio-tracker/pkg/shared/files"
)

// Report is a SARIF report together with the folder it was produced from.
type Report struct {
	*sarif.Report
	logger       hclog.Logger
	sourceFolder string
}

// ToolMetadata names the tool of a run.
type ToolMetadata struct {
	Name    string
	Version *string
}

// removeSuppressedResults drops all results carrying a suppression.
func removeSuppressedResults(report *sarif.Report) {
	for _, run := range report.Runs {
		var filteredResults []*sarif.Result

		for _, result := range run.Results {
			if len(result.Suppressions) == 0 {
				filteredResults = append(filteredResults, result)
			}
		}

		run.Results = filteredResults
	}
}

// ReadReport loads the SARIF file at inputPath. sourceFolder is made
// absolute; with noSuppressions set, suppressed results are dropped.
func ReadReport(inputPath string, logger hclog.Logger, sourceFolder string, noSuppressions bool) (*Report, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	sarifReport, err := sarif.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sarif report %q: %w", inputPath, err)
	}

	if noSuppressions {
		removeSuppressedResults(sarifReport)
	}

	expandedSourceFolder, err := files.ExpandPath(sourceFolder)
	if err != nil {
		return nil, fmt.Errorf("failed to expand source folder: %w", err)
	}
	absPath, err := filepath.Abs(expandedSourceFolder)
	if err != nil {
		return nil, err
	}

	return &Report{
		Report:       sarifReport,
		logger:       logger,
		sourceFolder: absPath,
	}, nil
}

// ToolMetadata returns the tool of the given run, or nil when the run has no driver.
func (r *Report) ToolMetadata(run *sarif.Run) *ToolMetadata {
	if run == nil || run.Tool.Driver == nil {
		return nil
	}
	return &ToolMetadata{
		Name:    run.Tool.Driver.Name,
		Version: run.Tool.Driver.SemanticVersion,
	}
}
