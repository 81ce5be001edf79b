package tracking

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/scanio-tracker/pkg/linehash"
)

// ReportReader gives access to the decoded analysis report.
type ReportReader interface {
	// ReadSourceLines returns the source lines of a FILE component.
	ReadSourceLines(ref int) ([]string, error)
	// ReadIssues returns the issues reported on a component, in report order.
	ReadIssues(ref int) ([]ReportIssue, error)
}

// ProjectIdentityProvider resolves the identity of the analysis root.
type ProjectIdentityProvider interface {
	RootIdentity() ProjectIdentity
}

// RawInputFactory builds the raw Input of components of the current analysis.
type RawInputFactory struct {
	reader   ReportReader
	identity ProjectIdentityProvider
	logger   hclog.Logger
}

// NewRawInputFactory creates a factory. A nil logger discards output.
func NewRawInputFactory(reader ReportReader, identity ProjectIdentityProvider, logger hclog.Logger) *RawInputFactory {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &RawInputFactory{
		reader:   reader,
		identity: identity,
		logger:   logger,
	}
}

// Create returns a lazy input bound to component. Nothing is read from the
// report until one of its slots is accessed.
func (f *RawInputFactory) Create(component Component) *LazyInput[*RawIssue] {
	var input *LazyInput[*RawIssue]
	input = NewLazyInput(
		func() (*linehash.Sequence, error) {
			return f.loadLineHashes(component)
		},
		func() ([]*RawIssue, error) {
			return f.loadIssues(component, input.LineHashSequence)
		},
	)
	return input
}

func (f *RawInputFactory) loadLineHashes(component Component) (*linehash.Sequence, error) {
	if !component.IsFile() {
		return linehash.Empty(), nil
	}
	lines, err := f.reader.ReadSourceLines(component.Ref)
	if err != nil {
		return nil, newReportError(component.Ref, "read source lines", err)
	}
	f.logger.Trace("hashed source lines", "component", component.Key, "lines", len(lines))
	return linehash.HashesFor(lines), nil
}

func (f *RawInputFactory) loadIssues(component Component, lineHashes func() (*linehash.Sequence, error)) ([]*RawIssue, error) {
	reportIssues, err := f.reader.ReadIssues(component.Ref)
	if err != nil {
		return nil, newReportError(component.Ref, "read issues", err)
	}

	issues, err := BuildRawIssues(component, f.identity.RootIdentity(), reportIssues, lineHashes)
	if err != nil {
		return nil, fmt.Errorf("failed to build raw issues of %q: %w", component.Key, err)
	}
	f.logger.Trace("built raw issues", "component", component.Key, "count", len(issues))
	return issues, nil
}
