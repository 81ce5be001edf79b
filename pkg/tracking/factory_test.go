package tracking

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/scanio-tracker/pkg/linehash"
)

type fakeReader struct {
	sources map[int][]string
	issues  map[int][]ReportIssue
	failOn  map[int]error

	sourceReads map[int]int
	issueReads  map[int]int
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		sources:     map[int][]string{},
		issues:      map[int][]ReportIssue{},
		failOn:      map[int]error{},
		sourceReads: map[int]int{},
		issueReads:  map[int]int{},
	}
}

func (r *fakeReader) ReadSourceLines(ref int) ([]string, error) {
	r.sourceReads[ref]++
	if err := r.failOn[ref]; err != nil {
		return nil, err
	}
	lines, ok := r.sources[ref]
	if !ok {
		return nil, fmt.Errorf("no source for component %d", ref)
	}
	return lines, nil
}

func (r *fakeReader) ReadIssues(ref int) ([]ReportIssue, error) {
	r.issueReads[ref]++
	return r.issues[ref], nil
}

type staticIdentity ProjectIdentity

func (s staticIdentity) RootIdentity() ProjectIdentity {
	return ProjectIdentity(s)
}

func newTestFactory(reader ReportReader) *RawInputFactory {
	return NewRawInputFactory(reader, staticIdentity(testProject), nil)
}

func TestFactoryFileWithoutIssuesNeverReadsSource(t *testing.T) {
	reader := newFakeReader()
	reader.sources[testFile.Ref] = []string{"foo"}

	in := newTestFactory(reader).Create(testFile)
	issues, err := in.Issues()

	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, 0, reader.sourceReads[testFile.Ref])
	assert.False(t, in.LineHashesLoaded())
}

func TestFactoryFileWithIssues(t *testing.T) {
	reader := newFakeReader()
	reader.sources[testFile.Ref] = []string{"foo", "bar", "baz"}
	reader.issues[testFile.Ref] = []ReportIssue{{RuleRepository: "semgrep", RuleKey: "R1", Line: intPtr(2)}}

	in := newTestFactory(reader).Create(testFile)
	issues, err := in.Issues()
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, linehash.HashLine("bar"), issues[0].Checksum)

	seq, err := in.LineHashSequence()
	require.NoError(t, err)
	assert.Equal(t, 3, seq.Len())
	assert.Equal(t, seq.HashAt(2), issues[0].Checksum)

	again, err := in.Issues()
	require.NoError(t, err)
	assert.Same(t, issues[0], again[0])
	assert.Equal(t, 1, reader.sourceReads[testFile.Ref])
	assert.Equal(t, 1, reader.issueReads[testFile.Ref])
}

func TestFactoryLineHashesBeforeIssues(t *testing.T) {
	reader := newFakeReader()
	reader.sources[testFile.Ref] = []string{"foo"}
	reader.issues[testFile.Ref] = []ReportIssue{{RuleRepository: "r", RuleKey: "k", Line: intPtr(1)}}

	in := newTestFactory(reader).Create(testFile)
	seq, err := in.LineHashSequence()
	require.NoError(t, err)
	issues, err := in.Issues()
	require.NoError(t, err)

	assert.Equal(t, seq.HashAt(1), issues[0].Checksum)
	assert.Equal(t, 1, reader.sourceReads[testFile.Ref])
}

func TestFactoryNonFileComponent(t *testing.T) {
	module := Component{Ref: 1, Type: ComponentTypeModule, UUID: "module-uuid", Key: "org:project"}
	reader := newFakeReader()
	reader.sources[module.Ref] = []string{"should", "never", "be", "read"}
	reader.issues[module.Ref] = []ReportIssue{{RuleRepository: "r", RuleKey: "k"}}

	in := newTestFactory(reader).Create(module)
	issues, err := in.Issues()
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "", issues[0].Checksum)

	seq, err := in.LineHashSequence()
	require.NoError(t, err)
	assert.Equal(t, 0, seq.Len())
	assert.Equal(t, 0, reader.sourceReads[module.Ref])
}

func TestFactoryNonFileComponentIgnoresLines(t *testing.T) {
	dir := Component{Ref: 2, Type: ComponentTypeDirectory, UUID: "dir-uuid", Key: "org:project:src"}
	reader := newFakeReader()
	reader.issues[dir.Ref] = []ReportIssue{{RuleRepository: "r", RuleKey: "k", Line: intPtr(1)}}

	issues, err := newTestFactory(reader).Create(dir).Issues()
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, 1, *issues[0].Line)
	assert.Equal(t, "", issues[0].Checksum)
}

func TestFactorySourceFailureIsFatal(t *testing.T) {
	boom := errors.New("truncated report")
	reader := newFakeReader()
	reader.failOn[testFile.Ref] = boom
	reader.issues[testFile.Ref] = []ReportIssue{{RuleRepository: "r", RuleKey: "k", Line: intPtr(1)}}

	issues, err := newTestFactory(reader).Create(testFile).Issues()
	assert.Nil(t, issues)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrMalformedReport)
}
