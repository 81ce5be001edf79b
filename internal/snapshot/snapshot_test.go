package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/scanio-tracker/pkg/linehash"
	"github.com/scan-io-git/scanio-tracker/pkg/tracking"
)

type fakeFactory struct {
	issues  map[int][]*tracking.RawIssue
	lines   map[int][]string
	failOn  map[int]error
	delay   time.Duration
	active  int32
	maxSeen int32
}

func (f *fakeFactory) Create(component tracking.Component) *tracking.LazyInput[*tracking.RawIssue] {
	return tracking.NewLazyInput(
		func() (*linehash.Sequence, error) {
			return linehash.HashesFor(f.lines[component.Ref]), nil
		},
		func() ([]*tracking.RawIssue, error) {
			n := atomic.AddInt32(&f.active, 1)
			defer atomic.AddInt32(&f.active, -1)
			for {
				seen := atomic.LoadInt32(&f.maxSeen)
				if n <= seen || atomic.CompareAndSwapInt32(&f.maxSeen, seen, n) {
					break
				}
			}
			time.Sleep(f.delay)

			if err := f.failOn[component.Ref]; err != nil {
				return nil, err
			}
			return f.issues[component.Ref], nil
		},
	)
}

func intPtr(i int) *int { return &i }

func severityPtr(s tracking.Severity) *tracking.Severity { return &s }

func testComponents() []tracking.Component {
	return []tracking.Component{
		{Ref: 4, Type: tracking.ComponentTypeFile, Key: "demo:src/b.go", Path: "src/b.go"},
		{Ref: 1, Type: tracking.ComponentTypeProject, Key: "demo"},
		{Ref: 3, Type: tracking.ComponentTypeFile, Key: "demo:src/a.go", Path: "src/a.go"},
		{Ref: 2, Type: tracking.ComponentTypeDirectory, Key: "demo:src", Path: "src"},
	}
}

func newTestFactory() *fakeFactory {
	return &fakeFactory{
		issues: map[int][]*tracking.RawIssue{
			1: {{RuleKey: tracking.RuleKey{Repository: "r", Rule: "project"}}},
			3: {
				{RuleKey: tracking.RuleKey{Repository: "r", Rule: "a1"}, Line: intPtr(1), Severity: severityPtr(tracking.SeverityMajor)},
				{RuleKey: tracking.RuleKey{Repository: "r", Rule: "a2"}, Line: intPtr(2), Severity: severityPtr(tracking.SeverityCritical)},
			},
			4: {{RuleKey: tracking.RuleKey{Repository: "r", Rule: "b1"}, Severity: severityPtr(tracking.SeverityMajor)}},
		},
		lines: map[int][]string{
			3: {"a := 1", "b := 2"},
			4: {"x"},
		},
		failOn: map[int]error{},
	}
}

func TestBuildOrdersByRefAndSkipsEmptyComponents(t *testing.T) {
	snap, err := Build(context.Background(), testComponents(), newTestFactory(), 4, nil)
	require.NoError(t, err)

	require.Len(t, snap.Components, 3)
	assert.Equal(t, 1, snap.Components[0].Component.Ref)
	assert.Equal(t, 3, snap.Components[1].Component.Ref)
	assert.Equal(t, 4, snap.Components[2].Component.Ref)

	assert.Empty(t, snap.Components[0].LineHashes, "project has no lines")
	assert.Equal(t, []string{linehash.HashLine("a := 1"), linehash.HashLine("b := 2")}, snap.Components[1].LineHashes)
	assert.Len(t, snap.Components[1].Issues, 2)
}

func TestBuildSummary(t *testing.T) {
	snap, err := Build(context.Background(), testComponents(), newTestFactory(), 2, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, snap.Summary.Components)
	assert.Equal(t, 3, snap.Summary.ComponentsWithIssues)
	assert.Equal(t, 4, snap.Summary.Issues)
	assert.Equal(t, 2, snap.Summary.IssuesWithoutLine)
	assert.Equal(t, map[tracking.Severity]int{tracking.SeverityMajor: 2, tracking.SeverityCritical: 1}, snap.Summary.BySeverity)
	assert.Equal(t, "Critical: 1, Major: 2", snap.Summary.SeverityBreakdown())
}

func TestBuildRespectsWorkerLimit(t *testing.T) {
	var components []tracking.Component
	factory := newTestFactory()
	factory.delay = 5 * time.Millisecond
	for ref := 1; ref <= 20; ref++ {
		components = append(components, tracking.Component{Ref: ref, Type: tracking.ComponentTypeFile})
	}

	_, err := Build(context.Background(), components, factory, 3, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&factory.maxSeen), int32(3))
}

func TestBuildFailsWithoutPartialSnapshot(t *testing.T) {
	factory := newTestFactory()
	boom := errors.New("boom")
	factory.failOn[3] = boom

	snap, err := Build(context.Background(), testComponents(), factory, 2, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, snap)
}

func TestBuildCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	snap, err := Build(ctx, testComponents(), newTestFactory(), 1, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, snap)
}

func TestBuildNoComponents(t *testing.T) {
	snap, err := Build(context.Background(), nil, newTestFactory(), 0, nil)
	require.NoError(t, err)
	assert.Empty(t, snap.Components)
	assert.Equal(t, "none", snap.Summary.SeverityBreakdown())
}

func TestWrite(t *testing.T) {
	snap, err := Build(context.Background(), testComponents(), newTestFactory(), 2, nil)
	require.NoError(t, err)
	snap.Project = tracking.ProjectIdentity{UUID: "uuid-1", Key: "demo"}

	out := filepath.Join(t.TempDir(), "out", "snapshot.json")
	require.NoError(t, Write(out, snap))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, snap.Project, decoded.Project)
	assert.Equal(t, snap.Summary, decoded.Summary)
	require.Len(t, decoded.Components, 3)
	assert.Equal(t, "r:a1", decoded.Components[1].Issues[0].RuleKey.String())
}

func TestEncode(t *testing.T) {
	snap := &Snapshot{
		Project:    tracking.ProjectIdentity{UUID: "uuid-1", Key: "demo"},
		Components: []ComponentInput{},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, snap))
	assert.JSONEq(t, `{
		"project": {"uuid": "uuid-1", "key": "demo"},
		"summary": {"components": 0, "components_with_issues": 0, "issues": 0, "issues_without_line": 0},
		"components": []
	}`, buf.String())
}
