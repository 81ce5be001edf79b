// Package snapshot builds the raw input of every component of a report and
// writes it out as one JSON document.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/scan-io-git/scanio-tracker/pkg/shared/files"
	"github.com/scan-io-git/scanio-tracker/pkg/tracking"
)

// InputFactory creates the lazy raw input of a component.
type InputFactory interface {
	Create(component tracking.Component) *tracking.LazyInput[*tracking.RawIssue]
}

// Revision is the state of the repository the report was produced from.
type Revision struct {
	Branch    *string `json:"branch,omitempty"`
	Commit    *string `json:"commit,omitempty"`
	OriginURL *string `json:"origin_url,omitempty"`
}

// ComponentInput is the raw input of one component that has issues.
type ComponentInput struct {
	Component  tracking.Component   `json:"component"`
	LineHashes []string             `json:"line_hashes"`
	Issues     []*tracking.RawIssue `json:"issues"`
}

// Snapshot is the raw input of a whole analysis.
type Snapshot struct {
	Project    tracking.ProjectIdentity `json:"project"`
	Revision   *Revision                `json:"revision,omitempty"`
	Summary    Summary                  `json:"summary"`
	Components []ComponentInput         `json:"components"`
}

// Build creates and drains the lazy input of every component, at most
// workers at a time. Each input is owned by a single goroutine. Components
// without issues are left out; the rest are returned in ref order. The
// first failure cancels the remaining work and no snapshot is returned.
func Build(ctx context.Context, components []tracking.Component, factory InputFactory, workers int, logger hclog.Logger) (*Snapshot, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if workers < 1 {
		workers = 1
	}

	ordered := make([]tracking.Component, len(components))
	copy(ordered, components)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Ref < ordered[j].Ref })

	results := make([]*ComponentInput, len(ordered))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, component := range ordered {
		i, component := i, component
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			input, err := buildComponent(factory, component)
			if err != nil {
				logger.Error("failed to build raw input", "component", component.Key, "ref", component.Ref, "error", err)
				return err
			}
			results[i] = input
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &Snapshot{Components: make([]ComponentInput, 0, len(results))}
	snap.Summary.Components = len(ordered)
	for _, input := range results {
		if input == nil {
			continue
		}
		snap.Components = append(snap.Components, *input)
		snap.Summary.add(input.Issues)
	}

	logger.Info("raw input built",
		"components", snap.Summary.Components,
		"components_with_issues", snap.Summary.ComponentsWithIssues,
		"issues", snap.Summary.Issues)
	return snap, nil
}

// buildComponent returns nil for components without issues.
func buildComponent(factory InputFactory, component tracking.Component) (*ComponentInput, error) {
	input := factory.Create(component)

	issues, err := input.Issues()
	if err != nil {
		return nil, err
	}
	if len(issues) == 0 {
		return nil, nil
	}

	seq, err := input.LineHashSequence()
	if err != nil {
		return nil, err
	}
	return &ComponentInput{
		Component:  component,
		LineHashes: seq.Hashes(),
		Issues:     issues,
	}, nil
}

// Write stores the snapshot as indented JSON at path.
func Write(path string, snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := files.WriteJsonFile(path, data); err != nil {
		return fmt.Errorf("failed to write snapshot to %q: %w", path, err)
	}
	return nil
}

// Encode writes the snapshot as indented JSON to w.
func Encode(w io.Writer, snap *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}
