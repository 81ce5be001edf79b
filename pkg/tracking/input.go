package tracking

import "github.com/scan-io-git/scanio-tracker/pkg/linehash"

// Input is what a matcher consumes for one component, for either the
// previous analysis or the current one.
type Input[T any] interface {
	LineHashSequence() (*linehash.Sequence, error)
	Issues() ([]T, error)
}

var _ Input[*RawIssue] = (*LazyInput[*RawIssue])(nil)

// LazyInput defers both slots of an Input until first access and caches
// them afterwards. Each loader runs at most once; its error is cached too.
// The two slots are independent, so the issue loader may pull the line
// hashes of the same input.
//
// A LazyInput is owned by a single goroutine and is not safe for
// concurrent use.
type LazyInput[T any] struct {
	loadLineHashes func() (*linehash.Sequence, error)
	loadIssues     func() ([]T, error)

	lineHashes       *linehash.Sequence
	lineHashesErr    error
	lineHashesLoaded bool

	issues       []T
	issuesErr    error
	issuesLoaded bool
}

// NewLazyInput binds the two loaders.
func NewLazyInput[T any](loadLineHashes func() (*linehash.Sequence, error), loadIssues func() ([]T, error)) *LazyInput[T] {
	return &LazyInput[T]{
		loadLineHashes: loadLineHashes,
		loadIssues:     loadIssues,
	}
}

// LineHashSequence returns the memoized line-hash sequence.
func (in *LazyInput[T]) LineHashSequence() (*linehash.Sequence, error) {
	if !in.lineHashesLoaded {
		in.lineHashes, in.lineHashesErr = in.loadLineHashes()
		in.lineHashesLoaded = true
	}
	return in.lineHashes, in.lineHashesErr
}

// Issues returns the memoized issue list.
func (in *LazyInput[T]) Issues() ([]T, error) {
	if !in.issuesLoaded {
		in.issues, in.issuesErr = in.loadIssues()
		in.issuesLoaded = true
	}
	return in.issues, in.issuesErr
}

// LineHashesLoaded reports whether the line-hash slot has been computed.
func (in *LazyInput[T]) LineHashesLoaded() bool {
	return in.lineHashesLoaded
}
