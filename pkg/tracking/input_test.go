package tracking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/scanio-tracker/pkg/linehash"
)

func TestLazyInputLoadsEachSlotOnce(t *testing.T) {
	hashCalls, issueCalls := 0, 0
	in := NewLazyInput(
		func() (*linehash.Sequence, error) {
			hashCalls++
			if hashCalls > 1 {
				t.Fatal("line hash loader invoked twice")
			}
			return linehash.HashesFor([]string{"a"}), nil
		},
		func() ([]string, error) {
			issueCalls++
			if issueCalls > 1 {
				t.Fatal("issue loader invoked twice")
			}
			return []string{"i1", "i2"}, nil
		},
	)

	first, err := in.Issues()
	require.NoError(t, err)
	second, err := in.Issues()
	require.NoError(t, err)
	assert.Equal(t, []string{"i1", "i2"}, first)
	assert.Same(t, &first[0], &second[0])
	assert.False(t, in.LineHashesLoaded())

	seq1, err := in.LineHashSequence()
	require.NoError(t, err)
	seq2, err := in.LineHashSequence()
	require.NoError(t, err)
	assert.Same(t, seq1, seq2)
	assert.True(t, in.LineHashesLoaded())

	assert.Equal(t, 1, hashCalls)
	assert.Equal(t, 1, issueCalls)
}

func TestLazyInputIssuesMayPullLineHashes(t *testing.T) {
	hashCalls := 0
	var in *LazyInput[string]
	in = NewLazyInput(
		func() (*linehash.Sequence, error) {
			hashCalls++
			return linehash.HashesFor([]string{"foo", "bar"}), nil
		},
		func() ([]string, error) {
			seq, err := in.LineHashSequence()
			if err != nil {
				return nil, err
			}
			return []string{seq.HashAt(2)}, nil
		},
	)

	// line hashes first, then issues: the issue loader reuses the cached slot
	seq, err := in.LineHashSequence()
	require.NoError(t, err)
	issues, err := in.Issues()
	require.NoError(t, err)

	assert.Equal(t, []string{seq.HashAt(2)}, issues)
	assert.Equal(t, 1, hashCalls)
}

func TestLazyInputCachesErrors(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	in := NewLazyInput(
		func() (*linehash.Sequence, error) { return linehash.Empty(), nil },
		func() ([]int, error) {
			calls++
			return nil, boom
		},
	)

	_, err := in.Issues()
	assert.ErrorIs(t, err, boom)
	_, err = in.Issues()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

// drain reads both slots through the matcher-facing interface.
func drain[T any](in Input[T]) (*linehash.Sequence, []T, error) {
	issues, err := in.Issues()
	if err != nil {
		return nil, nil, err
	}
	seq, err := in.LineHashSequence()
	return seq, issues, err
}

func TestLazyInputSatisfiesInput(t *testing.T) {
	in := NewLazyInput(
		func() (*linehash.Sequence, error) { return linehash.HashesFor([]string{"x", "y"}), nil },
		func() ([]*RawIssue, error) { return []*RawIssue{{Status: StatusOpen}}, nil },
	)

	seq, issues, err := drain[*RawIssue](in)
	require.NoError(t, err)
	assert.Equal(t, 2, seq.Len())
	require.Len(t, issues, 1)
	assert.Equal(t, StatusOpen, issues[0].Status)
}
