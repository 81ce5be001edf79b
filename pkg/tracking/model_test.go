package tracking

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRuleKey(t *testing.T) {
	tests := []struct {
		input   string
		want    RuleKey
		wantErr bool
	}{
		{input: "semgrep:go.lang.security.sqli", want: RuleKey{Repository: "semgrep", Rule: "go.lang.security.sqli"}},
		{input: "codeql:go/path:injection", want: RuleKey{Repository: "codeql", Rule: "go/path:injection"}},
		{input: ":R1", want: RuleKey{Repository: "", Rule: "R1"}},
		{input: "semgrep", wantErr: true},
		{input: "semgrep:", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRuleKey(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestRuleKeyJSON(t *testing.T) {
	data, err := json.Marshal(map[string]RuleKey{"rule": {Repository: "semgrep", Rule: "R1"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"rule":"semgrep:R1"}`, string(data))

	var decoded map[string]RuleKey
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, RuleKey{Repository: "semgrep", Rule: "R1"}, decoded["rule"])
}

func TestParseSeverity(t *testing.T) {
	for _, input := range []string{"major", "MAJOR", " Major "} {
		got, err := ParseSeverity(input)
		require.NoError(t, err, input)
		assert.Equal(t, SeverityMajor, got)
	}

	_, err := ParseSeverity("catastrophic")
	assert.Error(t, err)
	_, err = ParseSeverity("")
	assert.Error(t, err)
}

func TestTagSet(t *testing.T) {
	tags := NewTagSet("security", "cwe-89", "security")

	assert.Len(t, tags, 2)
	assert.True(t, tags.Has("security"))
	assert.Equal(t, []string{"cwe-89", "security"}, tags.Sorted())

	data, err := json.Marshal(tags)
	require.NoError(t, err)
	assert.Equal(t, `["cwe-89","security"]`, string(data))

	var decoded TagSet
	require.NoError(t, json.Unmarshal([]byte(`["b","a","b"]`), &decoded))
	assert.Equal(t, []string{"a", "b"}, decoded.Sorted())
}

func TestTagSetKeepsTagsVerbatim(t *testing.T) {
	tags := NewTagSet("a", " a ", "A", "")

	assert.Len(t, tags, 4)
	assert.True(t, tags.Has(" a "))
	assert.True(t, tags.Has(""))
	assert.False(t, tags.Has("b"))
}

func TestEmptyTagSetEncodesAsArray(t *testing.T) {
	data, err := json.Marshal(NewTagSet())
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}
