package linehash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLines(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{name: "empty", content: "", expected: []string{}},
		{name: "single line without terminator", content: "foo", expected: []string{"foo"}},
		{name: "trailing terminator", content: "foo\nbar\n", expected: []string{"foo", "bar"}},
		{name: "crlf", content: "foo\r\nbar\r\n", expected: []string{"foo", "bar"}},
		{name: "blank lines kept", content: "foo\n\nbar", expected: []string{"foo", "", "bar"}},
		{name: "only terminator", content: "\n", expected: []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := ReadLines(strings.NewReader(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, lines)
		})
	}
}

func TestReadLinesLongLine(t *testing.T) {
	long := strings.Repeat("x", 200*1024)

	lines, err := ReadLines(strings.NewReader("a\n" + long + "\nb"))
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, long, lines[1])
}
