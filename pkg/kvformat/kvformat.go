// Package kvformat reads and writes the flat "key1=value1;key2=value2"
// encoding used for issue attributes in analysis reports.
package kvformat

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	pairSeparator  = ";"
	fieldSeparator = "="
)

// ErrMalformed is returned, wrapped, for any fragment that is not a key/value pair.
var ErrMalformed = errors.New("malformed key/value encoding")

// Parse decodes s into a map. Empty fragments are skipped, the value is
// everything after the first "=", and a repeated key keeps its last value.
func Parse(s string) (map[string]string, error) {
	out := make(map[string]string)
	for i, pair := range strings.Split(s, pairSeparator) {
		if pair == "" {
			continue
		}
		key, value, found := strings.Cut(pair, fieldSeparator)
		if !found {
			return nil, fmt.Errorf("%w: fragment %d %q has no %q", ErrMalformed, i, pair, fieldSeparator)
		}
		if key == "" {
			return nil, fmt.Errorf("%w: fragment %d %q has an empty key", ErrMalformed, i, pair)
		}
		out[key] = value
	}
	return out, nil
}

// Format encodes m with keys in ascending order, so equal maps always
// produce equal strings.
func Format(m map[string]string) (string, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		v := m[k]
		if k == "" || strings.ContainsAny(k, pairSeparator+fieldSeparator) {
			return "", fmt.Errorf("key %q cannot be encoded", k)
		}
		if strings.Contains(v, pairSeparator) {
			return "", fmt.Errorf("value of %q cannot contain %q", k, pairSeparator)
		}
		if i > 0 {
			sb.WriteString(pairSeparator)
		}
		sb.WriteString(k)
		sb.WriteString(fieldSeparator)
		sb.WriteString(v)
	}
	return sb.String(), nil
}
