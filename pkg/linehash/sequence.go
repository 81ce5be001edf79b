// Package linehash gives every source line a content-based identity.
//
// A line is reduced by removing all Unicode white space and the reduced
// bytes are hashed with MD5 (lowercase hex). A line that is blank after
// reduction hashes to the empty string. Case is preserved. The same
// function must be used on both sides of any comparison, so callers that
// hash a previous version of a file should go through HashLine or HashesFor
// as well.
package linehash

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"strings"
	"unicode"
)

// Sequence is an immutable, ordered list of line hashes. Element i holds
// the hash of line i+1.
type Sequence struct {
	hashes []string
}

// HashesFor returns one hash per line, in the same order. An empty input
// yields an empty sequence.
func HashesFor(lines []string) *Sequence {
	hashes := make([]string, len(lines))
	for i, line := range lines {
		hashes[i] = HashLine(line)
	}
	return &Sequence{hashes: hashes}
}

// Empty returns a sequence without lines. Containers above file level use it.
func Empty() *Sequence {
	return &Sequence{hashes: []string{}}
}

// HashLine returns the content hash of a single line.
func HashLine(line string) string {
	reduced := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, line)
	if reduced == "" {
		return ""
	}
	hash := md5.New()
	io.WriteString(hash, reduced)
	return hex.EncodeToString(hash.Sum(nil))
}

// HashAt returns the hash of the given 1-based line, or "" when the line is
// out of range.
func (s *Sequence) HashAt(line int) string {
	if s == nil || line <= 0 || line > len(s.hashes) {
		return ""
	}
	return s.hashes[line-1]
}

// Len returns the number of lines.
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.hashes)
}

// Hashes returns a copy of the hashes in line order.
func (s *Sequence) Hashes() []string {
	out := make([]string, s.Len())
	if s != nil {
		copy(out, s.hashes)
	}
	return out
}
