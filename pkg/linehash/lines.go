package linehash

import (
	"bufio"
	"fmt"
	"io"
)

// maxLineSize bounds a single physical line. Minified sources easily exceed
// the bufio default of 64KiB.
const maxLineSize = 16 * 1024 * 1024

// ReadLines splits content into physical lines without terminators. Both
// "\n" and "\r\n" end a line; a final terminator does not start a new line.
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lines := []string{}
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading lines: %w", err)
	}
	return lines, nil
}
