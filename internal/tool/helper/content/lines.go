package content

import (
	"bufio"
	"strings"
)

// SplitLines splits content on \n and \r\n line endings.
// A trailing line ending does not produce a trailing empty line.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	sc := bufio.NewScanner(strings.NewReader(s))
	sc.Buffer(make([]byte, 0, 4096), len(s)+1)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}
