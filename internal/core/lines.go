package core

import (
	"fmt"
	"os"
	"strings"
)

// NormalizeLines splits raw output into comparison-ready lines: every line
// is trimmed and blank lines are dropped, order is preserved.
func NormalizeLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// ReadLines loads a file and normalizes it for comparison.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return NormalizeLines(string(data)), nil
}
