package checker

import (
	"errors"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// commandChecker delegates the verdict to an executable shipped with the
// task. The executable receives two file paths, the actual output and the
// expected output, and accepts the answer by exiting 0.
type commandChecker struct {
	path string
}

func (c *commandChecker) ID() string { return c.path }

func (c *commandChecker) Compare(actual, expected []string) bool {
	dir, err := os.MkdirTemp("", "algotest-checker-*")
	if err != nil {
		log.Printf("checker %s: scratch dir: %v", c.path, err)
		return false
	}
	defer os.RemoveAll(dir)

	actualPath := filepath.Join(dir, "actual.txt")
	expectedPath := filepath.Join(dir, "expected.txt")
	if err := writeLines(actualPath, actual); err != nil {
		log.Printf("checker %s: %v", c.path, err)
		return false
	}
	if err := writeLines(expectedPath, expected); err != nil {
		log.Printf("checker %s: %v", c.path, err)
		return false
	}

	if err := exec.Command(c.path, actualPath, expectedPath).Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			log.Printf("checker %s: %v", c.path, err)
		}
		return false
	}
	return true
}

func writeLines(path string, lines []string) error {
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
}
