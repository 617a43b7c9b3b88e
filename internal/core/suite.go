package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/wwwwwert/AlgorithmTesting/internal/models"
)

const (
	// TestsDir is the fixed per-task directory test cases live in.
	TestsDir = "tests"
	// InputFile feeds the solution's stdin.
	InputFile = "input.txt"
	// AnswerFile holds the expected stdout. The harness never writes it.
	AnswerFile = "output.txt"

	// caseMarker must appear in an entry name for it to count as a test case.
	caseMarker = "test"
)

// ErrNoTestsDir distinguishes a missing tests directory from one that is
// present but holds no cases.
var ErrNoTestsDir = errors.New("tests directory not found")

// LoadSuite discovers the task's test cases, ordered by the integer between
// the first and second underscore of the case directory name (test_2_plain
// runs before test_10_big). Entries without the "test" marker and plain
// files are strays and are skipped. A qualifying name that does not carry an
// integer key is a hard error naming the entry, as is a case directory
// missing its input.txt or output.txt.
func LoadSuite(taskDir string) (models.TestSuite, error) {
	testsPath := filepath.Join(taskDir, TestsDir)
	entries, err := os.ReadDir(testsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoTestsDir
		}
		return nil, fmt.Errorf("read %s: %w", testsPath, err)
	}

	var suite models.TestSuite
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || !strings.Contains(name, caseMarker) {
			continue
		}
		index, err := orderingKey(name)
		if err != nil {
			return nil, err
		}
		dir := filepath.Join(testsPath, name)
		tc := models.TestCase{
			Name:       name,
			Index:      index,
			Dir:        dir,
			InputPath:  filepath.Join(dir, InputFile),
			AnswerPath: filepath.Join(dir, AnswerFile),
		}
		if _, err := os.Stat(tc.InputPath); err != nil {
			return nil, fmt.Errorf("test case %s has no %s", name, InputFile)
		}
		if _, err := os.Stat(tc.AnswerPath); err != nil {
			return nil, fmt.Errorf("test case %s has no %s", name, AnswerFile)
		}
		suite = append(suite, tc)
	}

	// Stable sort keeps directory order for duplicate keys.
	sort.SliceStable(suite, func(i, j int) bool {
		return suite[i].Index < suite[j].Index
	})
	return suite, nil
}

// orderingKey extracts the run-order integer from a case directory name.
func orderingKey(name string) (int, error) {
	parts := strings.Split(name, "_")
	if len(parts) < 2 {
		return 0, fmt.Errorf("test case %q: name must look like test_<n>_<label>", name)
	}
	index, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("test case %q: ordering key %q is not an integer", name, parts[1])
	}
	return index, nil
}
