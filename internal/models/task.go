package models

// TestCase is one recorded case inside a task's tests directory.
type TestCase struct {
	Name       string // case directory name, e.g. "test_1_small"
	Index      int    // ordering key parsed from the name
	Dir        string
	InputPath  string // fed to the solution's stdin
	AnswerPath string // expected stdout, only ever read
}

// TestSuite holds a task's cases in run order.
type TestSuite []TestCase
