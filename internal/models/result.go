package models

import "fmt"

// CaseResult is the outcome of running one test case.
type CaseResult struct {
	Case     TestCase
	Status   CaseStatus
	ExitCode int
	TimeMs   int64
	MemoryKb uint64
	Actual   []string // normalized solution output, set on wrong_answer
	Expected []string // normalized reference output, set on wrong_answer
	Stderr   string   // bounded stderr capture
}

// RunSummary aggregates a whole suite run. Passed counts against the full
// suite size, so a run stopped at the first failure still reports how many
// cases it got through.
type RunSummary struct {
	Passed        int
	Total         int
	Stopped       bool   // the run halted on a failed case
	StoppedAt     string // name of that case
	StoppedStatus CaseStatus
}

// AllPassed reports whether every case in the suite passed.
func (s RunSummary) AllPassed() bool {
	return s.Passed == s.Total
}

// String renders the terminal summary line.
func (s RunSummary) String() string {
	if s.AllPassed() {
		return "All tests passed"
	}
	return fmt.Sprintf("%d / %d tests passed", s.Passed, s.Total)
}
