package models

// RunRequest asks a worker to build one solution and run it against the
// inline test set. Custom checkers are host artifacts and do not travel over
// the wire; worker runs always use the default comparison.
type RunRequest struct {
	ID                 string       `json:"id"`
	Source             string       `json:"source"`
	Tests              []InlineTest `json:"tests"`
	SkipCompilerChecks bool         `json:"skipCompilerChecks"`
	DryRun             bool         `json:"dryRun"`
	TimeLimitMs        int64        `json:"timeLimitMs"`
}

// InlineTest carries one test case body over the wire.
type InlineTest struct {
	Name   string `json:"name"`
	Input  string `json:"input"`
	Output string `json:"output"`
}

// CaseReport is published after every executed case.
type CaseReport struct {
	RequestID string     `json:"requestId"`
	Case      string     `json:"case"`
	Status    CaseStatus `json:"status"`
	ExitCode  int        `json:"exitCode"`
	TimeMs    int64      `json:"timeMs"`
	MemoryKb  uint64     `json:"memoryKb"`
	Output    string     `json:"output,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// Kinds of failure a RunReport can carry when no case ever ran.
const (
	ReportErrorCompile  = "compile_error"
	ReportErrorInternal = "internal_error"
)

// RunReport closes out a request: a summary, or a pre-run failure.
type RunReport struct {
	RequestID string `json:"requestId"`
	Passed    int    `json:"passed"`
	Total     int    `json:"total"`
	Stopped   bool   `json:"stopped"`
	StoppedAt string `json:"stoppedAt,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"errorKind,omitempty"`
}
