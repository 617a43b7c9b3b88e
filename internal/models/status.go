package models

// CaseStatus classifies the outcome of a single executed test case.
type CaseStatus string

const (
	Pass              CaseStatus = "pass"
	WrongAnswer       CaseStatus = "wrong_answer"
	RuntimeError      CaseStatus = "runtime_error"
	TimeLimitExceeded CaseStatus = "time_limit_exceeded"
)

// Label is the short form used in terminal reports, e.g. "WA on test test_3_big".
func (s CaseStatus) Label() string {
	switch s {
	case Pass:
		return "OK"
	case WrongAnswer:
		return "WA"
	case RuntimeError:
		return "RE"
	case TimeLimitExceeded:
		return "TL"
	}
	return string(s)
}
