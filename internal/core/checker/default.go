package checker

// DefaultID identifies the built-in exact line comparison.
const DefaultID = "default"

// Default returns the built-in checker: the output must contain exactly the
// reference lines, in the same order.
func Default() Checker {
	return &lineChecker{}
}

type lineChecker struct{}

func (c *lineChecker) ID() string { return DefaultID }

func (c *lineChecker) Compare(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}
	for i := range actual {
		if actual[i] != expected[i] {
			return false
		}
	}
	return true
}
