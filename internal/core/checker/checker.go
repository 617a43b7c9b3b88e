// Package checker selects and applies the correctness predicate for a task.
//
// A task may ship its own checker: a Go plugin named checker.so exporting
// Checker func([]string, []string) bool, or an executable named checker that
// receives the actual and expected output files as arguments. Without one,
// answers must match the reference exactly, line by line.
package checker

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	pluginFile  = "checker.so"
	commandFile = "checker"
)

// Checker decides whether a normalized solution output is an accepted answer
// for the normalized reference output.
type Checker interface {
	Compare(actual, expected []string) bool

	// ID identifies the checker in diagnostics; custom variants report
	// their path.
	ID() string
}

// LoadError reports a custom checker that exists but cannot be used. It is
// fatal: a task that ships a broken checker must not silently fall back to
// the default comparison.
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("checker %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("checker %s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error { return e.Cause }

// Resolve picks the checker for a task directory: the Go plugin when
// checker.so is present, the checker executable when one is present, the
// default line comparison otherwise.
func Resolve(taskDir string) (Checker, error) {
	pluginPath := filepath.Join(taskDir, pluginFile)
	if info, err := os.Stat(pluginPath); err == nil && !info.IsDir() {
		return loadPlugin(pluginPath)
	}

	commandPath := filepath.Join(taskDir, commandFile)
	if info, err := os.Stat(commandPath); err == nil && !info.IsDir() {
		if info.Mode()&0o111 == 0 {
			return nil, &LoadError{Path: commandPath, Message: "not executable"}
		}
		return &commandChecker{path: commandPath}, nil
	}

	return Default(), nil
}
