package checker

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCompare(t *testing.T) {
	tests := []struct {
		name     string
		actual   []string
		expected []string
		want     bool
	}{
		{name: "identical", actual: []string{"a", "b"}, expected: []string{"a", "b"}, want: true},
		{name: "both empty", actual: nil, expected: nil, want: true},
		{name: "different line", actual: []string{"a", "x"}, expected: []string{"a", "b"}, want: false},
		{name: "different order", actual: []string{"b", "a"}, expected: []string{"a", "b"}, want: false},
		{name: "extra line", actual: []string{"a", "b", "c"}, expected: []string{"a", "b"}, want: false},
		{name: "missing line", actual: []string{"a"}, expected: []string{"a", "b"}, want: false},
	}
	chk := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := chk.Compare(tt.actual, tt.expected); got != tt.want {
				t.Errorf("Compare(%v, %v) = %v, want %v", tt.actual, tt.expected, got, tt.want)
			}
		})
	}
}

func TestResolve_DefaultWhenNothingShipped(t *testing.T) {
	chk, err := Resolve(t.TempDir())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if chk.ID() != DefaultID {
		t.Errorf("ID = %q, want %q", chk.ID(), DefaultID)
	}
}

func TestResolve_CommandCheckerVerdicts(t *testing.T) {
	// cmp -s compares the two files the checker receives, so the verdict
	// follows the materialized actual/expected contents.
	taskDir := t.TempDir()
	script := "#!/bin/sh\ncmp -s \"$1\" \"$2\"\n"
	if err := os.WriteFile(filepath.Join(taskDir, "checker"), []byte(script), 0o755); err != nil {
		t.Fatalf("write checker: %v", err)
	}

	chk, err := Resolve(taskDir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if chk.ID() == DefaultID {
		t.Fatalf("expected the command checker to be picked")
	}
	if !chk.Compare([]string{"1", "2"}, []string{"1", "2"}) {
		t.Errorf("identical outputs should be accepted")
	}
	if chk.Compare([]string{"1"}, []string{"2"}) {
		t.Errorf("different outputs should be rejected")
	}
}

func TestResolve_NonExecutableCheckerIsFatal(t *testing.T) {
	taskDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(taskDir, "checker"), []byte("not a program"), 0o644); err != nil {
		t.Fatalf("write checker: %v", err)
	}

	_, err := Resolve(taskDir)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("err = %v, want *LoadError", err)
	}
}

func TestResolve_BrokenPluginIsFatal(t *testing.T) {
	taskDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(taskDir, "checker.so"), []byte("this is not a plugin"), 0o644); err != nil {
		t.Fatalf("write checker.so: %v", err)
	}

	_, err := Resolve(taskDir)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("err = %v, want *LoadError", err)
	}
}

func TestResolve_PluginWinsOverCommand(t *testing.T) {
	// Both artifacts present: the plugin is probed first, and since it is
	// broken resolution must fail rather than fall back to the executable.
	taskDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(taskDir, "checker.so"), []byte("garbage"), 0o644); err != nil {
		t.Fatalf("write checker.so: %v", err)
	}
	if err := os.WriteFile(filepath.Join(taskDir, "checker"), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write checker: %v", err)
	}

	if _, err := Resolve(taskDir); err == nil {
		t.Fatalf("a broken plugin must not silently fall back to the command checker")
	}
}

func TestCommandChecker_RejectingExit(t *testing.T) {
	taskDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(taskDir, "checker"), []byte("#!/bin/sh\nexit 1\n"), 0o755); err != nil {
		t.Fatalf("write checker: %v", err)
	}

	chk, err := Resolve(taskDir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if chk.Compare([]string{"same"}, []string{"same"}) {
		t.Errorf("an exit-1 checker must reject everything")
	}
}
