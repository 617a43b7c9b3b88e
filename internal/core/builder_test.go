package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wwwwwert/AlgorithmTesting/internal/config"
)

// writeScript creates an executable shell script; tests use them to stand in
// for the compiler and for compiled artifacts.
func writeScript(t *testing.T, path, body string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script %s: %v", path, err)
	}
	return path
}

// fakeCompilerBody writes a runnable artifact to the -o target and records
// the argv one-per-line in args.txt next to it.
const fakeCompilerBody = `out=""
prev=""
args=""
for arg in "$@"; do
  args="$args$arg
"
  if [ "$prev" = "-o" ]; then out="$arg"; fi
  prev="$arg"
done
printf '%s' "$args" > "$(dirname "$out")/args.txt"
printf '#!/bin/sh\nexit 0\n' > "$out"
chmod +x "$out"`

func buildConfig(compiler string) config.BuildConfig {
	return config.BuildConfig{Compiler: compiler, Standard: "c++17", TimeoutSec: 30}
}

func TestBuild_SuccessProducesAbsoluteArtifact(t *testing.T) {
	taskDir := t.TempDir()
	compiler := writeScript(t, filepath.Join(t.TempDir(), "gxx"), fakeCompilerBody)

	artifact, err := NewBuilder(buildConfig(compiler)).Build(context.Background(), taskDir, ProfileHardened)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !filepath.IsAbs(artifact) {
		t.Errorf("artifact path %q is not absolute", artifact)
	}
	if _, err := os.Stat(artifact); err != nil {
		t.Errorf("artifact missing: %v", err)
	}
}

func TestBuild_ProfilesSelectFlagSets(t *testing.T) {
	tests := []struct {
		name        string
		profile     BuildProfile
		wantFlags   []string
		absentFlags []string
	}{
		{
			name:      "hardened",
			profile:   ProfileHardened,
			wantFlags: []string{"-fsanitize=address,undefined", "-fno-sanitize-recover=all", "-Wall", "-Werror", "-Wsign-compare", "-std=c++17", "-O2", "-g"},
		},
		{
			name:        "relaxed",
			profile:     ProfileRelaxed,
			wantFlags:   []string{"-g", "-std=c++17", "-O2"},
			absentFlags: []string{"-Werror", "-fsanitize=address,undefined", "-Wall"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Spaces in the task path prove the argv never passes through a shell.
			taskDir := filepath.Join(t.TempDir(), "task with spaces")
			if err := os.MkdirAll(taskDir, 0o755); err != nil {
				t.Fatalf("mkdir: %v", err)
			}
			compiler := writeScript(t, filepath.Join(t.TempDir(), "gxx"), fakeCompilerBody)

			if _, err := NewBuilder(buildConfig(compiler)).Build(context.Background(), taskDir, tt.profile); err != nil {
				t.Fatalf("Build: %v", err)
			}

			raw, err := os.ReadFile(filepath.Join(taskDir, "args.txt"))
			if err != nil {
				t.Fatalf("read recorded args: %v", err)
			}
			args := strings.Split(strings.TrimSpace(string(raw)), "\n")
			seen := make(map[string]bool, len(args))
			for _, a := range args {
				seen[a] = true
			}
			for _, flag := range tt.wantFlags {
				if !seen[flag] {
					t.Errorf("argv %v missing %q", args, flag)
				}
			}
			for _, flag := range tt.absentFlags {
				if seen[flag] {
					t.Errorf("argv %v should not contain %q", args, flag)
				}
			}
			if got := args[len(args)-1]; got != filepath.Join(taskDir, SourceFile) {
				t.Errorf("last arg = %q, want the source path with its spaces intact", got)
			}
		})
	}
}

func TestBuild_NonzeroExitSurfacesCodeAndOutput(t *testing.T) {
	taskDir := t.TempDir()
	compiler := writeScript(t, filepath.Join(t.TempDir(), "gxx"), "echo 'main.cpp:1:1: error: boom' >&2\nexit 3")

	_, err := NewBuilder(buildConfig(compiler)).Build(context.Background(), taskDir, ProfileHardened)
	var buildErr *BuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("err = %v, want *BuildError", err)
	}
	if buildErr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", buildErr.ExitCode)
	}
	if buildErr.MissingArtifact {
		t.Errorf("MissingArtifact should be false on a nonzero exit")
	}
	if !strings.Contains(buildErr.Output, "boom") {
		t.Errorf("Output %q should carry the compiler diagnostics", buildErr.Output)
	}
}

func TestBuild_CleanExitWithoutArtifactIsDistinct(t *testing.T) {
	taskDir := t.TempDir()
	compiler := writeScript(t, filepath.Join(t.TempDir(), "gxx"), "exit 0")

	_, err := NewBuilder(buildConfig(compiler)).Build(context.Background(), taskDir, ProfileHardened)
	var buildErr *BuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("err = %v, want *BuildError", err)
	}
	if !buildErr.MissingArtifact {
		t.Errorf("MissingArtifact should be set when the compiler lies about success")
	}
}

func TestBuild_TimeoutKillsTheCompiler(t *testing.T) {
	taskDir := t.TempDir()
	compiler := writeScript(t, filepath.Join(t.TempDir(), "gxx"), "exec sleep 10")
	cfg := config.BuildConfig{Compiler: compiler, Standard: "c++17", TimeoutSec: 1}

	_, err := NewBuilder(cfg).Build(context.Background(), taskDir, ProfileHardened)
	if err == nil {
		t.Fatalf("Build should fail when the compiler hangs")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("err = %v, want a timeout error", err)
	}
}

func TestBuild_MissingCompilerBinary(t *testing.T) {
	taskDir := t.TempDir()
	cfg := buildConfig(filepath.Join(t.TempDir(), "does-not-exist"))

	_, err := NewBuilder(cfg).Build(context.Background(), taskDir, ProfileHardened)
	if err == nil {
		t.Fatalf("Build should fail when the compiler binary is missing")
	}
	var buildErr *BuildError
	if errors.As(err, &buildErr) {
		t.Errorf("a missing compiler is an environment fault, not a BuildError")
	}
}
