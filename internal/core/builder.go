package core

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/wwwwwert/AlgorithmTesting/internal/config"
)

const (
	// SourceFile is the solution file every task directory must contain.
	SourceFile = "main.cpp"
	// ArtifactFile is the executable the compile step leaves next to the source.
	ArtifactFile = "main"
)

// BuildProfile selects one of the two fixed compiler invocations.
type BuildProfile int

const (
	// ProfileHardened compiles with sanitizers and strict warnings.
	ProfileHardened BuildProfile = iota
	// ProfileRelaxed keeps only optimization and debug info. Used when
	// compiler checks are skipped.
	ProfileRelaxed
)

// BuildError reports a failed compile step. The two failure modes stay
// distinguishable: a nonzero compiler exit versus a clean exit that still
// left no artifact behind.
type BuildError struct {
	ExitCode        int
	Output          string // combined compiler stdout and stderr
	MissingArtifact bool
}

func (e *BuildError) Error() string {
	if e.MissingArtifact {
		return "compiler exited 0 but produced no artifact"
	}
	return fmt.Sprintf("compiler exited with code %d", e.ExitCode)
}

// Builder compiles a task's main.cpp into an executable artifact.
type Builder struct {
	cfg config.BuildConfig
}

func NewBuilder(cfg config.BuildConfig) *Builder {
	return &Builder{cfg: cfg}
}

// args assembles the argv for one profile. The compiler is always spawned
// directly, never through a shell.
func (b *Builder) args(profile BuildProfile, src, bin string) []string {
	std := "-std=" + b.cfg.Standard
	if profile == ProfileRelaxed {
		return []string{"-g", std, "-O2", "-o", bin, src}
	}
	return []string{
		"-fsanitize=address,undefined",
		"-g",
		"-fno-sanitize-recover=all",
		std,
		"-O2",
		"-Wall",
		"-Werror",
		"-Wsign-compare",
		"-o", bin,
		src,
	}
}

// Build compiles <taskDir>/main.cpp to <taskDir>/main and returns the
// absolute artifact path. The build succeeded only when the compiler exited
// 0 and the artifact exists afterwards; there are no retries.
func (b *Builder) Build(ctx context.Context, taskDir string, profile BuildProfile) (string, error) {
	src := filepath.Join(taskDir, SourceFile)
	bin := filepath.Join(taskDir, ArtifactFile)

	if b.cfg.TimeoutSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(b.cfg.TimeoutSec)*time.Second)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, b.cfg.Compiler, b.args(profile, src, bin)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("compiler timed out after %ds", b.cfg.TimeoutSec)
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", &BuildError{ExitCode: exitErr.ExitCode(), Output: string(output)}
		}
		return "", fmt.Errorf("run compiler %s: %w", b.cfg.Compiler, err)
	}

	if _, err := os.Stat(bin); err != nil {
		return "", &BuildError{MissingArtifact: true, Output: string(output)}
	}
	abs, err := filepath.Abs(bin)
	if err != nil {
		return "", fmt.Errorf("resolve artifact path: %w", err)
	}
	return abs, nil
}
