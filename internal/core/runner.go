package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/wwwwwert/AlgorithmTesting/internal/config"
	"github.com/wwwwwert/AlgorithmTesting/internal/core/checker"
	"github.com/wwwwwert/AlgorithmTesting/internal/models"
)

const (
	memoryPollInterval = 20 * time.Millisecond
	stderrCaptureLimit = 4 * 1024
)

// ErrEmptySuite guards the orchestrator: an empty suite is reported as "no
// tests found", never as a 0/0 run.
var ErrEmptySuite = errors.New("test suite is empty")

// RunOptions carries the per-invocation switches.
type RunOptions struct {
	Verbose bool
	// DryRun keeps running after a failed case instead of stopping.
	DryRun bool
	// OnResult, when set, observes every executed case in order.
	OnResult func(models.CaseResult)
}

// Runner executes a compiled artifact against a test suite, one case at a
// time, and classifies every outcome.
type Runner struct {
	artifact string
	checker  checker.Checker
	cfg      config.RunnerConfig
	out      io.Writer
}

// NewRunner creates a Runner for one compiled artifact. Human-facing
// diagnostics go to out; pass nil to discard them.
func NewRunner(artifact string, chk checker.Checker, cfg config.RunnerConfig, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{artifact: artifact, checker: chk, cfg: cfg, out: out}
}

// RunSuite runs every case in order, stopping at the first failure unless
// DryRun keeps it going. Cases after the stopping one are never spawned.
func (r *Runner) RunSuite(ctx context.Context, suite models.TestSuite, opts RunOptions) (models.RunSummary, error) {
	summary := models.RunSummary{Total: len(suite)}
	if len(suite) == 0 {
		return summary, ErrEmptySuite
	}

	scratch, err := os.MkdirTemp("", "algotest-run-*")
	if err != nil {
		return summary, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)
	outPath := filepath.Join(scratch, "output.txt")

	for _, tc := range suite {
		result, err := r.runCase(ctx, tc, outPath, opts.Verbose)
		if err != nil {
			return summary, fmt.Errorf("run %s: %w", tc.Name, err)
		}
		if opts.OnResult != nil {
			opts.OnResult(result)
		}
		if result.Status == models.Pass {
			summary.Passed++
			continue
		}
		fmt.Fprintf(r.out, "%s on test %s\n", result.Status.Label(), tc.Name)
		if !opts.DryRun {
			summary.Stopped = true
			summary.StoppedAt = tc.Name
			summary.StoppedStatus = result.Status
			break
		}
	}
	return summary, nil
}

// runCase feeds input.txt to the artifact, collects stdout into the reused
// transient file and classifies the outcome. The reference output is only
// ever read.
func (r *Runner) runCase(ctx context.Context, tc models.TestCase, outPath string, verbose bool) (models.CaseResult, error) {
	result := models.CaseResult{Case: tc}

	if verbose {
		fmt.Fprintf(r.out, "\nRunning %s\n", tc.Name)
		if err := r.echoFile(tc.InputPath, "Input:"); err != nil {
			return result, err
		}
	}

	input, err := os.Open(tc.InputPath)
	if err != nil {
		return result, fmt.Errorf("open input: %w", err)
	}
	defer input.Close()

	output, err := os.OpenFile(outPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return result, fmt.Errorf("create output file: %w", err)
	}
	defer output.Close()

	runCtx := ctx
	if r.cfg.TimeLimitMs > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(r.cfg.TimeLimitMs)*time.Millisecond)
		defer cancel()
	}

	var stderr limitedBuffer
	cmd := exec.Command(r.artifact)
	cmd.Dir = tc.Dir
	cmd.Stdin = input
	cmd.Stdout = output
	cmd.Stderr = &stderr
	// Own process group, so a timed-out solution dies with its children.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return result, fmt.Errorf("start %s: %w", r.artifact, err)
	}

	var peakRSS uint64
	memStop := make(chan struct{})
	if r.cfg.MeasureMemory {
		go func(pid int32) {
			ticker := time.NewTicker(memoryPollInterval)
			defer ticker.Stop()
			for {
				select {
				case <-memStop:
					return
				case <-ticker.C:
					proc, err := process.NewProcess(pid)
					if err != nil {
						continue // likely already exited
					}
					memInfo, err := proc.MemoryInfo()
					if err != nil {
						continue
					}
					if memInfo.RSS > atomic.LoadUint64(&peakRSS) {
						atomic.StoreUint64(&peakRSS, memInfo.RSS)
					}
				}
			}
		}(int32(cmd.Process.Pid))
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- cmd.Wait()
	}()

	var waitErr error
	timedOut := false
	select {
	case waitErr = <-errChan:
	case <-runCtx.Done():
		if cmd.Process != nil {
			_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		}
		waitErr = <-errChan
		timedOut = true
	}
	close(memStop)

	if timedOut && ctx.Err() != nil {
		// The caller's context ended, not the per-case limit.
		return result, ctx.Err()
	}

	result.TimeMs = time.Since(start).Milliseconds()
	result.MemoryKb = atomic.LoadUint64(&peakRSS) / 1024
	result.Stderr = stderr.String()

	if timedOut {
		result.Status = models.TimeLimitExceeded
		if verbose {
			fmt.Fprintf(r.out, "Time limit exceeded (%d ms)\n", r.cfg.TimeLimitMs)
		}
		return result, nil
	}

	if waitErr != nil {
		exitErr, ok := waitErr.(*exec.ExitError)
		if !ok {
			return result, fmt.Errorf("wait for %s: %w", r.artifact, waitErr)
		}
		result.Status = models.RuntimeError
		result.ExitCode = exitErr.ExitCode()
		if verbose {
			fmt.Fprintf(r.out, "Runtime error. Exit code %d\n", result.ExitCode)
		}
		if result.Stderr != "" {
			fmt.Fprintln(r.out, result.Stderr)
		}
		return result, nil
	}

	actual, err := ReadLines(outPath)
	if err != nil {
		return result, err
	}
	expected, err := ReadLines(tc.AnswerPath)
	if err != nil {
		return result, err
	}

	if r.checker.Compare(actual, expected) {
		result.Status = models.Pass
		if verbose {
			fmt.Fprintln(r.out, "Output:")
			for _, line := range expected {
				fmt.Fprintln(r.out, line)
			}
			fmt.Fprintln(r.out, strings.Repeat("-", 20))
		}
		return result, nil
	}

	result.Status = models.WrongAnswer
	result.Actual = actual
	result.Expected = expected
	fmt.Fprintf(r.out, "Error in %s occurred\n", tc.Name)
	fmt.Fprintln(r.out, "Your answer:")
	for _, line := range actual {
		fmt.Fprintln(r.out, line)
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Real answer")
	for _, line := range expected {
		fmt.Fprintln(r.out, line)
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, strings.Repeat("-", 20))
	return result, nil
}

// echoFile prints a file's normalized lines under a header, for verbose
// input echoing.
func (r *Runner) echoFile(path, header string) error {
	lines, err := ReadLines(path)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, header)
	for _, line := range lines {
		fmt.Fprintln(r.out, line)
	}
	fmt.Fprintln(r.out)
	return nil
}

// limitedBuffer keeps the first stderrCaptureLimit bytes and drops the rest,
// so a solution spamming stderr cannot balloon the harness.
type limitedBuffer struct {
	buf       bytes.Buffer
	truncated bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	remain := stderrCaptureLimit - b.buf.Len()
	switch {
	case remain >= len(p):
		b.buf.Write(p)
	case remain > 0:
		b.buf.Write(p[:remain])
		b.truncated = true
	case len(p) > 0:
		b.truncated = true
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	if b.truncated {
		return b.buf.String() + "\n... (truncated)"
	}
	return b.buf.String()
}
