// Package cli wires the whole pipeline behind the algotest command:
// compile, discover tests, resolve the checker, run.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/wwwwwert/AlgorithmTesting/internal/config"
	"github.com/wwwwwert/AlgorithmTesting/internal/core"
	"github.com/wwwwwert/AlgorithmTesting/internal/core/checker"
	"github.com/wwwwwert/AlgorithmTesting/internal/watch"
)

// Exit codes: 0 all tests passed, 1 some case failed, 2 nothing could run.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitFatal  = 2
)

// Options mirrors the command line surface.
type Options struct {
	TaskDir            string
	Verbose            bool
	SkipCompilerChecks bool
	DryRun             bool
	Watch              bool
	TimeLimitMs        int64 // negative means "use the configured value"
	ConfigPath         string
}

// ParseArgs reads the flag surface: algotest [flags] <task-dir>.
func ParseArgs(args []string, out io.Writer) (Options, error) {
	opts := Options{TimeLimitMs: -1}
	flags := pflag.NewFlagSet("algotest", pflag.ContinueOnError)
	flags.SetOutput(out)
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "print each case's input and output")
	flags.BoolVarP(&opts.SkipCompilerChecks, "skip-compiler-checks", "s", false, "compile without sanitizers and strict warnings")
	flags.BoolVarP(&opts.DryRun, "dry-run", "d", false, "keep running after a failed case")
	flags.BoolVar(&opts.Watch, "watch", false, "re-run whenever the task files change")
	flags.Int64Var(&opts.TimeLimitMs, "time-limit", -1, "per-case wall clock in milliseconds, 0 disables the limit")
	flags.StringVar(&opts.ConfigPath, "config", "", "extra directory to search for config.yaml")
	flags.Usage = func() {
		fmt.Fprintln(out, "Usage: algotest [flags] <task-dir>")
		fmt.Fprintln(out)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return opts, err
	}
	rest := flags.Args()
	if len(rest) != 1 {
		flags.Usage()
		return opts, errors.New("expected exactly one task directory")
	}
	opts.TaskDir = rest[0]
	return opts, nil
}

// Main is the entry point behind cmd/algotest. It returns the process exit
// code.
func Main(args []string, out io.Writer) int {
	opts, err := ParseArgs(args, out)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return ExitOK
		}
		fmt.Fprintln(out, err)
		return ExitFatal
	}

	var configPaths []string
	if opts.ConfigPath != "" {
		configPaths = append(configPaths, opts.ConfigPath)
	}
	cfg, err := config.LoadConfig(configPaths...)
	if err != nil {
		fmt.Fprintln(out, err)
		return ExitFatal
	}
	if opts.TimeLimitMs >= 0 {
		cfg.Runner.TimeLimitMs = opts.TimeLimitMs
	}

	if opts.Watch {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if err := watch.Run(ctx, opts.TaskDir, func() {
			RunTask(ctx, cfg, opts, out)
		}); err != nil {
			fmt.Fprintln(out, err)
			return ExitFatal
		}
		return ExitOK
	}
	return RunTask(context.Background(), cfg, opts, out)
}

// RunTask executes the pipeline for one task directory and returns the exit
// code. Compilation comes first, so a broken build never touches the tests.
func RunTask(ctx context.Context, cfg *config.Config, opts Options, out io.Writer) int {
	fmt.Fprintln(out, "Compiling...")
	profile := core.ProfileHardened
	if opts.SkipCompilerChecks {
		profile = core.ProfileRelaxed
	}
	artifact, err := core.NewBuilder(cfg.Build).Build(ctx, opts.TaskDir, profile)
	if err != nil {
		var buildErr *core.BuildError
		if errors.As(err, &buildErr) {
			if buildErr.MissingArtifact {
				fmt.Fprintln(out, "Compiling failed")
			} else {
				fmt.Fprintf(out, "Compilation error. Exit code %d\n", buildErr.ExitCode)
			}
			if buildErr.Output != "" {
				fmt.Fprintln(out, buildErr.Output)
			}
		} else {
			fmt.Fprintln(out, err)
		}
		return ExitFatal
	}

	suite, err := core.LoadSuite(opts.TaskDir)
	if err != nil {
		if errors.Is(err, core.ErrNoTestsDir) {
			fmt.Fprintln(out, "Directory 'tests' was not found.")
		} else {
			fmt.Fprintln(out, err)
		}
		return ExitFatal
	}
	if len(suite) == 0 {
		fmt.Fprintln(out, "No tests found!")
		return ExitFatal
	}

	chk, err := checker.Resolve(opts.TaskDir)
	if err != nil {
		fmt.Fprintln(out, err)
		return ExitFatal
	}
	if chk.ID() != checker.DefaultID {
		fmt.Fprintf(out, "Using custom checker: %s\n", chk.ID())
	}

	runner := core.NewRunner(artifact, chk, cfg.Runner, out)
	summary, err := runner.RunSuite(ctx, suite, core.RunOptions{
		Verbose: opts.Verbose,
		DryRun:  opts.DryRun,
	})
	if err != nil {
		fmt.Fprintln(out, err)
		return ExitFatal
	}
	fmt.Fprintln(out, summary.String())
	if summary.AllPassed() {
		return ExitOK
	}
	return ExitFailed
}
