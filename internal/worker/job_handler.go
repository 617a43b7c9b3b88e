package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wwwwwert/AlgorithmTesting/internal/config"
	"github.com/wwwwwert/AlgorithmTesting/internal/core"
	"github.com/wwwwwert/AlgorithmTesting/internal/core/checker"
	"github.com/wwwwwert/AlgorithmTesting/internal/models"
	natsClient "github.com/wwwwwert/AlgorithmTesting/internal/nats"
)

// JobHandler materializes run requests into scratch task directories and
// feeds them through the engine, publishing one report per executed case and
// a final run report.
type JobHandler struct {
	publisher *natsClient.Publisher
	cfg       *config.Config
	sem       chan struct{}
}

func NewJobHandler(publisher *natsClient.Publisher, cfg *config.Config) *JobHandler {
	var sem chan struct{}
	if n := cfg.Worker.MaxConcurrentJobs; n > 0 {
		sem = make(chan struct{}, n)
		log.Printf("JobHandler initialized with maxConcurrentJobs=%d", n)
	} else {
		log.Printf("JobHandler initialized without a concurrency limit")
	}
	return &JobHandler{publisher: publisher, cfg: cfg, sem: sem}
}

// HandleRequest implements nats.RequestProcessor.
func (h *JobHandler) HandleRequest(req models.RunRequest) {
	if h.sem != nil {
		h.sem <- struct{}{}
		defer func() { <-h.sem }()
	}
	log.Printf("Processing run request %s (%d tests)", req.ID, len(req.Tests))

	timeout := time.Duration(h.cfg.Worker.RunTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	report := h.process(ctx, req)
	if err := h.publisher.PublishRunReport(report); err != nil {
		log.Printf("Error publishing run report for request %s: %v", req.ID, err)
	}
	log.Printf("Finished run request %s", req.ID)
}

// process runs one request end to end and assembles its final report.
func (h *JobHandler) process(ctx context.Context, req models.RunRequest) models.RunReport {
	report := models.RunReport{RequestID: req.ID, Total: len(req.Tests)}

	taskDir, err := h.materialize(req)
	if taskDir != "" {
		defer func() {
			if err := os.RemoveAll(taskDir); err != nil {
				log.Printf("Error removing task dir %s: %v", taskDir, err)
			}
		}()
	}
	if err != nil {
		log.Printf("Error materializing request %s: %v", req.ID, err)
		report.Error = err.Error()
		report.ErrorKind = models.ReportErrorInternal
		return report
	}

	profile := core.ProfileHardened
	if req.SkipCompilerChecks {
		profile = core.ProfileRelaxed
	}
	artifact, err := core.NewBuilder(h.cfg.Build).Build(ctx, taskDir, profile)
	if err != nil {
		var buildErr *core.BuildError
		if errors.As(err, &buildErr) {
			report.Error = buildErr.Output
			report.ErrorKind = models.ReportErrorCompile
		} else {
			report.Error = err.Error()
			report.ErrorKind = models.ReportErrorInternal
		}
		return report
	}

	suite, err := core.LoadSuite(taskDir)
	if err != nil {
		report.Error = err.Error()
		report.ErrorKind = models.ReportErrorInternal
		return report
	}

	runnerCfg := h.cfg.Runner
	if req.TimeLimitMs > 0 {
		runnerCfg.TimeLimitMs = req.TimeLimitMs
	}
	runner := core.NewRunner(artifact, checker.Default(), runnerCfg, nil)
	summary, err := runner.RunSuite(ctx, suite, core.RunOptions{
		DryRun: req.DryRun,
		OnResult: func(res models.CaseResult) {
			h.publishCase(req.ID, res)
		},
	})
	if err != nil {
		report.Error = err.Error()
		report.ErrorKind = models.ReportErrorInternal
		return report
	}

	report.Passed = summary.Passed
	report.Stopped = summary.Stopped
	report.StoppedAt = summary.StoppedAt
	return report
}

// materialize writes the request's source and tests into a scratch task
// directory laid out exactly the way the CLI expects tasks on disk.
func (h *JobHandler) materialize(req models.RunRequest) (string, error) {
	root := h.cfg.Worker.WorkDir
	if root == "" {
		root = os.TempDir()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}
	taskDir, err := os.MkdirTemp(root, "request-*")
	if err != nil {
		return "", fmt.Errorf("create task dir: %w", err)
	}

	if err := os.WriteFile(filepath.Join(taskDir, core.SourceFile), []byte(req.Source), 0o644); err != nil {
		return taskDir, fmt.Errorf("write source: %w", err)
	}
	for i, tc := range req.Tests {
		name := fmt.Sprintf("test_%d_%s", i+1, sanitizeLabel(tc.Name))
		dir := filepath.Join(taskDir, core.TestsDir, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return taskDir, fmt.Errorf("create case dir %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, core.InputFile), []byte(tc.Input), 0o644); err != nil {
			return taskDir, fmt.Errorf("write input for %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, core.AnswerFile), []byte(tc.Output), 0o644); err != nil {
			return taskDir, fmt.Errorf("write output for %s: %w", name, err)
		}
	}
	return taskDir, nil
}

// publishCase maps one engine result onto the wire.
func (h *JobHandler) publishCase(requestID string, res models.CaseResult) {
	report := models.CaseReport{
		RequestID: requestID,
		Case:      res.Case.Name,
		Status:    res.Status,
		ExitCode:  res.ExitCode,
		TimeMs:    res.TimeMs,
		MemoryKb:  res.MemoryKb,
	}
	switch res.Status {
	case models.WrongAnswer:
		report.Output = strings.Join(res.Actual, "\n")
	case models.RuntimeError:
		report.Error = res.Stderr
	}
	if err := h.publisher.PublishCaseReport(report); err != nil {
		log.Printf("Error publishing case report for request %s: %v", requestID, err)
	}
}

// sanitizeLabel keeps request-supplied case names from breaking the
// test_<n>_<label> layout; underscores would shift the ordering token.
func sanitizeLabel(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '-'
		}
	}, name)
	if mapped == "" {
		return "case"
	}
	return mapped
}
