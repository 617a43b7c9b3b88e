package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds every setting the harness and the worker read.
type Config struct {
	Build  BuildConfig  `mapstructure:"build"`
	Runner RunnerConfig `mapstructure:"runner"`
	NATS   NATSConfig   `mapstructure:"nats"`
	Worker WorkerConfig `mapstructure:"worker"`
}

// BuildConfig controls the compile step.
type BuildConfig struct {
	Compiler   string `mapstructure:"compiler"`   // compiler binary
	Standard   string `mapstructure:"standard"`   // language standard passed via -std
	TimeoutSec int    `mapstructure:"timeoutSec"` // compile step timeout (seconds)
}

// RunnerConfig controls per-case execution.
type RunnerConfig struct {
	TimeLimitMs   int64 `mapstructure:"timeLimitMs"`   // per-case wall clock, 0 disables the limit
	MeasureMemory bool  `mapstructure:"measureMemory"` // sample peak RSS while a case runs
}

// NATSConfig holds the worker transport settings.
type NATSConfig struct {
	URL               string `mapstructure:"url"`
	RunRequestSubject string `mapstructure:"runRequestSubject"`
	CaseReportSubject string `mapstructure:"caseReportSubject"`
	RunReportSubject  string `mapstructure:"runReportSubject"`
	QueueGroup        string `mapstructure:"queueGroup"`
}

// WorkerConfig controls the daemon.
type WorkerConfig struct {
	MaxConcurrentJobs int    `mapstructure:"maxConcurrentJobs"` // 0 means unlimited
	RunTimeoutSec     int    `mapstructure:"runTimeoutSec"`     // whole-request deadline (seconds)
	WorkDir           string `mapstructure:"workDir"`           // scratch root, os.TempDir when empty
}

// LoadConfig reads configuration from file and environment variables.
// Environment variables override file values, e.g. ALGOTEST_NATS_URL maps to
// nats.url. A missing config file is fine; defaults cover every key.
func LoadConfig(configPaths ...string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	for _, path := range configPaths {
		v.AddConfigPath(path)
	}
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/algotest/")

	v.AutomaticEnv()
	v.SetEnvPrefix("ALGOTEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("build.compiler", "g++")
	v.SetDefault("build.standard", "c++17")
	v.SetDefault("build.timeoutSec", 30)
	v.SetDefault("runner.timeLimitMs", 0)
	v.SetDefault("runner.measureMemory", true)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.runRequestSubject", "run.requested")
	v.SetDefault("nats.caseReportSubject", "run.case")
	v.SetDefault("nats.runReportSubject", "run.report")
	v.SetDefault("nats.queueGroup", "algotest-workers")
	v.SetDefault("worker.maxConcurrentJobs", 4)
	v.SetDefault("worker.runTimeoutSec", 300)
	v.SetDefault("worker.workDir", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		log.Printf("Using config file: %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
