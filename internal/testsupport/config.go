package testsupport

import (
	"path/filepath"
	"testing"

	"videoai/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.MediaAI.BaseURL = "http://media.test"
	cfg.MediaAI.APIKey = "test"
	cfg.Platform.BaseURL = "http://platform.test"

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithMaxConcurrentJobs overrides the pipeline admission limit.
func WithMaxConcurrentJobs(limit int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Workflow.MaxConcurrentJobs = limit
	}
}
