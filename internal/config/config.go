package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
	APIBind string `toml:"api_bind"`
}

// MediaAI contains connection settings for the AI media backend that
// generates scripts, voice-overs, captions, renders, and transcripts.
type MediaAI struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	Voice          string `toml:"voice"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Platform contains connection settings for the social platform gateway used
// by the publishing pipeline (token verification and video upload).
type Platform struct {
	BaseURL        string `toml:"base_url"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Workflow contains job engine tuning.
type Workflow struct {
	// MaxConcurrentJobs bounds how many pipelines may run at once.
	MaxConcurrentJobs int `toml:"max_concurrent_jobs"`
}

// Realtime contains push-channel transport settings.
type Realtime struct {
	AllowedOrigins      []string `toml:"allowed_origins"`
	WriteTimeoutSeconds int      `toml:"write_timeout_seconds"`
	MaxMessageBytes     int64    `toml:"max_message_bytes"`
}

// WriteTimeout returns the per-message write deadline as a duration.
func (r Realtime) WriteTimeout() time.Duration {
	return time.Duration(r.WriteTimeoutSeconds) * time.Second
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for videoai.
//
// Configuration sections by subsystem:
//   - Paths: directories and API bind address
//   - MediaAI: AI media backend connection
//   - Platform: social platform gateway connection
//   - Workflow: job engine concurrency bounds
//   - Realtime: push-channel transport tuning
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	MediaAI  MediaAI  `toml:"media_ai"`
	Platform Platform `toml:"platform"`
	Workflow Workflow `toml:"workflow"`
	Realtime Realtime `toml:"realtime"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/videoai/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. Environment variables
// (optionally loaded from a .env file in the working directory) override
// file-provided secrets.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	// Missing .env is the common case and not an error.
	_ = godotenv.Load()
	applyEnvOverrides(&cfg)

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func applyEnvOverrides(cfg *Config) {
	if key := strings.TrimSpace(os.Getenv("VIDEOAI_MEDIA_API_KEY")); key != "" {
		cfg.MediaAI.APIKey = key
	}
	if base := strings.TrimSpace(os.Getenv("VIDEOAI_MEDIA_BASE_URL")); base != "" {
		cfg.MediaAI.BaseURL = base
	}
	if base := strings.TrimSpace(os.Getenv("VIDEOAI_PLATFORM_BASE_URL")); base != "" {
		cfg.Platform.BaseURL = base
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("videoai.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the location of the jobs database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "jobs.db")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
