package config

const (
	defaultDataDir             = "~/.local/share/videoai"
	defaultLogDir              = "~/.local/share/videoai/logs"
	defaultAPIBind             = "127.0.0.1:7820"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultMaxConcurrentJobs   = 8
	defaultMediaRequestTimeout = 120
	defaultMediaVoice          = "narrator-en"
	defaultPlatformTimeout     = 60
	defaultWriteTimeoutSeconds = 10
	defaultMaxMessageBytes     = 32 * 1024
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		MediaAI: MediaAI{
			Voice:          defaultMediaVoice,
			RequestTimeout: defaultMediaRequestTimeout,
		},
		Platform: Platform{
			RequestTimeout: defaultPlatformTimeout,
		},
		Workflow: Workflow{
			MaxConcurrentJobs: defaultMaxConcurrentJobs,
		},
		Realtime: Realtime{
			WriteTimeoutSeconds: defaultWriteTimeoutSeconds,
			MaxMessageBytes:     defaultMaxMessageBytes,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
