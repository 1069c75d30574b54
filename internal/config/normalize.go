package config

import "strings"

func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}

	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	c.MediaAI.BaseURL = strings.TrimRight(strings.TrimSpace(c.MediaAI.BaseURL), "/")
	c.MediaAI.APIKey = strings.TrimSpace(c.MediaAI.APIKey)
	c.MediaAI.Voice = strings.TrimSpace(c.MediaAI.Voice)
	c.Platform.BaseURL = strings.TrimRight(strings.TrimSpace(c.Platform.BaseURL), "/")

	if c.MediaAI.RequestTimeout <= 0 {
		c.MediaAI.RequestTimeout = defaultMediaRequestTimeout
	}
	if c.Platform.RequestTimeout <= 0 {
		c.Platform.RequestTimeout = defaultPlatformTimeout
	}
	if c.Workflow.MaxConcurrentJobs <= 0 {
		c.Workflow.MaxConcurrentJobs = defaultMaxConcurrentJobs
	}
	if c.Realtime.WriteTimeoutSeconds <= 0 {
		c.Realtime.WriteTimeoutSeconds = defaultWriteTimeoutSeconds
	}
	if c.Realtime.MaxMessageBytes <= 0 {
		c.Realtime.MaxMessageBytes = defaultMaxMessageBytes
	}

	trimmed := make([]string, 0, len(c.Realtime.AllowedOrigins))
	for _, origin := range c.Realtime.AllowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			trimmed = append(trimmed, origin)
		}
	}
	c.Realtime.AllowedOrigins = trimmed

	return nil
}
