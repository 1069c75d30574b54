package mediaai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"videoai/internal/config"
	"videoai/internal/generation"
	"videoai/internal/segmentation"
)

const defaultHTTPTimeout = 120 * time.Second

// HTTPDoer describes the HTTP client used by the media backend client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config captures the runtime settings required to talk to the media backend.
type Config struct {
	BaseURL        string
	APIKey         string
	Voice          string
	TimeoutSeconds int
}

// Client wraps the media backend's REST API.
type Client struct {
	cfg        Config
	httpClient HTTPDoer
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a media backend client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			APIKey:         strings.TrimSpace(cfg.APIKey),
			Voice:          strings.TrimSpace(cfg.Voice),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// FromConfig builds a client from the daemon configuration.
func FromConfig(cfg *config.Config) *Client {
	if cfg == nil {
		return NewClient(Config{})
	}
	return NewClient(Config{
		BaseURL:        cfg.MediaAI.BaseURL,
		APIKey:         cfg.MediaAI.APIKey,
		Voice:          cfg.MediaAI.Voice,
		TimeoutSeconds: cfg.MediaAI.RequestTimeout,
	})
}

// GenerateScript produces a narration script for a prompt.
func (c *Client) GenerateScript(ctx context.Context, prompt string, duration int) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("media script: prompt required")
	}
	var out struct {
		Script string `json:"script"`
	}
	payload := map[string]any{"prompt": prompt, "duration": duration}
	if err := c.postJSON(ctx, "/v1/scripts", payload, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Script) == "" {
		return "", errors.New("media script: empty script in response")
	}
	return out.Script, nil
}

// GenerateVoiceOver turns a script into narration audio. An empty voice
// falls back to the configured default.
func (c *Client) GenerateVoiceOver(ctx context.Context, text, voice string) (generation.VoiceOver, error) {
	if strings.TrimSpace(text) == "" {
		return generation.VoiceOver{}, errors.New("media voiceover: text required")
	}
	if strings.TrimSpace(voice) == "" {
		voice = c.cfg.Voice
	}
	var out generation.VoiceOver
	payload := map[string]any{"text": text, "voice": voice}
	if err := c.postJSON(ctx, "/v1/voiceovers", payload, &out); err != nil {
		return generation.VoiceOver{}, err
	}
	if out.AudioURL == "" {
		return generation.VoiceOver{}, errors.New("media voiceover: empty audio url in response")
	}
	return out, nil
}

// GenerateCaptions derives timed captions from narration audio.
func (c *Client) GenerateCaptions(ctx context.Context, audioURL string) ([]generation.Caption, error) {
	if strings.TrimSpace(audioURL) == "" {
		return nil, errors.New("media captions: audio url required")
	}
	var out struct {
		Captions []generation.Caption `json:"captions"`
	}
	payload := map[string]any{"audioUrl": audioURL}
	if err := c.postJSON(ctx, "/v1/captions", payload, &out); err != nil {
		return nil, err
	}
	return out.Captions, nil
}

// RenderVideo composes the final video from script, audio, and captions.
func (c *Client) RenderVideo(ctx context.Context, req generation.RenderRequest) (generation.RenderedVideo, error) {
	var out generation.RenderedVideo
	if err := c.postJSON(ctx, "/v1/renders", req, &out); err != nil {
		return generation.RenderedVideo{}, err
	}
	if out.URL == "" {
		return generation.RenderedVideo{}, errors.New("media render: empty video url in response")
	}
	return out, nil
}

// ExtractFrame pulls a single frame from the clip at a timestamp.
func (c *Client) ExtractFrame(ctx context.Context, mediaPath string, timestamp float64) (string, error) {
	if strings.TrimSpace(mediaPath) == "" {
		return "", errors.New("media frame: media path required")
	}
	var out struct {
		FramePath string `json:"framePath"`
	}
	payload := map[string]any{"mediaPath": mediaPath, "timestamp": timestamp}
	if err := c.postJSON(ctx, "/v1/frames", payload, &out); err != nil {
		return "", err
	}
	if out.FramePath == "" {
		return "", errors.New("media frame: empty frame path in response")
	}
	return out.FramePath, nil
}

// AnalyzeFrames turns sampled frames into a scene plan.
func (c *Client) AnalyzeFrames(ctx context.Context, frames []string, duration float64) (segmentation.Plan, error) {
	if len(frames) == 0 {
		return segmentation.Plan{}, errors.New("media analysis: frames required")
	}
	var out segmentation.Plan
	payload := map[string]any{"frames": frames, "duration": duration}
	if err := c.postJSON(ctx, "/v1/scene-analyses", payload, &out); err != nil {
		return segmentation.Plan{}, err
	}
	return out, nil
}

// TranscribeSegment generates the subtitle for one segment's audio slice.
func (c *Client) TranscribeSegment(ctx context.Context, mediaPath string, start, end float64) (segmentation.Subtitle, error) {
	if strings.TrimSpace(mediaPath) == "" {
		return segmentation.Subtitle{}, errors.New("media transcription: media path required")
	}
	var out segmentation.Subtitle
	payload := map[string]any{"mediaPath": mediaPath, "start": start, "end": end}
	if err := c.postJSON(ctx, "/v1/transcriptions", payload, &out); err != nil {
		return segmentation.Subtitle{}, err
	}
	return out, nil
}

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("media request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

func (c *Client) postJSON(ctx context.Context, path string, payload, target any) error {
	if c.cfg.BaseURL == "" {
		return errors.New("media request: base url not configured")
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("media request: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("media request: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("media request: http error: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("media request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return &httpStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if target == nil {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("media request: decode response: %w", err)
	}
	return nil
}
