package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"videoai/internal/config"
	"videoai/internal/publishing"
)

const defaultHTTPTimeout = 60 * time.Second

// Supported platforms fronted by the gateway.
var DefaultPlatforms = []string{"youtube", "tiktok", "instagram"}

// HTTPDoer describes the HTTP client used by the gateway client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config captures the runtime settings required to talk to the gateway.
type Config struct {
	BaseURL        string
	TimeoutSeconds int
}

// Client wraps the social platform gateway's REST API.
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

// NewClient constructs a gateway client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
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
		BaseURL:        cfg.Platform.BaseURL,
		TimeoutSeconds: cfg.Platform.RequestTimeout,
	})
}

// Collaborators returns the publishing wiring backed by this client, with
// the gateway registered as publisher for every default platform.
func (c *Client) Collaborators() publishing.Collaborators {
	registry := publishing.NewRegistry()
	for _, name := range DefaultPlatforms {
		registry.Register(name, c)
	}
	return publishing.Collaborators{
		Accounts:   c,
		Tokens:     c,
		Publishers: registry,
	}
}

// Account looks up a linked account by identifier.
func (c *Client) Account(ctx context.Context, accountID string) (publishing.Account, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return publishing.Account{}, errors.New("platform account: account id required")
	}
	var out publishing.Account
	if err := c.getJSON(ctx, "/v1/accounts/"+url.PathEscape(accountID), &out); err != nil {
		return publishing.Account{}, err
	}
	if out.ID == "" {
		out.ID = accountID
	}
	return out, nil
}

// ValidToken returns a fresh access token for an account. The gateway owns
// refresh and credential storage.
func (c *Client) ValidToken(ctx context.Context, account publishing.Account) (string, error) {
	if strings.TrimSpace(account.ID) == "" {
		return "", errors.New("platform token: account id required")
	}
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	if err := c.postJSON(ctx, "/v1/accounts/"+url.PathEscape(account.ID)+"/token", nil, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("platform token: empty token in response")
	}
	return out.AccessToken, nil
}

// UserExists reports whether the gateway knows the given user. Used by the
// push channel's auth handshake.
func (c *Client) UserExists(ctx context.Context, userID string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, nil
	}
	err := c.getJSON(ctx, "/v1/users/"+url.PathEscape(userID), nil)
	if err != nil {
		var statusErr *httpStatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Publish uploads one video through the gateway.
func (c *Client) Publish(ctx context.Context, req publishing.PublishRequest) (publishing.Receipt, error) {
	payload := map[string]any{
		"accountId":   req.Account.ID,
		"platform":    req.Account.Platform,
		"accessToken": req.AccessToken,
		"videoUrl":    req.VideoURL,
		"title":       req.Title,
		"description": req.Description,
	}
	var out publishing.Receipt
	if err := c.postJSON(ctx, "/v1/publications", payload, &out); err != nil {
		return publishing.Receipt{}, err
	}
	if out.ExternalID == "" {
		return publishing.Receipt{}, errors.New("platform publish: empty external id in response")
	}
	return out, nil
}

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("platform request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	return c.do(ctx, http.MethodGet, path, nil, target)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, target any) error {
	return c.do(ctx, http.MethodPost, path, payload, target)
}

func (c *Client) do(ctx context.Context, method, path string, payload, target any) error {
	if c.cfg.BaseURL == "" {
		return errors.New("platform request: base url not configured")
	}
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("platform request: encode body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("platform request: new request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("platform request: http error: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("platform request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return &httpStatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if target == nil {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("platform request: decode response: %w", err)
	}
	return nil
}
