package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.quantum-computing.ibm.com/api"
	DefaultHub     = "ibm-q"
	DefaultGroup   = "open"
	DefaultProject = "main"
	DefaultTimeout = 30 * time.Second

	maxErrorBody = 512
)

var (
	ErrNoToken = errors.New("api token is required")
	ErrNotOpen = errors.New("client session is not open")

	// ErrNoStatus is returned when a provider reports no status for a backend.
	ErrNoStatus = errors.New("no status reported")
)

// Config holds the provider endpoint and credentials.
type Config struct {
	BaseURL string
	Token   string
	Hub     string
	Group   string
	Project string
	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Hub == "" {
		c.Hub = DefaultHub
	}
	if c.Group == "" {
		c.Group = DefaultGroup
	}
	if c.Project == "" {
		c.Project = DefaultProject
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// Client is a Provider backed by the provider's REST API. A session must be
// opened with Open before Backends or Status are called.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger

	mu          sync.Mutex
	accessToken string
}

var _ Provider = (*Client)(nil)

// NewClient validates cfg and returns an unopened client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.Token == "" {
		return nil, ErrNoToken
	}
	cfg = cfg.withDefaults()
	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Open exchanges the API token for an access token.
func (c *Client) Open(ctx context.Context) error {
	var out struct {
		ID string `json:"id"`
	}
	body := map[string]string{"apiToken": c.cfg.Token}
	if err := c.do(ctx, http.MethodPost, "/users/loginWithToken", "", body, &out); err != nil {
		return errors.Wrap(err, "login")
	}
	if out.ID == "" {
		return errors.New("login: empty access token")
	}

	c.mu.Lock()
	c.accessToken = out.ID
	c.mu.Unlock()
	c.logger.Debug("session opened", zap.String("hub", c.cfg.Hub), zap.String("group", c.cfg.Group))
	return nil
}

// Close logs out. Closing an unopened client is a no-op.
func (c *Client) Close(ctx context.Context) error {
	token, err := c.token()
	if err != nil {
		return nil
	}

	c.mu.Lock()
	c.accessToken = ""
	c.mu.Unlock()

	if err := c.do(ctx, http.MethodPost, "/users/logout", token, nil, nil); err != nil {
		return errors.Wrap(err, "logout")
	}
	c.logger.Debug("session closed")
	return nil
}

func (c *Client) token() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken == "" {
		return "", ErrNotOpen
	}
	return c.accessToken, nil
}

func (c *Client) devicesPath() string {
	return "/Network/" + url.PathEscape(c.cfg.Hub) +
		"/Groups/" + url.PathEscape(c.cfg.Group) +
		"/Projects/" + url.PathEscape(c.cfg.Project) +
		"/devices"
}

// Backends lists the backend names visible to the configured project.
func (c *Client) Backends(ctx context.Context) ([]string, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}
	var devices []struct {
		BackendName string `json:"backend_name"`
	}
	if err := c.do(ctx, http.MethodGet, c.devicesPath(), token, nil, &devices); err != nil {
		return nil, errors.Wrap(err, "list backends")
	}
	names := make([]string, 0, len(devices))
	for _, d := range devices {
		names = append(names, d.BackendName)
	}
	return names, nil
}

// Status fetches the queue status of one backend.
func (c *Client) Status(ctx context.Context, name string) (*Status, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}
	var st Status
	path := c.devicesPath() + "/" + url.PathEscape(name) + "/queue/status"
	if err := c.do(ctx, http.MethodGet, path, token, nil, &st); err != nil {
		return nil, errors.Wrapf(err, "status of %s", name)
	}
	return &st, nil
}

// do sends one JSON request. out may be nil.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	reqID := uuid.New().String()
	req.Header.Set("X-Request-Id", reqID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("X-Access-Token", token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("request_id", reqID),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	c.logger.Debug("request",
		zap.String("request_id", reqID),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
			RequestID:  reqID,
		}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s %s", method, path)
	}
	return nil
}
