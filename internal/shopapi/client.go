package shopapi

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

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/metrics"
)

const (
	DefaultBaseURL             = "http://localhost:8000/api"
	errorBodyReadLimit   int64 = 64 * 1024
	successBodyReadLimit int64 = 8 * 1024 * 1024
)

var errBaseURLRequired = errors.New("commerce api base url is required")

// Credentials supplies and revokes the shopper's bearer token.
type Credentials interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// Client is the single gateway to the remote commerce API. It never retries and
// applies no timeout of its own unless WithTimeout is used; the caller's context
// bounds every request.
type Client struct {
	httpClient *http.Client
	baseURL    string
	creds      Credentials
	metrics    *metrics.UpstreamMetrics
	logg       *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets a per-request timeout on the underlying HTTP client. Zero keeps none.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

func WithCredentials(creds Credentials) Option {
	return func(c *Client) {
		c.creds = creds
	}
}

func WithMetrics(m *metrics.UpstreamMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		if logg != nil {
			c.logg = logg
		}
	}
}

// NewClient builds the API client for baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return nil, fmt.Errorf("parse commerce api base url: %w", err)
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{},
		logg:       logger.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type call struct {
	endpoint string
	method   string
	path     string
	query    url.Values
	body     any
}

// do executes the call and returns the decoded JSON body (numbers as json.Number).
// A 204 or empty body decodes to nil.
func (c *Client) do(ctx context.Context, req call) (any, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "commerce api client not configured")
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal "+req.endpoint+" request")
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.buildURL(req.path, req.query), body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build "+req.endpoint+" request")
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.creds != nil {
		token, err := c.creds.Token(ctx)
		if err != nil {
			return nil, err
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.observe(ctx, req, 0, start)
		return nil, pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "network error")
	}
	defer func() { _ = resp.Body.Close() }()
	c.observe(ctx, req, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		apiErr := normalizeError(resp.StatusCode, raw)
		if resp.StatusCode == http.StatusUnauthorized && c.creds != nil {
			if clearErr := c.creds.Clear(ctx); clearErr != nil {
				c.logg.Error(ctx, "failed to clear credentials after 401", clearErr)
			}
		}
		return nil, apiErr
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, successBodyReadLimit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "network error")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var decoded any
	if err := decoder.Decode(&decoded); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "invalid response from server").WithStatus(resp.StatusCode)
	}
	return decoded, nil
}

func (c *Client) observe(ctx context.Context, req call, status int, start time.Time) {
	elapsed := time.Since(start)
	c.metrics.Observe(req.endpoint, status, elapsed)
	ctx = c.logg.WithFields(ctx, map[string]any{
		"endpoint":    req.endpoint,
		"method":      req.method,
		"status":      status,
		"duration_ms": elapsed.Milliseconds(),
	})
	c.logg.Debug(ctx, "commerce api call")
}

func (c *Client) buildURL(path string, query url.Values) string {
	full := fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))
	if len(query) > 0 {
		full += "?" + query.Encode()
	}
	return full
}

func escape(segment string) string {
	return url.PathEscape(strings.TrimSpace(segment))
}

func requireID(value, name string) error {
	if strings.TrimSpace(value) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	return nil
}
