// Package httpsource is the shared JSON-over-HTTP plumbing behind every
// upstream social and market data API.
package httpsource

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"cryptopulse/internal/adapters/ratelimit"
	"cryptopulse/internal/adapters/retry"
	"cryptopulse/internal/metrics"
	"cryptopulse/pkg/errors"
	"cryptopulse/pkg/logger"
	"cryptopulse/pkg/trace"
)

const maxErrorBody = 4 << 10

// Config describes one upstream API
type Config struct {
	Name              string
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerMinute int
	MaxRetries        int

	// HTTPClient overrides the default client (tests)
	HTTPClient *http.Client
}

// Client performs rate limited, retried requests against one API
type Client struct {
	name      string
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *ratelimit.Limiter
	retry     *retry.Middleware
	log       *logger.Logger
}

// New creates a new source client
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "cryptopulse/1.0"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = cfg.MaxRetries
	if cfg.MaxRetries == 0 {
		retryCfg.MaxRetries = -1
	}

	return &Client{
		name:      cfg.Name,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      httpClient,
		limiter:   ratelimit.NewLimiter(cfg.Name, cfg.RequestsPerMinute),
		retry:     retry.New(retryCfg),
		log:       logger.Get().With("component", "source_client", "source", cfg.Name),
	}
}

// Name returns the source name
func (c *Client) Name() string {
	return c.name
}

// Request is one call to the upstream API. Path may be absolute.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Form   url.Values
}

// GetJSON issues a GET and decodes the JSON response into out
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, header http.Header, out any) error {
	return c.DoJSON(ctx, Request{Method: http.MethodGet, Path: path, Query: query, Header: header}, out)
}

// DoJSON sends req with rate limiting and retries and decodes the response into out
func (c *Client) DoJSON(ctx context.Context, req Request, out any) error {
	ctx, span := trace.StartSpan(ctx, "source.fetch",
		attribute.String("source", c.name),
		attribute.String("path", req.Path),
	)

	start := time.Now()
	err := c.retry.Do(ctx, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		return c.do(ctx, req, out)
	})

	metrics.RecordSourceCall(c.name, time.Since(start), err)
	trace.End(span, err)

	if err != nil {
		return errors.Wrapf(err, "%s %s", c.name, req.Path)
	}
	return nil
}

func (c *Client) do(ctx context.Context, req Request, out any) error {
	target := req.Path
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = c.baseURL + target
	}
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Form != nil {
		body = strings.NewReader(req.Form.Encode())
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "application/json")
	if req.Form != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Debugw("Upstream returned error status", "status", resp.StatusCode, "path", req.Path)
		return errors.NewStatusError(c.name, resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}
	return nil
}
