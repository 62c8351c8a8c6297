// Package apiclient is the typed HTTP client for the PaperPulse REST API.
// Every response body is checked against a schema from the registry before
// it is handed to the caller.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"paperpulse/internal/schema"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 10 << 20
)

// Config is fixed at construction; the client holds no other session state.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// RPS caps outgoing requests per second. Zero disables the limit.
	RPS     float64
	Headers map[string]string
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	headers    http.Header
	limiter    *rate.Limiter
	log        *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "paperpulse-client/1.0"
	}

	headers := http.Header{}
	headers.Set("Accept", "application/json")
	headers.Set("Content-Type", "application/json")
	headers.Set("User-Agent", userAgent)
	for k, v := range cfg.Headers {
		headers.Set(k, v)
	}

	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		headers: headers,
		limiter: rate.NewLimiter(limit, 1),
		log:     log,
	}
}

// BaseURL returns the API root every path is resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues GET path and decodes the validated body into out.
// The contents of out are unspecified when an error is returned.
func (c *Client) Get(ctx context.Context, path string, s schema.Schema, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, s, out)
}

// Post sends body as JSON and decodes the validated response into out.
// The request body itself is not checked against s.
func (c *Client) Post(ctx context.Context, path string, body any, s schema.Schema, out any) error {
	return c.do(ctx, http.MethodPost, path, body, s, out)
}

func (c *Client) do(ctx context.Context, method, path string, body any, s schema.Schema, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	for k, v := range c.headers {
		req.Header[k] = append([]string(nil), v...)
	}
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &TransportError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: err}
	}

	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", requestID),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: data}
	}

	return c.decode(method, path, data, s, out)
}

func (c *Client) decode(method, path string, data []byte, s schema.Schema, out any) error {
	doc, err := schema.Decode(data)
	if err != nil {
		return c.mismatch(method, path, s, []schema.Violation{{Message: "invalid JSON: " + err.Error()}})
	}
	if violations := schema.Validate(s, doc); len(violations) > 0 {
		return c.mismatch(method, path, s, violations)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return c.mismatch(method, path, s, []schema.Violation{{Message: err.Error()}})
	}
	return nil
}

func (c *Client) mismatch(method, path string, s schema.Schema, violations []schema.Violation) error {
	details := make([]string, len(violations))
	for i, v := range violations {
		details[i] = v.String()
	}
	c.log.Warn("api response did not match schema",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("schema", schema.Describe(s)),
		zap.Strings("violations", details),
	)
	return &SchemaValidationError{
		Method:     method,
		Path:       path,
		Schema:     schema.Describe(s),
		Violations: violations,
	}
}

// Getter is satisfied by *Client.
type Getter interface {
	Get(ctx context.Context, path string, s schema.Schema, out any) error
}

// Poster is satisfied by *Client.
type Poster interface {
	Post(ctx context.Context, path string, body any, s schema.Schema, out any) error
}

// FetchTyped issues GET path and returns the body as T once it matches s.
func FetchTyped[T any](ctx context.Context, c Getter, path string, s schema.Schema) (T, error) {
	var v T
	if err := c.Get(ctx, path, s, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// PostTyped sends body to path and returns the response as T once it matches s.
func PostTyped[T any](ctx context.Context, c Poster, path string, body any, s schema.Schema) (T, error) {
	var v T
	if err := c.Post(ctx, path, body, s, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}
