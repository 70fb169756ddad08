// Package calculator is the HTTP client for the footprint calculation API.
package calculator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rshade/greenr/internal/footprint"
	"github.com/rshade/greenr/internal/logging"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:8000"
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 15 * time.Second

	// RequestIDHeader carries a per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	maxErrorBody = 64 << 10
)

// APIError is returned for any non-2xx response. Body is the raw response
// text, unparsed.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("greenr API error (%d): %s", e.Status, e.Body)
}

// Client calls the calculation API. It never retries.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger used when the request context has none.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a client for baseURL. An empty baseURL means DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Calculate posts input to /calculate and decodes the result.
func (c *Client) Calculate(ctx context.Context, input footprint.CalculationInput) (footprint.CalculationResult, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return footprint.CalculationResult{}, fmt.Errorf("encoding calculation input: %w", err)
	}

	var result footprint.CalculationResult
	if err = c.do(ctx, http.MethodPost, "/calculate", body, &result); err != nil {
		return footprint.CalculationResult{}, err
	}
	if err = result.Breakdown.Validate(); err != nil {
		return footprint.CalculationResult{}, fmt.Errorf("decoding calculation result: %w", err)
	}
	if result.Warnings == nil {
		result.Warnings = []footprint.Warning{}
	}
	return result, nil
}

// Health checks that the API is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	log := c.loggerFor(ctx)
	requestID := uuid.NewString()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building %s request: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	log.Debug().
		Str("component", "calculator").
		Str("operation", strings.TrimPrefix(path, "/")).
		Str("request_id", requestID).
		Str("url", req.URL.String()).
		Msg("calling greenr API")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	log.Debug().
		Str("component", "calculator").
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("duration_ms", time.Since(start)).
		Msg("greenr API responded")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Status: resp.StatusCode, Body: string(text)}
	}
	if out == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

func (c *Client) loggerFor(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return logging.FromContext(ctx)
	}
	return &c.logger
}
