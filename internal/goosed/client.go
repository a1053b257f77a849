// Package goosed is an HTTP client for the goose agent backend.
package goosed

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	secretKeyHeader = "X-Secret-Key"
	userAgent       = "goosectl"
)

// Client talks to a single goosed instance.
type Client struct {
	http     *resty.Client
	validate *validator.Validate
	logger   zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithSecretKey sets the X-Secret-Key header sent with mutating requests.
func WithSecretKey(key string) ClientOption {
	return func(c *Client) {
		c.http.SetHeader(secretKeyHeader, key)
	}
}

// WithTimeout bounds each request. Zero leaves the transport default.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the backend at baseURL, e.g. http://127.0.0.1:3000.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("User-Agent", userAgent),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address the client was built for.
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

// Status checks that the backend is up.
func (c *Client) Status(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/status")
	if err != nil {
		return fmt.Errorf("failed to reach backend: %w", err)
	}
	if !resp.IsSuccess() {
		return fetchError("backend status check failed", resp.StatusCode(), resp.Status())
	}
	return nil
}
