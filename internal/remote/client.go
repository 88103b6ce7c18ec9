// Package remote talks to the k-means demonstration service over HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Rorical/RoriMeans/internal/models"
)

const maxErrorBody = 512

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Client issues control commands and plot fetches against one service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds every request. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		userAgent:  "RoriMeans/dev",
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Initialize sends the full run configuration.
func (c *Client) Initialize(ctx context.Context, cfg models.RunConfig) (models.CommandResult, error) {
	if cfg.Centroids == nil {
		cfg.Centroids = []models.Point{}
	}
	return c.command(ctx, models.CommandInitialize, cfg)
}

func (c *Client) Step(ctx context.Context) (models.CommandResult, error) {
	return c.command(ctx, models.CommandStep, nil)
}

func (c *Client) Generate(ctx context.Context) (models.CommandResult, error) {
	return c.command(ctx, models.CommandGenerate, nil)
}

func (c *Client) Reset(ctx context.Context) (models.CommandResult, error) {
	return c.command(ctx, models.CommandReset, nil)
}

func (c *Client) RunToConvergence(ctx context.Context) (models.CommandResult, error) {
	return c.command(ctx, models.CommandRunToConvergence, nil)
}

// Plot fetches the current plot description.
func (c *Client) Plot(ctx context.Context) (models.PlotDescription, error) {
	var plot models.PlotDescription
	if err := c.do(ctx, http.MethodGet, "/plot", nil, &plot); err != nil {
		return models.PlotDescription{}, err
	}
	return plot, nil
}

func (c *Client) command(ctx context.Context, cmd models.Command, payload any) (models.CommandResult, error) {
	var result models.CommandResult
	if err := c.do(ctx, http.MethodPost, cmd.Path(), payload, &result); err != nil {
		return models.CommandResult{}, err
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s payload: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request done",
		"method", method,
		"path", path,
		"request_id", requestID,
		"status", resp.StatusCode,
		"elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
