// Package api is the HTTP client for the wedding backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"wedding-rsvp/internal/config"
)

const maxBody = 1 << 20

// Client talks to the public endpoints and hands out admin clients
type Client struct {
	http *http.Client
	cfg  config.API
	log  zerolog.Logger
}

// New creates a client. A nil httpClient gets one with cfg.Timeout.
func New(cfg config.API, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		http: httpClient,
		cfg:  cfg,
		log:  log.With().Str("component", "api").Logger(),
	}
}

// endpoint joins a configured endpoint onto the base URL, escaping each
// extra path segment. Absolute endpoints are used as they are.
func (c *Client) endpoint(path string, segments ...string) string {
	var b strings.Builder
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		b.WriteString(strings.TrimRight(path, "/"))
	} else {
		b.WriteString(strings.TrimRight(c.cfg.BaseURL, "/"))
		if !strings.HasPrefix(path, "/") {
			b.WriteByte('/')
		}
		b.WriteString(strings.TrimRight(path, "/"))
	}
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// do sends a request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, target, authHeader string, body any) ([]byte, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, method+" "+target)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.url", target),
	)

	var reader io.Reader
	if body != nil {
		j, err := json.Marshal(body)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(j)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		return nil, fmt.Errorf("failed to %s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.log.Debug().Str("method", method).Str("url", target).Int("status", resp.StatusCode).Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newError(resp.StatusCode, data)
		span.RecordError(apiErr)
		span.SetStatus(codes.Error, apiErr.Message)
		return nil, apiErr
	}
	return data, nil
}

// doJSON is do plus decoding into out. An empty body leaves out untouched.
func (c *Client) doJSON(ctx context.Context, method, target, authHeader string, body, out any) error {
	data, err := c.do(ctx, method, target, authHeader, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", target, err)
	}
	return nil
}
