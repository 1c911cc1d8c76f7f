// Package gateway is the single point through which the console talks to the
// admin backend.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/alt-project/adminctl/internal/domain"
	"github.com/alt-project/adminctl/internal/metrics"
)

const (
	// DefaultTimeout bounds every request.
	DefaultTimeout = 15 * time.Second

	// RequestIDHeader carries a per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	maxErrorBody = 64 << 10
)

// Request describes one backend call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	// Header overrides defaults. An Authorization header here replaces the session credential.
	Header http.Header
}

// Config configures a Client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper
	Metrics   *metrics.Collector
	Tracer    trace.Tracer
}

// Client performs JSON requests against the backend with the session credential attached.
type Client struct {
	baseURL     string
	timeout     time.Duration
	httpClient  *http.Client
	credentials domain.CredentialSource
	metrics     *metrics.Collector
	tracer      trace.Tracer
	logger      *slog.Logger
}

// New creates a Client. credentials may be nil for unauthenticated use.
func New(cfg Config, credentials domain.CredentialSource, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Transport == nil {
		cfg.Transport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		}
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer("github.com/alt-project/adminctl/internal/gateway")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		httpClient: &http.Client{
			Transport: cfg.Transport,
			// Timeouts are enforced per request through the context deadline.
		},
		credentials: credentials,
		metrics:     cfg.Metrics,
		tracer:      cfg.Tracer,
		logger:      logger,
	}
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() string { return c.baseURL }

// Get issues a GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, out)
}

// Do performs req and decodes a 2xx JSON body into out when out is non-nil.
// Failures are returned as domain.AuthError, domain.NotFoundError,
// domain.HTTPError or domain.NetworkError. Requests are never retried.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, "admin "+req.Method+" "+req.Path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.Path),
		),
	)
	defer span.End()

	httpReq, requestID, err := c.newRequest(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.RecordRequest(req.Method, 0, elapsed.Seconds())
		netErr := classifyTransportError(ctx, err)
		span.RecordError(netErr)
		span.SetStatus(codes.Error, netErr.Error())
		c.logger.DebugContext(ctx, "backend request failed",
			"method", req.Method, "path", req.Path, "request_id", requestID,
			"duration", elapsed, "error", err)
		return netErr
	}
	defer resp.Body.Close()

	c.metrics.RecordRequest(req.Method, resp.StatusCode, elapsed.Seconds())
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	c.logger.DebugContext(ctx, "backend request",
		"method", req.Method, "path", req.Path, "status", resp.StatusCode,
		"request_id", requestID, "duration", elapsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := statusError(resp.StatusCode, body)
		span.SetStatus(codes.Error, apiErr.Error())
		return apiErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		netErr := classifyTransportError(ctx, err)
		span.SetStatus(codes.Error, netErr.Error())
		return netErr
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return &domain.HTTPError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("decoding %s %s response: %v", req.Method, req.Path, err),
			Err:     err,
		}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, string, error) {
	target := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, "", fmt.Errorf("building request: %w", err)
	}

	for name, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")

	if httpReq.Header.Get("Authorization") == "" && c.credentials != nil {
		if credential, ok := c.credentials.CurrentCredential(); ok {
			httpReq.Header.Set("Authorization", "Basic "+credential)
		}
	}

	requestID := httpReq.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
		httpReq.Header.Set(RequestIDHeader, requestID)
	}
	return httpReq, requestID, nil
}

func classifyTransportError(ctx context.Context, err error) *domain.NetworkError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &domain.NetworkError{Timeout: true, Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &domain.NetworkError{Timeout: true, Err: err}
	}
	return &domain.NetworkError{Err: err}
}
