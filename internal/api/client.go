// ABOUTME: Client construction, options, and the shared request/response plumbing
// ABOUTME: Every operation goes through send, which traces and logs one HTTP exchange

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultAuthPath is appended to the base URL to form the auth base.
	DefaultAuthPath = "/api/forge"

	// APIKeyHeader carries a user's API key on authenticated calls.
	APIKeyHeader = "X-API-Key"

	tracerName = "github.com/2389/nexus-client/internal/api"
)

// Client is a typed HTTP client for the NexusFest backend.
type Client struct {
	baseURL    string
	authURL    string
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
	strict     bool
	validate   bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the client's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithAuthPath overrides the sub-path that forms the auth base URL. A path
// of "/" mounts the auth routes at the base URL itself.
func WithAuthPath(path string) Option {
	return func(c *Client) {
		if path == "" {
			return
		}
		c.authURL = c.baseURL
		if trimmed := strings.Trim(path, "/"); trimmed != "" {
			c.authURL += "/" + trimmed
		}
	}
}

// WithTracerProvider sets the provider for per-operation spans. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithStrictStatus makes mutating operations fail with *RequestFailedError on
// a non-2xx status, like read operations do.
func WithStrictStatus() Option {
	return func(c *Client) {
		c.strict = true
	}
}

// WithValidation enables structural checks on successful responses.
func WithValidation() Option {
	return func(c *Client) {
		c.validate = true
	}
}

// New creates a Client for baseURL. An empty baseURL selects DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	c := &Client{
		baseURL:    baseURL,
		authURL:    baseURL + DefaultAuthPath,
		httpClient: http.DefaultClient,
		logger:     slog.Default(),
		tracer:     otel.GetTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "api")
	return c
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AuthURL returns the auth base URL.
func (c *Client) AuthURL() string {
	return c.authURL
}

// endpoint joins the base URL, a fixed path and an ordered query.
func (c *Client) endpoint(path string, query ...string) string {
	return c.baseURL + path + encodeQuery(query...)
}

// encodeQuery builds "?k1=v1&k2=v2" from alternating keys and values,
// keeping their order.
func encodeQuery(pairs ...string) string {
	if len(pairs) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(pairs[i]))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(pairs[i+1]))
	}
	return b.String()
}

// send performs one HTTP exchange and returns the status and full body.
// Only transport failures are returned as errors.
func (c *Client) send(ctx context.Context, op, method, rawURL string, header http.Header, payload any) (int, []byte, error) {
	ctx, span := c.tracer.Start(ctx, "api."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", rawURL),
		),
	)
	defer span.End()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("%s: marshaling request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: creating request: %w", op, err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		return 0, nil, fmt.Errorf("%s: sending request: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reading body")
		return resp.StatusCode, nil, fmt.Errorf("%s: reading response: %w", op, err)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if !isSuccess(resp.StatusCode) {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}

	c.logger.Debug("api request",
		"op", op,
		"method", method,
		"url", rawURL,
		"status", resp.StatusCode,
		"bytes", len(data))

	return resp.StatusCode, data, nil
}

// get performs a read operation: non-2xx fails with message, 2xx decodes into out.
func (c *Client) get(ctx context.Context, op, message, rawURL string, out any) error {
	status, data, err := c.send(ctx, op, http.MethodGet, rawURL, nil, nil)
	if err != nil {
		return err
	}
	if !isSuccess(status) {
		return newRequestFailed(op, message, status, data)
	}
	return c.decode(op, status, data, out)
}

// decode unmarshals a successful body into out and applies opt-in validation.
func (c *Client) decode(op string, status int, data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return &ParseError{Op: op, Status: status, Err: err}
	}
	return c.check(op, out)
}

// check validates v when validation is enabled.
func (c *Client) check(op string, v any) error {
	if !c.validate {
		return nil
	}

	var err error
	switch v := v.(type) {
	case validator:
		err = v.Validate()
	case *[]Event:
		err = validateEach(*v)
	case *[]ThreadWithCount:
		err = validateEach(*v)
	}
	if err != nil {
		return &ValidationError{Op: op, Err: err}
	}
	return nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
