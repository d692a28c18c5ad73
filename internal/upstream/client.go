// Package upstream is the shared HTTP plumbing for the backend services the
// gateway fronts: base URL handling, a per-call time limit, a circuit breaker
// per service, tracing on the outbound transport and typed status errors.
package upstream

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

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/resilience"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	DefaultTimeout = 5 * time.Second
	maxBodyBytes   = 4 << 20
)

var (
	// ErrNotFound matches any StatusError carrying 404.
	ErrNotFound = errors.New("not found")
	// ErrDecode marks a body that is not the JSON the caller expected.
	ErrDecode = errors.New("decode response")
)

// StatusError is a completed exchange whose status code was not the expected one.
type StatusError struct {
	Service string
	Code    int
	Body    string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s service: unexpected status %d", e.Service, e.Code)
	}
	return fmt.Sprintf("%s service: unexpected status %d: %s", e.Service, e.Code, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// UnavailableError wraps transport failures, time limits and open breakers:
// the service gave no answer at all.
type UnavailableError struct {
	Service string
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("cannot reach %s service: %v", e.Service, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Response is a fully read upstream answer.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// ErrorText is the service's {"error": ...} message, or the raw body.
func (r *Response) ErrorText() string { return errorText(r.Body) }

// Observer receives one call per upstream exchange.
type Observer interface {
	ObserveUpstream(service, method string, code int, elapsed time.Duration)
}

type Client struct {
	name    string
	baseURL string
	http    *http.Client
	timeout time.Duration
	breaker *resilience.Breaker
	obs     Observer
	logger  *zap.Logger
}

type Option func(*Client)

// WithTimeout bounds each call. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithBreaker(b *resilience.Breaker) Option {
	return func(c *Client) { c.breaker = b }
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.obs = o }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithHTTPClient replaces the traced default client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(name, baseURL string, opts ...Option) *Client {
	c := &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string    { return c.name }
func (c *Client) BaseURL() string { return c.baseURL }

// Do sends body as JSON (when non-nil) and returns whatever the service
// answered. Only a missing answer is an error; callers judge status codes.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	var resp *Response
	call := func() error {
		r, err := c.roundTrip(ctx, method, path, query, body)
		if err != nil {
			return err
		}
		resp = r
		if r.StatusCode >= http.StatusInternalServerError {
			return &StatusError{Service: c.name, Code: r.StatusCode}
		}
		return nil
	}

	var err error
	if c.breaker != nil {
		err = c.breaker.Execute(call)
	} else {
		err = call()
	}

	var se *StatusError
	switch {
	case err == nil, errors.As(err, &se):
		return resp, nil
	default:
		c.logger.Warn("[upstream] call failed",
			zap.String("service", c.name),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, &UnavailableError{Service: c.name, Err: err}
	}
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	httpResp, err := c.http.Do(req)
	if err != nil {
		c.observe(method, 0, start)
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	c.observe(method, httpResp.StatusCode, start)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: data}, nil
}

func (c *Client) observe(method string, code int, start time.Time) {
	if c.obs != nil {
		c.obs.ObserveUpstream(c.name, method, code, time.Since(start))
	}
}

// JSON performs a call that must answer with want and decodes the body into
// out (when non-nil). Any other status becomes a *StatusError.
func (c *Client) JSON(ctx context.Context, method, path string, in any, want int, out any) error {
	resp, err := c.Do(ctx, method, path, nil, in)
	if err != nil {
		return err
	}
	if resp.StatusCode != want {
		return &StatusError{Service: c.name, Code: resp.StatusCode, Body: errorText(resp.Body)}
	}
	if out == nil {
		return nil
	}
	return resp.Decode(out)
}

// Health calls the service's /health endpoint.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var details map[string]any
	if err := c.JSON(ctx, http.MethodGet, "/health", nil, http.StatusOK, &details); err != nil {
		return nil, err
	}
	return details, nil
}

// errorText extracts {"error": "..."} from a body, falling back to the raw text.
func errorText(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

// PathEscape escapes one path segment.
func PathEscape(s string) string { return url.PathEscape(s) }
