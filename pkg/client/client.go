// Package client talks to the flashcard-generation service's REST API.
//
// A Client is built once with fixed settings and is safe for concurrent
// use. Every method makes exactly one HTTP attempt and returns either the
// decoded server payload or an *APIError.
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/kpauljoseph/flashgen/pkg/logger"
	"github.com/kpauljoseph/flashgen/pkg/version"
)

const (
	DefaultPathPrefix      = "/api"
	DefaultTimeout         = 60 * time.Second
	DefaultFallbackMessage = "request failed"

	RequestIDHeader = "X-Request-ID"

	debugBodyLimit = 1024
)

type Client struct {
	http     *resty.Client
	baseURL  string
	fallback string
	logger   *logger.Logger
}

type settings struct {
	prefix    string
	timeout   time.Duration
	fallback  string
	logger    *logger.Logger
	transport http.RoundTripper
	headers   map[string]string
}

type Option func(*settings)

// WithPathPrefix sets the path every endpoint is mounted under.
func WithPathPrefix(prefix string) Option {
	return func(s *settings) {
		s.prefix = prefix
	}
}

// WithTimeout bounds each call end to end. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithFallbackMessage sets the message used when a failure carries no
// description of its own.
func WithFallbackMessage(msg string) Option {
	return func(s *settings) {
		if msg != "" {
			s.fallback = msg
		}
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

func WithTransport(rt http.RoundTripper) Option {
	return func(s *settings) {
		s.transport = rt
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(s *settings) {
		s.headers[key] = value
	}
}

// New builds a Client for the service at serverURL, e.g. http://localhost:5000.
func New(serverURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", serverURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q: scheme and host are required", serverURL)
	}

	s := settings{
		prefix:   DefaultPathPrefix,
		timeout:  DefaultTimeout,
		fallback: DefaultFallbackMessage,
		headers:  map[string]string{},
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = logger.Discard()
	}

	baseURL := strings.TrimRight(serverURL, "/")
	if prefix := strings.Trim(s.prefix, "/"); prefix != "" {
		baseURL += "/" + prefix
	}

	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(s.timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", version.UserAgent()).
		SetHeaders(s.headers).
		SetError(&errorBody{}).
		SetLogger(restyLogger{s.logger}).
		SetPreRequestHook(attachUploadProgress)
	if s.transport != nil {
		r.SetTransport(s.transport)
	}
	if s.logger.Level() >= logger.LevelTrace {
		r.SetDebug(true).SetDebugBodyLimit(debugBodyLimit)
	}

	c := &Client{
		http:     r,
		baseURL:  baseURL,
		fallback: s.fallback,
		logger:   s.logger,
	}

	r.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		c.logger.Debug("%s %s (request %s)", req.Method, req.URL, req.Header.Get(RequestIDHeader))
		return nil
	})
	r.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		c.logger.Debug("%s %s -> %d in %s", resp.Request.Method, resp.Request.URL, resp.StatusCode(), resp.Time())
		return nil
	})

	return c, nil
}

// BaseURL is the server URL joined with the path prefix.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, uuid.NewString())
}

// do issues req and maps every failure into an *APIError. It is the only
// place requests are executed.
func (c *Client) do(req *resty.Request, method, path string) (*resty.Response, error) {
	resp, err := req.Execute(method, path)
	if apiErr := c.mapError(method, path, resp, err); apiErr != nil {
		c.logger.Debug("%s %s failed: %v", method, path, apiErr.Err)
		return resp, apiErr
	}
	return resp, nil
}

type restyLogger struct {
	l *logger.Logger
}

func (r restyLogger) Errorf(format string, v ...interface{}) { r.l.Error(format, v...) }
func (r restyLogger) Warnf(format string, v ...interface{})  { r.l.Warn(format, v...) }
func (r restyLogger) Debugf(format string, v ...interface{}) { r.l.Trace(format, v...) }
