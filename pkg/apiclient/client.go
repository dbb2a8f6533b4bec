// Package apiclient is a thin JSON client for the Doxly REST backend.
//
// Every call builds its headers fresh, issues exactly one request with the
// transport's cookie jar attached and either returns the decoded body or an
// error from the TransportError / HTTPStatusError / ParseError family. Failures
// are always handed to the DiagnosticLogger before they are returned.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/doxly-hq/doxly-apiclient/pkg/httpclient"
)

// DefaultHealthCheckPath is probed by Probe unless overridden.
const DefaultHealthCheckPath = "/health-check/"

// Client issues requests against a fixed base URL. It holds no per-call state
// and is safe for concurrent use.
type Client struct {
	baseURL    string
	healthPath string
	http       httpclient.Client
	tokens     TokenProvider
	csrf       CSRFProvider
	csrfCookie string
	diag       DiagnosticLogger
	log        Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the transport. Defaults to a resty client without timeout.
func WithHTTPClient(c httpclient.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithTokenProvider sets where the auth token comes from when a call does not carry one.
func WithTokenProvider(p TokenProvider) Option {
	return func(cl *Client) { cl.tokens = p }
}

// WithCSRFProvider sets where the CSRF token comes from when a call does not carry one.
func WithCSRFProvider(p CSRFProvider) Option {
	return func(cl *Client) { cl.csrf = p }
}

// WithCSRFCookie reads the CSRF token from the named cookie in the transport's jar.
// Ignored when WithCSRFProvider is also given or the transport has no jar.
func WithCSRFCookie(name string) Option {
	return func(cl *Client) { cl.csrfCookie = strings.TrimSpace(name) }
}

// WithHealthCheckPath overrides DefaultHealthCheckPath.
func WithHealthCheckPath(path string) Option {
	return func(cl *Client) {
		if strings.TrimSpace(path) != "" {
			cl.healthPath = path
		}
	}
}

// WithLogger sets the logger used for probe results and, unless
// WithDiagnostics is given, for failure records.
func WithLogger(log Logger) Option {
	return func(cl *Client) { cl.log = log }
}

// WithDiagnostics replaces the failure sink.
func WithDiagnostics(d DiagnosticLogger) Option {
	return func(cl *Client) { cl.diag = d }
}

// New builds a client for baseURL, e.g. "http://localhost:8000/api".
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" || parsed.Host == "" {
		return nil, fmt.Errorf("base url %q must be an absolute http(s) url", baseURL)
	}

	c := &Client{
		baseURL:    baseURL,
		healthPath: DefaultHealthCheckPath,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	c.log = ensureLogger(c.log)
	if c.diag == nil {
		c.diag = NewDiagnostics(c.log)
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(0)
	}
	if c.csrf == nil && c.csrfCookie != "" {
		if jar, ok := c.http.(httpclient.CookieSource); ok {
			c.csrf = cookieCSRF{jar: jar, base: parsed, name: c.csrfCookie}
		}
	}
	return c, nil
}

// BaseURL returns the prefix every endpoint is appended to.
func (c *Client) BaseURL() string { return c.baseURL }

// Request issues one call and returns the decoded JSON body.
func (c *Client) Request(ctx context.Context, cfg RequestConfig) (any, error) {
	var out any
	if err := c.Do(ctx, cfg, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Do issues one call and decodes a successful JSON body into out. A nil out
// discards the body without parsing it.
func (c *Client) Do(ctx context.Context, cfg RequestConfig, out any) error {
	err := c.do(ctx, cfg, out)
	if err != nil {
		c.diag.LogFailure(err)
	}
	return err
}

// Decode is Do with a typed result.
func Decode[T any](ctx context.Context, c *Client, cfg RequestConfig) (T, error) {
	var out T
	err := c.Do(ctx, cfg, &out)
	return out, err
}

func (c *Client) Get(ctx context.Context, endpoint string) (any, error) {
	return c.Request(ctx, RequestConfig{Endpoint: endpoint, Method: http.MethodGet})
}

func (c *Client) Post(ctx context.Context, endpoint string, body any) (any, error) {
	return c.Request(ctx, RequestConfig{Endpoint: endpoint, Method: http.MethodPost, Body: body})
}

func (c *Client) Put(ctx context.Context, endpoint string, body any) (any, error) {
	return c.Request(ctx, RequestConfig{Endpoint: endpoint, Method: http.MethodPut, Body: body})
}

func (c *Client) Patch(ctx context.Context, endpoint string, body any) (any, error) {
	return c.Request(ctx, RequestConfig{Endpoint: endpoint, Method: http.MethodPatch, Body: body})
}

func (c *Client) Delete(ctx context.Context, endpoint string) (any, error) {
	return c.Request(ctx, RequestConfig{Endpoint: endpoint, Method: http.MethodDelete})
}

func (c *Client) do(ctx context.Context, cfg RequestConfig, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := cfg.normalize()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	body, err := cfg.encodeBody()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	headers, err := c.headersFor(ctx, cfg.AuthToken, cfg.CSRFToken)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCredentials, err)
	}

	target := c.baseURL + cfg.Endpoint
	resp, err := c.http.Do(ctx, httpclient.Request{
		Method:  cfg.Method,
		URL:     target,
		Headers: headers,
		Query:   cfg.Query,
		Body:    body,
	})
	if err != nil {
		return &TransportError{
			APIError: APIError{Message: err.Error(), URL: target},
			Method:   cfg.Method,
			Err:      err,
		}
	}

	code := resp.StatusCode()
	if code < 200 || code > 299 {
		return newHTTPStatusError(code, statusText(resp.Status(), code), responseURL(resp, target), resp.Body())
	}

	raw := bytes.TrimSpace(resp.Body())
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ParseError{
			APIError: APIError{
				Message:    "invalid json response: " + err.Error(),
				StatusCode: code,
				StatusText: statusText(resp.Status(), code),
				URL:        responseURL(resp, target),
			},
			Err: err,
		}
	}
	return nil
}

// headersFor resolves tokens, preferring explicit per-call values.
func (c *Client) headersFor(ctx context.Context, authToken, csrfToken string) (map[string]string, error) {
	var errs []error
	if authToken == "" && c.tokens != nil {
		tok, err := c.tokens.AuthToken(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("resolve auth token: %w", err))
		}
		authToken = tok
	}
	if csrfToken == "" && c.csrf != nil {
		tok, err := c.csrf.CSRFToken(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("resolve csrf token: %w", err))
		}
		csrfToken = tok
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return buildHeaders(authToken, csrfToken), nil
}

func responseURL(resp httpclient.Response, fallback string) string {
	if u := resp.URL(); u != "" {
		return u
	}
	return fallback
}

// statusText strips the numeric prefix from "503 Service Unavailable".
func statusText(status string, code int) string {
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(status), strconv.Itoa(code)))
	if text == "" {
		text = http.StatusText(code)
	}
	return text
}
