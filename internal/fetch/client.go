package fetch

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Response is the part of an HTTP response the crawler consumes.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Header contains the response headers.
	Header http.Header

	// Body is the response body. Nil for HEAD requests.
	Body []byte
}

// MimeType returns the Content-Type header value.
func (r *Response) MimeType() string {
	return r.Header.Get("Content-Type")
}

// OK reports whether the response status is 200.
func (r *Response) OK() bool {
	return r.StatusCode == http.StatusOK
}

// Client issues HEAD and GET requests on behalf of the crawler.
//
// Design decision: We wrap *http.Client in a struct rather than passing
// it on each call so that the User-Agent, timeout and body cap are
// applied consistently, and so tests can substitute a mock transport.
type Client struct {
	// httpClient performs the requests. Redirects are followed up to the
	// net/http default of 10 hops.
	httpClient *http.Client

	// userAgent is sent with every request.
	userAgent string

	// baseHeaders are added to every request before per-call overrides.
	baseHeaders map[string]string

	// maxBodySize caps how much of a response body is read.
	maxBodySize int64
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) {
		c.maxBodySize = n
	}
}

// WithBaseHeaders sets headers added to every request. The map is copied.
func WithBaseHeaders(h map[string]string) Option {
	return func(c *Client) {
		c.baseHeaders = make(map[string]string, len(h))
		for k, v := range h {
			c.baseHeaders[k] = v
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. Used by tests to
// install a mock transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a transport with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		userAgent:   "crawlsite",
		maxBodySize: 10 * 1024 * 1024,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Head issues a HEAD request. A nil error means the server responded;
// the status may still be an HTTP error that the caller records.
func (c *Client) Head(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	return c.do(ctx, http.MethodHead, url, headers)
}

// Get issues a GET request and reads the body up to the size cap.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	return c.do(ctx, http.MethodGet, url, headers)
}

func (c *Client) do(ctx context.Context, method, url string, headers map[string]string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}

	// A fresh header set per request: base headers first, then the
	// call-specific overrides.
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range c.baseHeaders {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
	}

	if method == http.MethodGet {
		body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
		if err != nil {
			return nil, err
		}
		out.Body = body
	}

	return out, nil
}
