// Package network loads pages and scripts from files, data URLs and HTTP.
package network

import (
	"compress/gzip"
	"context"
	"crypto/tls"
	"io"
	"mime"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/publicsuffix"
)

// ErrHTTPStatus is returned for responses with a status of 400 or above.
var ErrHTTPStatus = errors.New("network: unexpected HTTP status")

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxRedirects = 10
	defaultUserAgent    = "domsugar/1.0"
)

// Client is an HTTP client with a cookie jar, so that a page and the
// scripts it references share one session.
type Client struct {
	httpClient   *http.Client
	timeout      time.Duration
	maxRedirects int
	userAgent    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the request timeout. Non-positive values keep the default.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxRedirects sets the maximum number of redirects to follow.
func WithMaxRedirects(n int) ClientOption {
	return func(c *Client) {
		c.maxRedirects = n
	}
}

// WithUserAgent sets the User-Agent header. An empty value keeps the default.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates a client with the given options.
func NewClient(opts ...ClientOption) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{
		PublicSuffixList: publicsuffix.List,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create cookie jar")
	}

	c := &Client{
		timeout:      defaultTimeout,
		maxRedirects: defaultMaxRedirects,
		userAgent:    defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   c.timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}
	c.httpClient = &http.Client{
		Transport: transport,
		Jar:       jar,
		Timeout:   c.timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= c.maxRedirects {
				return errors.Errorf("stopped after %d redirects", c.maxRedirects)
			}
			return nil
		},
	}
	return c, nil
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
	URL         string // final URL after redirects
}

// Get fetches rawURL. Statuses of 400 and above return ErrHTTPStatus.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/javascript,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, errors.Wrapf(ErrHTTPStatus, "get %s: %s", rawURL, resp.Status)
	}

	var body io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, errors.Wrapf(err, "get %s: gzip", rawURL)
		}
		defer gz.Close()
		body = gz
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, errors.Wrapf(err, "get %s: read body", rawURL)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
		URL:         resp.Request.URL.String(),
	}, nil
}

// ParseContentType splits a Content-Type header into its lower-cased media
// type and charset. Malformed headers yield the raw media type and no
// charset.
func ParseContentType(contentType string) (mediaType, charset string) {
	if contentType == "" {
		return "", ""
	}
	mt, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt, _, _ = strings.Cut(contentType, ";")
		return strings.ToLower(strings.TrimSpace(mt)), ""
	}
	return mt, strings.ToLower(params["charset"])
}
