package explorerapi

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client implements ports.ExplorerAPI over the explorer REST API.
//
// Requests carry the optional API key, are bounded by the session timeout and
// are retried with exponential backoff on transient failures.
// The client is safe for concurrent use.
type Client struct {
	session      *http.Client
	apiKey       string
	baseURL      string
	maxAttempts  int
	retryBackoff time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client (10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.session = hc }
}

func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(c *Client) {
		if maxAttempts > 0 {
			c.maxAttempts = maxAttempts
		}
		if backoff > 0 {
			c.retryBackoff = backoff
		}
	}
}

func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("explorer api base url is empty")
	}
	if u, err := url.Parse(baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New("explorer api base url must be absolute")
	}

	c := &Client{
		session:      &http.Client{Timeout: 10 * time.Second},
		apiKey:       apiKey,
		baseURL:      baseURL,
		maxAttempts:  4,
		retryBackoff: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Client) endpoint(segments ...string) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}
