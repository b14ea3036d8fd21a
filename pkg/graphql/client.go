package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/adminstack/pkg/cache"
	pkgerrors "github.com/matzehuels/adminstack/pkg/errors"
	"github.com/matzehuels/adminstack/pkg/httputil"
	"github.com/matzehuels/adminstack/pkg/observability"
	"github.com/matzehuels/adminstack/pkg/table"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultAttempts = 3
	defaultBackoff  = 500 * time.Millisecond

	// maxResponseSize bounds how much of a response body is read.
	maxResponseSize = 32 << 20
)

// Client executes GraphQL queries over HTTP. It implements table.Client.
type Client struct {
	endpoint string
	host     string
	path     string
	http     *http.Client
	headers  map[string]string
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	attempts int
	backoff  time.Duration
	logger   *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client, which has a 30s timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithHeaders sets headers sent with every request.
func WithHeaders(h map[string]string) Option {
	return func(c *Client) { c.headers = h }
}

// WithCache caches successful responses for ttl. A zero ttl disables caching.
func WithCache(cc cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cc
		c.ttl = ttl
	}
}

// WithKeyer sets the cache key builder.
func WithKeyer(k cache.Keyer) Option {
	return func(c *Client) { c.keyer = k }
}

// WithRetry sets the number of attempts and the initial backoff.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.backoff = backoff
	}
}

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a client for endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: defaultTimeout},
		cache:    cache.NewNullCache(),
		keyer:    cache.NewDefaultKeyer(),
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
		logger:   log.Default(),
	}
	if u, err := url.Parse(endpoint); err == nil {
		c.host, c.path = u.Host, u.Path
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL queries are posted to.
func (c *Client) Endpoint() string { return c.endpoint }

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []ErrorItem     `json:"errors"`
}

// Query implements table.Client.
func (c *Client) Query(ctx context.Context, req table.Request) (*table.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidInput, err, "encode variables")
	}

	key := ""
	if c.ttl > 0 {
		key = c.keyer.QueryKey(c.endpoint, req.Query, req.Variables)
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			observability.Cache().OnCacheHit(ctx, "query")
			return &table.Response{Data: data}, nil
		}
		observability.Cache().OnCacheMiss(ctx, "query")
	}

	var env envelope
	err = httputil.Retry(ctx, c.attempts, c.backoff, func() error {
		env = envelope{}
		return c.post(ctx, body, &env)
	})
	if err != nil {
		return nil, classify(ctx, err, c.endpoint)
	}
	if len(env.Errors) > 0 {
		gqlErr := &Error{Items: env.Errors}
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeQuery, gqlErr, "query %s", c.endpoint)
	}

	if key != "" {
		if err := c.cache.Set(ctx, key, env.Data, c.ttl); err != nil {
			c.logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "query", len(env.Data))
		}
	}
	return &table.Response{Data: env.Data}, nil
}

func (c *Client) post(ctx context.Context, body []byte, env *envelope) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodPost, c.host, c.path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, http.MethodPost, c.host, c.path, err)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httputil.Retryable(err)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, http.MethodPost, c.host, c.path, resp.StatusCode, time.Since(start))
	c.logger.Debug("graphql response", "status", resp.StatusCode, "took", time.Since(start))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return httputil.Retryable(err)
	}

	if resp.StatusCode != http.StatusOK {
		// Servers may answer 4xx with a valid error envelope.
		if jerr := json.Unmarshal(raw, env); jerr == nil && len(env.Errors) > 0 {
			return nil
		}
		serr := &StatusError{StatusCode: resp.StatusCode}
		if httputil.RetryableStatus(resp.StatusCode) {
			return httputil.Retryable(serr)
		}
		return serr
	}

	if err := json.Unmarshal(raw, env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// StatusError reports a non-200 response without a GraphQL error envelope.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func classify(ctx context.Context, err error, endpoint string) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return pkgerrors.Wrap(pkgerrors.ErrCodeTimeout, err, "query %s timed out", endpoint)
	case errors.Is(err, context.Canceled):
		return err
	}
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
		return pkgerrors.Wrap(pkgerrors.ErrCodeNotFound, err, "endpoint %s", endpoint)
	}
	return pkgerrors.Wrap(pkgerrors.ErrCodeNetwork, err, "query %s", endpoint)
}

var _ table.Client = (*Client)(nil)
