package integrations

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/jarwalk/pkg/httputil"
	"github.com/matzehuels/jarwalk/pkg/observability"
)

// Client provides shared HTTP functionality for repository clients.
// It handles caching, retry logic, and common request headers.
type Client struct {
	http     *http.Client
	cache    *httputil.Cache
	headers  map[string]string
	attempts int
	delay    time.Duration
}

// NewClient creates a Client with the given cache, request timeout and
// default headers. Headers are applied to all requests made through this
// client. Pass nil for headers if no default headers are needed.
func NewClient(cache *httputil.Cache, timeout time.Duration, headers map[string]string) *Client {
	return &Client{
		http:     NewHTTPClient(timeout),
		cache:    cache,
		headers:  headers,
		attempts: 3,
		delay:    time.Second,
	}
}

// WithRetry overrides the retry policy: at most attempts tries, starting
// with delay between them and doubling after each failure.
func (c *Client) WithRetry(attempts int, delay time.Duration) *Client {
	c.attempts = attempts
	c.delay = delay
	return c
}

// Cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
// The fetch function should populate v; on success, v is stored in the cache.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if !refresh && c.cache != nil {
		if ok, _ := c.cache.Get(key, v); ok {
			observability.Cache().OnCacheHit(ctx, "metadata")
			return nil
		}
		observability.Cache().OnCacheMiss(ctx, "metadata")
	}
	if err := httputil.Retry(ctx, c.attempts, c.delay, fetch); err != nil {
		return err
	}
	if c.cache != nil && c.cache.Set(key, v) == nil {
		observability.Cache().OnCacheSet(ctx, "metadata", 0)
	}
	return nil
}

// GetXML performs an HTTP GET request and XML-decodes the response into v.
// A body that fails to decode is reported as-is and never retried.
func (c *Client) GetXML(ctx context.Context, url string, v any) error {
	body, err := c.doRequest(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()
	return xml.NewDecoder(body).Decode(v)
}

// GetBytes performs an HTTP GET request and returns the whole response body.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	body, err := c.doRequest(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

// Download streams url into dest, retrying transient failures.
//
// The body is written to a temporary file next to dest and renamed into
// place only after it has been read completely, so dest either holds the
// full document or does not exist. Parent directories are created as needed.
func (c *Client) Download(ctx context.Context, url, dest string) error {
	ctx, span := observability.StartClientSpan(ctx, observability.SpanDownload, url)
	defer span.End()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		observability.RecordError(span, err)
		return err
	}
	err := httputil.Retry(ctx, c.attempts, c.delay, func() error {
		return c.download(ctx, url, dest)
	})
	observability.RecordError(span, err)
	return err
}

func (c *Client) download(ctx context.Context, url, dest string) error {
	body, err := c.doRequest(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.part")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := splitURL(rawURL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodGet, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, http.MethodGet, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	hooks.OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return httputil.Retryable(&StatusError{Code: code, Reason: http.StatusText(code)})
	default:
		return &StatusError{Code: code, Reason: http.StatusText(code)}
	}
}

func splitURL(raw string) (host, path string) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", raw
	}
	return u.Host, u.Path
}
