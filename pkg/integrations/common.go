package integrations

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/matzehuels/jarwalk/pkg/buildinfo"
	"github.com/matzehuels/jarwalk/pkg/httputil"
)

// DefaultTimeout bounds a single HTTP request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

var (
	// ErrNotFound is returned when a document or artifact doesn't exist in the repository.
	ErrNotFound = errors.New("not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, unexpected status).
	ErrNetwork = errors.New("network error")
)

// StatusError carries the HTTP status of a failed request. It unwraps to
// [ErrNetwork], so errors.Is(err, ErrNetwork) holds for every StatusError.
type StatusError struct {
	Code   int
	Reason string
}

func (e *StatusError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%v: status %d", ErrNetwork, e.Code)
	}
	return fmt.Sprintf("%v: status %d (%s)", ErrNetwork, e.Code, e.Reason)
}

func (e *StatusError) Unwrap() error { return ErrNetwork }

// NewHTTPClient creates an HTTP client with the given request timeout.
// A non-positive timeout selects [DefaultTimeout].
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// DefaultHeaders returns the headers sent with every repository request.
func DefaultHeaders() map[string]string {
	return map[string]string{"User-Agent": buildinfo.UserAgent()}
}

// NewCache creates a file-based cache with the given TTL in the default cache directory.
// See [httputil.NewCache] for details on cache location and behavior.
func NewCache(ttl time.Duration) (*httputil.Cache, error) {
	return httputil.NewCache("", ttl)
}
