package integrations

import (
	"errors"
	"net/http"
	"time"

	"github.com/matzehuels/zbuilder/pkg/httputil"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a repository, path or file doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// SourceFile is one module source file from a library's source directory.
// Name is the listed filename (e.g. "zepto.js") and Content the decoded text.
type SourceFile struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Size    int    `json:"size"`
	Content string `json:"content"`
}

// NewHTTPClient creates an HTTP client with a standard timeout for API requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NewCache creates a file-based cache with the given TTL in dir, or in the
// default cache directory when dir is empty.
// See [httputil.NewCache] for details on cache location and behavior.
func NewCache(dir string, ttl time.Duration) (*httputil.Cache, error) {
	return httputil.NewCache(dir, ttl)
}
