package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	zerrors "github.com/matzehuels/zbuilder/pkg/errors"
	"github.com/matzehuels/zbuilder/pkg/integrations"
)

var zeptoSources = map[string]string{
	"zepto.js": "var Zepto = (function(){ return {} })()",
	"event.js": ";(function($){ $.fn.on = function(){} })(Zepto)",
	"ajax.js":  ";(function($){ $.ajax = function(){} })(Zepto)",
}

// fakeGitHub serves a contents API for madrobby/zepto. Files listed first are
// delayed longest so completion order differs from listing order.
func fakeGitHub(t *testing.T, requests *atomic.Int32) *httptest.Server {
	t.Helper()
	listing := []apiContentResponse{
		{Name: "zepto.js", Path: "src/zepto.js", Type: "file", Size: 40},
		{Name: "plugins", Path: "src/plugins", Type: "dir"},
		{Name: "event.js", Path: "src/event.js", Type: "file", Size: 48},
		{Name: "README.md", Path: "src/README.md", Type: "file", Size: 10},
		{Name: "ajax.js", Path: "src/ajax.js", Type: "file", Size: 47},
	}
	delays := map[string]time.Duration{"zepto.js": 30 * time.Millisecond, "event.js": 15 * time.Millisecond}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			requests.Add(1)
		}
		if got := r.URL.Query().Get("ref"); got != "master" {
			t.Errorf("ref = %q, want master", got)
		}
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "zbuilder/") {
			t.Errorf("User-Agent = %q", ua)
		}
		w.Header().Set("Content-Type", "application/json")

		p := strings.TrimPrefix(r.URL.Path, "/repos/madrobby/zepto/contents/")
		switch {
		case p == "src":
			json.NewEncoder(w).Encode(listing)
		case p == "package.json":
			json.NewEncoder(w).Encode(apiContentResponse{
				Path: "package.json", Type: "file", Encoding: "base64",
				Content: wrap76(base64.StdEncoding.EncodeToString([]byte(`{"name":"zepto","version":"1.2.0"}`))),
			})
		case strings.HasPrefix(p, "src/"):
			name := strings.TrimPrefix(p, "src/")
			src, ok := zeptoSources[name]
			if !ok {
				http.NotFound(w, r)
				return
			}
			time.Sleep(delays[name])
			json.NewEncoder(w).Encode(apiContentResponse{
				Name: name, Path: p, Type: "file", Encoding: "base64",
				Content: wrap76(base64.StdEncoding.EncodeToString([]byte(src))),
			})
		default:
			http.NotFound(w, r)
		}
	}))
}

// wrap76 inserts newlines the way GitHub does in base64 payloads.
func wrap76(s string) string {
	var b strings.Builder
	for len(s) > 76 {
		b.WriteString(s[:76])
		b.WriteByte('\n')
		s = s[76:]
	}
	b.WriteString(s)
	return b.String()
}

func testFetcher(t *testing.T, baseURL string, mutate func(*Config)) *Fetcher {
	t.Helper()
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.CacheTTL = 0
	cfg.Logger = log.New(io.Discard)
	if mutate != nil {
		mutate(&cfg)
	}
	f, err := NewFetcher(cfg)
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}
	return f
}

func TestFetchModules_ListingOrderAndFilter(t *testing.T) {
	server := fakeGitHub(t, nil)
	defer server.Close()

	files, err := testFetcher(t, server.URL, nil).FetchModules(context.Background())
	if err != nil {
		t.Fatalf("FetchModules: %v", err)
	}

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
		if f.Content != zeptoSources[f.Name] {
			t.Errorf("%s content = %q, want %q", f.Name, f.Content, zeptoSources[f.Name])
		}
	}
	if got, want := strings.Join(names, ","), "zepto.js,event.js,ajax.js"; got != want {
		t.Errorf("names = %s, want %s", got, want)
	}
}

func TestFetchModules_NoSuffixKeepsAllFiles(t *testing.T) {
	server := fakeGitHub(t, nil)
	defer server.Close()

	f := testFetcher(t, server.URL, func(c *Config) { c.Suffix = "" })
	_, err := f.FetchModules(context.Background())
	// README.md is listed but the fake server has no body for it.
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Fatalf("FetchModules error = %v, want ErrNotFound", err)
	}
	if !zerrors.Is(err, zerrors.ErrCodeFetchFailed) {
		t.Errorf("error code = %s, want FETCH_FAILED", zerrors.GetCode(err))
	}
}

func TestFetchModules_MissingDirectory(t *testing.T) {
	server := fakeGitHub(t, nil)
	defer server.Close()

	f := testFetcher(t, server.URL, func(c *Config) { c.SrcPath = "lib" })
	if _, err := f.FetchModules(context.Background()); !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("FetchModules error = %v, want ErrNotFound", err)
	}
}

func TestFetchModules_UsesResponseCache(t *testing.T) {
	var requests atomic.Int32
	server := fakeGitHub(t, &requests)
	defer server.Close()

	dir := t.TempDir()
	f := testFetcher(t, server.URL, func(c *Config) {
		c.CacheDir = dir
		c.CacheTTL = time.Hour
	})

	if _, err := f.FetchModules(context.Background()); err != nil {
		t.Fatalf("first FetchModules: %v", err)
	}
	first := requests.Load()
	if _, err := f.FetchModules(context.Background()); err != nil {
		t.Fatalf("second FetchModules: %v", err)
	}
	if requests.Load() != first {
		t.Errorf("second fetch made %d requests, want 0", requests.Load()-first)
	}
}

func TestFetchVersion(t *testing.T) {
	server := fakeGitHub(t, nil)
	defer server.Close()

	v, err := testFetcher(t, server.URL, nil).FetchVersion(context.Background())
	if err != nil {
		t.Fatalf("FetchVersion: %v", err)
	}
	if v != "1.2.0" {
		t.Errorf("version = %q, want 1.2.0", v)
	}
}

func TestFetchModules_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode([]apiContentResponse{})
	}))
	defer server.Close()

	files, err := testFetcher(t, server.URL, nil).FetchModules(context.Background())
	if err != nil {
		t.Fatalf("FetchModules: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("got %d files, want 0", len(files))
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestFetch_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := testFetcher(t, server.URL, nil).FetchModules(context.Background())
	var rl *zerrors.RateLimitedError
	if !errors.As(err, &rl) {
		t.Fatalf("error = %v, want RateLimitedError", err)
	}
}

func TestNewFetcher_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad owner", func(c *Config) { c.Owner = "mad/robby" }},
		{"traversal path", func(c *Config) { c.SrcPath = "../secrets" }},
		{"bad base url", func(c *Config) { c.BaseURL = "ftp://example.com" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CacheTTL = 0
			tt.mutate(&cfg)
			if _, err := NewFetcher(cfg); err == nil {
				t.Error("NewFetcher() = nil error")
			}
		})
	}
}

func TestContentsURL(t *testing.T) {
	c := NewClient("", "https://api.example.com/", nil)
	tests := []struct {
		ref, path, want string
	}{
		{"master", "src", "https://api.example.com/repos/o/r/contents/src?ref=master"},
		{"", "/src/zepto.js", "https://api.example.com/repos/o/r/contents/src/zepto.js"},
		{"v1.2", "", "https://api.example.com/repos/o/r/contents/?ref=v1.2"},
		{"feature/x", "a b.js", "https://api.example.com/repos/o/r/contents/a%20b.js?ref=feature%2Fx"},
	}
	for _, tt := range tests {
		if got := c.contentsURL("o", "r", tt.ref, tt.path); got != tt.want {
			t.Errorf("contentsURL(%q, %q) = %s, want %s", tt.ref, tt.path, got, tt.want)
		}
	}
}

func TestFetcher_Repo(t *testing.T) {
	f := NewFetcherWithClient(DefaultConfig(), NewClient("", "", nil))
	if got := f.Repo(); got != "madrobby/zepto@master" {
		t.Errorf("Repo() = %q", got)
	}
}
