package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. It implements
// BuildHooks, CacheHooks and HTTPHooks.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates hooks logging to logger (log.Default() when nil).
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

// Install registers h for every hook category.
func (h *LogHooks) Install() {
	SetBuildHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnFetchStart(_ context.Context, repo string) {
	h.logger.Debug("fetch started", "repo", repo)
}

func (h *LogHooks) OnFetchComplete(_ context.Context, repo string, n int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("fetch failed", "repo", repo, "duration", d, "error", err)
		return
	}
	h.logger.Debug("fetch complete", "repo", repo, "modules", n, "duration", d)
}

func (h *LogHooks) OnGenerateStart(_ context.Context, n int, minify bool) {
	h.logger.Debug("generate started", "modules", n, "minify", minify)
}

func (h *LogHooks) OnGenerateComplete(_ context.Context, n, in, out int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("generate failed", "modules", n, "duration", d, "error", err)
		return
	}
	h.logger.Debug("generate complete", "modules", n, "in", in, "out", out, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "key", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "key", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "key", keyType, "size", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "error", err)
}

var (
	_ BuildHooks = (*LogHooks)(nil)
	_ CacheHooks = (*LogHooks)(nil)
	_ HTTPHooks  = (*LogHooks)(nil)
)
