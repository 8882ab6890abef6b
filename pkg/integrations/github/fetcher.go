package github

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/zbuilder/pkg/errors"
	"github.com/matzehuels/zbuilder/pkg/integrations"
	"github.com/matzehuels/zbuilder/pkg/observability"
)

// DefaultConcurrency bounds the number of file requests in flight.
const DefaultConcurrency = 8

// Config locates a library's module sources on GitHub.
type Config struct {
	Owner   string
	Repo    string
	Branch  string
	SrcPath string // directory holding one file per module
	Suffix  string // only listed files with this suffix are modules; empty keeps all files
	Token   string
	BaseURL string

	CacheDir string        // response cache directory; empty uses the default
	CacheTTL time.Duration // 0 disables response caching

	Concurrency int
	Refresh     bool // bypass cached responses
	Logger      *log.Logger
}

// DefaultConfig returns the configuration for Zepto's source tree.
func DefaultConfig() Config {
	return Config{
		Owner:       "madrobby",
		Repo:        "zepto",
		Branch:      "master",
		SrcPath:     "src",
		Suffix:      ".js",
		BaseURL:     DefaultBaseURL,
		CacheTTL:    time.Hour,
		Concurrency: DefaultConcurrency,
	}
}

// Fetcher retrieves module sources and the library version from one repository.
type Fetcher struct {
	client *Client
	cfg    Config
	logger *log.Logger
}

// NewFetcher validates cfg and creates a Fetcher with its own cached client.
func NewFetcher(cfg Config) (*Fetcher, error) {
	if err := errors.ValidateRepo(cfg.Owner, cfg.Repo); err != nil {
		return nil, err
	}
	if err := errors.ValidatePath(cfg.SrcPath); err != nil {
		return nil, err
	}
	if cfg.BaseURL != "" {
		if err := errors.ValidateURL(cfg.BaseURL); err != nil {
			return nil, err
		}
	}

	var client *Client
	if cfg.CacheTTL > 0 {
		cache, err := integrations.NewCache(cfg.CacheDir, cfg.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("open response cache: %w", err)
		}
		client = NewClient(cfg.Token, cfg.BaseURL, cache.Namespace("github:"))
	} else {
		client = NewClient(cfg.Token, cfg.BaseURL, nil)
	}
	return NewFetcherWithClient(cfg, client), nil
}

// NewFetcherWithClient creates a Fetcher using an existing client.
func NewFetcherWithClient(cfg Config, client *Client) *Fetcher {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Fetcher{client: client, cfg: cfg, logger: logger}
}

// Repo returns "owner/repo@branch".
func (f *Fetcher) Repo() string {
	s := f.cfg.Owner + "/" + f.cfg.Repo
	if f.cfg.Branch != "" {
		s += "@" + f.cfg.Branch
	}
	return s
}

// FetchModules lists the source directory and fetches every module file.
// Directories and files without the configured suffix are skipped. Files are
// fetched concurrently; the result keeps the listing order.
func (f *Fetcher) FetchModules(ctx context.Context) ([]integrations.SourceFile, error) {
	hooks := observability.Build()
	hooks.OnFetchStart(ctx, f.Repo())
	start := time.Now()

	files, err := f.fetchModules(ctx)
	hooks.OnFetchComplete(ctx, f.Repo(), len(files), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("fetched modules", "repo", f.Repo(), "count", len(files), "duration", time.Since(start))
	return files, nil
}

func (f *Fetcher) fetchModules(ctx context.Context) ([]integrations.SourceFile, error) {
	items, err := f.client.ListContents(ctx, f.cfg.Owner, f.cfg.Repo, f.cfg.Branch, f.cfg.SrcPath, f.cfg.Refresh)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, err, "list %s/%s", f.Repo(), f.cfg.SrcPath)
	}

	var modules []ContentItem
	for _, item := range items {
		if item.Type != "file" {
			continue
		}
		if f.cfg.Suffix != "" && !strings.HasSuffix(item.Name, f.cfg.Suffix) {
			continue
		}
		modules = append(modules, item)
	}

	files := make([]integrations.SourceFile, len(modules))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.cfg.Concurrency)
	for i, item := range modules {
		g.Go(func() error {
			p := item.Path
			if p == "" {
				p = path.Join(f.cfg.SrcPath, item.Name)
			}
			fc, err := f.client.FetchFile(gctx, f.cfg.Owner, f.cfg.Repo, f.cfg.Branch, p, f.cfg.Refresh)
			if err != nil {
				return errors.Wrap(errors.ErrCodeFetchFailed, err, "fetch %s", p)
			}
			files[i] = integrations.SourceFile{
				Name:    item.Name,
				Path:    p,
				Size:    item.Size,
				Content: fc.Content,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// FetchVersion reads the version field of package.json at the repository root.
func (f *Fetcher) FetchVersion(ctx context.Context) (string, error) {
	fc, err := f.client.FetchFile(ctx, f.cfg.Owner, f.cfg.Repo, f.cfg.Branch, "package.json", f.cfg.Refresh)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFetchFailed, err, "fetch package.json of %s", f.Repo())
	}
	var pkg packageJSON
	if err := json.Unmarshal([]byte(fc.Content), &pkg); err != nil {
		return "", errors.Wrap(errors.ErrCodeFetchFailed, err, "parse package.json of %s", f.Repo())
	}
	if pkg.Version == "" {
		return "", errors.New(errors.ErrCodeFetchFailed, "package.json of %s has no version", f.Repo())
	}
	return pkg.Version, nil
}
