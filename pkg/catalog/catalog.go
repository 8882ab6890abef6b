// Package catalog builds the list of selectable modules and renders it as an
// HTML fragment.
//
// A [Catalog] combines a source fetcher with a metadata store. [Catalog.Load]
// serves the rendered fragment from a session when one is cached, otherwise
// it fetches, builds, renders and stores it. [Catalog.Modules] always returns
// the live module list with contents, since a cached fragment carries no
// source code.
package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/zbuilder/pkg/cache"
	"github.com/matzehuels/zbuilder/pkg/errors"
	"github.com/matzehuels/zbuilder/pkg/integrations"
	"github.com/matzehuels/zbuilder/pkg/metadata"
	"github.com/matzehuels/zbuilder/pkg/observability"
	"github.com/matzehuels/zbuilder/pkg/session"
)

// Policy controls how a cached fragment is trusted.
type Policy string

const (
	// PolicyStale serves any cached fragment as is. Metadata changes are
	// not picked up until the session entry expires.
	PolicyStale Policy = "stale"

	// PolicyRevalidate stores a hash of the metadata and row template next to
	// the fragment and rebuilds when either changed.
	PolicyRevalidate Policy = "revalidate"
)

// ParsePolicy converts a configuration string to a Policy. Empty means stale.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyStale, "":
		return PolicyStale, nil
	case PolicyRevalidate:
		return PolicyRevalidate, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown catalog policy %q (want stale or revalidate)", s)
	}
}

// Fetcher lists module sources.
type Fetcher interface {
	FetchModules(ctx context.Context) ([]integrations.SourceFile, error)
}

// MetadataLoader returns the module metadata mapping, empty on failure.
type MetadataLoader interface {
	Load(ctx context.Context) metadata.Metadata
}

// View is what a catalog load shows to the user.
type View struct {
	Fragment  string
	Modules   []Module // nil when the fragment came from a session
	FromCache bool
}

// Options configures a Catalog.
type Options struct {
	Policy   Policy
	Template string
	Compact  bool
	Logger   *log.Logger

	// ModulesTTL bounds how long [Catalog.Modules] reuses a fetched list.
	// Zero keeps it until [Catalog.Invalidate].
	ModulesTTL time.Duration
}

// Catalog is safe for concurrent use.
type Catalog struct {
	fetcher  Fetcher
	meta     MetadataLoader
	renderer *Renderer
	policy   Policy
	ttl      time.Duration
	logger   *log.Logger
	now      func() time.Time

	mu        sync.Mutex
	modules   []Module
	fetchedAt time.Time
}

// New creates a catalog.
func New(fetcher Fetcher, meta MetadataLoader, opts Options) *Catalog {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	policy := opts.Policy
	if policy == "" {
		policy = PolicyStale
	}
	return &Catalog{
		fetcher:  fetcher,
		meta:     meta,
		renderer: NewRenderer(opts.Template, opts.Compact),
		policy:   policy,
		ttl:      opts.ModulesTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Load returns the catalog view for sess. A nil sess disables caching.
//
// When fetching fails the error is logged and returned together with an
// empty view; callers that only display the catalog can ignore it.
func (c *Catalog) Load(ctx context.Context, sess *session.Session) (View, error) {
	hooks := observability.Cache()

	var meta metadata.Metadata
	var wantHash string
	if c.policy == PolicyRevalidate {
		meta = c.meta.Load(ctx)
		wantHash = c.hash(meta)
	}

	if sess != nil {
		// An empty fragment is never a usable catalog.
		if fragment, ok := sess.Modules(ctx); ok && fragment != "" {
			if c.policy == PolicyStale {
				hooks.OnCacheHit(ctx, "modules")
				return View{Fragment: fragment, FromCache: true}, nil
			}
			if h, ok := sess.Get(ctx, hashKey(sess)); ok && h == wantHash {
				hooks.OnCacheHit(ctx, "modules")
				return View{Fragment: fragment, FromCache: true}, nil
			}
			c.logger.Debug("cached catalog is outdated", "session", sess.ID())
		}
		hooks.OnCacheMiss(ctx, "modules")
	}

	if meta == nil {
		meta = c.meta.Load(ctx)
	}
	modules, err := c.build(ctx, meta)
	if err != nil {
		c.logger.Error("load module catalog", "error", err)
		return View{}, err
	}
	fragment, err := c.renderer.Render(modules)
	if err != nil {
		return View{}, errors.Wrap(errors.ErrCodeInternal, err, "render catalog")
	}

	if sess != nil && len(modules) > 0 {
		sess.SetModules(ctx, fragment)
		if c.policy == PolicyRevalidate {
			sess.Set(ctx, hashKey(sess), wantHash)
		}
		hooks.OnCacheSet(ctx, "modules", len(fragment))
	}
	return View{Fragment: fragment, Modules: modules}, nil
}

// Modules returns the live module list, fetching it on first use and again
// once ModulesTTL has passed.
func (c *Catalog) Modules(ctx context.Context) ([]Module, error) {
	c.mu.Lock()
	memo := c.modules
	if memo != nil && c.ttl > 0 && c.now().Sub(c.fetchedAt) >= c.ttl {
		memo, c.modules = nil, nil
	}
	c.mu.Unlock()
	if memo != nil {
		return memo, nil
	}
	return c.build(ctx, c.meta.Load(ctx))
}

// Render renders modules with the catalog's row template.
func (c *Catalog) Render(modules []Module) (string, error) {
	return c.renderer.Render(modules)
}

// Invalidate drops the memoized module list.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.modules = nil
	c.mu.Unlock()
}

func (c *Catalog) build(ctx context.Context, meta metadata.Metadata) ([]Module, error) {
	files, err := c.fetcher.FetchModules(ctx)
	if err != nil {
		return nil, err
	}
	modules := Build(files, meta, c.logger)

	c.mu.Lock()
	c.modules = modules
	c.fetchedAt = c.now()
	c.mu.Unlock()
	return modules, nil
}

func (c *Catalog) hash(meta metadata.Metadata) string {
	return cache.HashJSON(struct {
		Meta     metadata.Metadata `json:"meta"`
		Template string            `json:"template"`
	}{meta, c.renderer.Template()})
}

func hashKey(sess *session.Session) string {
	return sess.ModulesKey() + "-hash"
}
