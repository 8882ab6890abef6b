package cli

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/zbuilder/pkg/blob"
	"github.com/matzehuels/zbuilder/pkg/bundle"
	"github.com/matzehuels/zbuilder/pkg/cache"
	"github.com/matzehuels/zbuilder/pkg/catalog"
	"github.com/matzehuels/zbuilder/pkg/config"
	"github.com/matzehuels/zbuilder/pkg/integrations/github"
	"github.com/matzehuels/zbuilder/pkg/metadata"
	"github.com/matzehuels/zbuilder/pkg/pipeline"
	"github.com/matzehuels/zbuilder/pkg/session"
)

// app bundles the components a command works with.
type app struct {
	cfg       *config.Config
	logger    *log.Logger
	fetcher   *github.Fetcher
	meta      *metadata.Store
	catalog   *catalog.Catalog
	sessions  *session.Store
	publisher blob.Publisher
	assembler *bundle.Assembler
	runner    *pipeline.Runner
}

// loadConfig reads the configuration, binding flags registered on cmd under
// the names in flagKeys (flag name to config key).
func (c *CLI) loadConfig(cmd *cobra.Command, flagKeys map[string]string) (*config.Config, error) {
	l := config.NewLoader()
	for name, key := range flagKeys {
		if err := l.BindFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return nil, err
		}
	}
	cfg, err := l.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if used := l.ConfigFileUsed(); used != "" {
		c.Logger.Debug("loaded config", "path", used)
	}
	return cfg, nil
}

// open loads the configuration and creates all components.
func (c *CLI) open(cmd *cobra.Command) (*app, error) {
	return c.openWith(cmd, nil)
}

func (c *CLI) openWith(cmd *cobra.Command, flagKeys map[string]string) (*app, error) {
	cfg, err := c.loadConfig(cmd, flagKeys)
	if err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	fcfg := cfg.FetcherConfig(logger)
	fcfg.Refresh = c.refresh
	if fcfg.CacheDir == "" {
		if dir, err := httpCacheDir(); err == nil {
			fcfg.CacheDir = dir
		}
	}
	fetcher, err := github.NewFetcher(fcfg)
	if err != nil {
		return nil, err
	}

	meta := metadata.NewStore(cfg.Metadata.Path, logger)
	copts, err := cfg.CatalogOptions(logger)
	if err != nil {
		return nil, err
	}

	backend, err := c.openSessions(ctx, cfg)
	if err != nil {
		return nil, err
	}
	publisher, err := blob.Open(ctx, cfg.BlobOptions())
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	cat := catalog.New(fetcher, meta, copts)
	asm := bundle.New(publisher, cfg.Product, logger)
	return &app{
		cfg:       cfg,
		logger:    logger,
		fetcher:   fetcher,
		meta:      meta,
		catalog:   cat,
		sessions:  session.NewStore(backend, cfg.Product, cfg.Session.TTL, logger),
		publisher: publisher,
		assembler: asm,
		runner:    pipeline.NewRunner(cat, asm, logger),
	}, nil
}

// openSessions opens the session backend. An unreachable backend degrades to
// no session caching.
func (c *CLI) openSessions(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	backend, err := cache.Open(ctx, cfg.CacheOptions())
	if err == nil {
		return backend, nil
	}
	if errors.Is(err, cache.ErrUnknownBackend) {
		return nil, err
	}
	c.Logger.Warn("session storage unavailable, continuing without it", "backend", cfg.Session.Backend, "error", err)
	return cache.NewNullCache(), nil
}

// session returns the CLI session. With --refresh the stored values are
// dropped first.
func (a *app) session(ctx context.Context, refresh bool) *session.Session {
	sess := a.sessions.Session(session.CLIID)
	if refresh {
		sess.Reset(ctx)
	}
	return sess
}

// Close releases the session backend and publisher.
func (a *app) Close() error {
	return errors.Join(a.sessions.Close(), blob.Close(a.publisher))
}
