package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/zbuilder/pkg/cache"
	"github.com/matzehuels/zbuilder/pkg/httputil"
	"github.com/matzehuels/zbuilder/pkg/session"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the GitHub response cache and stored sessions",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear cached GitHub responses and the CLI session",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := httpCacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			cleared, err := clearHTTPCache(dir)
			if err != nil {
				return err
			}
			printSuccess("Cleared %d cached responses", cleared)
			printDetail("Directory: %s", dir)

			cfg, err := c.loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			switch cfg.Session.Backend {
			case cache.BackendFile:
				n, err := clearFileSessions(cfg.Session.Dir)
				if err != nil {
					return err
				}
				printSuccess("Cleared %d session entries", n)
				printDetail("Directory: %s", cfg.Session.Dir)
			case cache.BackendNone, cache.BackendMemory:
			default:
				backend, err := cache.Open(cmd.Context(), cfg.CacheOptions())
				if err != nil {
					return err
				}
				store := session.NewStore(backend, cfg.Product, cfg.Session.TTL, c.Logger)
				defer store.Close()
				store.Session(session.CLIID).Reset(cmd.Context())
				printSuccess("Reset the CLI session in %s", cfg.Session.Backend)
			}
			return nil
		},
	}
}

func clearHTTPCache(dir string) (int, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, nil
	}
	hc, err := httputil.NewCache(dir, 0)
	if err != nil {
		return 0, err
	}
	return hc.Clear()
}

func clearFileSessions(dir string) (int, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return 0, err
	}
	return fc.Clear()
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
