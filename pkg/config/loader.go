package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/zbuilder/pkg/blob"
	"github.com/matzehuels/zbuilder/pkg/cache"
	"github.com/matzehuels/zbuilder/pkg/catalog"
	"github.com/matzehuels/zbuilder/pkg/errors"
	"github.com/matzehuels/zbuilder/pkg/integrations/github"
	"github.com/matzehuels/zbuilder/pkg/session"
)

const (
	appName   = "zbuilder"
	envPrefix = "ZBUILDER"
)

// DefaultPath returns $XDG_CONFIG_HOME/zbuilder/config.toml, falling back to
// ~/.config/zbuilder/config.toml.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// DataDir returns the directory for published bundles of the file backend.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName, "bundles")
	}
	return filepath.Join(home, ".cache", appName, "bundles")
}

// LoadDotEnv loads .env files into the process environment. Missing files
// are ignored and existing variables are never overwritten.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

// Loader merges defaults, a config file, environment and flags.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader with defaults and environment bindings.
func NewLoader() *Loader {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("github.token", envPrefix+"_GITHUB_TOKEN", "GITHUB_TOKEN")

	return &Loader{v: v}
}

func setDefaults(v *viper.Viper) {
	gh := github.DefaultConfig()
	v.SetDefault("product", "zepto")

	v.SetDefault("github.owner", gh.Owner)
	v.SetDefault("github.repo", gh.Repo)
	v.SetDefault("github.branch", gh.Branch)
	v.SetDefault("github.src_path", gh.SrcPath)
	v.SetDefault("github.suffix", gh.Suffix)
	v.SetDefault("github.token", "")
	v.SetDefault("github.base_url", gh.BaseURL)
	v.SetDefault("github.cache_dir", "")
	v.SetDefault("github.cache_ttl", gh.CacheTTL)
	v.SetDefault("github.concurrency", gh.Concurrency)

	v.SetDefault("metadata.path", "")

	v.SetDefault("catalog.policy", string(catalog.PolicyStale))
	v.SetDefault("catalog.template", "")
	v.SetDefault("catalog.minify_fragment", false)

	v.SetDefault("session.backend", cache.BackendFile)
	v.SetDefault("session.dir", session.DefaultDir())
	v.SetDefault("session.max_entries", 4096)
	v.SetDefault("session.redis_addr", "")
	v.SetDefault("session.redis_password", "")
	v.SetDefault("session.redis_db", 0)
	v.SetDefault("session.ttl", session.DefaultTTL)

	v.SetDefault("publish.backend", blob.BackendData)
	v.SetDefault("publish.dir", DataDir())
	v.SetDefault("publish.base_url", "http://localhost:8080")
	v.SetDefault("publish.ttl", 24*time.Hour)
	v.SetDefault("publish.mongo_uri", "")
	v.SetDefault("publish.mongo_database", appName)
	v.SetDefault("publish.mongo_collection", "bundles")
	v.SetDefault("publish.s3_endpoint", "")
	v.SetDefault("publish.s3_bucket", appName)
	v.SetDefault("publish.s3_access_key", "")
	v.SetDefault("publish.s3_secret_key", "")
	v.SetDefault("publish.s3_region", "")
	v.SetDefault("publish.s3_use_ssl", true)
	v.SetDefault("publish.presign_ttl", time.Hour)

	v.SetDefault("server.addr", ":8080")
}

// BindFlag makes flag override key when the flag is set on the command line.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("bind %s: flag is nil", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load reads the configuration. An explicit path must exist; when path is
// empty the default location is used if a file is there.
func (l *Loader) Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			l.v.SetConfigFile(path)
			l.v.SetConfigType("toml")
			if err := l.v.ReadInConfig(); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
			}
		} else if explicit {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigFileUsed returns the file read by the last Load, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Default returns the configuration with only defaults and environment
// applied.
func Default() (*Config, error) {
	l := NewLoader()
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode config")
	}
	return &cfg, nil
}
