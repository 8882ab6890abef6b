// Package config loads zbuilder's configuration.
//
// Values come from, in increasing precedence: built-in defaults, a TOML
// file, ZBUILDER_* environment variables and bound command-line flags.
// Nested keys map to environment variables by upper-casing and replacing
// dots with underscores, so github.token is read from ZBUILDER_GITHUB_TOKEN.
//
// A minimal config.toml:
//
//	product = "zepto"
//
//	[github]
//	owner = "madrobby"
//	repo = "zepto"
//	token = "ghp_..."
//
//	[session]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[publish]
//	backend = "file"
//	base_url = "https://builder.example.com"
package config

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/zbuilder/pkg/blob"
	"github.com/matzehuels/zbuilder/pkg/cache"
	"github.com/matzehuels/zbuilder/pkg/catalog"
	"github.com/matzehuels/zbuilder/pkg/errors"
	"github.com/matzehuels/zbuilder/pkg/integrations/github"
)

// Config is the complete zbuilder configuration.
type Config struct {
	Product  string         `mapstructure:"product"`
	GitHub   GitHubConfig   `mapstructure:"github"`
	Metadata MetadataConfig `mapstructure:"metadata"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Session  SessionConfig  `mapstructure:"session"`
	Publish  PublishConfig  `mapstructure:"publish"`
	Server   ServerConfig   `mapstructure:"server"`
}

// GitHubConfig locates the library sources.
type GitHubConfig struct {
	Owner       string        `mapstructure:"owner"`
	Repo        string        `mapstructure:"repo"`
	Branch      string        `mapstructure:"branch"`
	SrcPath     string        `mapstructure:"src_path"`
	Suffix      string        `mapstructure:"suffix"`
	Token       string        `mapstructure:"token"`
	BaseURL     string        `mapstructure:"base_url"`
	CacheDir    string        `mapstructure:"cache_dir"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
	Concurrency int           `mapstructure:"concurrency"`
}

// MetadataConfig points at the module metadata file. An empty path uses the
// bundled metadata.
type MetadataConfig struct {
	Path string `mapstructure:"path"`
}

// CatalogConfig controls catalog rendering and caching.
type CatalogConfig struct {
	Policy         string `mapstructure:"policy"`
	Template       string `mapstructure:"template"`
	MinifyFragment bool   `mapstructure:"minify_fragment"`
}

// SessionConfig selects the session storage backend.
type SessionConfig struct {
	Backend       string        `mapstructure:"backend"`
	Dir           string        `mapstructure:"dir"`
	MaxEntries    int           `mapstructure:"max_entries"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// PublishConfig selects where generated bundles are published.
type PublishConfig struct {
	Backend         string        `mapstructure:"backend"`
	Dir             string        `mapstructure:"dir"`
	BaseURL         string        `mapstructure:"base_url"`
	TTL             time.Duration `mapstructure:"ttl"`
	MongoURI        string        `mapstructure:"mongo_uri"`
	MongoDatabase   string        `mapstructure:"mongo_database"`
	MongoCollection string        `mapstructure:"mongo_collection"`
	S3Endpoint      string        `mapstructure:"s3_endpoint"`
	S3Bucket        string        `mapstructure:"s3_bucket"`
	S3AccessKey     string        `mapstructure:"s3_access_key"`
	S3SecretKey     string        `mapstructure:"s3_secret_key"`
	S3Region        string        `mapstructure:"s3_region"`
	S3UseSSL        bool          `mapstructure:"s3_use_ssl"`
	PresignTTL      time.Duration `mapstructure:"presign_ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Product == "" {
		return errors.New(errors.ErrCodeInvalidInput, "product name is required")
	}
	if err := errors.ValidateModuleName(c.Product); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid product name")
	}
	if err := errors.ValidateRepo(c.GitHub.Owner, c.GitHub.Repo); err != nil {
		return err
	}
	if err := errors.ValidatePath(c.GitHub.SrcPath); err != nil {
		return err
	}
	if c.GitHub.BaseURL != "" {
		if err := errors.ValidateURL(c.GitHub.BaseURL); err != nil {
			return err
		}
	}
	if _, err := catalog.ParsePolicy(c.Catalog.Policy); err != nil {
		return err
	}

	switch c.Session.Backend {
	case cache.BackendFile, cache.BackendMemory, cache.BackendNone:
	case cache.BackendRedis:
		if c.Session.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "session.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown session backend %q (want file, memory, redis or none)", c.Session.Backend)
	}

	switch c.Publish.Backend {
	case blob.BackendData:
	case blob.BackendFile:
		if c.Publish.Dir == "" {
			return errors.New(errors.ErrCodeInvalidInput, "publish.dir is required for the file backend")
		}
	case blob.BackendMongo:
		if c.Publish.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidInput, "publish.mongo_uri is required for the mongo backend")
		}
	case blob.BackendS3:
		if c.Publish.S3Endpoint == "" || c.Publish.S3Bucket == "" {
			return errors.New(errors.ErrCodeInvalidInput, "publish.s3_endpoint and publish.s3_bucket are required for the s3 backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown publish backend %q (want data, file, mongo or s3)", c.Publish.Backend)
	}
	return nil
}

// FetcherConfig returns the GitHub fetcher configuration.
func (c *Config) FetcherConfig(logger *log.Logger) github.Config {
	g := c.GitHub
	return github.Config{
		Owner:       g.Owner,
		Repo:        g.Repo,
		Branch:      g.Branch,
		SrcPath:     g.SrcPath,
		Suffix:      g.Suffix,
		Token:       g.Token,
		BaseURL:     g.BaseURL,
		CacheDir:    g.CacheDir,
		CacheTTL:    g.CacheTTL,
		Concurrency: g.Concurrency,
		Logger:      logger,
	}
}

// CatalogOptions returns the catalog options.
func (c *Config) CatalogOptions(logger *log.Logger) (catalog.Options, error) {
	policy, err := catalog.ParsePolicy(c.Catalog.Policy)
	if err != nil {
		return catalog.Options{}, err
	}
	return catalog.Options{
		Policy:   policy,
		Template: c.Catalog.Template,
		Compact:  c.Catalog.MinifyFragment,
		Logger:   logger,

		ModulesTTL: c.GitHub.CacheTTL,
	}, nil
}

// CacheOptions returns the session backend options.
func (c *Config) CacheOptions() cache.Options {
	s := c.Session
	return cache.Options{
		Backend:    s.Backend,
		Dir:        s.Dir,
		MaxEntries: s.MaxEntries,
		Redis: cache.RedisConfig{
			Addr:     s.RedisAddr,
			Password: s.RedisPassword,
			DB:       s.RedisDB,
			Prefix:   "zbuilder:",
		},
	}
}

// BlobOptions returns the publisher options.
func (c *Config) BlobOptions() blob.Options {
	p := c.Publish
	return blob.Options{
		Backend: p.Backend,
		BaseURL: p.BaseURL,
		Dir:     p.Dir,
		TTL:     p.TTL,
		Mongo: blob.MongoConfig{
			URI:        p.MongoURI,
			Database:   p.MongoDatabase,
			Collection: p.MongoCollection,
		},
		S3: blob.S3Config{
			Endpoint:   p.S3Endpoint,
			Region:     p.S3Region,
			AccessKey:  p.S3AccessKey,
			SecretKey:  p.S3SecretKey,
			Bucket:     p.S3Bucket,
			UseSSL:     p.S3UseSSL,
			PresignTTL: p.PresignTTL,
		},
	}
}
