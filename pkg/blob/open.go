package blob

import (
	"context"
	"fmt"
	"time"
)

// Backend names accepted by [Open].
const (
	BackendData  = "data"
	BackendFile  = "file"
	BackendMongo = "mongo"
	BackendS3    = "s3"
)

// Options selects and configures a publisher backend.
type Options struct {
	Backend string
	BaseURL string
	Dir     string
	TTL     time.Duration
	Mongo   MongoConfig
	S3      S3Config
}

// Open creates the publisher named by opts.Backend. The result also
// implements [Store] for the file and mongo backends.
func Open(ctx context.Context, opts Options) (Publisher, error) {
	switch opts.Backend {
	case BackendData, "":
		return DataURL{}, nil
	case BackendFile:
		return NewFileStore(opts.Dir, opts.BaseURL)
	case BackendMongo:
		cfg := opts.Mongo
		if cfg.BaseURL == "" {
			cfg.BaseURL = opts.BaseURL
		}
		if cfg.TTL == 0 {
			cfg.TTL = opts.TTL
		}
		return NewMongoStore(ctx, cfg)
	case BackendS3:
		return NewS3Store(opts.S3)
	default:
		return nil, fmt.Errorf("unknown publish backend %q", opts.Backend)
	}
}

// Close closes p when it holds resources.
func Close(p Publisher) error {
	if s, ok := p.(interface{ Close() error }); ok {
		return s.Close()
	}
	return nil
}
