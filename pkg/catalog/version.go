package catalog

import (
	"context"

	"github.com/matzehuels/zbuilder/pkg/observability"
	"github.com/matzehuels/zbuilder/pkg/session"
)

// VersionFetcher reads the library version from its package manifest.
type VersionFetcher interface {
	FetchVersion(ctx context.Context) (string, error)
}

// Version returns the library version, preferring the value stored in sess.
// A fetched version is stored back into sess. The bool reports a session hit.
func Version(ctx context.Context, vf VersionFetcher, sess *session.Session) (string, bool, error) {
	hooks := observability.Cache()
	if sess != nil {
		if v, ok := sess.Version(ctx); ok {
			hooks.OnCacheHit(ctx, "version")
			return v, true, nil
		}
		hooks.OnCacheMiss(ctx, "version")
	}

	v, err := vf.FetchVersion(ctx)
	if err != nil {
		return "", false, err
	}
	if sess != nil {
		sess.SetVersion(ctx, v)
		hooks.OnCacheSet(ctx, "version", len(v))
	}
	return v, false, nil
}
