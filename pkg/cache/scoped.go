package cache

import (
	"context"
	"time"
)

// Scoped wraps a Cache and prefixes every key, giving each browser or CLI
// session its own namespace on a shared backend.
//
//	alice := cache.NewScoped(shared, "session:alice:")
//	bob := cache.NewScoped(shared, "session:bob:")
type Scoped struct {
	inner  Cache
	prefix string
}

// NewScoped creates a scoped view of inner. A nil inner yields a NullCache scope.
func NewScoped(inner Cache, prefix string) *Scoped {
	if inner == nil {
		inner = NewNullCache()
	}
	return &Scoped{inner: inner, prefix: prefix}
}

// Prefix returns the key prefix of this scope.
func (s *Scoped) Prefix() string { return s.prefix }

func (s *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *Scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

func (s *Scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Close is a no-op; the shared backend is owned by whoever created it.
func (s *Scoped) Close() error { return nil }

var _ Cache = (*Scoped)(nil)
