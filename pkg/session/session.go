// Package session provides per-user key/value storage for the builder.
//
// A session remembers two values between runs or requests, mirroring what a
// browser would keep in its session storage:
//   - <product>-version: the library version read from package.json
//   - <product>-modules: the rendered module catalog fragment
//
// Sessions are views over a shared [cache.Cache] backend. Each session ID
// gets its own key prefix, so two sessions never see each other's values.
//
// Storage is best effort. Backend failures are logged and reported as
// misses; a broken session store degrades to refetching, never to an error.
//
// # Usage
//
//	backend, _ := cache.Open(ctx, cache.Options{Backend: "file", Dir: session.DefaultDir()})
//	store := session.NewStore(backend, "zepto", session.DefaultTTL, logger)
//
//	sess := store.Session(session.CLIID)
//	if v, ok := sess.Version(ctx); ok {
//	    fmt.Println(v)
//	}
package session

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/zbuilder/pkg/cache"
)

// Default values.
const (
	// DefaultTTL is the default lifetime of stored session values.
	DefaultTTL = 24 * time.Hour

	// CLIID is the fixed session ID used by the command line.
	CLIID = "cli"
)

// DefaultDir returns the default directory for file-backed sessions:
// ~/.cache/zbuilder/sessions.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "zbuilder", "sessions")
	}
	return filepath.Join(home, ".cache", "zbuilder", "sessions")
}

// NewID creates a random session ID.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an ID produced by [NewID] or [CLIID].
func ValidID(id string) bool {
	if id == CLIID {
		return true
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// Store hands out sessions over one backend.
type Store struct {
	backend cache.Cache
	product string
	ttl     time.Duration
	logger  *log.Logger
}

// NewStore creates a session store. A nil backend disables storage and a nil
// logger uses log.Default().
func NewStore(backend cache.Cache, product string, ttl time.Duration, logger *log.Logger) *Store {
	if backend == nil {
		backend = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Store{backend: backend, product: product, ttl: ttl, logger: logger}
}

// Product returns the product name used to build keys.
func (s *Store) Product() string { return s.product }

// Session returns the session with the given ID.
func (s *Store) Session(id string) *Session {
	return &Session{
		id:      id,
		product: s.product,
		ttl:     s.ttl,
		logger:  s.logger,
		c:       cache.NewScoped(s.backend, "session:"+id+":"),
	}
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Session is the storage of one user.
type Session struct {
	id      string
	product string
	ttl     time.Duration
	logger  *log.Logger
	c       cache.Cache
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// VersionKey returns the key holding the library version.
func (s *Session) VersionKey() string { return s.product + "-version" }

// ModulesKey returns the key holding the rendered catalog fragment.
func (s *Session) ModulesKey() string { return s.product + "-modules" }

// Get returns the value stored under key. Backend errors count as a miss.
func (s *Session) Get(ctx context.Context, key string) (string, bool) {
	data, hit, err := s.c.Get(ctx, key)
	if err != nil {
		s.logger.Warn("session read failed", "session", s.id, "key", key, "error", err)
		return "", false
	}
	if !hit {
		return "", false
	}
	return string(data), true
}

// Set stores value under key. Backend errors are logged and dropped.
func (s *Session) Set(ctx context.Context, key, value string) {
	if err := s.c.Set(ctx, key, []byte(value), s.ttl); err != nil {
		s.logger.Warn("session write failed", "session", s.id, "key", key, "error", err)
	}
}

// Delete removes key. Backend errors are logged and dropped.
func (s *Session) Delete(ctx context.Context, key string) {
	if err := s.c.Delete(ctx, key); err != nil {
		s.logger.Warn("session delete failed", "session", s.id, "key", key, "error", err)
	}
}

// Version returns the stored library version.
func (s *Session) Version(ctx context.Context) (string, bool) {
	return s.Get(ctx, s.VersionKey())
}

// SetVersion stores the library version.
func (s *Session) SetVersion(ctx context.Context, v string) {
	s.Set(ctx, s.VersionKey(), v)
}

// Modules returns the stored catalog fragment.
func (s *Session) Modules(ctx context.Context) (string, bool) {
	return s.Get(ctx, s.ModulesKey())
}

// SetModules stores the catalog fragment.
func (s *Session) SetModules(ctx context.Context, fragment string) {
	s.Set(ctx, s.ModulesKey(), fragment)
}

// Reset removes every value this package writes for the session.
func (s *Session) Reset(ctx context.Context) {
	s.Delete(ctx, s.VersionKey())
	s.Delete(ctx, s.ModulesKey())
	s.Delete(ctx, s.ModulesKey()+"-hash")
}
