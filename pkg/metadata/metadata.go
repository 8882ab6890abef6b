// Package metadata loads the static module metadata file: a mapping from
// module filename to a human-readable description and a default-selection flag.
//
// The file is JSON by default:
//
//	{"zepto.js": {"description": "Core module", "default": true}}
//
// or TOML when the source ends in .toml:
//
//	[modules."zepto.js"]
//	description = "Core module"
//	default = true
//
// A source is a local path, an http(s) URL, or empty for the bundled Zepto
// metadata.
package metadata

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/zbuilder/pkg/errors"
	"github.com/matzehuels/zbuilder/pkg/httputil"
	"github.com/matzehuels/zbuilder/pkg/integrations"
)

//go:embed modules.json
var defaultModules []byte

// Formats understood by [Parse].
const (
	FormatJSON = "json"
	FormatTOML = "toml"
)

// Entry describes one module.
type Entry struct {
	Description string `json:"description" toml:"description"`
	Default     bool   `json:"default" toml:"default"`
}

// Metadata maps module names to their entries.
type Metadata map[string]Entry

// Lookup returns the entry for name. A missing entry means no description
// and not selected by default.
func (m Metadata) Lookup(name string) (Entry, bool) {
	e, ok := m[name]
	return e, ok
}

// Defaults returns the names of default-selected modules, sorted.
func (m Metadata) Defaults() []string {
	var names []string
	for name, e := range m {
		if e.Default {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

type tomlFile struct {
	Modules map[string]Entry `toml:"modules"`
}

// Parse decodes metadata in the given format.
func Parse(data []byte, format string) (Metadata, error) {
	switch format {
	case FormatJSON, "":
		var m Metadata
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("parse metadata json: %w", err)
		}
		if m == nil {
			m = Metadata{}
		}
		return m, nil
	case FormatTOML:
		var f tomlFile
		if _, err := toml.Decode(string(data), &f); err != nil {
			return nil, fmt.Errorf("parse metadata toml: %w", err)
		}
		if f.Modules == nil {
			return Metadata{}, nil
		}
		return Metadata(f.Modules), nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported metadata format %q", format)
	}
}

// FormatOf infers the format from a source's extension.
func FormatOf(source string) string {
	s := source
	if i := strings.IndexAny(s, "?#"); i >= 0 && isURL(s) {
		s = s[:i]
	}
	if strings.EqualFold(path.Ext(s), ".toml") {
		return FormatTOML
	}
	return FormatJSON
}

// Default returns the bundled Zepto metadata.
func Default() Metadata {
	m, err := Parse(defaultModules, FormatJSON)
	if err != nil {
		panic("metadata: bundled modules.json is invalid: " + err.Error())
	}
	return m
}

// Store loads metadata from one source.
type Store struct {
	source string
	client *integrations.Client
	logger *log.Logger
}

// NewStore creates a store reading source. A nil logger uses log.Default().
func NewStore(source string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		source: source,
		client: integrations.NewClient(nil, nil),
		logger: logger,
	}
}

// Source returns the configured source, or "embedded" for the bundled file.
func (s *Store) Source() string {
	if s.source == "" {
		return "embedded"
	}
	return s.source
}

// Load returns the metadata mapping. Any failure is logged at warn level and
// yields an empty mapping.
func (s *Store) Load(ctx context.Context) Metadata {
	m, err := s.LoadStrict(ctx)
	if err != nil {
		s.logger.Warn("module metadata unavailable", "source", s.Source(), "error", err)
		return Metadata{}
	}
	return m
}

// LoadStrict is [Store.Load] but returns the failure.
func (s *Store) LoadStrict(ctx context.Context) (Metadata, error) {
	data, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data, FormatOf(s.source))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "metadata %s", s.Source())
	}
	s.logger.Debug("loaded module metadata", "source", s.Source(), "modules", len(m))
	return m, nil
}

func (s *Store) read(ctx context.Context) ([]byte, error) {
	switch {
	case s.source == "":
		return defaultModules, nil
	case isURL(s.source):
		var text string
		err := httputil.RetryWithBackoff(ctx, func() error {
			var err error
			text, err = s.client.GetText(ctx, s.source, nil)
			return err
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFetchFailed, err, "fetch metadata %s", s.source)
		}
		return []byte(text), nil
	default:
		data, err := os.ReadFile(s.source)
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeMetadataNotFound, err, "metadata file %s", s.source)
		}
		if err != nil {
			return nil, fmt.Errorf("read metadata %s: %w", s.source, err)
		}
		return data, nil
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
