package metadata

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/zbuilder/pkg/errors"
)

const sampleJSON = `{
	"zepto.js": {"description": "Core module", "default": true},
	"fx.js": {"description": "The animate() method", "default": false}
}`

const sampleTOML = `
[modules."zepto.js"]
description = "Core module"
default = true

[modules."fx.js"]
description = "The animate() method"
`

func quietLogger() *log.Logger { return log.New(io.Discard) }

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format string
	}{
		{"json", sampleJSON, FormatJSON},
		{"toml", sampleTOML, FormatTOML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if e, ok := m.Lookup("zepto.js"); !ok || !e.Default || e.Description != "Core module" {
				t.Errorf("zepto.js = %+v, %v", e, ok)
			}
			if e, ok := m.Lookup("fx.js"); !ok || e.Default {
				t.Errorf("fx.js = %+v, %v", e, ok)
			}
			if _, ok := m.Lookup("touch.js"); ok {
				t.Error("unexpected entry for touch.js")
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := Parse([]byte("{"), FormatJSON); err == nil {
		t.Error("invalid json parsed")
	}
	if _, err := Parse([]byte("[modules"), FormatTOML); err == nil {
		t.Error("invalid toml parsed")
	}
	if _, err := Parse([]byte("a: b"), "yaml"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("yaml error = %v, want UNSUPPORTED", err)
	}
}

func TestFormatOf(t *testing.T) {
	tests := map[string]string{
		"":                                   FormatJSON,
		"modules.json":                       FormatJSON,
		"conf/modules.TOML":                  FormatTOML,
		"https://example.com/m.toml?rev=2":   FormatTOML,
		"https://example.com/modules.json#x": FormatJSON,
	}
	for in, want := range tests {
		if got := FormatOf(in); got != want {
			t.Errorf("FormatOf(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestDefault(t *testing.T) {
	m := Default()
	want := []string{"ajax.js", "event.js", "form.js", "ie.js", "zepto.js"}
	if got := m.Defaults(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Defaults() = %v, want %v", got, want)
	}
	for _, name := range []string{"fx.js", "touch.js", "deferred.js", "callbacks.js"} {
		e, ok := m.Lookup(name)
		if !ok || e.Description == "" {
			t.Errorf("%s missing description", name)
		}
	}
}

func TestStore_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "modules.toml")
	if err := os.WriteFile(path, []byte(sampleTOML), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewStore(path, quietLogger()).Load(context.Background())
	if len(m) != 2 {
		t.Errorf("loaded %d entries, want 2", len(m))
	}
}

func TestStore_LoadURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleJSON))
	}))
	defer server.Close()

	m, err := NewStore(server.URL+"/modules.json", quietLogger()).LoadStrict(context.Background())
	if err != nil {
		t.Fatalf("LoadStrict: %v", err)
	}
	if _, ok := m.Lookup("zepto.js"); !ok {
		t.Error("zepto.js missing")
	}
}

func TestStore_LoadFailureIsEmptyAndLogged(t *testing.T) {
	var buf bytes.Buffer
	store := NewStore(filepath.Join(t.TempDir(), "missing.json"), log.New(&buf))

	m := store.Load(context.Background())
	if m == nil || len(m) != 0 {
		t.Errorf("Load() = %v, want empty non-nil mapping", m)
	}
	if !strings.Contains(buf.String(), "module metadata unavailable") {
		t.Errorf("failure not logged: %q", buf.String())
	}

	_, err := store.LoadStrict(context.Background())
	if !errors.Is(err, errors.ErrCodeMetadataNotFound) {
		t.Errorf("LoadStrict error = %v, want METADATA_NOT_FOUND", err)
	}
}

func TestStore_LoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modules.json")
	os.WriteFile(path, []byte(`{"zepto.js": `), 0o644)

	if m := NewStore(path, quietLogger()).Load(context.Background()); len(m) != 0 {
		t.Errorf("malformed metadata produced %d entries", len(m))
	}
}

func TestStore_Embedded(t *testing.T) {
	s := NewStore("", quietLogger())
	if s.Source() != "embedded" {
		t.Errorf("Source() = %q", s.Source())
	}
	if len(s.Load(context.Background())) != len(Default()) {
		t.Error("embedded store differs from Default()")
	}
}
