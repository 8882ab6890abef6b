package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/zbuilder/pkg/bundle"
)

func TestWriteBundle(t *testing.T) {
	res := &bundle.Result{Combined: "var a = 1;", Minified: "var a=1;", Minify: true, Filename: "zepto.min.js"}

	tests := []struct {
		name   string
		output func(dir string) string
		want   func(dir string) string
	}{
		{"file", func(d string) string { return filepath.Join(d, "custom.js") }, func(d string) string { return filepath.Join(d, "custom.js") }},
		{"existing dir", func(d string) string { return d }, func(d string) string { return filepath.Join(d, "zepto.min.js") }},
		{"new dir", func(d string) string { return filepath.Join(d, "dist") + "/" }, func(d string) string { return filepath.Join(d, "dist", "zepto.min.js") }},
		{"nested file", func(d string) string { return filepath.Join(d, "a", "b", "z.js") }, func(d string) string { return filepath.Join(d, "a", "b", "z.js") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path, err := writeBundle(tt.output(dir), res)
			if err != nil {
				t.Fatalf("writeBundle: %v", err)
			}
			if path != tt.want(dir) {
				t.Errorf("path = %q, want %q", path, tt.want(dir))
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != "var a=1;" {
				t.Errorf("wrote %q, want minified output", data)
			}
		})
	}
}

func TestBuildFlagsOptions(t *testing.T) {
	f := buildFlags{minify: true, dropConsole: true, keepNames: true}
	opts := f.options()
	if !opts.Minify {
		t.Error("minify flag lost")
	}
	// beautify and warnings are always passed, plus compress and mangle overrides
	if len(opts.MinifyOptions) != 4 {
		t.Errorf("got %d minify options, want 4", len(opts.MinifyOptions))
	}

	f = buildFlags{noCompress: true, noMangle: true}
	if opts := f.options(); opts.Minify || len(opts.MinifyOptions) != 4 {
		t.Errorf("options = %+v", opts)
	}

	if opts := (&buildFlags{}).options(); len(opts.MinifyOptions) != 2 {
		t.Errorf("default options = %d, want 2", len(opts.MinifyOptions))
	}
}

func TestRootCommand(t *testing.T) {
	c := New(&strings.Builder{}, LogInfo)
	root := c.RootCommand()

	want := []string{"modules", "build", "select", "serve", "version", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"config", "refresh"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
	build, _, _ := root.Find([]string{"build"})
	for _, flag := range []string{"minify", "output", "defaults", "all", "drop-console"} {
		if build.Flags().Lookup(flag) == nil {
			t.Errorf("build is missing --%s", flag)
		}
	}
}

func TestVersionCommandLocal(t *testing.T) {
	c := New(&strings.Builder{}, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
}
