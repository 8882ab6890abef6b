// Package pkg provides the libraries behind zbuilder, a builder for custom
// distributions of modular JavaScript libraries such as Zepto.
//
// # Overview
//
// A modular library keeps one source file per module in a repository
// directory. zbuilder lists that directory through the GitHub contents API,
// merges a static metadata file (descriptions and the default selection),
// lets a user pick modules, concatenates the picked sources in catalog order,
// optionally minifies the result and publishes it behind a download
// reference.
//
// # Architecture
//
//	GitHub contents API          metadata file (json/toml)
//	         ↓                             ↓
//	[integrations/github]            [metadata]
//	         └──────────→ [catalog] ←──────┘
//	                          ↓
//	                     [selection]
//	                          ↓
//	                [bundle] → [minify]
//	                          ↓
//	                        [blob]
//
// [pipeline] runs fetch, select and generate in one call and is shared by
// the CLI build command and the HTTP API in [server]. Per-user values (the
// library version and the rendered catalog fragment) live in a [session]
// store on top of a [cache] backend.
//
// # Quick Start
//
//	fetcher, _ := github.NewFetcher(github.DefaultConfig())
//	cat := catalog.New(fetcher, metadata.NewStore("", nil), catalog.Options{})
//	pub, _ := blob.Open(ctx, blob.Options{Backend: "data"})
//	runner := pipeline.NewRunner(cat, bundle.New(pub, "zepto", nil), nil)
//
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Defaults: true,
//	    Bundle:   bundle.Options{Minify: true},
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Bundle.SavingsText())
//
// # Main Packages
//
// [integrations] and [integrations/github] fetch the module listing, each
// module's source and the library version. Responses go through the
// [httputil] file cache and are retried with backoff.
//
// [metadata] loads module descriptions and default flags from a bundled
// file, a local path or a URL.
//
// [catalog] merges listing and metadata into modules, renders the catalog
// fragment through a row template and caches it per session.
//
// [selection] tracks the picked modules and whether generation is enabled.
//
// [bundle] concatenates the selection, drives [minify] (esbuild) and
// publishes the output through a [blob] publisher (data URL, file, MongoDB
// or S3).
//
// [config] loads settings from defaults, a TOML file, the environment and
// command-line flags.
//
// [errors] defines the error codes shared by the CLI and the HTTP API.
// [observability] exposes hooks for fetch, cache and generate events.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -tags integration ./pkg/...  # Include live GitHub, Redis, MongoDB and S3 tests
//
// [integrations]: https://pkg.go.dev/github.com/matzehuels/zbuilder/pkg/integrations
// [integrations/github]: https://pkg.go.dev/github.com/matzehuels/zbuilder/pkg/integrations/github
// [httputil]: https://pkg.go.dev/github.com/matzehuels/zbuilder/pkg/httputil
// [metadata]: https://pkg.go.dev/github.com/matzehuels/zbuilder/pkg/metadata
// [catalog]: https://pkg.go.dev/github.com/matzehuels/zbuilder/pkg/catalog
// [selection]: https://pkg.go.dev/github.com/matzehuels/zbuilder/pkg/selection
// [bundle]: https://pkg.go.dev/github.com/matzehuels/zbuilder/pkg/bundle
// [minify]: https://pkg.go.dev/github.com/matzehuels/zbuilder/pkg/minify
// [blob]: https://pkg.go.dev/github.com/matzehuels/zbuilder/pkg/blob
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/zbuilder/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/zbuilder/pkg/server
// [session]: https://pkg.go.dev/github.com/matzehuels/zbuilder/pkg/session
// [cache]: https://pkg.go.dev/github.com/matzehuels/zbuilder/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/zbuilder/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/zbuilder/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/zbuilder/pkg/observability
package pkg
