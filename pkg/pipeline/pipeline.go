// Package pipeline runs the fetch → select → generate flow shared by the CLI
// and the HTTP API.
//
// # Stages
//
//  1. Fetch: list the library's modules (memoized by the catalog)
//  2. Select: resolve the requested names, the defaults or every module
//     into a selection in catalog order
//  3. Generate: concatenate, optionally minify, and publish the bundle
//
// An empty selection ends the run after stage 2 without generating anything.
//
// # Usage
//
//	runner := pipeline.NewRunner(cat, assembler, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Defaults: true,
//	    Modules:  []string{"ajax.js"},
//	    Bundle:   bundle.Options{Minify: true},
//	})
//	if err != nil {
//	    return err
//	}
//	if res.Bundle == nil {
//	    // nothing selected
//	}
package pipeline

import (
	"time"

	"github.com/matzehuels/zbuilder/pkg/bundle"
	"github.com/matzehuels/zbuilder/pkg/catalog"
	"github.com/matzehuels/zbuilder/pkg/errors"
)

// Options select the modules of one run and how to build them.
type Options struct {
	Modules  []string // explicit module names
	Defaults bool     // add the default-included modules
	All      bool     // add every module
	Bundle   bundle.Options
}

// Validate checks the explicit module names.
func (o Options) Validate() error {
	for _, name := range o.Modules {
		if err := errors.ValidateModuleName(name); err != nil {
			return err
		}
	}
	return nil
}

// Stats records stage timings.
type Stats struct {
	FetchTime    time.Duration
	GenerateTime time.Duration
	ModuleCount  int
	Selected     int
}

// Result is the outcome of a run. Bundle is nil when nothing was selected.
type Result struct {
	Bundle   *bundle.Result
	Modules  []catalog.Module
	Selected []string
	Stats    Stats
}
