package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/zbuilder/pkg/bundle"
	"github.com/matzehuels/zbuilder/pkg/catalog"
	"github.com/matzehuels/zbuilder/pkg/errors"
	"github.com/matzehuels/zbuilder/pkg/selection"
)

// Runner executes the pipeline. It holds no per-run state; multiple
// goroutines may share one Runner.
type Runner struct {
	Catalog   *catalog.Catalog
	Assembler *bundle.Assembler
	Logger    *log.Logger
}

// NewRunner creates a runner. A nil logger uses log.Default().
func NewRunner(cat *catalog.Catalog, asm *bundle.Assembler, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Catalog: cat, Assembler: asm, Logger: logger}
}

// Execute runs all stages. Generation runs on its own goroutine and is
// abandoned when ctx is cancelled.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	fetchStart := time.Now()
	modules, err := r.Catalog.Modules(ctx)
	if err != nil {
		return nil, err
	}
	res := &Result{Modules: modules}
	res.Stats.FetchTime = time.Since(fetchStart)
	res.Stats.ModuleCount = len(modules)

	names, err := Select(modules, opts)
	if err != nil {
		return nil, err
	}
	res.Selected = names
	res.Stats.Selected = len(names)
	if len(names) == 0 {
		r.Logger.Debug("nothing selected")
		return res, nil
	}

	genStart := time.Now()
	job := r.Assembler.GenerateAsync(ctx, modules, names, opts.Bundle)
	out, err := job.Wait(ctx)
	if err != nil {
		return nil, err
	}
	res.Bundle = out
	res.Stats.GenerateTime = time.Since(genStart)

	r.Logger.Debug("generated bundle",
		"modules", len(names),
		"minify", opts.Bundle.Minify,
		"duration", res.Stats.GenerateTime)
	return res, nil
}

// Select resolves opts into module names in catalog order. Unknown names are
// rejected with UNKNOWN_MODULE.
func Select(modules []catalog.Module, opts Options) ([]string, error) {
	sel, err := selection.FromNames(modules, opts.Modules)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnknownModule, err, "select modules")
	}
	switch {
	case opts.All:
		_ = sel.Select(catalog.Names(modules)...)
	case opts.Defaults:
		_ = sel.Select(catalog.Defaults(modules)...)
	}
	return sel.Names(), nil
}
