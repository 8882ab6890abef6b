// Package bundle assembles a custom library build from selected modules.
//
// The assembler concatenates module sources in catalog order, optionally
// minifies the result, and publishes the final text to obtain a download
// reference.
package bundle

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/zbuilder/pkg/blob"
	"github.com/matzehuels/zbuilder/pkg/catalog"
	"github.com/matzehuels/zbuilder/pkg/errors"
	"github.com/matzehuels/zbuilder/pkg/minify"
	"github.com/matzehuels/zbuilder/pkg/observability"
)

// MinifyFunc minifies a list of sources into one program.
type MinifyFunc func(sources []string, opts ...minify.Option) (string, error)

// Options control one generate call.
type Options struct {
	Minify        bool
	MinifyOptions []minify.Option
}

// Result is a generated bundle.
type Result struct {
	Combined       string
	Minified       string
	Minify         bool
	SavingsPercent float64
	DownloadRef    string
	Modules        []string // names in catalog order
	Filename       string
}

// Output returns the minified text when present, otherwise the combined text.
func (r *Result) Output() string {
	if r.Minify {
		return r.Minified
	}
	return r.Combined
}

// SavingsText formats the size reduction, e.g. "You saved: 63.41%".
func (r *Result) SavingsText() string {
	return fmt.Sprintf("You saved: %.2f%%", r.SavingsPercent)
}

// Savings returns the percentage by which minified is shorter than original,
// rounded to two decimals. Lengths count characters. An empty original
// yields 0.
func Savings(original, minified string) float64 {
	orig := utf8.RuneCountInString(original)
	if orig == 0 {
		return 0
	}
	p := (1 - float64(utf8.RuneCountInString(minified))/float64(orig)) * 100
	return math.Round(p*100) / 100
}

// Assembler builds bundles. It holds no per-request state and is safe for
// concurrent use.
type Assembler struct {
	publisher blob.Publisher
	minify    MinifyFunc
	product   string
	logger    *log.Logger
}

// New creates an assembler publishing through p. Bundles are named after
// product (product.js or product.min.js).
func New(p blob.Publisher, product string, logger *log.Logger) *Assembler {
	if p == nil {
		p = blob.DataURL{}
	}
	if logger == nil {
		logger = log.Default()
	}
	if product == "" {
		product = "bundle"
	}
	return &Assembler{publisher: p, minify: minify.Minify, product: product, logger: logger}
}

// WithMinifier replaces the minification function.
func (a *Assembler) WithMinifier(fn MinifyFunc) *Assembler {
	b := *a
	b.minify = fn
	return &b
}

// Generate builds a bundle from the modules named in selected. It returns
// nil, nil when selected is empty. Names not in modules are rejected with
// UNKNOWN_MODULE. A minifier error is returned and nothing is published.
func (a *Assembler) Generate(ctx context.Context, modules []catalog.Module, selected []string, opts Options) (*Result, error) {
	if len(selected) == 0 {
		return nil, nil
	}

	picked, err := pick(modules, selected)
	if err != nil {
		return nil, err
	}

	hooks := observability.Build()
	hooks.OnGenerateStart(ctx, len(picked), opts.Minify)
	start := time.Now()

	res, err := a.generate(ctx, picked, opts)

	outLen := 0
	inLen := 0
	if res != nil {
		inLen, outLen = len(res.Combined), len(res.Output())
	}
	hooks.OnGenerateComplete(ctx, len(picked), inLen, outLen, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("generated bundle", "modules", len(picked), "minify", opts.Minify, "bytes", outLen)
	return res, nil
}

func (a *Assembler) generate(ctx context.Context, picked []catalog.Module, opts Options) (*Result, error) {
	sources := make([]string, len(picked))
	names := make([]string, len(picked))
	for i, m := range picked {
		sources[i] = m.Content
		names[i] = m.Name
	}

	res := &Result{
		Combined: strings.Join(sources, ""),
		Minify:   opts.Minify,
		Modules:  names,
		Filename: a.product + ".js",
	}

	if opts.Minify {
		mopts := append([]minify.Option{minify.WithLogger(a.logger)}, opts.MinifyOptions...)
		out, err := a.minify(sources, mopts...)
		if err != nil {
			var pe *minify.ParseError
			if errors.As(err, &pe) && pe.Index >= 0 && pe.Index < len(names) {
				return nil, errors.Wrap(errors.ErrCodeMinifyParse, err, "minify %s", names[pe.Index])
			}
			return nil, errors.Wrap(errors.ErrCodeMinifyParse, err, "minify bundle")
		}
		res.Minified = out
		res.SavingsPercent = Savings(res.Combined, out)
		res.Filename = a.product + ".min.js"
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ref, err := a.publisher.Publish(ctx, res.Filename, []byte(res.Output()))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePublishFailed, err, "publish %s", res.Filename)
	}
	res.DownloadRef = ref
	return res, nil
}

// pick returns the catalog entries named in selected, in catalog order.
func pick(modules []catalog.Module, selected []string) ([]catalog.Module, error) {
	want := make(map[string]bool, len(selected))
	for _, n := range selected {
		want[n] = true
	}
	picked := make([]catalog.Module, 0, len(selected))
	for _, m := range modules {
		if want[m.Name] {
			picked = append(picked, m)
			delete(want, m.Name)
		}
	}
	for _, n := range selected {
		if want[n] {
			return nil, errors.New(errors.ErrCodeUnknownModule, "unknown module: %s", n)
		}
	}
	return picked, nil
}
