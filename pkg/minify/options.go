package minify

import "github.com/charmbracelet/log"

// CompressOptions tune the compression pass.
type CompressOptions struct {
	DropConsole  bool     // remove console.* calls
	DropDebugger bool     // remove debugger statements
	PureFuncs    []string // calls to these functions are removed when unused
	DropLabels   []string // remove statements with these labels
}

// MangleOptions tune identifier renaming.
type MangleOptions struct {
	KeepNames bool   // preserve Function.prototype.name and Class.name
	Props     string // regular expression of property names to mangle; empty leaves properties alone
	Reserved  string // regular expression of property names never mangled
}

type options struct {
	warnings bool
	compress *CompressOptions
	mangle   *MangleOptions
	beautify bool
	logger   *log.Logger
}

func defaults() options {
	return options{
		compress: &CompressOptions{},
		mangle:   &MangleOptions{},
	}
}

// Option overrides a default. Defaults: warnings off, compress and mangle on
// with empty sub-options.
type Option func(*options)

// WithoutCompress disables the compression pass.
func WithoutCompress() Option {
	return func(o *options) { o.compress = nil }
}

// WithoutMangle disables identifier renaming.
func WithoutMangle() Option {
	return func(o *options) { o.mangle = nil }
}

// WithCompress enables compression with c.
func WithCompress(c CompressOptions) Option {
	return func(o *options) { o.compress = &c }
}

// WithMangle enables renaming with m.
func WithMangle(m MangleOptions) Option {
	return func(o *options) { o.mangle = &m }
}

// WithWarnings reports engine warnings to the logger.
func WithWarnings(on bool) Option {
	return func(o *options) { o.warnings = on }
}

// WithBeautify prints readable output instead of a single compact line.
func WithBeautify(on bool) Option {
	return func(o *options) { o.beautify = on }
}

// WithLogger sets the logger used for warnings.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}
