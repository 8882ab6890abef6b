// Package minify compresses JavaScript sources into one minified program.
//
// The sources are parsed one by one so syntax errors name the offending
// source, then combined into a single top-level scope and run through the
// esbuild transform: syntax compression, identifier mangling and compact
// printing, each of which can be turned off.
//
//	out, err := minify.Minify([]string{zepto, event, ajax})
//	out, err := minify.Minify(srcs, minify.WithoutMangle(), minify.WithBeautify(true))
package minify

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/evanw/esbuild/pkg/api"

	"github.com/matzehuels/zbuilder/pkg/errors"
)

// separator joins sources. The empty statement keeps a source that ends
// without a semicolon from running into the next one.
const separator = "\n;\n"

// ParseError reports a syntax error in one of the input sources.
type ParseError struct {
	Index    int // position of the source in the input slice, -1 for the combined program
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Message  string
	LineText string
}

func (e *ParseError) Error() string {
	where := fmt.Sprintf("source %d", e.Index)
	if e.Index < 0 {
		where = "combined"
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", where, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", where, e.Message)
}

// Minify parses every source, combines them and returns the minified program.
// A syntax error is returned as a *ParseError wrapped with
// errors.ErrCodeMinifyParse and no output is produced.
func Minify(sources []string, opts ...Option) (string, error) {
	o := defaults()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Default()
	}
	if len(sources) == 0 {
		return "", nil
	}

	for i, src := range sources {
		if err := check(i, src); err != nil {
			return "", errors.Wrap(errors.ErrCodeMinifyParse, err, "minify %d sources", len(sources))
		}
	}

	result := api.Transform(strings.Join(sources, separator), transformOptions(o))
	if o.warnings {
		for _, w := range result.Warnings {
			o.logger.Warn("minify", "warning", formatMessage(w))
		}
	}
	if len(result.Errors) > 0 {
		// Individually valid sources can still clash once combined,
		// e.g. two top-level let declarations of the same name.
		msg := result.Errors[0]
		err := &ParseError{Index: -1, Message: msg.Text}
		if msg.Location != nil {
			err.Line, err.Column, err.LineText = msg.Location.Line, msg.Location.Column, msg.Location.LineText
		}
		return "", errors.Wrap(errors.ErrCodeMinifyParse, err, "minify %d sources", len(sources))
	}
	return string(result.Code), nil
}

// MinifyString minifies a single source.
func MinifyString(src string, opts ...Option) (string, error) {
	return Minify([]string{src}, opts...)
}

// check parses src without transforming it.
func check(index int, src string) error {
	result := api.Transform(src, api.TransformOptions{
		Loader:     api.LoaderJS,
		Sourcefile: fmt.Sprintf("source-%d.js", index),
		LogLevel:   api.LogLevelSilent,
	})
	if len(result.Errors) == 0 {
		return nil
	}
	msg := result.Errors[0]
	err := &ParseError{Index: index, Message: msg.Text}
	if msg.Location != nil {
		err.Line = msg.Location.Line
		err.Column = msg.Location.Column
		err.LineText = msg.Location.LineText
	}
	return err
}

func transformOptions(o options) api.TransformOptions {
	t := api.TransformOptions{
		Loader:           api.LoaderJS,
		Sourcefile:       "bundle.js",
		LogLevel:         api.LogLevelSilent,
		Charset:          api.CharsetUTF8,
		LegalComments:    api.LegalCommentsNone,
		MinifyWhitespace: !o.beautify,
	}
	if c := o.compress; c != nil {
		t.MinifySyntax = true
		if c.DropConsole {
			t.Drop |= api.DropConsole
		}
		if c.DropDebugger {
			t.Drop |= api.DropDebugger
		}
		t.Pure = c.PureFuncs
		t.DropLabels = c.DropLabels
	}
	if m := o.mangle; m != nil {
		t.MinifyIdentifiers = true
		t.KeepNames = m.KeepNames
		t.MangleProps = m.Props
		t.ReserveProps = m.Reserved
	}
	return t
}

func formatMessage(m api.Message) string {
	if m.Location == nil {
		return m.Text
	}
	return fmt.Sprintf("%d:%d: %s", m.Location.Line, m.Location.Column, m.Text)
}
