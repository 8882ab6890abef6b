package minify

import (
	"errors"
	"strings"
	"testing"

	zerrors "github.com/matzehuels/zbuilder/pkg/errors"
)

const localVars = `function double(value) {
	var intermediateResult = value * 2;
	return intermediateResult;
}
window.double = double;
`

func TestMinify_Defaults(t *testing.T) {
	out, err := MinifyString(localVars)
	if err != nil {
		t.Fatalf("Minify: %v", err)
	}
	if out == "" || len(out) >= len(localVars) {
		t.Errorf("output not smaller: %q", out)
	}
	if strings.Contains(out, "intermediateResult") {
		t.Errorf("local identifier survived mangling: %q", out)
	}
	if !strings.Contains(out, "double") {
		t.Errorf("top-level name was renamed: %q", out)
	}
}

func TestMinify_NoCompressNoMangleKeepsIdentifiers(t *testing.T) {
	out, err := MinifyString(localVars, WithoutCompress(), WithoutMangle())
	if err != nil {
		t.Fatalf("Minify: %v", err)
	}
	if !strings.Contains(out, "intermediateResult") {
		t.Errorf("identifier renamed with mangling off: %q", out)
	}
	if strings.Contains(out, "\n\t") {
		t.Errorf("output not compact: %q", out)
	}
}

func TestMinify_CombinedScope(t *testing.T) {
	sources := []string{
		"function helper(x) { return x * 2 }",
		"window.answer = helper(21)",
	}
	out, err := Minify(sources)
	if err != nil {
		t.Fatalf("Minify: %v", err)
	}
	if strings.Count(out, "helper") < 2 {
		t.Errorf("cross-source reference broken: %q", out)
	}
}

func TestMinify_EqualsMinifyOfJoinedSource(t *testing.T) {
	a := "function helper(x) { return x * 2 }"
	b := "window.answer = helper(21)"

	combined, err := Minify([]string{a, b})
	if err != nil {
		t.Fatalf("Minify: %v", err)
	}
	joined, err := MinifyString(a + "\n" + b)
	if err != nil {
		t.Fatalf("MinifyString: %v", err)
	}
	if combined != joined {
		t.Errorf("Minify([a, b]) = %q, MinifyString(a+\"\\n\"+b) = %q", combined, joined)
	}
}

func TestMinify_SourcesDoNotRunTogether(t *testing.T) {
	sources := []string{
		"var a = 1",
		"(function(){ window.x = a })()",
	}
	out, err := Minify(sources, WithoutMangle())
	if err != nil {
		t.Fatalf("Minify: %v", err)
	}
	if strings.Contains(out, "1(") {
		t.Errorf("first source was called as a function: %q", out)
	}
}

func TestMinify_ParseError(t *testing.T) {
	sources := []string{"var ok = 1;", "function ( {"}
	out, err := Minify(sources)
	if err == nil {
		t.Fatal("Minify accepted invalid source")
	}
	if out != "" {
		t.Errorf("partial output on error: %q", out)
	}
	if !zerrors.Is(err, zerrors.ErrCodeMinifyParse) {
		t.Errorf("error code = %s, want MINIFY_PARSE_ERROR", zerrors.GetCode(err))
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error %v is not a *ParseError", err)
	}
	if pe.Index != 1 {
		t.Errorf("Index = %d, want 1", pe.Index)
	}
	if pe.Line != 1 {
		t.Errorf("Line = %d, want 1", pe.Line)
	}
	if !strings.HasPrefix(pe.Error(), "source 1:") {
		t.Errorf("Error() = %q", pe.Error())
	}
}

func TestMinify_CompressOptions(t *testing.T) {
	src := "console.log('debug'); debugger; window.y = 1;"

	out, err := MinifyString(src, WithCompress(CompressOptions{DropConsole: true, DropDebugger: true}))
	if err != nil {
		t.Fatalf("Minify: %v", err)
	}
	if strings.Contains(out, "console") || strings.Contains(out, "debugger") {
		t.Errorf("drop options ignored: %q", out)
	}

	kept, _ := MinifyString(src)
	if !strings.Contains(kept, "console") {
		t.Errorf("console dropped without DropConsole: %q", kept)
	}
}

func TestMinify_MangleProps(t *testing.T) {
	src := "window.obj = { secret_: 1 }; window.v = window.obj.secret_;"
	out, err := MinifyString(src, WithMangle(MangleOptions{Props: "_$"}))
	if err != nil {
		t.Fatalf("Minify: %v", err)
	}
	if strings.Contains(out, "secret_") {
		t.Errorf("property not mangled: %q", out)
	}
}

func TestMinify_Beautify(t *testing.T) {
	out, err := MinifyString("function f(){return 1}window.f=f", WithBeautify(true))
	if err != nil {
		t.Fatalf("Minify: %v", err)
	}
	if !strings.Contains(out, "\n") {
		t.Errorf("beautified output on one line: %q", out)
	}
}

func TestMinify_Empty(t *testing.T) {
	out, err := Minify(nil)
	if err != nil || out != "" {
		t.Errorf("Minify(nil) = %q, %v", out, err)
	}
}

func TestMinify_DoesNotMutateInput(t *testing.T) {
	sources := []string{localVars, "window.z = 3"}
	before := append([]string(nil), sources...)
	Minify(sources)
	for i := range sources {
		if sources[i] != before[i] {
			t.Errorf("source %d changed", i)
		}
	}
}

func TestMinify_CombinedParseError(t *testing.T) {
	tests := []struct {
		name    string
		sources []string
	}{
		{"strict mode from first source", []string{`"use strict"; var o = {};`, "with (o) { x = 1 }"}},
		{"duplicate let", []string{"let shared = 1", "let shared = 2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Minify(tt.sources)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %v is not a *ParseError", err)
			}
			if pe.Index != -1 {
				t.Errorf("Index = %d, want -1", pe.Index)
			}
			if !strings.HasPrefix(pe.Error(), "combined") || strings.Contains(pe.Error(), "-1") {
				t.Errorf("Error() = %q", pe.Error())
			}
		})
	}
}

func TestParseError_Format(t *testing.T) {
	tests := []struct {
		err  *ParseError
		want string
	}{
		{&ParseError{Index: 2, Line: 3, Column: 4, Message: "Unexpected \"{\""}, `source 2:3:4: Unexpected "{"`},
		{&ParseError{Index: 0, Message: "bad"}, "source 0: bad"},
		{&ParseError{Index: -1, Line: 3, Message: "With statements cannot be used in strict mode"}, "combined:3:0: With statements cannot be used in strict mode"},
		{&ParseError{Index: -1, Message: "bad"}, "combined: bad"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
