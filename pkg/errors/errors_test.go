package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"no cause", New(ErrCodeUnknownModule, "unknown module %q", "touch.js"), `UNKNOWN_MODULE: unknown module "touch.js"`},
		{"with cause", Wrap(ErrCodeFetchFailed, errors.New("timeout"), "list %s", "src"), "FETCH_FAILED: list src: timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrap_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(ErrCodeNetwork, cause, "fetch event.js")

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}

	var e *Error
	if !As(fmt.Errorf("generate: %w", err), &e) || e.Code != ErrCodeNetwork {
		t.Errorf("As through fmt wrapping = %v", e)
	}
}

func TestIsAndGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
	}{
		{"direct", New(ErrCodeMinifyParse, "parse"), ErrCodeMinifyParse},
		{"outermost wins", Wrap(ErrCodeUnknownModule, New(ErrCodeInvalidModule, "inner"), "outer"), ErrCodeUnknownModule},
		{"through fmt", fmt.Errorf("build: %w", New(ErrCodeEmptySelection, "empty")), ErrCodeEmptySelection},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if Is(tt.err, ErrCodeInternal) {
				t.Error("Is(INTERNAL_ERROR) = true")
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", New(ErrCodeEmptySelection, "select at least one module"), "select at least one module"},
		{"plain", errors.New("plain error"), "plain error"},
		{"nested", Wrap(ErrCodeMinifyParse, errors.New(`unexpected "}"`), "minify event.js"), `minify event.js: unexpected "}"`},
		{"two levels", Wrap(ErrCodeFetchFailed, New(ErrCodeNotFound, "src missing"), "list modules"), "list modules: src missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimitedError(t *testing.T) {
	if got := (&RateLimitedError{RetryAfter: 60}).Error(); got != "rate limited: retry after 60 seconds" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&RateLimitedError{}).Error(); got != "rate limited" {
		t.Errorf("Error() = %q", got)
	}
	if (&RateLimitedError{}).Code() != ErrCodeRateLimited {
		t.Error("Code() != RATE_LIMITED")
	}
}
