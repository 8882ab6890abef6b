package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	b := NoopBuildHooks{}
	b.OnFetchStart(ctx, "madrobby/zepto")
	b.OnFetchComplete(ctx, "madrobby/zepto", 18, time.Second, nil)
	b.OnGenerateStart(ctx, 5, true)
	b.OnGenerateComplete(ctx, 5, 1000, 400, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "modules")
	c.OnCacheMiss(ctx, "version")
	c.OnCacheSet(ctx, "modules", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "api.github.com", "/repos/madrobby/zepto/contents/src")
	h.OnResponse(ctx, "GET", "api.github.com", "/repos/madrobby/zepto/contents/src", 200, time.Second)
	h.OnError(ctx, "GET", "api.github.com", "/repos/madrobby/zepto/contents/src", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Build().(NoopBuildHooks); !ok {
		t.Error("Build() should return NoopBuildHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	custom := &testBuildHooks{}
	SetBuildHooks(custom)
	if Build() != custom {
		t.Error("SetBuildHooks should set custom hooks")
	}

	SetBuildHooks(nil)
	if Build() != custom {
		t.Error("SetBuildHooks(nil) should be ignored")
	}

	Reset()
	if _, ok := Build().(NoopBuildHooks); !ok {
		t.Error("Reset() should restore NoopBuildHooks")
	}
}

func TestLogHooks_Install(t *testing.T) {
	defer Reset()

	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)

	NewLogHooks(logger).Install()
	ctx := context.Background()
	Build().OnGenerateComplete(ctx, 3, 100, 40, time.Millisecond, nil)
	Build().OnFetchComplete(ctx, "madrobby/zepto", 0, time.Millisecond, errors.New("boom"))
	Cache().OnCacheHit(ctx, "modules")
	HTTP().OnResponse(ctx, "GET", "api.github.com", "/", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"generate complete", "fetch failed", "boom", "cache hit", "http response"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type testBuildHooks struct{ NoopBuildHooks }
