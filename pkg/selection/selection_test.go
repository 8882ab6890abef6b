package selection

import (
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/zbuilder/pkg/catalog"
)

var names = []string{"zepto.js", "event.js", "ajax.js", "fx.js"}

func TestToggle(t *testing.T) {
	var events []bool
	s := New(names, func(enabled bool) { events = append(events, enabled) })

	if !s.IsEmpty() || s.GenerateEnabled() {
		t.Fatal("new set should be empty with generate disabled")
	}

	s.Toggle("fx.js")
	s.Toggle("zepto.js")
	if got := strings.Join(s.Names(), ","); got != "zepto.js,fx.js" {
		t.Errorf("Names = %s, want catalog order", got)
	}

	s.Toggle("zepto.js")
	s.Toggle("fx.js")
	if !s.IsEmpty() {
		t.Error("set not empty after toggling everything off")
	}

	want := []bool{true, false}
	if len(events) != len(want) || events[0] != want[0] || events[1] != want[1] {
		t.Errorf("onChange events = %v, want %v", events, want)
	}
}

func TestToggle_UnknownModule(t *testing.T) {
	called := false
	s := New(names, func(bool) { called = true })

	err := s.Toggle("jquery.js")
	if !errors.Is(err, ErrUnknownModule) {
		t.Errorf("Toggle(unknown) = %v, want ErrUnknownModule", err)
	}
	if !s.IsEmpty() || called {
		t.Error("unknown toggle mutated state")
	}
}

func TestSelect_PartialUnknown(t *testing.T) {
	s := New(names, nil)
	err := s.Select("zepto.js", "nope.js")
	if !errors.Is(err, ErrUnknownModule) {
		t.Fatalf("Select = %v", err)
	}
	if !s.Has("zepto.js") {
		t.Error("known names before the unknown one should stay selected")
	}
	for _, n := range s.Names() {
		if !s.Known(n) {
			t.Errorf("selection contains non-catalog name %s", n)
		}
	}
}

func TestClearNotifies(t *testing.T) {
	var last *bool
	s := New(names, func(e bool) { last = &e })
	s.Select("ajax.js", "event.js")
	s.Clear()
	if last == nil || *last {
		t.Error("Clear should report generate disabled")
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d", s.Len())
	}
}

func TestFromCatalog(t *testing.T) {
	modules := []catalog.Module{
		{Name: "zepto.js", IncludedByDefault: true},
		{Name: "fx.js"},
		{Name: "event.js", IncludedByDefault: true},
	}
	s := FromCatalog(modules, nil)
	if got := strings.Join(s.Names(), ","); got != "zepto.js,event.js" {
		t.Errorf("Names = %s", got)
	}
	if got := strings.Join(s.Catalog(), ","); got != "zepto.js,fx.js,event.js" {
		t.Errorf("Catalog = %s", got)
	}

	if _, err := FromNames(modules, []string{"touch.js"}); !errors.Is(err, ErrUnknownModule) {
		t.Errorf("FromNames(unknown) = %v", err)
	}
	s2, err := FromNames(modules, []string{"fx.js"})
	if err != nil || !s2.Has("fx.js") {
		t.Errorf("FromNames = %v, %v", s2, err)
	}
}
