package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/zbuilder/pkg/blob"
	"github.com/matzehuels/zbuilder/pkg/bundle"
	"github.com/matzehuels/zbuilder/pkg/catalog"
	"github.com/matzehuels/zbuilder/pkg/minify"
)

var testModules = []catalog.Module{
	{Name: "zepto.js", Content: "var Zepto = {};\n", Description: "Core module", IncludedByDefault: true},
	{Name: "event.js", Content: "Zepto.on = function(){};\n", Description: "Events", IncludedByDefault: true},
	{Name: "fx.js", Content: "Zepto.fx = {};\n", Description: "Animations"},
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

type startRecorder struct {
	assembler *bundle.Assembler
	calls     [][]string
	minify    []bool
}

func (r *startRecorder) start(names []string, minify bool) *bundle.Job {
	r.calls = append(r.calls, names)
	r.minify = append(r.minify, minify)
	return r.assembler.GenerateAsync(context.Background(), testModules, names, bundle.Options{Minify: minify})
}

func newRecorder() *startRecorder {
	return &startRecorder{assembler: bundle.New(blob.DataURL{}, "zepto", log.New(io.Discard))}
}

// send applies msg and runs any returned command once, feeding its message back.
func send(t *testing.T, m *SelectorModel, msg tea.Msg) *SelectorModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(*SelectorModel)
	if cmd != nil {
		if out := cmd(); out != nil {
			if _, quit := out.(tea.QuitMsg); !quit {
				next, _ = m.Update(out)
				m = next.(*SelectorModel)
			}
		}
	}
	return m
}

func TestSelector_DefaultsPreselected(t *testing.T) {
	m := NewSelectorModel(testModules, "1.2.0", false, newRecorder().start)

	if got := strings.Join(m.Selected(), ","); got != "zepto.js,event.js" {
		t.Errorf("Selected() = %s", got)
	}
	if !m.enabled {
		t.Error("generate should be enabled with defaults selected")
	}
	view := m.View()
	for _, want := range []string{"v1.2.0", "zepto.js", "Core module", "2/3 selected"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSelector_GenerateDisabledWhenEmpty(t *testing.T) {
	rec := newRecorder()
	m := NewSelectorModel(testModules, "", false, rec.start)

	m = send(t, m, key("n"))
	if m.enabled || len(m.Selected()) != 0 {
		t.Fatal("clearing the selection should disable generate")
	}
	m = send(t, m, key("enter"))
	if len(rec.calls) != 0 || m.state != stateSelecting {
		t.Error("generate ran with an empty selection")
	}

	m = send(t, m, key("x"))
	if !m.enabled || strings.Join(m.Selected(), ",") != "zepto.js" {
		t.Errorf("toggle did not enable generate: %v", m.Selected())
	}
}

func TestSelector_ToggleAndOrder(t *testing.T) {
	m := NewSelectorModel(testModules, "", false, newRecorder().start)

	m = send(t, m, key("n"))
	m = send(t, m, key("down"))
	m = send(t, m, key("down"))
	m = send(t, m, key("x")) // fx.js
	m = send(t, m, key("up"))
	m = send(t, m, key("up"))
	m = send(t, m, key("x")) // zepto.js

	if got := strings.Join(m.Selected(), ","); got != "zepto.js,fx.js" {
		t.Errorf("Selected() = %s, want catalog order", got)
	}

	m = send(t, m, key("a"))
	if len(m.Selected()) != 3 {
		t.Errorf("select all = %v", m.Selected())
	}
	m = send(t, m, key("d"))
	if got := strings.Join(m.Selected(), ","); got != "zepto.js,event.js" {
		t.Errorf("defaults = %s", got)
	}
}

func TestSelector_GenerateAndEscCloses(t *testing.T) {
	rec := newRecorder()
	m := NewSelectorModel(testModules, "", false, rec.start)

	m = send(t, m, key("m"))
	m = send(t, m, key("enter"))

	if len(rec.calls) != 1 || !rec.minify[0] {
		t.Fatalf("start calls = %v minify = %v", rec.calls, rec.minify)
	}
	if m.state != stateResult || m.Result == nil {
		t.Fatalf("state = %v, err = %v", m.state, m.Err)
	}
	if m.Result.Filename != "zepto.min.js" {
		t.Errorf("filename = %s", m.Result.Filename)
	}
	if !strings.Contains(m.View(), "You saved:") {
		t.Error("result view misses savings text")
	}

	m = send(t, m, key("esc"))
	if m.state != stateSelecting {
		t.Error("esc did not close the result view")
	}
	if m.Result == nil {
		t.Error("closing the result view dropped the result")
	}
}

func TestSelector_GenerateError(t *testing.T) {
	a := bundle.New(blob.DataURL{}, "zepto", log.New(io.Discard)).WithMinifier(func([]string, ...minify.Option) (string, error) {
		return "", errors.New("unexpected token")
	})
	start := func(names []string, minify bool) *bundle.Job {
		return a.GenerateAsync(context.Background(), testModules, names, bundle.Options{Minify: minify})
	}
	m := NewSelectorModel(testModules, "", true, start)

	m = send(t, m, key("enter"))
	if m.state != stateSelecting || m.Err == nil || m.Result != nil {
		t.Fatalf("state = %v, err = %v", m.state, m.Err)
	}
	if !strings.Contains(m.View(), "unexpected token") {
		t.Error("view does not show the error")
	}
}

func TestSelector_EscCancelsGeneration(t *testing.T) {
	release := make(chan struct{})
	a := bundle.New(blob.DataURL{}, "zepto", log.New(io.Discard)).WithMinifier(func(s []string, _ ...minify.Option) (string, error) {
		<-release
		return strings.Join(s, ""), nil
	})
	start := func(names []string, minify bool) *bundle.Job {
		return a.GenerateAsync(context.Background(), testModules, names, bundle.Options{Minify: minify})
	}
	m := NewSelectorModel(testModules, "", true, start)

	next, cmd := m.Update(key("enter"))
	m = next.(*SelectorModel)
	if m.state != stateGenerating || cmd == nil {
		t.Fatalf("state = %v", m.state)
	}

	m = send(t, m, key("esc"))
	if m.state != stateSelecting {
		t.Fatal("esc did not cancel generation")
	}

	close(release)
	next, _ = m.Update(cmd())
	m = next.(*SelectorModel)
	if m.Result != nil || m.Err != nil || m.state != stateSelecting {
		t.Errorf("stale job result was applied: state=%v result=%v err=%v", m.state, m.Result, m.Err)
	}
}

func TestSelector_Quit(t *testing.T) {
	m := NewSelectorModel(testModules, "", false, newRecorder().start)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestSelector_ResizeKeepsCursorVisible(t *testing.T) {
	var modules []catalog.Module
	for i := range 12 {
		modules = append(modules, catalog.Module{Name: fmt.Sprintf("mod%02d.js", i), Content: "x"})
	}
	m := NewSelectorModel(modules, "", false, newRecorder().start)
	for range len(modules) - 1 {
		m = send(t, m, key("down"))
	}
	if m.Cursor != 11 || m.Offset != 0 {
		t.Fatalf("cursor %d offset %d before resize", m.Cursor, m.Offset)
	}

	m = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 15})
	if m.Height != 5 {
		t.Fatalf("Height = %d, want 5", m.Height)
	}
	if m.Cursor < m.Offset || m.Cursor >= m.Offset+m.Height {
		t.Errorf("cursor %d outside rows [%d, %d)", m.Cursor, m.Offset, m.Offset+m.Height)
	}
	if !strings.Contains(m.View(), "mod11.js") {
		t.Error("cursor row not rendered after shrinking")
	}

	m = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 40})
	if m.Offset != 0 {
		t.Errorf("Offset = %d after growing past the list, want 0", m.Offset)
	}
}
