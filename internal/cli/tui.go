package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/zbuilder/pkg/bundle"
	"github.com/matzehuels/zbuilder/pkg/catalog"
	"github.com/matzehuels/zbuilder/pkg/selection"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	buttonStyle       = lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Background(colorCyan).Padding(0, 1)
	buttonOffStyle    = lipgloss.NewStyle().Foreground(colorDim).Background(lipgloss.Color("236")).Padding(0, 1)
	resultBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorGreen).Padding(0, 1)
)

// =============================================================================
// SelectorModel - Interactive module selection
// =============================================================================

type selectorState int

const (
	stateSelecting selectorState = iota
	stateGenerating
	stateResult
)

// startFunc starts generating a bundle from names.
type startFunc func(names []string, minify bool) *bundle.Job

// generatedMsg carries a finished job's outcome.
type generatedMsg struct {
	job *bundle.Job
	res *bundle.Result
	err error
}

// SelectorModel is the bubbletea model for picking modules and generating a
// bundle. Generate is disabled while nothing is selected; Esc closes the
// result view.
type SelectorModel struct {
	Modules []catalog.Module
	Cursor  int
	Offset  int
	Height  int
	Minify  bool

	// Result is the last generated bundle, kept after the result view closes.
	Result *bundle.Result
	Err    error

	sel     *selection.Set
	enabled bool
	state   selectorState
	start   startFunc
	job     *bundle.Job
	version string
}

// NewSelectorModel creates a selector over modules with the defaults
// preselected.
func NewSelectorModel(modules []catalog.Module, version string, minify bool, start startFunc) *SelectorModel {
	m := &SelectorModel{
		Modules: modules,
		Height:  15,
		Minify:  minify,
		start:   start,
		version: version,
	}
	m.sel = selection.FromCatalog(modules, func(enabled bool) { m.enabled = enabled })
	m.enabled = m.sel.GenerateEnabled()
	return m
}

// Selected returns the selected module names in catalog order.
func (m *SelectorModel) Selected() []string { return m.sel.Names() }

func (m *SelectorModel) Init() tea.Cmd {
	return nil
}

func (m *SelectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case generatedMsg:
		if msg.job != m.job || m.state != stateGenerating {
			return m, nil
		}
		m.job = nil
		if msg.err != nil {
			m.Err = msg.err
			m.state = stateSelecting
			return m, nil
		}
		m.Result = msg.res
		m.Err = nil
		m.state = stateResult
		return m, nil

	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
		m.clampOffset()
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateGenerating:
			return m.updateGenerating(msg)
		case stateResult:
			return m.updateResult(msg)
		default:
			return m.updateSelecting(msg)
		}
	}
	return m, nil
}

// clampOffset scrolls so the cursor row is visible.
func (m *SelectorModel) clampOffset() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	if maxOffset := max(len(m.Modules)-m.Height, 0); m.Offset > maxOffset {
		m.Offset = maxOffset
	}
}

func (m *SelectorModel) updateSelecting(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
			m.clampOffset()
		}
	case "down", "j":
		if m.Cursor < len(m.Modules)-1 {
			m.Cursor++
			m.clampOffset()
		}
	case " ", "space", "x":
		if len(m.Modules) > 0 {
			_ = m.sel.Toggle(m.Modules[m.Cursor].Name)
		}
	case "a":
		_ = m.sel.Select(catalog.Names(m.Modules)...)
	case "n":
		m.sel.Clear()
	case "d":
		m.sel.Clear()
		_ = m.sel.Select(catalog.Defaults(m.Modules)...)
	case "m":
		m.Minify = !m.Minify
	case "enter", "g":
		if !m.enabled {
			return m, nil
		}
		m.Err = nil
		m.state = stateGenerating
		m.job = m.start(m.sel.Names(), m.Minify)
		return m, waitForJob(m.job)
	}
	return m, nil
}

func (m *SelectorModel) updateGenerating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.job.Cancel()
		return m, tea.Quit
	case "esc":
		m.job.Cancel()
		m.job = nil
		m.state = stateSelecting
	}
	return m, nil
}

func (m *SelectorModel) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateSelecting
	case "q", "ctrl+c", "enter":
		return m, tea.Quit
	}
	return m, nil
}

func waitForJob(job *bundle.Job) tea.Cmd {
	return func() tea.Msg {
		res, err := job.Wait(context.Background())
		return generatedMsg{job: job, res: res, err: err}
	}
}

func (m *SelectorModel) View() string {
	var b strings.Builder

	title := "Select Modules"
	if m.version != "" {
		title += " " + listDimStyle.Render("v"+m.version)
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")

	switch m.state {
	case stateResult:
		b.WriteString(listDimStyle.Render("esc back  ⏎/q quit"))
		b.WriteString("\n\n")
		b.WriteString(m.resultView())
		return b.String()
	case stateGenerating:
		b.WriteString(listDimStyle.Render("esc cancel"))
	default:
		b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  n none  d defaults  m minify  ⏎ generate  q quit"))
	}
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Modules) {
		end = len(m.Modules)
	}
	for i := m.Offset; i < end; i++ {
		mod := m.Modules[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		box := "[ ]"
		if m.sel.Has(mod.Name) {
			box = StyleSuccess.Render("[" + iconSuccess + "]")
		}
		line := fmt.Sprintf("%s%s %-16s %s", cursor, box, mod.Name, listDimStyle.Render(mod.Description))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	minify := "off"
	if m.Minify {
		minify = "on"
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d/%d selected · minify %s  ", m.sel.Len(), len(m.Modules), minify)))

	switch {
	case m.state == stateGenerating:
		b.WriteString(buttonOffStyle.Render("Generating..."))
	case m.enabled:
		b.WriteString(buttonStyle.Render("Generate"))
	default:
		b.WriteString(buttonOffStyle.Render("Generate"))
	}
	b.WriteString("\n")

	if m.Err != nil {
		b.WriteString("\n")
		b.WriteString(styleIconError.Render(iconError) + " " + m.Err.Error())
		b.WriteString("\n")
	}
	return b.String()
}

func (m *SelectorModel) resultView() string {
	r := m.Result
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", styleIconSuccess.Render(iconSuccess), StyleHighlight.Render(r.Filename))
	fmt.Fprintf(&b, "%s\n", listDimStyle.Render(strings.Join(r.Modules, ", ")))
	fmt.Fprintf(&b, "Size: %s\n", formatBytes(len(r.Output())))
	if r.Minify {
		b.WriteString(StyleSuccess.Render(r.SavingsText()))
		b.WriteString("\n")
	}
	ref := r.DownloadRef
	if len(ref) > 72 {
		ref = ref[:69] + "..."
	}
	b.WriteString(StyleLink.Render(ref))
	return resultBoxStyle.Render(b.String())
}
