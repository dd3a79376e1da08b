package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/bondsim/internal/derive"
)

type section struct {
	title string
	lines []string
}

type model struct {
	title         string
	sections      []section
	active        int
	offset        int
	width, height int
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return []string{subtleStyle().Render("(empty)")}
	}
	return strings.Split(s, "\n")
}

// newViewer builds the browser model for one derivation.
func newViewer(title string, d *derive.Derivation) *model {
	m := &model{title: title, width: 80, height: 24}
	m.sections = []section{
		{"bonds", splitLines(RenderBonds(d.Graph))},
		{"equations", splitLines(RenderEquations(d))},
		{"states", splitLines(RenderReport(d, true))},
		{"diagnostics", splitLines(RenderDiagnostics(d.Causality))},
	}
	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.clamp()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "right", "l":
		m.active = (m.active + 1) % len(m.sections)
		m.offset = 0
	case "shift+tab", "left", "h":
		m.active = (m.active + len(m.sections) - 1) % len(m.sections)
		m.offset = 0
	case "down", "j":
		m.offset++
	case "up", "k":
		m.offset--
	case "g":
		m.offset = 0
	case "t":
		CurrentTheme = nextTheme(CurrentTheme.Name)
	}
	m.clamp()
	return m, nil
}

func (m model) pageSize() int {
	// header, tab bar, separator and key hints
	n := m.height - 7
	if n < 1 {
		n = 1
	}
	return n
}

func (m *model) clamp() {
	last := len(m.sections[m.active].lines) - m.pageSize()
	if m.offset > last {
		m.offset = last
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle().Render(strings.ToUpper(m.title)) + "  " +
		subtleStyle().Render("bond graph derivation") + "\n\n  ")

	for i, s := range m.sections {
		if i == m.active {
			b.WriteString(lipgloss.NewStyle().Bold(true).Underline(true).Foreground(CurrentTheme.Accent).Render(s.title))
		} else {
			b.WriteString(subtleStyle().Render(s.title))
		}
		b.WriteString("   ")
	}
	b.WriteString("\n  " + Separator(m.width-4) + "\n")

	lines := m.sections[m.active].lines
	end := m.offset + m.pageSize()
	if end > len(lines) {
		end = len(lines)
	}
	for _, line := range lines[m.offset:end] {
		b.WriteString("  " + line + "\n")
	}
	if len(lines) > m.pageSize() {
		b.WriteString(subtleStyle().Render(fmt.Sprintf("  %d-%d of %d", m.offset+1, end, len(lines))) + "\n")
	}

	b.WriteString("\n  " + keyHint("tab", "section") + keyHint("j/k", "scroll") +
		keyHint("t", CurrentTheme.Name) + keyHint("q", "quit") + "\n")
	return b.String()
}

// RunViewer opens the browser in the alternate screen until the user quits.
func RunViewer(title string, d *derive.Derivation) error {
	_, err := tea.NewProgram(newViewer(title, d), tea.WithAltScreen()).Run()
	return err
}
