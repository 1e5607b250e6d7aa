package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/sksl-runtime/ir"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nodeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	scopeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// chromeLines is the number of rows taken by the title, filter and help.
const chromeLines = 6

type browserModel struct {
	err       error
	load      func() ([]ir.Line, error)
	collapsed map[int]bool
	filename  string
	lines     []ir.Line
	visible   []int
	filter    textinput.Model
	cursor    int
	top       int
	height    int
	loaded    bool
}

type loadedMsg struct {
	err   error
	lines []ir.Line
}

func newBrowserModel(filename string, load func() ([]ir.Line, error)) *browserModel {
	ti := textinput.New()
	ti.Prompt = "filter: "
	ti.Placeholder = "type / to search"
	ti.Width = 40
	return &browserModel{
		filename:  filename,
		load:      load,
		collapsed: make(map[int]bool),
		filter:    ti,
		height:    20,
	}
}

func (m *browserModel) Init() tea.Cmd {
	return m.loadTree
}

func (m *browserModel) loadTree() tea.Msg {
	lines, err := m.load()
	return loadedMsg{lines: lines, err: err}
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-chromeLines, 1)
		m.scroll()

	case loadedMsg:
		m.err = msg.err
		m.lines = msg.lines
		m.loaded = true
		m.refresh()

	case tea.KeyMsg:
		if m.filter.Focused() {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "enter":
				m.filter.Blur()
				return m, nil
			case "esc":
				m.filter.Blur()
				m.filter.SetValue("")
				m.refresh()
				return m, nil
			}
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.refresh()
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.height)
		case "pgdown":
			m.move(m.height)
		case "enter", " ":
			m.toggle()
		case "/":
			return m, m.filter.Focus()
		case "esc":
			m.filter.SetValue("")
			m.refresh()
		}
	}
	return m, nil
}

// refresh recomputes the visible rows from the filter and collapsed nodes.
func (m *browserModel) refresh() {
	query := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	hideBelow := -1
	for i, l := range m.lines {
		if hideBelow >= 0 && l.Depth > hideBelow {
			continue
		}
		hideBelow = -1
		if m.collapsed[i] {
			hideBelow = l.Depth
		}
		if query != "" && !strings.Contains(strings.ToLower(l.Text), query) {
			continue
		}
		m.visible = append(m.visible, i)
	}
	m.cursor = min(m.cursor, max(len(m.visible)-1, 0))
	m.scroll()
}

func (m *browserModel) move(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.visible)-1)
	m.scroll()
}

func (m *browserModel) scroll() {
	if m.cursor < m.top {
		m.top = m.cursor
	}
	if m.cursor >= m.top+m.height {
		m.top = m.cursor - m.height + 1
	}
}

// toggle collapses or expands the node under the cursor.
func (m *browserModel) toggle() {
	if len(m.visible) == 0 {
		return
	}
	i := m.visible[m.cursor]
	if !m.hasChildren(i) {
		return
	}
	m.collapsed[i] = !m.collapsed[i]
	m.refresh()
}

func (m *browserModel) hasChildren(i int) bool {
	return i+1 < len(m.lines) && m.lines[i+1].Depth > m.lines[i].Depth
}

func (m *browserModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if !m.loaded {
		return "Rehydrating artifact..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("SkSL Rehydrate"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString(fmt.Sprintf("  %d/%d nodes\n\n", len(m.visible), len(m.lines)))

	end := min(m.top+m.height, len(m.visible))
	for row := m.top; row < end; row++ {
		i := m.visible[row]
		text := m.row(i)
		if row == m.cursor {
			b.WriteString(selectedStyle.Render("> " + text))
		} else {
			b.WriteString("  " + m.style(i).Render(text))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ move • enter fold • / filter • esc clear • q quit"))
	return b.String()
}

func (m *browserModel) row(i int) string {
	l := m.lines[i]
	marker := "  "
	if m.hasChildren(i) {
		marker = "▾ "
		if m.collapsed[i] {
			marker = "▸ "
		}
	}
	return strings.Repeat("  ", l.Depth) + marker + l.Text
}

func (m *browserModel) style(i int) lipgloss.Style {
	text := m.lines[i].Text
	if strings.HasPrefix(text, "scope") || strings.HasPrefix(text, "owns") || strings.HasPrefix(text, "binds") {
		return scopeStyle
	}
	return nodeStyle
}

func runInteractive(filename string, load func() ([]ir.Line, error)) error {
	p := tea.NewProgram(newBrowserModel(filename, load), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
