package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/litecodec/value"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	stringStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	numberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))

	noneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type docNode struct {
	label    string
	path     string
	val      value.Value
	depth    int
	children []*docNode
}

func buildTree(label, path string, v value.Value, depth int) *docNode {
	n := &docNode{label: label, path: path, val: v, depth: depth}
	switch v.Kind() {
	case value.KindArray:
		arr, _ := v.AsArray()
		for i, elem := range arr {
			idx := strconv.Itoa(i)
			n.children = append(n.children, buildTree(idx, path+"["+idx+"]", elem, depth+1))
		}
	case value.KindMap:
		m, _ := v.AsMap()
		m.Range(func(k string, elem value.Value) bool {
			childPath := k
			if path != "" {
				childPath = path + "." + k
			}
			n.children = append(n.children, buildTree(k, childPath, elem, depth+1))
			return true
		})
	}
	return n
}

type browserModel struct {
	filename  string
	root      *docNode
	visible   []*docNode
	expanded  map[string]bool
	filter    textinput.Model
	filtering bool
	applied   string
	selected  int
	height    int
}

func newBrowserModel(filename string, doc value.Value) *browserModel {
	ti := textinput.New()
	ti.Placeholder = "path substring"
	ti.Prompt = "/"
	ti.Width = 40

	m := &browserModel{
		filename: filename,
		root:     buildTree("", "", doc, -1),
		expanded: map[string]bool{"": true},
		filter:   ti,
		height:   24,
	}
	m.rebuild()
	return m
}

func (m *browserModel) Init() tea.Cmd {
	return nil
}

// rebuild recomputes the visible line list from the expansion state and
// the applied filter. A non-empty filter shows every node whose path
// matches plus the ancestors needed to reach it.
func (m *browserModel) rebuild() {
	m.visible = m.visible[:0]
	for _, child := range m.root.children {
		m.collect(child)
	}
	if m.selected >= len(m.visible) {
		m.selected = len(m.visible) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *browserModel) collect(n *docNode) {
	if m.applied != "" {
		if !subtreeMatches(n, m.applied) {
			return
		}
		m.visible = append(m.visible, n)
		for _, child := range n.children {
			m.collect(child)
		}
		return
	}

	m.visible = append(m.visible, n)
	if m.expanded[n.path] {
		for _, child := range n.children {
			m.collect(child)
		}
	}
}

func subtreeMatches(n *docNode, filter string) bool {
	if strings.Contains(n.path, filter) {
		return true
	}
	for _, child := range n.children {
		if subtreeMatches(child, filter) {
			return true
		}
	}
	return false
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height

	case tea.KeyMsg:
		if m.filtering {
			switch msg.String() {
			case "enter":
				m.filtering = false
				m.applied = m.filter.Value()
				m.filter.Blur()
				m.selected = 0
				m.rebuild()
			case "esc":
				m.filtering = false
				m.filter.SetValue("")
				m.filter.Blur()
			default:
				var cmd tea.Cmd
				m.filter, cmd = m.filter.Update(msg)
				return m, cmd
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.selected < len(m.visible)-1 {
				m.selected++
			}

		case "enter", " ":
			if n := m.current(); n != nil && len(n.children) > 0 {
				m.expanded[n.path] = !m.expanded[n.path]
				m.rebuild()
			}

		case "/":
			m.filtering = true
			m.filter.Focus()
			return m, textinput.Blink

		case "esc":
			if m.applied != "" {
				m.applied = ""
				m.filter.SetValue("")
				m.rebuild()
			}
		}
	}

	return m, nil
}

func (m *browserModel) current() *docNode {
	if m.selected < 0 || m.selected >= len(m.visible) {
		return nil
	}
	return m.visible[m.selected]
}

func (m *browserModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("litecodec"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	if m.applied != "" {
		b.WriteString("  filter: ")
		b.WriteString(pathStyle.Render(m.applied))
	}
	b.WriteString("\n\n")

	start, end := m.window()
	for i := start; i < end; i++ {
		line := m.renderNode(m.visible[i])
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + stripANSI(line)))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if len(m.visible) == 0 {
		b.WriteString(noneStyle.Render("  (no matches)"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if n := m.current(); n != nil {
		b.WriteString(pathStyle.Render(n.path))
		b.WriteString("\n")
	}

	if m.filtering {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter apply • esc cancel"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓ move • enter expand/collapse • / filter • esc clear • q quit"))
	}

	return b.String()
}

// window clamps the rendered slice of visible lines to the terminal
// height, keeping the cursor in view.
func (m *browserModel) window() (int, int) {
	rows := m.height - 6
	if rows < 1 {
		rows = 1
	}
	if len(m.visible) <= rows {
		return 0, len(m.visible)
	}
	start := m.selected - rows/2
	if start < 0 {
		start = 0
	}
	end := start + rows
	if end > len(m.visible) {
		end = len(m.visible)
		start = end - rows
	}
	return start, end
}

func (m *browserModel) renderNode(n *docNode) string {
	indent := strings.Repeat("  ", n.depth)

	marker := "  "
	if len(n.children) > 0 {
		if m.applied != "" || m.expanded[n.path] {
			marker = "▾ "
		} else {
			marker = "▸ "
		}
	}

	label := keyStyle.Render(n.label)
	return indent + marker + label + ": " + renderValue(n.val)
}

func renderValue(v value.Value) string {
	switch v.Kind() {
	case value.KindNone:
		return noneStyle.Render("null")
	case value.KindBool:
		b, _ := v.AsBool()
		return numberStyle.Render(strconv.FormatBool(b))
	case value.KindNumber:
		n, _ := v.AsNumber()
		return numberStyle.Render(n.String())
	case value.KindString:
		s, _ := v.AsString()
		return stringStyle.Render(strconv.Quote(s))
	case value.KindArray:
		arr, _ := v.AsArray()
		return summaryStyle.Render(fmt.Sprintf("[%d items]", len(arr)))
	case value.KindMap:
		m, _ := v.AsMap()
		return summaryStyle.Render(fmt.Sprintf("{%d keys}", m.Len()))
	}
	return ""
}

// stripANSI removes style escapes so the selection style can restyle the
// whole line uniformly.
func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func runInteractive(filename string, doc value.Value) error {
	p := tea.NewProgram(newBrowserModel(filename, doc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
