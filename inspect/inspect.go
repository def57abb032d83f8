// Package inspect implements an interactive terminal viewer for a
// validated Program: a Bubbletea/Bubbles/Lipgloss stack drives the UI,
// with the model stepping through a Program's instructions instead of
// evaluating source text.
package inspect

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/covfuzz/jsir/asmparse"
	"github.com/covfuzz/jsir/block"
	"github.com/covfuzz/jsir/program"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	lineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")).
			Bold(true)
)

// Start launches the TUI over p.
func Start(p *program.Program) error {
	m := newModel(p)
	_, err := tea.NewProgram(m).Run()
	return err
}

type model struct {
	program *program.Program
	lines   []string
	groups  *block.Index
	cursor  int
	err     error
}

func newModel(p *program.Program) model {
	disasm := asmparse.Disassemble(p.Code())
	lines := strings.Split(strings.TrimRight(disasm, "\n"), "\n")

	var groups *block.Index
	if err := p.Validate(); err == nil {
		groups = block.FindAllBlockGroups(p.Code())
	}

	return model{program: p, lines: lines, groups: groups, err: validateErr(p)}
}

func validateErr(p *program.Program) error {
	return p.Validate()
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
		return m, tea.Quit
	case tea.KeyRunes:
		if string(keyMsg.Runes) == "q" {
			return m, tea.Quit
		}
	case tea.KeyDown:
		if m.cursor < len(m.lines)-1 {
			m.cursor++
		}
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("jsir inspect — %s", m.program.ID())))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("invalid: "+m.err.Error()) + "\n\n")
	}

	for i, line := range m.lines {
		marker := "  "
		style := lineStyle
		if i == m.cursor {
			marker = cursorStyle.Render("> ")
			style = cursorStyle
		}
		group := ""
		if m.groups != nil {
			if g := m.groups.GroupAt(i); g != nil {
				group = dimStyle.Render(fmt.Sprintf("  (group %d..%d)", g.Head(), g.Tail()))
			}
		}
		b.WriteString(fmt.Sprintf("%s%s%s\n", marker, style.Render(line), group))
	}

	b.WriteString("\n" + dimStyle.Render("↑/↓ to move, q to quit"))
	return b.String()
}
