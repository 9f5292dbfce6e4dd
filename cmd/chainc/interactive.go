package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chainweave/chaindsl/compiler"
	"github.com/chainweave/chaindsl/errors"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	exportStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	diagErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	diagWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD866"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// interactiveModel is a live editor: every keystroke recompiles the buffer
// and renders the diagnostics and exports. The compiler is pure and fast
// enough to run synchronously in Update.
type interactiveModel struct {
	input  textarea.Model
	result *compiler.Result
}

func newInteractiveModel(initial string) *interactiveModel {
	ta := textarea.New()
	ta.Placeholder = "struct Pool { id: Address, liquidity: u256 }"
	ta.SetWidth(80)
	ta.SetHeight(12)
	ta.SetValue(initial)
	ta.Focus()
	return &interactiveModel{
		input:  ta,
		result: compiler.Compile(initial),
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.result = compiler.Compile(m.input.Value())
	return m, cmd
}

func (m *interactiveModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("chainc live compile"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.result.OK() {
		b.WriteString(exportStyle.Render(fmt.Sprintf("✓ %d exports", len(m.result.Exports))))
		b.WriteString("\n")
		for _, name := range m.result.Exports {
			b.WriteString("  " + exportStyle.Render(name) + "\n")
		}
	}
	for _, d := range m.result.Diagnostics {
		style := diagWarnStyle
		if d.Severity == errors.SeverityError {
			style = diagErrStyle
		}
		b.WriteString(style.Render(d.String()) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("esc: quit"))
	return b.String()
}

func runInteractive(srcFile string) error {
	initial := ""
	if srcFile != "" {
		data, err := os.ReadFile(srcFile)
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}
		initial = string(data)
	}

	prog := tea.NewProgram(newInteractiveModel(initial), tea.WithAltScreen())
	_, err := prog.Run()
	return err
}
