package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/patterns"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PatternPickerModel - Interactive pattern selection
// =============================================================================

// PatternPickerModel is the bubbletea model for choosing pattern toggles.
type PatternPickerModel struct {
	Names     []string
	Toggles   patterns.Toggles
	Cursor    int
	Confirmed bool
}

// NewPatternPickerModel creates a picker preset with initial.
func NewPatternPickerModel(initial patterns.Toggles) PatternPickerModel {
	return PatternPickerModel{Names: patterns.Names, Toggles: initial}
}

func (m PatternPickerModel) Init() tea.Cmd {
	return nil
}

func (m PatternPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Names)-1 {
			m.Cursor++
		}
	case " ", "x":
		name := m.Names[m.Cursor]
		_ = m.Toggles.Set(name, !m.Toggles.Get(name))
	case "a":
		all := len(m.Toggles.Enabled()) < len(m.Names)
		for _, n := range m.Names {
			_ = m.Toggles.Set(n, all)
		}
	case "enter":
		m.Confirmed = true
		return m, tea.Quit
	}
	return m, nil
}

func (m PatternPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Patterns"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ confirm  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Names))
	for i, n := range m.Names {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		box := "[ ]"
		if m.Toggles.Get(n) {
			box = "[x]"
		}
		rows[i] = []string{cursor, box, patterns.DisplayName(n)}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row < 0 || row >= len(m.Names) {
				return lipgloss.NewStyle()
			}
			switch {
			case row == m.Cursor:
				return listSelectedStyle
			case m.Toggles.Get(m.Names[row]):
				return lipgloss.NewStyle().Foreground(colorGreen)
			}
			return listDimStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d of %d enabled", len(m.Toggles.Enabled()), len(m.Names))))
	return b.String()
}

// pickPatterns runs the picker on the terminal. It fails when the user
// aborts.
func pickPatterns(initial patterns.Toggles) (patterns.Toggles, error) {
	final, err := tea.NewProgram(NewPatternPickerModel(initial), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return patterns.Toggles{}, errors.Wrap(errors.ErrCodeInternal, err, "pattern picker")
	}
	m := final.(PatternPickerModel)
	if !m.Confirmed {
		return patterns.Toggles{}, errors.New(errors.ErrCodeInvalidInput, "pattern selection aborted")
	}
	return m.Toggles, nil
}
