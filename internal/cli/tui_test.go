package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/datasprout/pkg/patterns"
)

func press(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func TestPatternPickerToggle(t *testing.T) {
	m := press(NewPatternPickerModel(patterns.Toggles{}), "x", "down", "x", "enter").(PatternPickerModel)

	if !m.Confirmed {
		t.Fatal("enter should confirm")
	}
	want := []string{patterns.Names[0], patterns.Names[1]}
	got := m.Toggles.Enabled()
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("enabled = %v, want %v", got, want)
	}
}

func TestPatternPickerAll(t *testing.T) {
	m := press(NewPatternPickerModel(patterns.Toggles{}), "a").(PatternPickerModel)
	if len(m.Toggles.Enabled()) != len(patterns.Names) {
		t.Errorf("a should enable every pattern, got %v", m.Toggles.Enabled())
	}
	m = press(m, "a").(PatternPickerModel)
	if m.Toggles.Any() {
		t.Error("a should disable every pattern when all are on")
	}
}

func TestPatternPickerCursorBounds(t *testing.T) {
	m := press(NewPatternPickerModel(patterns.Toggles{}), "up").(PatternPickerModel)
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.Cursor)
	}
	for range len(patterns.Names) + 3 {
		m = press(m, "down").(PatternPickerModel)
	}
	if m.Cursor != len(patterns.Names)-1 {
		t.Errorf("cursor = %d, want %d", m.Cursor, len(patterns.Names)-1)
	}
}

func TestPatternPickerAbort(t *testing.T) {
	m := press(NewPatternPickerModel(patterns.AllToggles()), "esc").(PatternPickerModel)
	if m.Confirmed {
		t.Error("esc should not confirm")
	}
}

func TestPatternPickerView(t *testing.T) {
	view := NewPatternPickerModel(patterns.AllToggles()).View()
	for _, n := range patterns.Names {
		if !strings.Contains(view, patterns.DisplayName(n)) {
			t.Errorf("view misses %q", patterns.DisplayName(n))
		}
	}
	if !strings.Contains(view, "8 of 8 enabled") {
		t.Errorf("view misses count: %s", view)
	}
}
