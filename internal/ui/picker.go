package ui

import (
	"fmt"
	"strings"

	key "github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	lipgloss "github.com/charmbracelet/lipgloss"
)

// Item is one selectable row in the picker.
type Item struct {
	Title string
	Desc  string
}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

var defaultKeys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "abort"),
	),
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	descStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

// PickerModel is a minimal selection list for choosing one item.
type PickerModel struct {
	title  string
	items  []Item
	cursor int
	choice int
	keys   keyMap
}

// NewPicker creates a picker over the given items. The zero choice is -1
// until the user selects something.
func NewPicker(title string, items []Item) PickerModel {
	return PickerModel{
		title:  title,
		items:  items,
		choice: -1,
		keys:   defaultKeys,
	}
}

// Init implements tea.Model
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Select):
		m.choice = m.cursor
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model
func (m PickerModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		line := item.Title
		if item.Desc != "" {
			line = fmt.Sprintf("%s %s", item.Title, descStyle.Render(item.Desc))
		}
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
			line = selectedStyle.Render(item.Title)
			if item.Desc != "" {
				line = fmt.Sprintf("%s %s", line, descStyle.Render(item.Desc))
			}
		}
		b.WriteString(cursor + line + "\n")
	}

	b.WriteString(helpStyle.Render("↑/↓ move · enter select · q abort"))
	return b.String()
}

// Choice returns the selected index, or -1 when the picker was aborted.
func (m PickerModel) Choice() int {
	return m.choice
}

// Pick runs an interactive picker and returns the selected index, or -1 when
// the user aborted.
func Pick(title string, items []Item) (int, error) {
	program := tea.NewProgram(NewPicker(title, items))

	final, err := program.Run()
	if err != nil {
		return -1, fmt.Errorf("failed to run picker: %w", err)
	}

	model, ok := final.(PickerModel)
	if !ok {
		return -1, fmt.Errorf("unexpected picker model type")
	}
	return model.Choice(), nil
}
