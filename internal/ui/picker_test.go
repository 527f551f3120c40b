package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	assert "github.com/stretchr/testify/assert"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestPicker_Navigation(t *testing.T) {
	m := NewPicker("Pick a target", []Item{
		{Title: "OK", Desc: "(1050, 850)"},
		{Title: "Submit", Desc: "(400, 300)"},
		{Title: "Cancel", Desc: "(620, 300)"},
	})

	assert.Equal(t, 0, m.cursor)
	assert.Equal(t, -1, m.Choice())

	updated, _ := m.Update(keyRune('j'))
	m = updated.(PickerModel)
	assert.Equal(t, 1, m.cursor)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(PickerModel)
	assert.Equal(t, 2, m.cursor)

	// Cursor stays on the last item.
	updated, _ = m.Update(keyRune('j'))
	m = updated.(PickerModel)
	assert.Equal(t, 2, m.cursor)

	updated, _ = m.Update(keyRune('k'))
	m = updated.(PickerModel)
	assert.Equal(t, 1, m.cursor)
}

func TestPicker_Select(t *testing.T) {
	m := NewPicker("Pick a target", []Item{
		{Title: "OK"},
		{Title: "Cancel"},
	})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(PickerModel)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(PickerModel)

	assert.Equal(t, 1, m.Choice())
	assert.NotNil(t, cmd)
}

func TestPicker_Abort(t *testing.T) {
	m := NewPicker("Pick a target", []Item{{Title: "OK"}})

	updated, cmd := m.Update(keyRune('q'))
	m = updated.(PickerModel)

	assert.Equal(t, -1, m.Choice())
	assert.NotNil(t, cmd)
}

func TestPicker_View(t *testing.T) {
	m := NewPicker("Saved regions", []Item{
		{Title: "primary", Desc: "1920x1080"},
		{Title: "sidebar", Desc: "400x1080"},
	})

	view := m.View()
	assert.Contains(t, view, "Saved regions")
	assert.Contains(t, view, "primary")
	assert.Contains(t, view, "sidebar")
}
