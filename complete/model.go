// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package complete

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/creachadair/jcomplete/ast"
)

const defaultMaxVisible = 6

// KeyMap defines the bindings for navigating and accepting suggestions.
// Other keys are passed to the underlying text input.
type KeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Accept key.Binding
}

// DefaultKeyMap returns the default suggestion bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next:   key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next suggestion")),
		Prev:   key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "prev suggestion")),
		Accept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "accept suggestion")),
	}
}

// Styles controls the rendering of the suggestion list.
type Styles struct {
	Item     lipgloss.Style
	Selected lipgloss.Style
	Type     lipgloss.Style
	Empty    lipgloss.Style
}

// DefaultStyles returns the default suggestion styles.
func DefaultStyles() Styles {
	return Styles{
		Item:     lipgloss.NewStyle().PaddingLeft(2),
		Selected: lipgloss.NewStyle().PaddingLeft(1).Bold(true).Foreground(lipgloss.Color("212")),
		Type:     lipgloss.NewStyle().Faint(true),
		Empty:    lipgloss.NewStyle().PaddingLeft(2).Faint(true).Italic(true),
	}
}

// Config carries the settings for a new Model.
type Config struct {
	// Placeholder is shown while the input is empty.
	Placeholder string

	// OnChange, if set, is called with the new text whenever the user edits
	// the input or accepts a suggestion. It is not called by SetValue.
	OnChange func(string)

	// MaxVisible is the maximum number of suggestions rendered at once.
	// If zero, a default is used.
	MaxVisible int

	// KeyMap, if non-nil, replaces DefaultKeyMap.
	KeyMap *KeyMap

	// Styles, if non-nil, replaces DefaultStyles.
	Styles *Styles
}

// Model is a Bubble Tea component for entering a path expression with
// suggestions drawn from a JSON value.
type Model struct {
	input    textinput.Model
	onChange func(string)
	keys     KeyMap
	styles   Styles
	maxShow  int

	data     ast.Value
	items    []Suggestion
	selected int
}

// New constructs a new Model from cfg. The model has no data until SetData
// is called.
func New(cfg Config) Model {
	ti := textinput.New()
	ti.Prompt = "❯ "
	ti.Placeholder = cfg.Placeholder

	m := Model{
		input:    ti,
		onChange: cfg.OnChange,
		keys:     DefaultKeyMap(),
		styles:   DefaultStyles(),
		maxShow:  cfg.MaxVisible,
	}
	if cfg.KeyMap != nil {
		m.keys = *cfg.KeyMap
	}
	if cfg.Styles != nil {
		m.styles = *cfg.Styles
	}
	if m.maxShow <= 0 {
		m.maxShow = defaultMaxVisible
	}
	return m
}

// SetData replaces the value that suggestions are drawn from.
func (m *Model) SetData(v ast.Value) {
	m.data = v
	m.refresh()
}

// Data returns the value that suggestions are drawn from.
func (m Model) Data() ast.Value { return m.data }

// SetValue replaces the text of the input and moves the cursor to the end.
// It does not call OnChange.
func (m *Model) SetValue(s string) {
	if s == m.input.Value() {
		return
	}
	m.input.SetValue(s)
	m.input.CursorEnd()
	m.refresh()
}

// Value returns the current text of the input.
func (m Model) Value() string { return m.input.Value() }

// Placeholder returns the placeholder text of the input.
func (m Model) Placeholder() string { return m.input.Placeholder }

// Suggestions returns the current suggestions for the input text.
func (m Model) Suggestions() []Suggestion { return m.items }

// Selected returns the index of the highlighted suggestion. The result is
// meaningful only if Suggestions is non-empty.
func (m Model) Selected() int { return m.selected }

// Focus gives the input keyboard focus.
func (m *Model) Focus() tea.Cmd { return m.input.Focus() }

// Blur removes keyboard focus from the input.
func (m *Model) Blur() { m.input.Blur() }

// Focused reports whether the input has keyboard focus.
func (m Model) Focused() bool { return m.input.Focused() }

// SetWidth sets the display width of the input text.
func (m *Model) SetWidth(w int) { m.input.Width = w }

func (m *Model) refresh() {
	m.items = Suggest(m.data, m.input.Value())
	m.selected = 0
}

// change sets the input text on behalf of the user.
func (m *Model) change(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
	m.refresh()
	if m.onChange != nil {
		m.onChange(s)
	}
}

// Update handles a message. Key messages are processed only while the model
// has focus.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.input.Focused() {
		return m, nil
	}
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, m.keys.Next):
			if n := len(m.items); n > 0 {
				m.selected = (m.selected + 1) % n
			}
			return m, nil
		case key.Matches(km, m.keys.Prev):
			if n := len(m.items); n > 0 {
				m.selected = (m.selected + n - 1) % n
			}
			return m, nil
		case key.Matches(km, m.keys.Accept):
			if len(m.items) > 0 {
				m.change(m.items[m.selected].Value)
			}
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.refresh()
		if m.onChange != nil {
			m.onChange(after)
		}
	}
	return m, cmd
}

// View renders the input followed by the visible suggestions.
func (m Model) View() string {
	var buf strings.Builder
	buf.WriteString(m.input.View())

	if len(m.items) == 0 {
		if m.input.Value() != "" {
			buf.WriteString("\n")
			buf.WriteString(m.styles.Empty.Render("no suggestions"))
		}
		return buf.String()
	}

	// Scroll the window so the selection is always shown.
	lo := 0
	if m.selected >= m.maxShow {
		lo = m.selected - m.maxShow + 1
	}
	hi := min(lo+m.maxShow, len(m.items))
	for i := lo; i < hi; i++ {
		it := m.items[i]
		line := it.Label + " " + m.styles.Type.Render(it.Type)
		buf.WriteString("\n")
		if i == m.selected {
			buf.WriteString(m.styles.Selected.Render("›" + line))
		} else {
			buf.WriteString(m.styles.Item.Render(line))
		}
	}
	if hi < len(m.items) {
		buf.WriteString("\n")
		buf.WriteString(m.styles.Empty.Render(fmt.Sprintf("%d more", len(m.items)-hi)))
	}
	return buf.String()
}
