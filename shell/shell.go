// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package shell implements a terminal view that edits a JSON document and
// offers path completions drawn from it.
//
// The view binds a text editor to a [docsync.Loop], shows the fault reported
// for the current text if there is one, and binds a [complete.Model] to the
// document of the loop and to a separate [docsync.Input] cell.
package shell

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/creachadair/jcomplete/complete"
	"github.com/creachadair/jcomplete/docsync"
)

// DefaultPlaceholder is the placeholder of the path input if none is set.
const DefaultPlaceholder = "Type your JSON path here..."

// KeyMap defines the bindings handled by the shell itself. All other keys are
// delivered to the focused pane.
type KeyMap struct {
	Focus    key.Binding
	Reformat key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default shell bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Focus:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Reformat: key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "reformat")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

// ShortHelp implements the help.KeyMap interface.
func (k KeyMap) ShortHelp() []key.Binding { return []key.Binding{k.Focus, k.Reformat, k.Quit} }

// FullHelp implements the help.KeyMap interface.
func (k KeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

// Styles controls the rendering of the shell.
type Styles struct {
	Title   lipgloss.Style
	Active  lipgloss.Style // title of the focused pane
	Valid   lipgloss.Style
	Invalid lipgloss.Style
	Fault   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
}

// DefaultStyles returns the default shell styles.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Faint(true),
		Active:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Valid:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Invalid: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		Fault:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")).PaddingLeft(2),
		Label:   lipgloss.NewStyle().Faint(true),
		Value:   lipgloss.NewStyle().Bold(true),
	}
}

// Config carries optional settings for a new Model.
type Config struct {
	// Placeholder is shown in the path input while it is empty.
	// If empty, DefaultPlaceholder is used.
	Placeholder string

	// Width and Height are the initial size of the view. They are replaced
	// when the terminal reports its size.
	Width, Height int

	// Logger, if non-nil, receives debug logs of user actions.
	Logger *zap.Logger
}

type pane int

const (
	editorPane pane = iota
	pathPane
)

// linesReserved is the number of rows of the view not used by the editor.
const linesReserved = 14

// Model is a Bubble Tea model for the shell.
type Model struct {
	loop  *docsync.Loop
	input *docsync.Input
	log   *zap.Logger

	keys   KeyMap
	styles Styles
	help   help.Model

	editor textarea.Model
	widget complete.Model
	focus  pane
	notice string // reported by the last action, if any
}

// New constructs a shell that edits the document of loop and stores the path
// entered by the user in input.
func New(loop *docsync.Loop, input *docsync.Input, cfg Config) Model {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	placeholder := cfg.Placeholder
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}

	ed := textarea.New()
	ed.CharLimit = 0
	ed.MaxHeight = 0
	ed.Focus()

	w := complete.New(complete.Config{
		Placeholder: placeholder,
		OnChange:    input.Set,
	})
	w.SetData(loop.Document())
	w.SetValue(input.Value())

	m := Model{
		loop:   loop,
		input:  input,
		log:    log,
		keys:   DefaultKeyMap(),
		styles: DefaultStyles(),
		help:   help.New(),
		editor: ed,
		widget: w,
	}
	m.load(loop.Text())
	m.resize(cfg.Width, cfg.Height)
	return m
}

// ReplaceText is a message that replaces the whole text of the document, as
// when the file it was read from changes.
type ReplaceText string

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return textarea.Blink }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case ReplaceText:
		if text := string(msg); text != m.editor.Value() {
			m.log.Debug("replacing document text", zap.Int("bytes", len(text)))
			m.notice = ""
			m.load(text)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Focus):
			return m, m.toggleFocus()
		case key.Matches(msg, m.keys.Reformat):
			m.reformat()
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.focus == editorPane {
		before := m.editor.Value()
		m.editor, cmd = m.editor.Update(msg)
		if after := m.editor.Value(); after != before {
			m.notice = ""
			m.setText(after)
		}
	} else {
		m.widget, cmd = m.widget.Update(msg)
	}
	m.widget.SetValue(m.input.Value())
	return m, cmd
}

// setText pushes text to the loop, and refreshes the completion data if the
// text parsed.
func (m *Model) setText(text string) {
	m.loop.SetText(text)
	if m.loop.State() == docsync.Valid {
		m.widget.SetData(m.loop.Document())
	}
}

// load replaces the text of the editor with text. The editor rewrites tabs
// and carriage returns, so the loop receives the text as the editor holds it.
func (m *Model) load(text string) {
	m.editor.SetValue(text)
	if v := m.editor.Value(); v != m.loop.Text() {
		m.loop.SetText(v)
	}
	if m.loop.State() == docsync.Valid {
		m.widget.SetData(m.loop.Document())
	}
}

func (m *Model) reformat() {
	if err := m.loop.Reformat(); err != nil {
		m.log.Debug("reformat failed", zap.Error(err))
		m.notice = "cannot reformat: " + err.Error()
		return
	}
	m.notice = ""
	if text := m.loop.Text(); text != m.editor.Value() {
		m.load(text)
	}
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == editorPane {
		m.focus = pathPane
		m.editor.Blur()
		return m.widget.Focus()
	}
	m.focus = editorPane
	m.widget.Blur()
	return m.editor.Focus()
}

func (m *Model) resize(width, height int) {
	if width > 0 {
		m.editor.SetWidth(width)
		m.widget.SetWidth(width - 4)
		m.help.Width = width
	}
	if height > 0 {
		m.editor.SetHeight(max(height-linesReserved, 3))
	}
}

// Loop returns the document loop bound to the editor.
func (m Model) Loop() *docsync.Loop { return m.loop }

// Editor returns the current text of the editor.
func (m Model) Editor() string { return m.editor.Value() }

// Path returns the widget bound to the input cell.
func (m Model) Path() complete.Model { return m.widget }

// View implements tea.Model.
func (m Model) View() string {
	var buf strings.Builder

	status := m.styles.Valid.Render("valid")
	if m.loop.State() == docsync.Invalid {
		status = m.styles.Invalid.Render("invalid")
	}
	buf.WriteString(m.title("JSON document", editorPane) + "  " + status + "\n")
	buf.WriteString(m.editor.View() + "\n")
	if f := m.loop.Fault(); f != nil {
		buf.WriteString(m.styles.Fault.Render(f.Message) + "\n")
	}
	if m.notice != "" {
		buf.WriteString(m.styles.Fault.Render(m.notice) + "\n")
	}

	buf.WriteString("\n" + m.title("Path", pathPane) + "\n")
	buf.WriteString(m.widget.View() + "\n\n")
	buf.WriteString(m.styles.Label.Render("Value: ") + m.styles.Value.Render(m.input.Value()) + "\n\n")
	buf.WriteString(m.help.View(m.keys))
	return buf.String()
}

func (m Model) title(s string, p pane) string {
	if m.focus == p {
		return m.styles.Active.Render("▸ " + s)
	}
	return m.styles.Title.Render("  " + s)
}
