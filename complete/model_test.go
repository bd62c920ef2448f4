// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package complete_test

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/creachadair/jcomplete/complete"
	"github.com/google/go-cmp/cmp"
)

func typeText(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func newFocused(t *testing.T, changes *[]string) complete.Model {
	t.Helper()
	m := complete.New(complete.Config{
		Placeholder: "Type a path",
		OnChange:    func(s string) { *changes = append(*changes, s) },
	})
	m.SetData(defaultDoc(t))
	m.Focus()
	return m
}

func TestModelTyping(t *testing.T) {
	var changes []string
	m := newFocused(t, &changes)

	if got := m.Placeholder(); got != "Type a path" {
		t.Errorf("Placeholder: got %q, want %q", got, "Type a path")
	}
	if got := values(m.Suggestions()); len(got) != 0 {
		t.Errorf("Initial suggestions: got %q, want none", got)
	}

	m, _ = m.Update(typeText("user."))
	if got := m.Value(); got != "user." {
		t.Errorf("Value: got %q, want %q", got, "user.")
	}
	if diff := cmp.Diff(changes, []string{"user."}); diff != "" {
		t.Errorf("OnChange (-got, +want):\n%s", diff)
	}
	want := []string{"user.id", "user.name", "user.email", "user.profile"}
	if diff := cmp.Diff(values(m.Suggestions()), want); diff != "" {
		t.Errorf("Suggestions (-got, +want):\n%s", diff)
	}
}

func TestModelSelectAccept(t *testing.T) {
	var changes []string
	m := newFocused(t, &changes)
	m, _ = m.Update(typeText("user."))
	changes = nil

	down := tea.KeyMsg{Type: tea.KeyDown}
	up := tea.KeyMsg{Type: tea.KeyUp}

	m, _ = m.Update(down)
	m, _ = m.Update(down)
	if got := m.Selected(); got != 2 {
		t.Errorf("Selected after 2 down: got %d, want 2", got)
	}
	m, _ = m.Update(up)
	m, _ = m.Update(up)
	m, _ = m.Update(up)
	if got := m.Selected(); got != 3 {
		t.Errorf("Selected after wrap: got %d, want 3", got)
	}
	if len(changes) != 0 {
		t.Errorf("Navigation called OnChange: %q", changes)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.Value(); got != "user.profile" {
		t.Errorf("Value after accept: got %q, want %q", got, "user.profile")
	}
	if diff := cmp.Diff(changes, []string{"user.profile"}); diff != "" {
		t.Errorf("OnChange (-got, +want):\n%s", diff)
	}
	if got := m.Selected(); got != 0 {
		t.Errorf("Selected after accept: got %d, want 0", got)
	}
}

func TestModelSetValue(t *testing.T) {
	var changes []string
	m := newFocused(t, &changes)

	m.SetValue("posts[")
	if got := m.Value(); got != "posts[" {
		t.Errorf("Value: got %q, want %q", got, "posts[")
	}
	if len(changes) != 0 {
		t.Errorf("SetValue called OnChange: %q", changes)
	}
	if diff := cmp.Diff(values(m.Suggestions()), []string{"posts[0]", "posts[1]"}); diff != "" {
		t.Errorf("Suggestions (-got, +want):\n%s", diff)
	}

	// Replacing the data refreshes the suggestions for the same text.
	m.SetData(mustParse(t, `{"posts": [1]}`))
	if diff := cmp.Diff(values(m.Suggestions()), []string{"posts[0]"}); diff != "" {
		t.Errorf("Suggestions (-got, +want):\n%s", diff)
	}
}

func TestModelBlurred(t *testing.T) {
	var changes []string
	m := newFocused(t, &changes)
	m.Blur()
	if m.Focused() {
		t.Error("Focused after Blur")
	}
	m, _ = m.Update(typeText("user"))
	if got := m.Value(); got != "" {
		t.Errorf("Blurred input accepted text: %q", got)
	}
	if len(changes) != 0 {
		t.Errorf("Blurred input called OnChange: %q", changes)
	}
}

func TestModelView(t *testing.T) {
	var changes []string
	m := newFocused(t, &changes)

	m.SetValue("user.profile.address.")
	v := m.View()
	for _, want := range []string{"street", "city", "country", "string"} {
		if !strings.Contains(v, want) {
			t.Errorf("View is missing %q:\n%s", want, v)
		}
	}

	m.SetValue("user.q")
	if v := m.View(); !strings.Contains(v, "no suggestions") {
		t.Errorf("View is missing empty marker:\n%s", v)
	}

	// The address has five keys; with a limit of three, two are elided.
	small := complete.New(complete.Config{MaxVisible: 3})
	small.SetData(defaultDoc(t))
	small.SetValue("user.profile.address.")
	if v := small.View(); !strings.Contains(v, "2 more") {
		t.Errorf("View is missing overflow count:\n%s", v)
	}
}
