package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestKeyMap_ModuleFor(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		key  tea.KeyType
		want Module
	}{
		{tea.KeyF1, ModuleHelp},
		{tea.KeyF2, ModuleExhibits},
		{tea.KeyF3, ModuleHistory},
		{tea.KeyF10, moduleQuit},
		{tea.KeyF5, ""},
		{tea.KeyEnter, ""},
	}

	for _, tt := range tests {
		if got := km.ModuleFor(tea.KeyMsg{Type: tt.key}); got != tt.want {
			t.Errorf("ModuleFor(%v) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestKeyMap_IsQuit(t *testing.T) {
	km := DefaultKeyMap()

	if !km.IsQuit(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}) {
		t.Error("q should quit")
	}
	if !km.IsQuit(tea.KeyMsg{Type: tea.KeyF10}) {
		t.Error("F10 should quit")
	}
	if km.IsQuit(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}}) {
		t.Error("f should not quit")
	}
}

func TestKey_Disabled(t *testing.T) {
	k := newKey("search", "/")
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}}

	if !k.Matches(msg) {
		t.Fatal("enabled key should match")
	}
	k.Enabled = false
	if k.Matches(msg) {
		t.Error("disabled key should not match")
	}
}

func TestKeyMap_StatusBarHelp(t *testing.T) {
	km := DefaultKeyMap()

	exhibits := km.StatusBarHelp(ModuleExhibits)
	for _, want := range []string{"[F1]Help", "[F2]Exhibits", "[F3]History", "[ENTER]details", "[Q]uit"} {
		if !strings.Contains(exhibits, want) {
			t.Errorf("exhibits help %q missing %q", exhibits, want)
		}
	}
	if strings.Contains(exhibits, "search") {
		t.Errorf("exhibits help should not offer search: %q", exhibits)
	}

	history := km.StatusBarHelp(ModuleHistory)
	if !strings.Contains(history, "[/]search") || !strings.Contains(history, "[F]kind") {
		t.Errorf("history help %q missing search or kind", history)
	}
}
