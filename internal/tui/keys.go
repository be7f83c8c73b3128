package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Key is a key binding. A disabled binding matches nothing.
type Key struct {
	Keys    []string
	Help    string
	Enabled bool
}

func newKey(help string, keys ...string) Key {
	return Key{Keys: keys, Help: help, Enabled: true}
}

// Matches reports whether msg is one of the binding's keys.
func (k Key) Matches(msg tea.KeyMsg) bool {
	if !k.Enabled {
		return false
	}

	s := msg.String()
	for _, key := range k.Keys {
		if s == key {
			return true
		}
	}
	return false
}

// label is the first key of the binding as shown in the status bar.
func (k Key) label() string {
	if len(k.Keys) == 0 {
		return ""
	}
	return strings.ToUpper(k.Keys[0])
}

// MatchesAny reports whether msg matches any of keys.
func MatchesAny(msg tea.KeyMsg, keys ...Key) bool {
	for _, k := range keys {
		if k.Matches(msg) {
			return true
		}
	}
	return false
}

// KeyMap holds the bindings of the exhibit browser.
type KeyMap struct {
	Up       Key
	Down     Key
	PageUp   Key
	PageDown Key
	Home     Key
	End      Key

	Select Key
	Back   Key
	Quit   Key
	Help   Key

	// History list only.
	Search     Key
	FilterKind Key

	// moduleKeys switch modules from anywhere, in status bar order.
	moduleKeys []moduleKey
}

type moduleKey struct {
	key    Key
	module Module
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       newKey("up", "up", "k"),
		Down:     newKey("down", "down", "j"),
		PageUp:   newKey("page up", "pgup", "ctrl+u"),
		PageDown: newKey("page down", "pgdown", "ctrl+d"),
		Home:     newKey("first", "home", "g"),
		End:      newKey("last", "end", "G"),

		Select: newKey("details", "enter", " "),
		Back:   newKey("back", "esc", "backspace"),
		Quit:   newKey("quit", "q", "ctrl+c"),
		Help:   newKey("help", "?"),

		Search:     newKey("search", "/"),
		FilterKind: newKey("kind", "f"),

		moduleKeys: []moduleKey{
			{newKey("Help", "f1"), ModuleHelp},
			{newKey("Exhibits", "f2"), ModuleExhibits},
			{newKey("History", "f3"), ModuleHistory},
			{newKey("Quit", "f10"), moduleQuit},
		},
	}
}

// IsQuit reports whether msg asks to leave the browser.
func (km KeyMap) IsQuit(msg tea.KeyMsg) bool {
	return km.Quit.Matches(msg) || km.ModuleFor(msg) == moduleQuit
}

// IsNavigation reports whether msg moves a list cursor.
func (km KeyMap) IsNavigation(msg tea.KeyMsg) bool {
	return MatchesAny(msg, km.Up, km.Down, km.PageUp, km.PageDown, km.Home, km.End)
}

// ModuleFor returns the module a function key switches to, or "" when
// msg is no function key.
func (km KeyMap) ModuleFor(msg tea.KeyMsg) Module {
	for _, mk := range km.moduleKeys {
		if mk.key.Matches(msg) {
			return mk.module
		}
	}
	return ""
}

// StatusBarHelp returns the status bar text for a module.
func (km KeyMap) StatusBarHelp(current Module) string {
	var b strings.Builder
	for _, mk := range km.moduleKeys {
		if mk.module == moduleQuit {
			continue
		}
		b.WriteString("[" + mk.key.label() + "]" + mk.key.Help + " ")
	}

	extra := []Key{km.Select, km.Back}
	if current == ModuleHistory {
		extra = append(extra, km.Search, km.FilterKind)
	}
	for _, k := range extra {
		b.WriteString("[" + k.label() + "]" + k.Help + " ")
	}

	b.WriteString("[Q]uit")
	return b.String()
}
