package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// defaultLabelWidth is the label column of inputs rendered with Render.
const defaultLabelWidth = 10

// InputStyles are the styles of Input and Select.
type InputStyles struct {
	Label  lipgloss.Style
	Value  lipgloss.Style
	Focus  lipgloss.Style
	Muted  lipgloss.Style
	Option lipgloss.Style
}

// DefaultInputStyles returns uncolored input styles.
func DefaultInputStyles() InputStyles {
	return InputStyles{
		Label:  lipgloss.NewStyle(),
		Value:  lipgloss.NewStyle(),
		Focus:  lipgloss.NewStyle().Bold(true),
		Muted:  lipgloss.NewStyle().Faint(true),
		Option: lipgloss.NewStyle(),
	}
}

// Input is a single-line text input, used for search terms.
type Input struct {
	label       string
	value       string
	placeholder string
	width       int
	focused     bool
	cursorPos   int
	maxLength   int
	styles      InputStyles
}

// NewInput creates a new input field.
func NewInput(label string) *Input {
	return &Input{
		label:     label,
		width:     20,
		maxLength: 64,
		styles:    DefaultInputStyles(),
	}
}

// SetValue sets the input value.
func (i *Input) SetValue(v string) *Input {
	i.value = v
	i.cursorPos = len(v)
	return i
}

// SetPlaceholder sets the placeholder text.
func (i *Input) SetPlaceholder(p string) *Input {
	i.placeholder = p
	return i
}

// SetWidth sets the input width.
func (i *Input) SetWidth(w int) *Input {
	i.width = w
	return i
}

// SetMaxLength sets the maximum input length.
func (i *Input) SetMaxLength(m int) *Input {
	i.maxLength = m
	return i
}

// SetStyles sets the input styles.
func (i *Input) SetStyles(s InputStyles) *Input {
	i.styles = s
	return i
}

// Focus sets the focus state.
func (i *Input) Focus(focused bool) {
	i.focused = focused
	if focused && i.cursorPos > len(i.value) {
		i.cursorPos = len(i.value)
	}
}

// IsFocused returns the focus state.
func (i *Input) IsFocused() bool {
	return i.focused
}

// Value returns the current value, trimmed.
func (i *Input) Value() string {
	return strings.TrimSpace(i.value)
}

// HandleKey handles a key press.
func (i *Input) HandleKey(key string) {
	if !i.focused {
		return
	}

	switch key {
	case "backspace":
		if i.cursorPos > 0 {
			i.value = i.value[:i.cursorPos-1] + i.value[i.cursorPos:]
			i.cursorPos--
		}
	case "delete":
		if i.cursorPos < len(i.value) {
			i.value = i.value[:i.cursorPos] + i.value[i.cursorPos+1:]
		}
	case "left":
		if i.cursorPos > 0 {
			i.cursorPos--
		}
	case "right":
		if i.cursorPos < len(i.value) {
			i.cursorPos++
		}
	case "home", "ctrl+a":
		i.cursorPos = 0
	case "end", "ctrl+e":
		i.cursorPos = len(i.value)
	case "ctrl+u":
		i.value = i.value[i.cursorPos:]
		i.cursorPos = 0
	default:
		// Printable ASCII only; species ids and exhibit names are plain.
		if len(key) == 1 && key[0] >= ' ' && key[0] <= '~' && len(i.value) < i.maxLength {
			i.value = i.value[:i.cursorPos] + key + i.value[i.cursorPos:]
			i.cursorPos++
		}
	}
}

// Render renders the input with the default label width.
func (i *Input) Render() string {
	return i.RenderWithLabelWidth(defaultLabelWidth)
}

// RenderWithLabelWidth renders the input; a label width of 0 hides the
// label.
func (i *Input) RenderWithLabelWidth(labelWidth int) string {
	var display string
	switch {
	case i.value == "" && i.placeholder != "" && !i.focused:
		display = i.styles.Muted.Render(i.placeholder)
	case i.focused:
		display = i.styles.Focus.Render(i.value[:i.cursorPos] + "_" + i.value[i.cursorPos:])
	default:
		display = i.styles.Value.Render(i.value)
	}

	if w := lipgloss.Width(display); w < i.width {
		display += strings.Repeat(" ", i.width-w)
	}

	if labelWidth <= 0 {
		return display
	}
	return i.styles.Label.Width(labelWidth).Render(i.label+":") + " " + display
}

// Select is a selection input component.
type Select struct {
	label    string
	options  []string
	selected int
	focused  bool
	styles   InputStyles
}

// NewSelect creates a new select input.
func NewSelect(label string, options []string) *Select {
	return &Select{
		label:   label,
		options: options,
		styles:  DefaultInputStyles(),
	}
}

// SetSelected sets the selected index.
func (s *Select) SetSelected(idx int) *Select {
	if idx >= 0 && idx < len(s.options) {
		s.selected = idx
	}
	return s
}

// SetStyles sets the select styles.
func (s *Select) SetStyles(st InputStyles) *Select {
	s.styles = st
	return s
}

// Focus sets the focus state.
func (s *Select) Focus(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state.
func (s *Select) IsFocused() bool {
	return s.focused
}

// Value returns the selected value.
func (s *Select) Value() string {
	if s.selected >= 0 && s.selected < len(s.options) {
		return s.options[s.selected]
	}
	return ""
}

// SelectedIndex returns the selected index.
func (s *Select) SelectedIndex() int {
	return s.selected
}

// Cycle selects the next option, wrapping around.
func (s *Select) Cycle() {
	if len(s.options) > 0 {
		s.selected = (s.selected + 1) % len(s.options)
	}
}

// HandleKey handles a key press.
func (s *Select) HandleKey(key string) {
	if !s.focused {
		return
	}

	switch key {
	case "left", "h":
		if s.selected > 0 {
			s.selected--
		}
	case "right", "l":
		if s.selected < len(s.options)-1 {
			s.selected++
		}
	}
}

// Render renders the select with the default label width.
func (s *Select) Render() string {
	return s.RenderWithLabelWidth(defaultLabelWidth)
}

// RenderWithLabelWidth renders the select; a label width of 0 hides the
// label.
func (s *Select) RenderWithLabelWidth(labelWidth int) string {
	var b strings.Builder
	if labelWidth > 0 {
		b.WriteString(s.styles.Label.Width(labelWidth).Render(s.label + ":"))
		b.WriteString(" ")
	}

	for i, opt := range s.options {
		if i > 0 {
			b.WriteString(" ")
		}

		switch {
		case i == s.selected && s.focused:
			b.WriteString(s.styles.Focus.Render("[" + opt + "]"))
		case i == s.selected:
			b.WriteString(s.styles.Focus.Render("(" + opt + ")"))
		default:
			b.WriteString(s.styles.Option.Render(" " + opt + " "))
		}
	}

	return b.String()
}
