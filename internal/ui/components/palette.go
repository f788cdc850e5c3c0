package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tempo/internal/ui/theme"
)

// PaletteSubmitMsg carries the confirmed command line.
type PaletteSubmitMsg struct{ Input string }

type PaletteCancelMsg struct{}

// Hint is one palette command. Verb must stay in sync with the switch in
// app/model.go executePalette.
type Hint struct {
	Verb  string
	Args  string
	Usage string
	// Global commands do not need a selected activity.
	Global bool
}

var Hints = []Hint{
	{Verb: "track", Usage: "record now, or start a session"},
	{Verb: "stop", Usage: "end the running session"},
	{Verb: "new", Args: "<name> [instant|duration]", Usage: "create an activity", Global: true},
	{Verb: "rename", Args: "<name>", Usage: "rename the selection"},
	{Verb: "color", Args: "<#RRGGBB>", Usage: "recolor the selection"},
	{Verb: "remind", Args: "<h> <m> <s> [message]", Usage: "remind after a quiet period"},
	{Verb: "remind:off", Usage: "turn the reminder off"},
	{Verb: "delete", Usage: "delete the selection and its records"},
	{Verb: "flush", Usage: "write pending changes now", Global: true},
}

const maxHints = 6

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	verbStyle  = lipgloss.NewStyle().Foreground(theme.Lavender)
	usageStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

type Palette struct {
	input   textinput.Model
	visible bool
	width   int
	target  string
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "track, remind 0 30 0, new Reading…"
	ti.CharLimit = 256
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows the palette for the named activity; target may be empty.
func (p *Palette) Open(target string) tea.Cmd {
	p.visible = true
	p.target = target
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

// Matching returns the hints whose verb starts with the typed verb, or whose
// usage mentions it. Commands needing a selection are hidden without one.
func (p Palette) Matching() []Hint {
	return matchHints(p.input.Value(), p.target != "")
}

func matchHints(value string, hasTarget bool) []Hint {
	fields := strings.Fields(strings.ToLower(value))
	var out []Hint
	for _, h := range Hints {
		if !h.Global && !hasTarget {
			continue
		}
		if len(fields) == 0 || strings.HasPrefix(h.Verb, fields[0]) ||
			(len(fields) == 1 && strings.Contains(strings.ToLower(h.Usage), fields[0])) {
			out = append(out, h)
		}
	}
	return out
}

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "tab":
			// Completes the verb only while it is still being typed.
			if m := p.Matching(); len(m) > 0 && !strings.Contains(p.input.Value(), " ") {
				p.input.SetValue(m[0].Verb + " ")
				p.input.CursorEnd()
			}
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	title := "Commands"
	if p.target != "" {
		title += " for " + p.target
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render(title) + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if hints := p.Matching(); len(hints) > 0 {
		sb.WriteString("\n")
		for i, h := range hints {
			if i == maxHints {
				break
			}
			verb := h.Verb
			if h.Args != "" {
				verb += " " + h.Args
			}
			sb.WriteString("  " + verbStyle.Render(verb) + "  " + usageStyle.Render(h.Usage) + "\n")
		}
		sb.WriteString(usageStyle.Render("\n  tab completes, enter runs, esc closes"))
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}
