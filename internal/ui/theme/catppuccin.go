package theme

import (
	"regexp"

	"github.com/charmbracelet/lipgloss"
)

var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")

	Title  = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted  = lipgloss.NewStyle().Foreground(Subtext0)
	Hot    = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Notice = lipgloss.NewStyle().Foreground(Base).Background(Peach).Bold(true).Padding(0, 1)
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Swatch renders in an activity's own color, falling back to Lavender for
// values that are not #RRGGBB.
func Swatch(color string) lipgloss.Style {
	if !hexColor.MatchString(color) {
		return lipgloss.NewStyle().Foreground(Lavender)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}
