package style

import "github.com/charmbracelet/lipgloss"

// Fixed hex colors for boxes and item kinds, independent of the terminal theme.
var (
	Alert   = lipgloss.Color("#f38ba8")
	Hint    = lipgloss.Color("#fab387")
	Body    = lipgloss.Color("#cdd6f4")
	Unknown = lipgloss.Color("#6c7086")
)

var kindColors = map[string]lipgloss.Color{
	"feature":     "#fab387",
	"trivia":      "#94e2d5",
	"slideshow":   "#89dceb",
	"trailer":     "#cba6f7",
	"video":       "#89b4fa",
	"audioformat": "#b4befe",
	"action":      "#f9e2af",
	"command":     "#f5c2e7",
}

// Kind colors an item kind name in listings and timeline tables.
func Kind(kind string) string {
	c, ok := kindColors[kind]
	if !ok {
		c = Unknown
	}
	return Fg(c)(kind)
}
