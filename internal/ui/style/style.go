// Package style provides shared colors and icons for terminal output.
package style

import "github.com/charmbracelet/lipgloss"

// Palette, taken from the Elm logo plus status colors.
var (
	ElmBlue   = lipgloss.Color("#60B5CC")
	ElmOrange = lipgloss.Color("#F0AD00")
	ElmGreen  = lipgloss.Color("#7FD13B")
	Slate     = lipgloss.Color("#667085")
	Red       = lipgloss.Color("#D93025")
	Yellow    = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
)
