// Package output creates termenv outputs with a consistent color profile.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/elmstronaut/internal/ui/style"
)

// ColorProfile returns the color profile for terminal output.
// NO_COLOR forces Ascii; otherwise the terminal's capabilities are detected.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// New creates a termenv.Output writing to w, or to stderr when w is nil.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	return termenv.NewOutput(w, append(opts,
		termenv.WithProfile(ColorProfile()),
		termenv.WithTTY(true),
	)...)
}

// Paint colors text with a palette color in the profile of o.
func Paint(o *termenv.Output, text string, color lipgloss.Color) string {
	return o.String(text).Foreground(o.Color(string(color))).String()
}

// Mark returns a green check for owned references and a slate cross otherwise.
func Mark(o *termenv.Output, owned bool) string {
	if owned {
		return Paint(o, style.Check, style.ElmGreen)
	}
	return Paint(o, style.Cross, style.Slate)
}
