package repr

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// palette holds the styles of one rendering. The zero palette leaves
// text unstyled.
type palette struct {
	typ     lipgloss.Style
	member  lipgloss.Style
	str     lipgloss.Style
	number  lipgloss.Style
	keyword lipgloss.Style
	styled  bool
}

func newPalette(w io.Writer, mode ColorMode) palette {
	if !useColor(w, mode) {
		return palette{}
	}
	r := lipgloss.NewRenderer(w)
	if mode == ColorAlways {
		r.SetColorProfile(termenv.TrueColor)
	}
	return palette{
		typ:     r.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		member:  r.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		str:     r.NewStyle().Foreground(lipgloss.Color("#E6DB74")),
		number:  r.NewStyle().Foreground(lipgloss.Color("#AE81FF")),
		keyword: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")),
		styled:  true,
	}
}

func useColor(w io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorAuto:
		f, ok := w.(*os.File)
		if !ok {
			return false
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	default:
		return false
	}
}

func (p palette) render(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}
