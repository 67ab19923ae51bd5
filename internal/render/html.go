package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/mchenetz/ascii-edit/internal/recording"
	"github.com/mchenetz/ascii-edit/internal/render/core"
	"github.com/mchenetz/ascii-edit/internal/term"
)

// dimBlend is how far a dim run's foreground fades toward the background.
const dimBlend = 0.5

// HTMLRow renders one screen row as a run of styled spans. Run text is
// HTML-escaped.
func HTMLRow(cells []core.Cell, theme recording.Theme) string {
	var b strings.Builder
	for _, run := range RowRuns(cells, theme) {
		b.WriteString(`<span style="`)
		b.WriteString(runCSS(run.Style))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(run.Text))
		b.WriteString(`</span>`)
	}
	return b.String()
}

// HTML renders a complete screen as a <pre> block, one line per row.
func HTML(screen *term.Screen, theme recording.Theme) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<pre style="background-color:%s">`, cssColor(theme.Background))
	b.WriteByte('\n')
	for row := 0; row < screen.Rows; row++ {
		b.WriteString(HTMLRow(screen.Line(row), theme))
		b.WriteByte('\n')
	}
	b.WriteString("</pre>")
	return b.String()
}

func runCSS(s RunStyle) string {
	fg := s.Foreground
	if s.Dim {
		fg = fade(fg, s.Background, dimBlend)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "color:%s;background-color:%s", cssColor(fg), cssColor(s.Background))
	if s.Bold {
		b.WriteString(";font-weight:bold")
	}
	if s.Italic {
		b.WriteString(";font-style:italic")
	}
	switch s.Decoration {
	case DecorationUnderline:
		b.WriteString(";text-decoration:underline")
	case DecorationStrike:
		b.WriteString(";text-decoration:line-through")
	case DecorationUnderlineStrike:
		b.WriteString(";text-decoration:underline line-through")
	}
	return b.String()
}

// fade blends a color toward another in RGB space.
func fade(c, toward core.Color, amount float64) core.Color {
	from := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	to := colorful.Color{R: float64(toward.R) / 255, G: float64(toward.G) / 255, B: float64(toward.B) / 255}
	blended := from.BlendRgb(to, amount)
	r, g, b := blended.RGB255()
	return core.ColorFromRGB(r, g, b)
}

func cssColor(c core.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
