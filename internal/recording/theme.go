package recording

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/mchenetz/ascii-edit/internal/render/core"
)

// Theme holds a recording's default colors and 16-color palette.
type Theme struct {
	Foreground core.Color
	Background core.Color
	Palette    [16]core.Color
}

// defaultPalette is the standard xterm 16-color palette, used when a
// recording does not carry its own.
var defaultPalette = [16]core.Color{
	core.ColorFromRGB(0, 0, 0),       // black
	core.ColorFromRGB(205, 49, 49),   // red
	core.ColorFromRGB(13, 188, 121),  // green
	core.ColorFromRGB(229, 229, 16),  // yellow
	core.ColorFromRGB(36, 114, 200),  // blue
	core.ColorFromRGB(188, 63, 188),  // magenta
	core.ColorFromRGB(17, 168, 205),  // cyan
	core.ColorFromRGB(229, 229, 229), // white
	core.ColorFromRGB(102, 102, 102), // bright black
	core.ColorFromRGB(241, 76, 76),   // bright red
	core.ColorFromRGB(35, 209, 139),  // bright green
	core.ColorFromRGB(245, 245, 67),  // bright yellow
	core.ColorFromRGB(59, 142, 234),  // bright blue
	core.ColorFromRGB(214, 112, 214), // bright magenta
	core.ColorFromRGB(41, 184, 219),  // bright cyan
	core.ColorFromRGB(229, 229, 229), // bright white
}

// DefaultTheme returns the theme used when a recording has none.
func DefaultTheme() Theme {
	return Theme{
		Foreground: core.ColorFromRGB(212, 212, 212),
		Background: core.ColorFromRGB(30, 30, 30),
		Palette:    defaultPalette,
	}
}

// parseHexColor parses a "#rrggbb" color, falling back to fallback on
// malformed input.
func parseHexColor(s string, fallback core.Color) core.Color {
	c, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	r, g, b := c.RGB255()
	return core.ColorFromRGB(r, g, b)
}

// parsePalette parses a colon-separated list of hex colors. Entries beyond
// the first 16 are ignored; missing or malformed entries keep the default.
func parsePalette(s string, fallback [16]core.Color) [16]core.Color {
	out := fallback
	for i, part := range strings.Split(s, ":") {
		if i >= len(out) {
			break
		}
		out[i] = parseHexColor(part, out[i])
	}
	return out
}
