package term

import (
	"github.com/mchenetz/ascii-edit/internal/recording"
	"github.com/mchenetz/ascii-edit/internal/render/core"
)

// cubeSteps maps a 6x6x6 cube coordinate to its channel intensity.
var cubeSteps = [6]uint8{0, 95, 135, 175, 215, 255}

// Resolve256 maps a 256-color palette index to a concrete color. Indices
// 0-15 come from the recording's palette; 16-231 are the color cube;
// 232-255 are the grayscale ramp.
func Resolve256(index int, theme recording.Theme) core.Color {
	switch {
	case index < 0:
		return theme.Palette[0]
	case index < 16:
		return theme.Palette[index]
	case index < 232:
		cube := index - 16
		r := cubeSteps[cube/36]
		g := cubeSteps[(cube%36)/6]
		b := cubeSteps[cube%6]
		return core.ColorFromRGB(r, g, b)
	case index < 256:
		level := uint8(8 + 10*(index-232))
		return core.ColorFromRGB(level, level, level)
	default:
		return theme.Palette[15]
	}
}

// resolveTrue builds a truecolor value, clamping each channel to [0, 255].
func resolveTrue(r, g, b int) core.Color {
	return core.ColorFromRGB(clampChannel(r), clampChannel(g), clampChannel(b))
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
