// Package render compresses replayed screen rows into style-homogeneous
// runs and emits them for presentation. The HTML emitter is the default
// presentation target; the backend subpackage draws to a live terminal.
package render

import (
	"github.com/mchenetz/ascii-edit/internal/recording"
	"github.com/mchenetz/ascii-edit/internal/render/core"
)

// Decoration is the combined text decoration of a run.
type Decoration uint8

const (
	DecorationNone Decoration = iota
	DecorationUnderline
	DecorationStrike
	DecorationUnderlineStrike
)

// RunStyle is a fully resolved display style: inverse video has been
// applied as a foreground/background swap, default colors replaced by the
// theme's, and underline/strike folded into one decoration value. Dim is
// kept as a flag so emitters can choose their own reduced-emphasis
// treatment.
type RunStyle struct {
	Foreground core.Color
	Background core.Color
	Bold       bool
	Italic     bool
	Dim        bool
	Decoration Decoration
}

// Run is a maximal stretch of consecutive cells sharing one resolved style.
type Run struct {
	Text  string
	Style RunStyle
}

// resolveStyle flattens a cell style against the theme.
func resolveStyle(s core.Style, theme recording.Theme) RunStyle {
	fg := s.Foreground
	if fg.IsDefault() {
		fg = theme.Foreground
	}
	bg := s.Background
	if bg.IsDefault() {
		bg = theme.Background
	}
	if s.Attributes.Has(core.AttrReverse) {
		fg, bg = bg, fg
	}

	deco := DecorationNone
	switch {
	case s.Attributes.Has(core.AttrUnderline) && s.Attributes.Has(core.AttrStrikethrough):
		deco = DecorationUnderlineStrike
	case s.Attributes.Has(core.AttrUnderline):
		deco = DecorationUnderline
	case s.Attributes.Has(core.AttrStrikethrough):
		deco = DecorationStrike
	}

	return RunStyle{
		Foreground: fg,
		Background: bg,
		Bold:       s.Attributes.Has(core.AttrBold),
		Italic:     s.Attributes.Has(core.AttrItalic),
		Dim:        s.Attributes.Has(core.AttrDim),
		Decoration: deco,
	}
}

// RowRuns walks one screen row left to right and groups consecutive cells
// with identical resolved style into runs.
func RowRuns(cells []core.Cell, theme recording.Theme) []Run {
	if len(cells) == 0 {
		return nil
	}

	var runs []Run
	current := resolveStyle(cells[0].Style, theme)
	text := make([]rune, 0, len(cells))

	flush := func() {
		if len(text) > 0 {
			runs = append(runs, Run{Text: string(text), Style: current})
			text = text[:0]
		}
	}

	for _, cell := range cells {
		style := resolveStyle(cell.Style, theme)
		if style != current {
			flush()
			current = style
		}
		r := cell.Rune
		if r == 0 {
			r = ' '
		}
		text = append(text, r)
	}
	flush()
	return runs
}
