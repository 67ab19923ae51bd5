// Package backend draws replayed screens onto a live terminal via tcell,
// for the CLI's interactive preview.
package backend

import (
	"github.com/gdamore/tcell/v2"

	"github.com/mchenetz/ascii-edit/internal/recording"
	"github.com/mchenetz/ascii-edit/internal/render/core"
	"github.com/mchenetz/ascii-edit/internal/term"
)

// Terminal owns a tcell screen for the duration of a preview.
type Terminal struct {
	screen tcell.Screen
}

// NewTerminal creates a terminal backend.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// Init takes over the terminal.
func (t *Terminal) Init() error {
	return t.screen.Init()
}

// Shutdown restores the terminal.
func (t *Terminal) Shutdown() {
	t.screen.Fini()
}

// Draw paints a replayed screen, resolving theme defaults, and flushes.
func (t *Terminal) Draw(s *term.Screen, theme recording.Theme) {
	t.screen.Clear()
	for row := 0; row < s.Rows; row++ {
		for col, cell := range s.Line(row) {
			t.screen.SetContent(col, row, cell.Rune, nil, convertStyle(cell.Style, theme))
		}
	}
	curRow, curCol := s.Cursor()
	t.screen.ShowCursor(curCol, curRow)
	t.screen.Show()
}

// Message writes a status line beneath the replayed grid.
func (t *Terminal) Message(row int, text string) {
	style := tcell.StyleDefault.Reverse(true)
	col := 0
	for _, r := range text {
		t.screen.SetContent(col, row, r, nil, style)
		col++
	}
	t.screen.Show()
}

// Action is a decoded preview keypress.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionTogglePause
	ActionSeekBack
	ActionSeekForward
	ActionSlower
	ActionFaster
	ActionRestart
)

// PollAction blocks for the next relevant key event.
func (t *Terminal) PollAction() Action {
	for {
		ev := t.screen.PollEvent()
		key, ok := ev.(*tcell.EventKey)
		if !ok {
			continue
		}
		switch {
		case key.Key() == tcell.KeyEscape || key.Key() == tcell.KeyCtrlC || key.Rune() == 'q':
			return ActionQuit
		case key.Rune() == ' ':
			return ActionTogglePause
		case key.Key() == tcell.KeyLeft:
			return ActionSeekBack
		case key.Key() == tcell.KeyRight:
			return ActionSeekForward
		case key.Rune() == '-':
			return ActionSlower
		case key.Rune() == '+' || key.Rune() == '=':
			return ActionFaster
		case key.Rune() == '0':
			return ActionRestart
		}
	}
}

// HasPendingEvent reports whether a key event is waiting, so the play loop
// can keep ticking without blocking.
func (t *Terminal) HasPendingEvent() bool {
	return t.screen.HasPendingEvent()
}

// convertStyle maps a replayed cell style to tcell, substituting theme
// colors for defaults.
func convertStyle(s core.Style, theme recording.Theme) tcell.Style {
	style := tcell.StyleDefault

	fg := s.Foreground
	if fg.IsDefault() {
		fg = theme.Foreground
	}
	bg := s.Background
	if bg.IsDefault() {
		bg = theme.Background
	}
	style = style.Foreground(convertColor(fg)).Background(convertColor(bg))

	if s.Attributes.Has(core.AttrBold) {
		style = style.Bold(true)
	}
	if s.Attributes.Has(core.AttrDim) {
		style = style.Dim(true)
	}
	if s.Attributes.Has(core.AttrItalic) {
		style = style.Italic(true)
	}
	if s.Attributes.Has(core.AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Attributes.Has(core.AttrBlink) {
		style = style.Blink(true)
	}
	if s.Attributes.Has(core.AttrReverse) {
		style = style.Reverse(true)
	}
	if s.Attributes.Has(core.AttrStrikethrough) {
		style = style.StrikeThrough(true)
	}
	return style
}

func convertColor(c core.Color) tcell.Color {
	if c.Indexed {
		return tcell.PaletteColor(int(c.R))
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
