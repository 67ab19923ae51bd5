package term

import (
	"strings"

	"github.com/mchenetz/ascii-edit/internal/recording"
	"github.com/mchenetz/ascii-edit/internal/render/core"
)

// Interpreter states.
type interpState int

const (
	stateGround interpState = iota
	stateEscape             // after ESC
	stateCSI                // after ESC [
	stateSkip               // inside OSC/DCS/SOS/PM/APC, skipping to terminator
	stateSkipEsc            // inside a skipped string, after ESC (ST pending)
	stateCharset            // after ESC ( ) * or +, one designator byte follows
)

// Interpreter consumes raw terminal output and drives a Screen. It tracks
// the current style, which carries forward across writes until changed or
// reset. Malformed or truncated sequences are skipped, never an error.
type Interpreter struct {
	screen *Screen
	theme  recording.Theme
	style  core.Style

	state  interpState
	params []int
	numBuf strings.Builder
}

// NewInterpreter creates an interpreter over a blank screen with the
// default style.
func NewInterpreter(rows, cols int, theme recording.Theme) *Interpreter {
	return &Interpreter{
		screen: NewScreen(rows, cols),
		theme:  theme,
		style:  core.DefaultStyle(),
		params: make([]int, 0, 16),
	}
}

// Screen returns the screen being driven.
func (in *Interpreter) Screen() *Screen {
	return in.screen
}

// Style returns the current pending style.
func (in *Interpreter) Style() core.Style {
	return in.style
}

// Write feeds a chunk of recorded output through the state machine.
func (in *Interpreter) Write(text string) {
	for _, r := range text {
		in.process(r)
	}
}

func (in *Interpreter) process(r rune) {
	switch in.state {
	case stateGround:
		in.ground(r)
	case stateEscape:
		in.escape(r)
	case stateCSI:
		in.csi(r)
	case stateSkip:
		switch r {
		case 0x07: // BEL terminates OSC
			in.state = stateGround
		case 0x1B:
			in.state = stateSkipEsc
		}
	case stateSkipEsc:
		if r == '\\' { // ST
			in.state = stateGround
		} else if r != 0x1B {
			in.state = stateSkip
		}
	case stateCharset:
		in.state = stateGround
	}
}

func (in *Interpreter) ground(r rune) {
	switch r {
	case 0x1B:
		in.state = stateEscape
	case '\n', 0x0B, 0x0C:
		in.screen.LineFeed()
	case '\r':
		in.screen.CarriageReturn()
	case '\b':
		in.screen.Backspace()
	case '\t':
		_, col := in.screen.Cursor()
		next := (col/8 + 1) * 8
		if next > in.screen.Cols-1 {
			next = in.screen.Cols - 1
		}
		in.screen.MoveCursor(0, next-col)
	default:
		if r >= 0x20 && r != 0x7F {
			in.screen.Put(r, in.style)
		}
	}
}

func (in *Interpreter) escape(r rune) {
	switch r {
	case '[': // CSI
		in.state = stateCSI
		in.params = in.params[:0]
		in.numBuf.Reset()
	case ']', 'P', 'X', '^', '_': // OSC, DCS, SOS, PM, APC
		in.state = stateSkip
	case '(', ')', '*', '+', '#': // charset designation, one byte follows
		in.state = stateCharset
	default:
		// Unrecognized escape: accept and move on.
		in.state = stateGround
	}
}

func (in *Interpreter) csi(r rune) {
	switch {
	case r >= '0' && r <= '9':
		in.numBuf.WriteRune(r)
	case r == ';' || r == ':':
		in.pushParam()
	case r == '?' || r == '>' || r == '<' || r == '!' || r == '=':
		// Private sequence marker; the final byte decides what happens
		// and none of the private finals move the cursor here.
	case r >= 0x20 && r <= 0x2F:
		// Intermediate byte; consumed.
		in.pushParam()
	case r >= 0x40 && r <= 0x7E:
		in.pushParam()
		in.executeCSI(byte(r))
		in.state = stateGround
	default:
		// Stray control or junk inside a CSI sequence: best-effort skip.
		in.state = stateGround
	}
}

func (in *Interpreter) pushParam() {
	s := in.numBuf.String()
	in.numBuf.Reset()
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	in.params = append(in.params, n)
}

// param returns the parameter at idx, substituting def when it is absent
// or zero.
func (in *Interpreter) param(idx, def int) int {
	if idx < len(in.params) && in.params[idx] > 0 {
		return in.params[idx]
	}
	return def
}

func (in *Interpreter) executeCSI(final byte) {
	s := in.screen
	switch final {
	case 'A': // CUU - cursor up
		s.MoveCursor(-in.param(0, 1), 0)
	case 'B': // CUD - cursor down
		s.MoveCursor(in.param(0, 1), 0)
	case 'C': // CUF - cursor forward
		s.MoveCursor(0, in.param(0, 1))
	case 'D': // CUB - cursor backward
		s.MoveCursor(0, -in.param(0, 1))
	case 'H', 'f': // CUP/HVP - cursor position, 1-based row;col
		s.SetCursor(in.param(0, 1)-1, in.param(1, 1)-1)
	case 'J': // ED - erase in display
		mode := 0
		if len(in.params) > 0 {
			mode = in.params[0]
		}
		if mode == 3 {
			mode = EraseAll
		}
		s.EraseDisplay(mode)
	case 'K': // EL - erase in line
		mode := 0
		if len(in.params) > 0 {
			mode = in.params[0]
		}
		s.EraseLine(mode)
	case 'm': // SGR
		in.executeSGR()
	default:
		// Unrecognized final byte: accepted, screen unchanged.
	}
}

func (in *Interpreter) executeSGR() {
	params := in.params
	if len(params) == 0 {
		params = []int{0}
	}

	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p == 0:
			in.style = core.DefaultStyle()
		case p == 1:
			in.style = in.style.Bold()
		case p == 2:
			in.style = in.style.Dim()
		case p == 3:
			in.style = in.style.Italic()
		case p == 4:
			in.style = in.style.Underline()
		case p == 5 || p == 6:
			in.style.Attributes = in.style.Attributes.With(core.AttrBlink)
		case p == 7:
			in.style = in.style.Reverse()
		case p == 9:
			in.style = in.style.Strikethrough()
		case p == 22:
			in.style.Attributes = in.style.Attributes.Without(core.AttrBold | core.AttrDim)
		case p == 23:
			in.style.Attributes = in.style.Attributes.Without(core.AttrItalic)
		case p == 24:
			in.style.Attributes = in.style.Attributes.Without(core.AttrUnderline)
		case p == 25:
			in.style.Attributes = in.style.Attributes.Without(core.AttrBlink)
		case p == 27:
			in.style.Attributes = in.style.Attributes.Without(core.AttrReverse)
		case p == 29:
			in.style.Attributes = in.style.Attributes.Without(core.AttrStrikethrough)
		case p >= 30 && p <= 37:
			in.style.Foreground = in.theme.Palette[p-30]
		case p == 38:
			color, used := in.extendedColor(params[i+1:])
			if used > 0 {
				in.style.Foreground = color
				i += used
			}
		case p == 39:
			in.style.Foreground = core.ColorDefault
		case p >= 40 && p <= 47:
			in.style.Background = in.theme.Palette[p-40]
		case p == 48:
			color, used := in.extendedColor(params[i+1:])
			if used > 0 {
				in.style.Background = color
				i += used
			}
		case p == 49:
			in.style.Background = core.ColorDefault
		case p >= 90 && p <= 97:
			in.style.Foreground = in.theme.Palette[p-90+8]
		case p >= 100 && p <= 107:
			in.style.Background = in.theme.Palette[p-100+8]
		}
	}
}

// extendedColor parses the tail of an SGR 38/48 parameter list: 5;N for a
// 256-color index or 2;R;G;B for truecolor. Returns the resolved color and
// how many parameters were consumed; a malformed tail consumes nothing.
func (in *Interpreter) extendedColor(rest []int) (core.Color, int) {
	if len(rest) >= 2 && rest[0] == 5 {
		return Resolve256(rest[1], in.theme), 2
	}
	if len(rest) >= 4 && rest[0] == 2 {
		return resolveTrue(rest[1], rest[2], rest[3]), 4
	}
	return core.Color{}, 0
}
