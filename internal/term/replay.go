package term

import (
	"github.com/mchenetz/ascii-edit/internal/recording"
)

// Replay interprets a prefix of output events and returns the resulting
// screen. It always starts from a blank grid, default style, cursor at the
// origin: style and cursor state are history-dependent, so replay is a pure
// function of the event prefix, never incremental.
func Replay(events []recording.OutputEvent, rows, cols int, theme recording.Theme) *Screen {
	in := NewInterpreter(rows, cols, theme)
	for _, ev := range events {
		in.Write(ev.Text)
	}
	return in.Screen()
}

// ReplayRecording renders a single recording at the given source time.
func ReplayRecording(rec *recording.Recording, t float64) *Screen {
	return Replay(rec.OutputUpTo(t), rec.Header.Rows, rec.Header.Cols, rec.Theme)
}
