// Package recording models parsed terminal session recordings.
//
// A Recording is immutable once loaded: a header (grid size, color theme),
// the normalized event list, the derived output-only event list, and the
// duration. Parsing lives in parse.go; nothing mutates a Recording after
// Parse returns it.
package recording

// Event is one raw recording event: a timestamp, an event kind, and the
// kind-specific payload. Only output events ("o") are interpreted during
// replay; all other kinds pass through unmodified on export.
type Event struct {
	Time float64
	Kind string
	Data string
}

// OutputEvent is an output-kind event, with its payload as text.
type OutputEvent struct {
	Time float64
	Text string
}

// Header describes a recording's declared grid and format version.
type Header struct {
	Version int
	Cols    int
	Rows    int

	// Raw is the original header JSON with the events array removed.
	// Export patches this rather than rebuilding the header, so fields
	// this package does not understand survive a round trip.
	Raw string
}

// Recording is a parsed terminal session.
type Recording struct {
	ID       string
	Header   Header
	Theme    Theme
	Events   []Event
	Output   []OutputEvent
	Duration float64
}

// OutputUpTo returns the output events with time <= cutoff.
func (r *Recording) OutputUpTo(cutoff float64) []OutputEvent {
	n := 0
	for n < len(r.Output) && r.Output[n].Time <= cutoff {
		n++
	}
	return r.Output[:n]
}

// OutputIn returns the output events with time in [from, to].
func (r *Recording) OutputIn(from, to float64) []OutputEvent {
	var out []OutputEvent
	for _, ev := range r.Output {
		if ev.Time > to {
			break
		}
		if ev.Time >= from {
			out = append(out, ev)
		}
	}
	return out
}

// EventsIn returns all raw events with time in [from, to].
func (r *Recording) EventsIn(from, to float64) []Event {
	var out []Event
	for _, ev := range r.Events {
		if ev.Time > to {
			break
		}
		if ev.Time >= from {
			out = append(out, ev)
		}
	}
	return out
}
