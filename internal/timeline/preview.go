package timeline

import (
	"github.com/mchenetz/ascii-edit/internal/recording"
)

// styleReset is injected between events drawn from different segments so a
// clip never inherits color or attributes left over from an unrelated
// earlier clip.
const styleReset = "\x1b[0m"

// EventsUpTo collects the output events needed to render the timeline at
// time tt: every event of each segment fully before tt, and the events of
// the containing segment up to the mapped source cutoff. The result is one
// continuous stream suitable for a single replay; it may draw on multiple
// source recordings.
func (t Timeline) EventsUpTo(tt float64, lib Library) []recording.OutputEvent {
	var out []recording.OutputEvent
	cum := 0.0

	for _, seg := range t.Segments {
		rec, ok := lib.Recording(seg.SourceID)
		if !ok {
			cum += seg.TimelineDuration
			continue
		}

		next := cum + seg.TimelineDuration
		cutoff := seg.End
		last := tt < next
		if last {
			cutoff = seg.SourceTimeAt(tt - cum)
		}

		if len(out) > 0 {
			out = append(out, recording.OutputEvent{Time: cum, Text: styleReset})
		}
		out = append(out, rebase(rec.OutputIn(seg.Start, cutoff), seg, cum)...)

		if last {
			break
		}
		cum = next
	}
	return out
}

// rebase shifts a segment's events onto the composed time axis via the
// segment's time mapping. Replay only cares about order, but rebased times
// keep the stream monotonic for anything that inspects them.
func rebase(events []recording.OutputEvent, seg Segment, cum float64) []recording.OutputEvent {
	out := make([]recording.OutputEvent, len(events))
	for i, ev := range events {
		out[i] = recording.OutputEvent{Time: cum + seg.OffsetOf(ev.Time), Text: ev.Text}
	}
	return out
}
