package timeline

import (
	"errors"
	"math"

	"github.com/tidwall/sjson"

	"github.com/mchenetz/ascii-edit/internal/recording"
)

// exportVersion is the format version every export declares, regardless of
// the source recordings' original versions.
const exportVersion = 2

// ErrNoSource is returned when a segment references a recording the
// library does not hold.
var ErrNoSource = errors.New("segment references unknown recording")

// Flatten walks the timeline in play order and produces a single re-timed
// event stream. All raw events of each segment's source interval are kept,
// not just output events; each is mapped onto the composed time axis and
// rounded to microsecond precision. The mapped offset never exceeds the
// segment's timeline duration and the cursor only advances, so the result
// is monotonic non-decreasing by construction.
func (t Timeline) Flatten(lib Library) ([]recording.Event, error) {
	var out []recording.Event
	cursor := 0.0

	for _, seg := range t.Segments {
		rec, ok := lib.Recording(seg.SourceID)
		if !ok {
			return nil, ErrNoSource
		}

		span := seg.End - seg.Start
		for _, ev := range rec.EventsIn(seg.Start, seg.End) {
			mapped := cursor
			if span > 0 {
				mapped += (ev.Time - seg.Start) / span * seg.TimelineDuration
			}
			out = append(out, recording.Event{
				Time: round6(mapped),
				Kind: ev.Kind,
				Data: ev.Data,
			})
		}
		cursor += seg.TimelineDuration
	}
	return out, nil
}

// Export flattens the timeline and emits the full recording JSON: the
// first segment's source header with version forced to exportVersion and
// events replaced by the flattened stream. Header fields this tool does
// not understand pass through unchanged.
func (t Timeline) Export(lib Library) ([]byte, error) {
	if len(t.Segments) == 0 {
		return nil, errors.New("empty timeline")
	}
	rec, ok := lib.Recording(t.Segments[0].SourceID)
	if !ok {
		return nil, ErrNoSource
	}

	events, err := t.Flatten(lib)
	if err != nil {
		return nil, err
	}

	doc, err := sjson.Set(rec.Header.Raw, "version", exportVersion)
	if err != nil {
		return nil, err
	}

	triples := make([][]any, len(events))
	for i, ev := range events {
		triples[i] = []any{ev.Time, ev.Kind, ev.Data}
	}
	doc, err = sjson.Set(doc, "events", triples)
	if err != nil {
		return nil, err
	}
	return []byte(doc), nil
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
