// Package timeline implements non-destructive composition of recorded
// terminal sessions. A Timeline is an ordered list of segments, each
// referencing a sub-interval of a source recording plus an independently
// adjustable display duration. Edit operations are pure: each takes a
// Timeline value and returns a new valid Timeline, or declines with an
// error wrapping ErrDeclined and leaves the input untouched.
package timeline

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mchenetz/ascii-edit/internal/recording"
)

// ErrDeclined marks an edit that was refused for violating a policy
// invariant. Check with errors.Is; the wrapped message says why.
var ErrDeclined = errors.New("edit declined")

func declined(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDeclined, fmt.Sprintf(format, args...))
}

const (
	// minSourceSpan is the smallest source interval a split may produce.
	minSourceSpan = 0.01

	// healTolerance is the largest source-time gap heal will bridge.
	healTolerance = 0.02
)

// Library resolves recording ids to recordings. The session's recording
// store implements it.
type Library interface {
	Recording(id string) (*recording.Recording, bool)
}

// Segment references an interval of a source recording's time axis.
// TimelineDuration is the length the segment occupies on the edited
// timeline, independent of End-Start, which is what makes speed changes
// possible.
type Segment struct {
	ID       string
	Label    string
	SourceID string

	// Start and End bound the source interval: 0 <= Start < End <= duration.
	Start float64
	End   float64

	// TimelineDuration is the segment's span on the composed timeline, > 0.
	TimelineDuration float64
}

// NewSegment creates a segment over [start, end) of a source with a 1:1
// display duration.
func NewSegment(sourceID string, start, end float64) Segment {
	return Segment{
		ID:               uuid.NewString(),
		SourceID:         sourceID,
		Start:            start,
		End:              end,
		TimelineDuration: end - start,
	}
}

// SegmentForRecording creates the initial segment spanning a whole
// recording.
func SegmentForRecording(rec *recording.Recording) Segment {
	seg := NewSegment(rec.ID, 0, rec.Duration)
	seg.Label = "clip 1"
	return seg
}

// SourceSpan returns the length of the referenced source interval.
func (s Segment) SourceSpan() float64 {
	return s.End - s.Start
}

// SourceTimeAt maps an offset into the segment's timeline span to a source
// time. A non-positive TimelineDuration degenerates to ratio 1.
func (s Segment) SourceTimeAt(offset float64) float64 {
	ratio := 1.0
	if s.TimelineDuration > 0 {
		ratio = offset / s.TimelineDuration
	}
	return s.Start + ratio*(s.End-s.Start)
}

// OffsetOf is the exact algebraic inverse of SourceTimeAt.
func (s Segment) OffsetOf(sourceTime float64) float64 {
	span := s.End - s.Start
	if span == 0 {
		return 0
	}
	return (sourceTime - s.Start) / span * s.TimelineDuration
}

// clone returns a copy of the segment under a fresh id.
func (s Segment) clone() Segment {
	s.ID = uuid.NewString()
	return s
}

// Timeline is an ordered sequence of segments; order is play order.
type Timeline struct {
	Segments []Segment
}

// New creates a timeline with one segment spanning an entire recording.
func New(rec *recording.Recording) Timeline {
	return Timeline{Segments: []Segment{SegmentForRecording(rec)}}
}

// Clone returns a deep copy; edit operations mutate only their copy.
func (t Timeline) Clone() Timeline {
	segs := make([]Segment, len(t.Segments))
	copy(segs, t.Segments)
	return Timeline{Segments: segs}
}

// ComposedDuration is the sum of all segments' timeline durations.
func (t Timeline) ComposedDuration() float64 {
	total := 0.0
	for _, s := range t.Segments {
		total += s.TimelineDuration
	}
	return total
}

// IndexOf returns the position of a segment by id, or -1.
func (t Timeline) IndexOf(id string) int {
	for i, s := range t.Segments {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Segment returns a segment by id.
func (t Timeline) Segment(id string) (Segment, bool) {
	if i := t.IndexOf(id); i >= 0 {
		return t.Segments[i], true
	}
	return Segment{}, false
}

// rangeOf returns the cumulative timeline range [start, end) of the
// segment at index i.
func (t Timeline) rangeOf(i int) (start, end float64) {
	for j := 0; j < i; j++ {
		start += t.Segments[j].TimelineDuration
	}
	return start, start + t.Segments[i].TimelineDuration
}

// SegmentAt returns the segment covering timeline time tt along with its
// cumulative start. The final segment also covers tt == composedDuration.
func (t Timeline) SegmentAt(tt float64) (Segment, float64, bool) {
	cum := 0.0
	for i, s := range t.Segments {
		next := cum + s.TimelineDuration
		if tt < next || (i == len(t.Segments)-1 && tt <= next) {
			return s, cum, true
		}
		cum = next
	}
	return Segment{}, 0, false
}

// SourceTimeFor maps a timeline time to (segment, source time).
func (t Timeline) SourceTimeFor(tt float64) (Segment, float64, bool) {
	seg, cum, ok := t.SegmentAt(tt)
	if !ok {
		return Segment{}, 0, false
	}
	return seg, seg.SourceTimeAt(tt - cum), true
}
