package timeline

// Edit operations. Every operation is a pure function from a Timeline value
// to a new Timeline; policy violations return an ErrDeclined-wrapped error
// and the input is never partially updated.

// Edge selects which boundary of a segment a trim moves.
type Edge int

const (
	EdgeLeft Edge = iota
	EdgeRight
)

// Insert appends a new segment over [in, out) of a source.
func (t Timeline) Insert(sourceID string, in, out float64) (Timeline, error) {
	if out <= in {
		return t, declined("insert range [%v, %v) is empty", in, out)
	}
	nt := t.Clone()
	nt.Segments = append(nt.Segments, NewSegment(sourceID, in, out))
	return nt, nil
}

// InsertAt inserts a new segment at the boundary nearest atTime, judged
// against the half-point of each existing segment's span.
func (t Timeline) InsertAt(sourceID string, in, out, atTime float64) (Timeline, error) {
	if out <= in {
		return t, declined("insert range [%v, %v) is empty", in, out)
	}
	idx := 0
	cum := 0.0
	for i, s := range t.Segments {
		if atTime >= cum+s.TimelineDuration/2 {
			idx = i + 1
		}
		cum += s.TimelineDuration
	}
	nt := t.Clone()
	seg := NewSegment(sourceID, in, out)
	nt.Segments = append(nt.Segments[:idx], append([]Segment{seg}, nt.Segments[idx:]...)...)
	return nt, nil
}

// Split cuts the segment strictly containing timeline time tt into two
// segments with contiguous source ranges. Declines on a boundary, at the
// timeline's ends, or when either resulting source interval would be
// shorter than minSourceSpan.
func (t Timeline) Split(tt float64) (Timeline, error) {
	if tt <= 0 || tt >= t.ComposedDuration() {
		return t, declined("split point %v outside the timeline", tt)
	}

	cum := 0.0
	for i, s := range t.Segments {
		next := cum + s.TimelineDuration
		if tt == next || tt == cum {
			return t, declined("split point %v is an existing boundary", tt)
		}
		if tt > cum && tt < next {
			ratio := (tt - cum) / s.TimelineDuration
			srcSplit := s.Start + ratio*(s.End-s.Start)
			if srcSplit-s.Start < minSourceSpan || s.End-srcSplit < minSourceSpan {
				return t, declined("split too close to a source boundary")
			}

			left := NewSegment(s.SourceID, s.Start, srcSplit)
			left.Label = s.Label
			left.TimelineDuration = s.TimelineDuration * ratio
			right := NewSegment(s.SourceID, srcSplit, s.End)
			right.Label = s.Label
			right.TimelineDuration = s.TimelineDuration * (1 - ratio)

			nt := t.Clone()
			nt.Segments = append(nt.Segments[:i], append([]Segment{left, right}, nt.Segments[i+1:]...)...)
			return nt, nil
		}
		cum = next
	}
	return t, declined("split point %v not inside any segment", tt)
}

// Trim moves one edge of a segment to a new source-time boundary, clamped
// to the source's extent and so that start stays below end. The segment is
// re-timed 1:1: its timeline duration becomes the new source span.
func (t Timeline) Trim(lib Library, segmentID string, edge Edge, boundary float64) (Timeline, error) {
	i := t.IndexOf(segmentID)
	if i < 0 {
		return t, declined("no segment %s", segmentID)
	}
	s := t.Segments[i]

	maxEnd := s.End
	if rec, ok := lib.Recording(s.SourceID); ok {
		maxEnd = rec.Duration
	}

	switch edge {
	case EdgeLeft:
		s.Start = clampF(boundary, 0, s.End-minSourceSpan)
	case EdgeRight:
		s.End = clampF(boundary, s.Start+minSourceSpan, maxEnd)
	}
	s.TimelineDuration = s.End - s.Start

	nt := t.Clone()
	nt.Segments[i] = s
	return nt, nil
}

// Move relocates a segment adjacent to another. Moving a segment next to
// itself is a no-op.
func (t Timeline) Move(segmentID, targetID string, placeAfter bool) (Timeline, error) {
	if segmentID == targetID {
		return t, nil
	}
	from := t.IndexOf(segmentID)
	if from < 0 {
		return t, declined("no segment %s", segmentID)
	}
	if t.IndexOf(targetID) < 0 {
		return t, declined("no segment %s", targetID)
	}

	nt := t.Clone()
	moved := nt.Segments[from]
	nt.Segments = append(nt.Segments[:from], nt.Segments[from+1:]...)

	to := nt.IndexOf(targetID)
	if placeAfter {
		to++
	}
	nt.Segments = append(nt.Segments[:to], append([]Segment{moved}, nt.Segments[to:]...)...)
	return nt, nil
}

// Delete removes a segment. Declines if it would empty the timeline.
func (t Timeline) Delete(segmentID string) (Timeline, error) {
	i := t.IndexOf(segmentID)
	if i < 0 {
		return t, declined("no segment %s", segmentID)
	}
	if len(t.Segments) == 1 {
		return t, declined("cannot remove the last segment")
	}
	nt := t.Clone()
	nt.Segments = append(nt.Segments[:i], nt.Segments[i+1:]...)
	return nt, nil
}

// Heal merges two timeline-adjacent segments whose source ranges are
// contiguous within healTolerance and which reference the same source.
func (t Timeline) Heal(firstID, secondID string) (Timeline, error) {
	i := t.IndexOf(firstID)
	j := t.IndexOf(secondID)
	if i < 0 || j < 0 {
		return t, declined("no such segment pair")
	}
	if j != i+1 {
		return t, declined("segments are not adjacent")
	}
	a, b := t.Segments[i], t.Segments[j]
	if a.SourceID != b.SourceID {
		return t, declined("segments reference different sources")
	}
	if gap := a.End - b.Start; gap > healTolerance || gap < -healTolerance {
		return t, declined("source ranges are not contiguous")
	}

	merged := NewSegment(a.SourceID, a.Start, b.End)
	merged.Label = a.Label
	merged.TimelineDuration = a.TimelineDuration + b.TimelineDuration

	nt := t.Clone()
	nt.Segments = append(nt.Segments[:i], append([]Segment{merged}, nt.Segments[j+1:]...)...)
	return nt, nil
}

// Scale re-times a selection to a target total number of seconds. A single
// segment's duration is set directly; a multi-segment selection is rescaled
// proportionally so each member keeps its relative share.
func (t Timeline) Scale(segmentIDs []string, target float64) (Timeline, error) {
	if len(segmentIDs) == 0 {
		return t, declined("nothing selected")
	}
	if target <= 0 {
		return t, declined("target duration must be positive")
	}

	total := 0.0
	for _, id := range segmentIDs {
		s, ok := t.Segment(id)
		if !ok {
			return t, declined("no segment %s", id)
		}
		total += s.TimelineDuration
	}
	if total == 0 {
		return t, declined("selection has zero duration")
	}

	nt := t.Clone()
	if len(segmentIDs) == 1 {
		i := nt.IndexOf(segmentIDs[0])
		nt.Segments[i].TimelineDuration = target
		return nt, nil
	}

	factor := target / total
	for _, id := range segmentIDs {
		i := nt.IndexOf(id)
		nt.Segments[i].TimelineDuration *= factor
	}
	return nt, nil
}

// Clipboard is the single-slot segment clipboard; last write wins.
type Clipboard struct {
	seg *Segment
}

// Copy clones a segment's fields under a new id into the clipboard.
func (t Timeline) Copy(segmentID string, clip *Clipboard) error {
	s, ok := t.Segment(segmentID)
	if !ok {
		return declined("no segment %s", segmentID)
	}
	c := s.clone()
	clip.seg = &c
	return nil
}

// Cut removes a segment and copies it. Declines if it would empty the
// timeline.
func (t Timeline) Cut(segmentID string, clip *Clipboard) (Timeline, error) {
	if err := t.Copy(segmentID, clip); err != nil {
		return t, err
	}
	return t.Delete(segmentID)
}

// Paste inserts a fresh-id clone of the clipboard segment adjacent to a
// reference segment.
func (t Timeline) Paste(refID string, after bool, clip *Clipboard) (Timeline, error) {
	if clip.seg == nil {
		return t, declined("clipboard is empty")
	}
	i := t.IndexOf(refID)
	if i < 0 {
		return t, declined("no segment %s", refID)
	}
	if after {
		i++
	}
	nt := t.Clone()
	pasted := clip.seg.clone()
	nt.Segments = append(nt.Segments[:i], append([]Segment{pasted}, nt.Segments[i:]...)...)
	return nt, nil
}

func clampF(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
