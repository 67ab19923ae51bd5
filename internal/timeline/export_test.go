package timeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/mchenetz/ascii-edit/internal/recording"
)

func TestFlattenHalfSpeedMapping(t *testing.T) {
	lib, rec := singleLib(t)

	// Source interval [1, 3] displayed over 4 seconds: the event at source
	// time 2 lands at timeline time 2.
	tl := Timeline{Segments: []Segment{{
		ID: "s", SourceID: rec.ID, Start: 1, End: 3, TimelineDuration: 4,
	}}}

	events, err := tl.Flatten(lib)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	// Source events at 1, 2, 3 map to 0, 2, 4.
	want := []float64{0, 2, 4}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, ev := range events {
		if ev.Time != want[i] {
			t.Errorf("event %d at %v, want %v", i, ev.Time, want[i])
		}
	}
}

func TestFlattenConcatenatesSegments(t *testing.T) {
	lib, rec := singleLib(t)
	tl := Timeline{Segments: []Segment{
		{ID: "a", SourceID: rec.ID, Start: 2, End: 4, TimelineDuration: 2},
		{ID: "b", SourceID: rec.ID, Start: 0, End: 1, TimelineDuration: 1},
	}}

	events, err := tl.Flatten(lib)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}

	// Segment a contributes source events 2, 3, 4 at timeline 0, 1, 2;
	// segment b contributes source events 0, 1 at timeline 2, 3.
	want := []float64{0, 1, 2, 2, 3}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	prev := -1.0
	for i, ev := range events {
		if ev.Time != want[i] {
			t.Errorf("event %d at %v, want %v", i, ev.Time, want[i])
		}
		if ev.Time < prev {
			t.Errorf("event %d at %v before predecessor %v", i, ev.Time, prev)
		}
		prev = ev.Time
	}
	// The second segment replays earlier source content.
	if events[3].Data != "a" {
		t.Errorf("event 3 data = %q, want the recording's first chunk", events[3].Data)
	}
}

func TestFlattenRoundsToMicroseconds(t *testing.T) {
	lib, rec := singleLib(t)
	tl := Timeline{Segments: []Segment{{
		ID: "s", SourceID: rec.ID, Start: 0, End: 3, TimelineDuration: 1,
	}}}

	events, err := tl.Flatten(lib)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	// 1/3 and 2/3 cannot round-trip as decimal floats without rounding.
	if events[1].Time != 0.333333 {
		t.Errorf("event 1 at %v, want 0.333333", events[1].Time)
	}
	if events[2].Time != 0.666667 {
		t.Errorf("event 2 at %v, want 0.666667", events[2].Time)
	}
}

func TestFlattenKeepsNonOutputEvents(t *testing.T) {
	rec := makeRec(t, `{"version":2,"width":80,"height":24,`+
		`"events":[[0,"o","x"],[0.5,"i","k"],[1,"r","80x24"],[2,"o","y"]]}`)
	lib := fakeLib{rec.ID: rec}
	tl := New(rec)

	events, err := tl.Flatten(lib)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	kinds := make([]string, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
	}
	if got := strings.Join(kinds, ""); got != "oiro" {
		t.Errorf("kinds = %s, want oiro", got)
	}
}

func TestFlattenUnknownSource(t *testing.T) {
	tl := Timeline{Segments: []Segment{{ID: "s", SourceID: "gone", Start: 0, End: 1, TimelineDuration: 1}}}
	if _, err := tl.Flatten(fakeLib{}); !errors.Is(err, ErrNoSource) {
		t.Errorf("err = %v, want ErrNoSource", err)
	}
}

func TestExportForcesVersionAndKeepsHeader(t *testing.T) {
	lib, rec := singleLib(t)
	tl := New(rec)

	data, err := tl.Export(lib)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	doc := gjson.ParseBytes(data)
	if got := doc.Get("version").Int(); got != 2 {
		t.Errorf("version = %d, want 2", got)
	}
	if got := doc.Get("width").Int(); got != 80 {
		t.Errorf("width = %d, want 80", got)
	}
	// Header fields this tool does not model pass through.
	if got := doc.Get("title").String(); got != "demo" {
		t.Errorf("title = %q, want demo", got)
	}
	if got := doc.Get("events").Array(); len(got) != 5 {
		t.Errorf("got %d events, want 5", len(got))
	}
}

func TestExportRoundTrip(t *testing.T) {
	// An unedited timeline exports a recording that parses back to the same
	// output stream.
	lib, rec := singleLib(t)
	tl := New(rec)

	data, err := tl.Export(lib)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	back, err := recording.Parse(data)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if len(back.Output) != len(rec.Output) {
		t.Fatalf("got %d output events, want %d", len(back.Output), len(rec.Output))
	}
	for i := range back.Output {
		if back.Output[i] != rec.Output[i] {
			t.Errorf("event %d = %+v, want %+v", i, back.Output[i], rec.Output[i])
		}
	}
	if back.Duration != rec.Duration {
		t.Errorf("duration = %v, want %v", back.Duration, rec.Duration)
	}
}

func TestExportAfterScaleIsMonotonic(t *testing.T) {
	lib, rec := singleLib(t)
	tl := New(rec)
	split, err := tl.Split(1.5)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	scaled, err := split.Scale([]string{split.Segments[0].ID}, 0.2)
	if err != nil {
		t.Fatalf("scale: %v", err)
	}

	events, err := scaled.Flatten(lib)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	prev := 0.0
	for i, ev := range events {
		if ev.Time < prev {
			t.Errorf("event %d at %v before predecessor %v", i, ev.Time, prev)
		}
		prev = ev.Time
	}
	if got := events[len(events)-1].Time; !approx(got, scaled.ComposedDuration(), 1e-6) {
		t.Errorf("last event at %v, want composed duration %v", got, scaled.ComposedDuration())
	}
}

func TestEventsUpToCutoff(t *testing.T) {
	lib, rec := singleLib(t)
	tl := New(rec)

	// Playhead mid-timeline: only events at source time <= 2.5 appear. The
	// event at 3 is excluded.
	events := tl.EventsUpTo(2.5, lib)
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[len(events)-1].Text != "c" {
		t.Errorf("last event text = %q, want c", events[len(events)-1].Text)
	}

	// At the composed end, everything plays.
	events = tl.EventsUpTo(tl.ComposedDuration(), lib)
	if len(events) != 5 {
		t.Errorf("got %d events at the end, want 5", len(events))
	}
}

func TestEventsUpToInsertsStyleReset(t *testing.T) {
	lib, rec := singleLib(t)
	tl := Timeline{Segments: []Segment{
		{ID: "a", SourceID: rec.ID, Start: 0, End: 1, TimelineDuration: 1},
		{ID: "b", SourceID: rec.ID, Start: 2, End: 3, TimelineDuration: 1},
	}}

	events := tl.EventsUpTo(2, lib)
	resets := 0
	for _, ev := range events {
		if ev.Text == styleReset {
			resets++
		}
	}
	if resets != 1 {
		t.Errorf("got %d style resets, want exactly 1 between the segments", resets)
	}
	// The reset sits between the two segments' events.
	if events[0].Text == styleReset || events[len(events)-1].Text == styleReset {
		t.Error("style reset at the stream edge instead of the boundary")
	}
}

func TestEventsUpToRebasedTimesMonotonic(t *testing.T) {
	lib, rec := singleLib(t)
	tl := Timeline{Segments: []Segment{
		{ID: "a", SourceID: rec.ID, Start: 2, End: 4, TimelineDuration: 1},
		{ID: "b", SourceID: rec.ID, Start: 0, End: 2, TimelineDuration: 4},
	}}

	events := tl.EventsUpTo(tl.ComposedDuration(), lib)
	prev := -1.0
	for i, ev := range events {
		if ev.Time < prev {
			t.Errorf("event %d at %v before predecessor %v", i, ev.Time, prev)
		}
		prev = ev.Time
	}
}
