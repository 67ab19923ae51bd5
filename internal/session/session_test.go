package session

import (
	"errors"
	"testing"
	"time"

	"github.com/mchenetz/ascii-edit/internal/recording"
	"github.com/mchenetz/ascii-edit/internal/timeline"
)

func testRecording(t *testing.T) *recording.Recording {
	t.Helper()
	rec, err := recording.Parse([]byte(`{"version":2,"width":10,"height":3,` +
		`"events":[[0,"o","hello"],[1,"o"," there"],[2,"o","\r\nbye"]]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return rec
}

func loadedSession(t *testing.T) *Session {
	s := New(0)
	s.Load(testRecording(t))
	return s
}

func TestLoadCreatesTimelineOnce(t *testing.T) {
	s := New(0)
	first := testRecording(t)
	s.Load(first)

	if got := len(s.Timeline().Segments); got != 1 {
		t.Fatalf("got %d segments, want 1", got)
	}
	if s.Timeline().Segments[0].SourceID != first.ID {
		t.Error("timeline does not reference the loaded recording")
	}

	// A second load only registers a source.
	s.Load(testRecording(t))
	if got := len(s.Timeline().Segments); got != 1 {
		t.Errorf("second load changed the timeline: %d segments", got)
	}
	if s.Store.Len() != 2 {
		t.Errorf("store holds %d recordings, want 2", s.Store.Len())
	}
}

func TestApplyPushesUndoOnSuccessOnly(t *testing.T) {
	s := loadedSession(t)

	err := s.Apply(func(tl timeline.Timeline) (timeline.Timeline, error) {
		return tl.Split(1)
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := len(s.Timeline().Segments); got != 2 {
		t.Errorf("got %d segments, want 2", got)
	}
	if !s.CanUndo() {
		t.Error("accepted edit did not create an undo snapshot")
	}

	// A declined edit changes nothing.
	err = s.Apply(func(tl timeline.Timeline) (timeline.Timeline, error) {
		return tl.Split(0)
	})
	if !errors.Is(err, timeline.ErrDeclined) {
		t.Fatalf("err = %v, want ErrDeclined", err)
	}
	if got := len(s.Timeline().Segments); got != 2 {
		t.Errorf("declined edit altered the timeline: %d segments", got)
	}
}

func TestUndoRedo(t *testing.T) {
	s := loadedSession(t)

	if err := s.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("fresh session undo: err = %v, want ErrNothingToUndo", err)
	}

	split := func(tt float64) EditFunc {
		return func(tl timeline.Timeline) (timeline.Timeline, error) { return tl.Split(tt) }
	}
	if err := s.Apply(split(1)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := s.Apply(split(0.5)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := len(s.Timeline().Segments); got != 3 {
		t.Fatalf("got %d segments, want 3", got)
	}

	if err := s.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := len(s.Timeline().Segments); got != 2 {
		t.Errorf("after undo: %d segments, want 2", got)
	}
	if err := s.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := len(s.Timeline().Segments); got != 1 {
		t.Errorf("after second undo: %d segments, want 1", got)
	}

	if err := s.Redo(); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if got := len(s.Timeline().Segments); got != 2 {
		t.Errorf("after redo: %d segments, want 2", got)
	}

	// A new edit discards the pending redo.
	if err := s.Apply(split(0.3)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if s.CanRedo() {
		t.Error("redo survived a fresh edit")
	}
}

func TestApplyWithoutLoad(t *testing.T) {
	s := New(0)
	err := s.Apply(func(tl timeline.Timeline) (timeline.Timeline, error) { return tl, nil })
	if !errors.Is(err, ErrNoTimeline) {
		t.Errorf("err = %v, want ErrNoTimeline", err)
	}
	if _, err := s.Export(); !errors.Is(err, ErrNoTimeline) {
		t.Errorf("export: err = %v, want ErrNoTimeline", err)
	}
	if _, err := s.ScreenAt(0); !errors.Is(err, ErrNoTimeline) {
		t.Errorf("screen: err = %v, want ErrNoTimeline", err)
	}
}

func TestScreenAt(t *testing.T) {
	s := loadedSession(t)

	screen, err := s.ScreenAt(1.5)
	if err != nil {
		t.Fatalf("screen: %v", err)
	}
	if screen.Rows != 3 || screen.Cols != 10 {
		t.Errorf("grid = %dx%d, want 10x3", screen.Cols, screen.Rows)
	}
	if got := screen.RowText(0); got != "hello ther" {
		t.Errorf("row 0 = %q, want text up to the playhead", got)
	}

	// The full text wraps: "hello there" spills its last rune onto row 1,
	// and the final chunk lands on row 2.
	screen, err = s.ScreenAt(s.Timeline().ComposedDuration())
	if err != nil {
		t.Fatalf("screen at end: %v", err)
	}
	if got := screen.RowText(1); got != "e" {
		t.Errorf("row 1 = %q, want the wrapped e", got)
	}
	if got := screen.RowText(2); got != "bye" {
		t.Errorf("row 2 = %q, want bye", got)
	}
}

func TestHistoryBound(t *testing.T) {
	h := NewHistory(3)
	base := timeline.Timeline{Segments: []timeline.Segment{{ID: "s", TimelineDuration: 1}}}
	for i := 0; i < 10; i++ {
		h.Push(base)
	}
	if got := h.UndoCount(); got != 3 {
		t.Errorf("undo count = %d, want capped at 3", got)
	}

	h = NewHistory(0)
	if h.maxEntries != defaultHistoryDepth {
		t.Errorf("maxEntries = %d, want default %d", h.maxEntries, defaultHistoryDepth)
	}
}

func TestHistorySnapshotsAreIsolated(t *testing.T) {
	h := NewHistory(10)
	tl := timeline.Timeline{Segments: []timeline.Segment{{ID: "s", TimelineDuration: 1}}}
	h.Push(tl)

	// Mutating the pushed value must not reach the stored snapshot.
	tl.Segments[0].TimelineDuration = 99

	got, err := h.Undo(timeline.Timeline{})
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got.Segments[0].TimelineDuration != 1 {
		t.Errorf("snapshot duration = %v, want the value at push time", got.Segments[0].TimelineDuration)
	}
}

func TestSchedulerTick(t *testing.T) {
	sch := NewScheduler()

	// Paused: ticks do nothing.
	if got := sch.Tick(time.Second, 10); got != 0 {
		t.Errorf("paused tick moved playhead to %v", got)
	}

	sch.Play()
	if got := sch.Tick(time.Second, 10); got != 1 {
		t.Errorf("playhead = %v, want 1", got)
	}

	sch.SetSpeed(2)
	if got := sch.Tick(time.Second, 10); got != 3 {
		t.Errorf("playhead = %v, want 3 at 2x", got)
	}

	// Clamps at the end and stops.
	sch.Tick(time.Minute, 10)
	if got := sch.Playhead(); got != 10 {
		t.Errorf("playhead = %v, want clamped to 10", got)
	}
	if sch.Playing() {
		t.Error("scheduler still playing past the end")
	}
}

func TestSchedulerSeekAndSpeed(t *testing.T) {
	sch := NewScheduler()

	sch.Seek(-5, 10)
	if got := sch.Playhead(); got != 0 {
		t.Errorf("seek below zero: playhead = %v", got)
	}
	sch.Seek(99, 10)
	if got := sch.Playhead(); got != 10 {
		t.Errorf("seek past end: playhead = %v", got)
	}
	sch.Seek(4, 10)
	if got := sch.Playhead(); got != 4 {
		t.Errorf("seek: playhead = %v, want 4", got)
	}

	sch.SetSpeed(0)
	sch.SetSpeed(-1)
	if got := sch.Speed(); got != 1 {
		t.Errorf("speed = %v, non-positive values should be ignored", got)
	}

	sch.Pause()
	sch.Pause()
	if sch.Playing() {
		t.Error("paused scheduler reports playing")
	}
}

func TestEditShrinkClampsPlayhead(t *testing.T) {
	s := loadedSession(t)
	s.Scheduler().Seek(2, s.Timeline().ComposedDuration())

	// Halve the timeline; the playhead must follow the new duration.
	err := s.Apply(func(tl timeline.Timeline) (timeline.Timeline, error) {
		return tl.Scale([]string{tl.Segments[0].ID}, 1)
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := s.Scheduler().Playhead(); got != 1 {
		t.Errorf("playhead = %v, want clamped to the new duration 1", got)
	}
}

func TestStoreOrder(t *testing.T) {
	st := NewStore()
	a, b := testRecording(t), testRecording(t)
	st.Add(a)
	st.Add(b)
	st.Add(a) // re-register keeps position

	ids := st.IDs()
	if len(ids) != 2 || ids[0] != a.ID || ids[1] != b.ID {
		t.Errorf("ids = %v, want load order [%s %s]", ids, a.ID, b.ID)
	}
	if _, ok := st.Recording("missing"); ok {
		t.Error("unknown id resolved")
	}
}
