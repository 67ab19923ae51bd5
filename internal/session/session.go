package session

import (
	"errors"

	"github.com/mchenetz/ascii-edit/internal/recording"
	"github.com/mchenetz/ascii-edit/internal/term"
	"github.com/mchenetz/ascii-edit/internal/timeline"
)

// ErrNoTimeline is returned by queries before any recording is loaded.
var ErrNoTimeline = errors.New("no recording loaded")

// EditFunc is one timeline mutation, pure over its input.
type EditFunc func(timeline.Timeline) (timeline.Timeline, error)

// Session is a single logical editing session. Mutations are applied one
// at a time; each accepted edit snapshots the previous timeline for undo.
// Callers sharing a Session across goroutines must serialize mutations.
type Session struct {
	Store *Store

	timeline timeline.Timeline
	active   bool

	history   *History
	clipboard timeline.Clipboard
	scheduler *Scheduler
}

// New creates an empty session with the given undo depth (0 for the
// default).
func New(undoDepth int) *Session {
	return &Session{
		Store:     NewStore(),
		history:   NewHistory(undoDepth),
		scheduler: NewScheduler(),
	}
}

// Load registers a recording. The first load also creates the timeline,
// with exactly one segment spanning the whole recording; later loads only
// register their recording as a source for insert operations.
func (s *Session) Load(rec *recording.Recording) {
	s.Store.Add(rec)
	if !s.active {
		s.timeline = timeline.New(rec)
		s.active = true
	}
}

// Timeline returns the current timeline value.
func (s *Session) Timeline() timeline.Timeline {
	return s.timeline
}

// Clipboard returns the session clipboard.
func (s *Session) Clipboard() *timeline.Clipboard {
	return &s.clipboard
}

// Scheduler returns the playback scheduler.
func (s *Session) Scheduler() *Scheduler {
	return s.scheduler
}

// Apply runs one edit. On success the pre-edit timeline is pushed onto the
// undo history; a declined edit leaves both timeline and history untouched.
func (s *Session) Apply(edit EditFunc) error {
	if !s.active {
		return ErrNoTimeline
	}
	next, err := edit(s.timeline)
	if err != nil {
		return err
	}
	s.history.Push(s.timeline)
	s.timeline = next
	s.clampPlayhead()
	return nil
}

// Undo restores the previous timeline snapshot.
func (s *Session) Undo() error {
	prev, err := s.history.Undo(s.timeline)
	if err != nil {
		return err
	}
	s.timeline = prev
	s.clampPlayhead()
	return nil
}

// Redo restores the most recently undone timeline.
func (s *Session) Redo() error {
	next, err := s.history.Redo(s.timeline)
	if err != nil {
		return err
	}
	s.timeline = next
	s.clampPlayhead()
	return nil
}

// CanUndo reports whether Undo would succeed.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo would succeed.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// ScreenAt renders the composed timeline at timeline time tt. The grid
// size and theme come from the first segment's source recording; the
// screen is a throwaway value, never part of session state.
func (s *Session) ScreenAt(tt float64) (*term.Screen, error) {
	rec, err := s.primaryRecording()
	if err != nil {
		return nil, err
	}
	events := s.timeline.EventsUpTo(tt, s.Store)
	return term.Replay(events, rec.Header.Rows, rec.Header.Cols, rec.Theme), nil
}

// Export flattens the current timeline into a recording JSON document.
func (s *Session) Export() ([]byte, error) {
	if !s.active {
		return nil, ErrNoTimeline
	}
	return s.timeline.Export(s.Store)
}

// Theme returns the first segment's source theme.
func (s *Session) Theme() (recording.Theme, error) {
	rec, err := s.primaryRecording()
	if err != nil {
		return recording.Theme{}, err
	}
	return rec.Theme, nil
}

func (s *Session) primaryRecording() (*recording.Recording, error) {
	if !s.active || len(s.timeline.Segments) == 0 {
		return nil, ErrNoTimeline
	}
	rec, ok := s.Store.Recording(s.timeline.Segments[0].SourceID)
	if !ok {
		return nil, timeline.ErrNoSource
	}
	return rec, nil
}

// clampPlayhead keeps the playhead inside the composed duration after the
// timeline shrinks.
func (s *Session) clampPlayhead() {
	s.scheduler.Seek(s.scheduler.Playhead(), s.timeline.ComposedDuration())
}
