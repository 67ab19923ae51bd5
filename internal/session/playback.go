package session

import "time"

// Scheduler advances a playhead cooperatively: the host reports elapsed
// real time and the scheduler produces the next playhead position, clamped
// to [0, composedDuration]. It has no timer of its own, so it is
// independent of any event loop, cancellable, and restart-idempotent.
type Scheduler struct {
	playhead float64
	speed    float64
	playing  bool
}

// NewScheduler creates a paused scheduler at time zero with speed 1.
func NewScheduler() *Scheduler {
	return &Scheduler{speed: 1}
}

// Tick advances the playhead by elapsed real time scaled by the speed
// multiplier and returns the new position. Playback stops automatically at
// the upper bound.
func (s *Scheduler) Tick(elapsed time.Duration, composedDuration float64) float64 {
	if !s.playing {
		return s.playhead
	}
	s.playhead += elapsed.Seconds() * s.speed
	if s.playhead >= composedDuration {
		s.playhead = composedDuration
		s.playing = false
	}
	if s.playhead < 0 {
		s.playhead = 0
	}
	return s.playhead
}

// Play starts playback. Calling Play while already playing has no effect.
func (s *Scheduler) Play() {
	s.playing = true
}

// Pause stops playback. Repeated calls have no additional effect.
func (s *Scheduler) Pause() {
	s.playing = false
}

// Playing reports whether the scheduler is advancing.
func (s *Scheduler) Playing() bool {
	return s.playing
}

// Playhead returns the current playhead position.
func (s *Scheduler) Playhead() float64 {
	return s.playhead
}

// Seek moves the playhead, clamped to [0, composedDuration].
func (s *Scheduler) Seek(t, composedDuration float64) {
	switch {
	case t < 0:
		s.playhead = 0
	case t > composedDuration:
		s.playhead = composedDuration
	default:
		s.playhead = t
	}
}

// Speed returns the current speed multiplier.
func (s *Scheduler) Speed() float64 {
	return s.speed
}

// SetSpeed sets the speed multiplier. Non-positive values are ignored.
func (s *Scheduler) SetSpeed(speed float64) {
	if speed > 0 {
		s.speed = speed
	}
}
