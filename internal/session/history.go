package session

import (
	"errors"
	"sync"

	"github.com/mchenetz/ascii-edit/internal/timeline"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// defaultHistoryDepth bounds snapshot memory when the caller passes no
// limit.
const defaultHistoryDepth = 100

// History is a bounded, linear sequence of immutable timeline snapshots.
// An accepted mutation pushes the pre-edit snapshot and discards any redo
// suffix; when the cap is reached the oldest snapshots are dropped first.
type History struct {
	mu sync.Mutex

	undoStack []timeline.Timeline
	redoStack []timeline.Timeline

	maxEntries int
}

// NewHistory creates a history with the given snapshot cap.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = defaultHistoryDepth
	}
	return &History{maxEntries: maxEntries}
}

// Push records the pre-edit snapshot and clears the redo stack.
func (h *History) Push(snapshot timeline.Timeline) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = append(h.undoStack, snapshot.Clone())
	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo exchanges the current timeline for the most recent snapshot.
func (h *History) Undo(current timeline.Timeline) (timeline.Timeline, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return current, ErrNothingToUndo
	}

	prev := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current.Clone())
	return prev, nil
}

// Redo exchanges the current timeline for the most recently undone one.
func (h *History) Redo(current timeline.Timeline) (timeline.Timeline, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return current, ErrNothingToRedo
	}

	next := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, current.Clone())
	return next, nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo snapshots held.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// Clear removes all snapshots.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undoStack = nil
	h.redoStack = nil
}
