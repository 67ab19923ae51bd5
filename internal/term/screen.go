// Package term implements the terminal replay engine: a fixed-size screen
// buffer driven by an escape-sequence interpreter. Replay is a pure function
// of an output-event prefix; the resulting Screen is throwaway render state
// and is never persisted.
package term

import (
	"github.com/mchenetz/ascii-edit/internal/render/core"
)

// Screen is a rows x cols grid of cells plus a cursor position.
type Screen struct {
	Rows int
	Cols int

	cells     [][]core.Cell
	cursorRow int
	cursorCol int
}

// NewScreen creates a blank screen with the cursor at the origin.
func NewScreen(rows, cols int) *Screen {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	s := &Screen{Rows: rows, Cols: cols}
	s.cells = make([][]core.Cell, rows)
	for r := range s.cells {
		s.cells[r] = blankRow(cols)
	}
	return s
}

func blankRow(cols int) []core.Cell {
	row := make([]core.Cell, cols)
	for c := range row {
		row[c] = core.EmptyCell()
	}
	return row
}

// Cell returns the cell at the given position, or an empty cell when the
// position is out of range.
func (s *Screen) Cell(row, col int) core.Cell {
	if row < 0 || row >= s.Rows || col < 0 || col >= s.Cols {
		return core.EmptyCell()
	}
	return s.cells[row][col]
}

// Line returns the cells of one row. The returned slice is the screen's
// backing storage; callers must not modify it.
func (s *Screen) Line(row int) []core.Cell {
	if row < 0 || row >= s.Rows {
		return nil
	}
	return s.cells[row]
}

// Cursor returns the current cursor position.
func (s *Screen) Cursor() (row, col int) {
	return s.cursorRow, s.cursorCol
}

// SetCursor moves the cursor to an absolute position, clamped to the grid.
func (s *Screen) SetCursor(row, col int) {
	s.cursorRow = clamp(row, 0, s.Rows-1)
	s.cursorCol = clamp(col, 0, s.Cols-1)
}

// MoveCursor moves the cursor by a relative delta, clamped to the grid.
func (s *Screen) MoveCursor(dRow, dCol int) {
	s.SetCursor(s.cursorRow+dRow, s.cursorCol+dCol)
}

// Put places a styled character at the cursor and advances the column.
// Writing past the last column wraps to a fresh line first, scrolling if
// the cursor is already on the last row.
func (s *Screen) Put(r rune, style core.Style) {
	if s.cursorCol >= s.Cols {
		s.LineFeed()
		s.cursorCol = 0
	}
	s.cells[s.cursorRow][s.cursorCol] = core.NewStyledCell(r, style)
	s.cursorCol++
}

// LineFeed advances the cursor one row, scrolling the grid up when the
// cursor is on the last row, and resets the column.
func (s *Screen) LineFeed() {
	if s.cursorRow >= s.Rows-1 {
		s.scrollUp()
	} else {
		s.cursorRow++
	}
	s.cursorCol = 0
}

// CarriageReturn resets the column to 0.
func (s *Screen) CarriageReturn() {
	s.cursorCol = 0
}

// Backspace moves the cursor one column left, stopping at 0.
func (s *Screen) Backspace() {
	if s.cursorCol > 0 {
		s.cursorCol--
	}
}

// scrollUp drops the first row and appends a blank one. The cursor row is
// unchanged.
func (s *Screen) scrollUp() {
	copy(s.cells, s.cells[1:])
	s.cells[s.Rows-1] = blankRow(s.Cols)
}

// Erase modes for EraseDisplay and EraseLine.
const (
	EraseToEnd   = 0 // cursor to end
	EraseToStart = 1 // start to cursor
	EraseAll     = 2 // everything
)

// EraseDisplay clears part of the screen. Mode EraseAll also resets the
// cursor to the origin.
func (s *Screen) EraseDisplay(mode int) {
	switch mode {
	case EraseToEnd:
		s.eraseLineSpan(s.cursorRow, s.cursorCol, s.Cols)
		for r := s.cursorRow + 1; r < s.Rows; r++ {
			s.cells[r] = blankRow(s.Cols)
		}
	case EraseToStart:
		s.eraseLineSpan(s.cursorRow, 0, s.cursorCol+1)
		for r := 0; r < s.cursorRow; r++ {
			s.cells[r] = blankRow(s.Cols)
		}
	case EraseAll:
		for r := range s.cells {
			s.cells[r] = blankRow(s.Cols)
		}
		s.cursorRow, s.cursorCol = 0, 0
	}
}

// EraseLine clears part of the current row.
func (s *Screen) EraseLine(mode int) {
	switch mode {
	case EraseToEnd:
		s.eraseLineSpan(s.cursorRow, s.cursorCol, s.Cols)
	case EraseToStart:
		s.eraseLineSpan(s.cursorRow, 0, s.cursorCol+1)
	case EraseAll:
		s.cells[s.cursorRow] = blankRow(s.Cols)
	}
}

func (s *Screen) eraseLineSpan(row, from, to int) {
	from = clamp(from, 0, s.Cols)
	to = clamp(to, 0, s.Cols)
	for c := from; c < to; c++ {
		s.cells[row][c] = core.EmptyCell()
	}
}

// RowText returns the trimmed plain text of one row, useful in tests and
// for the CLI info output.
func (s *Screen) RowText(row int) string {
	line := s.Line(row)
	end := len(line)
	for end > 0 && line[end-1].IsEmpty() {
		end--
	}
	return core.StringFromCells(line[:end])
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
