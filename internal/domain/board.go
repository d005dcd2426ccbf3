package domain

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Board is the 15x15 grid together with its reversible move history.
// applied holds moves in play order; undone is the redo stack, top last.
type Board struct {
	cells   [BoardSize][BoardSize]Cell
	applied []Move
	undone  []Move
}

func NewBoard() *Board {
	return &Board{
		applied: make([]Move, 0, BoardSize*BoardSize),
	}
}

func IsValidPosition(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

func (b *Board) IsValidPosition(row, col int) bool {
	return IsValidPosition(row, col)
}

// Place puts side on (row, col). It returns false and leaves the board
// untouched when the position is off the board, occupied, or side is Empty.
// A successful place discards the whole redo stack.
func (b *Board) Place(row, col int, side Cell) bool {
	if !side.IsSide() || !IsValidPosition(row, col) || b.cells[row][col] != Empty {
		return false
	}

	b.cells[row][col] = side
	b.applied = append(b.applied, Move{
		Row:      row,
		Col:      col,
		Side:     side,
		Sequence: len(b.applied) + 1,
	})
	b.undone = b.undone[:0]
	return true
}

// Undo takes back the last applied move and pushes it onto the redo stack.
func (b *Board) Undo() (Move, bool) {
	n := len(b.applied)
	if n == 0 {
		return Move{}, false
	}

	m := b.applied[n-1]
	b.applied = b.applied[:n-1]
	b.cells[m.Row][m.Col] = Empty
	b.undone = append(b.undone, m)
	return m, true
}

// Redo re-applies the most recently undone move with its original side and
// sequence number.
func (b *Board) Redo() (Move, bool) {
	n := len(b.undone)
	if n == 0 {
		return Move{}, false
	}

	m := b.undone[n-1]
	b.undone = b.undone[:n-1]
	b.cells[m.Row][m.Col] = m.Side
	b.applied = append(b.applied, m)
	return m, true
}

// NextRedo reports the move Redo would apply, without applying it.
func (b *Board) NextRedo() (Move, bool) {
	if len(b.undone) == 0 {
		return Move{}, false
	}
	return b.undone[len(b.undone)-1], true
}

func (b *Board) CanUndo() bool { return len(b.applied) > 0 }
func (b *Board) CanRedo() bool { return len(b.undone) > 0 }

// Reset clears the grid and both history stacks.
func (b *Board) Reset() {
	b.cells = [BoardSize][BoardSize]Cell{}
	b.applied = b.applied[:0]
	b.undone = b.undone[:0]
}

// Cell returns the state at (row, col); off-board positions read as Empty.
func (b *Board) Cell(row, col int) Cell {
	if !IsValidPosition(row, col) {
		return Empty
	}
	return b.cells[row][col]
}

func (b *Board) IsEmpty(row, col int) bool {
	return IsValidPosition(row, col) && b.cells[row][col] == Empty
}

func (b *Board) IsFull() bool {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if b.cells[row][col] == Empty {
				return false
			}
		}
	}
	return true
}

func (b *Board) MoveCount() int {
	return len(b.applied)
}

// MoveHistory returns a copy of the applied moves in play order.
func (b *Board) MoveHistory() []Move {
	history := make([]Move, len(b.applied))
	copy(history, b.applied)
	return history
}

// UndoneMoves returns a copy of the redo stack, next redo last.
func (b *Board) UndoneMoves() []Move {
	undone := make([]Move, len(b.undone))
	copy(undone, b.undone)
	return undone
}

func (b *Board) LastMove() (Move, bool) {
	if len(b.applied) == 0 {
		return Move{}, false
	}
	return b.applied[len(b.applied)-1], true
}

// Cells returns a copy of the grid.
func (b *Board) Cells() [BoardSize][BoardSize]Cell {
	return b.cells
}

// EmptyPositionsNear returns every empty cell within Chebyshev distance
// radius of some applied move, each once, in row-major order. An empty
// board yields the center cell alone.
func (b *Board) EmptyPositionsNear(radius int) []Position {
	if len(b.applied) == 0 {
		return []Position{{Row: Center, Col: Center}}
	}

	var seen [BoardSize][BoardSize]bool
	count := 0
	for _, m := range b.applied {
		for r := max(m.Row-radius, 0); r <= min(m.Row+radius, BoardSize-1); r++ {
			for c := max(m.Col-radius, 0); c <= min(m.Col+radius, BoardSize-1); c++ {
				if b.cells[r][c] == Empty && !seen[r][c] {
					seen[r][c] = true
					count++
				}
			}
		}
	}

	positions := make([]Position, 0, count)
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			if seen[r][c] {
				positions = append(positions, Position{Row: r, Col: c})
			}
		}
	}
	return positions
}

// Clone returns a deep copy, history included.
func (b *Board) Clone() *Board {
	clone := &Board{
		cells:   b.cells,
		applied: make([]Move, len(b.applied), max(len(b.applied), BoardSize*BoardSize)),
		undone:  make([]Move, len(b.undone)),
	}
	copy(clone.applied, b.applied)
	copy(clone.undone, b.undone)
	return clone
}

// Hash fingerprints the stone layout only; two boards reached through
// different move orders hash the same.
func (b *Board) Hash() uint64 {
	var buf [BoardSize * BoardSize]byte
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			buf[row*BoardSize+col] = byte(b.cells[row][col])
		}
	}
	return xxhash.Sum64(buf[:])
}

// String draws the board with '.' for empty, 'X' for black and 'O' for white.
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow(BoardSize * (BoardSize*2 + 1))
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			switch b.cells[row][col] {
			case Black:
				sb.WriteByte('X')
			case White:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
