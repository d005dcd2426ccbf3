package domain

// Directions holds one forward step per board axis: horizontal, vertical,
// diagonal down-right and diagonal down-left.
var Directions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// CountConsecutive counts side's stones starting one step past (row, col)
// along (dRow, dCol). The origin itself is never counted.
func CountConsecutive(b *Board, row, col, dRow, dCol int, side Cell) int {
	count := 0
	r, c := row+dRow, col+dCol
	for IsValidPosition(r, c) && b.cells[r][c] == side {
		count++
		r += dRow
		c += dCol
	}
	return count
}

// LineInfo treats (row, col) as holding side and returns the length of the
// run through it along the axis of (dRow, dCol), plus how many of the two
// cells just past the run ends are on the board and empty.
func LineInfo(b *Board, row, col, dRow, dCol int, side Cell) (runLength, openEnds int) {
	forward := CountConsecutive(b, row, col, dRow, dCol, side)
	backward := CountConsecutive(b, row, col, -dRow, -dCol, side)
	runLength = forward + backward + 1

	if b.IsEmpty(row+(forward+1)*dRow, col+(forward+1)*dCol) {
		openEnds++
	}
	if b.IsEmpty(row-(backward+1)*dRow, col-(backward+1)*dCol) {
		openEnds++
	}
	return runLength, openEnds
}

// CheckWin reports whether a stone of side at (row, col) completes a run of
// WinLength or more on any axis. Overlines count.
func CheckWin(b *Board, row, col int, side Cell) bool {
	for _, d := range Directions {
		total := CountConsecutive(b, row, col, d[0], d[1], side) +
			CountConsecutive(b, row, col, -d[0], -d[1], side) + 1
		if total >= WinLength {
			return true
		}
	}
	return false
}

// ScanBoardForWinner rechecks every occupied cell and returns the first side
// found owning a winning run.
func ScanBoardForWinner(b *Board) (Cell, bool) {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			side := b.cells[row][col]
			if side == Empty {
				continue
			}
			if CheckWin(b, row, col, side) {
				return side, true
			}
		}
	}
	return Empty, false
}

// WinningLine returns the cells of the winning run through (row, col),
// ordered from one end to the other, or nil when there is none.
func WinningLine(b *Board, row, col int, side Cell) []Position {
	for _, d := range Directions {
		forward := CountConsecutive(b, row, col, d[0], d[1], side)
		backward := CountConsecutive(b, row, col, -d[0], -d[1], side)
		if forward+backward+1 < WinLength {
			continue
		}

		line := make([]Position, 0, forward+backward+1)
		for i := -backward; i <= forward; i++ {
			line = append(line, Position{Row: row + i*d[0], Col: col + i*d[1]})
		}
		return line
	}
	return nil
}
