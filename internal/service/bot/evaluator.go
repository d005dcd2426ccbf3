package bot

import (
	"math"

	"github.com/Frida7771/GomokuAI/internal/domain"
)

const (
	// Pattern scores by (run length, open ends)
	SCORE_FIVE       = 100000
	SCORE_OPEN_FOUR  = 50000
	SCORE_FOUR       = 10000
	SCORE_OPEN_THREE = 5000
	SCORE_THREE      = 1000
	SCORE_OPEN_TWO   = 500
	SCORE_TWO        = 100
	SCORE_ONE        = 10

	// Blocking is worth slightly less than building an equal threat
	DEFENSE_WEIGHT = 0.9
)

// PatternScore maps a run and its open ends to points. A run of five or more
// scores the same no matter what surrounds it; shorter runs with no open end
// are dead and score nothing.
func PatternScore(runLength, openEnds int) int {
	if runLength >= domain.WinLength {
		return SCORE_FIVE
	}
	if openEnds == 0 {
		return 0
	}

	switch runLength {
	case 4:
		if openEnds == 2 {
			return SCORE_OPEN_FOUR
		}
		return SCORE_FOUR
	case 3:
		if openEnds == 2 {
			return SCORE_OPEN_THREE
		}
		return SCORE_THREE
	case 2:
		if openEnds == 2 {
			return SCORE_OPEN_TWO
		}
		return SCORE_TWO
	case 1:
		return SCORE_ONE
	}
	return 0
}

// EvaluatePosition rates the empty cell (row, col) as a move for side:
// the patterns side would make there plus 0.9x the patterns the opponent
// would make there. Used only to order candidates.
func EvaluatePosition(b *domain.Board, row, col int, side domain.Cell) int {
	offense := axesScore(b, row, col, side)
	defense := axesScore(b, row, col, side.Opponent())
	return offense + int(math.Round(float64(defense)*DEFENSE_WEIGHT))
}

// EvaluateBoard is the static leaf value from aiSide's point of view.
func EvaluateBoard(b *domain.Board, aiSide, opponent domain.Cell) int {
	score := 0

	for row := 0; row < domain.BoardSize; row++ {
		for col := 0; col < domain.BoardSize; col++ {
			switch b.Cell(row, col) {
			case aiSide:
				score += axesScore(b, row, col, aiSide) / 2
				score += domain.BoardSize - manhattanFromCenter(row, col)
			case opponent:
				score -= axesScore(b, row, col, opponent) / 2
			}
		}
	}

	return score
}

// axesScore sums the pattern score of side at (row, col) over the four axes.
// The cell is read as side's stone whatever it holds.
func axesScore(b *domain.Board, row, col int, side domain.Cell) int {
	total := 0
	for _, d := range domain.Directions {
		run, open := domain.LineInfo(b, row, col, d[0], d[1], side)
		total += PatternScore(run, open)
	}
	return total
}

func manhattanFromCenter(row, col int) int {
	dr := row - domain.Center
	if dr < 0 {
		dr = -dr
	}
	dc := col - domain.Center
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}
