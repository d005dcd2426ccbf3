package bot

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Frida7771/GomokuAI/internal/domain"
)

const (
	MINIMAX_WIN  = SCORE_FIVE
	MINIMAX_LOSS = -SCORE_FIVE
)

// GetBestMove runs a full search without a deadline.
func (e *Engine) GetBestMove(board *domain.Board, aiSide domain.Cell, maxDepth int) domain.Move {
	return e.BestMove(context.Background(), board, aiSide, maxDepth)
}

// BestMove returns the move for aiSide. It never fails: with nothing to
// consider it returns the center. Once ctx is done, unexplored nodes fall
// back to the static evaluation and the best root move found so far is
// returned. board is only read; the search works on a private copy.
func (e *Engine) BestMove(ctx context.Context, board *domain.Board, aiSide domain.Cell, maxDepth int) domain.Move {
	start := time.Now()
	if maxDepth < 1 {
		maxDepth = 1
	}

	s := &search{
		ctx:    ctx,
		grid:   board.Clone(),
		ai:     aiSide,
		opp:    aiSide.Opponent(),
		width:  e.opts.SearchWidth,
		radius: e.opts.NeighborRadius,
	}

	pos, score, found := s.root(maxDepth)
	if !found {
		pos = domain.Position{Row: domain.Center, Col: domain.Center}
	}

	log.Debug().
		Str("side", aiSide.String()).
		Int("depth", maxDepth).
		Int("row", pos.Row).
		Int("col", pos.Col).
		Int("score", score).
		Int("nodes", s.nodes).
		Dur("elapsed", time.Since(start)).
		Msg("best-move")

	return domain.Move{
		Row:      pos.Row,
		Col:      pos.Col,
		Side:     aiSide,
		Sequence: board.MoveCount() + 1,
	}
}

// search is the state of one top-level call. grid is a scratch copy mutated
// with place/undo around every recursive step.
type search struct {
	ctx    context.Context
	grid   *domain.Board
	ai     domain.Cell
	opp    domain.Cell
	width  int
	radius int
	nodes  int
}

func (s *search) root(depth int) (domain.Position, int, bool) {
	candidates := s.candidates(s.ai, 0)
	if len(candidates) == 0 {
		return domain.Position{}, 0, false
	}

	best := candidates[0]
	bestScore := math.MinInt
	alpha := math.MinInt
	beta := math.MaxInt

	for _, c := range candidates {
		s.grid.Place(c.Row, c.Col, s.ai)

		// If this move wins immediately, take it
		if domain.CheckWin(s.grid, c.Row, c.Col, s.ai) {
			s.grid.Undo()
			return c, MINIMAX_WIN + depth, true
		}

		score := s.minimax(depth-1, alpha, beta, false)
		s.grid.Undo()

		// strict: ties keep the earlier, better-ordered candidate
		if score > bestScore {
			bestScore = score
			best = c
		}
		alpha = max(alpha, bestScore)
	}

	return best, bestScore, true
}

func (s *search) minimax(depth, alpha, beta int, maximizing bool) int {
	s.nodes++

	if depth <= 0 || s.ctx.Err() != nil {
		return EvaluateBoard(s.grid, s.ai, s.opp)
	}

	side := s.opp
	if maximizing {
		side = s.ai
	}

	candidates := s.candidates(side, s.width)
	if len(candidates) == 0 {
		return EvaluateBoard(s.grid, s.ai, s.opp)
	}

	if maximizing {
		maxEval := math.MinInt
		for _, c := range candidates {
			s.grid.Place(c.Row, c.Col, side)
			if domain.CheckWin(s.grid, c.Row, c.Col, side) {
				s.grid.Undo()
				return MINIMAX_WIN + depth // sooner wins score higher
			}

			eval := s.minimax(depth-1, alpha, beta, false)
			s.grid.Undo()

			maxEval = max(maxEval, eval)
			alpha = max(alpha, eval)
			if beta <= alpha {
				break // Beta cutoff
			}
		}
		return maxEval
	}

	minEval := math.MaxInt
	for _, c := range candidates {
		s.grid.Place(c.Row, c.Col, side)
		if domain.CheckWin(s.grid, c.Row, c.Col, side) {
			s.grid.Undo()
			return MINIMAX_LOSS - depth
		}

		eval := s.minimax(depth-1, alpha, beta, true)
		s.grid.Undo()

		minEval = min(minEval, eval)
		beta = min(beta, eval)
		if beta <= alpha {
			break // Alpha cutoff
		}
	}
	return minEval
}

type scoredPosition struct {
	pos   domain.Position
	score int
}

// candidates lists empty cells near existing stones, best first for side.
// limit <= 0 keeps them all.
func (s *search) candidates(side domain.Cell, limit int) []domain.Position {
	positions := s.grid.EmptyPositionsNear(s.radius)

	scored := make([]scoredPosition, len(positions))
	for i, p := range positions {
		scored[i] = scoredPosition{pos: p, score: EvaluatePosition(s.grid, p.Row, p.Col, side)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}

	ordered := make([]domain.Position, len(scored))
	for i, sp := range scored {
		ordered[i] = sp.pos
	}
	return ordered
}
