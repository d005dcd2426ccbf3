package bot

import (
	"context"
	"math"
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/Frida7771/GomokuAI/internal/domain"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func newSearch(b *domain.Board, ai domain.Cell, width int) *search {
	return &search{
		ctx:    context.Background(),
		grid:   b.Clone(),
		ai:     ai,
		opp:    ai.Opponent(),
		width:  width,
		radius: DefaultNeighborRadius,
	}
}

func place(b *domain.Board, side domain.Cell, positions ...domain.Position) {
	for _, p := range positions {
		if !b.Place(p.Row, p.Col, side) {
			panic("bad test setup")
		}
	}
}

func TestEmptyBoardOpensInCenter(t *testing.T) {
	is := is.New(t)
	m := GetBestMove(domain.NewBoard(), domain.Black, Easy.Depth())
	is.Equal(m.Position(), domain.Position{Row: 7, Col: 7})
	is.Equal(m.Side, domain.Black)
	is.Equal(m.Sequence, 1)
}

func TestCompletesOpenFour(t *testing.T) {
	for _, depth := range []int{1, 2, 3} {
		is := is.New(t)
		b := domain.NewBoard()
		place(b, domain.Black,
			domain.Position{Row: 7, Col: 4}, domain.Position{Row: 7, Col: 5},
			domain.Position{Row: 7, Col: 6}, domain.Position{Row: 7, Col: 7})
		place(b, domain.White,
			domain.Position{Row: 6, Col: 5}, domain.Position{Row: 8, Col: 6},
			domain.Position{Row: 6, Col: 7})

		m := GetBestMove(b, domain.Black, depth)
		p := m.Position()
		is.True(p == domain.Position{Row: 7, Col: 3} || p == domain.Position{Row: 7, Col: 8})

		is.True(b.Place(p.Row, p.Col, domain.Black))
		is.True(domain.CheckWin(b, p.Row, p.Col, domain.Black))
	}
}

func TestBlocksOpponentFour(t *testing.T) {
	for _, depth := range []int{Easy.Depth(), Medium.Depth()} {
		is := is.New(t)
		b := domain.NewBoard()
		place(b, domain.Black,
			domain.Position{Row: 7, Col: 3}, domain.Position{Row: 7, Col: 4},
			domain.Position{Row: 7, Col: 5}, domain.Position{Row: 7, Col: 6})
		place(b, domain.White,
			domain.Position{Row: 7, Col: 2}, domain.Position{Row: 8, Col: 3},
			domain.Position{Row: 6, Col: 6})

		m := GetBestMove(b, domain.White, depth)
		is.Equal(m.Position(), domain.Position{Row: 7, Col: 7})
	}
}

func TestWinsBeforeBlocking(t *testing.T) {
	is := is.New(t)
	b := domain.NewBoard()
	place(b, domain.Black,
		domain.Position{Row: 3, Col: 3}, domain.Position{Row: 3, Col: 4},
		domain.Position{Row: 3, Col: 5}, domain.Position{Row: 3, Col: 6})
	place(b, domain.White,
		domain.Position{Row: 10, Col: 3}, domain.Position{Row: 10, Col: 4},
		domain.Position{Row: 10, Col: 5}, domain.Position{Row: 10, Col: 6})

	m := GetBestMove(b, domain.White, 2)
	is.Equal(m.Row, 10)
	is.True(m.Col == 2 || m.Col == 7)
}

func TestSearchIsDeterministic(t *testing.T) {
	is := is.New(t)
	b := domain.NewBoard()
	place(b, domain.Black, domain.Position{Row: 7, Col: 7}, domain.Position{Row: 8, Col: 8})
	place(b, domain.White, domain.Position{Row: 7, Col: 8}, domain.Position{Row: 6, Col: 6})

	first := GetBestMove(b, domain.Black, Medium.Depth())
	second := GetBestMove(b, domain.Black, Medium.Depth())
	is.Equal(first, second)

	third := NewEngine(DefaultOptions()).GetBestMove(b.Clone(), domain.Black, Medium.Depth())
	is.Equal(first, third)
}

func TestSearchLeavesBoardUntouched(t *testing.T) {
	is := is.New(t)
	b := domain.NewBoard()
	place(b, domain.Black, domain.Position{Row: 7, Col: 7})
	place(b, domain.White, domain.Position{Row: 6, Col: 7})
	b.Place(0, 0, domain.Black)
	b.Undo()

	cells := b.Cells()
	history := b.MoveHistory()
	undone := b.UndoneMoves()

	m := GetBestMove(b, domain.Black, Easy.Depth())
	is.True(b.IsEmpty(m.Row, m.Col))
	is.Equal(m.Sequence, 3)
	is.Equal(b.Cells(), cells)
	is.Equal(b.MoveHistory(), history)
	is.Equal(b.UndoneMoves(), undone)
}

func TestFullBoardFallsBackToCenter(t *testing.T) {
	is := is.New(t)
	b := domain.NewBoard()
	// column stripes of two: no five anywhere
	for row := 0; row < domain.BoardSize; row++ {
		for col := 0; col < domain.BoardSize; col++ {
			side := domain.Black
			if (col/2+row)%2 == 1 {
				side = domain.White
			}
			b.Place(row, col, side)
		}
	}
	is.True(b.IsFull())

	m := GetBestMove(b, domain.White, 2)
	is.Equal(m.Position(), domain.Position{Row: 7, Col: 7})
}

func TestCancelledSearchStillAnswers(t *testing.T) {
	is := is.New(t)
	b := domain.NewBoard()
	place(b, domain.Black, domain.Position{Row: 7, Col: 7})
	place(b, domain.White, domain.Position{Row: 7, Col: 8})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewEngine(Options{}).BestMove(ctx, b, domain.Black, Hard.Depth())
	is.True(b.IsEmpty(m.Row, m.Col))
	is.True(m.Row >= 5 && m.Row <= 9)
}

func TestDifficultyDepths(t *testing.T) {
	is := is.New(t)
	is.Equal(Easy.Depth(), 2)
	is.Equal(Medium.Depth(), 3)
	is.Equal(Hard.Depth(), 4)

	d, err := ParseDifficulty("HARD")
	is.NoErr(err)
	is.Equal(d, Hard)
	_, err = ParseDifficulty("impossible")
	is.Equal(err, domain.ErrInvalidLevel)
}

func TestEngineOptionDefaults(t *testing.T) {
	is := is.New(t)
	e := NewEngine(Options{})
	is.Equal(e.Options(), Options{SearchWidth: 10, NeighborRadius: 2})
	e = NewEngine(Options{SearchWidth: 4, NeighborRadius: 1})
	is.Equal(e.Options().SearchWidth, 4)
}

func TestRootTieGoesToFirstCandidate(t *testing.T) {
	is := is.New(t)
	b := domain.NewBoard()
	place(b, domain.Black, domain.Position{Row: 7, Col: 7})

	// around a lone center stone every reply has a mirror image of equal value
	s := newSearch(b, domain.White, DefaultSearchWidth)
	var best domain.Position
	bestScore, ties := math.MinInt, 0
	for _, c := range s.candidates(domain.White, 0) {
		s.grid.Place(c.Row, c.Col, domain.White)
		score := EvaluateBoard(s.grid, domain.White, domain.Black)
		s.grid.Undo()

		switch {
		case score > bestScore:
			best, bestScore, ties = c, score, 1
		case score == bestScore:
			ties++
		}
	}
	is.True(ties >= 2)

	m := GetBestMove(b, domain.White, 1)
	is.Equal(m.Position(), best)
}

func TestInnerNodesExpandAtMostSearchWidth(t *testing.T) {
	is := is.New(t)
	b := domain.NewBoard()
	place(b, domain.Black, domain.Position{Row: 7, Col: 7})
	place(b, domain.White, domain.Position{Row: 7, Col: 8})

	roots := len(newSearch(b, domain.Black, DefaultSearchWidth).candidates(domain.Black, 0))
	is.True(roots > DefaultSearchWidth) // root is not capped

	// width 1: every root move gets exactly one reply, a leaf at depth 2
	narrow := newSearch(b, domain.Black, 1)
	narrow.root(2)
	is.Equal(narrow.nodes, 2*roots)

	// the first root move is searched with an open window, so its reply
	// node expands the full capped list
	wide := newSearch(b, domain.Black, DefaultSearchWidth)
	wide.root(2)
	is.True(wide.nodes >= roots+DefaultSearchWidth)
	is.True(wide.nodes <= roots*(1+DefaultSearchWidth))

	capped := wide.candidates(domain.White, DefaultSearchWidth)
	is.Equal(len(capped), DefaultSearchWidth)
	is.Equal(capped, wide.candidates(domain.White, 0)[:DefaultSearchWidth])
}

func TestWinScoresScaleWithDepth(t *testing.T) {
	is := is.New(t)
	b := domain.NewBoard()
	place(b, domain.Black,
		domain.Position{Row: 7, Col: 3}, domain.Position{Row: 7, Col: 4},
		domain.Position{Row: 7, Col: 5}, domain.Position{Row: 7, Col: 6})

	for _, depth := range []int{2, 3} {
		winner := newSearch(b, domain.Black, DefaultSearchWidth)
		is.Equal(winner.minimax(depth, math.MinInt, math.MaxInt, true), 100000+depth)

		loser := newSearch(b, domain.White, DefaultSearchWidth)
		is.Equal(loser.minimax(depth, math.MinInt, math.MaxInt, false), -100000-depth)
	}
}
