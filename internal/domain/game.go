package domain

// Game sequences moves between the two sides on top of a Board. Black always
// opens.
type Game struct {
	Board       *Board
	HumanSide   Cell
	CurrentSide Cell
	Status      GameStatus
	Winner      Cell
	WinningLine []Position
}

func NewGame(humanSide Cell) *Game {
	return &Game{
		Board:       NewBoard(),
		HumanSide:   humanSide,
		CurrentSide: Black,
		Status:      StatusActive,
		Winner:      Empty,
	}
}

func (g *Game) EngineSide() Cell {
	return g.HumanSide.Opponent()
}

func (g *Game) IsFinished() bool {
	return g.Status == StatusWon || g.Status == StatusDraw
}

// MakeMove places side's stone and advances the turn, or finishes the game
// on a win or a full board.
func (g *Game) MakeMove(side Cell, row, col int) (Move, error) {
	if g.IsFinished() {
		return Move{}, ErrGameFinished
	}
	if side != g.CurrentSide {
		return Move{}, ErrNotYourTurn
	}
	if !IsValidPosition(row, col) {
		return Move{}, ErrOutOfBounds
	}
	if !g.Board.IsEmpty(row, col) {
		return Move{}, ErrPositionOccupied
	}
	if !g.Board.Place(row, col, side) {
		return Move{}, ErrInvalidMove
	}

	move, _ := g.Board.LastMove()

	if CheckWin(g.Board, row, col, side) {
		g.Status = StatusWon
		g.Winner = side
		g.WinningLine = WinningLine(g.Board, row, col, side)
		return move, nil
	}

	if g.Board.IsFull() {
		g.Status = StatusDraw
		return move, nil
	}

	g.CurrentSide = side.Opponent()
	return move, nil
}

// Undo takes back a single ply.
func (g *Game) Undo() (Move, error) {
	m, ok := g.Board.Undo()
	if !ok {
		return Move{}, ErrNothingToUndo
	}
	g.refresh()
	return m, nil
}

// Redo re-applies a single ply.
func (g *Game) Redo() (Move, error) {
	m, ok := g.Board.Redo()
	if !ok {
		return Move{}, ErrNothingToRedo
	}
	g.refresh()
	return m, nil
}

func (g *Game) Reset() {
	g.Board.Reset()
	g.CurrentSide = Black
	g.Status = StatusActive
	g.Winner = Empty
	g.WinningLine = nil
}

// refresh derives turn and result from the board after history moved,
// using a full rescan rather than trusting the last move alone.
func (g *Game) refresh() {
	last, hasLast := g.Board.LastMove()
	if hasLast {
		g.CurrentSide = last.Side.Opponent()
	} else {
		g.CurrentSide = Black
	}

	g.Winner = Empty
	g.WinningLine = nil

	if winner, ok := ScanBoardForWinner(g.Board); ok {
		g.Status = StatusWon
		g.Winner = winner
		if hasLast && last.Side == winner {
			g.WinningLine = WinningLine(g.Board, last.Row, last.Col, winner)
		}
		return
	}

	if g.Board.IsFull() {
		g.Status = StatusDraw
		return
	}
	g.Status = StatusActive
}
