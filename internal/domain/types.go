package domain

import "strings"

// Cell is the state of a single intersection. Black and White double as the
// two sides of a game.
type Cell int8

const (
	Empty Cell = 0
	Black Cell = 1
	White Cell = 2
)

const (
	BoardSize = 15
	WinLength = 5
	Center    = BoardSize / 2
)

// Opponent returns the other side. Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case Black:
		return White
	case White:
		return Black
	}
	return Empty
}

func (c Cell) IsSide() bool {
	return c == Black || c == White
}

func (c Cell) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	}
	return "empty"
}

// ParseSide accepts "black"/"white" (any case) and the single letters b/w.
func ParseSide(s string) (Cell, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black", "b":
		return Black, nil
	case "white", "w":
		return White, nil
	}
	return Empty, ErrInvalidSide
}

// Position is a (row, col) pair on the board.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// to represent the game status
type GameStatus string

const (
	StatusActive GameStatus = "active"
	StatusWon    GameStatus = "won"
	StatusDraw   GameStatus = "draw"
)

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidMove      Error = "invalid move"
	ErrOutOfBounds      Error = "position is outside the board"
	ErrPositionOccupied Error = "position is already occupied"
	ErrInvalidSide      Error = "side must be black or white"
	ErrNotYourTurn      Error = "not your turn"
	ErrGameFinished     Error = "game is already finished"
	ErrNothingToUndo    Error = "nothing to undo"
	ErrNothingToRedo    Error = "nothing to redo"
	ErrEngineThinking   Error = "engine is still thinking"
	ErrSessionNotFound  Error = "game session not found"
	ErrInvalidLevel     Error = "difficulty must be easy, medium or hard"
)
