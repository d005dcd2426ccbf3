package domain

import "time"

// ClientMessage is what the browser sends over the websocket.
type ClientMessage struct {
	Type  string `json:"type"`
	Token string `json:"token,omitempty"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
}

type ServerMessage struct {
	Type    string     `json:"type"`
	Message string     `json:"message,omitempty"`
	GameID  string     `json:"gameId,omitempty"`
	Move    *MoveView  `json:"move,omitempty"`
	State   *GameState `json:"state,omitempty"`
}

type MoveView struct {
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Side     string `json:"side"`
	Sequence int    `json:"sequence"`
}

func NewMoveView(m Move) MoveView {
	return MoveView{Row: m.Row, Col: m.Col, Side: m.Side.String(), Sequence: m.Sequence}
}

// GameState is the full snapshot of one session handed to clients.
type GameState struct {
	GameID      string     `json:"gameId"`
	Difficulty  string     `json:"difficulty"`
	HumanSide   string     `json:"humanSide"`
	CurrentSide string     `json:"currentSide"`
	Status      GameStatus `json:"status"`
	Winner      string     `json:"winner,omitempty"`
	WinningLine []Position `json:"winningLine,omitempty"`
	Board       [][]int    `json:"board"`
	Moves       []MoveView `json:"moves"`
	Thinking    bool       `json:"thinking"`
	CanUndo     bool       `json:"canUndo"`
	CanRedo     bool       `json:"canRedo"`
}

// GameRecord is an archived, finished game.
type GameRecord struct {
	GameID          string     `json:"id"`
	Difficulty      string     `json:"difficulty"`
	HumanSide       string     `json:"humanSide"`
	Winner          string     `json:"winner,omitempty"`
	Reason          string     `json:"reason"`
	TotalMoves      int        `json:"totalMoves"`
	DurationSeconds int        `json:"durationSeconds"`
	CreatedAt       time.Time  `json:"createdAt"`
	FinishedAt      time.Time  `json:"finishedAt"`
	Moves           []MoveView `json:"moves,omitempty"`
}
