package domain

// Move is one placed stone. Sequence is fixed at placement time
// (number of moves already applied + 1) and is only used for display.
type Move struct {
	Row      int  `json:"row"`
	Col      int  `json:"col"`
	Side     Cell `json:"side"`
	Sequence int  `json:"sequence"`
}

func (m Move) Position() Position {
	return Position{Row: m.Row, Col: m.Col}
}
