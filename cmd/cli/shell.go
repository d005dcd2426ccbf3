package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/Frida7771/GomokuAI/internal/domain"
	"github.com/Frida7771/GomokuAI/internal/service/bot"
)

const columnLetters = "abcdefghijklmno"

// shell is a local game against the engine; the engine replies inline.
type shell struct {
	out        io.Writer
	engine     *bot.Engine
	difficulty bot.Difficulty
	game       *domain.Game
}

func newShell(out io.Writer, engine *bot.Engine, difficulty bot.Difficulty, humanSide domain.Cell) *shell {
	return &shell{
		out:        out,
		engine:     engine,
		difficulty: difficulty,
		game:       domain.NewGame(humanSide),
	}
}

func (s *shell) start() {
	fmt.Fprintf(s.out, "You play %s against %s (%s). Type help for commands.\n",
		s.game.HumanSide, bot.GetBotName(s.difficulty), s.difficulty)
	s.engineTurn()
	s.show()
}

func (s *shell) execute(line string) error {
	fields := strings.Fields(strings.ToLower(line))

	switch fields[0] {
	case "show":
		s.show()
		return nil

	case "undo":
		human := s.game.HumanSide
		if !lo.ContainsBy(s.game.Board.MoveHistory(), func(m domain.Move) bool { return m.Side == human }) {
			return domain.ErrNothingToUndo
		}
		for {
			m, err := s.game.Undo()
			if err != nil || m.Side == s.game.HumanSide {
				break
			}
		}
		s.show()
		return nil

	case "redo":
		if _, err := s.game.Redo(); err != nil {
			return err
		}
		if next, ok := s.game.Board.NextRedo(); ok && next.Side != s.game.HumanSide && !s.game.IsFinished() {
			s.game.Redo()
		}
		s.engineTurn()
		s.show()
		return nil

	case "hint":
		if s.game.IsFinished() {
			return domain.ErrGameFinished
		}
		m := s.engine.GetBestMove(s.game.Board, s.game.HumanSide, s.difficulty.Depth())
		fmt.Fprintf(s.out, "engine suggests %s\n", formatCoord(m.Row, m.Col))
		return nil

	case "level":
		if len(fields) != 2 {
			return fmt.Errorf("usage: level <easy|medium|hard>")
		}
		d, err := bot.ParseDifficulty(fields[1])
		if err != nil {
			return err
		}
		s.difficulty = d
		fmt.Fprintf(s.out, "now playing %s (%s)\n", bot.GetBotName(d), d)
		return nil

	case "new":
		side := s.game.HumanSide
		if len(fields) == 2 {
			parsed, err := domain.ParseSide(fields[1])
			if err != nil {
				return err
			}
			side = parsed
		}
		s.game = domain.NewGame(side)
		s.start()
		return nil
	}

	row, col, err := parseCoord(fields)
	if err != nil {
		return err
	}
	if _, err := s.game.MakeMove(s.game.HumanSide, row, col); err != nil {
		return err
	}
	s.engineTurn()
	s.show()
	return nil
}

// engineTurn lets the engine move if it is its turn.
func (s *shell) engineTurn() {
	if s.game.IsFinished() || s.game.CurrentSide != s.game.EngineSide() {
		return
	}

	start := time.Now()
	m := s.engine.GetBestMove(s.game.Board, s.game.EngineSide(), s.difficulty.Depth())
	if _, err := s.game.MakeMove(m.Side, m.Row, m.Col); err != nil {
		fmt.Fprintf(s.out, "engine move %s rejected: %v\n", formatCoord(m.Row, m.Col), err)
		return
	}
	fmt.Fprintf(s.out, "%s plays %s (%s)\n", bot.GetBotName(s.difficulty), formatCoord(m.Row, m.Col),
		time.Since(start).Round(time.Millisecond))
}

func (s *shell) show() {
	io.WriteString(s.out, renderBoard(s.game))
	switch s.game.Status {
	case domain.StatusWon:
		if s.game.Winner == s.game.HumanSide {
			io.WriteString(s.out, "You win!\n")
		} else {
			io.WriteString(s.out, "The engine wins.\n")
		}
	case domain.StatusDraw:
		io.WriteString(s.out, "Draw.\n")
	}
}

func renderBoard(g *domain.Game) string {
	var sb strings.Builder
	last, hasLast := g.Board.LastMove()

	sb.WriteString("   ")
	for col := 0; col < domain.BoardSize; col++ {
		sb.WriteString(" " + string(columnLetters[col]))
	}
	sb.WriteByte('\n')

	for row := 0; row < domain.BoardSize; row++ {
		fmt.Fprintf(&sb, "%2d ", row+1)
		for col := 0; col < domain.BoardSize; col++ {
			sep := " "
			if hasLast && last.Row == row && last.Col == col {
				sep = ">"
			}
			mark := "."
			switch g.Board.Cell(row, col) {
			case domain.Black:
				mark = "X"
			case domain.White:
				mark = "O"
			}
			sb.WriteString(sep + mark)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// parseCoord accepts "h8" (column letter, 1-based row) or "7 7"
// (zero-based row and column).
func parseCoord(fields []string) (int, int, error) {
	switch len(fields) {
	case 1:
		f := fields[0]
		if len(f) < 2 {
			break
		}
		col := strings.IndexByte(columnLetters, f[0])
		row, err := strconv.Atoi(f[1:])
		if col < 0 || err != nil {
			break
		}
		if !domain.IsValidPosition(row-1, col) {
			return 0, 0, domain.ErrOutOfBounds
		}
		return row - 1, col, nil
	case 2:
		row, errRow := strconv.Atoi(fields[0])
		col, errCol := strconv.Atoi(fields[1])
		if errRow != nil || errCol != nil {
			break
		}
		if !domain.IsValidPosition(row, col) {
			return 0, 0, domain.ErrOutOfBounds
		}
		return row, col, nil
	}
	return 0, 0, fmt.Errorf("unknown command %q, type help", strings.Join(fields, " "))
}

func formatCoord(row, col int) string {
	return string(columnLetters[col]) + strconv.Itoa(row+1)
}
