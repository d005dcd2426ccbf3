package game

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/Frida7771/GomokuAI/internal/domain"
	"github.com/Frida7771/GomokuAI/internal/service/bot"
)

// GameSession is one human playing the engine.
type GameSession struct {
	GameID     string
	Difficulty bot.Difficulty
	HumanSide  domain.Cell
	CreatedAt  time.Time

	mu           sync.Mutex
	game         *domain.Game
	lastActivity time.Time
	finishedAt   time.Time

	// thinking is set while an engine reply is being computed. generation
	// changes on every board change so a stale reply can be recognised.
	thinking     bool
	generation   uint64
	cancelSearch context.CancelFunc

	manager *SessionManager
}

// HandleMove plays the human's stone and, if the game goes on, schedules
// the engine's reply.
func (gs *GameSession) HandleMove(row, col int) (domain.Move, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.thinking {
		return domain.Move{}, domain.ErrEngineThinking
	}

	move, err := gs.game.MakeMove(gs.HumanSide, row, col)
	if err != nil {
		return domain.Move{}, err
	}
	gs.touch()

	log.Debug().Str("gameID", gs.GameID).Int("row", row).Int("col", col).Msg("human-move")
	gs.announceMove(move)
	gs.maybeScheduleBotMove()
	return move, nil
}

// Undo takes back the last full turn so that it is the human's move again.
// The engine's opening stone alone cannot be undone.
func (gs *GameSession) Undo() ([]domain.Move, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.thinking {
		return nil, domain.ErrEngineThinking
	}

	history := gs.game.Board.MoveHistory()
	if !lo.ContainsBy(history, func(m domain.Move) bool { return m.Side == gs.HumanSide }) {
		return nil, domain.ErrNothingToUndo
	}

	var undone []domain.Move
	for {
		m, err := gs.game.Undo()
		if err != nil {
			break
		}
		undone = append(undone, m)
		if m.Side == gs.HumanSide {
			break
		}
	}
	gs.touch()

	gs.manager.notify(gs.GameID, domain.ServerMessage{Type: "undo", State: gs.stateLocked()})
	return undone, nil
}

// Redo re-applies a full turn: the human's move and the engine's reply
// that followed it, if that reply is still on the redo stack.
func (gs *GameSession) Redo() ([]domain.Move, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.thinking {
		return nil, domain.ErrEngineThinking
	}
	if !gs.game.Board.CanRedo() {
		return nil, domain.ErrNothingToRedo
	}

	var redone []domain.Move
	for {
		m, err := gs.game.Redo()
		if err != nil {
			break
		}
		redone = append(redone, m)
		if m.Side != gs.HumanSide {
			continue
		}
		if next, ok := gs.game.Board.NextRedo(); ok && next.Side != gs.HumanSide && !gs.game.IsFinished() {
			if m, err := gs.game.Redo(); err == nil {
				redone = append(redone, m)
			}
		}
		break
	}
	gs.touch()

	gs.manager.notify(gs.GameID, domain.ServerMessage{Type: "redo", State: gs.stateLocked()})
	if gs.game.IsFinished() {
		gs.finishLocked()
	}
	gs.maybeScheduleBotMove()
	return redone, nil
}

// Reset starts a fresh game with the same settings. A reply still being
// computed for the old game is discarded.
func (gs *GameSession) Reset() {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	gs.stopSearch()
	gs.game.Reset()
	gs.finishedAt = time.Time{}
	gs.touch()

	log.Info().Str("gameID", gs.GameID).Msg("session-reset")
	gs.manager.notify(gs.GameID, domain.ServerMessage{Type: "state", State: gs.stateLocked()})
	gs.maybeScheduleBotMove()
}

// Hint asks the engine what it would play for the human, without playing it.
// It is refused while the engine is still choosing its own reply.
func (gs *GameSession) Hint(ctx context.Context) (domain.Move, error) {
	gs.mu.Lock()
	if gs.thinking {
		gs.mu.Unlock()
		return domain.Move{}, domain.ErrEngineThinking
	}
	if gs.game.IsFinished() {
		gs.mu.Unlock()
		return domain.Move{}, domain.ErrGameFinished
	}
	board := gs.game.Board.Clone()
	depth := gs.Difficulty.Depth()
	gs.mu.Unlock()

	return gs.manager.bestMove(ctx, board, gs.HumanSide, depth), nil
}

func (gs *GameSession) State() *domain.GameState {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.stateLocked()
}

func (gs *GameSession) LastActivity() time.Time {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.lastActivity
}

func (gs *GameSession) stateLocked() *domain.GameState {
	g := gs.game
	cells := g.Board.Cells()
	board := make([][]int, domain.BoardSize)
	for row := range board {
		board[row] = make([]int, domain.BoardSize)
		for col := range board[row] {
			board[row][col] = int(cells[row][col])
		}
	}

	state := &domain.GameState{
		GameID:      gs.GameID,
		Difficulty:  string(gs.Difficulty),
		HumanSide:   gs.HumanSide.String(),
		CurrentSide: g.CurrentSide.String(),
		Status:      g.Status,
		WinningLine: g.WinningLine,
		Board:       board,
		Moves:       lo.Map(g.Board.MoveHistory(), func(m domain.Move, _ int) domain.MoveView { return domain.NewMoveView(m) }),
		Thinking:    gs.thinking,
		CanUndo:     g.Board.CanUndo() && !gs.thinking,
		CanRedo:     g.Board.CanRedo() && !gs.thinking,
	}
	if g.Winner != domain.Empty {
		state.Winner = g.Winner.String()
	}
	return state
}

func (gs *GameSession) touch() {
	gs.lastActivity = time.Now()
	gs.generation++
}

// announceMove notifies the move and finishes the game if it ended.
func (gs *GameSession) announceMove(move domain.Move) {
	view := domain.NewMoveView(move)
	gs.manager.notify(gs.GameID, domain.ServerMessage{Type: "move_made", Move: &view, State: gs.stateLocked()})
	if gs.game.IsFinished() {
		gs.finishLocked()
	}
}

func (gs *GameSession) finishLocked() {
	gs.finishedAt = time.Now()
	rec := gs.recordLocked()

	log.Info().Str("gameID", gs.GameID).Str("winner", rec.Winner).Str("reason", rec.Reason).Msg("game-over")
	gs.manager.notify(gs.GameID, domain.ServerMessage{Type: "game_over", Message: rec.Reason, State: gs.stateLocked()})
	gs.manager.saveGameAsync(rec)
}

func (gs *GameSession) recordLocked() *domain.GameRecord {
	g := gs.game
	rec := &domain.GameRecord{
		GameID:          gs.GameID,
		Difficulty:      string(gs.Difficulty),
		HumanSide:       gs.HumanSide.String(),
		Reason:          "draw",
		TotalMoves:      g.Board.MoveCount(),
		DurationSeconds: int(gs.finishedAt.Sub(gs.CreatedAt).Seconds()),
		CreatedAt:       gs.CreatedAt,
		FinishedAt:      gs.finishedAt,
		Moves:           lo.Map(g.Board.MoveHistory(), func(m domain.Move, _ int) domain.MoveView { return domain.NewMoveView(m) }),
	}
	if g.Status == domain.StatusWon {
		rec.Winner = g.Winner.String()
		rec.Reason = "five_in_row"
	}
	return rec
}

// maybeScheduleBotMove starts the engine on its own goroutine when it is the
// engine's turn. The search runs on a snapshot without holding the lock.
func (gs *GameSession) maybeScheduleBotMove() {
	if gs.thinking || gs.game.IsFinished() || gs.game.CurrentSide != gs.game.EngineSide() {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	gs.thinking = true
	gs.cancelSearch = cancel
	generation := gs.generation
	snapshot := gs.game.Board.Clone()

	gs.manager.notify(gs.GameID, domain.ServerMessage{Type: "bot_thinking", Message: bot.GetBotName(gs.Difficulty)})

	gs.manager.pending.Add(1)
	go gs.runBotMove(ctx, snapshot, generation)
}

func (gs *GameSession) runBotMove(ctx context.Context, board *domain.Board, generation uint64) {
	defer gs.manager.pending.Done()

	if delay := gs.manager.botDelay; delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
		}
	}

	start := time.Now()
	move := gs.manager.bestMove(ctx, board, gs.HumanSide.Opponent(), gs.Difficulty.Depth())

	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.generation != generation || ctx.Err() != nil {
		log.Debug().Str("gameID", gs.GameID).Msg("stale-bot-move-dropped")
		return
	}
	gs.thinking = false
	gs.cancelSearch = nil

	applied, err := gs.game.MakeMove(move.Side, move.Row, move.Col)
	if err != nil {
		log.Error().Err(err).Str("gameID", gs.GameID).Int("row", move.Row).Int("col", move.Col).Msg("bot-move-rejected")
		gs.manager.notify(gs.GameID, domain.ServerMessage{Type: "error", Message: err.Error(), State: gs.stateLocked()})
		return
	}
	gs.touch()

	log.Debug().
		Str("gameID", gs.GameID).
		Int("row", applied.Row).
		Int("col", applied.Col).
		Dur("took", time.Since(start)).
		Msg("bot-move")
	gs.announceMove(applied)
}

func (gs *GameSession) stopSearch() {
	if gs.cancelSearch != nil {
		gs.cancelSearch()
		gs.cancelSearch = nil
	}
	gs.thinking = false
	gs.generation++
}

func (gs *GameSession) close() {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.stopSearch()
}
