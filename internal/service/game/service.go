package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Frida7771/GomokuAI/internal/domain"
	"github.com/Frida7771/GomokuAI/internal/service/bot"
	"github.com/Frida7771/GomokuAI/pkg/uid"
)

// Notifier pushes events to whoever is watching a game.
type Notifier interface {
	SendToGame(gameID string, message domain.ServerMessage) error
}

type GameRepository interface {
	SaveGame(ctx context.Context, rec *domain.GameRecord) error
}

// MoveCache remembers engine answers by position key.
type MoveCache interface {
	GetBestMove(ctx context.Context, key string) (domain.Position, bool, error)
	SetBestMove(ctx context.Context, key string, pos domain.Position) error
}

// SessionManager owns the live games and the collaborators they share.
// repo and cache may be nil.
type SessionManager struct {
	sessions map[string]*GameSession
	mu       sync.RWMutex

	engine   *bot.Engine
	notifier Notifier
	repo     GameRepository
	cache    MoveCache
	botDelay time.Duration

	// tracks engine replies and archive writes still running
	pending sync.WaitGroup
}

type ManagerOptions struct {
	Engine   *bot.Engine
	Notifier Notifier
	Repo     GameRepository
	Cache    MoveCache
	BotDelay time.Duration
}

func NewSessionManager(opts ManagerOptions) *SessionManager {
	engine := opts.Engine
	if engine == nil {
		engine = bot.NewEngine(bot.DefaultOptions())
	}
	return &SessionManager{
		sessions: make(map[string]*GameSession),
		engine:   engine,
		notifier: opts.Notifier,
		repo:     opts.Repo,
		cache:    opts.Cache,
		botDelay: opts.BotDelay,
	}
}

// CreateSession starts a new game. If the engine plays Black its opening
// move is scheduled right away.
func (sm *SessionManager) CreateSession(difficulty bot.Difficulty, humanSide domain.Cell) (*GameSession, error) {
	if !humanSide.IsSide() {
		return nil, domain.ErrInvalidSide
	}
	if _, err := bot.ParseDifficulty(string(difficulty)); err != nil {
		return nil, err
	}

	now := time.Now()
	gs := &GameSession{
		GameID:       uid.GenerateGameID(),
		Difficulty:   difficulty,
		HumanSide:    humanSide,
		CreatedAt:    now,
		game:         domain.NewGame(humanSide),
		lastActivity: now,
		manager:      sm,
	}

	sm.mu.Lock()
	sm.sessions[gs.GameID] = gs
	sm.mu.Unlock()

	log.Info().
		Str("gameID", gs.GameID).
		Str("difficulty", string(difficulty)).
		Str("humanSide", humanSide.String()).
		Msg("session-created")

	gs.mu.Lock()
	gs.maybeScheduleBotMove()
	gs.mu.Unlock()

	return gs, nil
}

func (sm *SessionManager) GetSession(gameID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	gs, ok := sm.sessions[gameID]
	return gs, ok
}

// RemoveSession forgets the game and discards any reply still being computed.
func (sm *SessionManager) RemoveSession(gameID string) error {
	sm.mu.Lock()
	gs, ok := sm.sessions[gameID]
	if !ok {
		sm.mu.Unlock()
		return fmt.Errorf("remove %s: %w", gameID, domain.ErrSessionNotFound)
	}
	delete(sm.sessions, gameID)
	sm.mu.Unlock()

	gs.close()
	return nil
}

func (sm *SessionManager) ActiveSessions() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// CleanupIdleSessions drops sessions nobody touched for maxIdle and returns
// how many were removed. Session locks are never taken while holding sm.mu.
func (sm *SessionManager) CleanupIdleSessions(maxIdle time.Duration) int {
	sm.mu.RLock()
	sessions := make([]*GameSession, 0, len(sm.sessions))
	for _, gs := range sm.sessions {
		sessions = append(sessions, gs)
	}
	sm.mu.RUnlock()

	now := time.Now()
	var idle []*GameSession
	for _, gs := range sessions {
		if now.Sub(gs.LastActivity()) > maxIdle {
			idle = append(idle, gs)
		}
	}
	if len(idle) == 0 {
		return 0
	}

	removed := make([]*GameSession, 0, len(idle))
	sm.mu.Lock()
	for _, gs := range idle {
		// it may have been removed or replaced since the snapshot
		if sm.sessions[gs.GameID] == gs {
			delete(sm.sessions, gs.GameID)
			removed = append(removed, gs)
		}
	}
	remaining := len(sm.sessions)
	sm.mu.Unlock()

	for _, gs := range removed {
		gs.close()
	}

	if len(removed) > 0 {
		log.Info().Int("removed", len(removed)).Int("remaining", remaining).Msg("idle-sessions-cleaned")
	}
	return len(removed)
}

// Wait blocks until every scheduled engine reply and archive write is done.
func (sm *SessionManager) Wait() {
	sm.pending.Wait()
}

func (sm *SessionManager) notify(gameID string, msg domain.ServerMessage) {
	if sm.notifier == nil {
		return
	}
	msg.GameID = gameID
	if err := sm.notifier.SendToGame(gameID, msg); err != nil {
		log.Warn().Err(err).Str("gameID", gameID).Str("type", msg.Type).Msg("notify-failed")
	}
}

// bestMove consults the cache before running the engine on board.
func (sm *SessionManager) bestMove(ctx context.Context, board *domain.Board, side domain.Cell, depth int) domain.Move {
	opts := sm.engine.Options()
	key := fmt.Sprintf("%016x:%s:%d:%d:%d", board.Hash(), side, depth, opts.SearchWidth, opts.NeighborRadius)

	if sm.cache != nil {
		pos, ok, err := sm.cache.GetBestMove(ctx, key)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("move-cache-read-failed")
		case ok && board.IsEmpty(pos.Row, pos.Col):
			log.Debug().Str("key", key).Msg("move-cache-hit")
			return domain.Move{Row: pos.Row, Col: pos.Col, Side: side, Sequence: board.MoveCount() + 1}
		}
	}

	move := sm.engine.BestMove(ctx, board, side, depth)

	if sm.cache != nil && ctx.Err() == nil {
		if err := sm.cache.SetBestMove(ctx, key, move.Position()); err != nil {
			log.Warn().Err(err).Msg("move-cache-write-failed")
		}
	}
	return move
}

// saveGameAsync archives rec in the background so game_over is not delayed.
func (sm *SessionManager) saveGameAsync(rec *domain.GameRecord) {
	if sm.repo == nil {
		return
	}

	sm.pending.Add(1)
	go func() {
		defer sm.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := sm.repo.SaveGame(ctx, rec); err != nil {
			log.Error().Err(err).Str("gameID", rec.GameID).Msg("save-game-failed")
			return
		}
		log.Info().Str("gameID", rec.GameID).Str("reason", rec.Reason).Msg("game-saved")
	}()
}
