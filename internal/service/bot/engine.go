package bot

import (
	"strings"

	"github.com/Frida7771/GomokuAI/internal/domain"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Depth is the search depth handed to the engine for each level.
func (d Difficulty) Depth() int {
	switch d {
	case Easy:
		return 2
	case Hard:
		return 4
	default:
		return 3
	}
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case Easy, Medium, Hard:
		return d, nil
	}
	return "", domain.ErrInvalidLevel
}

// Bot names shown to the player, one per level.
var BotNames = map[Difficulty]string{
	Easy:   "Alice",
	Medium: "Bob",
	Hard:   "Charles",
}

func GetBotName(d Difficulty) string {
	if name, ok := BotNames[d]; ok {
		return name
	}
	return "BOT"
}

const (
	DefaultSearchWidth    = 10
	DefaultNeighborRadius = 2
)

// Options tunes the search. Zero values fall back to the defaults.
type Options struct {
	// SearchWidth caps how many ordered candidates each inner node expands.
	SearchWidth int
	// NeighborRadius is the Chebyshev distance from existing stones within
	// which empty cells become candidates.
	NeighborRadius int
}

func DefaultOptions() Options {
	return Options{
		SearchWidth:    DefaultSearchWidth,
		NeighborRadius: DefaultNeighborRadius,
	}
}

// Engine picks moves with a depth-limited alpha-beta search. It holds no
// per-search state and may be shared between goroutines.
type Engine struct {
	opts Options
}

func NewEngine(opts Options) *Engine {
	if opts.SearchWidth <= 0 {
		opts.SearchWidth = DefaultSearchWidth
	}
	if opts.NeighborRadius <= 0 {
		opts.NeighborRadius = DefaultNeighborRadius
	}
	return &Engine{opts: opts}
}

func (e *Engine) Options() Options {
	return e.opts
}

var defaultEngine = NewEngine(DefaultOptions())

// GetBestMove searches with the default options and no deadline.
func GetBestMove(board *domain.Board, aiSide domain.Cell, maxDepth int) domain.Move {
	return defaultEngine.GetBestMove(board, aiSide, maxDepth)
}
