package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Frida7771/GomokuAI/internal/config"
	"github.com/Frida7771/GomokuAI/internal/domain"
	"github.com/Frida7771/GomokuAI/internal/service/bot"
)

var (
	levelFlag = flag.String("level", "", "easy, medium or hard (default from DEFAULT_DIFFICULTY)")
	sideFlag  = flag.String("side", "black", "the side you play")
)

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func usage(w io.Writer) {
	io.WriteString(w, "commands:\n")
	io.WriteString(w, "h8 or 7 7 - play at column h, row 8 (or row 7, col 7 zero-based)\n")
	io.WriteString(w, "undo - take back your last move and the reply\n")
	io.WriteString(w, "redo - replay a move you took back\n")
	io.WriteString(w, "hint - ask the engine what it would play for you\n")
	io.WriteString(w, "level <easy|medium|hard> - change difficulty\n")
	io.WriteString(w, "new [black|white] - start over, optionally switching sides\n")
	io.WriteString(w, "show - print the board\n")
	io.WriteString(w, "exit - quit\n")
}

func main() {
	flag.Parse()
	_ = godotenv.Load()

	cfg := config.LoadConfig()
	cfg.LogPretty = true
	cfg.SetupLogging()

	level := *levelFlag
	if level == "" {
		level = cfg.DefaultDifficulty
	}
	difficulty, err := bot.ParseDifficulty(level)
	if err != nil {
		log.Fatal().Err(err).Msg("bad-level")
	}
	side, err := domain.ParseSide(*sideFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("bad-side")
	}

	l, err := readline.NewEx(&readline.Config{
		Prompt:              "\033[32mgomoku>\033[0m ",
		HistoryFile:         "/tmp/gomoku-readline.tmp",
		EOFPrompt:           "exit",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("readline")
	}
	defer l.Close()

	sh := newShell(l.Stdout(), bot.NewEngine(bot.Options{
		SearchWidth:    cfg.SearchWidth,
		NeighborRadius: cfg.NeighborRadius,
	}), difficulty, side)
	sh.start()

	for {
		line, err := l.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return
			}
			continue
		} else if errors.Is(err, io.EOF) {
			return
		}

		line = strings.TrimSpace(line)
		switch {
		case line == "exit" || line == "quit" || line == "bye":
			return
		case line == "help":
			usage(l.Stderr())
		case line == "":
		default:
			if err := sh.execute(line); err != nil {
				fmt.Fprintln(l.Stderr(), "error:", err)
			}
		}
	}
}
