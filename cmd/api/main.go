package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Frida7771/GomokuAI/internal/config"
	"github.com/Frida7771/GomokuAI/internal/repository/postgres"
	"github.com/Frida7771/GomokuAI/internal/repository/redis"
	"github.com/Frida7771/GomokuAI/internal/service/bot"
	"github.com/Frida7771/GomokuAI/internal/service/cleanup"
	"github.com/Frida7771/GomokuAI/internal/service/game"
	transportHttp "github.com/Frida7771/GomokuAI/internal/transport/http"
	"github.com/Frida7771/GomokuAI/internal/transport/websocket"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Debug().Msg("no-env-file")
		}
	}

	cfg := config.LoadConfig()
	cfg.SetupLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	difficulty, err := bot.ParseDifficulty(cfg.DefaultDifficulty)
	if err != nil {
		log.Warn().Str("value", cfg.DefaultDifficulty).Msg("bad-default-difficulty-using-medium")
		difficulty = bot.Medium
	}

	// 1. Game archive (optional)
	managerOpts := game.ManagerOptions{
		Engine: bot.NewEngine(bot.Options{
			SearchWidth:    cfg.SearchWidth,
			NeighborRadius: cfg.NeighborRadius,
		}),
		BotDelay: cfg.BotMoveDelay,
	}

	var archive transportHttp.GameArchive
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin)
		if err != nil {
			log.Fatal().Err(err).Msg("database-unreachable")
		}
		defer db.Close()

		if err := postgres.RunMigrations(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("migration-failed")
		}
		log.Info().Msg("migration-completed")

		gameRepo := postgres.NewGameRepo(db)
		managerOpts.Repo = gameRepo
		archive = gameRepo
	} else {
		log.Warn().Msg("no-database-url-history-disabled")
	}

	// 2. Move cache (optional)
	if err := redis.InitRedis(cfg.RedisURL, cfg.RedisPassword); err != nil {
		log.Warn().Err(err).Msg("redis-init-failed")
	}
	defer redis.CloseRedis()
	if redis.IsRedisEnabled() {
		managerOpts.Cache = redis.NewMoveCache(redis.RedisClient, cfg.MoveCacheTTL)
	}

	// 3. Sessions and transport
	connManager := websocket.NewConnectionManager()
	managerOpts.Notifier = connManager
	sessionManager := game.NewSessionManager(managerOpts)

	wsHandler := websocket.NewHandler(connManager, sessionManager)
	router := transportHttp.NewRouter(transportHttp.RouterDeps{
		Games:          transportHttp.NewGameHandler(sessionManager, difficulty),
		History:        transportHttp.NewHistoryHandler(archive),
		WebSocket:      wsHandler.HandleWebSocket,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("server-starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return cleanup.NewWorker(sessionManager, cfg.CleanupInterval, cfg.SessionIdleTimeout).Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("server-shutting-down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		connManager.CloseAll()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server-exited-with-error")
	}

	sessionManager.Wait()
	log.Info().Msg("server-exited")
}
