package cleanup

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// IdleSessionCleaner is implemented by the game session manager.
type IdleSessionCleaner interface {
	CleanupIdleSessions(maxIdle time.Duration) int
}

type Worker struct {
	Sessions IdleSessionCleaner
	Interval time.Duration
	MaxIdle  time.Duration
}

func NewWorker(sessions IdleSessionCleaner, interval, maxIdle time.Duration) *Worker {
	return &Worker{Sessions: sessions, Interval: interval, MaxIdle: maxIdle}
}

// Run sweeps once immediately, then every Interval until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	log.Info().Dur("interval", w.Interval).Dur("maxIdle", w.MaxIdle).Msg("cleanup-worker-started")
	w.runCleanup()

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("cleanup-worker-stopped")
			return nil
		case <-ticker.C:
			w.runCleanup()
		}
	}
}

func (w *Worker) runCleanup() {
	removed := w.Sessions.CleanupIdleSessions(w.MaxIdle)
	log.Debug().Int("removed", removed).Msg("cleanup-sweep")
}
