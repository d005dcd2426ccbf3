package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Frida7771/GomokuAI/internal/domain"
)

// GameArchive is the read side of the finished-game store.
type GameArchive interface {
	GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error)
	ListRecentGames(ctx context.Context, limit int) ([]domain.GameRecord, error)
}

type HistoryHandler struct {
	Archive GameArchive
}

// NewHistoryHandler accepts a nil archive when persistence is disabled.
func NewHistoryHandler(archive GameArchive) *HistoryHandler {
	return &HistoryHandler{Archive: archive}
}

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	if h.Archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game history is disabled"})
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	games, err := h.Archive.ListRecentGames(c.Request.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("list-history-failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}
	c.JSON(http.StatusOK, games)
}

func (h *HistoryHandler) GetGameDetails(c *gin.Context) {
	if h.Archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game history is disabled"})
		return
	}

	rec, err := h.Archive.GetGameByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.Error().Err(err).Str("gameID", c.Param("id")).Msg("get-history-failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch game"})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}
