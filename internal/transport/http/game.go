package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Frida7771/GomokuAI/internal/domain"
	"github.com/Frida7771/GomokuAI/internal/service/bot"
	"github.com/Frida7771/GomokuAI/internal/service/game"
	"github.com/Frida7771/GomokuAI/pkg/auth"
	"github.com/Frida7771/GomokuAI/pkg/httputil"
)

type GameHandler struct {
	SessionManager    *game.SessionManager
	DefaultDifficulty bot.Difficulty
}

func NewGameHandler(sm *game.SessionManager, defaultDifficulty bot.Difficulty) *GameHandler {
	return &GameHandler{SessionManager: sm, DefaultDifficulty: defaultDifficulty}
}

type createGameRequest struct {
	Difficulty string `json:"difficulty"`
	HumanSide  string `json:"humanSide"`
}

type createGameResponse struct {
	GameID string            `json:"gameId"`
	Token  string            `json:"token"`
	Bot    string            `json:"bot"`
	State  *domain.GameState `json:"state"`
}

type moveRequest struct {
	Row *int `json:"row" binding:"required"`
	Col *int `json:"col" binding:"required"`
}

// CreateGame starts a session. Both fields are optional: difficulty falls
// back to the server default and the human plays black.
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req createGameRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	difficulty := h.DefaultDifficulty
	if req.Difficulty != "" {
		d, err := bot.ParseDifficulty(req.Difficulty)
		if err != nil {
			writeError(c, err)
			return
		}
		difficulty = d
	}

	humanSide := domain.Black
	if req.HumanSide != "" {
		side, err := domain.ParseSide(req.HumanSide)
		if err != nil {
			writeError(c, err)
			return
		}
		humanSide = side
	}

	session, err := h.SessionManager.CreateSession(difficulty, humanSide)
	if err != nil {
		writeError(c, err)
		return
	}

	token, err := auth.GenerateGameToken(session.GameID, humanSide.String())
	if err != nil {
		log.Error().Err(err).Str("gameID", session.GameID).Msg("game-token-failed")
		h.SessionManager.RemoveSession(session.GameID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue game token"})
		return
	}
	httputil.SetGameCookie(c.Writer, token)

	c.JSON(http.StatusCreated, createGameResponse{
		GameID: session.GameID,
		Token:  token,
		Bot:    bot.GetBotName(difficulty),
		State:  session.State(),
	})
}

func (h *GameHandler) GetGame(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.State())
}

func (h *GameHandler) MakeMove(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "row and col are required"})
		return
	}

	if _, err := session.HandleMove(*req.Row, *req.Col); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.State())
}

func (h *GameHandler) Undo(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if _, err := session.Undo(); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.State())
}

func (h *GameHandler) Redo(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if _, err := session.Redo(); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.State())
}

func (h *GameHandler) Reset(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	session.Reset()
	c.JSON(http.StatusOK, session.State())
}

// Abandon ends the session without archiving it and drops the game cookie.
func (h *GameHandler) Abandon(c *gin.Context) {
	if err := h.SessionManager.RemoveSession(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	httputil.ClearGameCookie(c.Writer)
	c.Status(http.StatusNoContent)
}

// Hint returns the engine's suggestion for the human without playing it.
func (h *GameHandler) Hint(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	move, err := session.Hint(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, move.Position())
}

func (h *GameHandler) session(c *gin.Context) (*game.GameSession, bool) {
	session, exists := h.SessionManager.GetSession(c.Param("id"))
	if !exists {
		writeError(c, domain.ErrSessionNotFound)
		return nil, false
	}
	return session, true
}

// writeError maps domain errors to status codes.
func writeError(c *gin.Context, err error) {
	var domainErr domain.Error
	if !errors.As(err, &domainErr) {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request-failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	status := http.StatusBadRequest
	switch domainErr {
	case domain.ErrSessionNotFound:
		status = http.StatusNotFound
	case domain.ErrNotYourTurn, domain.ErrEngineThinking, domain.ErrGameFinished,
		domain.ErrPositionOccupied, domain.ErrNothingToUndo, domain.ErrNothingToRedo:
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": domainErr.Error()})
}
