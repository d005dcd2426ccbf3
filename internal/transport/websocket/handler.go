package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Frida7771/GomokuAI/internal/domain"
	"github.com/Frida7771/GomokuAI/internal/service/game"
	"github.com/Frida7771/GomokuAI/pkg/auth"
	"github.com/Frida7771/GomokuAI/pkg/useragent"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

type Handler struct {
	ConnManager    *ConnectionManager
	SessionManager *game.SessionManager
	Upgrader       websocket.Upgrader
}

func NewHandler(cm *ConnectionManager, sm *game.SessionManager) *Handler {
	return &Handler{
		ConnManager:    cm,
		SessionManager: sm,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws-upgrade-failed")
		return
	}

	h.handleConnection(conn, useragent.ExtractDeviceInfo(c.Request), useragent.ExtractIPAddress(c.Request))
}

// handleConnection authenticates the socket with an init message carrying
// the game token, then serves commands until the client goes away.
func (h *Handler) handleConnection(conn *websocket.Conn, device, ip string) {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	session, ok := h.initialize(conn)
	if !ok {
		conn.Close()
		return
	}
	gameID := session.GameID

	h.ConnManager.AddConnection(gameID, conn)
	log.Info().Str("gameID", gameID).Str("device", device).Str("ip", ip).Msg("ws-connected")

	stopPing := make(chan struct{})
	go h.keepAlive(gameID, conn, stopPing)

	defer func() {
		close(stopPing)
		h.ConnManager.RemoveConnectionIfMatching(gameID, conn)
		log.Info().Str("gameID", gameID).Msg("ws-disconnected")
	}()

	h.ConnManager.SendToGame(gameID, domain.ServerMessage{Type: "state", GameID: gameID, State: session.State()})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("gameID", gameID).Msg("ws-closed-unexpectedly")
			}
			return
		}

		var msg domain.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Debug().Err(err).Str("gameID", gameID).Msg("ws-invalid-message")
			continue
		}
		h.processMessage(session, msg)
	}
}

func (h *Handler) initialize(conn *websocket.Conn) (*game.GameSession, bool) {
	var msg domain.ClientMessage
	if err := conn.ReadJSON(&msg); err != nil {
		log.Debug().Err(err).Msg("ws-init-read-failed")
		return nil, false
	}

	if msg.Type != "init" || msg.Token == "" {
		writeError(conn, "first message must be init with a game token")
		return nil, false
	}

	claims, err := auth.ValidateGameToken(msg.Token)
	if err != nil {
		writeError(conn, "invalid or expired game token")
		return nil, false
	}

	session, exists := h.SessionManager.GetSession(claims.GameID)
	if !exists {
		writeError(conn, domain.ErrSessionNotFound.Error())
		return nil, false
	}
	return session, true
}

func (h *Handler) keepAlive(gameID string, conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Debug().Err(err).Str("gameID", gameID).Msg("ws-ping-failed")
				return
			}
		}
	}
}

// processMessage routes client commands. Successful commands are answered
// through the session's own notifications.
func (h *Handler) processMessage(session *game.GameSession, msg domain.ClientMessage) {
	var err error

	switch msg.Type {
	case "make_move":
		_, err = session.HandleMove(msg.Row, msg.Col)
	case "undo":
		_, err = session.Undo()
	case "redo":
		_, err = session.Redo()
	case "reset":
		session.Reset()
	case "state":
		h.ConnManager.SendToGame(session.GameID, domain.ServerMessage{Type: "state", GameID: session.GameID, State: session.State()})
	default:
		err = domain.Error("unknown message type " + msg.Type)
	}

	if err != nil {
		h.ConnManager.SendToGame(session.GameID, domain.ServerMessage{Type: "error", GameID: session.GameID, Message: err.Error()})
	}
}

func writeError(conn *websocket.Conn, message string) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteJSON(domain.ServerMessage{Type: "error", Message: message})
}
