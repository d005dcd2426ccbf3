package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Frida7771/GomokuAI/internal/domain"
)

const writeWait = 10 * time.Second

// ConnectionManager keeps at most one socket per game.
type ConnectionManager struct {
	connections map[string]*websocket.Conn

	// conn.WriteJSON is not safe for concurrent use; engine replies and
	// request handlers write from different goroutines.
	writeMu map[string]*sync.Mutex

	mu sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*websocket.Conn),
		writeMu:     make(map[string]*sync.Mutex),
	}
}

// AddConnection registers conn for gameID, closing any previous socket.
func (cm *ConnectionManager) AddConnection(gameID string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if oldConn, exists := cm.connections[gameID]; exists && oldConn != conn {
		oldConn.Close()
	}
	cm.connections[gameID] = conn
	cm.writeMu[gameID] = &sync.Mutex{}
}

// RemoveConnectionIfMatching only removes conn if it is still the current
// socket for gameID, so a reconnect is not torn down by the old reader.
func (cm *ConnectionManager) RemoveConnectionIfMatching(gameID string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if current, exists := cm.connections[gameID]; exists && current == conn {
		current.Close()
		delete(cm.connections, gameID)
		delete(cm.writeMu, gameID)
	}
}

func (cm *ConnectionManager) IsConnected(gameID string) bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	_, ok := cm.connections[gameID]
	return ok
}

// SendToGame writes message to the game's socket. No socket is not an error.
func (cm *ConnectionManager) SendToGame(gameID string, message domain.ServerMessage) error {
	cm.mu.RLock()
	conn, exists := cm.connections[gameID]
	mu, muExists := cm.writeMu[gameID]
	cm.mu.RUnlock()

	if !exists || !muExists {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(message)
}

// CloseAll closes every socket, used on shutdown.
func (cm *ConnectionManager) CloseAll() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	for gameID, conn := range cm.connections {
		conn.Close()
		delete(cm.connections, gameID)
		delete(cm.writeMu, gameID)
	}
}
