package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 32
)

// Connection wraps one websocket client. Outgoing messages are queued
// on send and written by a single writer goroutine.
type Connection struct {
	server *Server
	ws     *websocket.Conn
	send   chan []byte
	logger *zap.Logger

	mu        sync.RWMutex
	sessionID string
	gameID    string
	side      core.Side
	seated    bool
}

func newConnection(server *Server, ws *websocket.Conn) *Connection {
	return &Connection{
		server: server,
		ws:     ws,
		send:   make(chan []byte, sendBuffer),
		logger: server.logger.With(zap.String("remote", ws.RemoteAddr().String())),
	}
}

func (c *Connection) setSession(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionID = id
}

func (c *Connection) session() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

func (c *Connection) setSeat(gameID string, side core.Side) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gameID = gameID
	c.side = side
	c.seated = true
}

func (c *Connection) clearSeat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gameID = ""
	c.seated = false
}

func (c *Connection) seat() (string, core.Side, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gameID, c.side, c.seated
}

// Send queues a message for the client. Slow clients that fill their
// buffer are disconnected rather than blocking the caller.
func (c *Connection) Send(msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("failed to marshal server message", zap.Error(err), zap.String("type", msg.Type))
		return
	}
	defer func() {
		// Send on a closed channel means the hub dropped us already.
		_ = recover()
	}()
	select {
	case c.send <- data:
	default:
		c.logger.Warn("send buffer full, dropping connection")
		go c.server.hub.Unregister(c)
	}
}

func (c *Connection) sendError(gameID, message string) {
	c.Send(ServerMessage{Type: MsgError, GameID: gameID, Data: ErrorReply{Message: message}})
}

// readLoop pumps client messages into the server router until the
// connection drops.
func (c *Connection) readLoop() {
	defer func() {
		c.server.hub.Unregister(c)
		_ = c.ws.Close()
	}()
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read failed", zap.Error(err))
			}
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError("", "malformed message")
			continue
		}
		c.server.route(c, msg)
	}
}

// writeLoop drains the send queue onto the socket and keeps the
// connection alive with pings.
func (c *Connection) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
