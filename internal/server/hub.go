package server

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
)

// Hub tracks live connections and which game seat each one occupies.
// A game has at most one connection per side; reconnecting to an
// occupied seat is rejected until the old connection goes away.
type Hub struct {
	mu     sync.RWMutex
	conns  map[*Connection]bool
	seats  map[string]map[core.Side]*Connection
	logger *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		conns:  make(map[*Connection]bool),
		seats:  make(map[string]map[core.Side]*Connection),
		logger: logger,
	}
}

// Register adds a connection to the hub.
func (h *Hub) Register(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = true
	h.logger.Debug("connection registered", zap.Int("total", len(h.conns)))
}

// Unregister removes a connection and frees any seat it held.
func (h *Hub) Unregister(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.conns[c] {
		return
	}
	delete(h.conns, c)
	h.releaseSeatLocked(c)
	close(c.send)
	h.logger.Debug("connection unregistered", zap.Int("total", len(h.conns)))
}

// Bind seats a connection on one side of a game.
func (h *Hub) Bind(c *Connection, gameID string, side core.Side) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.conns[c] {
		return fmt.Errorf("connection is not registered")
	}
	seats := h.seats[gameID]
	if seats == nil {
		seats = make(map[core.Side]*Connection)
		h.seats[gameID] = seats
	}
	if occupant, ok := seats[side]; ok && occupant != c {
		return fmt.Errorf("seat %s in game %s is taken", side, gameID)
	}
	h.releaseSeatLocked(c)
	seats[side] = c
	c.setSeat(gameID, side)
	return nil
}

// ReleaseSeat frees the seat held by a connection, if any.
func (h *Hub) ReleaseSeat(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.releaseSeatLocked(c)
}

func (h *Hub) releaseSeatLocked(c *Connection) {
	gameID, side, ok := c.seat()
	if !ok {
		return
	}
	if seats := h.seats[gameID]; seats != nil && seats[side] == c {
		delete(seats, side)
		if len(seats) == 0 {
			delete(h.seats, gameID)
		}
	}
	c.clearSeat()
}

// SideConnection returns the connection seated on side of a game.
func (h *Hub) SideConnection(gameID string, side core.Side) (*Connection, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	seats := h.seats[gameID]
	if seats == nil {
		return nil, false
	}
	c, ok := seats[side]
	return c, ok
}

// GameConnections returns every connection seated in a game.
func (h *Hub) GameConnections(gameID string) []*Connection {
	h.mu.RLock()
	defer h.mu.RUnlock()
	seats := h.seats[gameID]
	out := make([]*Connection, 0, len(seats))
	for _, c := range seats {
		out = append(out, c)
	}
	return out
}

// BroadcastGame sends a message to every connection seated in a game.
func (h *Hub) BroadcastGame(gameID string, msg ServerMessage) {
	for _, c := range h.GameConnections(gameID) {
		c.Send(msg)
	}
}

// SeatedSides reports which sides of a game are occupied.
func (h *Hub) SeatedSides(gameID string) []core.Side {
	h.mu.RLock()
	defer h.mu.RUnlock()
	seats := h.seats[gameID]
	out := make([]core.Side, 0, len(seats))
	for side := range seats {
		out = append(out, side)
	}
	return out
}

// ConnectionCount returns the number of registered connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// CloseAll disconnects every registered connection.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		delete(h.conns, c)
		h.releaseSeatLocked(c)
		close(c.send)
	}
}
