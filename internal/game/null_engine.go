package game

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/game/rules"
)

// NullEngine is a stub engine that records actions instead of resolving
// them. Transport hosts test their plumbing against it without standing up
// real games.
type NullEngine struct {
	logger *zap.Logger

	mu      sync.RWMutex
	games   map[string]*nullGame
	handler NotificationHandler
}

type nullGame struct {
	Config  core.GameConfiguration
	Actions []RecordedAction
}

// RecordedAction is one action the null engine received.
type RecordedAction struct {
	Side   core.Side
	Action core.UserAction
}

// NewNullEngine creates a null engine.
func NewNullEngine(logger *zap.Logger) *NullEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NullEngine{
		logger: logger,
		games:  make(map[string]*nullGame),
	}
}

// SetNotificationHandler registers the notification handler. The null
// engine never emits notifications on its own; tests drive the handler
// through Notify.
func (n *NullEngine) SetNotificationHandler(handler NotificationHandler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handler = handler
}

// Notify delivers a notification to the registered handler synchronously.
func (n *NullEngine) Notify(notification GameNotification) {
	n.mu.RLock()
	handler := n.handler
	n.mu.RUnlock()
	if handler != nil {
		handler(notification)
	}
}

// StartGame registers an empty game record.
func (n *NullEngine) StartGame(gameID string, config core.GameConfiguration, covenant, riftcaller rules.Decklist) error {
	if gameID == "" {
		return fmt.Errorf("game id is required")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, exists := n.games[gameID]; exists {
		return fmt.Errorf("game %s already exists", gameID)
	}
	n.games[gameID] = &nullGame{Config: config}
	n.logger.Info("null engine started game", zap.String("game_id", gameID))
	return nil
}

// ProcessAction records the action for later inspection.
func (n *NullEngine) ProcessAction(gameID string, side core.Side, action core.UserAction) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	g, ok := n.games[gameID]
	if !ok {
		return fmt.Errorf("game %s not found", gameID)
	}
	g.Actions = append(g.Actions, RecordedAction{Side: side, Action: action})
	n.logger.Debug("null engine processed action",
		zap.String("game_id", gameID),
		zap.String("side", side.String()),
		zap.String("action", string(action.Kind)),
	)
	return nil
}

// LegalActions returns no actions.
func (n *NullEngine) LegalActions(gameID string, side core.Side) ([]core.UserAction, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if _, ok := n.games[gameID]; !ok {
		return nil, fmt.Errorf("game %s not found", gameID)
	}
	return nil, nil
}

// GameView returns an empty view carrying only the game id and viewer.
func (n *NullEngine) GameView(gameID string, side core.Side) (*GameView, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if _, ok := n.games[gameID]; !ok {
		return nil, fmt.Errorf("game %s not found", gameID)
	}
	return &GameView{GameID: gameID, Viewer: side}, nil
}

// CommandList returns a single view command.
func (n *NullEngine) CommandList(gameID string, side core.Side) ([]Command, error) {
	view, err := n.GameView(gameID, side)
	if err != nil {
		return nil, err
	}
	return []Command{{View: view}}, nil
}

// SnapshotGame returns an empty snapshot; the null engine carries no
// game state to serialize.
func (n *NullEngine) SnapshotGame(gameID string) ([]byte, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if _, ok := n.games[gameID]; !ok {
		return nil, fmt.Errorf("game %s not found", gameID)
	}
	return []byte{}, nil
}

// LoadGame registers the game id without decoding the snapshot.
func (n *NullEngine) LoadGame(gameID string, data []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.games[gameID]; ok {
		return fmt.Errorf("game %s already exists", gameID)
	}
	n.games[gameID] = &nullGame{}
	return nil
}

// ChecksumGame returns a fixed placeholder checksum.
func (n *NullEngine) ChecksumGame(gameID string) (string, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if _, ok := n.games[gameID]; !ok {
		return "", fmt.Errorf("game %s not found", gameID)
	}
	return "null", nil
}

// RecordedActions returns a copy of the actions a game received.
func (n *NullEngine) RecordedActions(gameID string) []RecordedAction {
	n.mu.RLock()
	defer n.mu.RUnlock()
	g, ok := n.games[gameID]
	if !ok {
		return nil
	}
	return append([]RecordedAction(nil), g.Actions...)
}

// EndGame drops the game record.
func (n *NullEngine) EndGame(gameID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.games[gameID]; !ok {
		return fmt.Errorf("game %s not found", gameID)
	}
	delete(n.games, gameID)
	return nil
}

// HasGame reports whether the game record exists.
func (n *NullEngine) HasGame(gameID string) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	_, ok := n.games[gameID]
	return ok
}

// Games returns the ids of every recorded game.
func (n *NullEngine) Games() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	ids := make([]string, 0, len(n.games))
	for id := range n.games {
		ids = append(ids, id)
	}
	return ids
}
