// Package game hosts the engine facade over the rules layer: multi-game
// lifecycle, per-side views and command lists, snapshot persistence, and
// notification fan-out for transport hosts.
package game

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/game/rules"
)

// Notification types delivered to the registered handler.
const (
	NotifyGameStarted   = "GAME_STARTED"
	NotifyActionApplied = "ACTION_APPLIED"
	NotifyGameOver      = "GAME_OVER"
)

// GameNotification is one push event for transport hosts. Side is nil for
// broadcasts; hosts react by draining command lists for their connections.
type GameNotification struct {
	Type      string
	GameID    string
	Side      *core.Side
	Timestamp time.Time
	Data      map[string]any
}

// NotificationHandler receives game notifications. Handlers run on their
// own goroutine and may call back into the engine.
type NotificationHandler func(notification GameNotification)

// Engine hosts concurrent games over the rules layer. Each game is guarded
// by its own lock; the engine lock covers only the game table and the
// notification handler.
type Engine struct {
	logger   *zap.Logger
	registry *core.Registry

	mu                  sync.RWMutex
	games               map[string]*gameEntry
	notificationHandler NotificationHandler
}

// gameEntry pairs one game with its lock and per-side command outboxes.
type gameEntry struct {
	mu        sync.Mutex
	state     *core.GameState
	outbox    [2][]Command
	startedAt time.Time
}

// NewEngine creates an engine serving games from the given card registry.
func NewEngine(logger *zap.Logger, registry *core.Registry) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		logger:   logger,
		registry: registry,
		games:    make(map[string]*gameEntry),
	}
}

// SetNotificationHandler registers the handler for game notifications.
// This is how external systems (websocket hub, console) receive real-time
// game updates.
func (e *Engine) SetNotificationHandler(handler NotificationHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notificationHandler = handler
}

// emitNotification hands a notification to the registered handler on a
// fresh goroutine so game locks are never held across handler code.
func (e *Engine) emitNotification(n GameNotification) {
	e.mu.RLock()
	handler := e.notificationHandler
	e.mu.RUnlock()
	if handler != nil {
		go handler(n)
	}
}

// StartGame creates a game from two decklists and deals opening hands. The
// game then waits in the mulligan phase for both sides' decisions.
// Non-deterministic games get a fresh random seed.
func (e *Engine) StartGame(gameID string, config core.GameConfiguration, covenant, riftcaller rules.Decklist) error {
	if gameID == "" {
		return fmt.Errorf("game id is required")
	}
	if !config.Deterministic {
		config.Seed = randomSeed()
	}

	e.mu.Lock()
	if _, exists := e.games[gameID]; exists {
		e.mu.Unlock()
		return fmt.Errorf("game %s already exists", gameID)
	}
	g, err := rules.NewGame(gameID, e.registry, config, covenant, riftcaller)
	if err != nil {
		e.mu.Unlock()
		return fmt.Errorf("start game %s: %w", gameID, err)
	}
	entry := &gameEntry{state: g, startedAt: time.Now()}
	entry.queueUpdates(g.Updates.Drain())
	e.games[gameID] = entry
	e.mu.Unlock()

	e.logger.Info("game started",
		zap.String("game_id", gameID),
		zap.Uint64("seed", config.Seed),
		zap.Bool("deterministic", config.Deterministic),
	)
	e.emitNotification(GameNotification{
		Type:      NotifyGameStarted,
		GameID:    gameID,
		Timestamp: time.Now(),
	})
	return nil
}

// ProcessAction validates and applies one player action. Illegal actions
// return rules.ErrIllegalAction wrapped with the reason and leave the game
// unchanged. Internal failures restore the pre-action snapshot so a bad
// delegate cannot wedge a game.
func (e *Engine) ProcessAction(gameID string, side core.Side, action core.UserAction) error {
	entry, err := e.entry(gameID)
	if err != nil {
		return err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	g := entry.state
	before, err := Snapshot(g)
	if err != nil {
		return fmt.Errorf("snapshot game %s: %w", gameID, err)
	}

	if err := rules.HandleAction(g, side, action); err != nil {
		if rules.IsIllegal(err) {
			// Validation rejections never mutate; nothing to roll back.
			return err
		}
		restored, restoreErr := RestoreSnapshot(before, e.registry)
		if restoreErr != nil {
			e.logger.Error("state restore failed after action error",
				zap.String("game_id", gameID),
				zap.NamedError("action_error", err),
				zap.Error(restoreErr),
			)
			return err
		}
		entry.state = restored
		e.logger.Error("action failed, pre-action state restored",
			zap.String("game_id", gameID),
			zap.String("side", side.String()),
			zap.String("action", string(action.Kind)),
			zap.Error(err),
		)
		return fmt.Errorf("action failed and state restored: %w", err)
	}

	entry.queueUpdates(g.Updates.Drain())

	e.emitNotification(GameNotification{
		Type:      NotifyActionApplied,
		GameID:    gameID,
		Timestamp: time.Now(),
		Data: map[string]any{
			"side":   side.String(),
			"action": string(action.Kind),
		},
	})
	if g.GameOver() {
		winner := g.Info.Phase.Winner
		e.logger.Info("game over",
			zap.String("game_id", gameID),
			zap.String("winner", winner.String()),
		)
		e.emitNotification(GameNotification{
			Type:      NotifyGameOver,
			GameID:    gameID,
			Timestamp: time.Now(),
			Data:      map[string]any{"winner": winner.String()},
		})
	}
	return nil
}

// LegalActions enumerates the actions the given side may submit right now.
func (e *Engine) LegalActions(gameID string, side core.Side) ([]core.UserAction, error) {
	entry, err := e.entry(gameID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return rules.LegalActions(entry.state, side)
}

// SnapshotGame serializes a game for persistence.
func (e *Engine) SnapshotGame(gameID string) ([]byte, error) {
	entry, err := e.entry(gameID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return Snapshot(entry.state)
}

// LoadGame restores a persisted game into the engine.
func (e *Engine) LoadGame(gameID string, data []byte) error {
	g, err := RestoreSnapshot(data, e.registry)
	if err != nil {
		return fmt.Errorf("load game %s: %w", gameID, err)
	}
	if g.ID != gameID {
		return fmt.Errorf("load game %s: snapshot is for game %s", gameID, g.ID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.games[gameID]; exists {
		return fmt.Errorf("game %s already exists", gameID)
	}
	e.games[gameID] = &gameEntry{state: g, startedAt: time.Now()}
	e.logger.Info("game loaded", zap.String("game_id", gameID))
	return nil
}

// ChecksumGame returns the canonical state checksum of a game.
func (e *Engine) ChecksumGame(gameID string) (string, error) {
	entry, err := e.entry(gameID)
	if err != nil {
		return "", err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return Checksum(entry.state)
}

// EndGame drops a finished or abandoned game from the engine.
func (e *Engine) EndGame(gameID string) error {
	e.mu.Lock()
	_, ok := e.games[gameID]
	delete(e.games, gameID)
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("game %s not found", gameID)
	}
	e.logger.Info("game removed", zap.String("game_id", gameID))
	return nil
}

// Games lists the ids of the games the engine is hosting.
func (e *Engine) Games() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]string, 0, len(e.games))
	for id := range e.games {
		ids = append(ids, id)
	}
	return ids
}

// HasGame reports whether the engine hosts the given game.
func (e *Engine) HasGame(gameID string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.games[gameID]
	return ok
}

func (e *Engine) entry(gameID string) (*gameEntry, error) {
	e.mu.RLock()
	entry, ok := e.games[gameID]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("game %s not found", gameID)
	}
	return entry, nil
}

// randomSeed draws 64 bits from the system entropy source, falling back to
// the clock if that fails.
func randomSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.BigEndian.Uint64(b[:])
}
