// Package server hosts the game engine behind a websocket transport.
// Clients exchange JSON envelopes over a single socket: requests carry a
// session id, and game updates are pushed as command lists whenever the
// engine reports a change.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/riftcaller/riftcaller-server-go/internal/config"
	"github.com/riftcaller/riftcaller-server-go/internal/game"
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/game/rules"
	"github.com/riftcaller/riftcaller-server-go/internal/repository"
	"github.com/riftcaller/riftcaller-server-go/internal/session"
)

const serverVersion = "0.1.0"

const persistTimeout = 5 * time.Second

// Engine is the game surface the server drives. Both the production
// engine and the null test engine satisfy it.
type Engine interface {
	SetNotificationHandler(handler game.NotificationHandler)
	StartGame(gameID string, config core.GameConfiguration, covenant, riftcaller rules.Decklist) error
	ProcessAction(gameID string, side core.Side, action core.UserAction) error
	LegalActions(gameID string, side core.Side) ([]core.UserAction, error)
	GameView(gameID string, side core.Side) (*game.GameView, error)
	CommandList(gameID string, side core.Side) ([]game.Command, error)
	SnapshotGame(gameID string) ([]byte, error)
	LoadGame(gameID string, data []byte) error
	ChecksumGame(gameID string) (string, error)
	EndGame(gameID string) error
	HasGame(gameID string) bool
	Games() []string
}

// Deps collects the server's collaborators. Games, Players and Cache
// may be nil; the server then runs without persistence.
type Deps struct {
	Engine   Engine
	Sessions *session.Manager
	Games    *repository.GameRepository
	Players  *repository.PlayerRepository
	Cache    *repository.LiveGameCache
}

// Server accepts websocket clients and routes their messages to the
// engine, the session table and the repositories.
type Server struct {
	cfg      config.ServerConfig
	auth     config.AuthConfig
	gameCfg  config.GameConfig
	logger   *zap.Logger
	engine   Engine
	sessions *session.Manager
	games    *repository.GameRepository
	players  *repository.PlayerRepository
	cache    *repository.LiveGameCache
	hub      *Hub
	tracer   trace.Tracer
	upgrader websocket.Upgrader
	httpSrv  *http.Server

	seatsMu sync.RWMutex
	seats   map[string]map[core.Side]string
}

// New wires a server from its configuration and collaborators.
func New(cfg config.Config, deps Deps, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:      cfg.Server,
		auth:     cfg.Auth,
		gameCfg:  cfg.Game,
		logger:   logger,
		engine:   deps.Engine,
		sessions: deps.Sessions,
		games:    deps.Games,
		players:  deps.Players,
		cache:    deps.Cache,
		hub:      NewHub(logger),
		tracer:   otel.Tracer("riftcaller.server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		seats: make(map[string]map[core.Side]string),
	}
	s.engine.SetNotificationHandler(s.handleNotification)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", s.handleHealth)
	s.httpSrv = &http.Server{
		Addr:    cfg.Server.Address,
		Handler: mux,
	}
	return s
}

// ListenAndServe blocks serving websocket clients until Shutdown is
// called or the listener fails.
func (s *Server) ListenAndServe() error {
	s.logger.Info("websocket server listening", zap.String("address", s.cfg.Address))
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting clients and disconnects the existing ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.CloseAll()
	return s.httpSrv.Shutdown(ctx)
}

// Handler exposes the HTTP handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := newConnection(s, ws)
	s.hub.Register(c)
	go c.writeLoop()
	c.readLoop()
}

// handleNotification reacts to engine events by pushing fresh command
// lists to seated clients and persisting the game. It runs on the
// engine's notification goroutine.
func (s *Server) handleNotification(n game.GameNotification) {
	switch n.Type {
	case game.NotifyGameStarted, game.NotifyActionApplied:
		s.pushCommands(n.GameID)
		s.persistGame(n.GameID)
	case game.NotifyGameOver:
		winner, _ := n.Data["winner"].(string)
		s.finishGame(n.GameID, winner)
	}
}

// pushCommands drains the outbox for every seated side of a game.
func (s *Server) pushCommands(gameID string) {
	for _, side := range s.hub.SeatedSides(gameID) {
		c, ok := s.hub.SideConnection(gameID, side)
		if !ok {
			continue
		}
		commands, err := s.engine.CommandList(gameID, side)
		if err != nil {
			s.logger.Error("failed to build command list",
				zap.String("game_id", gameID),
				zap.String("side", side.String()),
				zap.Error(err),
			)
			continue
		}
		c.Send(ServerMessage{Type: MsgCommands, GameID: gameID, Data: commands})
	}
}

// persistGame snapshots a game into the cache and the database. Storage
// failures are logged, never surfaced to clients.
func (s *Server) persistGame(gameID string) {
	if s.cache == nil && s.games == nil {
		return
	}
	data, err := s.engine.SnapshotGame(gameID)
	if err != nil {
		s.logger.Error("snapshot failed", zap.String("game_id", gameID), zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if s.cache != nil {
		if err := s.cache.Put(ctx, gameID, data); err != nil {
			s.logger.Warn("cache write failed", zap.String("game_id", gameID), zap.Error(err))
		}
	}
	if s.games != nil {
		checksum, err := s.engine.ChecksumGame(gameID)
		if err != nil {
			s.logger.Error("checksum failed", zap.String("game_id", gameID), zap.Error(err))
			return
		}
		phase := ""
		if view, err := s.engine.GameView(gameID, core.SideCovenant); err == nil {
			phase = view.Phase
		}
		rec := &repository.GameRecord{
			ID:       gameID,
			Phase:    phase,
			Checksum: checksum,
			Snapshot: data,
		}
		if err := s.games.Save(ctx, rec); err != nil {
			s.logger.Error("game save failed", zap.String("game_id", gameID), zap.Error(err))
		}
	}
}

// resumeGame loads a game that is not live, preferring the cache over
// the database.
func (s *Server) resumeGame(ctx context.Context, gameID string) error {
	if s.engine.HasGame(gameID) {
		return nil
	}
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, gameID); err == nil {
			if err := s.engine.LoadGame(gameID, data); err == nil {
				s.logger.Info("game resumed from cache", zap.String("game_id", gameID))
				return nil
			}
			s.logger.Warn("cached snapshot rejected", zap.String("game_id", gameID))
		}
	}
	if s.games != nil {
		rec, err := s.games.Load(ctx, gameID)
		if err != nil {
			return err
		}
		if err := s.engine.LoadGame(gameID, rec.Snapshot); err != nil {
			return err
		}
		s.logger.Info("game resumed from database", zap.String("game_id", gameID))
		return nil
	}
	return repository.ErrNotFound
}

// finishGame records the result for both named seats and persists the
// final state.
func (s *Server) finishGame(gameID, winner string) {
	s.pushCommands(gameID)
	s.persistGame(gameID)
	s.hub.BroadcastGame(gameID, ServerMessage{
		Type:   MsgGameEnded,
		GameID: gameID,
		Data:   map[string]string{"winner": winner},
	})
	if s.players == nil {
		return
	}
	winSide, err := core.SideFromString(winner)
	if err != nil {
		s.logger.Warn("game ended without a decodable winner", zap.String("game_id", gameID), zap.String("winner", winner))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	s.seatsMu.RLock()
	named := make(map[core.Side]string, 2)
	for side, name := range s.seats[gameID] {
		named[side] = name
	}
	s.seatsMu.RUnlock()
	for side, name := range named {
		if err := s.players.RecordResult(ctx, name, side == winSide); err != nil {
			s.logger.Warn("result record failed",
				zap.String("game_id", gameID),
				zap.String("player", name),
				zap.Error(err),
			)
		}
	}
}

func (s *Server) nameSeat(gameID string, side core.Side, name string) {
	s.seatsMu.Lock()
	defer s.seatsMu.Unlock()
	seats := s.seats[gameID]
	if seats == nil {
		seats = make(map[core.Side]string, 2)
		s.seats[gameID] = seats
	}
	seats[side] = name
}

func (s *Server) seatNames(gameID string) []string {
	s.seatsMu.RLock()
	defer s.seatsMu.RUnlock()
	names := make([]string, 0, 2)
	for _, side := range []core.Side{core.SideCovenant, core.SideRiftcaller} {
		if name, ok := s.seats[gameID][side]; ok {
			names = append(names, name)
		}
	}
	return names
}

func (s *Server) dropSeats(gameID string) {
	s.seatsMu.Lock()
	defer s.seatsMu.Unlock()
	delete(s.seats, gameID)
}
