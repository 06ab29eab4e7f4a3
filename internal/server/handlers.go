package server

import (
	"context"
	"encoding/json"
	"errors"
	"runtime"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/riftcaller/riftcaller-server-go/internal/game/catalog"
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/game/rules"
	"github.com/riftcaller/riftcaller-server-go/internal/session"
)

var (
	errInvalidSide = errors.New("invalid side")
	errSeatTaken   = errors.New("seat is taken")
	errGameFull    = errors.New("game is full")
)

// route dispatches one client message. Everything except connect
// requires a valid session.
func (s *Server) route(c *Connection, msg ClientMessage) {
	if msg.Type == MsgConnect {
		s.handleConnect(c, msg)
		return
	}
	sess, ok := s.requireSession(c, msg)
	if !ok {
		return
	}
	switch msg.Type {
	case MsgConnectAdmin:
		s.handleConnectAdmin(c, sess, msg)
	case MsgCreateGame:
		s.handleCreateGame(c, sess, msg)
	case MsgJoinGame:
		s.handleJoinGame(c, sess, msg)
	case MsgLeaveGame:
		s.handleLeaveGame(c, sess)
	case MsgAction:
		s.handleAction(c, msg)
	case MsgLegalActions:
		s.handleLegalActions(c)
	case MsgResync:
		s.handleResync(c)
	case MsgListGames:
		s.handleListGames(c)
	case MsgEndGame:
		s.handleEndGame(c, sess, msg)
	case MsgServerStatus:
		s.handleServerStatus(c, sess)
	case MsgPing:
		c.Send(ServerMessage{Type: MsgPong})
	default:
		c.sendError("", "unknown message type "+msg.Type)
	}
}

// requireSession resolves the session named in the message and bumps
// its activity clock.
func (s *Server) requireSession(c *Connection, msg ClientMessage) (*session.Session, bool) {
	id := msg.SessionID
	if id == "" {
		id = c.session()
	}
	if id == "" {
		c.sendError(msg.GameID, "no session; connect first")
		return nil, false
	}
	sess, ok := s.sessions.GetSession(id)
	if !ok {
		c.sendError(msg.GameID, "invalid or expired session")
		return nil, false
	}
	sess.UpdateActivity()
	c.setSession(id)
	return sess, true
}

// requireSeat resolves the game seat this connection occupies.
func (s *Server) requireSeat(c *Connection) (string, core.Side, bool) {
	gameID, side, ok := c.seat()
	if !ok {
		c.sendError("", "not seated in a game")
		return "", core.SideCovenant, false
	}
	return gameID, side, true
}

func (s *Server) handleConnect(c *Connection, msg ClientMessage) {
	var req ConnectRequest
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.sendError("", "malformed connect request")
			return
		}
	}
	if req.PlayerName == "" {
		req.PlayerName = "anonymous"
	}
	sessionID := uuid.NewString()
	sess := s.sessions.CreateSession(sessionID, c.ws.RemoteAddr().String())
	if sess == nil {
		c.sendError("", "server is full")
		return
	}
	sess.SetPlayerName(req.PlayerName)
	c.setSession(sessionID)
	s.logger.Info("session created",
		zap.String("session_id", sessionID),
		zap.String("player", req.PlayerName),
	)
	c.Send(ServerMessage{Type: MsgConnected, Data: ConnectedReply{
		SessionID:  sessionID,
		PlayerName: req.PlayerName,
	}})
}

func (s *Server) handleConnectAdmin(c *Connection, sess *session.Session, msg ClientMessage) {
	var req ConnectAdminRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		c.sendError("", "malformed admin request")
		return
	}
	if s.auth.AdminPasswordHash == "" {
		c.sendError("", "admin access is disabled")
		return
	}
	if !session.CheckPassword(s.auth.AdminPasswordHash, req.Password) {
		s.logger.Warn("admin authentication failed", zap.String("session_id", sess.ID))
		c.sendError("", "admin authentication failed")
		return
	}
	sess.SetAdmin(true)
	s.logger.Info("admin session granted", zap.String("session_id", sess.ID))
	c.Send(ServerMessage{Type: MsgAdminGranted})
}

func (s *Server) handleCreateGame(c *Connection, sess *session.Session, msg ClientMessage) {
	var req CreateGameRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		c.sendError("", "malformed create request")
		return
	}
	if !req.Side.Valid() {
		c.sendError("", "invalid side")
		return
	}
	cfg := core.GameConfiguration{
		Deterministic: s.gameCfg.Deterministic,
		Seed:          s.gameCfg.Seed,
	}
	if req.Deterministic {
		cfg.Deterministic = true
		cfg.Seed = req.Seed
	}
	gameID := uuid.NewString()
	// Seat before starting so the game-started push finds the creator.
	if err := s.hub.Bind(c, gameID, req.Side); err != nil {
		c.sendError(gameID, err.Error())
		return
	}
	err := s.engine.StartGame(gameID, cfg, catalog.StandardCovenantDeck(), catalog.StandardRiftcallerDeck())
	if err != nil {
		s.hub.ReleaseSeat(c)
		s.logger.Error("game creation failed", zap.String("game_id", gameID), zap.Error(err))
		c.sendError(gameID, "failed to create game")
		return
	}
	sess.BindGame(gameID, req.Side)
	s.nameSeat(gameID, req.Side, sess.PlayerName())
	if s.players != nil {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		if err := s.players.Ensure(ctx, sess.PlayerName()); err != nil {
			s.logger.Warn("player upsert failed", zap.String("player", sess.PlayerName()), zap.Error(err))
		}
		cancel()
	}
	s.logger.Info("game created",
		zap.String("game_id", gameID),
		zap.String("side", req.Side.String()),
		zap.String("player", sess.PlayerName()),
	)
	c.Send(ServerMessage{Type: MsgGameCreated, GameID: gameID, Data: SeatReply{
		GameID: gameID,
		Side:   req.Side,
	}})
}

func (s *Server) handleJoinGame(c *Connection, sess *session.Session, msg ClientMessage) {
	if msg.GameID == "" {
		c.sendError("", "missing game id")
		return
	}
	var req JoinGameRequest
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.sendError(msg.GameID, "malformed join request")
			return
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	err := s.resumeGame(ctx, msg.GameID)
	cancel()
	if err != nil {
		s.logger.Warn("join failed, game not found",
			zap.String("game_id", msg.GameID),
			zap.Error(err),
		)
		c.sendError(msg.GameID, "game not found")
		return
	}
	side, err := s.pickSeat(msg.GameID, req.Side)
	if err != nil {
		c.sendError(msg.GameID, err.Error())
		return
	}
	if err := s.hub.Bind(c, msg.GameID, side); err != nil {
		c.sendError(msg.GameID, err.Error())
		return
	}
	sess.BindGame(msg.GameID, side)
	s.nameSeat(msg.GameID, side, sess.PlayerName())
	s.logger.Info("game joined",
		zap.String("game_id", msg.GameID),
		zap.String("side", side.String()),
		zap.String("player", sess.PlayerName()),
	)
	c.Send(ServerMessage{Type: MsgGameJoined, GameID: msg.GameID, Data: SeatReply{
		GameID: msg.GameID,
		Side:   side,
	}})
	// Catch the joiner up on everything queued for their side.
	commands, err := s.engine.CommandList(msg.GameID, side)
	if err != nil {
		s.logger.Error("failed to build join command list", zap.String("game_id", msg.GameID), zap.Error(err))
		return
	}
	c.Send(ServerMessage{Type: MsgCommands, GameID: msg.GameID, Data: commands})
}

// pickSeat chooses the side a joiner occupies, honoring an explicit
// request when that seat is free.
func (s *Server) pickSeat(gameID string, requested *core.Side) (core.Side, error) {
	if requested != nil {
		if !requested.Valid() {
			return core.SideCovenant, errInvalidSide
		}
		if _, taken := s.hub.SideConnection(gameID, *requested); taken {
			return core.SideCovenant, errSeatTaken
		}
		return *requested, nil
	}
	for _, side := range core.Sides {
		if _, taken := s.hub.SideConnection(gameID, side); !taken {
			return side, nil
		}
	}
	return core.SideCovenant, errGameFull
}

func (s *Server) handleLeaveGame(c *Connection, sess *session.Session) {
	gameID, _, ok := c.seat()
	if !ok {
		c.sendError("", "not seated in a game")
		return
	}
	s.hub.ReleaseSeat(c)
	sess.UnbindGame()
	s.logger.Info("seat released", zap.String("game_id", gameID), zap.String("session_id", sess.ID))
	c.Send(ServerMessage{Type: MsgGameLeft, GameID: gameID})
}

func (s *Server) handleAction(c *Connection, msg ClientMessage) {
	gameID, side, ok := s.requireSeat(c)
	if !ok {
		return
	}
	var action core.UserAction
	if err := json.Unmarshal(msg.Data, &action); err != nil {
		c.sendError(gameID, "malformed action")
		return
	}
	_, span := s.tracer.Start(context.Background(), "server.process_action")
	span.SetAttributes(
		attribute.String("game.id", gameID),
		attribute.String("game.side", side.String()),
		attribute.String("game.action", string(action.Kind)),
	)
	err := s.engine.ProcessAction(gameID, side, action)
	if err != nil {
		span.RecordError(err)
	}
	span.End()
	if err != nil {
		if rules.IsIllegal(err) {
			s.logger.Debug("illegal action rejected",
				zap.String("game_id", gameID),
				zap.String("side", side.String()),
				zap.String("action", string(action.Kind)),
				zap.Error(err),
			)
		} else {
			s.logger.Error("action processing failed",
				zap.String("game_id", gameID),
				zap.String("side", side.String()),
				zap.Error(err),
			)
		}
		c.sendError(gameID, err.Error())
		return
	}
	// Success is answered by the pushed command lists.
}

func (s *Server) handleLegalActions(c *Connection) {
	gameID, side, ok := s.requireSeat(c)
	if !ok {
		return
	}
	actions, err := s.engine.LegalActions(gameID, side)
	if err != nil {
		c.sendError(gameID, err.Error())
		return
	}
	c.Send(ServerMessage{Type: MsgLegalActionsR, GameID: gameID, Data: actions})
}

func (s *Server) handleResync(c *Connection) {
	gameID, side, ok := s.requireSeat(c)
	if !ok {
		return
	}
	commands, err := s.engine.CommandList(gameID, side)
	if err != nil {
		c.sendError(gameID, err.Error())
		return
	}
	c.Send(ServerMessage{Type: MsgCommands, GameID: gameID, Data: commands})
}

func (s *Server) handleListGames(c *Connection) {
	ids := s.engine.Games()
	entries := make([]GameListEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, GameListEntry{
			GameID:  id,
			Players: s.seatNames(id),
			Open:    len(s.hub.SeatedSides(id)) < 2,
		})
	}
	c.Send(ServerMessage{Type: MsgGameList, Data: entries})
}

func (s *Server) handleEndGame(c *Connection, sess *session.Session, msg ClientMessage) {
	gameID := msg.GameID
	if gameID == "" {
		gameID, _, _ = c.seat()
	}
	if gameID == "" {
		c.sendError("", "missing game id")
		return
	}
	seatedHere := false
	if boundGame, _, ok := sess.Game(); ok && boundGame == gameID {
		seatedHere = true
	}
	if !sess.IsAdmin() && !seatedHere {
		c.sendError(gameID, "not authorized to end this game")
		return
	}
	if err := s.engine.EndGame(gameID); err != nil {
		c.sendError(gameID, err.Error())
		return
	}
	s.hub.BroadcastGame(gameID, ServerMessage{Type: MsgGameEnded, GameID: gameID})
	for _, conn := range s.hub.GameConnections(gameID) {
		if bound, ok := s.sessions.GetSession(conn.session()); ok {
			bound.UnbindGame()
		}
		s.hub.ReleaseSeat(conn)
	}
	s.dropSeats(gameID)
	if s.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		if err := s.cache.Delete(ctx, gameID); err != nil {
			s.logger.Warn("cache delete failed", zap.String("game_id", gameID), zap.Error(err))
		}
		cancel()
	}
	s.logger.Info("game ended", zap.String("game_id", gameID), zap.String("session_id", sess.ID))
}

func (s *Server) handleServerStatus(c *Connection, sess *session.Session) {
	if !sess.IsAdmin() {
		c.sendError("", "admin access required")
		return
	}
	c.Send(ServerMessage{Type: MsgStatus, Data: StatusReply{
		ActiveSessions: s.sessions.GetActiveSessions(),
		ActiveGames:    len(s.engine.Games()),
		Goroutines:     runtime.NumGoroutine(),
		Version:        serverVersion,
	}})
}
