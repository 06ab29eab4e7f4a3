package server

import (
	"encoding/json"

	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
)

// Client message types.
const (
	MsgConnect      = "connect"
	MsgConnectAdmin = "connect_admin"
	MsgCreateGame   = "create_game"
	MsgJoinGame     = "join_game"
	MsgLeaveGame    = "leave_game"
	MsgAction       = "action"
	MsgLegalActions = "legal_actions"
	MsgResync       = "resync"
	MsgListGames    = "list_games"
	MsgEndGame      = "end_game"
	MsgServerStatus = "server_status"
	MsgPing         = "ping"
)

// Server message types.
const (
	MsgConnected     = "connected"
	MsgAdminGranted  = "admin_granted"
	MsgGameCreated   = "game_created"
	MsgGameJoined    = "game_joined"
	MsgGameLeft      = "game_left"
	MsgGameEnded     = "game_ended"
	MsgCommands      = "commands"
	MsgLegalActionsR = "legal_actions"
	MsgGameList      = "game_list"
	MsgStatus        = "status"
	MsgPong          = "pong"
	MsgError         = "error"
)

// ClientMessage is the envelope for every message a client sends. Data
// carries the type-specific payload.
type ClientMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"session_id,omitempty"`
	GameID    string          `json:"game_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// ServerMessage is the envelope for every message the server sends.
type ServerMessage struct {
	Type   string `json:"type"`
	GameID string `json:"game_id,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ConnectRequest asks for a new session.
type ConnectRequest struct {
	PlayerName string `json:"player_name"`
}

// ConnectedReply carries the issued session id.
type ConnectedReply struct {
	SessionID  string `json:"session_id"`
	PlayerName string `json:"player_name"`
}

// ConnectAdminRequest upgrades a session to admin access.
type ConnectAdminRequest struct {
	Password string `json:"password"`
}

// CreateGameRequest starts a new game with the caller seated on Side.
type CreateGameRequest struct {
	Side          core.Side `json:"side"`
	Deterministic bool      `json:"deterministic,omitempty"`
	Seed          uint64    `json:"seed,omitempty"`
}

// SeatReply reports the seat a client was bound to.
type SeatReply struct {
	GameID string    `json:"game_id"`
	Side   core.Side `json:"side"`
}

// JoinGameRequest takes the open seat in an existing game. Side is
// optional; when omitted the remaining seat is assigned.
type JoinGameRequest struct {
	Side *core.Side `json:"side,omitempty"`
}

// GameListEntry describes one live game for the lobby.
type GameListEntry struct {
	GameID  string   `json:"game_id"`
	Players []string `json:"players"`
	Open    bool     `json:"open"`
}

// StatusReply reports server occupancy to admins.
type StatusReply struct {
	ActiveSessions int    `json:"active_sessions"`
	ActiveGames    int    `json:"active_games"`
	Goroutines     int    `json:"goroutines"`
	Version        string `json:"version"`
}

// ErrorReply carries a human-readable failure description.
type ErrorReply struct {
	Message string `json:"message"`
}
