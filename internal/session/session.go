// Package session tracks connected clients and their game bindings.
// Sessions expire after a configurable lease period without activity.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
)

// Session represents a connected client.
type Session struct {
	ID   string
	Host string

	mu           sync.RWMutex
	playerName   string
	gameID       string
	side         core.Side
	inGame       bool
	admin        bool
	createTime   time.Time
	lastActivity time.Time
}

// SetPlayerName records the display name for the session.
func (s *Session) SetPlayerName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playerName = name
}

// PlayerName returns the display name for the session.
func (s *Session) PlayerName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playerName
}

// BindGame associates the session with a game seat.
func (s *Session) BindGame(gameID string, side core.Side) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameID = gameID
	s.side = side
	s.inGame = true
}

// UnbindGame clears the session's game seat.
func (s *Session) UnbindGame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameID = ""
	s.inGame = false
}

// Game returns the bound game id and side, if any.
func (s *Session) Game() (string, core.Side, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gameID, s.side, s.inGame
}

// SetAdmin marks the session as having admin access.
func (s *Session) SetAdmin(admin bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admin = admin
}

// IsAdmin reports whether the session has admin access.
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admin
}

// UpdateActivity refreshes the session lease.
func (s *Session) UpdateActivity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = time.Now()
}

// LastActivity returns the time of the last lease refresh.
func (s *Session) LastActivity() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActivity
}

// Expired reports whether the last activity predates the cutoff.
func (s *Session) Expired(cutoff time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActivity.Before(cutoff)
}

// Manager tracks active sessions and expires stale ones.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	leasePeriod time.Duration
	maxSessions int
	logger      *zap.Logger
}

// NewManager creates a session manager. Sessions that go leasePeriod
// without activity are removed by CleanupExpiredSessions.
func NewManager(leasePeriod time.Duration, maxSessions int, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions:    make(map[string]*Session),
		leasePeriod: leasePeriod,
		maxSessions: maxSessions,
		logger:      logger,
	}
}

// CreateSession registers a new session. Returns nil when the session
// table is full even after evicting expired entries.
func (m *Manager) CreateSession(sessionID, host string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		m.evictExpiredLocked()
		if len(m.sessions) >= m.maxSessions {
			m.logger.Warn("session table full",
				zap.Int("max_sessions", m.maxSessions),
			)
			return nil
		}
	}

	now := time.Now()
	sess := &Session{
		ID:           sessionID,
		Host:         host,
		createTime:   now,
		lastActivity: now,
	}
	m.sessions[sessionID] = sess

	m.logger.Debug("session created",
		zap.String("session_id", sessionID),
		zap.String("host", host),
	)

	return sess
}

// GetSession retrieves a session by id.
func (m *Manager) GetSession(sessionID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[sessionID]
	return sess, ok
}

// RemoveSession deletes a session.
func (m *Manager) RemoveSession(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

// UpdateActivity refreshes the lease on a session if it exists.
func (m *Manager) UpdateActivity(sessionID string) {
	m.mu.RLock()
	sess, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if ok {
		sess.UpdateActivity()
	}
}

// GetActiveSessions returns the number of live sessions.
func (m *Manager) GetActiveSessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupExpiredSessions periodically removes sessions whose lease has
// lapsed. It blocks until ctx is cancelled; run it on its own goroutine.
func (m *Manager) CleanupExpiredSessions(ctx context.Context) {
	interval := m.leasePeriod / 2
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := m.removeExpired()
			if removed > 0 {
				m.logger.Info("expired sessions removed", zap.Int("count", removed))
			}
		}
	}
}

func (m *Manager) removeExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.evictExpiredLocked()
}

func (m *Manager) evictExpiredLocked() int {
	cutoff := time.Now().Add(-m.leasePeriod)
	removed := 0
	for id, sess := range m.sessions {
		if sess.Expired(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// CloseAll removes every session. Used during shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := len(m.sessions)
	m.sessions = make(map[string]*Session)

	if count > 0 {
		m.logger.Info("all sessions closed", zap.Int("count", count))
	}
}

// HashPassword produces a bcrypt hash suitable for the admin password
// configuration value.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
