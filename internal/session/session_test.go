package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
)

func TestCreateAndGetSession(t *testing.T) {
	m := NewManager(time.Minute, 10, zaptest.NewLogger(t))

	sess := m.CreateSession("sess-1", "10.0.0.1")
	require.NotNil(t, sess)
	assert.Equal(t, "sess-1", sess.ID)
	assert.Equal(t, "10.0.0.1", sess.Host)

	got, ok := m.GetSession("sess-1")
	require.True(t, ok)
	assert.Same(t, sess, got)

	_, ok = m.GetSession("missing")
	assert.False(t, ok)

	assert.Equal(t, 1, m.GetActiveSessions())
}

func TestRemoveSession(t *testing.T) {
	m := NewManager(time.Minute, 10, zaptest.NewLogger(t))
	m.CreateSession("sess-1", "local")

	m.RemoveSession("sess-1")
	_, ok := m.GetSession("sess-1")
	assert.False(t, ok)
	assert.Equal(t, 0, m.GetActiveSessions())
}

func TestGameBinding(t *testing.T) {
	m := NewManager(time.Minute, 10, zaptest.NewLogger(t))
	sess := m.CreateSession("sess-1", "local")

	_, _, bound := sess.Game()
	assert.False(t, bound)

	sess.BindGame("game-7", core.SideRiftcaller)
	gameID, side, bound := sess.Game()
	require.True(t, bound)
	assert.Equal(t, "game-7", gameID)
	assert.Equal(t, core.SideRiftcaller, side)

	sess.UnbindGame()
	_, _, bound = sess.Game()
	assert.False(t, bound)
}

func TestExpiredSessionsAreEvicted(t *testing.T) {
	m := NewManager(10*time.Millisecond, 10, zaptest.NewLogger(t))
	m.CreateSession("stale", "local")
	fresh := m.CreateSession("fresh", "local")

	time.Sleep(20 * time.Millisecond)
	fresh.UpdateActivity()

	removed := m.removeExpired()
	assert.Equal(t, 1, removed)

	_, ok := m.GetSession("stale")
	assert.False(t, ok)
	_, ok = m.GetSession("fresh")
	assert.True(t, ok)
}

func TestSessionCapEvictsExpiredFirst(t *testing.T) {
	m := NewManager(10*time.Millisecond, 2, zaptest.NewLogger(t))
	m.CreateSession("a", "local")
	m.CreateSession("b", "local")

	// Table is full and nothing has expired yet.
	assert.Nil(t, m.CreateSession("c", "local"))

	time.Sleep(20 * time.Millisecond)

	// Both leases have lapsed, so the new session takes a freed slot.
	sess := m.CreateSession("c", "local")
	require.NotNil(t, sess)
	assert.Equal(t, "c", sess.ID)
}

func TestCloseAll(t *testing.T) {
	m := NewManager(time.Minute, 10, zaptest.NewLogger(t))
	m.CreateSession("a", "local")
	m.CreateSession("b", "local")

	m.CloseAll()
	assert.Equal(t, 0, m.GetActiveSessions())
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
	assert.False(t, CheckPassword("not a hash", "anything"))
}

func TestUpdateActivityThroughManager(t *testing.T) {
	m := NewManager(time.Minute, 10, zaptest.NewLogger(t))
	sess := m.CreateSession("sess-1", "local")

	before := sess.LastActivity()
	time.Sleep(5 * time.Millisecond)
	m.UpdateActivity("sess-1")
	assert.True(t, sess.LastActivity().After(before))

	// Unknown ids are ignored.
	m.UpdateActivity("missing")
}
