package game

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftcaller/riftcaller-server-go/internal/game/catalog"
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/game/rules"
)

func newSerializationGame(t *testing.T) *core.GameState {
	t.Helper()
	g, err := rules.NewGame("serialization-test", catalog.New(),
		core.GameConfiguration{Deterministic: true, Seed: 21},
		catalog.StandardCovenantDeck(), catalog.StandardRiftcallerDeck())
	require.NoError(t, err)
	for _, side := range core.Sides {
		require.NoError(t, rules.HandleAction(g, side, core.MulliganDecisionAction(core.MulliganKeep)))
	}
	return g
}

// TestChecksumIsDeterministic verifies that repeated checksums of the same
// state are identical regardless of map iteration order.
func TestChecksumIsDeterministic(t *testing.T) {
	g := newSerializationGame(t)

	first, err := Checksum(g)
	require.NoError(t, err)
	assert.Len(t, first, 64)

	for i := 0; i < 5; i++ {
		sum, err := Checksum(g)
		require.NoError(t, err)
		assert.Equal(t, first, sum, "checksum %d differs from checksum 0", i)
	}
}

// TestChecksumTracksStateChanges verifies that a mutation to the game changes
// its checksum.
func TestChecksumTracksStateChanges(t *testing.T) {
	g := newSerializationGame(t)

	before, err := Checksum(g)
	require.NoError(t, err)

	require.NoError(t, rules.HandleAction(g, core.SideCovenant, core.GainManaAction()))

	after, err := Checksum(g)
	require.NoError(t, err)
	assert.NotEqual(t, before, after, "state change must change the checksum")
}

// TestSnapshotRoundTrip verifies that serialization preserves the checksum and
// that the restored game remains playable.
func TestSnapshotRoundTrip(t *testing.T) {
	g := newSerializationGame(t)
	require.NoError(t, rules.HandleAction(g, core.SideCovenant, core.DrawCardAction()))

	before, err := Checksum(g)
	require.NoError(t, err)

	blob, err := Snapshot(g)
	require.NoError(t, err)
	assert.NotEmpty(t, blob)

	restored, err := RestoreSnapshot(blob, g.Registry)
	require.NoError(t, err)

	after, err := Checksum(restored)
	require.NoError(t, err)
	assert.Equal(t, before, after, "round trip must preserve the checksum")

	// The restored game accepts further actions.
	require.NoError(t, rules.HandleAction(restored, core.SideCovenant, core.GainManaAction()))
	assert.Equal(t, 6, restored.Player(core.SideCovenant).Mana)
}

// TestSnapshotPreservesRandomStream verifies that the random number generator
// resumes at the same point after a round trip.
func TestSnapshotPreservesRandomStream(t *testing.T) {
	g := newSerializationGame(t)

	blob, err := Snapshot(g)
	require.NoError(t, err)
	restored, err := RestoreSnapshot(blob, g.Registry)
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		assert.Equal(t, g.Rng.IntN(1000), restored.Rng.IntN(1000), "draw %d diverged", i)
	}
}

// TestSnapshotPreservesPrompts verifies that a queued prompt survives a round
// trip and is still surfaced to the prompted player.
func TestSnapshotPreservesPrompts(t *testing.T) {
	g := newSerializationGame(t)
	rules.PushPrompt(g, core.SideCovenant, core.ButtonPrompt(
		core.PromptContext{Kind: core.ContextGeneric},
		[]core.PromptChoice{
			{Label: "Take mana", Effects: []core.GameEffect{
				{Kind: core.EffectGainMana, Side: core.SideCovenant, Amount: 2},
			}},
			{Label: "Continue", Effects: []core.GameEffect{{Kind: core.EffectContinue}}},
		},
	))

	blob, err := Snapshot(g)
	require.NoError(t, err)
	restored, err := RestoreSnapshot(blob, g.Registry)
	require.NoError(t, err)

	prompt := rules.CurrentPrompt(restored, core.SideCovenant)
	require.NotNil(t, prompt, "queued prompt must survive the round trip")
	assert.Equal(t, core.PromptButtons, prompt.Kind)
	require.Len(t, prompt.Choices, 2)
	assert.Equal(t, "Take mana", prompt.Choices[0].Label)
}

// TestRestoreRejectsVersionMismatch verifies that snapshots from a different
// format version are refused rather than misread.
func TestRestoreRejectsVersionMismatch(t *testing.T) {
	var buf bytes.Buffer
	snap := gameSnapshot{Version: serializationVersion + 1, ID: "future"}
	require.NoError(t, gob.NewEncoder(&buf).Encode(&snap))

	_, err := RestoreSnapshot(buf.Bytes(), catalog.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}

// TestRestoreRejectsGarbage verifies that undecodable input produces an error.
func TestRestoreRejectsGarbage(t *testing.T) {
	_, err := RestoreSnapshot([]byte("not a snapshot"), catalog.New())
	require.Error(t, err)
}
