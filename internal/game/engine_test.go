package game_test

import (
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/riftcaller/riftcaller-server-go/internal/game"
	"github.com/riftcaller/riftcaller-server-go/internal/game/catalog"
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/game/rules"
)

func newTestEngine(t *testing.T) *game.Engine {
	t.Helper()
	return game.NewEngine(zaptest.NewLogger(t), catalog.New())
}

func startGame(t *testing.T, e *game.Engine, gameID string, seed uint64) {
	t.Helper()
	config := core.GameConfiguration{Deterministic: true, Seed: seed}
	err := e.StartGame(gameID, config, catalog.StandardCovenantDeck(), catalog.StandardRiftcallerDeck())
	if err != nil {
		t.Fatalf("StartGame(%s): %v", gameID, err)
	}
}

func do(t *testing.T, e *game.Engine, gameID string, side core.Side, action core.UserAction) {
	t.Helper()
	if err := e.ProcessAction(gameID, side, action); err != nil {
		t.Fatalf("%s %s: %v", side, action, err)
	}
}

func keepHands(t *testing.T, e *game.Engine, gameID string) {
	t.Helper()
	for _, side := range core.Sides {
		do(t, e, gameID, side, core.MulliganDecisionAction(core.MulliganKeep))
	}
}

func TestStartGameRejectsDuplicateID(t *testing.T) {
	e := newTestEngine(t)
	startGame(t, e, "dup", 3)

	config := core.GameConfiguration{Deterministic: true, Seed: 3}
	err := e.StartGame("dup", config, catalog.StandardCovenantDeck(), catalog.StandardRiftcallerDeck())
	if err == nil {
		t.Fatalf("expected duplicate game id to be rejected")
	}
}

func TestIllegalActionLeavesChecksumUnchanged(t *testing.T) {
	e := newTestEngine(t)
	startGame(t, e, "illegal", 5)
	keepHands(t, e, "illegal")

	before, err := e.ChecksumGame("illegal")
	if err != nil {
		t.Fatalf("checksum before: %v", err)
	}

	// Covenant holds the first turn, so the Riftcaller acting is rejected.
	err = e.ProcessAction("illegal", core.SideRiftcaller, core.GainManaAction())
	if err == nil {
		t.Fatalf("expected off-turn gain mana to be rejected")
	}
	if !rules.IsIllegal(err) {
		t.Fatalf("expected an illegal-action error, got %v", err)
	}

	after, err := e.ChecksumGame("illegal")
	if err != nil {
		t.Fatalf("checksum after: %v", err)
	}
	if before != after {
		t.Fatalf("illegal action changed state: %s -> %s", before, after)
	}
}

func TestDeterministicReplayProducesSameChecksum(t *testing.T) {
	e := newTestEngine(t)
	script := []struct {
		side   core.Side
		action core.UserAction
	}{
		{core.SideCovenant, core.MulliganDecisionAction(core.MulliganKeep)},
		{core.SideRiftcaller, core.MulliganDecisionAction(core.MulliganKeep)},
		{core.SideCovenant, core.GainManaAction()},
		{core.SideCovenant, core.DrawCardAction()},
		{core.SideCovenant, core.EndTurnAction()},
		{core.SideRiftcaller, core.StartTurnAction()},
		{core.SideRiftcaller, core.DrawCardAction()},
		{core.SideRiftcaller, core.EndTurnAction()},
		{core.SideCovenant, core.StartTurnAction()},
	}

	sums := make([]string, 0, 2)
	for _, gameID := range []string{"replay-a", "replay-b"} {
		startGame(t, e, gameID, 11)
		for i, step := range script {
			if err := e.ProcessAction(gameID, step.side, step.action); err != nil {
				t.Fatalf("%s step %d (%s): %v", gameID, i, step.action, err)
			}
		}
		sum, err := e.ChecksumGame(gameID)
		if err != nil {
			t.Fatalf("checksum %s: %v", gameID, err)
		}
		sums = append(sums, sum)
	}

	if sums[0] != sums[1] {
		t.Fatalf("same seed and actions diverged: %s vs %s", sums[0], sums[1])
	}
}

func TestDifferentSeedsProduceDifferentChecksums(t *testing.T) {
	e := newTestEngine(t)
	sums := make(map[string]string)
	for gameID, seed := range map[string]uint64{"seed-a": 1, "seed-b": 2} {
		startGame(t, e, gameID, seed)
		keepHands(t, e, gameID)
		sum, err := e.ChecksumGame(gameID)
		if err != nil {
			t.Fatalf("checksum %s: %v", gameID, err)
		}
		sums[gameID] = sum
	}
	if sums["seed-a"] == sums["seed-b"] {
		t.Fatalf("different seeds hashed identically: %s", sums["seed-a"])
	}
}

func TestCommandListDrainsOnce(t *testing.T) {
	e := newTestEngine(t)
	startGame(t, e, "cmd", 7)

	first, err := e.CommandList("cmd", core.SideCovenant)
	if err != nil {
		t.Fatalf("first command list: %v", err)
	}
	if len(first) < 2 {
		t.Fatalf("expected setup updates plus a view, got %d commands", len(first))
	}
	if first[len(first)-1].View == nil {
		t.Fatalf("expected the final command to carry a view")
	}
	for i, cmd := range first[:len(first)-1] {
		if cmd.Update == nil {
			t.Fatalf("command %d carries neither update nor view", i)
		}
	}

	second, err := e.CommandList("cmd", core.SideCovenant)
	if err != nil {
		t.Fatalf("second command list: %v", err)
	}
	if len(second) != 1 || second[0].View == nil {
		t.Fatalf("expected a drained outbox to yield only a view, got %d commands", len(second))
	}
}

func TestGameViewMasksHiddenInformation(t *testing.T) {
	e := newTestEngine(t)
	startGame(t, e, "mask", 9)

	view, err := e.GameView("mask", core.SideCovenant)
	if err != nil {
		t.Fatalf("game view: %v", err)
	}

	cov := view.Players[core.SideCovenant]
	if cov.HandCount != 5 || cov.DeckCount != 12 {
		t.Fatalf("covenant counts: hand %d deck %d", cov.HandCount, cov.DeckCount)
	}
	rift := view.Players[core.SideRiftcaller]
	if rift.HandCount != 5 || rift.DeckCount != 10 {
		t.Fatalf("riftcaller counts: hand %d deck %d", rift.HandCount, rift.DeckCount)
	}

	for _, card := range view.Cards {
		switch {
		case card.Position.InDeck():
			t.Errorf("hidden deck card %s leaked into the view", card.ID)
		case card.Position.InHand() && card.ID.Side == core.SideCovenant:
			if !card.Revealed || card.Variant == "" || card.Name == "" {
				t.Errorf("own hand card %s should show its face", card.ID)
			}
		case card.Position.InHand() && card.ID.Side == core.SideRiftcaller:
			if card.Revealed || card.Variant != "" || card.Name != "" {
				t.Errorf("opponent hand card %s should be masked", card.ID)
			}
		}
	}

	// Both identities start face up and are visible to everyone.
	identities := 0
	for _, card := range view.Cards {
		if card.Position.Kind == core.PositionChapter || card.Position.Kind == core.PositionRiftcaller {
			identities++
			if !card.Revealed {
				t.Errorf("identity card %s should be revealed", card.ID)
			}
		}
	}
	if identities != 2 {
		t.Fatalf("expected 2 identity cards in view, found %d", identities)
	}
}

func TestLegalActionsThroughFacade(t *testing.T) {
	e := newTestEngine(t)
	startGame(t, e, "legal", 11)
	keepHands(t, e, "legal")

	actions, err := e.LegalActions("legal", core.SideCovenant)
	if err != nil {
		t.Fatalf("legal actions: %v", err)
	}
	if len(actions) == 0 {
		t.Fatalf("expected the active side to have legal actions")
	}
	found := false
	for _, a := range actions {
		if a.Equal(core.GainManaAction()) {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected gain mana in the main phase menu")
	}

	do(t, e, "legal", core.SideCovenant, core.GainManaAction())

	view, err := e.GameView("legal", core.SideCovenant)
	if err != nil {
		t.Fatalf("game view: %v", err)
	}
	cov := view.Players[core.SideCovenant]
	if cov.Mana != 6 || cov.Actions != 2 {
		t.Fatalf("after gain mana: mana %d actions %d", cov.Mana, cov.Actions)
	}
}

func TestNotificationFanOut(t *testing.T) {
	e := newTestEngine(t)
	notifications := make(chan game.GameNotification, 16)
	e.SetNotificationHandler(func(n game.GameNotification) {
		notifications <- n
	})

	startGame(t, e, "notify", 13)
	waitNotification(t, notifications, game.NotifyGameStarted)

	keepHands(t, e, "notify")
	do(t, e, "notify", core.SideCovenant, core.ResignAction())

	over := waitNotification(t, notifications, game.NotifyGameOver)
	if over.GameID != "notify" {
		t.Fatalf("game over for wrong game: %s", over.GameID)
	}
	if winner, ok := over.Data["winner"]; !ok || winner != core.SideRiftcaller.String() {
		t.Fatalf("expected riftcaller to win by resignation, got %v", over.Data["winner"])
	}

	view, err := e.GameView("notify", core.SideCovenant)
	if err != nil {
		t.Fatalf("game view: %v", err)
	}
	if view.Winner == nil || *view.Winner != core.SideRiftcaller {
		t.Fatalf("expected the view to name the winner")
	}
}

// waitNotification reads notifications until one of the wanted type
// arrives. Handlers run on their own goroutines, so unrelated types may
// interleave in any order.
func waitNotification(t *testing.T, ch <-chan game.GameNotification, kind string) game.GameNotification {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case n := <-ch:
			if n.Type == kind {
				return n
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s notification", kind)
		}
	}
}

func TestEndGameRemovesTheGame(t *testing.T) {
	e := newTestEngine(t)
	startGame(t, e, "gone", 1)

	if !e.HasGame("gone") {
		t.Fatalf("expected game to exist after start")
	}
	if err := e.EndGame("gone"); err != nil {
		t.Fatalf("end game: %v", err)
	}
	if e.HasGame("gone") {
		t.Fatalf("expected game to be removed")
	}
	if _, err := e.LegalActions("gone", core.SideCovenant); err == nil {
		t.Fatalf("expected legal actions on a removed game to fail")
	}
	if err := e.EndGame("gone"); err == nil {
		t.Fatalf("expected ending a removed game to fail")
	}
}

func TestSnapshotRoundTripThroughEngine(t *testing.T) {
	e := newTestEngine(t)
	startGame(t, e, "snap", 17)
	keepHands(t, e, "snap")
	do(t, e, "snap", core.SideCovenant, core.GainManaAction())

	before, err := e.ChecksumGame("snap")
	if err != nil {
		t.Fatalf("checksum: %v", err)
	}
	blob, err := e.SnapshotGame("snap")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	restored := game.NewEngine(zaptest.NewLogger(t), catalog.New())
	if err := restored.LoadGame("snap", blob); err != nil {
		t.Fatalf("load game: %v", err)
	}
	after, err := restored.ChecksumGame("snap")
	if err != nil {
		t.Fatalf("checksum restored: %v", err)
	}
	if before != after {
		t.Fatalf("round trip changed state: %s -> %s", before, after)
	}

	// The restored game keeps playing: both engines draw the same card
	// because the random stream travels with the snapshot.
	do(t, e, "snap", core.SideCovenant, core.DrawCardAction())
	do(t, restored, "snap", core.SideCovenant, core.DrawCardAction())

	sumLive, err := e.ChecksumGame("snap")
	if err != nil {
		t.Fatalf("checksum live: %v", err)
	}
	sumRestored, err := restored.ChecksumGame("snap")
	if err != nil {
		t.Fatalf("checksum restored: %v", err)
	}
	if sumLive != sumRestored {
		t.Fatalf("restored game diverged after drawing: %s vs %s", sumLive, sumRestored)
	}
}

func TestNullEngineRecordsActions(t *testing.T) {
	n := game.NewNullEngine(zaptest.NewLogger(t))
	if err := n.StartGame("null", core.GameConfiguration{}, rules.Decklist{}, rules.Decklist{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := n.ProcessAction("null", core.SideCovenant, core.GainManaAction()); err != nil {
		t.Fatalf("process: %v", err)
	}

	recorded := n.RecordedActions("null")
	if len(recorded) != 1 {
		t.Fatalf("expected 1 recorded action, got %d", len(recorded))
	}
	if recorded[0].Side != core.SideCovenant || recorded[0].Action.Kind != core.ActionGainMana {
		t.Fatalf("recorded wrong action: %s %s", recorded[0].Side, recorded[0].Action)
	}

	commands, err := n.CommandList("null", core.SideRiftcaller)
	if err != nil {
		t.Fatalf("command list: %v", err)
	}
	if len(commands) != 1 || commands[0].View == nil {
		t.Fatalf("expected a single view command from the null engine")
	}
	if err := n.ProcessAction("missing", core.SideCovenant, core.GainManaAction()); err == nil {
		t.Fatalf("expected unknown game to be rejected")
	}
}
