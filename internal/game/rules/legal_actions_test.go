package rules

import (
	"testing"

	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
)

func TestLegalActionsEnumerationIsStable(t *testing.T) {
	h := newTestGame(t)

	first := h.legal(core.SideCovenant)
	second := h.legal(core.SideCovenant)
	if len(first) != len(second) {
		t.Fatalf("enumeration sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Errorf("action %d differs between calls: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestCovenantMainPhaseMenu(t *testing.T) {
	h := newTestGame(t)

	legal := h.legal(core.SideCovenant)
	if !containsAction(legal, core.GainManaAction()) {
		t.Errorf("gain mana missing from %v", legal)
	}
	if !containsAction(legal, core.DrawCardAction()) {
		t.Errorf("draw card missing from %v", legal)
	}
	if !containsAction(legal, core.EndTurnAction()) {
		t.Errorf("end turn missing from %v", legal)
	}
	for _, card := range h.g.Hand(core.SideCovenant) {
		if !containsAction(legal, core.PlayCardAction(card.ID, core.NoTarget())) {
			t.Errorf("play for hand card %s missing from %v", card.ID, legal)
		}
	}
	for _, room := range core.AllRooms {
		if containsAction(legal, core.InitiateRaidAction(room)) {
			t.Errorf("covenant menu must not offer raids, got %v", legal)
		}
	}
	if containsAction(legal, core.RemoveCurseAction()) {
		t.Errorf("remove curse is a riftcaller action, got %v", legal)
	}
	// Six plays plus draw, gain mana, and end turn.
	if len(legal) != 9 {
		t.Errorf("menu has %d entries, want 9: %v", len(legal), legal)
	}

	if waiting := h.legal(core.SideRiftcaller); len(waiting) != 0 {
		t.Errorf("riftcaller should be waiting, got %v", waiting)
	}
}

func TestRiftcallerMenuOffersInnerRaids(t *testing.T) {
	h := newTestGame(t)
	h.endAndPass(core.SideCovenant)

	legal := h.legal(core.SideRiftcaller)
	for _, room := range core.InnerRooms {
		if !containsAction(legal, core.InitiateRaidAction(room)) {
			t.Errorf("inner room %s raid missing from %v", room, legal)
		}
	}
	// Empty outer rooms are not worth raiding and are not offered.
	if containsAction(legal, core.InitiateRaidAction(core.RoomA)) {
		t.Errorf("empty outer room raid offered: %v", legal)
	}
	if len(legal) != 12 {
		t.Errorf("menu has %d entries, want 12: %v", len(legal), legal)
	}
}

func TestOccupiedOuterRoomBecomesRaidable(t *testing.T) {
	h := newTestGame(t)
	h.addCard(core.SideCovenant, "test_scheme", core.RoomPosition(core.RoomA, core.RoleOccupant))
	h.endAndPass(core.SideCovenant)

	legal := h.legal(core.SideRiftcaller)
	if !containsAction(legal, core.InitiateRaidAction(core.RoomA)) {
		t.Fatalf("occupied outer room raid missing from %v", legal)
	}
}

func TestNoDanglingPromptsThroughScriptedGame(t *testing.T) {
	h := newTestGame(t)

	script := []struct {
		side   core.Side
		action core.UserAction
	}{
		{core.SideCovenant, core.GainManaAction()},
		{core.SideCovenant, core.DrawCardAction()},
		{core.SideCovenant, core.EndTurnAction()},
		{core.SideRiftcaller, core.StartTurnAction()},
		{core.SideRiftcaller, core.GainManaAction()},
		{core.SideRiftcaller, core.EndTurnAction()},
		{core.SideCovenant, core.StartTurnAction()},
	}
	for i, step := range script {
		h.perform(step.side, step.action)
		if Suspended(h.g) {
			t.Fatalf("step %d (%s %v) left the game suspended", i, step.side, step.action)
		}
		h.assertNoPrompts()
	}
	if got := h.g.Info.Turn.Number; got != 3 {
		t.Errorf("turn number = %d, want 3", got)
	}
	if got := h.g.Info.Turn.Side; got != core.SideCovenant {
		t.Errorf("turn side = %s, want covenant", got)
	}
}
