package rules

import (
	"testing"

	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
)

// playHexWithGuardianOut puts a guardian ally in play for the Riftcaller,
// then has the Covenant play a ritual that inflicts one curse. It returns
// with the guardian's prevention prompt outstanding.
func playHexWithGuardianOut(h *gameHarness) (guardian, hex core.CardID) {
	h.t.Helper()
	guardian = h.addFaceUp(core.SideRiftcaller, "test_guardian", core.ArenaItemPosition(core.SlotAllies))
	hex = h.addCard(core.SideCovenant, "test_hex", core.HandPosition(core.SideCovenant))
	h.perform(core.SideCovenant, core.PlayCardAction(hex, core.NoTarget()))
	return guardian, hex
}

func TestGuardianSacrificePreventsCurse(t *testing.T) {
	h := newTestGame(t)
	guardian, hex := playHexWithGuardianOut(h)

	// The decision interrupts the Covenant's turn and belongs to the
	// Riftcaller alone.
	prompt := h.prompt(core.SideRiftcaller)
	if prompt.Context.Kind != core.ContextSacrificeToPrevent {
		t.Fatalf("prompt context = %v, want sacrifice to prevent", prompt.Context.Kind)
	}
	if got := len(h.legal(core.SideRiftcaller)); got != 2 {
		t.Fatalf("riftcaller has %d legal actions, want 2 prompt choices", got)
	}
	if got := len(h.legal(core.SideCovenant)); got != 0 {
		t.Fatalf("covenant has %d legal actions while opponent decides, want 0", got)
	}

	index := h.choiceIndex(core.SideRiftcaller, "Sacrifice")
	h.perform(core.SideRiftcaller, core.PromptChoiceAction(index))

	h.assertPosition(guardian, core.DiscardPosition(core.SideRiftcaller))
	h.assertPosition(hex, core.DiscardPosition(core.SideCovenant))
	if got := h.g.Player(core.SideRiftcaller).Curses; got != 0 {
		t.Errorf("curses = %d, want 0 after prevention", got)
	}
	h.assertEventCount(core.EventCurseReceived, 0)
	if got := h.g.TurnCounters(core.SideRiftcaller).CursesReceived; got != 0 {
		t.Errorf("curses received counter = %d, want 0", got)
	}
	h.assertNoPrompts()
	if Suspended(h.g) {
		t.Fatalf("play must finish resolving once the prompt is answered")
	}
	h.assertActions(core.SideCovenant, 2)
	h.assertMana(core.SideCovenant, 5)
}

func TestGuardianDeclineLetsCurseThrough(t *testing.T) {
	h := newTestGame(t)
	guardian, _ := playHexWithGuardianOut(h)

	index := h.choiceIndex(core.SideRiftcaller, "Continue")
	h.perform(core.SideRiftcaller, core.PromptChoiceAction(index))

	if got := h.g.Player(core.SideRiftcaller).Curses; got != 1 {
		t.Errorf("curses = %d, want 1", got)
	}
	h.assertEventCount(core.EventCurseReceived, 1)
	if got := h.g.TurnCounters(core.SideRiftcaller).CursesReceived; got != 1 {
		t.Errorf("curses received counter = %d, want 1", got)
	}
	card, err := h.g.Card(guardian)
	if err != nil {
		t.Fatalf("guardian: %v", err)
	}
	if !card.Position.InPlay() {
		t.Fatalf("declining must leave the guardian in play, got %v", card.Position)
	}
	h.assertNoPrompts()
}

func TestRemoveCurseSpendsActionAndMana(t *testing.T) {
	h := newTestGame(t)
	h.endAndPass(core.SideCovenant)
	h.g.Player(core.SideRiftcaller).Curses = 1

	legal := h.legal(core.SideRiftcaller)
	if !containsAction(legal, core.RemoveCurseAction()) {
		t.Fatalf("remove curse missing from %v", legal)
	}
	h.perform(core.SideRiftcaller, core.RemoveCurseAction())

	if got := h.g.Player(core.SideRiftcaller).Curses; got != 0 {
		t.Errorf("curses = %d, want 0", got)
	}
	h.assertMana(core.SideRiftcaller, 3)
	h.assertActions(core.SideRiftcaller, 2)
	h.assertEventCount(core.EventCurseRemoved, 1)

	// With no curse left the action disappears again.
	h.performIllegal(core.SideRiftcaller, core.RemoveCurseAction())
	if containsAction(h.legal(core.SideRiftcaller), core.RemoveCurseAction()) {
		t.Fatalf("remove curse should not be offered without a curse")
	}
}

func TestDispelEvocationDestroysWhileCursed(t *testing.T) {
	h := newTestGame(t)
	evocation := h.addFaceUp(core.SideRiftcaller, "test_evocation", core.ArenaItemPosition(core.SlotEvocations))
	h.g.Player(core.SideRiftcaller).Curses = 1

	legal := h.legal(core.SideCovenant)
	if !containsAction(legal, core.DispelEvocationAction(evocation)) {
		t.Fatalf("dispel evocation missing from %v", legal)
	}
	h.perform(core.SideCovenant, core.DispelEvocationAction(evocation))

	h.assertPosition(evocation, core.DiscardPosition(core.SideRiftcaller))
	h.assertMana(core.SideCovenant, 3)
	h.assertActions(core.SideCovenant, 2)
	// Dispelling does not consume the curse.
	if got := h.g.Player(core.SideRiftcaller).Curses; got != 1 {
		t.Errorf("curses = %d, want 1", got)
	}
}

func TestDispelEvocationRequiresCurse(t *testing.T) {
	h := newTestGame(t)
	evocation := h.addFaceUp(core.SideRiftcaller, "test_evocation", core.ArenaItemPosition(core.SlotEvocations))

	h.performIllegal(core.SideCovenant, core.DispelEvocationAction(evocation))
	if containsAction(h.legal(core.SideCovenant), core.DispelEvocationAction(evocation)) {
		t.Fatalf("dispel evocation must not be offered without a curse")
	}
	h.assertActions(core.SideCovenant, 3)
}
