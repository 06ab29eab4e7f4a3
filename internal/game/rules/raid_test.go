package rules

import (
	"testing"

	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
)

func TestRaidAccessScoresScheme(t *testing.T) {
	h := newTestGame(t)

	scheme := h.addCard(core.SideCovenant, "test_scheme", core.HandPosition(core.SideCovenant))
	h.perform(core.SideCovenant, core.PlayCardAction(scheme, core.RoomTarget(core.RoomA)))
	h.perform(core.SideCovenant, core.ProgressRoomAction(core.RoomA))
	h.assertMana(core.SideCovenant, 4)

	card, err := h.g.Card(scheme)
	if err != nil {
		t.Fatalf("scheme: %v", err)
	}
	if card.FaceUp {
		t.Fatalf("scheme must enter play face down")
	}
	if got := card.Counter(core.CounterProgress); got != 1 {
		t.Fatalf("scheme progress = %d, want 1", got)
	}

	h.perform(core.SideCovenant, core.EndTurnAction())
	h.perform(core.SideRiftcaller, core.StartTurnAction())

	h.perform(core.SideRiftcaller, core.InitiateRaidAction(core.RoomA))
	h.assertActions(core.SideRiftcaller, 2)

	index, choice := h.raidChoice(core.SideRiftcaller, core.RaidChoiceScoreCard)
	if choice.Card == nil || *choice.Card != scheme {
		t.Fatalf("score choice targets %v, want %s", choice.Card, scheme)
	}
	h.perform(core.SideRiftcaller, core.RaidChoiceAction(index))

	// Points go to the scheme's owner and the card ends in their pile.
	h.assertScore(core.SideCovenant, 10)
	h.assertPosition(scheme, core.ScoredPosition(core.SideCovenant))
	if h.g.Raid != nil {
		t.Fatalf("raid must end once the last accessed card resolves")
	}
	h.assertEventCount(core.EventCardScored, 1)
	h.assertEventCount(core.EventRaidSuccess, 1)

	scored := 0
	for _, event := range h.g.History.ForTurn(h.g.Info.Turn.Number) {
		if event.Kind == core.HistoryCardScored {
			scored++
		}
	}
	if scored != 1 {
		t.Errorf("history records %d scored cards this turn, want 1", scored)
	}
}

func TestWeaponCostCoversShieldAndDefeatsMinion(t *testing.T) {
	h := newTestGame(t)
	h.endAndPass(core.SideCovenant)

	minion := h.addFaceUp(core.SideCovenant, "test_minion", core.RoomPosition(core.RoomB, core.RoleDefender))
	weapon := h.addFaceUp(core.SideRiftcaller, "test_weapon", core.ArenaItemPosition(core.SlotWeapons))

	h.perform(core.SideRiftcaller, core.InitiateRaidAction(core.RoomB))

	index, choice := h.raidChoice(core.SideRiftcaller, core.RaidChoiceUseWeapon)
	if choice.Weapon == nil || *choice.Weapon != weapon {
		t.Fatalf("weapon choice = %+v, want %s", choice, weapon)
	}
	// Two boosts cover three health plus one shield over a base attack of
	// two, at one mana each.
	if choice.ManaCost != 2 {
		t.Fatalf("weapon mana cost = %d, want 2", choice.ManaCost)
	}
	if choice.BoostCount != 2 {
		t.Fatalf("weapon boost count = %d, want 2", choice.BoostCount)
	}

	h.perform(core.SideRiftcaller, core.RaidChoiceAction(index))

	h.assertMana(core.SideRiftcaller, 3)
	h.assertPosition(minion, core.DiscardPosition(core.SideCovenant))
	h.assertEventCount(core.EventWeaponUsed, 1)
	h.assertEventCount(core.EventMinionDefeated, 1)
	h.assertEventCount(core.EventRaidSuccess, 1)
	if h.g.Raid != nil {
		t.Fatalf("raid over an empty room must finish after the defender falls")
	}
	if got := h.g.TurnCounters(core.SideRiftcaller).MinionsDefeated; got != 1 {
		t.Errorf("minions defeated counter = %d, want 1", got)
	}
}

func TestSummonFilteredWhenUnaffordable(t *testing.T) {
	h := newTestGame(t)
	h.endAndPass(core.SideCovenant)

	minion := h.addCard(core.SideCovenant, "test_minion", core.RoomPosition(core.RoomC, core.RoleDefender))
	project := h.addCard(core.SideCovenant, "test_project", core.RoomPosition(core.RoomC, core.RoleOccupant))
	h.setMana(core.SideCovenant, 3)

	h.perform(core.SideRiftcaller, core.InitiateRaidAction(core.RoomC))

	prompt := h.raidPrompt(core.SideCovenant)
	if len(prompt.Choices) != 1 {
		t.Fatalf("summon prompt offers %d choices, want only the pass", len(prompt.Choices))
	}
	if prompt.Choices[0].Kind != core.RaidChoiceDoNotSummon {
		t.Fatalf("remaining choice = %v, want do-not-summon", prompt.Choices[0].Kind)
	}
	// The defender's owner decides; the raider waits.
	if waiting := h.legal(core.SideRiftcaller); len(waiting) != 0 {
		t.Fatalf("riftcaller should wait during the summon decision, got %v", waiting)
	}

	h.perform(core.SideCovenant, core.RaidChoiceAction(0))

	card, err := h.g.Card(minion)
	if err != nil {
		t.Fatalf("minion: %v", err)
	}
	if card.FaceUp {
		t.Fatalf("skipped minion must stay face down")
	}

	// The raid moves straight to the access decision on the occupant.
	access := h.raidPrompt(core.SideRiftcaller)
	razeFound := false
	for _, choice := range access.Choices {
		if choice.Kind == core.RaidChoiceRazeCard {
			razeFound = true
			if choice.Card == nil || *choice.Card != project {
				t.Fatalf("raze choice targets %v, want %s", choice.Card, project)
			}
		}
	}
	if !razeFound {
		t.Fatalf("access prompt must offer razing the project, got %v", access.Choices)
	}

	index, _ := h.raidChoice(core.SideRiftcaller, core.RaidChoiceFinishRaid)
	h.perform(core.SideRiftcaller, core.RaidChoiceAction(index))
	if h.g.Raid != nil {
		t.Fatalf("raid must end on the finish choice")
	}
	h.assertEventCount(core.EventRaidSuccess, 1)
}

func TestSummonPaysCostAndMinionTurnsFaceUp(t *testing.T) {
	h := newTestGame(t)
	h.endAndPass(core.SideCovenant)

	minion := h.addCard(core.SideCovenant, "test_minion", core.RoomPosition(core.RoomC, core.RoleDefender))

	h.perform(core.SideRiftcaller, core.InitiateRaidAction(core.RoomC))

	index, choice := h.raidChoice(core.SideCovenant, core.RaidChoiceSummonMinion)
	if choice.ManaCost != 4 {
		t.Fatalf("summon cost = %d, want 4", choice.ManaCost)
	}
	h.perform(core.SideCovenant, core.RaidChoiceAction(index))

	h.assertMana(core.SideCovenant, 1)
	card, err := h.g.Card(minion)
	if err != nil {
		t.Fatalf("minion: %v", err)
	}
	if !card.FaceUp {
		t.Fatalf("summoned minion must be face up")
	}
	h.assertEventCount(core.EventCardSummoned, 1)
	if got := h.g.TurnCounters(core.SideCovenant).MinionsSummoned; got != 1 {
		t.Errorf("minions summoned counter = %d, want 1", got)
	}

	// The raider now faces the summoned minion bare-handed.
	encounter := h.raidPrompt(core.SideRiftcaller)
	for _, c := range encounter.Choices {
		if c.Kind == core.RaidChoiceUseWeapon {
			t.Fatalf("no weapons in play, yet got %v", encounter.Choices)
		}
	}
}

func TestRetreatFailsTheRaid(t *testing.T) {
	h := newTestGame(t)
	h.endAndPass(core.SideCovenant)

	h.addFaceUp(core.SideCovenant, "test_minion", core.RoomPosition(core.RoomB, core.RoleDefender))
	h.perform(core.SideRiftcaller, core.InitiateRaidAction(core.RoomB))

	index, _ := h.raidChoice(core.SideRiftcaller, core.RaidChoiceEndRaid)
	h.perform(core.SideRiftcaller, core.RaidChoiceAction(index))

	if h.g.Raid != nil {
		t.Fatalf("retreat must clear the raid")
	}
	h.assertEventCount(core.EventRaidFailure, 1)
	h.assertEventCount(core.EventRaidSuccess, 0)
}

func TestVaultRaidAccessesTopOfDeck(t *testing.T) {
	h := newTestGame(t)
	h.endAndPass(core.SideCovenant)

	deckBefore := len(h.g.Deck(core.SideCovenant))
	h.perform(core.SideRiftcaller, core.InitiateRaidAction(core.RoomVault))

	if h.g.Raid == nil || len(h.g.Raid.Accessed) != 1 {
		t.Fatalf("vault access must reveal one card from the top of the deck")
	}
	accessed := h.g.Raid.Accessed[0]
	card, err := h.g.Card(accessed)
	if err != nil {
		t.Fatalf("accessed card: %v", err)
	}
	if !card.RevealedTo(core.SideRiftcaller) {
		t.Fatalf("accessed card must be revealed to the raider")
	}

	index, _ := h.raidChoice(core.SideRiftcaller, core.RaidChoiceFinishRaid)
	h.perform(core.SideRiftcaller, core.RaidChoiceAction(index))
	if h.g.Raid != nil {
		t.Fatalf("raid must end on the finish choice")
	}
	// Leaving the access does not move the deck card.
	h.assertDeckSize(core.SideCovenant, deckBefore)
}

func TestSecondRaidInSameTurnRejectedWhileActive(t *testing.T) {
	h := newTestGame(t)
	h.endAndPass(core.SideCovenant)

	h.addFaceUp(core.SideCovenant, "test_minion", core.RoomPosition(core.RoomB, core.RoleDefender))
	h.perform(core.SideRiftcaller, core.InitiateRaidAction(core.RoomB))

	// While the raid waits on a decision, other actions are refused.
	h.performIllegal(core.SideRiftcaller, core.InitiateRaidAction(core.RoomVault))
	h.performIllegal(core.SideRiftcaller, core.GainManaAction())
}
