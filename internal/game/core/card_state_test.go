package core

import "testing"

func TestCountersOnlyObservableInPlay(t *testing.T) {
	card := CardState{
		ID:       NewCardID(SideCovenant, 0),
		Position: RoomPosition(RoomA, RoleOccupant),
	}
	card.AddCounters(CounterProgress, 2)

	if got := card.Counter(CounterProgress); got != 2 {
		t.Fatalf("expected 2 progress counters in play, got %d", got)
	}

	// Leaving play hides the live value but keeps the last-known one.
	card.LastKnownCounters = card.Counters
	card.Position = DiscardPosition(SideCovenant)
	if got := card.Counter(CounterProgress); got != 0 {
		t.Fatalf("expected live counter 0 off the board, got %d", got)
	}
	if got := card.LastKnownCounter(CounterProgress); got != 2 {
		t.Fatalf("expected last-known counter 2, got %d", got)
	}
}

func TestAddCountersClampsAtZero(t *testing.T) {
	card := CardState{Position: ArenaItemPosition(SlotArtifacts)}
	card.AddCounters(CounterStoredMana, 3)
	card.AddCounters(CounterStoredMana, -5)
	if got := card.Counter(CounterStoredMana); got != 0 {
		t.Fatalf("expected stored mana clamped to 0, got %d", got)
	}
}

func TestRevealedTo(t *testing.T) {
	card := CardState{ID: NewCardID(SideRiftcaller, 3)}
	card.SetRevealed(SideRiftcaller, true)
	if !card.RevealedTo(SideRiftcaller) {
		t.Fatalf("owner should see the card after owner reveal")
	}
	if card.RevealedTo(SideCovenant) {
		t.Fatalf("opponent should not see the card yet")
	}
	card.SetRevealed(SideCovenant, true)
	if !card.RevealedTo(SideCovenant) {
		t.Fatalf("opponent should see the card after opponent reveal")
	}
}

func TestCustomCardState(t *testing.T) {
	var custom CustomCardState
	custom = append(custom, CardFact{Kind: FactTargetRoom, Room: RoomB})
	custom = append(custom, CardFact{Kind: FactBoostCount, RaidID: 1, Amount: 2})
	custom = append(custom, CardFact{Kind: FactBoostCount, RaidID: 1, Amount: 1})
	custom = append(custom, CardFact{Kind: FactBoostCount, RaidID: 2, Amount: 5})
	custom = append(custom, CardFact{Kind: FactTargetRoom, Room: RoomD})

	if room, ok := custom.TargetRoom(); !ok || room != RoomD {
		t.Fatalf("expected most recent target room room_d, got %v ok=%v", room, ok)
	}
	if got := custom.BoostCount(1); got != 3 {
		t.Fatalf("expected boost count 3 for raid 1, got %d", got)
	}
	if got := custom.BoostCount(2); got != 5 {
		t.Fatalf("expected boost count 5 for raid 2, got %d", got)
	}
	if custom.PaidForEnhancement(1) {
		t.Fatalf("no enhancement payment was recorded")
	}
}

func TestClearState(t *testing.T) {
	card := CardState{Position: RoomPosition(RoomA, RoleOccupant)}
	card.AddCounters(CounterProgress, 4)
	card.RecordFact(CardFact{Kind: FactTargetRoom, Room: RoomA})
	card.ClearState()
	if card.Counters != (CardCounters{}) || len(card.Custom) != 0 {
		t.Fatalf("clear state should reset counters and custom facts")
	}
}
