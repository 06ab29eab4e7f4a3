package rules

import (
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/game/dispatch"
)

// MoveCard is the single position mutator. It bumps the sorting key,
// applies per-zone visibility rules, snapshots counters when a card leaves
// play, refreshes the delegate cache, and fires movement events.
//
// Entering a deck hides the card from both sides and turns it face down.
// Entering a hand reveals it to its owner. Entering a discard pile or the
// scored zone reveals it to both sides face up.
func MoveCard(g *core.GameState, id core.CardID, to core.CardPosition) error {
	card, err := g.Card(id)
	if err != nil {
		return internalf("move card: %v", err)
	}
	from := card.Position
	leavingPlay := from.InPlay() && !to.InPlay()

	card.Position = to
	card.SortingKey = g.NextKey()

	switch {
	case to.InDeck():
		card.FaceUp = false
		card.RevealedToOwner = false
		card.RevealedToOpponent = false
	case to.InHand():
		card.SetRevealed(card.Side(), true)
	case to.InDiscard(), to.Kind == core.PositionScored:
		card.FaceUp = true
		card.RevealedToOwner = true
		card.RevealedToOpponent = true
	}

	if leavingPlay {
		card.LastKnownCounters = card.Counters
		card.Counters = core.CardCounters{}
	}

	if err := dispatch.RefreshCard(g, id); err != nil {
		return err
	}
	g.RecordUpdate(core.GameUpdate{Kind: core.UpdateMoveCard, Card: &id, Position: &to})

	if err := dispatch.InvokeEvent(g, core.Event{Kind: core.EventCardMoved, Side: card.Side(), Card: &id}); err != nil {
		return err
	}
	if to.InDiscard() {
		return dispatch.InvokeEvent(g, core.Event{Kind: core.EventCardMovedToDiscard, Side: card.Side(), Card: &id})
	}
	return nil
}

// TurnFaceUp flips a card face up, revealing it to both sides, and
// re-indexes its delegates so in-play scopes become live.
func TurnFaceUp(g *core.GameState, id core.CardID) error {
	card, err := g.Card(id)
	if err != nil {
		return internalf("turn face up: %v", err)
	}
	card.FaceUp = true
	card.RevealedToOwner = true
	card.RevealedToOpponent = true
	if err := dispatch.RefreshCard(g, id); err != nil {
		return err
	}
	g.RecordUpdate(core.GameUpdate{Kind: core.UpdateFlipFaceUp, Card: &id})
	return nil
}

// RevealCardTo marks a card's face visible to one side without flipping it.
func RevealCardTo(g *core.GameState, id core.CardID, side core.Side) error {
	card, err := g.Card(id)
	if err != nil {
		return internalf("reveal card: %v", err)
	}
	if !card.RevealedTo(side) {
		card.SetRevealed(side, true)
		g.RecordUpdate(core.GameUpdate{Kind: core.UpdateRevealCard, Card: &id, Side: side})
	}
	return nil
}

// ShuffleDeck randomizes a side's deck. All deck cards move to the unknown
// segment with fresh sorting keys in shuffled order. Shuffling is silent:
// it fires no movement events and records no per-card updates.
func ShuffleDeck(g *core.GameState, side core.Side) error {
	deck := g.Deck(side)
	g.Rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	for _, card := range deck {
		card.Position = core.DeckUnknownPosition(side)
		card.SortingKey = g.NextKey()
		card.FaceUp = false
		card.RevealedToOwner = false
		card.RevealedToOpponent = false
		if err := dispatch.RefreshCard(g, card.ID); err != nil {
			return err
		}
	}
	return nil
}

// GainMana adds mana to a side and fires the gained event. The per-turn
// counter updates after the event completes.
func GainMana(g *core.GameState, side core.Side, amount int) error {
	if amount <= 0 {
		return nil
	}
	g.Player(side).Mana += amount
	if err := dispatch.InvokeEvent(g, core.Event{Kind: core.EventManaGained, Side: side, Amount: amount}); err != nil {
		return err
	}
	g.TurnCounters(side).ManaGained += amount
	return nil
}

// SpendMana deducts mana a player chose to pay. Insufficient mana rejects
// the action.
func SpendMana(g *core.GameState, side core.Side, amount int) error {
	player := g.Player(side)
	if player.Mana < amount {
		return illegalf("%s has %d mana, needs %d", side, player.Mana, amount)
	}
	player.Mana -= amount
	return dispatch.InvokeEvent(g, core.Event{Kind: core.EventManaLost, Side: side, Amount: amount})
}

// LoseManaToOpponentAbility removes mana taken by an opposing card effect.
// The loss clamps at the available total.
func LoseManaToOpponentAbility(g *core.GameState, side core.Side, amount int) error {
	player := g.Player(side)
	if amount > player.Mana {
		amount = player.Mana
	}
	if amount <= 0 {
		return nil
	}
	player.Mana -= amount
	if err := dispatch.InvokeEvent(g, core.Event{Kind: core.EventManaLost, Side: side, Amount: amount}); err != nil {
		return err
	}
	return dispatch.InvokeEvent(g, core.Event{Kind: core.EventManaLostToOpponentAbility, Side: side, Amount: amount})
}

// SpendActionPoints deducts action points paid for an action.
func SpendActionPoints(g *core.GameState, side core.Side, amount int) error {
	player := g.Player(side)
	if player.Actions < amount {
		return illegalf("%s has %d actions, needs %d", side, player.Actions, amount)
	}
	player.Actions -= amount
	return nil
}

// LoseActionPoints removes action points taken by a card effect, clamping
// at zero. Losses during the Riftcaller's own raid fire a separate event
// for card texts keyed to it.
func LoseActionPoints(g *core.GameState, side core.Side, amount int) error {
	player := g.Player(side)
	if amount > player.Actions {
		amount = player.Actions
	}
	if amount <= 0 {
		return nil
	}
	player.Actions -= amount
	if err := dispatch.InvokeEvent(g, core.Event{Kind: core.EventActionPointsLost, Side: side, Amount: amount}); err != nil {
		return err
	}
	if g.Raid != nil && side == core.SideRiftcaller {
		return dispatch.InvokeEvent(g, core.Event{Kind: core.EventActionPointsLostDuringRaid, Side: side, Amount: amount})
	}
	return nil
}

// GainActionPoints adds action points granted by a card effect.
func GainActionPoints(g *core.GameState, side core.Side, amount int) {
	if amount > 0 {
		g.Player(side).Actions += amount
	}
}

// SacrificeCard moves one of a player's own cards from play to its discard
// pile and fires the sacrifice event.
func SacrificeCard(g *core.GameState, id core.CardID) error {
	card, err := g.Card(id)
	if err != nil {
		return internalf("sacrifice: %v", err)
	}
	if !card.InPlay() {
		return internalf("sacrifice: %s is not in play", id)
	}
	if err := MoveCard(g, id, core.DiscardPosition(card.Side())); err != nil {
		return err
	}
	if err := dispatch.InvokeEvent(g, core.Event{Kind: core.EventCardSacrificed, Side: card.Side(), Card: &id}); err != nil {
		return err
	}
	g.History.AddEvent(core.HistoryEvent{Kind: core.HistoryCardSacrificed, Side: card.Side(), Card: &id})
	return nil
}

// AddProgress places progress counters on a card and scores it if it is a
// scheme whose requirement is now met.
func AddProgress(g *core.GameState, id core.CardID, amount int) error {
	card, err := g.Card(id)
	if err != nil {
		return internalf("progress: %v", err)
	}
	if !card.InPlay() {
		return internalf("progress: %s is not in play", id)
	}
	card.AddCounters(core.CounterProgress, amount)
	g.RecordUpdate(core.GameUpdate{
		Kind:    core.UpdateCounters,
		Card:    &id,
		Counter: core.CounterProgress,
		Amount:  card.Counter(core.CounterProgress),
	})
	return checkSchemeProgress(g, id)
}
