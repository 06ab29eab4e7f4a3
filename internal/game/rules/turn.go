package rules

import (
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/game/dispatch"
)

// Decklist is one player's starting configuration: an identity card and
// the cards shuffled into their deck.
type Decklist struct {
	Identity core.CardVariant
	Cards    []core.CardVariant
}

// NewGame builds a game from two decklists: identities enter play, decks
// shuffle, opening hands are dealt, and the game waits on mulligans.
func NewGame(id string, registry *core.Registry, config core.GameConfiguration, covenant, riftcaller Decklist) (*core.GameState, error) {
	g := core.NewGameState(id, registry, config, config.Seed)
	decklists := map[core.Side]Decklist{
		core.SideCovenant:   covenant,
		core.SideRiftcaller: riftcaller,
	}
	for _, side := range core.Sides {
		list := decklists[side]
		for _, variant := range list.Cards {
			if _, err := registry.Get(variant); err != nil {
				return nil, err
			}
			g.AddCard(side, variant)
		}
		if list.Identity != "" {
			def, err := registry.Get(list.Identity)
			if err != nil {
				return nil, err
			}
			identity := g.AddCard(side, list.Identity)
			card, err := g.Card(identity)
			if err != nil {
				return nil, err
			}
			if def.Type == core.TypeChapter {
				card.Position = core.ChapterPosition(side)
			} else {
				card.Position = core.RiftcallerPosition(side)
			}
			card.FaceUp = true
			card.RevealedToOwner = true
			card.RevealedToOpponent = true
		}
	}
	if err := dispatch.PopulateCache(g); err != nil {
		return nil, err
	}
	for _, side := range core.Sides {
		if err := ShuffleDeck(g, side); err != nil {
			return nil, err
		}
		if err := drawStartingHand(g, side, core.StartingHandSize); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// drawStartingHand deals cards outside the draw machinery: setup deals are
// not draws, so no draw events fire and no counters move.
func drawStartingHand(g *core.GameState, side core.Side, count int) error {
	deck := g.Deck(side)
	if count > len(deck) {
		count = len(deck)
	}
	drawn := make([]core.CardID, 0, count)
	for i := 0; i < count; i++ {
		drawn = append(drawn, deck[i].ID)
	}
	for _, id := range drawn {
		if err := MoveCard(g, id, core.HandPosition(side)); err != nil {
			return err
		}
	}
	if len(drawn) > 0 {
		g.RecordUpdate(core.GameUpdate{Kind: core.UpdateDrawCards, Side: side, Cards: drawn})
	}
	return nil
}

// HandleMulliganDecision records one side's opening-hand decision. Taking
// a mulligan shuffles the hand away and deals a fresh one. Once both sides
// have decided, the Covenant's first turn starts.
func HandleMulliganDecision(g *core.GameState, side core.Side, decision core.MulliganDecision) error {
	if g.Info.Phase.Kind != core.PhaseResolveMulligans {
		return illegalf("mulligans are not being resolved")
	}
	mulligans := &g.Info.Phase.Mulligans
	if mulligans.Decision(side) != nil {
		return illegalf("%s already decided their opening hand", side)
	}
	mulligans.SetDecision(side, decision)
	if decision == core.MulliganTakeMulligan {
		for _, card := range g.Hand(side) {
			if err := MoveCard(g, card.ID, core.DeckUnknownPosition(side)); err != nil {
				return err
			}
		}
		if err := ShuffleDeck(g, side); err != nil {
			return err
		}
		if err := drawStartingHand(g, side, core.StartingHandSize); err != nil {
			return err
		}
	}
	if mulligans.Resolved() {
		resolved := *mulligans
		g.Info.Phase = core.GamePhase{Kind: core.PhasePlay, Mulligans: resolved}
		return startTurnInternal(g, core.SideCovenant)
	}
	return nil
}

// startTurnInternal advances to the next turn for the given side: turn
// number, events, action refresh, leyline income, and the mandatory draw.
// Running out of deck on that draw loses the game.
func startTurnInternal(g *core.GameState, side core.Side) error {
	g.Info.Turn = core.TurnData{Side: side, Number: g.Info.Turn.Number + 1}
	g.Info.TurnState = core.TurnActive
	g.RecordUpdate(core.GameUpdate{Kind: core.UpdateStartTurn, Side: side, Amount: g.Info.Turn.Number})
	if err := dispatch.InvokeEvent(g, core.Event{Kind: core.EventTurnBegin, Side: side}); err != nil {
		return err
	}
	phase := core.EventDusk
	if side == core.SideCovenant {
		phase = core.EventDawn
	}
	if err := dispatch.InvokeEvent(g, core.Event{Kind: phase, Side: side}); err != nil {
		return err
	}
	g.Player(side).Actions = StartOfTurnActions(g, side)
	if side == core.SideRiftcaller {
		if leylines := g.Player(side).Leylines; leylines > 0 {
			if err := GainMana(g, side, leylines); err != nil {
				return err
			}
		}
	}
	if len(g.Deck(side)) == 0 {
		SetGameOver(g, side.Opponent())
		return nil
	}
	PushDrawCards(g, side, 1, false, core.AbilityID{})
	return nil
}

// HandleEndTurn ends the active side's turn. A hand over the maximum must
// be discarded down first; the discard selector completes the turn when
// it resolves.
func HandleEndTurn(g *core.GameState, side core.Side) error {
	if g.Info.Turn.Side != side || g.Info.TurnState != core.TurnActive {
		return illegalf("it is not %s's turn to end", side)
	}
	hand := g.Hand(side)
	max := MaximumHandSize(g, side)
	if len(hand) > max {
		excess := len(hand) - max
		unchosen := make([]core.CardID, 0, len(hand))
		for _, card := range hand {
			unchosen = append(unchosen, card.ID)
		}
		PushPrompt(g, side, &core.GamePrompt{
			Kind:    core.PromptCardSelector,
			Context: core.PromptContext{Kind: core.ContextDiscardToHandSize},
			Selector: &core.CardSelectorData{
				Unchosen:   unchosen,
				Target:     core.CardSelectorTarget{Position: core.DiscardPosition(side)},
				Validation: core.CardSelectorValidation{Exactly: &excess},
			},
		})
		return nil
	}
	return endTurnInternal(g, side)
}

func endTurnInternal(g *core.GameState, side core.Side) error {
	if err := dispatch.InvokeEvent(g, core.Event{Kind: core.EventTurnEnd, Side: side}); err != nil {
		return err
	}
	g.Info.TurnState = core.TurnEnded
	return nil
}

// HandleStartTurn starts the opponent's turn after the active side ended
// theirs.
func HandleStartTurn(g *core.GameState, side core.Side) error {
	if g.Info.TurnState != core.TurnEnded || g.Info.Turn.Side == side {
		return illegalf("it is not %s's turn to start", side)
	}
	return startTurnInternal(g, side)
}
