package rules

import (
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/game/dispatch"
)

func stepDrawCards(g *core.GameState) error {
	idx := len(g.Machines.DrawCards) - 1
	m := &g.Machines.DrawCards[idx]
	side := m.Side
	switch m.Step {
	case core.DrawCardsBegin:
		m.Step = core.DrawCardsWillDrawEvent

	case core.DrawCardsWillDrawEvent:
		m.Step = core.DrawCardsCheckIfPrevented
		return dispatch.InvokeEvent(g, core.Event{Kind: core.EventWillDrawCards, Side: side, Amount: m.Quantity})

	case core.DrawCardsCheckIfPrevented:
		if m.Prevented || m.Quantity <= 0 {
			m.Step = core.DrawCardsFinish
		} else {
			m.Step = core.DrawCardsDraw
		}

	case core.DrawCardsDraw:
		// Drawing from an empty deck yields nothing; running out only loses
		// the game at the mandatory turn-start draw, which checks the deck
		// before this machine starts.
		deck := g.Deck(side)
		quantity := m.Quantity
		if quantity > len(deck) {
			quantity = len(deck)
		}
		drawn := make([]core.CardID, 0, quantity)
		for i := 0; i < quantity; i++ {
			drawn = append(drawn, deck[i].ID)
		}
		m.Drawn = drawn
		m.Step = core.DrawCardsViaAbilityEvent
		for _, id := range drawn {
			if err := MoveCard(g, id, core.HandPosition(side)); err != nil {
				return err
			}
		}
		if len(drawn) > 0 {
			g.RecordUpdate(core.GameUpdate{Kind: core.UpdateDrawCards, Side: side, Cards: drawn})
			if err := dispatch.InvokeEvent(g, core.Event{Kind: core.EventCardsDrawn, Side: side, Cards: drawn, Amount: len(drawn)}); err != nil {
				return err
			}
			g.TurnCounters(side).CardsDrawn += len(drawn)
		}

	case core.DrawCardsViaAbilityEvent:
		viaAbility := m.ViaAbility
		drawn := m.Drawn
		m.Step = core.DrawCardsAddToHistory
		if viaAbility && len(drawn) > 0 {
			if err := dispatch.InvokeEvent(g, core.Event{Kind: core.EventDrawCardsViaAbility, Side: side, Cards: drawn, Amount: len(drawn)}); err != nil {
				return err
			}
			g.TurnCounters(side).CardsDrawnViaAbilities += len(drawn)
		}

	case core.DrawCardsAddToHistory:
		if len(m.Drawn) > 0 {
			kind := core.HistoryCardsDrawn
			if m.ViaAbility {
				kind = core.HistoryCardsDrawnViaAbility
			}
			g.History.AddEvent(core.HistoryEvent{Kind: kind, Side: side, Amount: len(m.Drawn)})
		}
		m.Step = core.DrawCardsFinish

	case core.DrawCardsFinish:
		g.Machines.DrawCards = g.Machines.DrawCards[:idx]

	default:
		return internalf("draw cards machine in unknown step %d", m.Step)
	}
	return nil
}
