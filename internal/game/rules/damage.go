package rules

import (
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/game/dispatch"
)

func stepDealDamage(g *core.GameState) error {
	idx := len(g.Machines.DealDamage) - 1
	m := &g.Machines.DealDamage[idx]
	source := m.Source
	switch m.Step {
	case core.DealDamageBegin:
		m.Step = core.DealDamageWillDealEvent

	case core.DealDamageWillDealEvent:
		// Prevention handlers raise prompts here; their effects shrink the
		// amount before the discard step runs.
		m.Step = core.DealDamageDiscardCards
		return dispatch.InvokeEvent(g, core.Event{
			Kind:    core.EventWillDealDamage,
			Side:    core.SideRiftcaller,
			Ability: &source,
			Amount:  m.Amount,
		})

	case core.DealDamageDiscardCards:
		amount := m.Amount
		hand := g.Hand(core.SideRiftcaller)
		m.Step = core.DealDamageDealtEvent
		if amount <= 0 {
			return nil
		}
		if amount > len(hand) {
			// More damage than cards: the hand is lost and so is the game.
			var all []core.CardID
			for _, card := range hand {
				all = append(all, card.ID)
			}
			m.Discarded = all
			for _, id := range all {
				if err := MoveCard(g, id, core.DiscardPosition(core.SideRiftcaller)); err != nil {
					return err
				}
			}
			SetGameOver(g, core.SideCovenant)
			return nil
		}
		chosen := make([]core.CardID, 0, amount)
		for _, i := range g.Rng.Sample(len(hand), amount) {
			chosen = append(chosen, hand[i].ID)
		}
		m.Discarded = chosen
		for _, id := range chosen {
			if err := MoveCard(g, id, core.DiscardPosition(core.SideRiftcaller)); err != nil {
				return err
			}
		}

	case core.DealDamageDealtEvent:
		amount := m.Amount
		discarded := m.Discarded
		m.Step = core.DealDamageFinish
		if amount <= 0 || g.GameOver() {
			return nil
		}
		g.RecordUpdate(core.GameUpdate{Kind: core.UpdateDamage, Side: core.SideRiftcaller, Amount: amount, Cards: discarded})
		if err := dispatch.InvokeEvent(g, core.Event{
			Kind:    core.EventDamageDealt,
			Side:    core.SideRiftcaller,
			Ability: &source,
			Amount:  amount,
			Cards:   discarded,
		}); err != nil {
			return err
		}
		if err := dispatch.InvokeEvent(g, core.Event{
			Kind:   core.EventDamageReceived,
			Side:   core.SideRiftcaller,
			Amount: amount,
			Cards:  discarded,
		}); err != nil {
			return err
		}
		g.TurnCounters(core.SideRiftcaller).DamageReceived += amount
		g.History.AddEvent(core.HistoryEvent{Kind: core.HistoryDamageReceived, Side: core.SideRiftcaller, Amount: amount})

	case core.DealDamageFinish:
		g.Machines.DealDamage = g.Machines.DealDamage[:idx]

	default:
		return internalf("deal damage machine in unknown step %d", m.Step)
	}
	return nil
}
