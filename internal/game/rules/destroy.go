package rules

import (
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/game/dispatch"
)

func stepDestroy(g *core.GameState) error {
	idx := len(g.Machines.Destroy) - 1
	m := &g.Machines.Destroy[idx]
	source := m.Source
	switch m.Step {
	case core.DestroyBegin:
		m.Step = core.DestroyWillDestroyEvent

	case core.DestroyWillDestroyEvent:
		// Prevention handlers move targets into the prevented list.
		targets := m.Targets
		m.Step = core.DestroyCheckIfPrevented
		return dispatch.InvokeEvent(g, core.Event{
			Kind:    core.EventWillDestroyCards,
			Side:    source.Card.Side,
			Ability: &source,
			Cards:   targets,
		})

	case core.DestroyCheckIfPrevented:
		survivors := destroySurvivors(g, m)
		m.Targets = survivors
		if len(survivors) == 0 {
			m.Step = core.DestroyFinish
		} else {
			m.Step = core.DestroyApply
		}

	case core.DestroyApply:
		targets := m.Targets
		m.Step = core.DestroyDestroyedEvent
		for _, id := range targets {
			if err := MoveCard(g, id, core.DiscardPosition(id.Side)); err != nil {
				return err
			}
		}

	case core.DestroyDestroyedEvent:
		targets := m.Targets
		m.Step = core.DestroyFinish
		if len(targets) > 0 {
			if err := dispatch.InvokeEvent(g, core.Event{
				Kind:    core.EventCardsDestroyed,
				Side:    source.Card.Side,
				Ability: &source,
				Cards:   targets,
			}); err != nil {
				return err
			}
			g.History.AddEvent(core.HistoryEvent{Kind: core.HistoryCardsDestroyed, Side: source.Card.Side, Amount: len(targets)})
		}

	case core.DestroyFinish:
		g.Machines.Destroy = g.Machines.Destroy[:idx]

	default:
		return internalf("destroy machine in unknown step %d", m.Step)
	}
	return nil
}

// destroySurvivors filters the targets down to cards that are still in
// play and were not prevented.
func destroySurvivors(g *core.GameState, m *core.DestroyPermanentMachine) []core.CardID {
	prevented := make(map[core.CardID]bool, len(m.Prevented))
	for _, id := range m.Prevented {
		prevented[id] = true
	}
	var out []core.CardID
	for _, id := range m.Targets {
		if prevented[id] {
			continue
		}
		card, err := g.Card(id)
		if err != nil || !card.InPlay() {
			continue
		}
		out = append(out, id)
	}
	return out
}
