package rules

import (
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/game/dispatch"
)

// InitiateActivateAbility validates an activation request and pushes the
// machine. Only face-up in-play cards offer activated abilities.
func InitiateActivateAbility(g *core.GameState, side core.Side, id core.AbilityID, target core.PlayTarget) error {
	if id.Card.Side != side {
		return illegalf("%s cannot activate opposing ability %s", side, id)
	}
	card, err := g.Card(id.Card)
	if err != nil {
		return illegalf("%v", err)
	}
	if !card.InPlay() || !card.FaceUp {
		return illegalf("card %s is not face up in play", id.Card)
	}
	ability, err := abilityDefinition(g, id)
	if err != nil {
		return illegalf("%v", err)
	}
	if ability.Cost == nil {
		return illegalf("ability %s is not activated", id)
	}
	payable, err := CanPayAbilityCost(g, side, id)
	if err != nil {
		return err
	}
	if !payable {
		return illegalf("cannot pay the cost of ability %s", id)
	}
	g.Machines.ActivateAbility = append(g.Machines.ActivateAbility, core.ActivateAbilityMachine{
		Order:   g.NextOrder(),
		Step:    core.ActivateAbilityBegin,
		Ability: id,
		Target:  target,
	})
	return nil
}

func stepActivateAbility(g *core.GameState) error {
	idx := len(g.Machines.ActivateAbility) - 1
	m := &g.Machines.ActivateAbility[idx]
	id := m.Ability
	target := m.Target
	side := id.Card.Side
	switch m.Step {
	case core.ActivateAbilityBegin:
		m.Step = core.ActivateAbilityAddToHistory

	case core.ActivateAbilityAddToHistory:
		g.History.AddEvent(core.HistoryEvent{Kind: core.HistoryAbilityActivated, Side: side, Card: &id.Card})
		m.Step = core.ActivateAbilityPayActionPoints

	case core.ActivateAbilityPayActionPoints:
		ability, err := abilityDefinition(g, id)
		if err != nil {
			return internalf("%v", err)
		}
		m.Step = core.ActivateAbilityPayManaCost
		if ability.Cost.Actions > 0 {
			return SpendActionPoints(g, side, ability.Cost.Actions)
		}

	case core.ActivateAbilityPayManaCost:
		ability, err := abilityDefinition(g, id)
		if err != nil {
			return internalf("%v", err)
		}
		m.Step = core.ActivateAbilityPayCustomCost
		if ability.Cost.Mana != nil {
			mana, err := AbilityManaCost(g, id)
			if err != nil {
				return err
			}
			if mana != nil && *mana > 0 {
				return SpendMana(g, side, *mana)
			}
		}

	case core.ActivateAbilityPayCustomCost:
		ability, err := abilityDefinition(g, id)
		if err != nil {
			return internalf("%v", err)
		}
		m.Step = core.ActivateAbilityFireEvent
		if ability.Cost.Custom != nil && ability.Cost.Custom.Pay != nil {
			return ability.Cost.Custom.Pay(g, id.Card)
		}

	case core.ActivateAbilityFireEvent:
		m.Step = core.ActivateAbilityFinish
		ref := id
		g.RecordUpdate(core.GameUpdate{Kind: core.UpdateFireAbility, Side: side, Ability: &ref})
		event := core.Event{Kind: core.EventAbilityActivated, Side: side, Card: &ref.Card, Ability: &ref}
		if target.Kind == core.TargetRoom {
			room := target.Room
			event.Room = &room
		}
		if err := dispatch.InvokeEvent(g, event); err != nil {
			return err
		}
		g.TurnCounters(side).AbilitiesActivated++

	case core.ActivateAbilityFinish:
		g.Machines.ActivateAbility = g.Machines.ActivateAbility[:idx]

	default:
		return internalf("activate ability machine in unknown step %d", m.Step)
	}
	return nil
}
