package rules

import (
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
)

// ApplyEffects applies the effects of a resolved prompt choice in order.
// The source ability attributes any machines the effects start; choices
// pushed outside an ability context pass the zero ability.
func ApplyEffects(g *core.GameState, effects []core.GameEffect, source core.AbilityID) error {
	for _, effect := range effects {
		if err := applyEffect(g, effect, source); err != nil {
			return err
		}
	}
	return nil
}

func applyEffect(g *core.GameState, e core.GameEffect, source core.AbilityID) error {
	switch e.Kind {
	case core.EffectContinue:
		return nil
	case core.EffectPayMana:
		return SpendMana(g, e.Side, e.Amount)
	case core.EffectPayActions:
		return SpendActionPoints(g, e.Side, e.Amount)
	case core.EffectGainMana:
		return GainMana(g, e.Side, e.Amount)
	case core.EffectTakeDamageCost:
		PushDealDamage(g, e.Amount, source)
		return nil
	case core.EffectSacrificeCard:
		if e.Card == nil {
			return internalf("sacrifice effect without a card")
		}
		return SacrificeCard(g, *e.Card)
	case core.EffectDestroyCard:
		if e.Card == nil {
			return internalf("destroy effect without a card")
		}
		PushDestroy(g, []core.CardID{*e.Card}, source)
		return nil
	case core.EffectMoveCard:
		if e.Card == nil || e.Position == nil {
			return internalf("move effect without a card and position")
		}
		return MoveCard(g, *e.Card, *e.Position)
	case core.EffectDrawCards:
		PushDrawCards(g, e.Side, e.Amount, true, source)
		return nil
	case core.EffectPreventDamage:
		return preventDamage(g, e.Amount)
	case core.EffectPreventCurse:
		return preventCurses(g, e.Amount)
	case core.EffectPreventDestroy:
		if e.Card == nil {
			return internalf("prevent-destroy effect without a card")
		}
		return preventDestroy(g, *e.Card)
	case core.EffectEndRaid:
		if g.Raid == nil {
			return internalf("end-raid effect with no raid in progress")
		}
		return failRaid(g)
	case core.EffectProgressCard:
		if e.Card == nil {
			return internalf("progress effect without a card")
		}
		return AddProgress(g, *e.Card, e.Amount)
	case core.EffectCancelPlay:
		return cancelPlay(g)
	}
	return internalf("unknown effect kind %v", e.Kind)
}

// preventDamage reduces the amount of the innermost in-flight damage. The
// prompt that carries this effect is pushed by a delegate running inside
// that machine, so the machine is still on its vector.
func preventDamage(g *core.GameState, amount int) error {
	n := len(g.Machines.DealDamage)
	if n == 0 {
		return internalf("prevent-damage effect with no damage in flight")
	}
	m := &g.Machines.DealDamage[n-1]
	m.Amount -= amount
	if m.Amount < 0 {
		m.Amount = 0
	}
	return nil
}

func preventCurses(g *core.GameState, amount int) error {
	n := len(g.Machines.GiveCurses)
	if n == 0 {
		return internalf("prevent-curse effect with no curses in flight")
	}
	m := &g.Machines.GiveCurses[n-1]
	m.Quantity -= amount
	if m.Quantity < 0 {
		m.Quantity = 0
	}
	return nil
}

func preventDestroy(g *core.GameState, id core.CardID) error {
	n := len(g.Machines.Destroy)
	if n == 0 {
		return internalf("prevent-destroy effect with no destruction in flight")
	}
	m := &g.Machines.Destroy[n-1]
	for _, prevented := range m.Prevented {
		if prevented == id {
			return nil
		}
	}
	m.Prevented = append(m.Prevented, id)
	return nil
}

// cancelPlay marks the innermost play-card machine cancelled. The machine
// unwinds on its next step, returning the card to where it came from.
func cancelPlay(g *core.GameState) error {
	n := len(g.Machines.PlayCard)
	if n == 0 {
		return internalf("cancel-play effect with no play in flight")
	}
	g.Machines.PlayCard[n-1].Cancelled = true
	return nil
}
