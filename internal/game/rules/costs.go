package rules

import (
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
)

// CanPayCardCost reports whether a side could pay a card's full play cost
// right now: mana after transforms, action points, and any custom cost.
// Cards that enter play face down defer mana and custom costs to summoning
// or unveiling, so playing them checks action points only.
func CanPayCardCost(g *core.GameState, side core.Side, id core.CardID) (bool, error) {
	def, err := g.Definition(id)
	if err != nil {
		return false, internalf("card cost: %v", err)
	}
	player := g.Player(side)
	if entersPlayFaceUp(def) {
		mana, err := ManaCost(g, id)
		if err != nil {
			return false, err
		}
		if mana == nil {
			return false, nil
		}
		if player.Mana < *mana {
			return false, nil
		}
		if def.Cost.Custom != nil && def.Cost.Custom.CanPay != nil && !def.Cost.Custom.CanPay(g, id) {
			return false, nil
		}
	}
	actions, err := ActionCost(g, id)
	if err != nil {
		return false, err
	}
	if player.Actions < actions {
		return false, nil
	}
	return true, nil
}

// CanPayAbilityCost reports whether a side could activate an ability right
// now. Abilities without a cost block are not activated abilities at all.
func CanPayAbilityCost(g *core.GameState, side core.Side, id core.AbilityID) (bool, error) {
	ability, err := abilityDefinition(g, id)
	if err != nil {
		return false, err
	}
	if ability.Cost == nil {
		return false, nil
	}
	player := g.Player(side)
	if player.Actions < ability.Cost.Actions {
		return false, nil
	}
	if ability.Cost.Mana != nil {
		mana, err := AbilityManaCost(g, id)
		if err != nil {
			return false, err
		}
		if mana != nil && player.Mana < *mana {
			return false, nil
		}
	}
	if ability.Cost.Custom != nil && ability.Cost.Custom.CanPay != nil && !ability.Cost.Custom.CanPay(g, id.Card) {
		return false, nil
	}
	return true, nil
}

// CanApplyEffect reports whether a cost-kind effect could be paid. Effects
// that are not costs are always applicable.
func CanApplyEffect(g *core.GameState, effect core.GameEffect) bool {
	switch effect.Kind {
	case core.EffectPayMana:
		return g.Player(effect.Side).Mana >= effect.Amount
	case core.EffectPayActions:
		return g.Player(effect.Side).Actions >= effect.Amount
	case core.EffectSacrificeCard:
		if effect.Card == nil {
			return false
		}
		card, err := g.Card(*effect.Card)
		return err == nil && card.InPlay()
	case core.EffectTakeDamageCost:
		return true
	}
	return true
}

// ChoicePayable reports whether every cost effect of a prompt choice could
// be paid right now. Unpayable choices are removed before being offered.
func ChoicePayable(g *core.GameState, choice core.PromptChoice) bool {
	for _, effect := range choice.CostEffects() {
		if !CanApplyEffect(g, effect) {
			return false
		}
	}
	return true
}
