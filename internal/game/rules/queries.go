package rules

import (
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/game/dispatch"
)

// ManaCost returns the mana cost to play a card after delegate transforms.
// Nil means the card cannot be paid for with mana at all.
func ManaCost(g *core.GameState, id core.CardID) (*int, error) {
	def, err := g.Definition(id)
	if err != nil {
		return nil, internalf("mana cost: %v", err)
	}
	if def.Cost.Mana == nil {
		return nil, nil
	}
	cost := dispatch.QueryInt(g, core.Query{Kind: core.QueryManaCost, Side: id.Side, Card: &id}, *def.Cost.Mana)
	if cost < 0 {
		cost = 0
	}
	return &cost, nil
}

// AbilityManaCost returns the mana cost to activate an ability, nil when
// the ability has no mana component.
func AbilityManaCost(g *core.GameState, id core.AbilityID) (*int, error) {
	ability, err := abilityDefinition(g, id)
	if err != nil {
		return nil, err
	}
	if ability.Cost == nil || ability.Cost.Mana == nil {
		return nil, nil
	}
	cost := dispatch.QueryInt(g, core.Query{
		Kind:    core.QueryAbilityManaCost,
		Side:    id.Card.Side,
		Card:    &id.Card,
		Ability: &id,
	}, *ability.Cost.Mana)
	if cost < 0 {
		cost = 0
	}
	return &cost, nil
}

// ActionCost returns the action point cost to play a card.
func ActionCost(g *core.GameState, id core.CardID) (int, error) {
	def, err := g.Definition(id)
	if err != nil {
		return 0, internalf("action cost: %v", err)
	}
	cost := dispatch.QueryInt(g, core.Query{Kind: core.QueryActionCost, Side: id.Side, Card: &id}, def.Cost.Actions)
	if cost < 0 {
		cost = 0
	}
	return cost, nil
}

// BaseAttack returns a weapon's attack before boosts.
func BaseAttack(g *core.GameState, id core.CardID) (int, error) {
	def, err := g.Definition(id)
	if err != nil {
		return 0, internalf("base attack: %v", err)
	}
	base := 0
	if def.Stats.BaseAttack != nil {
		base = *def.Stats.BaseAttack
	}
	return dispatch.QueryInt(g, core.Query{Kind: core.QueryBaseAttack, Side: id.Side, Card: &id}, base), nil
}

// HealthValue returns a minion's health after delegate transforms.
func HealthValue(g *core.GameState, id core.CardID) (int, error) {
	def, err := g.Definition(id)
	if err != nil {
		return 0, internalf("health: %v", err)
	}
	base := 0
	if def.Stats.Health != nil {
		base = *def.Stats.Health
	}
	return dispatch.QueryInt(g, core.Query{Kind: core.QueryHealthValue, Side: id.Side, Card: &id}, base), nil
}

// ShieldValue returns a minion's shield against a particular weapon. The
// weapon id is part of the query so weapon texts can pierce shields.
func ShieldValue(g *core.GameState, id core.CardID, weapon *core.CardID) (int, error) {
	def, err := g.Definition(id)
	if err != nil {
		return 0, internalf("shield: %v", err)
	}
	base := 0
	if def.Stats.Shield != nil {
		base = *def.Stats.Shield
	}
	value := dispatch.QueryInt(g, core.Query{Kind: core.QueryShieldValue, Side: id.Side, Card: &id, Weapon: weapon}, base)
	if value < 0 {
		value = 0
	}
	return value, nil
}

// BreachValue returns a weapon's shield penetration.
func BreachValue(g *core.GameState, id core.CardID) (int, error) {
	def, err := g.Definition(id)
	if err != nil {
		return 0, internalf("breach: %v", err)
	}
	base := 0
	if def.Stats.Breach != nil {
		base = *def.Stats.Breach
	}
	return dispatch.QueryInt(g, core.Query{Kind: core.QueryBreachValue, Side: id.Side, Card: &id}, base), nil
}

// RazeCost returns the mana cost to raze an accessed card, nil when the
// card cannot be razed.
func RazeCost(g *core.GameState, id core.CardID) (*int, error) {
	def, err := g.Definition(id)
	if err != nil {
		return nil, internalf("raze cost: %v", err)
	}
	if def.Stats.RazeCost == nil {
		return nil, nil
	}
	cost := dispatch.QueryInt(g, core.Query{Kind: core.QueryRazeCost, Side: id.Side, Card: &id}, *def.Stats.RazeCost)
	if cost < 0 {
		cost = 0
	}
	return &cost, nil
}

// VaultAccessCount returns how many cards a vault raid accesses.
func VaultAccessCount(g *core.GameState, raidID uint32) int {
	count := dispatch.QueryInt(g, core.Query{Kind: core.QueryVaultAccessCount, Side: core.SideRiftcaller, RaidID: raidID}, 1)
	if count < 0 {
		count = 0
	}
	return count
}

// SanctumAccessCount returns how many cards a sanctum raid accesses.
func SanctumAccessCount(g *core.GameState, raidID uint32) int {
	count := dispatch.QueryInt(g, core.Query{Kind: core.QuerySanctumAccessCount, Side: core.SideRiftcaller, RaidID: raidID}, 1)
	if count < 0 {
		count = 0
	}
	return count
}

// StartOfTurnActions returns the action points granted at turn start.
func StartOfTurnActions(g *core.GameState, side core.Side) int {
	actions := dispatch.QueryInt(g, core.Query{Kind: core.QueryStartOfTurnActions, Side: side}, core.ActionsPerTurn)
	if actions < 0 {
		actions = 0
	}
	return actions
}

// MaximumHandSize returns a side's hand limit: the base (or the player's
// override) less one per wound, folded through delegates, floored at zero.
func MaximumHandSize(g *core.GameState, side core.Side) int {
	player := g.Player(side)
	base := core.BaseMaximumHandSize
	if player.HandSizeOverride != nil {
		base = *player.HandSizeOverride
	}
	base -= player.Wounds
	size := dispatch.QueryInt(g, core.Query{Kind: core.QueryMaximumHandSize, Side: side}, base)
	if size < 0 {
		size = 0
	}
	return size
}

// CanPlayCard reports whether delegates permit playing a card.
func CanPlayCard(g *core.GameState, side core.Side, id core.CardID) bool {
	return dispatch.QueryFlag(g, core.Query{Kind: core.QueryCanPlayCard, Side: side, Card: &id}, true)
}

// CanScoreAccessedCard reports whether delegates permit scoring a card
// during raid access.
func CanScoreAccessedCard(g *core.GameState, id core.CardID) bool {
	return dispatch.QueryFlag(g, core.Query{Kind: core.QueryCanScoreAccessedCard, Side: core.SideRiftcaller, Card: &id}, true)
}

// CanSummon reports whether delegates permit summoning a minion.
func CanSummon(g *core.GameState, id core.CardID) bool {
	return dispatch.QueryFlag(g, core.Query{Kind: core.QueryCanSummon, Side: core.SideCovenant, Card: &id}, true)
}

// CanInitiateRaid reports whether delegates permit raiding a room.
func CanInitiateRaid(g *core.GameState, room core.RoomID) bool {
	return dispatch.QueryFlag(g, core.Query{Kind: core.QueryCanInitiateRaid, Side: core.SideRiftcaller, Room: &room}, true)
}

// CanProgressRoom reports whether delegates permit the progress action on
// a room.
func CanProgressRoom(g *core.GameState, room core.RoomID) bool {
	return dispatch.QueryFlag(g, core.Query{Kind: core.QueryCanProgressRoom, Side: core.SideCovenant, Room: &room}, true)
}

func abilityDefinition(g *core.GameState, id core.AbilityID) (*core.Ability, error) {
	def, err := g.Definition(id.Card)
	if err != nil {
		return nil, internalf("ability %s: %v", id, err)
	}
	ability, err := def.Ability(id.Index)
	if err != nil {
		return nil, internalf("ability %s: %v", id, err)
	}
	return ability, nil
}
