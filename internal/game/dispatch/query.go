package dispatch

import "github.com/riftcaller/riftcaller-server-go/internal/game/core"

// QueryInt folds a numeric query through every live delegate registered for
// its kind, starting from the engine-computed base value. Transforms
// compose in registration order.
func QueryInt(g *core.GameState, query core.Query, base int) int {
	current := base
	for _, entry := range g.Cache.QueryEntries(query.Kind) {
		delegate, err := resolveDelegate(g, entry)
		if err != nil || delegate.TransformInt == nil {
			continue
		}
		scope := core.Scope{Ability: entry.Ability}
		if delegate.QueryRequirement != nil && !delegate.QueryRequirement(g, scope, &query) {
			continue
		}
		current = delegate.TransformInt(g, scope, &query, current)
	}
	return current
}

// QueryFlag folds a boolean query. Flags compose with and: any delegate can
// veto, none can force.
func QueryFlag(g *core.GameState, query core.Query, base bool) bool {
	current := base
	for _, entry := range g.Cache.QueryEntries(query.Kind) {
		delegate, err := resolveDelegate(g, entry)
		if err != nil || delegate.TransformFlag == nil {
			continue
		}
		scope := core.Scope{Ability: entry.Ability}
		if delegate.QueryRequirement != nil && !delegate.QueryRequirement(g, scope, &query) {
			continue
		}
		current = current && delegate.TransformFlag(g, scope, &query, current)
	}
	return current
}

// QueryPrompt folds an option-typed prompt query. The last delegate to
// return a non-nil prompt wins; a delegate returning nil withdraws any
// earlier result, which is how stale queued prompts cancel themselves.
func QueryPrompt(g *core.GameState, query core.Query, base *core.GamePrompt) *core.GamePrompt {
	current := base
	for _, entry := range g.Cache.QueryEntries(query.Kind) {
		delegate, err := resolveDelegate(g, entry)
		if err != nil || delegate.TransformPrompt == nil {
			continue
		}
		scope := core.Scope{Ability: entry.Ability}
		if delegate.QueryRequirement != nil && !delegate.QueryRequirement(g, scope, &query) {
			continue
		}
		current = delegate.TransformPrompt(g, scope, &query, current)
	}
	return current
}

// QueryPromptForAbility folds the show-prompt query against a single
// ability, used when a queued prompt entry resurfaces and must be
// recomputed by exactly the ability that pushed it.
func QueryPromptForAbility(g *core.GameState, ability core.AbilityID, data uint32) *core.GamePrompt {
	query := core.Query{Kind: core.QueryShowPrompt, Card: &ability.Card, Ability: &ability, Data: data}
	card, err := g.Card(ability.Card)
	if err != nil {
		return nil
	}
	def, err := g.Registry.Get(card.Variant)
	if err != nil {
		return nil
	}
	abilityDef, err := def.Ability(ability.Index)
	if err != nil {
		return nil
	}
	var current *core.GamePrompt
	scope := core.Scope{Ability: ability}
	for i := range abilityDef.Delegates {
		delegate := &abilityDef.Delegates[i]
		if delegate.QueryKind != core.QueryShowPrompt || delegate.TransformPrompt == nil {
			continue
		}
		if delegate.QueryRequirement != nil && !delegate.QueryRequirement(g, scope, &query) {
			continue
		}
		current = delegate.TransformPrompt(g, scope, &query, current)
	}
	return current
}
