// Package dispatch delivers game events to card-bound delegates and folds
// queries through them. It owns the delegate cache: a derived index from
// event and query kinds to the delegates currently live, in the order
// their cards entered their zones.
package dispatch

import (
	"fmt"
	"sort"

	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
)

// scopeMatches reports whether a delegate with the given scope is live for
// a card in its current position.
func scopeMatches(card *core.CardState, scope core.DelegateScope) bool {
	switch scope {
	case core.ScopeInPlay:
		return card.Position.InPlay() && card.FaceUp
	case core.ScopeInPlayAnyFace:
		return card.Position.InPlay()
	case core.ScopeInHand:
		return card.Position.InHand() && card.Position.Side == card.Side()
	case core.ScopeInDiscard:
		return card.Position.InDiscard() && card.Position.Side == card.Side()
	case core.ScopeAnywhere:
		return true
	}
	return false
}

// addCardEntries appends cache entries for every live delegate of one card.
func addCardEntries(g *core.GameState, card *core.CardState) error {
	def, err := g.Registry.Get(card.Variant)
	if err != nil {
		return err
	}
	for abilityIdx := range def.Abilities {
		ability := &def.Abilities[abilityIdx]
		for delegateIdx := range ability.Delegates {
			delegate := &ability.Delegates[delegateIdx]
			if !scopeMatches(card, delegate.Scope) {
				continue
			}
			entry := core.CacheEntry{
				Ability:  core.NewAbilityID(card.ID, abilityIdx),
				Delegate: delegateIdx,
			}
			if delegate.IsEvent() {
				g.Cache.AddEvent(delegate.EventKind, entry)
			}
			if delegate.IsQuery() {
				g.Cache.AddQuery(delegate.QueryKind, entry)
			}
		}
	}
	return nil
}

// PopulateCache rebuilds the delegate cache from scratch, indexing cards by
// sorting key so registration order matches zone-entry order. Called when
// a game is created or loaded.
func PopulateCache(g *core.GameState) error {
	g.Cache = core.NewDelegateCache()
	var cards []*core.CardState
	for _, side := range core.Sides {
		cards = append(cards, g.AllCards(side)...)
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].SortingKey < cards[j].SortingKey
	})
	for _, card := range cards {
		if err := addCardEntries(g, card); err != nil {
			return err
		}
	}
	return nil
}

// RefreshCard re-indexes one card after its position or face changed. The
// card's old entries are dropped and, if any delegate scope matches the new
// position, fresh entries append at the end, which is what gives
// registration order its zone-entry semantics.
func RefreshCard(g *core.GameState, id core.CardID) error {
	card, err := g.Card(id)
	if err != nil {
		return err
	}
	g.Cache.RemoveCard(id)
	return addCardEntries(g, card)
}

// resolveDelegate looks up the delegate a cache entry points at.
func resolveDelegate(g *core.GameState, entry core.CacheEntry) (*core.Delegate, error) {
	card, err := g.Card(entry.Ability.Card)
	if err != nil {
		return nil, err
	}
	def, err := g.Registry.Get(card.Variant)
	if err != nil {
		return nil, err
	}
	ability, err := def.Ability(entry.Ability.Index)
	if err != nil {
		return nil, err
	}
	if entry.Delegate < 0 || entry.Delegate >= len(ability.Delegates) {
		return nil, fmt.Errorf("ability %s has no delegate %d", entry.Ability, entry.Delegate)
	}
	return &ability.Delegates[entry.Delegate], nil
}
