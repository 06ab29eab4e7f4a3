// Package catalog holds the card definitions the server ships with. The
// set is compact but exercises every delegate mechanism the rules engine
// supports: triggered and activated abilities, query transforms, prompt
// materialization, card counters, and the status machines.
//
// Definitions are registered into a core.Registry built by New and injected
// into each game; nothing in this package is global state.
package catalog

import (
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/game/rules"
)

// New builds the full registry.
func New() *core.Registry {
	r := core.NewRegistry()
	registerIdentities(r)
	registerCovenant(r)
	registerRiftcaller(r)
	return r
}

// StandardCovenantDeck is the stock Covenant decklist.
func StandardCovenantDeck() rules.Decklist {
	return rules.Decklist{
		Identity: "chapter_of_the_broken_spire",
		Cards: []core.CardVariant{
			"gatefall_rite", "gatefall_rite",
			"tithe_engine",
			"decree_of_thorns", "decree_of_thorns",
			"overwhelming_levy", "overwhelming_levy",
			"summons_from_below", "summons_from_below",
			"gravewing", "gravewing",
			"cinder_shade", "cinder_shade",
			"null_sentinel",
			"marrow_tyrant",
			"mana_reliquary",
			"wardstone_bastion",
		},
	}
}

// StandardRiftcallerDeck is the stock Riftcaller decklist.
func StandardRiftcallerDeck() rules.Decklist {
	return rules.Decklist{
		Identity: "herald_of_the_rift",
		Cards: []core.CardVariant{
			"ashbrand", "ashbrand",
			"sungraver",
			"prism_of_echoes",
			"veilstrike", "veilstrike", "veilstrike",
			"riftsurge", "riftsurge",
			"leyline_conduit", "leyline_conduit",
			"glimmer_of_the_vault",
			"stalwart_protector", "stalwart_protector",
			"ley_scavenger",
		},
	}
}

func cost(mana, actions int) core.Cost {
	return core.Cost{Mana: &mana, Actions: actions}
}

func intp(n int) *int {
	return &n
}

func resonance(r core.Resonance) *core.Resonance {
	return &r
}

// sameCard keys a played/scored/unveiled trigger to the ability's own card.
func sameCard(g *core.GameState, s core.Scope, e *core.Event) bool {
	return e.Card != nil && *e.Card == s.Card()
}

// ownActivation keys an activation trigger to the ability itself.
func ownActivation(g *core.GameState, s core.Scope, e *core.Event) bool {
	return e.Ability != nil && *e.Ability == s.Ability
}
