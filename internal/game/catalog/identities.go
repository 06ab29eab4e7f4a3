package catalog

import (
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/game/rules"
)

func registerIdentities(r *core.Registry) {
	r.MustRegister(&core.CardDefinition{
		Name:   "chapter_of_the_broken_spire",
		Side:   core.SideCovenant,
		Type:   core.TypeChapter,
		School: core.SchoolLaw,
		Abilities: []core.Ability{{
			Text: "When a scheme is scored, gain 1 mana.",
			Delegates: []core.Delegate{{
				Scope:     core.ScopeAnywhere,
				EventKind: core.EventCardScored,
				OnEvent: func(g *core.GameState, s core.Scope, e *core.Event) error {
					return rules.GainMana(g, core.SideCovenant, 1)
				},
			}},
		}},
	})

	r.MustRegister(&core.CardDefinition{
		Name:   "herald_of_the_rift",
		Side:   core.SideRiftcaller,
		Type:   core.TypeRiftcaller,
		School: core.SchoolBeyond,
		Abilities: []core.Ability{{
			Text: "The first time you defeat a minion each turn, draw a card.",
			Delegates: []core.Delegate{{
				Scope:     core.ScopeAnywhere,
				EventKind: core.EventMinionDefeated,
				// The counter increments after this event resolves, so zero
				// means the current defeat is the first of the turn.
				Requirement: func(g *core.GameState, s core.Scope, e *core.Event) bool {
					return g.TurnCounters(core.SideRiftcaller).MinionsDefeated == 0
				},
				OnEvent: func(g *core.GameState, s core.Scope, e *core.Event) error {
					rules.PushDrawCards(g, core.SideRiftcaller, 1, true, s.Ability)
					return nil
				},
			}},
		}},
	})
}
