package catalog

import (
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/game/rules"
)

func registerRiftcaller(r *core.Registry) {
	registerWeapons(r)
	registerSpells(r)
	registerEvocations(r)
	registerAllies(r)
}

func registerWeapons(r *core.Registry) {
	r.MustRegister(&core.CardDefinition{
		Name:      "ashbrand",
		Side:      core.SideRiftcaller,
		Type:      core.TypeArtifact,
		Subtype:   core.SubtypeWeapon,
		School:    core.SchoolPrimal,
		Resonance: resonance(core.ResonanceInfernal),
		Cost:      cost(2, 1),
		Stats: core.CardStats{
			BaseAttack: intp(2),
			Boost:      &core.AttackBoost{Cost: 1, Bonus: 1},
		},
	})

	r.MustRegister(&core.CardDefinition{
		Name:      "sungraver",
		Side:      core.SideRiftcaller,
		Type:      core.TypeArtifact,
		Subtype:   core.SubtypeWeapon,
		School:    core.SchoolLaw,
		Resonance: resonance(core.ResonanceMortal),
		Cost:      cost(3, 1),
		Stats: core.CardStats{
			BaseAttack: intp(1),
			Boost:      &core.AttackBoost{Cost: 2, Bonus: 2},
			UseCost:    intp(1),
		},
	})

	r.MustRegister(&core.CardDefinition{
		Name:      "prism_of_echoes",
		Side:      core.SideRiftcaller,
		Type:      core.TypeArtifact,
		Subtype:   core.SubtypeWeapon,
		School:    core.SchoolBeyond,
		Resonance: resonance(core.ResonancePrismatic),
		Cost:      cost(4, 1),
		Stats: core.CardStats{
			BaseAttack: intp(1),
			Boost:      &core.AttackBoost{Cost: 1, Bonus: 1},
		},
	})
}

func registerSpells(r *core.Registry) {
	r.MustRegister(&core.CardDefinition{
		Name:   "veilstrike",
		Side:   core.SideRiftcaller,
		Type:   core.TypeSpell,
		School: core.SchoolShadow,
		Cost:   cost(1, 1),
		Abilities: []core.Ability{{
			Text:      "Draw a card.",
			Delegates: []core.Delegate{ritualDelegate(func(g *core.GameState, s core.Scope) error {
				rules.PushDrawCards(g, core.SideRiftcaller, 1, true, s.Ability)
				return nil
			})},
		}},
	})

	r.MustRegister(&core.CardDefinition{
		Name:   "riftsurge",
		Side:   core.SideRiftcaller,
		Type:   core.TypeSpell,
		School: core.SchoolPrimal,
		Cost:   cost(1, 1),
		Abilities: []core.Ability{{
			Text:      "Gain 3 mana.",
			Delegates: []core.Delegate{ritualDelegate(func(g *core.GameState, s core.Scope) error {
				return rules.GainMana(g, core.SideRiftcaller, 3)
			})},
		}},
	})
}

func registerEvocations(r *core.Registry) {
	r.MustRegister(&core.CardDefinition{
		Name:   "leyline_conduit",
		Side:   core.SideRiftcaller,
		Type:   core.TypeEvocation,
		School: core.SchoolPrimal,
		Cost:   cost(2, 1),
		Abilities: []core.Ability{{
			Text: "When played, attune a leyline.",
			Delegates: []core.Delegate{{
				Scope:       core.ScopeInPlay,
				EventKind:   core.EventCardPlayed,
				Requirement: sameCard,
				OnEvent: func(g *core.GameState, s core.Scope, e *core.Event) error {
					rules.PushGiveLeylines(g, 1, s.Ability)
					return nil
				},
			}},
		}},
	})

	r.MustRegister(&core.CardDefinition{
		Name:   "glimmer_of_the_vault",
		Side:   core.SideRiftcaller,
		Type:   core.TypeEvocation,
		School: core.SchoolBeyond,
		Cost:   cost(3, 1),
		Abilities: []core.Ability{{
			Text: "Access one additional card when you raid the vault.",
			Delegates: []core.Delegate{{
				Scope:     core.ScopeInPlay,
				QueryKind: core.QueryVaultAccessCount,
				TransformInt: func(g *core.GameState, s core.Scope, q *core.Query, current int) int {
					return current + 1
				},
			}},
		}},
	})
}

func registerAllies(r *core.Registry) {
	r.MustRegister(&core.CardDefinition{
		Name:   "stalwart_protector",
		Side:   core.SideRiftcaller,
		Type:   core.TypeAlly,
		School: core.SchoolLaw,
		Cost:   cost(2, 1),
		Abilities: []core.Ability{{
			Text: "When you would receive a curse, you may sacrifice Stalwart Protector to prevent it.",
			Delegates: []core.Delegate{
				{
					Scope:     core.ScopeInPlay,
					EventKind: core.EventWillReceiveCurses,
					OnEvent: func(g *core.GameState, s core.Scope, e *core.Event) error {
						rules.PushAbilityPrompt(g, core.SideRiftcaller, s.Ability, 0)
						return nil
					},
				},
				{
					Scope:     core.ScopeInPlay,
					QueryKind: core.QueryShowPrompt,
					TransformPrompt: func(g *core.GameState, s core.Scope, q *core.Query, current *core.GamePrompt) *core.GamePrompt {
						card := s.Card()
						state, err := g.Card(card)
						if err != nil || !state.Position.InPlay() || len(g.Machines.GiveCurses) == 0 {
							return current
						}
						return core.ButtonPrompt(
							core.PromptContext{Kind: core.ContextSacrificeToPrevent, Card: &card},
							[]core.PromptChoice{
								{
									Label: "Sacrifice",
									Effects: []core.GameEffect{
										{Kind: core.EffectSacrificeCard, Card: &card},
										{Kind: core.EffectPreventCurse, Amount: 1},
									},
									Anchor: &card,
								},
								{Label: "Continue", Effects: []core.GameEffect{{Kind: core.EffectContinue}}},
							},
						)
					},
				},
			},
		}},
	})

	r.MustRegister(&core.CardDefinition{
		Name:   "ley_scavenger",
		Side:   core.SideRiftcaller,
		Type:   core.TypeAlly,
		School: core.SchoolShadow,
		Cost:   cost(3, 1),
		Abilities: []core.Ability{{
			Text: "When a raid succeeds, gain 1 mana.",
			Delegates: []core.Delegate{{
				Scope:     core.ScopeInPlay,
				EventKind: core.EventRaidSuccess,
				OnEvent: func(g *core.GameState, s core.Scope, e *core.Event) error {
					return rules.GainMana(g, core.SideRiftcaller, 1)
				},
			}},
		}},
	})
}
