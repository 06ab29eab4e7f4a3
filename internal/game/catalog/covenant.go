package catalog

import (
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/game/rules"
)

func registerCovenant(r *core.Registry) {
	registerSchemes(r)
	registerProjects(r)
	registerMinions(r)
	registerRituals(r)
}

func registerSchemes(r *core.Registry) {
	r.MustRegister(&core.CardDefinition{
		Name:   "gatefall_rite",
		Side:   core.SideCovenant,
		Type:   core.TypeScheme,
		School: core.SchoolLaw,
		Cost:   core.Cost{Actions: 1},
		Stats:  core.CardStats{Points: &core.SchemePoints{Progress: 3, Points: 10}},
	})

	r.MustRegister(&core.CardDefinition{
		Name:   "tithe_engine",
		Side:   core.SideCovenant,
		Type:   core.TypeScheme,
		School: core.SchoolLaw,
		Cost:   core.Cost{Actions: 1},
		Stats:  core.CardStats{Points: &core.SchemePoints{Progress: 4, Points: 20}},
		Abilities: []core.Ability{{
			Text: "When scored, gain 2 mana.",
			Delegates: []core.Delegate{{
				Scope:       core.ScopeAnywhere,
				EventKind:   core.EventCardScored,
				Requirement: sameCard,
				OnEvent: func(g *core.GameState, s core.Scope, e *core.Event) error {
					return rules.GainMana(g, core.SideCovenant, 2)
				},
			}},
		}},
	})
}

func registerProjects(r *core.Registry) {
	r.MustRegister(&core.CardDefinition{
		Name:   "mana_reliquary",
		Side:   core.SideCovenant,
		Type:   core.TypeProject,
		School: core.SchoolPact,
		Cost:   cost(2, 1),
		Stats:  core.CardStats{RazeCost: intp(2)},
		Abilities: []core.Ability{
			{
				Text: "When unveiled, store 12 mana.",
				Delegates: []core.Delegate{{
					Scope:       core.ScopeInPlay,
					EventKind:   core.EventCardUnveiled,
					Requirement: sameCard,
					OnEvent: func(g *core.GameState, s core.Scope, e *core.Event) error {
						card, err := g.Card(s.Card())
						if err != nil {
							return err
						}
						card.AddCounters(core.CounterStoredMana, 12)
						return nil
					},
				}},
			},
			{
				Text: "Take 3 stored mana.",
				Cost: &core.Cost{Actions: 1},
				Delegates: []core.Delegate{{
					Scope:       core.ScopeInPlay,
					EventKind:   core.EventAbilityActivated,
					Requirement: ownActivation,
					OnEvent: func(g *core.GameState, s core.Scope, e *core.Event) error {
						card, err := g.Card(s.Card())
						if err != nil {
							return err
						}
						take := 3
						if stored := card.Counter(core.CounterStoredMana); stored < take {
							take = stored
						}
						if take <= 0 {
							return nil
						}
						card.AddCounters(core.CounterStoredMana, -take)
						if err := rules.GainMana(g, core.SideCovenant, take); err != nil {
							return err
						}
						if card.Counter(core.CounterStoredMana) == 0 {
							rules.PushDestroy(g, []core.CardID{s.Card()}, s.Ability)
						}
						return nil
					},
				}},
			},
		},
	})

	r.MustRegister(&core.CardDefinition{
		Name:   "wardstone_bastion",
		Side:   core.SideCovenant,
		Type:   core.TypeProject,
		School: core.SchoolLaw,
		Cost:   cost(1, 1),
		Stats:  core.CardStats{RazeCost: intp(1)},
		Abilities: []core.Ability{{
			Text: "Minions defending this room have +1 shield.",
			Delegates: []core.Delegate{{
				Scope:     core.ScopeInPlay,
				QueryKind: core.QueryShieldValue,
				QueryRequirement: func(g *core.GameState, s core.Scope, q *core.Query) bool {
					if q.Card == nil {
						return false
					}
					minion, err := g.Card(*q.Card)
					if err != nil {
						return false
					}
					self, err := g.Card(s.Card())
					if err != nil || self.Position.Kind != core.PositionRoom {
						return false
					}
					return minion.Position.DefenderOf(self.Position.Room)
				},
				TransformInt: func(g *core.GameState, s core.Scope, q *core.Query, current int) int {
					return current + 1
				},
			}},
		}},
	})
}

func registerMinions(r *core.Registry) {
	r.MustRegister(&core.CardDefinition{
		Name:      "gravewing",
		Side:      core.SideCovenant,
		Type:      core.TypeMinion,
		School:    core.SchoolShadow,
		Resonance: resonance(core.ResonanceMortal),
		Cost:      cost(2, 1),
		Stats:     core.CardStats{Health: intp(2), Shield: intp(0)},
		Abilities: []core.Ability{{
			Text:      "Combat: deal 1 damage.",
			Delegates: []core.Delegate{combatDelegate(func(g *core.GameState, s core.Scope) error {
				rules.PushDealDamage(g, 1, s.Ability)
				return nil
			})},
		}},
	})

	r.MustRegister(&core.CardDefinition{
		Name:      "cinder_shade",
		Side:      core.SideCovenant,
		Type:      core.TypeMinion,
		School:    core.SchoolPact,
		Resonance: resonance(core.ResonanceInfernal),
		Cost:      cost(3, 1),
		Stats:     core.CardStats{Health: intp(3), Shield: intp(1)},
		Abilities: []core.Ability{{
			Text:      "Combat: give the Riftcaller a curse.",
			Delegates: []core.Delegate{combatDelegate(func(g *core.GameState, s core.Scope) error {
				rules.PushGiveCurses(g, 1, s.Ability)
				return nil
			})},
		}},
	})

	r.MustRegister(&core.CardDefinition{
		Name:      "null_sentinel",
		Side:      core.SideCovenant,
		Type:      core.TypeMinion,
		School:    core.SchoolBeyond,
		Resonance: resonance(core.ResonanceAstral),
		Cost:      cost(4, 1),
		Stats:     core.CardStats{Health: intp(4), Shield: intp(2)},
		Abilities: []core.Ability{{
			Text:      "Combat: end the raid.",
			Delegates: []core.Delegate{combatDelegate(func(g *core.GameState, s core.Scope) error {
				return rules.ApplyEffects(g, []core.GameEffect{{Kind: core.EffectEndRaid}}, s.Ability)
			})},
		}},
	})

	r.MustRegister(&core.CardDefinition{
		Name:      "marrow_tyrant",
		Side:      core.SideCovenant,
		Type:      core.TypeMinion,
		School:    core.SchoolShadow,
		Resonance: resonance(core.ResonanceInfernal),
		Cost:      cost(6, 1),
		Stats:     core.CardStats{Health: intp(5), Shield: intp(2)},
		Abilities: []core.Ability{{
			Text:      "Combat: give the Riftcaller a wound.",
			Delegates: []core.Delegate{combatDelegate(func(g *core.GameState, s core.Scope) error {
				rules.PushGiveWounds(g, 1, s.Ability)
				return nil
			})},
		}},
	})
}

func registerRituals(r *core.Registry) {
	r.MustRegister(&core.CardDefinition{
		Name:   "decree_of_thorns",
		Side:   core.SideCovenant,
		Type:   core.TypeRitual,
		School: core.SchoolPact,
		Cost:   cost(0, 1),
		Abilities: []core.Ability{{
			Text:      "Give the Riftcaller a curse.",
			Delegates: []core.Delegate{ritualDelegate(func(g *core.GameState, s core.Scope) error {
				rules.PushGiveCurses(g, 1, s.Ability)
				return nil
			})},
		}},
	})

	r.MustRegister(&core.CardDefinition{
		Name:   "overwhelming_levy",
		Side:   core.SideCovenant,
		Type:   core.TypeRitual,
		School: core.SchoolShadow,
		Cost:   cost(2, 1),
		Abilities: []core.Ability{{
			Text:      "Deal 2 damage.",
			Delegates: []core.Delegate{ritualDelegate(func(g *core.GameState, s core.Scope) error {
				rules.PushDealDamage(g, 2, s.Ability)
				return nil
			})},
		}},
	})

	r.MustRegister(&core.CardDefinition{
		Name:   "summons_from_below",
		Side:   core.SideCovenant,
		Type:   core.TypeRitual,
		School: core.SchoolLaw,
		Cost:   cost(1, 1),
		Abilities: []core.Ability{{
			Text:      "Draw 2 cards.",
			Delegates: []core.Delegate{ritualDelegate(func(g *core.GameState, s core.Scope) error {
				rules.PushDrawCards(g, core.SideCovenant, 2, true, s.Ability)
				return nil
			})},
		}},
	})
}

// combatDelegate wires a minion's combat ability: it fires when the minion's
// own combat event resolves during a raid encounter.
func combatDelegate(fire func(g *core.GameState, s core.Scope) error) core.Delegate {
	return core.Delegate{
		Scope:       core.ScopeInPlay,
		EventKind:   core.EventMinionCombat,
		Requirement: sameCard,
		OnEvent: func(g *core.GameState, s core.Scope, e *core.Event) error {
			return fire(g, s)
		},
	}
}

// ritualDelegate wires a ritual or spell's on-play effect. These cards
// resolve to their owner's discard pile before the played event fires, so
// the delegate listens from there.
func ritualDelegate(fire func(g *core.GameState, s core.Scope) error) core.Delegate {
	return core.Delegate{
		Scope:       core.ScopeInDiscard,
		EventKind:   core.EventCardPlayed,
		Requirement: sameCard,
		OnEvent: func(g *core.GameState, s core.Scope, e *core.Event) error {
			return fire(g, s)
		},
	}
}
