package rules

import (
	"testing"

	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
)

func intPtr(n int) *int { return &n }

// eventLog records fired event kinds through observer delegates attached
// to the Riftcaller identity fixture, in firing order.
type eventLog struct {
	kinds []core.EventKind
}

func (l *eventLog) record(kind core.EventKind) func(*core.GameState, core.Scope, *core.Event) error {
	return func(g *core.GameState, s core.Scope, e *core.Event) error {
		l.kinds = append(l.kinds, kind)
		return nil
	}
}

func (l *eventLog) count(kind core.EventKind) int {
	n := 0
	for _, k := range l.kinds {
		if k == kind {
			n++
		}
	}
	return n
}

// testRegistry builds a registry of fixture cards sized so that costs and
// combat math come out to small round numbers.
func testRegistry(log *eventLog) *core.Registry {
	registry := core.NewRegistry()

	observed := []core.EventKind{
		core.EventCardScored,
		core.EventCardSummoned,
		core.EventCardUnveiled,
		core.EventCurseReceived,
		core.EventCurseRemoved,
		core.EventDamageReceived,
		core.EventWeaponUsed,
		core.EventMinionDefeated,
		core.EventMinionCombat,
		core.EventRaidSuccess,
		core.EventRaidFailure,
	}
	observers := make([]core.Delegate, 0, len(observed))
	for _, kind := range observed {
		observers = append(observers, core.Delegate{
			Scope:     core.ScopeAnywhere,
			EventKind: kind,
			OnEvent:   log.record(kind),
		})
	}

	registry.MustRegister(&core.CardDefinition{
		Name: "test_chapter",
		Side: core.SideCovenant,
		Type: core.TypeChapter,
	})
	registry.MustRegister(&core.CardDefinition{
		Name:      "test_riftcaller",
		Side:      core.SideRiftcaller,
		Type:      core.TypeRiftcaller,
		Abilities: []core.Ability{{Text: "Records events for assertions.", Delegates: observers}},
	})
	registry.MustRegister(&core.CardDefinition{
		Name: "test_ritual",
		Side: core.SideCovenant,
		Type: core.TypeRitual,
		Cost: core.Cost{Mana: intPtr(1), Actions: 1},
	})
	registry.MustRegister(&core.CardDefinition{
		Name: "test_spell",
		Side: core.SideRiftcaller,
		Type: core.TypeSpell,
		Cost: core.Cost{Mana: intPtr(1), Actions: 1},
	})
	registry.MustRegister(&core.CardDefinition{
		Name:  "test_scheme",
		Side:  core.SideCovenant,
		Type:  core.TypeScheme,
		Cost:  core.Cost{Actions: 1},
		Stats: core.CardStats{Points: &core.SchemePoints{Progress: 3, Points: 10}},
	})

	infernal := core.ResonanceInfernal
	registry.MustRegister(&core.CardDefinition{
		Name:      "test_minion",
		Side:      core.SideCovenant,
		Type:      core.TypeMinion,
		Resonance: &infernal,
		Cost:      core.Cost{Mana: intPtr(4), Actions: 1},
		Stats:     core.CardStats{Health: 3, Shield: 1},
		Abilities: []core.Ability{{
			Text: "Combat: deal 1 damage.",
			Delegates: []core.Delegate{{
				Scope:     core.ScopeInPlay,
				EventKind: core.EventMinionCombat,
				Requirement: func(g *core.GameState, s core.Scope, e *core.Event) bool {
					return e.Card != nil && *e.Card == s.Card()
				},
				OnEvent: func(g *core.GameState, s core.Scope, e *core.Event) error {
					PushDealDamage(g, 1, s.Ability)
					return nil
				},
			}},
		}},
	})
	registry.MustRegister(&core.CardDefinition{
		Name:      "test_weapon",
		Side:      core.SideRiftcaller,
		Type:      core.TypeArtifact,
		Subtype:   core.SubtypeWeapon,
		Resonance: &infernal,
		Cost:      core.Cost{Mana: intPtr(2), Actions: 1},
		Stats: core.CardStats{
			BaseAttack: intPtr(2),
			Boost:      &core.AttackBoost{Cost: 1, Bonus: 1},
		},
	})
	registry.MustRegister(&core.CardDefinition{
		Name:  "test_project",
		Side:  core.SideCovenant,
		Type:  core.TypeProject,
		Cost:  core.Cost{Mana: intPtr(2), Actions: 1},
		Stats: core.CardStats{RazeCost: intPtr(1)},
	})
	registry.MustRegister(&core.CardDefinition{
		Name: "test_evocation",
		Side: core.SideRiftcaller,
		Type: core.TypeEvocation,
		Cost: core.Cost{Mana: intPtr(1), Actions: 1},
	})
	registry.MustRegister(&core.CardDefinition{
		Name: "test_guardian",
		Side: core.SideRiftcaller,
		Type: core.TypeAlly,
		Cost: core.Cost{Mana: intPtr(1), Actions: 1},
		Abilities: []core.Ability{{
			Text: "When you would receive a curse, you may sacrifice this ally to prevent it.",
			Delegates: []core.Delegate{
				{
					Scope:     core.ScopeInPlay,
					EventKind: core.EventWillReceiveCurses,
					OnEvent: func(g *core.GameState, s core.Scope, e *core.Event) error {
						PushAbilityPrompt(g, core.SideRiftcaller, s.Ability, 0)
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
	registry.MustRegister(&core.CardDefinition{
		Name: "test_hex",
		Side: core.SideCovenant,
		Type: core.TypeRitual,
		Cost: core.Cost{Mana: intPtr(0), Actions: 1},
		Abilities: []core.Ability{{
			Text: "Give the Riftcaller a curse.",
			Delegates: []core.Delegate{{
				Scope:     core.ScopeInDiscard,
				EventKind: core.EventCardPlayed,
				Requirement: func(g *core.GameState, s core.Scope, e *core.Event) bool {
					return e.Card != nil && *e.Card == s.Card()
				},
				OnEvent: func(g *core.GameState, s core.Scope, e *core.Event) error {
					PushGiveCurses(g, 1, s.Ability)
					return nil
				},
			}},
		}},
	})
	return registry
}

func fillerDeck(variant core.CardVariant, count int) []core.CardVariant {
	out := make([]core.CardVariant, count)
	for i := range out {
		out[i] = variant
	}
	return out
}

// gameHarness drives a game through the exported gateway and provides
// state surgery and assertions for scenario tests.
type gameHarness struct {
	t   *testing.T
	g   *core.GameState
	log *eventLog
}

// newTestGame builds a game with both identities placed, ten-card filler
// decks, and both mulligans kept, leaving the Covenant's first turn in
// progress.
func newTestGame(t *testing.T) *gameHarness {
	t.Helper()
	log := &eventLog{}
	registry := testRegistry(log)
	covenant := Decklist{Identity: "test_chapter", Cards: fillerDeck("test_ritual", 10)}
	riftcaller := Decklist{Identity: "test_riftcaller", Cards: fillerDeck("test_spell", 10)}
	g, err := NewGame("rules-test", registry, core.GameConfiguration{Deterministic: true, Seed: 7}, covenant, riftcaller)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	h := &gameHarness{t: t, g: g, log: log}
	h.perform(core.SideCovenant, core.MulliganDecisionAction(core.MulliganKeep))
	h.perform(core.SideRiftcaller, core.MulliganDecisionAction(core.MulliganKeep))
	return h
}

// perform submits an action and fails the test if it is rejected.
func (h *gameHarness) perform(side core.Side, action core.UserAction) {
	h.t.Helper()
	if err := HandleAction(h.g, side, action); err != nil {
		h.t.Fatalf("%s action %s: %v", side, action.Kind, err)
	}
}

// performIllegal submits an action that must be rejected as illegal.
func (h *gameHarness) performIllegal(side core.Side, action core.UserAction) {
	h.t.Helper()
	err := HandleAction(h.g, side, action)
	if err == nil {
		h.t.Fatalf("%s action %s: expected rejection", side, action.Kind)
	}
	if !IsIllegal(err) {
		h.t.Fatalf("%s action %s: got non-illegal error %v", side, action.Kind, err)
	}
}

// legal returns the current legal actions for a side.
func (h *gameHarness) legal(side core.Side) []core.UserAction {
	h.t.Helper()
	actions, err := LegalActions(h.g, side)
	if err != nil {
		h.t.Fatalf("legal actions for %s: %v", side, err)
	}
	return actions
}

// endAndPass ends the current side's turn and starts the opponent's.
func (h *gameHarness) endAndPass(side core.Side) {
	h.t.Helper()
	h.perform(side, core.EndTurnAction())
	h.perform(side.Opponent(), core.StartTurnAction())
}

// addCard registers a new card for a side and moves it, face down, to the
// given position.
func (h *gameHarness) addCard(side core.Side, variant core.CardVariant, pos core.CardPosition) core.CardID {
	h.t.Helper()
	id := h.g.AddCard(side, variant)
	if err := MoveCard(h.g, id, pos); err != nil {
		h.t.Fatalf("place %s: %v", variant, err)
	}
	return id
}

// addFaceUp registers a new card and places it face up.
func (h *gameHarness) addFaceUp(side core.Side, variant core.CardVariant, pos core.CardPosition) core.CardID {
	h.t.Helper()
	id := h.addCard(side, variant, pos)
	if err := TurnFaceUp(h.g, id); err != nil {
		h.t.Fatalf("flip %s: %v", variant, err)
	}
	return id
}

// emptyHand moves every card in a side's hand back into the deck.
func (h *gameHarness) emptyHand(side core.Side) {
	h.t.Helper()
	for _, card := range h.g.Hand(side) {
		if err := MoveCard(h.g, card.ID, core.DeckUnknownPosition(side)); err != nil {
			h.t.Fatalf("return %s to deck: %v", card.ID, err)
		}
	}
}

// setMana pins a side's mana pool for scenario setup.
func (h *gameHarness) setMana(side core.Side, amount int) {
	h.g.Player(side).Mana = amount
}

// prompt returns the surfaced prompt for a side, failing if none.
func (h *gameHarness) prompt(side core.Side) *core.GamePrompt {
	h.t.Helper()
	prompt := CurrentPrompt(h.g, side)
	if prompt == nil {
		h.t.Fatalf("no prompt for %s", side)
	}
	return prompt
}

// choiceIndex finds the button choice with the given label.
func (h *gameHarness) choiceIndex(side core.Side, label string) int {
	h.t.Helper()
	prompt := h.prompt(side)
	for i, choice := range prompt.Choices {
		if choice.Label == label {
			return i
		}
	}
	h.t.Fatalf("no %q choice in prompt for %s", label, side)
	return -1
}

// raidPrompt returns the pending raid prompt for a side, failing if none.
func (h *gameHarness) raidPrompt(side core.Side) *core.RaidPrompt {
	h.t.Helper()
	if h.g.Raid == nil {
		h.t.Fatalf("no raid in progress")
	}
	prompt := h.g.Raid.PromptFor(side)
	if prompt == nil {
		h.t.Fatalf("no raid prompt for %s", side)
	}
	return prompt
}

// raidChoice finds the first raid choice of the given kind.
func (h *gameHarness) raidChoice(side core.Side, kind core.RaidChoiceKind) (int, core.RaidChoice) {
	h.t.Helper()
	prompt := h.raidPrompt(side)
	for i, choice := range prompt.Choices {
		if choice.Kind == kind {
			return i, choice
		}
	}
	h.t.Fatalf("raid prompt for %s offers no %v choice", side, kind)
	return -1, core.RaidChoice{}
}

func (h *gameHarness) assertMana(side core.Side, want int) {
	h.t.Helper()
	if got := h.g.Player(side).Mana; got != want {
		h.t.Errorf("%s mana = %d, want %d", side, got, want)
	}
}

func (h *gameHarness) assertActions(side core.Side, want int) {
	h.t.Helper()
	if got := h.g.Player(side).Actions; got != want {
		h.t.Errorf("%s actions = %d, want %d", side, got, want)
	}
}

func (h *gameHarness) assertScore(side core.Side, want int) {
	h.t.Helper()
	if got := h.g.Player(side).Score; got != want {
		h.t.Errorf("%s score = %d, want %d", side, got, want)
	}
}

func (h *gameHarness) assertHandSize(side core.Side, want int) {
	h.t.Helper()
	if got := len(h.g.Hand(side)); got != want {
		h.t.Errorf("%s hand size = %d, want %d", side, got, want)
	}
}

func (h *gameHarness) assertDeckSize(side core.Side, want int) {
	h.t.Helper()
	if got := len(h.g.Deck(side)); got != want {
		h.t.Errorf("%s deck size = %d, want %d", side, got, want)
	}
}

// assertPosition checks a card's current position.
func (h *gameHarness) assertPosition(id core.CardID, want core.CardPosition) {
	h.t.Helper()
	card, err := h.g.Card(id)
	if err != nil {
		h.t.Fatalf("card %s: %v", id, err)
	}
	if card.Position != want {
		h.t.Errorf("card %s at %s, want %s", id, card.Position, want)
	}
}

// assertEventCount checks how many times an observed event kind fired.
func (h *gameHarness) assertEventCount(kind core.EventKind, want int) {
	h.t.Helper()
	if got := h.log.count(kind); got != want {
		h.t.Errorf("%s fired %d times, want %d", kind, got, want)
	}
}

// assertGameOver checks the game ended with the given winner.
func (h *gameHarness) assertGameOver(winner core.Side) {
	h.t.Helper()
	if !h.g.GameOver() {
		h.t.Fatalf("game is not over")
	}
	if got := h.g.Info.Phase.Winner; got != winner {
		h.t.Errorf("winner = %s, want %s", got, winner)
	}
}

// assertNoPrompts checks that neither side has a surfaced prompt and no
// raid decision is pending.
func (h *gameHarness) assertNoPrompts() {
	h.t.Helper()
	for _, side := range core.Sides {
		if prompt := CurrentPrompt(h.g, side); prompt != nil {
			h.t.Errorf("%s has unexpected prompt %v", side, prompt.Kind)
		}
	}
	if h.g.Raid != nil && h.g.Raid.Prompt != nil {
		h.t.Errorf("unexpected raid prompt for %s", h.g.Raid.Prompt.Side)
	}
}

// containsAction reports whether any action in the list equals want.
func containsAction(actions []core.UserAction, want core.UserAction) bool {
	for _, a := range actions {
		if a.Equal(want) {
			return true
		}
	}
	return false
}
