package dispatch

import (
	"testing"

	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
)

// newDispatchGame builds a game with a small registry of delegate-bearing
// cards for exercising the cache and fan-out machinery directly.
func newDispatchGame(t *testing.T, order *[]string) (*core.GameState, core.CardID, core.CardID) {
	t.Helper()
	registry := core.NewRegistry()

	registry.MustRegister(&core.CardDefinition{
		Name: "echo_one",
		Side: core.SideRiftcaller,
		Type: core.TypeAlly,
		Abilities: []core.Ability{{
			Text: "Reacts to dawn.",
			Delegates: []core.Delegate{{
				Scope:     core.ScopeInPlay,
				EventKind: core.EventDawn,
				OnEvent: func(g *core.GameState, s core.Scope, e *core.Event) error {
					*order = append(*order, "echo_one")
					return nil
				},
			}},
		}},
	})
	registry.MustRegister(&core.CardDefinition{
		Name: "echo_two",
		Side: core.SideRiftcaller,
		Type: core.TypeAlly,
		Abilities: []core.Ability{{
			Text: "Reacts to dawn, raising a nested event.",
			Delegates: []core.Delegate{
				{
					Scope:     core.ScopeInPlay,
					EventKind: core.EventDawn,
					OnEvent: func(g *core.GameState, s core.Scope, e *core.Event) error {
						*order = append(*order, "echo_two")
						return InvokeEvent(g, core.Event{Kind: core.EventManaGained, Side: core.SideRiftcaller, Amount: 1})
					},
				},
				{
					Scope:     core.ScopeInPlay,
					EventKind: core.EventManaGained,
					OnEvent: func(g *core.GameState, s core.Scope, e *core.Event) error {
						*order = append(*order, "echo_two:mana")
						return nil
					},
				},
			},
		}},
	})
	registry.MustRegister(&core.CardDefinition{
		Name: "hand_size_charm",
		Side: core.SideRiftcaller,
		Type: core.TypeAlly,
		Abilities: []core.Ability{{
			Text: "+2 maximum hand size.",
			Delegates: []core.Delegate{{
				Scope:     core.ScopeInPlay,
				QueryKind: core.QueryMaximumHandSize,
				TransformInt: func(g *core.GameState, s core.Scope, q *core.Query, current int) int {
					return current + 2
				},
			}},
		}},
	})

	g := core.NewGameState("dispatch-test", registry, core.GameConfiguration{}, 11)
	first := g.AddCard(core.SideRiftcaller, "echo_one")
	second := g.AddCard(core.SideRiftcaller, "echo_two")
	return g, first, second
}

func moveToArena(t *testing.T, g *core.GameState, id core.CardID) {
	t.Helper()
	card, err := g.Card(id)
	if err != nil {
		t.Fatalf("card %s: %v", id, err)
	}
	card.Position = core.ArenaItemPosition(core.SlotAllies)
	card.SortingKey = g.NextKey()
	card.FaceUp = true
	if err := RefreshCard(g, id); err != nil {
		t.Fatalf("refresh %s: %v", id, err)
	}
}

func TestEventFanOutFollowsZoneEntryOrder(t *testing.T) {
	var order []string
	g, first, second := newDispatchGame(t, &order)

	// Second enters play before first: it must fire first.
	moveToArena(t, g, second)
	moveToArena(t, g, first)

	if err := InvokeEvent(g, core.Event{Kind: core.EventDawn, Side: core.SideRiftcaller}); err != nil {
		t.Fatalf("invoke dawn: %v", err)
	}
	want := []string{"echo_two", "echo_one", "echo_two:mana"}
	if len(order) != len(want) {
		t.Fatalf("fired %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("fired %v, want %v", order, want)
		}
	}
}

func TestNestedEventWaitsForCurrentEvent(t *testing.T) {
	var order []string
	g, first, second := newDispatchGame(t, &order)

	// First fires before second; second raises a nested mana event which
	// must wait until dawn finishes fanning out.
	moveToArena(t, g, second)
	moveToArena(t, g, first)
	order = order[:0]

	if err := InvokeEvent(g, core.Event{Kind: core.EventDawn}); err != nil {
		t.Fatalf("invoke dawn: %v", err)
	}
	// echo_two fires, queues mana; echo_one still fires for dawn before
	// the queued mana event is delivered.
	want := []string{"echo_two", "echo_one", "echo_two:mana"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("fired %v, want %v", order, want)
		}
	}
}

func TestCacheFollowsZoneChanges(t *testing.T) {
	var order []string
	g, first, _ := newDispatchGame(t, &order)

	if g.Cache.Contains(core.EventDawn, first) {
		t.Fatalf("deck card should not be registered")
	}
	moveToArena(t, g, first)
	if !g.Cache.Contains(core.EventDawn, first) {
		t.Fatalf("in-play card should be registered")
	}

	// Back to the discard pile: the in-play delegate goes quiet.
	card, _ := g.Card(first)
	card.Position = core.DiscardPosition(core.SideRiftcaller)
	card.SortingKey = g.NextKey()
	card.FaceUp = false
	if err := RefreshCard(g, first); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if g.Cache.Contains(core.EventDawn, first) {
		t.Fatalf("discarded card should not be registered")
	}
}

func TestFaceDownCardsAreNotLive(t *testing.T) {
	var order []string
	g, first, _ := newDispatchGame(t, &order)

	card, _ := g.Card(first)
	card.Position = core.ArenaItemPosition(core.SlotAllies)
	card.SortingKey = g.NextKey()
	card.FaceUp = false
	if err := RefreshCard(g, first); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if g.Cache.Contains(core.EventDawn, first) {
		t.Fatalf("face-down card should not register in-play delegates")
	}
}

func TestPopulateCacheRebuildsFromPositions(t *testing.T) {
	var order []string
	g, first, second := newDispatchGame(t, &order)
	moveToArena(t, g, second)
	moveToArena(t, g, first)

	// Clobber the cache, rebuild, and check both registration and order.
	g.Cache = core.NewDelegateCache()
	if err := PopulateCache(g); err != nil {
		t.Fatalf("populate: %v", err)
	}
	entries := g.Cache.EventEntries(core.EventDawn)
	if len(entries) != 2 {
		t.Fatalf("expected 2 dawn entries, got %d", len(entries))
	}
	if entries[0].Ability.Card != second || entries[1].Ability.Card != first {
		t.Fatalf("rebuild lost zone-entry order: %v", entries)
	}
}

func TestQueryIntFolding(t *testing.T) {
	var order []string
	g, _, _ := newDispatchGame(t, &order)
	charm := g.AddCard(core.SideRiftcaller, "hand_size_charm")

	query := core.Query{Kind: core.QueryMaximumHandSize, Side: core.SideRiftcaller}
	if got := QueryInt(g, query, 8); got != 8 {
		t.Fatalf("base hand size = %d, want 8", got)
	}

	moveToArena(t, g, charm)
	if got := QueryInt(g, query, 8); got != 10 {
		t.Fatalf("boosted hand size = %d, want 10", got)
	}
}

func TestQueryFlagComposesWithAnd(t *testing.T) {
	registry := core.NewRegistry()
	registry.MustRegister(&core.CardDefinition{
		Name: "raid_ward",
		Side: core.SideCovenant,
		Type: core.TypeProject,
		Abilities: []core.Ability{{
			Text: "The Riftcaller cannot raid the vault.",
			Delegates: []core.Delegate{{
				Scope:     core.ScopeInPlay,
				QueryKind: core.QueryCanInitiateRaid,
				QueryRequirement: func(g *core.GameState, s core.Scope, q *core.Query) bool {
					return q.Room != nil && *q.Room == core.RoomVault
				},
				TransformFlag: func(g *core.GameState, s core.Scope, q *core.Query, current bool) bool {
					return false
				},
			}},
		}},
	})
	g := core.NewGameState("flag-test", registry, core.GameConfiguration{}, 3)
	ward := g.AddCard(core.SideCovenant, "raid_ward")
	card, _ := g.Card(ward)
	card.Position = core.RoomPosition(core.RoomA, core.RoleOccupant)
	card.SortingKey = g.NextKey()
	card.FaceUp = true
	if err := RefreshCard(g, ward); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	vault := core.RoomVault
	sanctum := core.RoomSanctum
	if QueryFlag(g, core.Query{Kind: core.QueryCanInitiateRaid, Room: &vault}, true) {
		t.Fatalf("vault raid should be vetoed")
	}
	if !QueryFlag(g, core.Query{Kind: core.QueryCanInitiateRaid, Room: &sanctum}, true) {
		t.Fatalf("sanctum raid should stay allowed")
	}
}
