package core

import (
	"fmt"
	"sort"
)

// Game constants. These are the base numbers before delegates transform
// them through queries.
const (
	// StartingMana is each player's mana at game start.
	StartingMana = 5
	// StartingHandSize is the opening hand size before mulligans.
	StartingHandSize = 5
	// ActionsPerTurn is the default start-of-turn action point allotment.
	ActionsPerTurn = 3
	// BaseMaximumHandSize is the hand limit before wounds and overrides.
	BaseMaximumHandSize = 8
	// PointsToWin ends the game in favor of the first side to reach it.
	PointsToWin = 50
	// RemoveCurseCost is the mana cost of the remove-curse action.
	RemoveCurseCost = 2
	// DispelEvocationCost is the mana cost of the dispel-evocation action.
	DispelEvocationCost = 2
	// MinionLimit is the most minions one outer room can hold.
	MinionLimit = 4
	// OccupantLimit is the most occupants one outer room can hold.
	OccupantLimit = 1
)

// PhaseKind enumerates the top-level game phases.
type PhaseKind int

const (
	PhaseResolveMulligans PhaseKind = iota
	PhasePlay
	PhaseGameOver
)

var phaseNames = map[PhaseKind]string{
	PhaseResolveMulligans: "resolve_mulligans",
	PhasePlay:             "play",
	PhaseGameOver:         "game_over",
}

func (k PhaseKind) String() string {
	if name, ok := phaseNames[k]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(k))
}

// GamePhase is the current phase with its payload: mulligan decisions while
// resolving mulligans, the winner once the game is over.
type GamePhase struct {
	Kind      PhaseKind    `json:"kind"`
	Mulligans MulliganData `json:"mulligans,omitempty"`
	Winner    Side         `json:"winner,omitempty"`
}

// TurnData identifies one turn. Numbers start at 1 and advance every time
// the active side changes.
type TurnData struct {
	Side   Side `json:"side"`
	Number int  `json:"number"`
}

// TurnState distinguishes a running turn from one that has ended and is
// waiting for the opponent to start theirs.
type TurnState int

const (
	TurnActive TurnState = iota
	TurnEnded
)

// GameConfiguration carries the per-game toggles.
type GameConfiguration struct {
	// Deterministic pins the RNG to Seed instead of a random one.
	Deterministic bool `json:"deterministic,omitempty"`
	// ScriptedTutorial defers action selection to an external driver.
	ScriptedTutorial bool `json:"scripted_tutorial,omitempty"`
	// Simulation disables update recording for AI search.
	Simulation bool `json:"simulation,omitempty"`
	Seed       uint64 `json:"seed,omitempty"`
}

// GameInfo groups the phase, turn, and configuration of a game.
type GameInfo struct {
	Phase     GamePhase         `json:"phase"`
	Turn      TurnData          `json:"turn"`
	TurnState TurnState         `json:"turn_state"`
	Config    GameConfiguration `json:"config"`
}

// GameState is the authoritative state of one game. It is owned by exactly
// one logical execution context; the engine never mutates it from more than
// one goroutine. All position changes go through the rules layer so
// sorting keys, visibility, and the delegate cache stay consistent.
type GameState struct {
	ID       string          `json:"id"`
	Info     GameInfo        `json:"info"`
	Players  [2]PlayerState  `json:"players"`
	Cards    [2][]CardState  `json:"cards"`
	Raid     *RaidData       `json:"raid,omitempty"`
	Machines StateMachines   `json:"machines"`
	History  HistoryData     `json:"history"`
	Updates  UpdateTracker   `json:"updates"`
	Rng      *Rng            `json:"-"`

	NextSortingKey   uint64 `json:"next_sorting_key"`
	NextMachineOrder uint64 `json:"next_machine_order"`
	NextRaidID       uint32 `json:"next_raid_id"`

	// Registry is the injected immutable card catalog. Not serialized;
	// reattached on load.
	Registry *Registry `json:"-"`
	// Cache is the derived delegate index. Not serialized; rebuilt on load.
	Cache DelegateCache `json:"-"`
	// QueuedEvents and InEvent implement the event work queue: events
	// raised while another event is being handled wait their turn.
	QueuedEvents []Event `json:"-"`
	InEvent      bool    `json:"-"`
}

// NewGameState creates an empty game shell. Cards, decks, and the opening
// phase are populated by the rules layer.
func NewGameState(id string, registry *Registry, config GameConfiguration, seed uint64) *GameState {
	g := &GameState{
		ID:       id,
		Registry: registry,
		Rng:      NewRng(seed),
		Cache:    NewDelegateCache(),
	}
	g.Info.Config = config
	g.Info.Phase = GamePhase{Kind: PhaseResolveMulligans}
	g.Updates.Disabled = config.Simulation
	for _, side := range Sides {
		g.Players[side] = PlayerState{Side: side, Mana: StartingMana}
	}
	return g
}

// Player returns the mutable player record for a side.
func (g *GameState) Player(side Side) *PlayerState {
	return &g.Players[side]
}

// Card resolves a card id to its mutable state.
func (g *GameState) Card(id CardID) (*CardState, error) {
	if !id.Side.Valid() || id.Index < 0 || id.Index >= len(g.Cards[id.Side]) {
		return nil, fmt.Errorf("card %s not found", id)
	}
	return &g.Cards[id.Side][id.Index], nil
}

// Definition resolves a card id to its registry definition.
func (g *GameState) Definition(id CardID) (*CardDefinition, error) {
	card, err := g.Card(id)
	if err != nil {
		return nil, err
	}
	if g.Registry == nil {
		return nil, fmt.Errorf("game %s has no registry attached", g.ID)
	}
	return g.Registry.Get(card.Variant)
}

// AddCard creates a card owned by the given side in the deck-unknown zone
// and returns its id.
func (g *GameState) AddCard(side Side, variant CardVariant) CardID {
	id := NewCardID(side, len(g.Cards[side]))
	g.Cards[side] = append(g.Cards[side], CardState{
		ID:         id,
		Variant:    variant,
		Position:   DeckUnknownPosition(side),
		SortingKey: g.NextKey(),
	})
	return id
}

// NextKey returns the next monotonic sorting key.
func (g *GameState) NextKey() uint64 {
	g.NextSortingKey++
	return g.NextSortingKey
}

// NextOrder returns the next state-machine order value.
func (g *GameState) NextOrder() uint64 {
	g.NextMachineOrder++
	return g.NextMachineOrder
}

// NewRaidID returns the next raid identifier.
func (g *GameState) NewRaidID() uint32 {
	g.NextRaidID++
	return g.NextRaidID
}

// CurrentTurn returns the turn in progress.
func (g *GameState) CurrentTurn() TurnData {
	return g.Info.Turn
}

// TurnCounters returns the per-turn counters of the given side for the
// current turn.
func (g *GameState) TurnCounters(side Side) *TurnCounters {
	number := g.Info.Turn.Number
	if number < 1 {
		number = 1
	}
	return g.History.CountersForTurn(number, side)
}

// RecordUpdate appends an update to the animation buffer.
func (g *GameState) RecordUpdate(update GameUpdate) {
	g.Updates.Record(update)
}

// GameOver reports whether the game has ended.
func (g *GameState) GameOver() bool {
	return g.Info.Phase.Kind == PhaseGameOver
}

// cardsMatching returns pointers to all cards satisfying the predicate,
// ordered by sorting key so iteration order is the zone-entry order.
func (g *GameState) cardsMatching(pred func(*CardState) bool) []*CardState {
	var out []*CardState
	for _, side := range Sides {
		for i := range g.Cards[side] {
			card := &g.Cards[side][i]
			if pred(card) {
				out = append(out, card)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortingKey < out[j].SortingKey
	})
	return out
}

// Hand returns the cards in a side's hand in zone order.
func (g *GameState) Hand(side Side) []*CardState {
	return g.cardsMatching(func(c *CardState) bool {
		return c.Position.Kind == PositionHand && c.Position.Side == side
	})
}

// Deck returns the cards in a side's deck: the known top cards first, in
// reverse key order (most recently placed on top), then the unknown cards.
func (g *GameState) Deck(side Side) []*CardState {
	top := g.cardsMatching(func(c *CardState) bool {
		return c.Position.Kind == PositionDeckTop && c.Position.Side == side
	})
	// Most recently placed card is drawn first.
	for i, j := 0, len(top)-1; i < j; i, j = i+1, j-1 {
		top[i], top[j] = top[j], top[i]
	}
	unknown := g.cardsMatching(func(c *CardState) bool {
		return c.Position.Kind == PositionDeckUnknown && c.Position.Side == side
	})
	return append(top, unknown...)
}

// DiscardPile returns the cards in a side's discard pile in zone order.
func (g *GameState) DiscardPile(side Side) []*CardState {
	return g.cardsMatching(func(c *CardState) bool {
		return c.Position.Kind == PositionDiscardPile && c.Position.Side == side
	})
}

// Defenders returns the defenders of a room, innermost first. The last
// element is the outermost defender, which a raid encounters first.
func (g *GameState) Defenders(room RoomID) []*CardState {
	return g.cardsMatching(func(c *CardState) bool {
		return c.Position.DefenderOf(room)
	})
}

// Occupants returns the occupants of a room in zone order.
func (g *GameState) Occupants(room RoomID) []*CardState {
	return g.cardsMatching(func(c *CardState) bool {
		return c.Position.OccupantOf(room)
	})
}

// ArenaItems returns the Riftcaller's items in the given slot in zone order.
func (g *GameState) ArenaItems(slot ItemSlot) []*CardState {
	return g.cardsMatching(func(c *CardState) bool {
		return c.Position.Kind == PositionArenaItem && c.Position.Slot == slot
	})
}

// AllPermanents returns every in-play card in zone order.
func (g *GameState) AllPermanents() []*CardState {
	return g.cardsMatching(func(c *CardState) bool {
		return c.Position.InPlay()
	})
}

// AllCards returns every card of one side in index order.
func (g *GameState) AllCards(side Side) []*CardState {
	out := make([]*CardState, 0, len(g.Cards[side]))
	for i := range g.Cards[side] {
		out = append(out, &g.Cards[side][i])
	}
	return out
}
