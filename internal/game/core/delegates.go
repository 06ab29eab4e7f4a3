package core

// EventKind indicates the category of a game event delivered to delegates.
type EventKind string

const (
	// Turn events
	EventDawn      EventKind = "DAWN"
	EventDusk      EventKind = "DUSK"
	EventTurnBegin EventKind = "TURN_BEGIN"
	EventTurnEnd   EventKind = "TURN_END"

	// Card events
	EventCardPlayed             EventKind = "CARD_PLAYED"
	EventCardMoved              EventKind = "CARD_MOVED"
	EventCardMovedToDiscard     EventKind = "CARD_MOVED_TO_DISCARD_PILE"
	EventCardsDrawn             EventKind = "CARDS_DRAWN"
	EventWillDrawCards          EventKind = "WILL_DRAW_CARDS"
	EventDrawCardsViaAbility    EventKind = "DRAW_CARDS_VIA_ABILITY"
	EventCardScored             EventKind = "CARD_SCORED"
	EventCardRazed              EventKind = "CARD_RAZED"
	EventCardSacrificed         EventKind = "CARD_SACRIFICED"
	EventCardSummoned           EventKind = "CARD_SUMMONED"
	EventCardUnveiled           EventKind = "CARD_UNVEILED"
	EventWillDestroyCards       EventKind = "WILL_DESTROY_CARDS"
	EventCardsDestroyed         EventKind = "CARDS_DESTROYED"

	// Resource events
	EventManaGained               EventKind = "MANA_GAINED"
	EventManaLost                 EventKind = "MANA_LOST"
	EventManaLostToOpponentAbility EventKind = "MANA_LOST_TO_OPPONENT_ABILITY"
	EventActionPointsLost          EventKind = "ACTION_POINTS_LOST"
	EventActionPointsLostDuringRaid EventKind = "ACTION_POINTS_LOST_DURING_RAID"

	// Raid events
	EventRaidBegin       EventKind = "RAID_BEGIN"
	EventMinionApproach  EventKind = "MINION_APPROACH"
	EventMinionEncounter EventKind = "MINION_ENCOUNTER"
	EventMinionCombat    EventKind = "MINION_COMBAT_ABILITY"
	EventWeaponUsed      EventKind = "WEAPON_USED"
	EventMinionDefeated  EventKind = "MINION_DEFEATED"
	EventRoomApproach    EventKind = "ROOM_APPROACH"
	EventRoomAccessStart EventKind = "ROOM_ACCESS_START"
	EventRoomAccessEnd   EventKind = "ROOM_ACCESS_END"
	EventRaidSuccess     EventKind = "RAID_SUCCESS"
	EventRaidFailure     EventKind = "RAID_FAILURE"

	// Damage and status events
	EventWillDealDamage    EventKind = "WILL_DEAL_DAMAGE"
	EventDamageDealt       EventKind = "DAMAGE_DEALT"
	EventDamageReceived    EventKind = "DAMAGE_RECEIVED"
	EventWillReceiveCurses EventKind = "WILL_RECEIVE_CURSES"
	EventCurseReceived     EventKind = "CURSE_RECEIVED"
	EventCurseRemoved      EventKind = "CURSE_REMOVED"
	EventWillReceiveWounds EventKind = "WILL_RECEIVE_WOUNDS"
	EventWoundReceived     EventKind = "WOUND_RECEIVED"
	EventWillReceiveLeylines EventKind = "WILL_RECEIVE_LEYLINES"
	EventLeylineReceived     EventKind = "LEYLINE_RECEIVED"

	// Ability events
	EventAbilityActivated EventKind = "ABILITY_ACTIVATED"

	// Progress events
	EventRoomProgressed EventKind = "ROOM_PROGRESSED"
)

// QueryKind indicates the category of a value computation that delegates
// may transform.
type QueryKind string

const (
	QueryManaCost            QueryKind = "MANA_COST"
	QueryAbilityManaCost     QueryKind = "ABILITY_MANA_COST"
	QueryActionCost          QueryKind = "ACTION_COST"
	QueryBaseAttack          QueryKind = "BASE_ATTACK"
	QueryHealthValue         QueryKind = "HEALTH_VALUE"
	QueryShieldValue         QueryKind = "SHIELD_VALUE"
	QueryBreachValue         QueryKind = "BREACH_VALUE"
	QueryRazeCost            QueryKind = "RAZE_COST"
	QueryVaultAccessCount    QueryKind = "VAULT_ACCESS_COUNT"
	QuerySanctumAccessCount  QueryKind = "SANCTUM_ACCESS_COUNT"
	QueryStartOfTurnActions  QueryKind = "START_OF_TURN_ACTIONS"
	QueryMaximumHandSize     QueryKind = "MAXIMUM_HAND_SIZE"
	QueryCanPlayCard         QueryKind = "CAN_PLAY_CARD"
	QueryCanScoreAccessedCard QueryKind = "CAN_SCORE_ACCESSED_CARD"
	QueryCanSummon           QueryKind = "CAN_SUMMON"
	QueryCanInitiateRaid     QueryKind = "CAN_INITIATE_RAID"
	QueryCanProgressRoom     QueryKind = "CAN_PROGRESS_ROOM"
	QueryShowPrompt          QueryKind = "SHOW_PROMPT"
)

// Event is a state change delivered to delegates. Only the fields relevant
// to Kind are populated.
type Event struct {
	Kind    EventKind
	Side    Side
	Card    *CardID
	Ability *AbilityID
	Room    *RoomID
	RaidID  uint32
	Amount  int
	Flag    bool
	Cards   []CardID
}

// Query is a value computation offered to delegates for transformation.
// Weapon is set for shield-style queries that depend on the attacking
// weapon as well as the card itself.
type Query struct {
	Kind   QueryKind
	Side   Side
	Card   *CardID
	Ability *AbilityID
	Weapon *CardID
	Room   *RoomID
	RaidID uint32
	Data   uint32
}

// Scope identifies the ability whose delegate is being invoked.
type Scope struct {
	Ability AbilityID
}

// Card returns the card owning the scoped ability.
func (s Scope) Card() CardID {
	return s.Ability.Card
}

// Side returns the side owning the scoped ability.
func (s Scope) Side() Side {
	return s.Ability.Card.Side
}

// DelegateScope says in which zone a delegate is live. The delegate cache
// only indexes delegates whose scope matches their card's current position.
type DelegateScope int

const (
	// ScopeInPlay is live while the card is in play and face up.
	ScopeInPlay DelegateScope = iota
	// ScopeInPlayAnyFace is live while the card is in play, face up or down.
	ScopeInPlayAnyFace
	// ScopeInHand is live while the card is in its owner's hand.
	ScopeInHand
	// ScopeInDiscard is live while the card is in its owner's discard pile.
	ScopeInDiscard
	// ScopeAnywhere is always live.
	ScopeAnywhere
)

// Delegate is one card-bound handler. Delegates are the sole mechanism by
// which card abilities affect game state: engine mutation routines invoke
// events and queries at fixed hook points and delegates respond.
//
// A delegate is either an event delegate (EventKind and OnEvent set) or a
// query delegate (QueryKind and one transform set). Requirement, when
// non-nil, further filters invocations beyond the zone scope.
type Delegate struct {
	Scope       DelegateScope
	EventKind   EventKind
	Requirement func(g *GameState, s Scope, e *Event) bool
	OnEvent     func(g *GameState, s Scope, e *Event) error

	QueryKind       QueryKind
	QueryRequirement func(g *GameState, s Scope, q *Query) bool
	TransformInt     func(g *GameState, s Scope, q *Query, current int) int
	TransformFlag    func(g *GameState, s Scope, q *Query, current bool) bool
	TransformPrompt  func(g *GameState, s Scope, q *Query, current *GamePrompt) *GamePrompt
}

// IsEvent reports whether the delegate handles an event kind.
func (d *Delegate) IsEvent() bool {
	return d.EventKind != ""
}

// IsQuery reports whether the delegate transforms a query kind.
func (d *Delegate) IsQuery() bool {
	return d.QueryKind != ""
}

// CacheEntry locates one delegate for dispatch: the ability that owns it
// and its index within that ability's delegate list.
type CacheEntry struct {
	Ability  AbilityID
	Delegate int
}

// DelegateCache indexes live delegates by kind, in the order their cards
// entered their current zones. It is derived state: rebuilt on load and
// maintained incrementally on every position change.
type DelegateCache struct {
	Events  map[EventKind][]CacheEntry
	Queries map[QueryKind][]CacheEntry
}

// NewDelegateCache returns an empty cache.
func NewDelegateCache() DelegateCache {
	return DelegateCache{
		Events:  make(map[EventKind][]CacheEntry),
		Queries: make(map[QueryKind][]CacheEntry),
	}
}

// EventEntries returns the live delegates for an event kind in insertion
// order. The returned slice must not be mutated.
func (c *DelegateCache) EventEntries(kind EventKind) []CacheEntry {
	if c.Events == nil {
		return nil
	}
	return c.Events[kind]
}

// QueryEntries returns the live delegates for a query kind in insertion
// order. The returned slice must not be mutated.
func (c *DelegateCache) QueryEntries(kind QueryKind) []CacheEntry {
	if c.Queries == nil {
		return nil
	}
	return c.Queries[kind]
}

// AddEvent appends a cache entry for an event kind.
func (c *DelegateCache) AddEvent(kind EventKind, entry CacheEntry) {
	if c.Events == nil {
		c.Events = make(map[EventKind][]CacheEntry)
	}
	c.Events[kind] = append(c.Events[kind], entry)
}

// AddQuery appends a cache entry for a query kind.
func (c *DelegateCache) AddQuery(kind QueryKind, entry CacheEntry) {
	if c.Queries == nil {
		c.Queries = make(map[QueryKind][]CacheEntry)
	}
	c.Queries[kind] = append(c.Queries[kind], entry)
}

// RemoveCard strips every cache entry belonging to the given card.
func (c *DelegateCache) RemoveCard(id CardID) {
	for kind, entries := range c.Events {
		c.Events[kind] = removeCardEntries(entries, id)
	}
	for kind, entries := range c.Queries {
		c.Queries[kind] = removeCardEntries(entries, id)
	}
}

func removeCardEntries(entries []CacheEntry, id CardID) []CacheEntry {
	out := entries[:0]
	for _, e := range entries {
		if e.Ability.Card != id {
			out = append(out, e)
		}
	}
	return out
}

// Contains reports whether the cache holds an entry for the given card
// under the given event kind.
func (c *DelegateCache) Contains(kind EventKind, id CardID) bool {
	for _, e := range c.EventEntries(kind) {
		if e.Ability.Card == id {
			return true
		}
	}
	return false
}

// ContainsQuery reports whether the cache holds an entry for the given card
// under the given query kind.
func (c *DelegateCache) ContainsQuery(kind QueryKind, id CardID) bool {
	for _, e := range c.QueryEntries(kind) {
		if e.Ability.Card == id {
			return true
		}
	}
	return false
}
