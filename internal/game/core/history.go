package core

import "fmt"

// HistoryEventKind enumerates the recordable happenings of a turn.
type HistoryEventKind int

const (
	HistoryGainMana HistoryEventKind = iota
	HistoryDrawCardAction
	HistoryCardPlayed
	HistoryAbilityActivated
	HistoryCardsDrawn
	HistoryCardsDrawnViaAbility
	HistoryDamageReceived
	HistoryCurseReceived
	HistoryWoundReceived
	HistoryLeylineReceived
	HistoryCardScored
	HistoryCardRazed
	HistoryCardSacrificed
	HistoryCardsDestroyed
	HistoryRaidInitiated
	HistoryMinionSummoned
	HistoryMinionApproached
	HistoryMinionDefeated
	HistoryRoomAccessed
	HistoryRaidSuccess
	HistoryRaidFailure
	HistoryRoomProgressed
)

var historyEventNames = map[HistoryEventKind]string{
	HistoryGainMana:             "gain_mana",
	HistoryDrawCardAction:       "draw_card_action",
	HistoryCardPlayed:           "card_played",
	HistoryAbilityActivated:     "ability_activated",
	HistoryCardsDrawn:           "cards_drawn",
	HistoryCardsDrawnViaAbility: "cards_drawn_via_ability",
	HistoryDamageReceived:       "damage_received",
	HistoryCurseReceived:        "curse_received",
	HistoryWoundReceived:        "wound_received",
	HistoryLeylineReceived:      "leyline_received",
	HistoryCardScored:           "card_scored",
	HistoryCardRazed:            "card_razed",
	HistoryCardSacrificed:       "card_sacrificed",
	HistoryCardsDestroyed:       "cards_destroyed",
	HistoryRaidInitiated:        "raid_initiated",
	HistoryMinionSummoned:       "minion_summoned",
	HistoryMinionApproached:     "minion_approached",
	HistoryMinionDefeated:       "minion_defeated",
	HistoryRoomAccessed:         "room_accessed",
	HistoryRaidSuccess:          "raid_success",
	HistoryRaidFailure:          "raid_failure",
	HistoryRoomProgressed:       "room_progressed",
}

func (k HistoryEventKind) String() string {
	if name, ok := historyEventNames[k]; ok {
		return name
	}
	return fmt.Sprintf("HISTORY_%d", int(k))
}

// HistoryEvent is one recorded happening.
type HistoryEvent struct {
	Kind   HistoryEventKind `json:"kind"`
	Side   Side             `json:"side"`
	Card   *CardID          `json:"card,omitempty"`
	Room   *RoomID          `json:"room,omitempty"`
	Amount int              `json:"amount,omitempty"`
}

// HistoryEntry ties an event to the turn it happened in.
type HistoryEntry struct {
	Turn  TurnData     `json:"turn"`
	Event HistoryEvent `json:"event"`
}

// TurnCounters are the per-turn, per-side tallies delegates consult for
// "first/nth time this turn" conditions.
type TurnCounters struct {
	ManaGained             int `json:"mana_gained,omitempty"`
	CardsDrawn             int `json:"cards_drawn,omitempty"`
	CardsDrawnViaAbilities int `json:"cards_drawn_via_abilities,omitempty"`
	CardsPlayed            int `json:"cards_played,omitempty"`
	AbilitiesActivated     int `json:"abilities_activated,omitempty"`
	CursesReceived         int `json:"curses_received,omitempty"`
	WoundsReceived         int `json:"wounds_received,omitempty"`
	LeylinesReceived       int `json:"leylines_received,omitempty"`
	DamageReceived         int `json:"damage_received,omitempty"`
	SchemesScored          int `json:"schemes_scored,omitempty"`
	RoomsAccessed          int `json:"rooms_accessed,omitempty"`
	RaidsInitiated         int `json:"raids_initiated,omitempty"`
	MinionsSummoned        int `json:"minions_summoned,omitempty"`
	MinionsApproached      int `json:"minions_approached,omitempty"`
	MinionsDefeated        int `json:"minions_defeated,omitempty"`
	RoomsProgressed        int `json:"rooms_progressed,omitempty"`
}

// SideCounters holds both sides' counters for one turn.
type SideCounters struct {
	Covenant   TurnCounters `json:"covenant"`
	Riftcaller TurnCounters `json:"riftcaller"`
}

// ForSide returns the counters of one side.
func (s *SideCounters) ForSide(side Side) *TurnCounters {
	if side == SideCovenant {
		return &s.Covenant
	}
	return &s.Riftcaller
}

// HistoryData is the committed per-turn event log plus pending events
// accumulated during the current action. Pending events become visible to
// delegates only after WriteEvents runs at action end, so a card text like
// "the first time each turn you draw" never observes its own trigger.
type HistoryData struct {
	Entries  []HistoryEntry `json:"entries,omitempty"`
	Pending  []HistoryEvent `json:"pending,omitempty"`
	Counters []SideCounters `json:"counters,omitempty"`
}

// AddEvent queues an event for commit at the end of the current action.
func (h *HistoryData) AddEvent(event HistoryEvent) {
	h.Pending = append(h.Pending, event)
}

// WriteEvents flushes pending events into the committed log for the given
// turn. Called once by the action gateway after resolution settles.
func (h *HistoryData) WriteEvents(turn TurnData) {
	for _, event := range h.Pending {
		h.Entries = append(h.Entries, HistoryEntry{Turn: turn, Event: event})
	}
	h.Pending = nil
}

// ForTurn returns the committed events of the given turn number.
func (h *HistoryData) ForTurn(number int) []HistoryEvent {
	var out []HistoryEvent
	for _, entry := range h.Entries {
		if entry.Turn.Number == number {
			out = append(out, entry.Event)
		}
	}
	return out
}

// CountersForTurn returns the counters of the given turn number and side,
// growing storage as turns advance. Turn numbers are 1-based.
func (h *HistoryData) CountersForTurn(number int, side Side) *TurnCounters {
	for number > len(h.Counters) {
		h.Counters = append(h.Counters, SideCounters{})
	}
	return h.Counters[number-1].ForSide(side)
}
