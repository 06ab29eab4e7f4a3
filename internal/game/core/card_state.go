package core

import "fmt"

// CardVariant is a key into the card definition registry.
type CardVariant string

// CounterKind enumerates the counters a card can carry while in play.
type CounterKind int

const (
	CounterProgress CounterKind = iota
	CounterStoredMana
	CounterPowerCharges
)

var counterNames = map[CounterKind]string{
	CounterProgress:     "progress",
	CounterStoredMana:   "stored_mana",
	CounterPowerCharges: "power_charges",
}

func (k CounterKind) String() string {
	if name, ok := counterNames[k]; ok {
		return name
	}
	return fmt.Sprintf("COUNTER_%d", int(k))
}

// CardCounters holds the counter totals for one card.
type CardCounters struct {
	Progress     int `json:"progress,omitempty"`
	StoredMana   int `json:"stored_mana,omitempty"`
	PowerCharges int `json:"power_charges,omitempty"`
}

func (c CardCounters) Get(kind CounterKind) int {
	switch kind {
	case CounterProgress:
		return c.Progress
	case CounterStoredMana:
		return c.StoredMana
	case CounterPowerCharges:
		return c.PowerCharges
	}
	return 0
}

func (c *CardCounters) Add(kind CounterKind, amount int) {
	switch kind {
	case CounterProgress:
		c.Progress += amount
	case CounterStoredMana:
		c.StoredMana += amount
	case CounterPowerCharges:
		c.PowerCharges += amount
	}
}

// CardFactKind tags one entry in a card's custom state.
type CardFactKind int

const (
	FactTargetRoom CardFactKind = iota
	FactBoostCount
	FactPaidForEnhancement
)

// CardFact is one tagged per-card fact recorded during resolution, for
// example the room a spell was aimed at or how many times a weapon was
// boosted this raid.
type CardFact struct {
	Kind   CardFactKind `json:"kind"`
	Room   RoomID       `json:"room,omitempty"`
	Amount int          `json:"amount,omitempty"`
	RaidID uint32       `json:"raid_id,omitempty"`
}

// CustomCardState is the ordered list of facts recorded on one card.
type CustomCardState []CardFact

// TargetRoom returns the most recently recorded target room, if any.
func (s CustomCardState) TargetRoom() (RoomID, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].Kind == FactTargetRoom {
			return s[i].Room, true
		}
	}
	return 0, false
}

// BoostCount sums the boost activations recorded for the given raid.
func (s CustomCardState) BoostCount(raidID uint32) int {
	total := 0
	for _, fact := range s {
		if fact.Kind == FactBoostCount && fact.RaidID == raidID {
			total += fact.Amount
		}
	}
	return total
}

// PaidForEnhancement reports whether an enhancement payment was recorded
// for the given raid.
func (s CustomCardState) PaidForEnhancement(raidID uint32) bool {
	for _, fact := range s {
		if fact.Kind == FactPaidForEnhancement && fact.RaidID == raidID {
			return true
		}
	}
	return false
}

// CardState is the complete mutable state of one card. Position changes
// must go through the rules layer so sorting keys, visibility, and the
// delegate cache stay consistent.
type CardState struct {
	ID                 CardID          `json:"id"`
	Variant            CardVariant     `json:"variant"`
	Position           CardPosition    `json:"position"`
	SortingKey         uint64          `json:"sorting_key"`
	Counters           CardCounters    `json:"counters"`
	LastKnownCounters  CardCounters    `json:"last_known_counters"`
	FaceUp             bool            `json:"face_up"`
	RevealedToOwner    bool            `json:"revealed_to_owner"`
	RevealedToOpponent bool            `json:"revealed_to_opponent"`
	Custom             CustomCardState `json:"custom,omitempty"`
}

// Side returns the owning side. Ownership never changes.
func (c *CardState) Side() Side {
	return c.ID.Side
}

// InPlay reports whether the card is on the board.
func (c *CardState) InPlay() bool {
	return c.Position.InPlay()
}

// Counter returns the live value of one counter. Counters are only
// observable while the card is in play; off the board the live value is
// zero and the last-known value is retained separately.
func (c *CardState) Counter(kind CounterKind) int {
	if !c.InPlay() {
		return 0
	}
	return c.Counters.Get(kind)
}

// LastKnownCounter returns the retained value of one counter from the last
// time the card was in play.
func (c *CardState) LastKnownCounter(kind CounterKind) int {
	return c.LastKnownCounters.Get(kind)
}

// AddCounters adds to a counter total. Negative amounts clamp at zero.
func (c *CardState) AddCounters(kind CounterKind, amount int) {
	c.Counters.Add(kind, amount)
	if c.Counters.Get(kind) < 0 {
		c.Counters.Add(kind, -c.Counters.Get(kind))
	}
}

// RevealedTo reports whether the given side can see the card's face.
func (c *CardState) RevealedTo(side Side) bool {
	if side == c.Side() {
		return c.RevealedToOwner
	}
	return c.RevealedToOpponent
}

// SetRevealed marks the card's face visible to the given side.
func (c *CardState) SetRevealed(side Side, revealed bool) {
	if side == c.Side() {
		c.RevealedToOwner = revealed
	} else {
		c.RevealedToOpponent = revealed
	}
}

// RecordFact appends one custom-state fact.
func (c *CardState) RecordFact(fact CardFact) {
	c.Custom = append(c.Custom, fact)
}

// ClearState resets counters and custom state, retaining nothing. Used when
// a card is played again from hand or deck.
func (c *CardState) ClearState() {
	c.Counters = CardCounters{}
	c.LastKnownCounters = CardCounters{}
	c.Custom = nil
}
