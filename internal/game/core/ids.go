package core

import (
	"encoding/json"
	"fmt"
)

// Side identifies one of the two players. The Covenant defends its rooms;
// the Riftcaller raids them.
type Side int

const (
	SideCovenant Side = iota
	SideRiftcaller
)

var sideNames = map[Side]string{
	SideCovenant:   "covenant",
	SideRiftcaller: "riftcaller",
}

func (s Side) String() string {
	if name, ok := sideNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SIDE_%d", int(s))
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideCovenant {
		return SideRiftcaller
	}
	return SideCovenant
}

// Valid reports whether s is one of the two defined sides.
func (s Side) Valid() bool {
	return s == SideCovenant || s == SideRiftcaller
}

func (s Side) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Side) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	side, err := SideFromString(name)
	if err != nil {
		return err
	}
	*s = side
	return nil
}

// SideFromString parses a side name produced by String.
func SideFromString(name string) (Side, error) {
	for side, n := range sideNames {
		if n == name {
			return side, nil
		}
	}
	return SideCovenant, fmt.Errorf("unknown side %q", name)
}

// Sides lists both sides in a stable order.
var Sides = []Side{SideCovenant, SideRiftcaller}

// CardID identifies one card within a game. Ownership is static: the side
// component never changes, and the index addresses the owner's card vector.
type CardID struct {
	Side  Side `json:"side"`
	Index int  `json:"index"`
}

func NewCardID(side Side, index int) CardID {
	return CardID{Side: side, Index: index}
}

func (id CardID) String() string {
	return fmt.Sprintf("%s-%d", id.Side, id.Index)
}

// AbilityID identifies one ability on one card.
type AbilityID struct {
	Card  CardID `json:"card"`
	Index int    `json:"index"`
}

func NewAbilityID(card CardID, index int) AbilityID {
	return AbilityID{Card: card, Index: index}
}

func (id AbilityID) String() string {
	return fmt.Sprintf("%s/%d", id.Card, id.Index)
}

// RoomID identifies one of the Covenant's rooms. The three inner rooms
// shadow the Covenant's deck, hand, and discard pile; the five outer rooms
// hold schemes, projects, and minion defenders.
type RoomID int

const (
	RoomVault RoomID = iota
	RoomSanctum
	RoomCrypt
	RoomA
	RoomB
	RoomC
	RoomD
	RoomE
)

var roomNames = map[RoomID]string{
	RoomVault:   "vault",
	RoomSanctum: "sanctum",
	RoomCrypt:   "crypt",
	RoomA:       "room_a",
	RoomB:       "room_b",
	RoomC:       "room_c",
	RoomD:       "room_d",
	RoomE:       "room_e",
}

func (r RoomID) String() string {
	if name, ok := roomNames[r]; ok {
		return name
	}
	return fmt.Sprintf("ROOM_%d", int(r))
}

// IsInner reports whether r is one of the Vault, Sanctum, or Crypt.
func (r RoomID) IsInner() bool {
	return r == RoomVault || r == RoomSanctum || r == RoomCrypt
}

// IsOuter reports whether r is one of the five outer rooms.
func (r RoomID) IsOuter() bool {
	return r >= RoomA && r <= RoomE
}

// Valid reports whether r names a defined room.
func (r RoomID) Valid() bool {
	return r >= RoomVault && r <= RoomE
}

func (r RoomID) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *RoomID) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for room, n := range roomNames {
		if n == name {
			*r = room
			return nil
		}
	}
	return fmt.Errorf("unknown room %q", name)
}

// InnerRooms lists the three inner rooms in a stable order.
var InnerRooms = []RoomID{RoomVault, RoomSanctum, RoomCrypt}

// OuterRooms lists the five outer rooms in a stable order.
var OuterRooms = []RoomID{RoomA, RoomB, RoomC, RoomD, RoomE}

// AllRooms lists every room in a stable order.
var AllRooms = []RoomID{RoomVault, RoomSanctum, RoomCrypt, RoomA, RoomB, RoomC, RoomD, RoomE}

// ItemSlot identifies one of the Riftcaller's arena item columns.
type ItemSlot int

const (
	SlotWeapons ItemSlot = iota
	SlotArtifacts
	SlotEvocations
	SlotAllies
)

var slotNames = map[ItemSlot]string{
	SlotWeapons:    "weapons",
	SlotArtifacts:  "artifacts",
	SlotEvocations: "evocations",
	SlotAllies:     "allies",
}

func (s ItemSlot) String() string {
	if name, ok := slotNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SLOT_%d", int(s))
}
