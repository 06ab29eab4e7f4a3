package core

import "fmt"

// PositionKind enumerates the zones a card can occupy.
type PositionKind int

const (
	PositionDeckUnknown PositionKind = iota
	PositionDeckTop
	PositionHand
	PositionRoom
	PositionArenaItem
	PositionDiscardPile
	PositionScoring
	PositionScored
	PositionPlayed
	PositionRiftcaller
	PositionChapter
	PositionGameModifier
)

var positionKindNames = map[PositionKind]string{
	PositionDeckUnknown:  "deck_unknown",
	PositionDeckTop:      "deck_top",
	PositionHand:         "hand",
	PositionRoom:         "room",
	PositionArenaItem:    "arena_item",
	PositionDiscardPile:  "discard_pile",
	PositionScoring:      "scoring",
	PositionScored:       "scored",
	PositionPlayed:       "played",
	PositionRiftcaller:   "riftcaller",
	PositionChapter:      "chapter",
	PositionGameModifier: "game_modifier",
}

func (k PositionKind) String() string {
	if name, ok := positionKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("POSITION_%d", int(k))
}

// RoomRole distinguishes the two kinds of room placement.
type RoomRole int

const (
	RoleDefender RoomRole = iota
	RoleOccupant
)

func (r RoomRole) String() string {
	if r == RoleDefender {
		return "defender"
	}
	return "occupant"
}

// PlayTargetKind enumerates the targets a card can be played toward.
type PlayTargetKind int

const (
	TargetNone PlayTargetKind = iota
	TargetRoom
)

// PlayTarget is the placement request attached to a play-card action. Cards
// that live in a room require a room target; all other cards take none.
type PlayTarget struct {
	Kind PlayTargetKind `json:"kind"`
	Room RoomID         `json:"room,omitempty"`
}

func NoTarget() PlayTarget {
	return PlayTarget{Kind: TargetNone}
}

func RoomTarget(room RoomID) PlayTarget {
	return PlayTarget{Kind: TargetRoom, Room: room}
}

func (t PlayTarget) String() string {
	if t.Kind == TargetRoom {
		return t.Room.String()
	}
	return "none"
}

// CardPosition locates a card in exactly one zone. Only the fields implied
// by Kind are meaningful; the rest stay at their zero values so positions
// compare with ==.
type CardPosition struct {
	Kind   PositionKind `json:"kind"`
	Side   Side         `json:"side,omitempty"`
	Room   RoomID       `json:"room,omitempty"`
	Role   RoomRole     `json:"role,omitempty"`
	Slot   ItemSlot     `json:"slot,omitempty"`
	Target PlayTarget   `json:"target,omitempty"`
}

func DeckUnknownPosition(side Side) CardPosition {
	return CardPosition{Kind: PositionDeckUnknown, Side: side}
}

func DeckTopPosition(side Side) CardPosition {
	return CardPosition{Kind: PositionDeckTop, Side: side}
}

func HandPosition(side Side) CardPosition {
	return CardPosition{Kind: PositionHand, Side: side}
}

func RoomPosition(room RoomID, role RoomRole) CardPosition {
	return CardPosition{Kind: PositionRoom, Room: room, Role: role}
}

func ArenaItemPosition(slot ItemSlot) CardPosition {
	return CardPosition{Kind: PositionArenaItem, Slot: slot}
}

func DiscardPosition(side Side) CardPosition {
	return CardPosition{Kind: PositionDiscardPile, Side: side}
}

func ScoringPosition() CardPosition {
	return CardPosition{Kind: PositionScoring}
}

func ScoredPosition(side Side) CardPosition {
	return CardPosition{Kind: PositionScored, Side: side}
}

func PlayedPosition(side Side, target PlayTarget) CardPosition {
	return CardPosition{Kind: PositionPlayed, Side: side, Target: target}
}

func RiftcallerPosition(side Side) CardPosition {
	return CardPosition{Kind: PositionRiftcaller, Side: side}
}

func ChapterPosition(side Side) CardPosition {
	return CardPosition{Kind: PositionChapter, Side: side}
}

func GameModifierPosition() CardPosition {
	return CardPosition{Kind: PositionGameModifier}
}

// InPlay reports whether the position is on the board: a room, an arena
// item column, or one of the identity zones.
func (p CardPosition) InPlay() bool {
	switch p.Kind {
	case PositionRoom, PositionArenaItem, PositionRiftcaller, PositionChapter:
		return true
	}
	return false
}

// InDeck reports whether the position is inside a deck.
func (p CardPosition) InDeck() bool {
	return p.Kind == PositionDeckUnknown || p.Kind == PositionDeckTop
}

// InHand reports whether the position is in a hand.
func (p CardPosition) InHand() bool {
	return p.Kind == PositionHand
}

// InDiscard reports whether the position is in a discard pile.
func (p CardPosition) InDiscard() bool {
	return p.Kind == PositionDiscardPile
}

// InRoom reports whether the card sits in the given room with the given role.
func (p CardPosition) InRoom(room RoomID, role RoomRole) bool {
	return p.Kind == PositionRoom && p.Room == room && p.Role == role
}

// DefenderOf reports whether the card defends the given room.
func (p CardPosition) DefenderOf(room RoomID) bool {
	return p.InRoom(room, RoleDefender)
}

// OccupantOf reports whether the card occupies the given room.
func (p CardPosition) OccupantOf(room RoomID) bool {
	return p.InRoom(room, RoleOccupant)
}

func (p CardPosition) String() string {
	switch p.Kind {
	case PositionDeckUnknown, PositionDeckTop, PositionHand, PositionDiscardPile,
		PositionScored, PositionRiftcaller, PositionChapter:
		return fmt.Sprintf("%s(%s)", p.Kind, p.Side)
	case PositionRoom:
		return fmt.Sprintf("room(%s,%s)", p.Room, p.Role)
	case PositionArenaItem:
		return fmt.Sprintf("arena_item(%s)", p.Slot)
	case PositionPlayed:
		return fmt.Sprintf("played(%s,%s)", p.Side, p.Target)
	default:
		return p.Kind.String()
	}
}
