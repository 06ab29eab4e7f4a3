package core

import "fmt"

// GameEffectKind enumerates the atomic effects a prompt choice can carry.
type GameEffectKind int

const (
	EffectContinue GameEffectKind = iota
	EffectPayMana
	EffectPayActions
	EffectGainMana
	EffectTakeDamageCost
	EffectSacrificeCard
	EffectDestroyCard
	EffectMoveCard
	EffectDrawCards
	EffectPreventDamage
	EffectPreventCurse
	EffectPreventDestroy
	EffectEndRaid
	EffectProgressCard
	EffectCancelPlay
)

var effectNames = map[GameEffectKind]string{
	EffectContinue:       "continue",
	EffectPayMana:        "pay_mana",
	EffectPayActions:     "pay_actions",
	EffectGainMana:       "gain_mana",
	EffectTakeDamageCost: "take_damage",
	EffectSacrificeCard:  "sacrifice_card",
	EffectDestroyCard:    "destroy_card",
	EffectMoveCard:       "move_card",
	EffectDrawCards:      "draw_cards",
	EffectPreventDamage:  "prevent_damage",
	EffectPreventCurse:   "prevent_curse",
	EffectPreventDestroy: "prevent_destroy",
	EffectEndRaid:        "end_raid",
	EffectProgressCard:   "progress_card",
	EffectCancelPlay:     "cancel_play",
}

func (k GameEffectKind) String() string {
	if name, ok := effectNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EFFECT_%d", int(k))
}

// IsCost reports whether the effect represents a cost the player must be
// able to pay for the containing choice to be offered.
func (k GameEffectKind) IsCost() bool {
	switch k {
	case EffectPayMana, EffectPayActions, EffectTakeDamageCost, EffectSacrificeCard:
		return true
	}
	return false
}

// GameEffect is one atomic effect applied when a prompt choice resolves.
// Only the fields implied by Kind are meaningful.
type GameEffect struct {
	Kind     GameEffectKind `json:"kind"`
	Side     Side           `json:"side,omitempty"`
	Card     *CardID        `json:"card,omitempty"`
	Amount   int            `json:"amount,omitempty"`
	Position *CardPosition  `json:"position,omitempty"`
}

// PromptChoice is one button in a button prompt. Effects apply in order
// when the choice is taken; cost-kind effects double as payability checks.
type PromptChoice struct {
	Label   string       `json:"label"`
	Effects []GameEffect `json:"effects"`
	Anchor  *CardID      `json:"anchor,omitempty"`
}

// CostEffects returns the cost-kind effects of the choice.
func (c PromptChoice) CostEffects() []GameEffect {
	var costs []GameEffect
	for _, e := range c.Effects {
		if e.Kind.IsCost() {
			costs = append(costs, e)
		}
	}
	return costs
}

// IsContinueOnly reports whether the choice does nothing beyond advancing.
func (c PromptChoice) IsContinueOnly() bool {
	for _, e := range c.Effects {
		if e.Kind != EffectContinue {
			return false
		}
	}
	return true
}

// PromptContextKind labels why a prompt is being shown, for client display.
type PromptContextKind int

const (
	ContextGeneric PromptContextKind = iota
	ContextSacrificeToMakeRoom
	ContextSacrificeToPrevent
	ContextCardLimit
	ContextDiscardToHandSize
	ContextChooseTarget
)

// PromptContext carries the display context for a prompt.
type PromptContext struct {
	Kind PromptContextKind `json:"kind"`
	Card *CardID           `json:"card,omitempty"`
}

// GamePromptKind enumerates the prompt shapes.
type GamePromptKind int

const (
	PromptButtons GamePromptKind = iota
	PromptCardSelector
	PromptPlayCardBrowser
	PromptPriority
	PromptRoomSelector
)

var promptKindNames = map[GamePromptKind]string{
	PromptButtons:         "buttons",
	PromptCardSelector:    "card_selector",
	PromptPlayCardBrowser: "play_card_browser",
	PromptPriority:        "priority",
	PromptRoomSelector:    "room_selector",
}

func (k GamePromptKind) String() string {
	if name, ok := promptKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("PROMPT_%d", int(k))
}

// CardSelectorTarget says where cards chosen in a selector end up.
type CardSelectorTarget struct {
	Position CardPosition `json:"position"`
}

// CardSelectorValidation constrains how many cards a selector accepts.
type CardSelectorValidation struct {
	Exactly *int `json:"exactly,omitempty"`
	AtMost  *int `json:"at_most,omitempty"`
}

// Valid reports whether choosing count cards satisfies the validation.
func (v CardSelectorValidation) Valid(count int) bool {
	if v.Exactly != nil && count != *v.Exactly {
		return false
	}
	if v.AtMost != nil && count > *v.AtMost {
		return false
	}
	return true
}

// CardSelectorData is a drag-select prompt over a set of cards.
type CardSelectorData struct {
	Unchosen   []CardID               `json:"unchosen"`
	Chosen     []CardID               `json:"chosen"`
	Target     CardSelectorTarget     `json:"target"`
	Validation CardSelectorValidation `json:"validation"`
}

// PlayCardBrowserData offers a set of cards of which one may be played.
type PlayCardBrowserData struct {
	Cards          []CardID         `json:"cards"`
	UnplayedTarget *CardPosition    `json:"unplayed_target,omitempty"`
	Source         *AbilityID       `json:"source,omitempty"`
}

// RoomSelectorData asks the player to pick a room.
type RoomSelectorData struct {
	ValidRooms []RoomID          `json:"valid_rooms"`
	Context    PromptContextKind `json:"context"`
	Effect     RoomSelectorEffect `json:"effect"`
}

// RoomSelectorEffect says what happens to the selected room.
type RoomSelectorEffect int

const (
	RoomEffectProgressRoom RoomSelectorEffect = iota
	RoomEffectInitiateRaid
)

// GamePrompt is a suspended user decision. Exactly one of the variant
// payloads is populated, according to Kind.
type GamePrompt struct {
	Kind     GamePromptKind       `json:"kind"`
	Context  PromptContext        `json:"context"`
	Choices  []PromptChoice       `json:"choices,omitempty"`
	Selector *CardSelectorData    `json:"selector,omitempty"`
	Browser  *PlayCardBrowserData `json:"browser,omitempty"`
	Rooms    *RoomSelectorData    `json:"rooms,omitempty"`
}

// ButtonPrompt builds a button prompt.
func ButtonPrompt(context PromptContext, choices []PromptChoice) *GamePrompt {
	return &GamePrompt{Kind: PromptButtons, Context: context, Choices: choices}
}

// AbilityPromptSource ties a queued prompt back to the ability that pushed
// it. When the entry surfaces, the ability is re-queried so stale prompts
// can cancel themselves.
type AbilityPromptSource struct {
	Ability AbilityID `json:"ability"`
	Data    uint32    `json:"data,omitempty"`
}

// PromptEntry is one element of a player's prompt stack.
type PromptEntry struct {
	Prompt *GamePrompt          `json:"prompt"`
	Source *AbilityPromptSource `json:"source,omitempty"`
}

// PromptStack is a per-player LIFO of pending decisions. Only the top entry
// is ever visible to the player.
type PromptStack struct {
	Entries []PromptEntry `json:"entries,omitempty"`
}

// Push adds an entry to the top of the stack.
func (s *PromptStack) Push(entry PromptEntry) {
	s.Entries = append(s.Entries, entry)
}

// Top returns the topmost entry without removing it.
func (s *PromptStack) Top() *PromptEntry {
	if len(s.Entries) == 0 {
		return nil
	}
	return &s.Entries[len(s.Entries)-1]
}

// Pop removes and returns the topmost entry.
func (s *PromptStack) Pop() *PromptEntry {
	if len(s.Entries) == 0 {
		return nil
	}
	entry := s.Entries[len(s.Entries)-1]
	s.Entries = s.Entries[:len(s.Entries)-1]
	return &entry
}

// Empty reports whether the stack has no entries.
func (s *PromptStack) Empty() bool {
	return len(s.Entries) == 0
}
