package core

import "fmt"

// UserActionKind enumerates every action a player can submit.
type UserActionKind string

const (
	ActionGainMana           UserActionKind = "GAIN_MANA"
	ActionDrawCard           UserActionKind = "DRAW_CARD"
	ActionProgressRoom       UserActionKind = "PROGRESS_ROOM"
	ActionInitiateRaid       UserActionKind = "INITIATE_RAID"
	ActionPlayCard           UserActionKind = "PLAY_CARD"
	ActionActivateAbility    UserActionKind = "ACTIVATE_ABILITY"
	ActionSummonProject      UserActionKind = "SUMMON_PROJECT"
	ActionRemoveCurse        UserActionKind = "REMOVE_CURSE"
	ActionDispelEvocation    UserActionKind = "DISPEL_EVOCATION"
	ActionMulliganDecision   UserActionKind = "MULLIGAN_DECISION"
	ActionStartTurn          UserActionKind = "START_TURN"
	ActionEndTurn            UserActionKind = "END_TURN"
	ActionResign             UserActionKind = "RESIGN"
	ActionRaidChoice         UserActionKind = "RAID_CHOICE"
	ActionPromptChoice       UserActionKind = "PROMPT_CHOICE"
	ActionCardSelectorSubmit UserActionKind = "CARD_SELECTOR_SUBMIT"
	ActionSkipPlayingCard    UserActionKind = "SKIP_PLAYING_CARD"
	ActionRoomSelect         UserActionKind = "ROOM_SELECT"
)

// UserAction is one submitted player action. Only the fields implied by
// Kind are meaningful; the zero value of the rest is ignored.
type UserAction struct {
	Kind     UserActionKind    `json:"kind"`
	Card     *CardID           `json:"card,omitempty"`
	Ability  *AbilityID        `json:"ability,omitempty"`
	Room     *RoomID           `json:"room,omitempty"`
	Target   *PlayTarget       `json:"target,omitempty"`
	Index    int               `json:"index,omitempty"`
	Cards    []CardID          `json:"cards,omitempty"`
	Mulligan *MulliganDecision `json:"mulligan,omitempty"`
}

func GainManaAction() UserAction {
	return UserAction{Kind: ActionGainMana}
}

func DrawCardAction() UserAction {
	return UserAction{Kind: ActionDrawCard}
}

func ProgressRoomAction(room RoomID) UserAction {
	return UserAction{Kind: ActionProgressRoom, Room: &room}
}

func InitiateRaidAction(room RoomID) UserAction {
	return UserAction{Kind: ActionInitiateRaid, Room: &room}
}

func PlayCardAction(card CardID, target PlayTarget) UserAction {
	return UserAction{Kind: ActionPlayCard, Card: &card, Target: &target}
}

func ActivateAbilityAction(ability AbilityID, target PlayTarget) UserAction {
	return UserAction{Kind: ActionActivateAbility, Ability: &ability, Target: &target}
}

func SummonProjectAction(card CardID) UserAction {
	return UserAction{Kind: ActionSummonProject, Card: &card}
}

func RemoveCurseAction() UserAction {
	return UserAction{Kind: ActionRemoveCurse}
}

func DispelEvocationAction(card CardID) UserAction {
	return UserAction{Kind: ActionDispelEvocation, Card: &card}
}

func MulliganDecisionAction(decision MulliganDecision) UserAction {
	return UserAction{Kind: ActionMulliganDecision, Mulligan: &decision}
}

func StartTurnAction() UserAction {
	return UserAction{Kind: ActionStartTurn}
}

func EndTurnAction() UserAction {
	return UserAction{Kind: ActionEndTurn}
}

func ResignAction() UserAction {
	return UserAction{Kind: ActionResign}
}

func RaidChoiceAction(index int) UserAction {
	return UserAction{Kind: ActionRaidChoice, Index: index}
}

func PromptChoiceAction(index int) UserAction {
	return UserAction{Kind: ActionPromptChoice, Index: index}
}

func CardSelectorSubmitAction(cards []CardID) UserAction {
	return UserAction{Kind: ActionCardSelectorSubmit, Cards: cards}
}

func SkipPlayingCardAction() UserAction {
	return UserAction{Kind: ActionSkipPlayingCard}
}

func RoomSelectAction(room RoomID) UserAction {
	return UserAction{Kind: ActionRoomSelect, Room: &room}
}

func (a UserAction) String() string {
	switch a.Kind {
	case ActionProgressRoom, ActionInitiateRaid, ActionRoomSelect:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Room)
	case ActionPlayCard:
		return fmt.Sprintf("%s(%s,%s)", a.Kind, a.Card, a.Target)
	case ActionActivateAbility:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Ability)
	case ActionSummonProject, ActionDispelEvocation:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Card)
	case ActionMulliganDecision:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Mulligan)
	case ActionRaidChoice, ActionPromptChoice:
		return fmt.Sprintf("%s(%d)", a.Kind, a.Index)
	default:
		return string(a.Kind)
	}
}

// Equal compares two actions field by field. Used by legal-action tests
// and by hosts that de-duplicate proposed actions.
func (a UserAction) Equal(b UserAction) bool {
	if a.Kind != b.Kind || a.Index != b.Index {
		return false
	}
	if (a.Card == nil) != (b.Card == nil) || (a.Card != nil && *a.Card != *b.Card) {
		return false
	}
	if (a.Ability == nil) != (b.Ability == nil) || (a.Ability != nil && *a.Ability != *b.Ability) {
		return false
	}
	if (a.Room == nil) != (b.Room == nil) || (a.Room != nil && *a.Room != *b.Room) {
		return false
	}
	if (a.Target == nil) != (b.Target == nil) || (a.Target != nil && *a.Target != *b.Target) {
		return false
	}
	if (a.Mulligan == nil) != (b.Mulligan == nil) || (a.Mulligan != nil && *a.Mulligan != *b.Mulligan) {
		return false
	}
	if len(a.Cards) != len(b.Cards) {
		return false
	}
	for i := range a.Cards {
		if a.Cards[i] != b.Cards[i] {
			return false
		}
	}
	return true
}
