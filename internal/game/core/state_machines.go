package core

import "fmt"

// PlayCardStep is the resumable position within a play-card resolution.
type PlayCardStep int

const (
	PlayCardBegin PlayCardStep = iota
	PlayCardCheckLimits
	PlayCardClearPreviousState
	PlayCardAddToHistory
	PlayCardMoveToPlayedPosition
	PlayCardPayActionPoints
	PlayCardApplyPlayCardBrowser
	PlayCardPayManaCost
	PlayCardPayCustomCost
	PlayCardTurnFaceUp
	PlayCardMoveToTargetPosition
	PlayCardFinish
)

var playCardStepNames = map[PlayCardStep]string{
	PlayCardBegin:                "begin",
	PlayCardCheckLimits:          "check_limits",
	PlayCardClearPreviousState:   "clear_previous_state",
	PlayCardAddToHistory:         "add_to_history",
	PlayCardMoveToPlayedPosition: "move_to_played_position",
	PlayCardPayActionPoints:      "pay_action_points",
	PlayCardApplyPlayCardBrowser: "apply_play_card_browser",
	PlayCardPayManaCost:          "pay_mana_cost",
	PlayCardPayCustomCost:        "pay_custom_cost",
	PlayCardTurnFaceUp:           "turn_face_up",
	PlayCardMoveToTargetPosition: "move_to_target_position",
	PlayCardFinish:               "finish",
}

func (s PlayCardStep) String() string {
	if name, ok := playCardStepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("PLAY_CARD_STEP_%d", int(s))
}

// PlayCardMachine resolves playing one card from hand.
type PlayCardMachine struct {
	Order    uint64       `json:"order"`
	Step     PlayCardStep `json:"step"`
	Card     CardID       `json:"card"`
	Target   PlayTarget   `json:"target"`
	// From records the card's position when the action was submitted, for
	// refunds when a limit prompt is cancelled.
	From CardPosition `json:"from"`
	// ViaBrowser marks plays initiated from a play-card browser prompt.
	ViaBrowser bool `json:"via_browser,omitempty"`
	// Cancelled is set when the player declines a limit prompt; the machine
	// unwinds without paying costs.
	Cancelled bool `json:"cancelled,omitempty"`
}

// ActivateAbilityStep is the resumable position within an ability
// activation.
type ActivateAbilityStep int

const (
	ActivateAbilityBegin ActivateAbilityStep = iota
	ActivateAbilityAddToHistory
	ActivateAbilityPayActionPoints
	ActivateAbilityPayManaCost
	ActivateAbilityPayCustomCost
	ActivateAbilityFireEvent
	ActivateAbilityFinish
)

// ActivateAbilityMachine resolves activating one ability.
type ActivateAbilityMachine struct {
	Order   uint64              `json:"order"`
	Step    ActivateAbilityStep `json:"step"`
	Ability AbilityID           `json:"ability"`
	Target  PlayTarget          `json:"target"`
}

// DealDamageStep is the resumable position within a damage resolution.
type DealDamageStep int

const (
	DealDamageBegin DealDamageStep = iota
	DealDamageWillDealEvent
	DealDamageDiscardCards
	DealDamageDealtEvent
	DealDamageFinish
)

// DealDamageMachine resolves dealing damage to the Riftcaller. Damage
// discards random cards from hand; if the hand is empty while damage
// remains, the Riftcaller loses.
type DealDamageMachine struct {
	Order     uint64         `json:"order"`
	Step      DealDamageStep `json:"step"`
	Amount    int            `json:"amount"`
	Source    AbilityID      `json:"source"`
	Discarded []CardID       `json:"discarded,omitempty"`
}

// DrawCardsStep is the resumable position within a card draw.
type DrawCardsStep int

const (
	DrawCardsBegin DrawCardsStep = iota
	DrawCardsWillDrawEvent
	DrawCardsCheckIfPrevented
	DrawCardsDraw
	DrawCardsViaAbilityEvent
	DrawCardsAddToHistory
	DrawCardsFinish
)

// DrawCardsMachine resolves drawing cards. Draws initiated by the basic
// action and draws granted by abilities are counted separately so card
// texts can distinguish them.
type DrawCardsMachine struct {
	Order      uint64        `json:"order"`
	Step       DrawCardsStep `json:"step"`
	Side       Side          `json:"side"`
	Quantity   int           `json:"quantity"`
	ViaAbility bool          `json:"via_ability,omitempty"`
	Source     AbilityID     `json:"source"`
	Drawn      []CardID      `json:"drawn,omitempty"`
	Prevented  bool          `json:"prevented,omitempty"`
}

// StatusStep is the shared resumable position of the curse, wound, and
// leyline machines, which have the same shape.
type StatusStep int

const (
	StatusBegin StatusStep = iota
	StatusWillReceiveEvent
	StatusApply
	StatusReceivedEvent
	StatusFinish
)

// GiveCursesMachine applies curses to the Riftcaller.
type GiveCursesMachine struct {
	Order    uint64     `json:"order"`
	Step     StatusStep `json:"step"`
	Quantity int        `json:"quantity"`
	Source   AbilityID  `json:"source"`
}

// GiveWoundsMachine applies wounds to the Riftcaller.
type GiveWoundsMachine struct {
	Order    uint64     `json:"order"`
	Step     StatusStep `json:"step"`
	Quantity int        `json:"quantity"`
	Source   AbilityID  `json:"source"`
}

// GiveLeylinesMachine grants leylines to the Riftcaller.
type GiveLeylinesMachine struct {
	Order    uint64     `json:"order"`
	Step     StatusStep `json:"step"`
	Quantity int        `json:"quantity"`
	Source   AbilityID  `json:"source"`
}

// DestroyStep is the resumable position within a permanent destruction.
type DestroyStep int

const (
	DestroyBegin DestroyStep = iota
	DestroyWillDestroyEvent
	DestroyCheckIfPrevented
	DestroyApply
	DestroyDestroyedEvent
	DestroyFinish
)

// DestroyPermanentMachine destroys one or more in-play cards, moving them
// to their owners' discard piles.
type DestroyPermanentMachine struct {
	Order     uint64      `json:"order"`
	Step      DestroyStep `json:"step"`
	Targets   []CardID    `json:"targets"`
	Source    AbilityID   `json:"source"`
	Prevented []CardID    `json:"prevented,omitempty"`
}

// StateMachines holds the parallel vectors of in-flight resumable
// operations. Each vector behaves as a stack; Order fields establish the
// global innermost-first execution order across vectors.
type StateMachines struct {
	PlayCard        []PlayCardMachine        `json:"play_card,omitempty"`
	ActivateAbility []ActivateAbilityMachine `json:"activate_ability,omitempty"`
	DealDamage      []DealDamageMachine      `json:"deal_damage,omitempty"`
	DrawCards       []DrawCardsMachine       `json:"draw_cards,omitempty"`
	GiveCurses      []GiveCursesMachine      `json:"give_curses,omitempty"`
	GiveWounds      []GiveWoundsMachine      `json:"give_wounds,omitempty"`
	GiveLeylines    []GiveLeylinesMachine    `json:"give_leylines,omitempty"`
	Destroy         []DestroyPermanentMachine `json:"destroy,omitempty"`
}

// Empty reports whether no machine is in flight.
func (s *StateMachines) Empty() bool {
	return len(s.PlayCard) == 0 && len(s.ActivateAbility) == 0 &&
		len(s.DealDamage) == 0 && len(s.DrawCards) == 0 &&
		len(s.GiveCurses) == 0 && len(s.GiveWounds) == 0 &&
		len(s.GiveLeylines) == 0 && len(s.Destroy) == 0
}
