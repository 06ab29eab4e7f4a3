package core

import "fmt"

// RaidStep is the current position of the raid state machine. Steps only
// move forward within one raid.
type RaidStep int

const (
	RaidStepBegin RaidStep = iota
	RaidStepNextDefender
	RaidStepPopulateSummonPrompt
	RaidStepNextEncounter
	RaidStepEncounterMinion
	RaidStepPopulateEncounterPrompt
	RaidStepMinionDefeated
	RaidStepApproachRoom
	RaidStepAccessStart
	RaidStepBuildAccessSet
	RaidStepRevealAccessedCards
	RaidStepAccessCards
	RaidStepPopulateAccessPrompt
	RaidStepFinishRaid
)

var raidStepNames = map[RaidStep]string{
	RaidStepBegin:                   "begin",
	RaidStepNextDefender:            "next_defender",
	RaidStepPopulateSummonPrompt:    "populate_summon_prompt",
	RaidStepNextEncounter:           "next_encounter",
	RaidStepEncounterMinion:         "encounter_minion",
	RaidStepPopulateEncounterPrompt: "populate_encounter_prompt",
	RaidStepMinionDefeated:          "minion_defeated",
	RaidStepApproachRoom:            "approach_room",
	RaidStepAccessStart:             "access_start",
	RaidStepBuildAccessSet:          "build_access_set",
	RaidStepRevealAccessedCards:     "reveal_accessed_cards",
	RaidStepAccessCards:             "access_cards",
	RaidStepPopulateAccessPrompt:    "populate_access_prompt",
	RaidStepFinishRaid:              "finish_raid",
}

func (s RaidStep) String() string {
	if name, ok := raidStepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("RAID_STEP_%d", int(s))
}

// RaidChoiceKind enumerates the decisions offered during a raid.
type RaidChoiceKind int

const (
	RaidChoiceSummonMinion RaidChoiceKind = iota
	RaidChoiceDoNotSummon
	RaidChoiceUseWeapon
	RaidChoiceFireCombatAbility
	RaidChoiceScoreCard
	RaidChoiceRazeCard
	RaidChoiceFinishRaid
	RaidChoiceEndRaid
)

var raidChoiceNames = map[RaidChoiceKind]string{
	RaidChoiceSummonMinion:      "summon_minion",
	RaidChoiceDoNotSummon:       "do_not_summon",
	RaidChoiceUseWeapon:         "use_weapon",
	RaidChoiceFireCombatAbility: "fire_combat_ability",
	RaidChoiceScoreCard:         "score_card",
	RaidChoiceRazeCard:          "raze_card",
	RaidChoiceFinishRaid:        "finish_raid",
	RaidChoiceEndRaid:           "end_raid",
}

func (k RaidChoiceKind) String() string {
	if name, ok := raidChoiceNames[k]; ok {
		return name
	}
	return fmt.Sprintf("RAID_CHOICE_%d", int(k))
}

// RaidChoice is one selectable raid decision. Cost fields are computed when
// the prompt is populated so unaffordable choices are filtered before being
// offered.
type RaidChoice struct {
	Kind     RaidChoiceKind `json:"kind"`
	Minion   *CardID        `json:"minion,omitempty"`
	Weapon   *CardID        `json:"weapon,omitempty"`
	Card     *CardID        `json:"card,omitempty"`
	ManaCost int            `json:"mana_cost,omitempty"`
	// BoostCount is the number of boost activations implied by a weapon
	// choice; recorded on the weapon when the choice resolves.
	BoostCount int `json:"boost_count,omitempty"`
}

func (c RaidChoice) String() string {
	switch c.Kind {
	case RaidChoiceSummonMinion, RaidChoiceDoNotSummon, RaidChoiceFireCombatAbility:
		return fmt.Sprintf("%s(%s)", c.Kind, c.Minion)
	case RaidChoiceUseWeapon:
		return fmt.Sprintf("use_weapon(%s,%s)", c.Weapon, c.Minion)
	case RaidChoiceScoreCard, RaidChoiceRazeCard:
		return fmt.Sprintf("%s(%s)", c.Kind, c.Card)
	default:
		return c.Kind.String()
	}
}

// RaidPrompt is the pending raid decision: which side must answer and the
// choices available to them.
type RaidPrompt struct {
	Side    Side         `json:"side"`
	Choices []RaidChoice `json:"choices"`
}

// RaidData is the state of the one in-flight raid. Encounter starts at the
// number of defenders in the target room and counts down as defenders are
// passed; the defender at index Encounter-1 is the next to face.
type RaidData struct {
	RaidID        uint32      `json:"raid_id"`
	Target        RoomID      `json:"target"`
	Step          RaidStep    `json:"step"`
	Encounter     int         `json:"encounter"`
	Minion        *CardID     `json:"minion,omitempty"`
	Prompt        *RaidPrompt `json:"prompt,omitempty"`
	Accessed      []CardID    `json:"accessed,omitempty"`
	IsCustomAccess bool       `json:"is_custom_access,omitempty"`
	// Order places the raid among the other in-flight state machines.
	Order uint64 `json:"order"`
}

// PromptFor returns the raid prompt if it is the given side's decision.
func (r *RaidData) PromptFor(side Side) *RaidPrompt {
	if r.Prompt != nil && r.Prompt.Side == side {
		return r.Prompt
	}
	return nil
}
