package core

import "fmt"

// GameUpdateKind enumerates the logical observable events recorded for
// clients. These are not rendering commands; consumers diff them against
// prior snapshots to drive whatever presentation they have.
type GameUpdateKind int

const (
	UpdateStartTurn GameUpdateKind = iota
	UpdateDrawCards
	UpdateMoveCard
	UpdateFlipFaceUp
	UpdateRevealCard
	UpdateDamage
	UpdateCurse
	UpdateWound
	UpdateLeyline
	UpdateScoreCard
	UpdateRazeCard
	UpdateSummonMinion
	UpdateUnveilProject
	UpdateInitiateRaid
	UpdateCombat
	UpdateCounters
	UpdateFireAbility
	UpdateShowPrompt
	UpdateClosePrompt
	UpdateVisualEffect
	UpdateGameOver
)

var updateKindNames = map[GameUpdateKind]string{
	UpdateStartTurn:     "start_turn",
	UpdateDrawCards:     "draw_cards",
	UpdateMoveCard:      "move_card",
	UpdateFlipFaceUp:    "flip_face_up",
	UpdateRevealCard:    "reveal_card",
	UpdateDamage:        "damage",
	UpdateCurse:         "curse",
	UpdateWound:         "wound",
	UpdateLeyline:       "leyline",
	UpdateScoreCard:     "score_card",
	UpdateRazeCard:      "raze_card",
	UpdateSummonMinion:  "summon_minion",
	UpdateUnveilProject: "unveil_project",
	UpdateInitiateRaid:  "initiate_raid",
	UpdateCombat:        "combat",
	UpdateCounters:      "counters",
	UpdateFireAbility:   "fire_ability",
	UpdateShowPrompt:    "show_prompt",
	UpdateClosePrompt:   "close_prompt",
	UpdateVisualEffect:  "visual_effect",
	UpdateGameOver:      "game_over",
}

func (k GameUpdateKind) String() string {
	if name, ok := updateKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("UPDATE_%d", int(k))
}

// GameUpdate is one recorded observable event.
type GameUpdate struct {
	Kind     GameUpdateKind `json:"kind"`
	Side     Side           `json:"side,omitempty"`
	Card     *CardID        `json:"card,omitempty"`
	Cards    []CardID       `json:"cards,omitempty"`
	Ability  *AbilityID     `json:"ability,omitempty"`
	Room     *RoomID        `json:"room,omitempty"`
	Amount   int            `json:"amount,omitempty"`
	Counter  CounterKind    `json:"counter,omitempty"`
	Position *CardPosition  `json:"position,omitempty"`
	Winner   *Side          `json:"winner,omitempty"`
}

// UpdateTracker buffers updates in occurrence order. Recording is disabled
// for simulated games so AI search does not pay for it.
type UpdateTracker struct {
	Steps    []GameUpdate `json:"steps,omitempty"`
	Disabled bool         `json:"disabled,omitempty"`
}

// Record appends one update unless the tracker is disabled.
func (t *UpdateTracker) Record(update GameUpdate) {
	if t.Disabled {
		return
	}
	t.Steps = append(t.Steps, update)
}

// Drain returns the buffered updates and clears the buffer.
func (t *UpdateTracker) Drain() []GameUpdate {
	steps := t.Steps
	t.Steps = nil
	return steps
}
