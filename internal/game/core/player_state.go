package core

import "fmt"

// MulliganDecision is a player's choice on their opening hand.
type MulliganDecision int

const (
	MulliganKeep MulliganDecision = iota
	MulliganTakeMulligan
)

func (d MulliganDecision) String() string {
	if d == MulliganKeep {
		return "keep"
	}
	return "mulligan"
}

// MulliganData records each side's opening-hand decision. A nil entry means
// the side has not decided yet.
type MulliganData struct {
	Covenant   *MulliganDecision `json:"covenant,omitempty"`
	Riftcaller *MulliganDecision `json:"riftcaller,omitempty"`
}

// Decision returns the recorded decision for a side, if any.
func (m *MulliganData) Decision(side Side) *MulliganDecision {
	if side == SideCovenant {
		return m.Covenant
	}
	return m.Riftcaller
}

// SetDecision records a side's decision.
func (m *MulliganData) SetDecision(side Side, d MulliganDecision) {
	if side == SideCovenant {
		m.Covenant = &d
	} else {
		m.Riftcaller = &d
	}
}

// Resolved reports whether both sides have decided.
func (m *MulliganData) Resolved() bool {
	return m.Covenant != nil && m.Riftcaller != nil
}

// PlayerState is the per-side mutable state. Mana, action points, and
// scores never go negative; mutations that would breach that are rejected
// by the rules layer.
type PlayerState struct {
	Side             Side        `json:"side"`
	ID               string      `json:"id"`
	Mana             int         `json:"mana"`
	Actions          int         `json:"actions"`
	Score            int         `json:"score"`
	BonusPoints      int         `json:"bonus_points"`
	HandSizeOverride *int        `json:"hand_size_override,omitempty"`
	Curses           int         `json:"curses"`
	Wounds           int         `json:"wounds"`
	Leylines         int         `json:"leylines"`
	Prompts          PromptStack `json:"prompts"`
}

// TotalScore is the score counting bonus points.
func (p *PlayerState) TotalScore() int {
	return p.Score + p.BonusPoints
}

func (p *PlayerState) String() string {
	return fmt.Sprintf("%s[mana=%d actions=%d score=%d]", p.Side, p.Mana, p.Actions, p.TotalScore())
}
