package rules

import (
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
)

// machineKind names one state-machine vector for driver dispatch.
type machineKind int

const (
	machinePlayCard machineKind = iota
	machineActivateAbility
	machineDealDamage
	machineDrawCards
	machineGiveCurses
	machineGiveWounds
	machineGiveLeylines
	machineDestroy
	machineRaid
)

// RunStateMachines advances in-flight machines until all complete or
// resolution suspends on a pending decision. One step per iteration; the
// machine with the highest order value runs next, which makes machines
// started by delegate handlers resolve before the operation that raised
// them resumes.
func RunStateMachines(g *core.GameState) error {
	for {
		if g.GameOver() {
			return nil
		}
		if Suspended(g) {
			return nil
		}
		kind, ok := nextMachine(g)
		if !ok {
			return nil
		}
		if err := stepMachine(g, kind); err != nil {
			return err
		}
	}
}

// Suspended reports whether resolution is blocked on a player decision:
// any live prompt-stack entry, or a pending raid prompt. Surfacing a stack
// entry re-evaluates it, so dead entries are dropped here as a side effect.
func Suspended(g *core.GameState) bool {
	for _, side := range core.Sides {
		if CurrentPrompt(g, side) != nil {
			return true
		}
	}
	return g.Raid != nil && g.Raid.Prompt != nil
}

// nextMachine picks the in-flight machine with the highest order value
// among the top entries of each vector and the raid.
func nextMachine(g *core.GameState) (machineKind, bool) {
	best := machineKind(-1)
	var bestOrder uint64
	consider := func(kind machineKind, order uint64) {
		if best < 0 || order > bestOrder {
			best = kind
			bestOrder = order
		}
	}
	m := &g.Machines
	if n := len(m.PlayCard); n > 0 {
		consider(machinePlayCard, m.PlayCard[n-1].Order)
	}
	if n := len(m.ActivateAbility); n > 0 {
		consider(machineActivateAbility, m.ActivateAbility[n-1].Order)
	}
	if n := len(m.DealDamage); n > 0 {
		consider(machineDealDamage, m.DealDamage[n-1].Order)
	}
	if n := len(m.DrawCards); n > 0 {
		consider(machineDrawCards, m.DrawCards[n-1].Order)
	}
	if n := len(m.GiveCurses); n > 0 {
		consider(machineGiveCurses, m.GiveCurses[n-1].Order)
	}
	if n := len(m.GiveWounds); n > 0 {
		consider(machineGiveWounds, m.GiveWounds[n-1].Order)
	}
	if n := len(m.GiveLeylines); n > 0 {
		consider(machineGiveLeylines, m.GiveLeylines[n-1].Order)
	}
	if n := len(m.Destroy); n > 0 {
		consider(machineDestroy, m.Destroy[n-1].Order)
	}
	if g.Raid != nil {
		consider(machineRaid, g.Raid.Order)
	}
	return best, best >= 0
}

func stepMachine(g *core.GameState, kind machineKind) error {
	switch kind {
	case machinePlayCard:
		return stepPlayCard(g)
	case machineActivateAbility:
		return stepActivateAbility(g)
	case machineDealDamage:
		return stepDealDamage(g)
	case machineDrawCards:
		return stepDrawCards(g)
	case machineGiveCurses:
		return stepGiveCurses(g)
	case machineGiveWounds:
		return stepGiveWounds(g)
	case machineGiveLeylines:
		return stepGiveLeylines(g)
	case machineDestroy:
		return stepDestroy(g)
	case machineRaid:
		return stepRaid(g)
	}
	return internalf("unknown machine kind %d", kind)
}

// PushDealDamage queues damage against the Riftcaller.
func PushDealDamage(g *core.GameState, amount int, source core.AbilityID) {
	g.Machines.DealDamage = append(g.Machines.DealDamage, core.DealDamageMachine{
		Order:  g.NextOrder(),
		Step:   core.DealDamageBegin,
		Amount: amount,
		Source: source,
	})
}

// PushDrawCards queues a card draw for a side.
func PushDrawCards(g *core.GameState, side core.Side, quantity int, viaAbility bool, source core.AbilityID) {
	g.Machines.DrawCards = append(g.Machines.DrawCards, core.DrawCardsMachine{
		Order:      g.NextOrder(),
		Step:       core.DrawCardsBegin,
		Side:       side,
		Quantity:   quantity,
		ViaAbility: viaAbility,
		Source:     source,
	})
}

// PushGiveCurses queues curses against the Riftcaller.
func PushGiveCurses(g *core.GameState, quantity int, source core.AbilityID) {
	g.Machines.GiveCurses = append(g.Machines.GiveCurses, core.GiveCursesMachine{
		Order:    g.NextOrder(),
		Step:     core.StatusBegin,
		Quantity: quantity,
		Source:   source,
	})
}

// PushGiveWounds queues wounds against the Riftcaller.
func PushGiveWounds(g *core.GameState, quantity int, source core.AbilityID) {
	g.Machines.GiveWounds = append(g.Machines.GiveWounds, core.GiveWoundsMachine{
		Order:    g.NextOrder(),
		Step:     core.StatusBegin,
		Quantity: quantity,
		Source:   source,
	})
}

// PushGiveLeylines queues leylines for the Riftcaller.
func PushGiveLeylines(g *core.GameState, quantity int, source core.AbilityID) {
	g.Machines.GiveLeylines = append(g.Machines.GiveLeylines, core.GiveLeylinesMachine{
		Order:    g.NextOrder(),
		Step:     core.StatusBegin,
		Quantity: quantity,
		Source:   source,
	})
}

// PushDestroy queues destruction of in-play cards.
func PushDestroy(g *core.GameState, targets []core.CardID, source core.AbilityID) {
	g.Machines.Destroy = append(g.Machines.Destroy, core.DestroyPermanentMachine{
		Order:   g.NextOrder(),
		Step:    core.DestroyBegin,
		Targets: targets,
		Source:  source,
	})
}
