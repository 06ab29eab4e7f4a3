package rules

import (
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/game/dispatch"
)

// The curse, wound, and leyline machines share one shape: announce, let
// prevention handlers shrink the quantity, apply, then report. They are
// stepped separately because each touches its own player field, events,
// and counters.

func stepGiveCurses(g *core.GameState) error {
	idx := len(g.Machines.GiveCurses) - 1
	m := &g.Machines.GiveCurses[idx]
	switch m.Step {
	case core.StatusBegin:
		m.Step = core.StatusWillReceiveEvent

	case core.StatusWillReceiveEvent:
		m.Step = core.StatusApply
		return dispatch.InvokeEvent(g, core.Event{Kind: core.EventWillReceiveCurses, Side: core.SideRiftcaller, Amount: m.Quantity})

	case core.StatusApply:
		quantity := m.Quantity
		m.Step = core.StatusReceivedEvent
		if quantity > 0 {
			g.Player(core.SideRiftcaller).Curses += quantity
			g.RecordUpdate(core.GameUpdate{Kind: core.UpdateCurse, Side: core.SideRiftcaller, Amount: quantity})
		}

	case core.StatusReceivedEvent:
		quantity := m.Quantity
		m.Step = core.StatusFinish
		if quantity > 0 {
			if err := dispatch.InvokeEvent(g, core.Event{Kind: core.EventCurseReceived, Side: core.SideRiftcaller, Amount: quantity}); err != nil {
				return err
			}
			g.TurnCounters(core.SideRiftcaller).CursesReceived += quantity
			g.History.AddEvent(core.HistoryEvent{Kind: core.HistoryCurseReceived, Side: core.SideRiftcaller, Amount: quantity})
		}

	case core.StatusFinish:
		g.Machines.GiveCurses = g.Machines.GiveCurses[:idx]

	default:
		return internalf("give curses machine in unknown step %d", m.Step)
	}
	return nil
}

func stepGiveWounds(g *core.GameState) error {
	idx := len(g.Machines.GiveWounds) - 1
	m := &g.Machines.GiveWounds[idx]
	switch m.Step {
	case core.StatusBegin:
		m.Step = core.StatusWillReceiveEvent

	case core.StatusWillReceiveEvent:
		m.Step = core.StatusApply
		return dispatch.InvokeEvent(g, core.Event{Kind: core.EventWillReceiveWounds, Side: core.SideRiftcaller, Amount: m.Quantity})

	case core.StatusApply:
		quantity := m.Quantity
		m.Step = core.StatusReceivedEvent
		if quantity > 0 {
			g.Player(core.SideRiftcaller).Wounds += quantity
			g.RecordUpdate(core.GameUpdate{Kind: core.UpdateWound, Side: core.SideRiftcaller, Amount: quantity})
		}

	case core.StatusReceivedEvent:
		quantity := m.Quantity
		m.Step = core.StatusFinish
		if quantity > 0 {
			if err := dispatch.InvokeEvent(g, core.Event{Kind: core.EventWoundReceived, Side: core.SideRiftcaller, Amount: quantity}); err != nil {
				return err
			}
			g.TurnCounters(core.SideRiftcaller).WoundsReceived += quantity
			g.History.AddEvent(core.HistoryEvent{Kind: core.HistoryWoundReceived, Side: core.SideRiftcaller, Amount: quantity})
		}

	case core.StatusFinish:
		g.Machines.GiveWounds = g.Machines.GiveWounds[:idx]

	default:
		return internalf("give wounds machine in unknown step %d", m.Step)
	}
	return nil
}

func stepGiveLeylines(g *core.GameState) error {
	idx := len(g.Machines.GiveLeylines) - 1
	m := &g.Machines.GiveLeylines[idx]
	switch m.Step {
	case core.StatusBegin:
		m.Step = core.StatusWillReceiveEvent

	case core.StatusWillReceiveEvent:
		m.Step = core.StatusApply
		return dispatch.InvokeEvent(g, core.Event{Kind: core.EventWillReceiveLeylines, Side: core.SideRiftcaller, Amount: m.Quantity})

	case core.StatusApply:
		quantity := m.Quantity
		m.Step = core.StatusReceivedEvent
		if quantity > 0 {
			g.Player(core.SideRiftcaller).Leylines += quantity
			g.RecordUpdate(core.GameUpdate{Kind: core.UpdateLeyline, Side: core.SideRiftcaller, Amount: quantity})
		}

	case core.StatusReceivedEvent:
		quantity := m.Quantity
		m.Step = core.StatusFinish
		if quantity > 0 {
			if err := dispatch.InvokeEvent(g, core.Event{Kind: core.EventLeylineReceived, Side: core.SideRiftcaller, Amount: quantity}); err != nil {
				return err
			}
			g.TurnCounters(core.SideRiftcaller).LeylinesReceived += quantity
			g.History.AddEvent(core.HistoryEvent{Kind: core.HistoryLeylineReceived, Side: core.SideRiftcaller, Amount: quantity})
		}

	case core.StatusFinish:
		g.Machines.GiveLeylines = g.Machines.GiveLeylines[:idx]

	default:
		return internalf("give leylines machine in unknown step %d", m.Step)
	}
	return nil
}
