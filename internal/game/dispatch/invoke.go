package dispatch

import "github.com/riftcaller/riftcaller-server-go/internal/game/core"

// InvokeEvent delivers an event to every live delegate registered for its
// kind, in cache order. Events raised while a handler runs are queued and
// delivered after the current event completes all of its handlers, so
// fan-out stays breadth-ordered and no handler observes a half-delivered
// sibling event.
//
// A handler error aborts delivery and propagates; state already mutated by
// earlier handlers stands.
func InvokeEvent(g *core.GameState, event core.Event) error {
	if g.InEvent {
		g.QueuedEvents = append(g.QueuedEvents, event)
		return nil
	}
	g.InEvent = true
	defer func() {
		g.InEvent = false
		g.QueuedEvents = nil
	}()

	if err := deliver(g, event); err != nil {
		return err
	}
	// Drain events raised during delivery. Handlers may queue more.
	for len(g.QueuedEvents) > 0 {
		next := g.QueuedEvents[0]
		g.QueuedEvents = g.QueuedEvents[1:]
		if err := deliver(g, next); err != nil {
			return err
		}
	}
	return nil
}

func deliver(g *core.GameState, event core.Event) error {
	// Snapshot the entry list: handlers may move cards and rewrite the
	// cache mid-delivery, but this event fires against the registrations
	// that were live when it was raised.
	live := g.Cache.EventEntries(event.Kind)
	entries := make([]core.CacheEntry, len(live))
	copy(entries, live)

	for _, entry := range entries {
		delegate, err := resolveDelegate(g, entry)
		if err != nil {
			return err
		}
		scope := core.Scope{Ability: entry.Ability}
		if delegate.Requirement != nil && !delegate.Requirement(g, scope, &event) {
			continue
		}
		if delegate.OnEvent == nil {
			continue
		}
		if err := delegate.OnEvent(g, scope, &event); err != nil {
			return err
		}
	}
	return nil
}
