package rules

import (
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/game/dispatch"
)

// InitiatePlayCard validates a play request and pushes a play-card machine.
// Costs are paid by the machine's own steps; validation here only proves the
// request could legally start.
func InitiatePlayCard(g *core.GameState, side core.Side, id core.CardID, target core.PlayTarget, viaBrowser bool) error {
	card, err := g.Card(id)
	if err != nil {
		return illegalf("%v", err)
	}
	if id.Side != side {
		return illegalf("%s cannot play opposing card %s", side, id)
	}
	def, err := g.Definition(id)
	if err != nil {
		return internalf("%v", err)
	}
	if !viaBrowser && !card.Position.InHand() {
		return illegalf("card %s is not in hand", id)
	}
	if err := validPlayTarget(def, target); err != nil {
		return err
	}
	if !CanPlayCard(g, side, id) {
		return illegalf("card %s cannot be played right now", id)
	}
	payable, err := CanPayCardCost(g, side, id)
	if err != nil {
		return err
	}
	if !payable {
		return illegalf("cannot pay the cost of %s", id)
	}
	g.Machines.PlayCard = append(g.Machines.PlayCard, core.PlayCardMachine{
		Order:      g.NextOrder(),
		Step:       core.PlayCardBegin,
		Card:       id,
		Target:     target,
		From:       card.Position,
		ViaBrowser: viaBrowser,
	})
	return nil
}

// validPlayTarget checks the target shape a card type requires: minions
// defend any room, schemes and projects occupy outer rooms, everything
// else takes no target.
func validPlayTarget(def *core.CardDefinition, target core.PlayTarget) error {
	switch def.Type {
	case core.TypeMinion:
		if target.Kind != core.TargetRoom {
			return illegalf("minion %s requires a room target", def.Name)
		}
	case core.TypeScheme, core.TypeProject:
		if target.Kind != core.TargetRoom || !target.Room.IsOuter() {
			return illegalf("%s %s requires an outer room target", def.Type, def.Name)
		}
	default:
		if target.Kind != core.TargetNone {
			return illegalf("%s %s takes no target", def.Type, def.Name)
		}
	}
	return nil
}

func stepPlayCard(g *core.GameState) error {
	idx := len(g.Machines.PlayCard) - 1
	m := &g.Machines.PlayCard[idx]
	if m.Cancelled {
		return unwindCancelledPlay(g)
	}
	id := m.Card
	target := m.Target
	switch m.Step {
	case core.PlayCardBegin:
		m.Step = core.PlayCardCheckLimits

	case core.PlayCardCheckLimits:
		prompted, err := checkPlayLimits(g, m)
		if err != nil {
			return err
		}
		if prompted {
			// Stay here; the prompt resolves by sacrificing or cancelling
			// and the check runs again.
			return nil
		}
		m.Step = core.PlayCardClearPreviousState

	case core.PlayCardClearPreviousState:
		card, err := g.Card(id)
		if err != nil {
			return internalf("%v", err)
		}
		card.ClearState()
		m.Step = core.PlayCardAddToHistory

	case core.PlayCardAddToHistory:
		event := core.HistoryEvent{Kind: core.HistoryCardPlayed, Side: id.Side, Card: &id}
		if target.Kind == core.TargetRoom {
			room := target.Room
			event.Room = &room
		}
		g.History.AddEvent(event)
		m.Step = core.PlayCardMoveToPlayedPosition

	case core.PlayCardMoveToPlayedPosition:
		card, err := g.Card(id)
		if err != nil {
			return internalf("%v", err)
		}
		if target.Kind == core.TargetRoom {
			card.RecordFact(core.CardFact{Kind: core.FactTargetRoom, Room: target.Room})
		}
		m.Step = core.PlayCardPayActionPoints
		return MoveCard(g, id, core.PlayedPosition(id.Side, target))

	case core.PlayCardPayActionPoints:
		cost, err := ActionCost(g, id)
		if err != nil {
			return err
		}
		m.Step = core.PlayCardApplyPlayCardBrowser
		if cost > 0 {
			return SpendActionPoints(g, id.Side, cost)
		}

	case core.PlayCardApplyPlayCardBrowser:
		// Unplayed browser cards were dispatched when this play was chosen.
		m.Step = core.PlayCardPayManaCost

	case core.PlayCardPayManaCost:
		def, err := g.Definition(id)
		if err != nil {
			return internalf("%v", err)
		}
		m.Step = core.PlayCardPayCustomCost
		// Face-down cards defer their mana cost to summoning or unveiling.
		if !entersPlayFaceUp(def) {
			return nil
		}
		mana, err := ManaCost(g, id)
		if err != nil {
			return err
		}
		if mana == nil {
			return internalf("card %s has no mana cost to pay", id)
		}
		if *mana > 0 {
			return SpendMana(g, id.Side, *mana)
		}

	case core.PlayCardPayCustomCost:
		def, err := g.Definition(id)
		if err != nil {
			return internalf("%v", err)
		}
		m.Step = core.PlayCardTurnFaceUp
		if entersPlayFaceUp(def) && def.Cost.Custom != nil && def.Cost.Custom.Pay != nil {
			return def.Cost.Custom.Pay(g, id)
		}

	case core.PlayCardTurnFaceUp:
		def, err := g.Definition(id)
		if err != nil {
			return internalf("%v", err)
		}
		m.Step = core.PlayCardMoveToTargetPosition
		if entersPlayFaceUp(def) {
			return TurnFaceUp(g, id)
		}

	case core.PlayCardMoveToTargetPosition:
		def, err := g.Definition(id)
		if err != nil {
			return internalf("%v", err)
		}
		pos, err := finalPlayPosition(def, id, target)
		if err != nil {
			return err
		}
		m.Step = core.PlayCardFinish
		if err := MoveCard(g, id, pos); err != nil {
			return err
		}
		if err := dispatch.InvokeEvent(g, core.Event{Kind: core.EventCardPlayed, Side: id.Side, Card: &id}); err != nil {
			return err
		}
		g.TurnCounters(id.Side).CardsPlayed++

	case core.PlayCardFinish:
		g.Machines.PlayCard = g.Machines.PlayCard[:idx]

	default:
		return internalf("play card machine in unknown step %v", m.Step)
	}
	return nil
}

// unwindCancelledPlay pops the machine and returns the card to where the
// play started. Cancellation is only reachable from the limit check, so no
// costs have been paid yet.
func unwindCancelledPlay(g *core.GameState) error {
	idx := len(g.Machines.PlayCard) - 1
	m := g.Machines.PlayCard[idx]
	g.Machines.PlayCard = g.Machines.PlayCard[:idx]
	card, err := g.Card(m.Card)
	if err != nil {
		return internalf("%v", err)
	}
	if card.Position != m.From {
		return MoveCard(g, m.Card, m.From)
	}
	return nil
}

// checkPlayLimits enforces the per-zone caps. When a cap is hit it prompts
// the player to sacrifice one existing card to make room, or to cancel the
// play; the report value says whether a prompt was raised.
func checkPlayLimits(g *core.GameState, m *core.PlayCardMachine) (bool, error) {
	def, err := g.Definition(m.Card)
	if err != nil {
		return false, internalf("%v", err)
	}
	var crowded []core.CardID
	switch {
	case def.Type == core.TypeMinion && m.Target.Kind == core.TargetRoom:
		defenders := g.Defenders(m.Target.Room)
		if len(defenders) < core.MinionLimit {
			return false, nil
		}
		for _, d := range defenders {
			crowded = append(crowded, d.ID)
		}
	case (def.Type == core.TypeScheme || def.Type == core.TypeProject) && m.Target.Kind == core.TargetRoom:
		occupants := g.Occupants(m.Target.Room)
		if len(occupants) < core.OccupantLimit {
			return false, nil
		}
		for _, o := range occupants {
			crowded = append(crowded, o.ID)
		}
	case def.IsWeapon() && def.Resonance != nil:
		for _, item := range g.ArenaItems(core.SlotWeapons) {
			if !item.FaceUp {
				continue
			}
			other, err := g.Definition(item.ID)
			if err != nil {
				return false, internalf("%v", err)
			}
			if other.Resonance != nil && *other.Resonance == *def.Resonance {
				crowded = append(crowded, item.ID)
			}
		}
		if len(crowded) == 0 {
			return false, nil
		}
	default:
		return false, nil
	}
	pushSacrificeToMakeRoomPrompt(g, m.Card, crowded)
	return true, nil
}

func pushSacrificeToMakeRoomPrompt(g *core.GameState, playing core.CardID, crowded []core.CardID) {
	var choices []core.PromptChoice
	for _, id := range crowded {
		target := id
		choices = append(choices, core.PromptChoice{
			Label:   "Sacrifice",
			Effects: []core.GameEffect{{Kind: core.EffectSacrificeCard, Card: &target}},
			Anchor:  &target,
		})
	}
	choices = append(choices, core.PromptChoice{
		Label:   "Cancel",
		Effects: []core.GameEffect{{Kind: core.EffectCancelPlay}},
	})
	PushPrompt(g, playing.Side, core.ButtonPrompt(
		core.PromptContext{Kind: core.ContextSacrificeToMakeRoom, Card: &playing},
		choices,
	))
}

// entersPlayFaceUp says whether a played card arrives face up. Minions,
// projects, and schemes stay face down unless their definition opts in;
// they flip later through summoning or unveiling.
func entersPlayFaceUp(def *core.CardDefinition) bool {
	switch def.Type {
	case core.TypeMinion, core.TypeProject, core.TypeScheme:
		return def.Config.FaceUpInPlay
	}
	return true
}

// finalPlayPosition picks the destination zone once a play resolves.
func finalPlayPosition(def *core.CardDefinition, id core.CardID, target core.PlayTarget) (core.CardPosition, error) {
	switch def.Type {
	case core.TypeScheme, core.TypeProject:
		if target.Kind != core.TargetRoom {
			return core.CardPosition{}, internalf("%s resolved without a room target", id)
		}
		return core.RoomPosition(target.Room, core.RoleOccupant), nil
	case core.TypeMinion:
		if target.Kind != core.TargetRoom {
			return core.CardPosition{}, internalf("%s resolved without a room target", id)
		}
		return core.RoomPosition(target.Room, core.RoleDefender), nil
	case core.TypeRitual, core.TypeSpell:
		return core.DiscardPosition(id.Side), nil
	case core.TypeArtifact, core.TypeEvocation, core.TypeAlly:
		return core.ArenaItemPosition(def.ItemSlot()), nil
	case core.TypeRiftcaller:
		return core.RiftcallerPosition(id.Side), nil
	case core.TypeChapter:
		return core.ChapterPosition(id.Side), nil
	case core.TypeGameModifier:
		return core.GameModifierPosition(), nil
	}
	return core.CardPosition{}, internalf("no destination for card type %v", def.Type)
}
