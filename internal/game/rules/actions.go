package rules

import (
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/game/dispatch"
)

// HandleAction validates and resolves one submitted action: dispatch to the
// matching handler, drive the state machines until they finish or suspend
// on a decision, then commit this action's history. Validation happens
// before any cost is paid, so an illegal action leaves the game unchanged.
func HandleAction(g *core.GameState, side core.Side, action core.UserAction) error {
	if g.GameOver() {
		return illegalf("game %s is over", g.ID)
	}
	if action.Kind == core.ActionResign {
		SetGameOver(g, side.Opponent())
		return nil
	}
	if g.Info.Phase.Kind == core.PhaseResolveMulligans {
		if action.Kind != core.ActionMulliganDecision || action.Mulligan == nil {
			return illegalf("%s must decide their opening hand first", side)
		}
		if err := HandleMulliganDecision(g, side, *action.Mulligan); err != nil {
			return err
		}
		return finishAction(g)
	}
	if err := dispatchAction(g, side, action); err != nil {
		return err
	}
	return finishAction(g)
}

// finishAction drives pending machines until they finish or suspend, then
// commits this action's history so the next action's delegates see it.
func finishAction(g *core.GameState) error {
	if err := RunStateMachines(g); err != nil {
		return err
	}
	g.History.WriteEvents(g.CurrentTurn())
	return nil
}

// dispatchAction applies the same precedence ladder as LegalActions: a
// surfaced prompt locks the side to prompt answers, an active raid locks it
// to raid choices, and only then does the main-phase menu apply.
func dispatchAction(g *core.GameState, side core.Side, action core.UserAction) error {
	if prompt := CurrentPrompt(g, side); prompt != nil {
		return handlePromptAction(g, side, action, prompt)
	}
	if CurrentPrompt(g, side.Opponent()) != nil {
		return illegalf("%s is waiting on the opponent's decision", side)
	}
	if g.Raid != nil {
		switch action.Kind {
		// Raid prompts render as button prompts on some clients.
		case core.ActionRaidChoice, core.ActionPromptChoice:
			return HandleRaidChoice(g, side, action.Index)
		}
		return illegalf("a raid is in progress; %s is not accepted", action.Kind)
	}
	switch action.Kind {
	case core.ActionGainMana:
		return handleGainMana(g, side)
	case core.ActionDrawCard:
		return handleDrawCard(g, side)
	case core.ActionProgressRoom:
		return handleProgressRoom(g, side, action.Room)
	case core.ActionInitiateRaid:
		return handleInitiateRaid(g, side, action.Room)
	case core.ActionPlayCard:
		return handlePlayCard(g, side, action)
	case core.ActionActivateAbility:
		return handleActivateAbility(g, side, action)
	case core.ActionSummonProject:
		return handleSummonProject(g, side, action.Card)
	case core.ActionRemoveCurse:
		return handleRemoveCurse(g, side)
	case core.ActionDispelEvocation:
		return handleDispelEvocation(g, side, action.Card)
	case core.ActionEndTurn:
		return HandleEndTurn(g, side)
	case core.ActionStartTurn:
		return HandleStartTurn(g, side)
	case core.ActionMulliganDecision:
		return illegalf("mulligans are already resolved")
	}
	return illegalf("unknown action %s", action.Kind)
}

// handlePromptAction routes an action while a prompt blocks the side. A
// play-card action is accepted when the prompt is a browser offering that
// card; everything else must answer the prompt directly.
func handlePromptAction(g *core.GameState, side core.Side, action core.UserAction, prompt *core.GamePrompt) error {
	switch action.Kind {
	case core.ActionPromptChoice:
		return HandlePromptChoice(g, side, action.Index)
	case core.ActionCardSelectorSubmit:
		return HandleCardSelectorSubmit(g, side, action.Cards)
	case core.ActionSkipPlayingCard:
		return HandleSkipPlayingCard(g, side)
	case core.ActionRoomSelect:
		if action.Room == nil {
			return illegalf("room select action is missing its room")
		}
		return HandleRoomSelect(g, side, *action.Room)
	case core.ActionPlayCard:
		if prompt.Kind == core.PromptPlayCardBrowser && prompt.Browser != nil {
			return handleBrowserPlay(g, side, action, prompt.Browser)
		}
	}
	return illegalf("%s must answer the current prompt first", side)
}

// handleBrowserPlay plays one of the cards a browser offers. The browser is
// popped first; cards left unplayed move to its disposal position before
// the chosen play begins.
func handleBrowserPlay(g *core.GameState, side core.Side, action core.UserAction, browser *core.PlayCardBrowserData) error {
	if action.Card == nil || action.Target == nil {
		return illegalf("play card action is missing its card or target")
	}
	offered := false
	for _, id := range browser.Cards {
		if id == *action.Card {
			offered = true
			break
		}
	}
	if !offered {
		return illegalf("card %s is not offered by the browser", action.Card)
	}
	g.Player(side).Prompts.Pop()
	g.RecordUpdate(core.GameUpdate{Kind: core.UpdateClosePrompt, Side: side})
	if browser.UnplayedTarget != nil {
		for _, id := range browser.Cards {
			if id == *action.Card {
				continue
			}
			if err := MoveCard(g, id, *browser.UnplayedTarget); err != nil {
				return err
			}
		}
	}
	return InitiatePlayCard(g, side, *action.Card, *action.Target, true)
}

// requireMainPhase checks that the side is taking its own active turn.
func requireMainPhase(g *core.GameState, side core.Side) error {
	if g.Info.Turn.Side != side || g.Info.TurnState != core.TurnActive {
		return illegalf("it is not %s's turn", side)
	}
	return nil
}

func handleGainMana(g *core.GameState, side core.Side) error {
	if err := requireMainPhase(g, side); err != nil {
		return err
	}
	if err := SpendActionPoints(g, side, 1); err != nil {
		return err
	}
	if err := GainMana(g, side, 1); err != nil {
		return err
	}
	g.History.AddEvent(core.HistoryEvent{Kind: core.HistoryGainMana, Side: side})
	return nil
}

func handleDrawCard(g *core.GameState, side core.Side) error {
	if err := requireMainPhase(g, side); err != nil {
		return err
	}
	if len(g.Deck(side)) == 0 {
		return illegalf("%s's deck is empty", side)
	}
	if err := SpendActionPoints(g, side, 1); err != nil {
		return err
	}
	g.History.AddEvent(core.HistoryEvent{Kind: core.HistoryDrawCardAction, Side: side})
	PushDrawCards(g, side, 1, false, core.AbilityID{})
	return nil
}

func handleProgressRoom(g *core.GameState, side core.Side, room *core.RoomID) error {
	if side != core.SideCovenant {
		return illegalf("only the Covenant progresses rooms")
	}
	if err := requireMainPhase(g, side); err != nil {
		return err
	}
	if room == nil || !room.IsOuter() {
		return illegalf("progress requires an outer room")
	}
	if len(g.Occupants(*room)) == 0 {
		return illegalf("room %s has no occupants to progress", room)
	}
	if !CanProgressRoom(g, *room) {
		return illegalf("room %s cannot be progressed right now", room)
	}
	if g.Player(side).Mana < 1 {
		return illegalf("progressing a room costs 1 mana")
	}
	if err := SpendActionPoints(g, side, 1); err != nil {
		return err
	}
	if err := SpendMana(g, side, 1); err != nil {
		return err
	}
	return progressRoomOccupants(g, *room)
}

func handleInitiateRaid(g *core.GameState, side core.Side, room *core.RoomID) error {
	if side != core.SideRiftcaller {
		return illegalf("only the Riftcaller initiates raids")
	}
	if err := requireMainPhase(g, side); err != nil {
		return err
	}
	if room == nil || !room.Valid() {
		return illegalf("raid requires a room")
	}
	if g.Raid != nil {
		return illegalf("a raid is already in progress")
	}
	if !raidEligible(g, *room) {
		return illegalf("room %s is empty and cannot be raided", room)
	}
	if !CanInitiateRaid(g, *room) {
		return illegalf("room %s cannot be raided right now", room)
	}
	if err := SpendActionPoints(g, side, 1); err != nil {
		return err
	}
	return InitiateRaid(g, *room)
}

func handlePlayCard(g *core.GameState, side core.Side, action core.UserAction) error {
	if err := requireMainPhase(g, side); err != nil {
		return err
	}
	if action.Card == nil || action.Target == nil {
		return illegalf("play card action is missing its card or target")
	}
	return InitiatePlayCard(g, side, *action.Card, *action.Target, false)
}

func handleActivateAbility(g *core.GameState, side core.Side, action core.UserAction) error {
	if err := requireMainPhase(g, side); err != nil {
		return err
	}
	if action.Ability == nil {
		return illegalf("activate ability action is missing its ability")
	}
	target := core.NoTarget()
	if action.Target != nil {
		target = *action.Target
	}
	return InitiateActivateAbility(g, side, *action.Ability, target)
}

// handleSummonProject unveils a face-down project occupant. Unveiling costs
// the project's mana cost but no action point.
func handleSummonProject(g *core.GameState, side core.Side, id *core.CardID) error {
	if side != core.SideCovenant {
		return illegalf("only the Covenant summons projects")
	}
	if err := requireMainPhase(g, side); err != nil {
		return err
	}
	if id == nil {
		return illegalf("summon project action is missing its card")
	}
	card, err := g.Card(*id)
	if err != nil {
		return illegalf("%v", err)
	}
	if card.Side() != side {
		return illegalf("card %s is not the Covenant's", id)
	}
	if card.FaceUp {
		return illegalf("card %s is already face up", id)
	}
	if card.Position.Kind != core.PositionRoom || card.Position.Role != core.RoleOccupant {
		return illegalf("card %s is not an occupant", id)
	}
	def, err := g.Definition(*id)
	if err != nil {
		return internalf("%v", err)
	}
	if def.Type != core.TypeProject {
		return illegalf("card %s is not a project", id)
	}
	cost, err := ManaCost(g, *id)
	if err != nil {
		return err
	}
	if cost == nil {
		return illegalf("project %s cannot be summoned for mana", id)
	}
	if def.Cost.Custom != nil && !def.Cost.Custom.CanPay(g, *id) {
		return illegalf("project %s's summon cost cannot be paid", id)
	}
	if err := SpendMana(g, side, *cost); err != nil {
		return err
	}
	if def.Cost.Custom != nil {
		if err := def.Cost.Custom.Pay(g, *id); err != nil {
			return err
		}
	}
	if err := TurnFaceUp(g, *id); err != nil {
		return err
	}
	g.RecordUpdate(core.GameUpdate{Kind: core.UpdateUnveilProject, Side: side, Card: id})
	return dispatch.InvokeEvent(g, core.Event{Kind: core.EventCardUnveiled, Side: side, Card: id})
}

func handleRemoveCurse(g *core.GameState, side core.Side) error {
	if side != core.SideRiftcaller {
		return illegalf("only the Riftcaller removes curses")
	}
	if err := requireMainPhase(g, side); err != nil {
		return err
	}
	player := g.Player(side)
	if player.Curses < 1 {
		return illegalf("%s has no curses to remove", side)
	}
	if player.Mana < core.RemoveCurseCost {
		return illegalf("removing a curse costs %d mana", core.RemoveCurseCost)
	}
	if err := SpendActionPoints(g, side, 1); err != nil {
		return err
	}
	if err := SpendMana(g, side, core.RemoveCurseCost); err != nil {
		return err
	}
	player.Curses--
	g.RecordUpdate(core.GameUpdate{Kind: core.UpdateCurse, Side: side, Amount: player.Curses})
	return dispatch.InvokeEvent(g, core.Event{Kind: core.EventCurseRemoved, Side: side, Amount: 1})
}

// handleDispelEvocation destroys a Riftcaller evocation. The action is only
// open to the Covenant while the Riftcaller is cursed.
func handleDispelEvocation(g *core.GameState, side core.Side, id *core.CardID) error {
	if side != core.SideCovenant {
		return illegalf("only the Covenant dispels evocations")
	}
	if err := requireMainPhase(g, side); err != nil {
		return err
	}
	if g.Player(core.SideRiftcaller).Curses < 1 {
		return illegalf("dispelling requires the Riftcaller to be cursed")
	}
	if id == nil {
		return illegalf("dispel evocation action is missing its card")
	}
	card, err := g.Card(*id)
	if err != nil {
		return illegalf("%v", err)
	}
	if !card.InPlay() || !card.FaceUp {
		return illegalf("card %s is not an evocation in play", id)
	}
	def, err := g.Definition(*id)
	if err != nil {
		return internalf("%v", err)
	}
	if def.Type != core.TypeEvocation {
		return illegalf("card %s is not an evocation", id)
	}
	if g.Player(side).Mana < core.DispelEvocationCost {
		return illegalf("dispelling an evocation costs %d mana", core.DispelEvocationCost)
	}
	if err := SpendActionPoints(g, side, 1); err != nil {
		return err
	}
	if err := SpendMana(g, side, core.DispelEvocationCost); err != nil {
		return err
	}
	PushDestroy(g, []core.CardID{*id}, core.AbilityID{})
	return nil
}
