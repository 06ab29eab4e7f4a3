package rules

import (
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
)

// LegalActions enumerates every action the given side may submit right now.
// The precedence ladder matches HandleAction: mulligans first, then the
// blocking prompt, then the raid decision, then the main-phase menu. An
// empty list means the side is waiting on the opponent. Resign is always
// accepted by HandleAction and never enumerated.
func LegalActions(g *core.GameState, side core.Side) ([]core.UserAction, error) {
	if g.Info.Phase.Kind == core.PhaseResolveMulligans {
		if g.Info.Phase.Mulligans.Decision(side) != nil {
			return nil, nil
		}
		return []core.UserAction{
			core.MulliganDecisionAction(core.MulliganKeep),
			core.MulliganDecisionAction(core.MulliganTakeMulligan),
		}, nil
	}
	if g.GameOver() {
		return nil, illegalf("game %s is over", g.ID)
	}
	if prompt := CurrentPrompt(g, side); prompt != nil {
		return promptActions(g, side, prompt), nil
	}
	if CurrentPrompt(g, side.Opponent()) != nil {
		return nil, nil
	}
	if g.Raid != nil {
		var out []core.UserAction
		if rp := g.Raid.PromptFor(side); rp != nil {
			for i := range rp.Choices {
				out = append(out, core.RaidChoiceAction(i))
			}
		}
		return out, nil
	}
	turn := g.Info.Turn
	if turn.Side == side && g.Info.TurnState == core.TurnActive {
		if g.Player(side).Actions >= 1 {
			return mainPhaseActions(g, side), nil
		}
		return []core.UserAction{core.EndTurnAction()}, nil
	}
	if g.Info.TurnState == core.TurnEnded && turn.Side != side {
		return []core.UserAction{core.StartTurnAction()}, nil
	}
	return nil, nil
}

// promptActions enumerates responses to the surfaced prompt. Card selectors
// produce one representative submission; any subset the validation accepts
// is equally legal.
func promptActions(g *core.GameState, side core.Side, prompt *core.GamePrompt) []core.UserAction {
	switch prompt.Kind {
	case core.PromptButtons:
		out := make([]core.UserAction, 0, len(prompt.Choices))
		for i := range prompt.Choices {
			out = append(out, core.PromptChoiceAction(i))
		}
		return out
	case core.PromptCardSelector:
		if prompt.Selector == nil {
			return nil
		}
		pool := make([]core.CardID, 0, len(prompt.Selector.Chosen)+len(prompt.Selector.Unchosen))
		pool = append(pool, prompt.Selector.Chosen...)
		pool = append(pool, prompt.Selector.Unchosen...)
		count := len(pool)
		validation := prompt.Selector.Validation
		if validation.Exactly != nil && *validation.Exactly < count {
			count = *validation.Exactly
		}
		if validation.AtMost != nil && *validation.AtMost < count {
			count = *validation.AtMost
		}
		return []core.UserAction{core.CardSelectorSubmitAction(pool[:count])}
	case core.PromptPlayCardBrowser:
		if prompt.Browser == nil {
			return nil
		}
		var out []core.UserAction
		for _, id := range prompt.Browser.Cards {
			out = append(out, playCardActions(g, side, id)...)
		}
		return append(out, core.SkipPlayingCardAction())
	case core.PromptRoomSelector:
		if prompt.Rooms == nil {
			return nil
		}
		out := make([]core.UserAction, 0, len(prompt.Rooms.ValidRooms))
		for _, room := range prompt.Rooms.ValidRooms {
			out = append(out, core.RoomSelectAction(room))
		}
		return out
	}
	return nil
}

// mainPhaseActions is the menu for the active side with action points left.
func mainPhaseActions(g *core.GameState, side core.Side) []core.UserAction {
	var out []core.UserAction
	if side == core.SideRiftcaller {
		for _, room := range core.AllRooms {
			if raidEligible(g, room) && CanInitiateRaid(g, room) {
				out = append(out, core.InitiateRaidAction(room))
			}
		}
	}
	if side == core.SideCovenant && g.Player(side).Mana >= 1 {
		for _, room := range core.OuterRooms {
			if len(g.Occupants(room)) > 0 && CanProgressRoom(g, room) {
				out = append(out, core.ProgressRoomAction(room))
			}
		}
	}
	for _, card := range g.Hand(side) {
		out = append(out, playCardActions(g, side, card.ID)...)
	}
	for _, card := range g.AllPermanents() {
		if card.Side() != side || !card.FaceUp {
			continue
		}
		def, err := g.Definition(card.ID)
		if err != nil {
			continue
		}
		for i := range def.Abilities {
			if def.Abilities[i].Cost == nil {
				continue
			}
			ability := core.AbilityID{Card: card.ID, Index: i}
			if ok, err := CanPayAbilityCost(g, side, ability); err == nil && ok {
				out = append(out, core.ActivateAbilityAction(ability, core.NoTarget()))
			}
		}
	}
	if side == core.SideCovenant {
		out = append(out, summonProjectActions(g)...)
	}
	if len(g.Deck(side)) > 0 {
		out = append(out, core.DrawCardAction())
	}
	out = append(out, core.GainManaAction())
	if side == core.SideRiftcaller && g.Player(side).Curses >= 1 && g.Player(side).Mana >= core.RemoveCurseCost {
		out = append(out, core.RemoveCurseAction())
	}
	if side == core.SideCovenant && g.Player(core.SideRiftcaller).Curses >= 1 && g.Player(side).Mana >= core.DispelEvocationCost {
		for _, card := range g.ArenaItems(core.SlotEvocations) {
			if card.FaceUp {
				out = append(out, core.DispelEvocationAction(card.ID))
			}
		}
	}
	return append(out, core.EndTurnAction())
}

// playCardActions expands one card into its playable targets: minions may
// defend any room, schemes and projects occupy outer rooms, and everything
// else plays without a target. Rooms at their limit stay enumerable; the
// play-card machine offers the sacrifice prompt for them.
func playCardActions(g *core.GameState, side core.Side, id core.CardID) []core.UserAction {
	def, err := g.Definition(id)
	if err != nil {
		return nil
	}
	if !CanPlayCard(g, side, id) {
		return nil
	}
	if ok, err := CanPayCardCost(g, side, id); err != nil || !ok {
		return nil
	}
	var out []core.UserAction
	switch def.Type {
	case core.TypeMinion:
		for _, room := range core.AllRooms {
			out = append(out, core.PlayCardAction(id, core.RoomTarget(room)))
		}
	case core.TypeScheme, core.TypeProject:
		for _, room := range core.OuterRooms {
			out = append(out, core.PlayCardAction(id, core.RoomTarget(room)))
		}
	default:
		out = append(out, core.PlayCardAction(id, core.NoTarget()))
	}
	return out
}

// raidEligible reports whether a room can be raided at all: inner rooms
// always, outer rooms only when something is in them.
func raidEligible(g *core.GameState, room core.RoomID) bool {
	if room.IsInner() {
		return true
	}
	return len(g.Defenders(room)) > 0 || len(g.Occupants(room)) > 0
}

// summonProjectActions lists the face-down projects the Covenant could
// unveil right now. Unveiling costs mana but no action point.
func summonProjectActions(g *core.GameState) []core.UserAction {
	var out []core.UserAction
	for _, room := range core.OuterRooms {
		for _, card := range g.Occupants(room) {
			if card.FaceUp {
				continue
			}
			def, err := g.Definition(card.ID)
			if err != nil || def.Type != core.TypeProject {
				continue
			}
			cost, err := ManaCost(g, card.ID)
			if err != nil || cost == nil {
				continue
			}
			if g.Player(core.SideCovenant).Mana < *cost {
				continue
			}
			if def.Cost.Custom != nil && !def.Cost.Custom.CanPay(g, card.ID) {
				continue
			}
			out = append(out, core.SummonProjectAction(card.ID))
		}
	}
	return out
}
