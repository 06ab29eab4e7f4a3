package rules

import (
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/game/dispatch"
)

// CurrentPrompt returns the prompt a side must answer right now, or nil.
// Surfacing is effectful: an entry queued by an ability re-queries that
// ability and is dropped if it no longer wants to show anything, unpayable
// button choices are filtered out, and prompts left empty or offering only
// continue choices resolve themselves. The surviving prompt is stored back
// so that choice indices stay stable between enumeration and submission.
func CurrentPrompt(g *core.GameState, side core.Side) *core.GamePrompt {
	stack := &g.Player(side).Prompts
	for {
		top := stack.Top()
		if top == nil {
			return nil
		}
		if top.Source != nil {
			fresh := dispatch.QueryPromptForAbility(g, top.Source.Ability, top.Source.Data)
			if fresh == nil {
				stack.Pop()
				g.RecordUpdate(core.GameUpdate{Kind: core.UpdateClosePrompt, Side: side})
				continue
			}
			top.Prompt = fresh
		}
		prompt := top.Prompt
		if prompt.Kind != core.PromptButtons {
			return prompt
		}
		var choices []core.PromptChoice
		for _, choice := range prompt.Choices {
			if ChoicePayable(g, choice) {
				choices = append(choices, choice)
			}
		}
		if len(choices) == 0 || allContinue(choices) {
			stack.Pop()
			g.RecordUpdate(core.GameUpdate{Kind: core.UpdateClosePrompt, Side: side})
			continue
		}
		prompt.Choices = choices
		return prompt
	}
}

func allContinue(choices []core.PromptChoice) bool {
	for _, choice := range choices {
		if !choice.IsContinueOnly() {
			return false
		}
	}
	return true
}

// PushPrompt adds an engine-built prompt to a side's stack.
func PushPrompt(g *core.GameState, side core.Side, prompt *core.GamePrompt) {
	g.Player(side).Prompts.Push(core.PromptEntry{Prompt: prompt})
	g.RecordUpdate(core.GameUpdate{Kind: core.UpdateShowPrompt, Side: side})
}

// PushAbilityPrompt queries an ability for a prompt and, if it produces
// one, queues it with a source record so later surfacing re-queries it.
// Returns whether a prompt was queued.
func PushAbilityPrompt(g *core.GameState, side core.Side, ability core.AbilityID, data uint32) bool {
	prompt := dispatch.QueryPromptForAbility(g, ability, data)
	if prompt == nil {
		return false
	}
	g.Player(side).Prompts.Push(core.PromptEntry{
		Prompt: prompt,
		Source: &core.AbilityPromptSource{Ability: ability, Data: data},
	})
	g.RecordUpdate(core.GameUpdate{Kind: core.UpdateShowPrompt, Side: side})
	return true
}

// HandlePromptChoice resolves a button-prompt answer. The entry is popped
// before its effects apply so that effects which push further prompts
// stack above the answered one.
func HandlePromptChoice(g *core.GameState, side core.Side, index int) error {
	prompt := CurrentPrompt(g, side)
	if prompt == nil {
		return illegalf("%s has no prompt to answer", side)
	}
	if prompt.Kind != core.PromptButtons {
		return illegalf("current prompt is %s, not buttons", prompt.Kind)
	}
	if index < 0 || index >= len(prompt.Choices) {
		return illegalf("choice index %d out of range", index)
	}
	choice := prompt.Choices[index]
	entry := g.Player(side).Prompts.Pop()
	g.RecordUpdate(core.GameUpdate{Kind: core.UpdateClosePrompt, Side: side})
	source := core.AbilityID{}
	if entry.Source != nil {
		source = entry.Source.Ability
	} else if choice.Anchor != nil {
		source = core.AbilityID{Card: *choice.Anchor}
	}
	return ApplyEffects(g, choice.Effects, source)
}

// HandleCardSelectorSubmit resolves a card-selector prompt with the final
// chosen set. Every chosen card moves to the selector's target position.
// A discard-to-hand-size selector completes the end of turn it interrupted.
func HandleCardSelectorSubmit(g *core.GameState, side core.Side, chosen []core.CardID) error {
	prompt := CurrentPrompt(g, side)
	if prompt == nil {
		return illegalf("%s has no prompt to answer", side)
	}
	if prompt.Kind != core.PromptCardSelector || prompt.Selector == nil {
		return illegalf("current prompt is %s, not a card selector", prompt.Kind)
	}
	selector := prompt.Selector
	if !selector.Validation.Valid(len(chosen)) {
		return illegalf("selector rejects choosing %d cards", len(chosen))
	}
	candidates := make(map[core.CardID]bool, len(selector.Unchosen)+len(selector.Chosen))
	for _, id := range selector.Unchosen {
		candidates[id] = true
	}
	for _, id := range selector.Chosen {
		candidates[id] = true
	}
	seen := make(map[core.CardID]bool, len(chosen))
	for _, id := range chosen {
		if !candidates[id] {
			return illegalf("card %s is not offered by the selector", id)
		}
		if seen[id] {
			return illegalf("card %s chosen twice", id)
		}
		seen[id] = true
	}
	context := prompt.Context.Kind
	g.Player(side).Prompts.Pop()
	g.RecordUpdate(core.GameUpdate{Kind: core.UpdateClosePrompt, Side: side})
	for _, id := range chosen {
		if err := MoveCard(g, id, selector.Target.Position); err != nil {
			return err
		}
	}
	if context == core.ContextDiscardToHandSize {
		return endTurnInternal(g, side)
	}
	return nil
}

// HandleRoomSelect resolves a room-selector prompt.
func HandleRoomSelect(g *core.GameState, side core.Side, room core.RoomID) error {
	prompt := CurrentPrompt(g, side)
	if prompt == nil {
		return illegalf("%s has no prompt to answer", side)
	}
	if prompt.Kind != core.PromptRoomSelector || prompt.Rooms == nil {
		return illegalf("current prompt is %s, not a room selector", prompt.Kind)
	}
	valid := false
	for _, r := range prompt.Rooms.ValidRooms {
		if r == room {
			valid = true
			break
		}
	}
	if !valid {
		return illegalf("room %s is not offered by the selector", room)
	}
	effect := prompt.Rooms.Effect
	g.Player(side).Prompts.Pop()
	g.RecordUpdate(core.GameUpdate{Kind: core.UpdateClosePrompt, Side: side})
	switch effect {
	case core.RoomEffectProgressRoom:
		return progressRoomOccupants(g, room)
	case core.RoomEffectInitiateRaid:
		return InitiateRaid(g, room)
	}
	return internalf("unknown room selector effect %d", effect)
}

// HandleSkipPlayingCard resolves a play-card browser by declining to play.
// Unplayed cards move to the browser's disposal position when it has one.
func HandleSkipPlayingCard(g *core.GameState, side core.Side) error {
	prompt := CurrentPrompt(g, side)
	if prompt == nil {
		return illegalf("%s has no prompt to answer", side)
	}
	if prompt.Kind != core.PromptPlayCardBrowser || prompt.Browser == nil {
		return illegalf("current prompt is %s, not a play-card browser", prompt.Kind)
	}
	browser := prompt.Browser
	g.Player(side).Prompts.Pop()
	g.RecordUpdate(core.GameUpdate{Kind: core.UpdateClosePrompt, Side: side})
	if browser.UnplayedTarget != nil {
		for _, id := range browser.Cards {
			if err := MoveCard(g, id, *browser.UnplayedTarget); err != nil {
				return err
			}
		}
	}
	return nil
}
