package rules

import (
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/game/dispatch"
)

// InitiateRaid starts a raid against a room. The action point cost, when
// one applies, is paid by the caller; effects that start raids pay nothing.
func InitiateRaid(g *core.GameState, room core.RoomID) error {
	if g.Raid != nil {
		return illegalf("a raid is already in progress")
	}
	if !room.Valid() {
		return illegalf("unknown room %d", int(room))
	}
	if !CanInitiateRaid(g, room) {
		return illegalf("room %s cannot be raided right now", room)
	}
	g.Raid = &core.RaidData{
		RaidID:    g.NewRaidID(),
		Target:    room,
		Step:      core.RaidStepBegin,
		Encounter: len(g.Defenders(room)),
		Order:     g.NextOrder(),
	}
	target := room
	g.RecordUpdate(core.GameUpdate{Kind: core.UpdateInitiateRaid, Side: core.SideRiftcaller, Room: &target})
	return nil
}

func stepRaid(g *core.GameState) error {
	r := g.Raid
	if r == nil {
		return internalf("raid step with no raid in progress")
	}
	room := r.Target
	switch r.Step {
	case core.RaidStepBegin:
		r.Step = core.RaidStepNextDefender
		if err := dispatch.InvokeEvent(g, core.Event{Kind: core.EventRaidBegin, Side: core.SideRiftcaller, Room: &room, RaidID: r.RaidID}); err != nil {
			return err
		}
		g.TurnCounters(core.SideRiftcaller).RaidsInitiated++
		g.History.AddEvent(core.HistoryEvent{Kind: core.HistoryRaidInitiated, Side: core.SideRiftcaller, Room: &room})

	case core.RaidStepNextDefender:
		defenders := g.Defenders(room)
		// Effects during the raid can shrink the defender list.
		if r.Encounter > len(defenders) {
			r.Encounter = len(defenders)
		}
		if r.Encounter <= 0 {
			r.Minion = nil
			r.Step = core.RaidStepApproachRoom
			return nil
		}
		minion := defenders[r.Encounter-1].ID
		r.Minion = &minion
		card, err := g.Card(minion)
		if err != nil {
			return internalf("%v", err)
		}
		if card.FaceUp {
			r.Step = core.RaidStepEncounterMinion
		} else {
			r.Step = core.RaidStepPopulateSummonPrompt
		}
		if err := dispatch.InvokeEvent(g, core.Event{Kind: core.EventMinionApproach, Side: core.SideRiftcaller, Card: &minion, RaidID: r.RaidID}); err != nil {
			return err
		}
		g.TurnCounters(core.SideRiftcaller).MinionsApproached++
		g.History.AddEvent(core.HistoryEvent{Kind: core.HistoryMinionApproached, Side: core.SideRiftcaller, Card: &minion})

	case core.RaidStepPopulateSummonPrompt:
		// The step repeats until the Covenant decides; the decision handler
		// advances it.
		return populateSummonPrompt(g, r)

	case core.RaidStepNextEncounter:
		r.Encounter--
		r.Minion = nil
		r.Step = core.RaidStepNextDefender

	case core.RaidStepEncounterMinion:
		if r.Minion == nil {
			return internalf("encounter step with no minion")
		}
		minion := *r.Minion
		r.Step = core.RaidStepPopulateEncounterPrompt
		return dispatch.InvokeEvent(g, core.Event{Kind: core.EventMinionEncounter, Side: core.SideRiftcaller, Card: &minion, RaidID: r.RaidID})

	case core.RaidStepPopulateEncounterPrompt:
		return populateEncounterPrompt(g, r)

	case core.RaidStepMinionDefeated:
		if r.Minion == nil {
			return internalf("minion defeated step with no minion")
		}
		minion := *r.Minion
		r.Step = core.RaidStepNextEncounter
		if err := MoveCard(g, minion, core.DiscardPosition(core.SideCovenant)); err != nil {
			return err
		}
		if err := dispatch.InvokeEvent(g, core.Event{Kind: core.EventMinionDefeated, Side: core.SideRiftcaller, Card: &minion, RaidID: r.RaidID}); err != nil {
			return err
		}
		g.TurnCounters(core.SideRiftcaller).MinionsDefeated++
		g.History.AddEvent(core.HistoryEvent{Kind: core.HistoryMinionDefeated, Side: core.SideRiftcaller, Card: &minion})

	case core.RaidStepApproachRoom:
		r.Step = core.RaidStepAccessStart
		return dispatch.InvokeEvent(g, core.Event{Kind: core.EventRoomApproach, Side: core.SideRiftcaller, Room: &room, RaidID: r.RaidID})

	case core.RaidStepAccessStart:
		r.Step = core.RaidStepBuildAccessSet
		if err := dispatch.InvokeEvent(g, core.Event{Kind: core.EventRoomAccessStart, Side: core.SideRiftcaller, Room: &room, RaidID: r.RaidID}); err != nil {
			return err
		}
		g.TurnCounters(core.SideRiftcaller).RoomsAccessed++
		g.History.AddEvent(core.HistoryEvent{Kind: core.HistoryRoomAccessed, Side: core.SideRiftcaller, Room: &room})

	case core.RaidStepBuildAccessSet:
		if !r.IsCustomAccess {
			accessed, err := buildAccessSet(g, r)
			if err != nil {
				return err
			}
			r.Accessed = accessed
		}
		r.Step = core.RaidStepRevealAccessedCards

	case core.RaidStepRevealAccessedCards:
		accessed := r.Accessed
		r.Step = core.RaidStepAccessCards
		for _, id := range accessed {
			if err := RevealCardTo(g, id, core.SideRiftcaller); err != nil {
				return err
			}
		}

	case core.RaidStepAccessCards:
		// Cards that left their zone since the set was built are no longer
		// accessible.
		var live []core.CardID
		for _, id := range r.Accessed {
			if _, err := g.Card(id); err == nil {
				live = append(live, id)
			}
		}
		r.Accessed = live
		r.Step = core.RaidStepPopulateAccessPrompt

	case core.RaidStepPopulateAccessPrompt:
		return populateAccessPrompt(g, r)

	case core.RaidStepFinishRaid:
		return finishRaid(g)

	default:
		return internalf("raid in unknown step %v", r.Step)
	}
	return nil
}

// populateSummonPrompt offers the Covenant the summon decision for the
// face-down defender being approached. An unaffordable summon is filtered
// out, leaving only the pass.
func populateSummonPrompt(g *core.GameState, r *core.RaidData) error {
	if r.Minion == nil {
		return internalf("summon prompt with no minion")
	}
	minion := *r.Minion
	var choices []core.RaidChoice
	cost, err := ManaCost(g, minion)
	if err != nil {
		return err
	}
	if cost != nil && CanSummon(g, minion) && g.Player(core.SideCovenant).Mana >= *cost {
		affordable := true
		def, err := g.Definition(minion)
		if err != nil {
			return internalf("%v", err)
		}
		if def.Cost.Custom != nil && def.Cost.Custom.CanPay != nil && !def.Cost.Custom.CanPay(g, minion) {
			affordable = false
		}
		if affordable {
			choices = append(choices, core.RaidChoice{Kind: core.RaidChoiceSummonMinion, Minion: &minion, ManaCost: *cost})
		}
	}
	choices = append(choices, core.RaidChoice{Kind: core.RaidChoiceDoNotSummon, Minion: &minion})
	r.Prompt = &core.RaidPrompt{Side: core.SideCovenant, Choices: choices}
	return nil
}

// populateEncounterPrompt offers the Riftcaller their weapons against the
// encountered minion, the pass that fires the minion's combat ability, and
// the soft quit.
func populateEncounterPrompt(g *core.GameState, r *core.RaidData) error {
	if r.Minion == nil {
		return internalf("encounter prompt with no minion")
	}
	minion := *r.Minion
	minionDef, err := g.Definition(minion)
	if err != nil {
		return internalf("%v", err)
	}
	var choices []core.RaidChoice
	for _, item := range g.ArenaItems(core.SlotWeapons) {
		if !item.FaceUp {
			continue
		}
		weaponDef, err := g.Definition(item.ID)
		if err != nil {
			return internalf("%v", err)
		}
		if !weaponDef.IsWeapon() || weaponDef.Resonance == nil || minionDef.Resonance == nil {
			continue
		}
		if !weaponDef.Resonance.Matches(*minionDef.Resonance) {
			continue
		}
		choice, ok, err := weaponInteraction(g, item.ID, minion)
		if err != nil {
			return err
		}
		if !ok || g.Player(core.SideRiftcaller).Mana < choice.ManaCost {
			continue
		}
		choices = append(choices, choice)
	}
	choices = append(choices, core.RaidChoice{Kind: core.RaidChoiceFireCombatAbility, Minion: &minion})
	choices = append(choices, core.RaidChoice{Kind: core.RaidChoiceEndRaid})
	r.Prompt = &core.RaidPrompt{Side: core.SideRiftcaller, Choices: choices}
	return nil
}

// weaponInteraction computes the cheapest use of a weapon against a
// minion: enough boost activations to cover the minion's health plus
// whatever shield survives the weapon's breach. Reports false when the
// weapon cannot reach the required attack.
func weaponInteraction(g *core.GameState, weapon, minion core.CardID) (core.RaidChoice, bool, error) {
	weaponDef, err := g.Definition(weapon)
	if err != nil {
		return core.RaidChoice{}, false, internalf("%v", err)
	}
	base, err := BaseAttack(g, weapon)
	if err != nil {
		return core.RaidChoice{}, false, err
	}
	health, err := HealthValue(g, minion)
	if err != nil {
		return core.RaidChoice{}, false, err
	}
	shield, err := ShieldValue(g, minion, &weapon)
	if err != nil {
		return core.RaidChoice{}, false, err
	}
	breach, err := BreachValue(g, weapon)
	if err != nil {
		return core.RaidChoice{}, false, err
	}
	effectiveShield := shield - breach
	if effectiveShield < 0 {
		effectiveShield = 0
	}
	manaCost := 0
	if weaponDef.Stats.UseCost != nil {
		manaCost = *weaponDef.Stats.UseCost
	}
	boosts := 0
	if deficit := health + effectiveShield - base; deficit > 0 {
		boost := weaponDef.Stats.Boost
		if boost == nil || boost.Bonus <= 0 {
			return core.RaidChoice{}, false, nil
		}
		boosts = (deficit + boost.Bonus - 1) / boost.Bonus
		manaCost += boosts * boost.Cost
	}
	return core.RaidChoice{
		Kind:       core.RaidChoiceUseWeapon,
		Weapon:     &weapon,
		Minion:     &minion,
		ManaCost:   manaCost,
		BoostCount: boosts,
	}, true, nil
}

// populateAccessPrompt offers score and raze choices over the remaining
// accessed cards. Once nothing is left the raid finishes on its own.
func populateAccessPrompt(g *core.GameState, r *core.RaidData) error {
	if len(r.Accessed) == 0 {
		r.Step = core.RaidStepFinishRaid
		return nil
	}
	var choices []core.RaidChoice
	for _, id := range r.Accessed {
		accessed := id
		def, err := g.Definition(id)
		if err != nil {
			return internalf("%v", err)
		}
		if def.Type == core.TypeScheme && def.Stats.Points != nil && CanScoreAccessedCard(g, id) {
			choices = append(choices, core.RaidChoice{Kind: core.RaidChoiceScoreCard, Card: &accessed})
		}
		raze, err := RazeCost(g, id)
		if err != nil {
			return err
		}
		if raze != nil && g.Player(core.SideRiftcaller).Mana >= *raze {
			choices = append(choices, core.RaidChoice{Kind: core.RaidChoiceRazeCard, Card: &accessed, ManaCost: *raze})
		}
	}
	choices = append(choices, core.RaidChoice{Kind: core.RaidChoiceFinishRaid})
	r.Prompt = &core.RaidPrompt{Side: core.SideRiftcaller, Choices: choices}
	return nil
}

// buildAccessSet selects the cards a raid accesses: the top of the deck
// for the Vault, random cards from hand for the Sanctum, the whole discard
// pile for the Crypt, and the occupants for an outer room.
func buildAccessSet(g *core.GameState, r *core.RaidData) ([]core.CardID, error) {
	switch r.Target {
	case core.RoomVault:
		deck := g.Deck(core.SideCovenant)
		n := VaultAccessCount(g, r.RaidID)
		if n > len(deck) {
			n = len(deck)
		}
		out := make([]core.CardID, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, deck[i].ID)
		}
		return out, nil
	case core.RoomSanctum:
		hand := g.Hand(core.SideCovenant)
		n := SanctumAccessCount(g, r.RaidID)
		out := make([]core.CardID, 0, n)
		for _, i := range g.Rng.Sample(len(hand), n) {
			out = append(out, hand[i].ID)
		}
		return out, nil
	case core.RoomCrypt:
		discard := g.DiscardPile(core.SideCovenant)
		out := make([]core.CardID, 0, len(discard))
		for _, card := range discard {
			out = append(out, card.ID)
		}
		return out, nil
	default:
		occupants := g.Occupants(r.Target)
		out := make([]core.CardID, 0, len(occupants))
		for _, card := range occupants {
			out = append(out, card.ID)
		}
		return out, nil
	}
}

// HandleRaidChoice resolves one raid decision submitted by the side the
// pending prompt belongs to.
func HandleRaidChoice(g *core.GameState, side core.Side, index int) error {
	r := g.Raid
	if r == nil {
		return illegalf("no raid in progress")
	}
	prompt := r.PromptFor(side)
	if prompt == nil {
		return illegalf("no raid decision pending for %s", side)
	}
	if index < 0 || index >= len(prompt.Choices) {
		return illegalf("raid choice index %d out of range", index)
	}
	choice := prompt.Choices[index]
	r.Prompt = nil
	return applyRaidChoice(g, r, choice)
}

func applyRaidChoice(g *core.GameState, r *core.RaidData, choice core.RaidChoice) error {
	switch choice.Kind {
	case core.RaidChoiceSummonMinion:
		return summonDefender(g, r, choice)

	case core.RaidChoiceDoNotSummon:
		r.Step = core.RaidStepNextEncounter
		return nil

	case core.RaidChoiceUseWeapon:
		return useWeapon(g, r, choice)

	case core.RaidChoiceFireCombatAbility:
		if choice.Minion == nil {
			return internalf("combat choice without a minion")
		}
		minion := *choice.Minion
		if err := dispatch.InvokeEvent(g, core.Event{Kind: core.EventMinionCombat, Side: core.SideCovenant, Card: &minion, RaidID: r.RaidID}); err != nil {
			return err
		}
		// The combat ability may have ended the raid or the game; if not,
		// the raider continues past the surviving minion.
		if g.Raid != nil {
			g.Raid.Step = core.RaidStepNextEncounter
		}
		return nil

	case core.RaidChoiceScoreCard:
		if choice.Card == nil {
			return internalf("score choice without a card")
		}
		removeAccessed(r, *choice.Card)
		return scoreSchemeCard(g, *choice.Card)

	case core.RaidChoiceRazeCard:
		return razeAccessedCard(g, r, choice)

	case core.RaidChoiceFinishRaid:
		r.Step = core.RaidStepFinishRaid
		return nil

	case core.RaidChoiceEndRaid:
		return failRaid(g)
	}
	return internalf("unknown raid choice kind %v", choice.Kind)
}

func summonDefender(g *core.GameState, r *core.RaidData, choice core.RaidChoice) error {
	if choice.Minion == nil {
		return internalf("summon choice without a minion")
	}
	minion := *choice.Minion
	r.Step = core.RaidStepEncounterMinion
	if choice.ManaCost > 0 {
		if err := SpendMana(g, core.SideCovenant, choice.ManaCost); err != nil {
			return err
		}
	}
	def, err := g.Definition(minion)
	if err != nil {
		return internalf("%v", err)
	}
	if def.Cost.Custom != nil && def.Cost.Custom.Pay != nil {
		if err := def.Cost.Custom.Pay(g, minion); err != nil {
			return err
		}
	}
	if err := TurnFaceUp(g, minion); err != nil {
		return err
	}
	g.RecordUpdate(core.GameUpdate{Kind: core.UpdateSummonMinion, Side: core.SideCovenant, Card: &minion})
	if err := dispatch.InvokeEvent(g, core.Event{Kind: core.EventCardSummoned, Side: core.SideCovenant, Card: &minion, RaidID: r.RaidID}); err != nil {
		return err
	}
	g.TurnCounters(core.SideCovenant).MinionsSummoned++
	g.History.AddEvent(core.HistoryEvent{Kind: core.HistoryMinionSummoned, Side: core.SideCovenant, Card: &minion})
	return nil
}

func useWeapon(g *core.GameState, r *core.RaidData, choice core.RaidChoice) error {
	if choice.Weapon == nil || choice.Minion == nil {
		return internalf("weapon choice missing weapon or minion")
	}
	weapon := *choice.Weapon
	minion := *choice.Minion
	r.Step = core.RaidStepMinionDefeated
	if choice.ManaCost > 0 {
		if err := SpendMana(g, core.SideRiftcaller, choice.ManaCost); err != nil {
			return err
		}
	}
	if choice.BoostCount > 0 {
		card, err := g.Card(weapon)
		if err != nil {
			return internalf("%v", err)
		}
		card.RecordFact(core.CardFact{Kind: core.FactBoostCount, Amount: choice.BoostCount, RaidID: r.RaidID})
	}
	g.RecordUpdate(core.GameUpdate{Kind: core.UpdateCombat, Side: core.SideRiftcaller, Card: &weapon, Cards: []core.CardID{minion}})
	return dispatch.InvokeEvent(g, core.Event{
		Kind:   core.EventWeaponUsed,
		Side:   core.SideRiftcaller,
		Card:   &weapon,
		Cards:  []core.CardID{minion},
		RaidID: r.RaidID,
	})
}

func razeAccessedCard(g *core.GameState, r *core.RaidData, choice core.RaidChoice) error {
	if choice.Card == nil {
		return internalf("raze choice without a card")
	}
	id := *choice.Card
	removeAccessed(r, id)
	if choice.ManaCost > 0 {
		if err := SpendMana(g, core.SideRiftcaller, choice.ManaCost); err != nil {
			return err
		}
	}
	g.RecordUpdate(core.GameUpdate{Kind: core.UpdateRazeCard, Side: core.SideRiftcaller, Card: &id})
	if err := MoveCard(g, id, core.DiscardPosition(id.Side)); err != nil {
		return err
	}
	if err := dispatch.InvokeEvent(g, core.Event{Kind: core.EventCardRazed, Side: core.SideRiftcaller, Card: &id, RaidID: r.RaidID}); err != nil {
		return err
	}
	g.History.AddEvent(core.HistoryEvent{Kind: core.HistoryCardRazed, Side: core.SideRiftcaller, Card: &id})
	return nil
}

func removeAccessed(r *core.RaidData, id core.CardID) {
	for i, accessed := range r.Accessed {
		if accessed == id {
			r.Accessed = append(r.Accessed[:i], r.Accessed[i+1:]...)
			return
		}
	}
}

// finishRaid ends the raid in success. The raid is cleared before the
// events fire so handlers observe a settled board.
func finishRaid(g *core.GameState) error {
	r := g.Raid
	if r == nil {
		return nil
	}
	room := r.Target
	raidID := r.RaidID
	g.Raid = nil
	if err := dispatch.InvokeEvent(g, core.Event{Kind: core.EventRoomAccessEnd, Side: core.SideRiftcaller, Room: &room, RaidID: raidID}); err != nil {
		return err
	}
	if err := dispatch.InvokeEvent(g, core.Event{Kind: core.EventRaidSuccess, Side: core.SideRiftcaller, Room: &room, RaidID: raidID}); err != nil {
		return err
	}
	g.History.AddEvent(core.HistoryEvent{Kind: core.HistoryRaidSuccess, Side: core.SideRiftcaller, Room: &room})
	return nil
}

// failRaid ends the raid in failure, from the soft quit, a combat ability,
// or an end-raid effect.
func failRaid(g *core.GameState) error {
	r := g.Raid
	if r == nil {
		return nil
	}
	room := r.Target
	raidID := r.RaidID
	g.Raid = nil
	if err := dispatch.InvokeEvent(g, core.Event{Kind: core.EventRaidFailure, Side: core.SideRiftcaller, Room: &room, RaidID: raidID}); err != nil {
		return err
	}
	g.History.AddEvent(core.HistoryEvent{Kind: core.HistoryRaidFailure, Side: core.SideRiftcaller, Room: &room})
	return nil
}
