package game

import (
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/game/rules"
)

// Command is one entry of a client command list: either a logical game
// update to animate or a fresh view to reconcile against.
type Command struct {
	Update *core.GameUpdate `json:"update,omitempty"`
	View   *GameView        `json:"view,omitempty"`
}

// GameView is one side's visible snapshot of a game. Cards whose face the
// viewer may not see keep their identity fields empty; unrevealed deck
// cards are omitted entirely and show up only in the deck counts.
type GameView struct {
	GameID    string            `json:"game_id"`
	Viewer    core.Side         `json:"viewer"`
	Phase     string            `json:"phase"`
	Mulligans core.MulliganData `json:"mulligans,omitempty"`
	Turn      core.TurnData     `json:"turn"`
	TurnState core.TurnState    `json:"turn_state"`
	Winner    *core.Side        `json:"winner,omitempty"`
	Players   [2]PlayerView     `json:"players"`
	Cards     []CardView        `json:"cards"`
	Raid      *RaidView         `json:"raid,omitempty"`
	Prompt    *core.GamePrompt  `json:"prompt,omitempty"`
}

// PlayerView is the public face of one side plus hidden-zone counts.
type PlayerView struct {
	Side         core.Side `json:"side"`
	Mana         int       `json:"mana"`
	Actions      int       `json:"actions"`
	Score        int       `json:"score"`
	BonusPoints  int       `json:"bonus_points,omitempty"`
	Curses       int       `json:"curses,omitempty"`
	Wounds       int       `json:"wounds,omitempty"`
	Leylines     int       `json:"leylines,omitempty"`
	DeckCount    int       `json:"deck_count"`
	HandCount    int       `json:"hand_count"`
	DiscardCount int       `json:"discard_count"`
}

// CardView is one card as a side sees it. Identity fields are populated
// only when the face is visible to the viewer; counters are board-public
// and appear for any in-play card.
type CardView struct {
	ID         core.CardID       `json:"id"`
	Position   core.CardPosition `json:"position"`
	SortingKey uint64            `json:"sorting_key"`
	FaceUp     bool              `json:"face_up"`
	Revealed   bool              `json:"revealed"`
	Variant    core.CardVariant  `json:"variant,omitempty"`
	Name       string            `json:"name,omitempty"`
	Counters   core.CardCounters `json:"counters,omitempty"`
}

// RaidView is the public state of the in-flight raid. Choices are
// populated only for the side that must answer.
type RaidView struct {
	RaidID   uint32            `json:"raid_id"`
	Target   core.RoomID       `json:"target"`
	Step     string            `json:"step"`
	Minion   *core.CardID      `json:"minion,omitempty"`
	Accessed []core.CardID     `json:"accessed,omitempty"`
	Choices  []core.RaidChoice `json:"choices,omitempty"`
}

// GameView returns one side's current view of a game.
func (e *Engine) GameView(gameID string, side core.Side) (*GameView, error) {
	entry, err := e.entry(gameID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return buildGameView(entry.state, side), nil
}

// CommandList drains the side's pending commands, ending with a fresh view
// of the game so clients can reconcile after animating the updates.
func (e *Engine) CommandList(gameID string, side core.Side) ([]Command, error) {
	entry, err := e.entry(gameID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	commands := entry.outbox[side]
	entry.outbox[side] = nil
	commands = append(commands, Command{View: buildGameView(entry.state, side)})
	return commands, nil
}

// queueUpdates fans recorded updates out to each side's outbox, dropping
// entries the side may not observe.
func (entry *gameEntry) queueUpdates(steps []core.GameUpdate) {
	for i := range steps {
		for _, side := range core.Sides {
			if updateVisibleTo(steps[i], side) {
				entry.outbox[side] = append(entry.outbox[side], Command{Update: &steps[i]})
			}
		}
	}
}

// updateVisibleTo reports whether one update may be sent to a side.
// Reveals are private to the side gaining the information; prompt open and
// close events are private to the prompted side. Everything else is an
// observable board event and broadcasts.
func updateVisibleTo(update core.GameUpdate, side core.Side) bool {
	switch update.Kind {
	case core.UpdateRevealCard, core.UpdateShowPrompt, core.UpdateClosePrompt:
		return update.Side == side
	}
	return true
}

// buildGameView assembles one side's view. Surfacing the viewer's prompt
// may drop stale entries, which is why view construction runs under the
// game lock.
func buildGameView(g *core.GameState, viewer core.Side) *GameView {
	view := &GameView{
		GameID:    g.ID,
		Viewer:    viewer,
		Phase:     g.Info.Phase.Kind.String(),
		Mulligans: g.Info.Phase.Mulligans,
		Turn:      g.Info.Turn,
		TurnState: g.Info.TurnState,
	}
	if g.GameOver() {
		winner := g.Info.Phase.Winner
		view.Winner = &winner
	}
	for _, side := range core.Sides {
		player := g.Player(side)
		view.Players[side] = PlayerView{
			Side:         side,
			Mana:         player.Mana,
			Actions:      player.Actions,
			Score:        player.Score,
			BonusPoints:  player.BonusPoints,
			Curses:       player.Curses,
			Wounds:       player.Wounds,
			Leylines:     player.Leylines,
			DeckCount:    len(g.Deck(side)),
			HandCount:    len(g.Hand(side)),
			DiscardCount: len(g.DiscardPile(side)),
		}
		for _, card := range g.AllCards(side) {
			if card.Position.InDeck() && !card.RevealedTo(viewer) {
				continue
			}
			view.Cards = append(view.Cards, buildCardView(g, card, viewer))
		}
	}
	if g.Raid != nil {
		view.Raid = buildRaidView(g.Raid, viewer)
	}
	if prompt := rules.CurrentPrompt(g, viewer); prompt != nil {
		view.Prompt = prompt
	}
	return view
}

func buildCardView(g *core.GameState, card *core.CardState, viewer core.Side) CardView {
	view := CardView{
		ID:         card.ID,
		Position:   card.Position,
		SortingKey: card.SortingKey,
		FaceUp:     card.FaceUp,
	}
	if card.InPlay() {
		view.Counters = card.Counters
	}
	if card.FaceUp || card.RevealedTo(viewer) {
		view.Revealed = true
		view.Variant = card.Variant
		if def, err := g.Registry.Get(card.Variant); err == nil {
			view.Name = def.Name
		}
	}
	return view
}

func buildRaidView(raid *core.RaidData, viewer core.Side) *RaidView {
	view := &RaidView{
		RaidID:   raid.RaidID,
		Target:   raid.Target,
		Step:     raid.Step.String(),
		Minion:   raid.Minion,
		Accessed: append([]core.CardID(nil), raid.Accessed...),
	}
	if prompt := raid.PromptFor(viewer); prompt != nil {
		view.Choices = append([]core.RaidChoice(nil), prompt.Choices...)
	}
	return view
}
