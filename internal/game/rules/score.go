package rules

import (
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/game/dispatch"
)

// AddPoints awards scheme points to a side and checks the win condition.
func AddPoints(g *core.GameState, side core.Side, points int) {
	g.Player(side).Score += points
	CheckPointsWin(g)
}

// GainBonusPoints awards bonus points, which count toward the win total
// but are tracked apart from scheme score.
func GainBonusPoints(g *core.GameState, side core.Side, points int) {
	g.Player(side).BonusPoints += points
	CheckPointsWin(g)
}

// CheckPointsWin ends the game when either side holds the winning total.
func CheckPointsWin(g *core.GameState) {
	if g.GameOver() {
		return
	}
	for _, side := range core.Sides {
		if g.Player(side).TotalScore() >= core.PointsToWin {
			SetGameOver(g, side)
			return
		}
	}
}

// SetGameOver moves the game to its terminal phase. The first winner
// recorded sticks; later calls are ignored.
func SetGameOver(g *core.GameState, winner core.Side) {
	if g.GameOver() {
		return
	}
	g.Info.Phase = core.GamePhase{Kind: core.PhaseGameOver, Winner: winner}
	w := winner
	g.RecordUpdate(core.GameUpdate{Kind: core.UpdateGameOver, Winner: &w})
}

// checkSchemeProgress scores an occupant scheme the moment its progress
// reaches the printed requirement.
func checkSchemeProgress(g *core.GameState, id core.CardID) error {
	card, err := g.Card(id)
	if err != nil {
		return internalf("%v", err)
	}
	if card.Position.Kind != core.PositionRoom || card.Position.Role != core.RoleOccupant {
		return nil
	}
	def, err := g.Definition(id)
	if err != nil {
		return internalf("%v", err)
	}
	points := def.Stats.Points
	if def.Type != core.TypeScheme || points == nil {
		return nil
	}
	if card.Counter(core.CounterProgress) < points.Progress {
		return nil
	}
	return scoreSchemeCard(g, id)
}

// scoreSchemeCard resolves scoring one scheme, whether by accumulated
// progress or by raid access. Points go to the scheme's owner and the card
// ends in the owner's scored pile.
func scoreSchemeCard(g *core.GameState, id core.CardID) error {
	card, err := g.Card(id)
	if err != nil {
		return internalf("%v", err)
	}
	def, err := g.Definition(id)
	if err != nil {
		return internalf("%v", err)
	}
	points := def.Stats.Points
	if points == nil {
		return internalf("card %s has no scheme points to score", id)
	}
	owner := id.Side
	if !card.FaceUp {
		if err := TurnFaceUp(g, id); err != nil {
			return err
		}
	}
	if err := MoveCard(g, id, core.ScoringPosition()); err != nil {
		return err
	}
	g.RecordUpdate(core.GameUpdate{Kind: core.UpdateScoreCard, Side: owner, Card: &id, Amount: points.Points})
	if err := dispatch.InvokeEvent(g, core.Event{Kind: core.EventCardScored, Side: owner, Card: &id, Amount: points.Points}); err != nil {
		return err
	}
	AddPoints(g, owner, points.Points)
	if err := MoveCard(g, id, core.ScoredPosition(owner)); err != nil {
		return err
	}
	g.TurnCounters(owner).SchemesScored++
	g.History.AddEvent(core.HistoryEvent{Kind: core.HistoryCardScored, Side: owner, Card: &id})
	return nil
}

// progressRoomOccupants adds one progress counter to every occupant of a
// room that accumulates progress. Schemes that reach their requirement
// score immediately.
func progressRoomOccupants(g *core.GameState, room core.RoomID) error {
	if !room.IsOuter() {
		return illegalf("only outer rooms can be progressed")
	}
	if !CanProgressRoom(g, room) {
		return illegalf("room %s cannot be progressed right now", room)
	}
	for _, occupant := range g.Occupants(room) {
		def, err := g.Definition(occupant.ID)
		if err != nil {
			return internalf("%v", err)
		}
		if def.Stats.Points == nil {
			continue
		}
		if err := AddProgress(g, occupant.ID, 1); err != nil {
			return err
		}
	}
	if g.GameOver() {
		return nil
	}
	target := room
	if err := dispatch.InvokeEvent(g, core.Event{Kind: core.EventRoomProgressed, Side: core.SideCovenant, Room: &target}); err != nil {
		return err
	}
	g.TurnCounters(core.SideCovenant).RoomsProgressed++
	g.History.AddEvent(core.HistoryEvent{Kind: core.HistoryRoomProgressed, Side: core.SideCovenant, Room: &target})
	return nil
}
