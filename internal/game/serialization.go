package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/game/dispatch"
)

// serializationVersion is folded into snapshots and checksums so format
// changes invalidate old blobs loudly instead of silently misreading them.
const serializationVersion = 1

// gameSnapshot is the serializable portion of a game. The registry, the
// delegate cache, and the event queue are reconstructed on restore; the
// random stream travels as its marshaled generator state.
type gameSnapshot struct {
	Version          int
	ID               string
	Info             core.GameInfo
	Players          [2]core.PlayerState
	Cards            [2][]core.CardState
	Raid             *core.RaidData
	Machines         core.StateMachines
	History          core.HistoryData
	Updates          core.UpdateTracker
	NextSortingKey   uint64
	NextMachineOrder uint64
	NextRaidID       uint32
	RngState         []byte
}

// Snapshot serializes a game with gob. The blob round-trips through
// RestoreSnapshot to an equivalent game: same checksum, same future
// random draws.
func Snapshot(g *core.GameState) ([]byte, error) {
	rngState, err := g.Rng.MarshalState()
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", g.ID, err)
	}
	snap := gameSnapshot{
		Version:          serializationVersion,
		ID:               g.ID,
		Info:             g.Info,
		Players:          g.Players,
		Cards:            g.Cards,
		Raid:             g.Raid,
		Machines:         g.Machines,
		History:          g.History,
		Updates:          g.Updates,
		NextSortingKey:   g.NextSortingKey,
		NextMachineOrder: g.NextMachineOrder,
		NextRaidID:       g.NextRaidID,
		RngState:         rngState,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&snap); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", g.ID, err)
	}
	return buf.Bytes(), nil
}

// RestoreSnapshot rebuilds a game from a Snapshot blob. The registry is
// reattached and the delegate cache repopulated; prompts sourced from
// abilities re-validate themselves the next time they surface.
func RestoreSnapshot(data []byte, registry *core.Registry) (*core.GameState, error) {
	var snap gameSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}
	if snap.Version != serializationVersion {
		return nil, fmt.Errorf("restore snapshot: version %d, want %d", snap.Version, serializationVersion)
	}
	rng, err := core.UnmarshalRngState(snap.RngState)
	if err != nil {
		return nil, fmt.Errorf("restore snapshot %s: %w", snap.ID, err)
	}
	g := &core.GameState{
		ID:               snap.ID,
		Info:             snap.Info,
		Players:          snap.Players,
		Cards:            snap.Cards,
		Raid:             snap.Raid,
		Machines:         snap.Machines,
		History:          snap.History,
		Updates:          snap.Updates,
		Rng:              rng,
		NextSortingKey:   snap.NextSortingKey,
		NextMachineOrder: snap.NextMachineOrder,
		NextRaidID:       snap.NextRaidID,
		Registry:         registry,
	}
	if err := dispatch.PopulateCache(g); err != nil {
		return nil, fmt.Errorf("restore snapshot %s: %w", snap.ID, err)
	}
	return g, nil
}

// Checksum computes a canonical SHA-256 of a game state. The representation
// sorts every collection and excludes derived and transient data, so two
// games created with the same seed and fed the same actions hash
// identically. Replay verification and divergence detection compare these.
func Checksum(g *core.GameState) (string, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "V%d|GAME:%s|%s|%s|%d|%d\n",
		serializationVersion, g.ID, g.Info.Phase.Kind,
		g.Info.Turn.Side, g.Info.Turn.Number, g.Info.TurnState)
	if g.GameOver() {
		fmt.Fprintf(&buf, "WINNER:%s\n", g.Info.Phase.Winner)
	}

	for _, side := range core.Sides {
		p := g.Player(side)
		fmt.Fprintf(&buf, "PLAYER:%s|%d|%d|%d|%d|%d|%d|%d|%d\n",
			side, p.Mana, p.Actions, p.Score, p.BonusPoints,
			p.Curses, p.Wounds, p.Leylines, len(p.Prompts.Entries))

		cards := append([]core.CardState(nil), g.Cards[side]...)
		sort.Slice(cards, func(i, j int) bool {
			return cards[i].ID.Index < cards[j].ID.Index
		})
		for i := range cards {
			card := &cards[i]
			fmt.Fprintf(&buf, "CARD:%s|%s|%s|%d|%t|%t|%t|%d|%d|%d\n",
				card.ID, card.Variant, card.Position, card.SortingKey,
				card.FaceUp, card.RevealedToOwner, card.RevealedToOpponent,
				card.Counters.Progress, card.Counters.StoredMana,
				card.Counters.PowerCharges)
		}
	}

	if g.Raid != nil {
		fmt.Fprintf(&buf, "RAID:%d|%s|%s|%d\n",
			g.Raid.RaidID, g.Raid.Target, g.Raid.Step, g.Raid.Encounter)
		if g.Raid.Minion != nil {
			fmt.Fprintf(&buf, "RAID_MINION:%s\n", g.Raid.Minion)
		}
		for _, id := range g.Raid.Accessed {
			fmt.Fprintf(&buf, "RAID_ACCESS:%s\n", id)
		}
	}

	m := &g.Machines
	fmt.Fprintf(&buf, "MACHINES:%d|%d|%d|%d|%d|%d|%d|%d\n",
		len(m.PlayCard), len(m.ActivateAbility), len(m.DealDamage),
		len(m.DrawCards), len(m.GiveCurses), len(m.GiveWounds),
		len(m.GiveLeylines), len(m.Destroy))
	fmt.Fprintf(&buf, "HISTORY:%d\n", len(g.History.Entries))
	fmt.Fprintf(&buf, "KEYS:%d|%d|%d\n",
		g.NextSortingKey, g.NextMachineOrder, g.NextRaidID)

	rngState, err := g.Rng.MarshalState()
	if err != nil {
		return "", fmt.Errorf("checksum %s: %w", g.ID, err)
	}
	fmt.Fprintf(&buf, "RNG:%s\n", hex.EncodeToString(rngState))

	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:]), nil
}
