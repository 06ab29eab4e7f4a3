// Command console runs a local two-player hot-seat game in the
// terminal. Both sides are driven from the same keyboard; the view
// follows whichever side has actions to take.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/riftcaller/riftcaller-server-go/internal/game"
	"github.com/riftcaller/riftcaller-server-go/internal/game/catalog"
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
)

const localGameID = "local"

var seed = flag.Uint64("seed", 0, "fixed RNG seed for a repeatable game (0 uses a random seed)")

func main() {
	flag.Parse()

	// The UI owns the terminal; engine logs are discarded.
	engine := game.NewEngine(zap.NewNop(), catalog.New())

	cfg := core.GameConfiguration{}
	if *seed != 0 {
		cfg.Deterministic = true
		cfg.Seed = *seed
	}
	err := engine.StartGame(localGameID, cfg, catalog.StandardCovenantDeck(), catalog.StandardRiftcallerDeck())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start game: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(newModel(engine), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Console error: %v\n", err)
		os.Exit(1)
	}
}
