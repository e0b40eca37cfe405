// Package engine provides the core movement rules for the Triplanetary game.
//
// The engine package implements the game mechanics including:
//   - Axial hex vector and position arithmetic
//   - Path interpolation between two hexes
//   - Collision detection against planets, asteroids and the map edge
//   - Gravity collected on entry and applied one turn later
//   - Landing, take-off and orbit validation
//   - The per-game ship roster and append-only turn ledger
//
// Core Types:
//
// The Ledger interface defines the main contract for game operations,
// implemented by Game. ResolveTurn is the side-effect free movement resolver;
// a Game only folds its turn history into the next start snapshot and appends
// the result. Scenario describes a map and roster loaded from JSON files.
//
// Usage:
//
//	scenario, err := engine.LoadScenario("configs/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	game, err := scenario.NewGame()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	turn, err := game.AddTurn("Pioneer", engine.Action{
//		Acceleration: engine.Vector{DX: 1, DY: 0},
//		TakingOff:    true,
//	})
//
// Game Rules:
//
// A ship repeats last turn's movement unless it burns fuel, which moves the
// endpoint by one hex. Gravity hexes entered during a turn pull the ship on
// the following turn: strong gravity always, weak gravity only when the player
// chooses it. Rule violations such as crashing into a planet or landing out of
// orbit are reported as crashed turns, not as errors.
package engine
