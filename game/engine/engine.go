package engine

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrDuplicateShip = errors.New("ship already exists")
	ErrShipNotFound  = errors.New("ship not found")
	ErrInvalidShip   = errors.New("invalid ship")
)

// Ledger provides the main interface for game operations
type Ledger interface {
	// Roster
	AddShip(ship Ship) error
	GetShip(name string) (Ship, bool)
	Ships() []Ship

	// Turns
	AddTurn(shipName string, action Action) (Turn, error)
	AddTurns(orders []Order) ([]Turn, error)
	LastTurn(shipName string) (Turn, bool)
	Turns() []Turn
	TurnsFor(shipName string) []Turn

	// State
	CurrentState(shipName string) (ShipState, bool)
	Features() []MapFeature
}

var _ Ledger = (*Game)(nil)

// Game owns the map features, the ship roster and the append-only turn ledger.
// The ledger is the only source of a ship's current state.
type Game struct {
	features []MapFeature
	ships    []Ship
	index    map[string]int
	turns    []Turn
	mu       sync.Mutex
}

// NewGame creates a game on the given map with an optional starting roster
func NewGame(features []MapFeature, ships ...Ship) (*Game, error) {
	if err := ValidateFeatures(features); err != nil {
		return nil, err
	}

	g := &Game{
		features: append([]MapFeature(nil), features...),
		index:    make(map[string]int),
		turns:    []Turn{},
	}

	for _, ship := range ships {
		if err := g.addShip(ship); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// AddShip registers a ship. Names are unique within a game.
func (g *Game) AddShip(ship Ship) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addShip(ship)
}

func (g *Game) addShip(ship Ship) error {
	if ship.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidShip)
	}
	if _, exists := g.index[ship.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateShip, ship.Name)
	}
	g.index[ship.Name] = len(g.ships)
	g.ships = append(g.ships, ship)
	return nil
}

// GetShip returns a registered ship
func (g *Game) GetShip(name string) (Ship, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	i, ok := g.index[name]
	if !ok {
		return Ship{}, false
	}
	return g.ships[i], true
}

// Ships returns the roster in registration order
func (g *Game) Ships() []Ship {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Ship(nil), g.ships...)
}

// Features returns the map features
func (g *Game) Features() []MapFeature {
	return append([]MapFeature(nil), g.features...)
}

// LastTurn returns the most recent turn of a ship
func (g *Game) LastTurn(shipName string) (Turn, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastTurn(shipName)
}

func (g *Game) lastTurn(shipName string) (Turn, bool) {
	for i := len(g.turns) - 1; i >= 0; i-- {
		if g.turns[i].ShipName == shipName {
			return g.turns[i], true
		}
	}
	return Turn{}, false
}

// Turns returns a copy of the whole ledger in resolution order
func (g *Game) Turns() []Turn {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Turn(nil), g.turns...)
}

// TurnsFor returns the turns of one ship in resolution order
func (g *Game) TurnsFor(shipName string) []Turn {
	g.mu.Lock()
	defer g.mu.Unlock()

	result := []Turn{}
	for _, t := range g.turns {
		if t.ShipName == shipName {
			result = append(result, t)
		}
	}
	return result
}

// CurrentState returns the snapshot the ship's next turn starts from
func (g *Game) CurrentState(shipName string) (ShipState, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentState(shipName)
}

func (g *Game) currentState(shipName string) (ShipState, bool) {
	i, ok := g.index[shipName]
	if !ok {
		return ShipState{}, false
	}

	if last, ok := g.lastTurn(shipName); ok {
		return last.EndState(), true
	}

	return ShipState{
		Name:          shipName,
		Position:      g.ships[i].StartingPosition,
		StrongGravity: []Vector{},
	}, true
}

// AddTurn resolves the ship's next turn and appends it to the ledger
func (g *Game) AddTurn(shipName string, action Action) (Turn, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	state, ok := g.currentState(shipName)
	if !ok {
		return Turn{}, fmt.Errorf("%w: %s", ErrShipNotFound, shipName)
	}

	turn := ResolveTurn(state, action, g.features)
	turn.Number = g.turnCount(shipName) + 1
	g.turns = append(g.turns, turn)
	return turn, nil
}

// AddTurns resolves a movement phase: every start state is read before any of the
// phase's turns is appended. Each ship may appear at most once.
func (g *Game) AddTurns(orders []Order) ([]Turn, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	seen := make(map[string]bool, len(orders))
	states := make([]ShipState, 0, len(orders))
	for _, o := range orders {
		if seen[o.ShipName] {
			return nil, fmt.Errorf("%w: %s ordered twice in one phase", ErrInvalidShip, o.ShipName)
		}
		seen[o.ShipName] = true

		state, ok := g.currentState(o.ShipName)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrShipNotFound, o.ShipName)
		}
		states = append(states, state)
	}

	turns := ExecuteMovementPhase(states, orders, g.features)
	for i := range turns {
		turns[i].Number = g.turnCount(turns[i].ShipName) + 1
		g.turns = append(g.turns, turns[i])
	}
	return turns, nil
}

func (g *Game) turnCount(shipName string) int {
	n := 0
	for _, t := range g.turns {
		if t.ShipName == shipName {
			n++
		}
	}
	return n
}
