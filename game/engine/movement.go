package engine

// PredictedEndpoint returns where the ship ends up without burning fuel: its last
// vector plus the strong gravity carried from last turn and the chosen weak gravity.
func PredictedEndpoint(state ShipState, weakGravity []Vector) Position {
	total := state.Vector
	total = total.Add(SumVectors(state.StrongGravity))
	total = total.Add(SumVectors(weakGravity))
	return state.Position.Add(total)
}

// ActualEndpoint returns the predicted endpoint shifted by this turn's fuel burn
func ActualEndpoint(state ShipState, action Action) Position {
	return PredictedEndpoint(state, action.WeakGravity).Add(action.Acceleration)
}

// InOrbit reports whether a ship at pos moving by vec is coasting between two
// adjacent gravity hexes of the same astral body. Where rings overlap any shared
// body counts.
func InOrbit(pos Position, vec Vector, features []MapFeature) bool {
	if vec.Length() != OrbitSpeed {
		return false
	}

	here := gravityBodiesAt(features, pos)
	if len(here) == 0 {
		return false
	}

	for body := range gravityBodiesAt(features, pos.Add(vec)) {
		if here[body] {
			return true
		}
	}
	return false
}

// ResolveTurn computes one ship's turn from its start snapshot and the player's action.
// Rule violations are reported as crashed turns, never as errors.
func ResolveTurn(state ShipState, action Action, features []MapFeature) Turn {
	turn := Turn{
		ShipName:           state.Name,
		Action:             cloneAction(action),
		StartPosition:      state.Position,
		StartVector:        state.Vector,
		StartStrongGravity: cloneVectors(state.StrongGravity),
		NewStrongGravity:   []Vector{},
		NewWeakGravity:     []Vector{},
	}

	switch {
	case action.TakingOff:
		resolveTakeoff(&turn, state, action, features)
	case action.Landing:
		resolveLanding(&turn, state, action, features)
	case state.Position.Landed:
		stayPut(&turn, state, CrashMustTakeOff)
	default:
		resolveMove(&turn, state, action, features)
	}

	return turn
}

// resolveTakeoff launches a landed ship from its base by at most one hex
func resolveTakeoff(turn *Turn, state ShipState, action Action, features []MapFeature) {
	if !state.Position.Landed {
		stayPut(turn, state, CrashNotLanded)
		return
	}
	if action.Acceleration.Length() > MaxTakeoffBurn {
		stayPut(turn, state, CrashTakeoffTooLarge)
		return
	}
	if !HasFeatureAt(features, state.Position, Base) {
		stayPut(turn, state, CrashNoBase)
		return
	}

	newPos := state.Position.Add(action.Acceleration).WithLanded(false)
	turn.Path = []Position{state.Position, newPos}
	turn.NewPosition = newPos
	turn.NewVector = action.Acceleration
	turn.NewStrongGravity, turn.NewWeakGravity = GravityEffects(turn.Path, features)
	turn.InOrbit = false
}

// resolveLanding sets an orbiting ship down on the base at its endpoint
func resolveLanding(turn *Turn, state ShipState, action Action, features []MapFeature) {
	if !InOrbit(state.Position, state.Vector, features) {
		stayPut(turn, state, CrashNotInOrbit)
		return
	}
	if action.Acceleration.Length() != LandingBurn {
		stayPut(turn, state, CrashLandingFuel)
		return
	}

	endpoint := ActualEndpoint(state, action).WithLanded(false)
	if !HasFeatureAt(features, endpoint, Base) {
		turn.Path = []Position{state.Position, endpoint}
		turn.NewPosition = endpoint
		turn.NewVector = endpoint.Sub(state.Position)
		turn.Crashed = true
		turn.CrashReason = CrashNoBaseAtDestination
		return
	}

	landed := endpoint.WithLanded(true)
	turn.Path = []Position{state.Position, landed}
	turn.NewPosition = landed
	turn.NewVector = Vector{}
	turn.InOrbit = false
}

// resolveMove is ordinary vector movement with collision and gravity checks
func resolveMove(turn *Turn, state ShipState, action Action, features []MapFeature) {
	endpoint := ActualEndpoint(state, action).WithLanded(false)
	path := Path(state.Position, endpoint)

	crashed, reason := CheckCollision(path, features)
	strong, weak := GravityEffects(path, features)
	newVector := endpoint.Sub(state.Position)

	turn.Path = path
	turn.NewPosition = endpoint
	turn.NewVector = newVector
	turn.NewStrongGravity = strong
	turn.NewWeakGravity = weak
	turn.Crashed = crashed
	turn.CrashReason = reason
	turn.OffMap = reason == CrashOffMap
	turn.InOrbit = InOrbit(endpoint, newVector, features)
}

// stayPut records a crash that happens before the ship leaves its hex
func stayPut(turn *Turn, state ShipState, reason string) {
	turn.Path = []Position{state.Position}
	turn.NewPosition = state.Position
	turn.NewVector = state.Vector
	turn.Crashed = true
	turn.CrashReason = reason
}

// ExecuteMovementPhase resolves every ship independently. Ships without an order coast.
func ExecuteMovementPhase(states []ShipState, orders []Order, features []MapFeature) []Turn {
	actions := make(map[string]Action, len(orders))
	for _, o := range orders {
		actions[o.ShipName] = o.Action
	}

	turns := make([]Turn, 0, len(states))
	for _, state := range states {
		turns = append(turns, ResolveTurn(state, actions[state.Name], features))
	}
	return turns
}

func cloneAction(a Action) Action {
	if a.WeakGravity != nil {
		a.WeakGravity = cloneVectors(a.WeakGravity)
	}
	return a
}
